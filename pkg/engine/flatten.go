// Copyright (c) 2025, KitchenOps Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/kitchenops/mise/pkg/catalog"
	miserrors "github.com/kitchenops/mise/pkg/errors"
	"github.com/kitchenops/mise/pkg/store"
)

// Flattener expands a recipe into the raw inventory consumption needed to
// produce a requested quantity, recursing through sub-recipes.
type Flattener struct {
	recipes store.RecipeStore
}

// NewFlattener creates a flattener over the given recipe store.
func NewFlattener(recipes store.RecipeStore) *Flattener {
	return &Flattener{recipes: recipes}
}

// Flatten returns inventory item id -> aggregated quantity for producing the
// requested quantity of the recipe. A zero quantity defaults to one.
//
// The same inventory item reached through two different sub-recipe paths has
// its quantities summed. Re-entering a recipe already on the active call
// stack fails fast as a cycle; sibling reuse of a sub-recipe (a diamond) is
// legal because ids leave the active set post-order.
func (f *Flattener) Flatten(ctx context.Context, recipeID string, quantity float64) (map[string]float64, error) {
	start := time.Now()
	defer func() {
		flattenDuration.Observe(time.Since(start).Seconds())
	}()

	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, miserrors.NewWithContext(miserrors.ErrCodeInvalidRequest,
			"requested quantity must be positive", map[string]any{"quantity": quantity})
	}

	consumption := make(map[string]float64)
	active := make(map[string]bool)
	if err := f.expand(ctx, recipeID, quantity, active, consumption); err != nil {
		return nil, err
	}

	slog.Debug("recipe flattened",
		"recipeId", recipeID, "quantity", quantity, "items", len(consumption))
	return consumption, nil
}

func (f *Flattener) expand(
	ctx context.Context,
	recipeID string,
	quantity float64,
	active map[string]bool,
	consumption map[string]float64,
) error {
	if active[recipeID] {
		cycleRejections.Inc()
		return miserrors.NewWithContext(miserrors.ErrCodeInvalidRequest,
			"circular recipe reference encountered during flattening",
			map[string]any{"recipeId": recipeID})
	}

	rec, err := f.recipes.GetRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if !rec.IsActive {
		return miserrors.NewWithContext(miserrors.ErrCodeInvalidRequest,
			"recipe is inactive", map[string]any{"recipeId": recipeID})
	}
	if rec.Yield <= 0 {
		return miserrors.NewWithContext(miserrors.ErrCodeInvalidRequest,
			"recipe has a non-positive yield", map[string]any{"recipeId": recipeID, "yield": rec.Yield})
	}

	active[recipeID] = true
	defer delete(active, recipeID)

	perUnitFactor := quantity / rec.Yield
	for _, line := range rec.Ingredients {
		switch line.SourceType {
		case catalog.SourceInventory:
			consumption[line.SourceID] += line.Quantity * perUnitFactor
		case catalog.SourceRecipe:
			if err := f.expand(ctx, line.SourceID, line.Quantity*perUnitFactor, active, consumption); err != nil {
				return err
			}
		default:
			return miserrors.Newf(miserrors.ErrCodeInvalidRequest,
				"unknown ingredient source type %q", line.SourceType)
		}
	}
	return nil
}
