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

// CostBreakdown is the result of resolving an ingredient list: every line
// stamped with its name snapshot, resolved cost per unit, and line total,
// plus the sum over all lines.
type CostBreakdown struct {
	Lines []catalog.IngredientLine `json:"lines" yaml:"lines"`
	Total float64                  `json:"total" yaml:"total"`
}

// CostResolver computes ingredient costs from current inventory and recipe
// state. It is pure apart from its two lookups and performs no writes, so a
// failed resolution never leaves anything behind.
type CostResolver struct {
	inventory store.InventoryLookup
	recipes   store.RecipeStore
}

// NewCostResolver creates a resolver over the given lookups.
func NewCostResolver(inventory store.InventoryLookup, recipes store.RecipeStore) *CostResolver {
	return &CostResolver{
		inventory: inventory,
		recipes:   recipes,
	}
}

// Resolve enriches every line and sums the line totals.
//
// Inventory lines must carry the item's canonical unit; a mismatch is a hard
// stop, never a conversion. A line's CostPerUnit of zero means "use the
// item's configured cost". Recipe lines price the sub-recipe as one
// indivisible unit at its current TotalCost; its internal detail is not
// inlined.
func (r *CostResolver) Resolve(ctx context.Context, lines []catalog.IngredientLine) (*CostBreakdown, error) {
	start := time.Now()
	defer func() {
		resolveDuration.Observe(time.Since(start).Seconds())
	}()

	if err := catalog.ValidateLines(lines); err != nil {
		return nil, err
	}

	out := CostBreakdown{
		Lines: make([]catalog.IngredientLine, 0, len(lines)),
	}
	for i, line := range lines {
		resolved, err := r.resolveLine(ctx, line)
		if err != nil {
			return nil, miserrors.WrapWithContext(miserrors.CodeOf(err),
				"ingredient resolution failed", err,
				map[string]any{"index": i, "sourceId": line.SourceID})
		}
		out.Lines = append(out.Lines, resolved)
		out.Total += resolved.TotalCost
	}

	slog.Debug("ingredient list resolved", "lines", len(out.Lines), "total", out.Total)
	return &out, nil
}

func (r *CostResolver) resolveLine(ctx context.Context, line catalog.IngredientLine) (catalog.IngredientLine, error) {
	switch line.SourceType {
	case catalog.SourceInventory:
		item, err := r.inventory.GetItem(ctx, line.SourceID)
		if err != nil {
			return line, err
		}
		if line.Unit != item.Unit {
			// No unit-conversion table exists; "ml" against a "g" item is
			// an input error, not a conversion opportunity.
			return line, miserrors.NewWithContext(miserrors.ErrCodeInvalidRequest,
				"ingredient unit does not match the inventory item's canonical unit",
				map[string]any{"item": item.ID, "expected": item.Unit, "got": line.Unit})
		}
		if line.CostPerUnit == 0 {
			line.CostPerUnit = item.UnitCost
		}
		line.NameSnapshot = item.Name

	case catalog.SourceRecipe:
		sub, err := r.recipes.GetRecipe(ctx, line.SourceID)
		if err != nil {
			return line, err
		}
		if !sub.IsActive {
			return line, miserrors.NewWithContext(miserrors.ErrCodeInvalidRequest,
				"sub-recipe is inactive", map[string]any{"recipeId": sub.ID})
		}
		line.NameSnapshot = sub.Name
		line.CostPerUnit = sub.TotalCost

	default:
		return line, miserrors.Newf(miserrors.ErrCodeInvalidRequest,
			"unknown ingredient source type %q", line.SourceType)
	}

	line.TotalCost = line.Quantity * line.CostPerUnit
	return line, nil
}
