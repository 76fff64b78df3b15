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

	"github.com/kitchenops/mise/pkg/catalog"
	miserrors "github.com/kitchenops/mise/pkg/errors"
	"github.com/kitchenops/mise/pkg/store"
)

// Engine is the cost and consumption resolution entry point. It composes the
// cost resolver, cycle detector, consumption flattener, and the creation
// orchestrator over a single store.
type Engine struct {
	store store.Store

	resolver     *CostResolver
	cycles       *CycleDetector
	flattener    *Flattener
	orchestrator *orchestrator
}

// New builds an Engine over the given store.
func New(st store.Store) *Engine {
	resolver := NewCostResolver(st, st)
	cycles := NewCycleDetector(st)
	return &Engine{
		store:        st,
		resolver:     resolver,
		cycles:       cycles,
		flattener:    NewFlattener(st),
		orchestrator: newOrchestrator(st, resolver, cycles),
	}
}

// ResolveCost resolves and snapshots costs for a list of ingredient lines.
func (e *Engine) ResolveCost(ctx context.Context, lines []catalog.IngredientLine) (*CostBreakdown, error) {
	return e.resolver.Resolve(ctx, lines)
}

// ResolveVariantCost recomputes the total cost of a stored variant from its
// own ingredient lines:
//
//	total = sum(own lines) * sizeMultiplier + baseCostAdjustment
//
// The base recipe's cost never enters the calculation.
func (e *Engine) ResolveVariantCost(ctx context.Context, variantID string) (float64, error) {
	v, err := e.store.GetVariant(ctx, variantID)
	if err != nil {
		return 0, err
	}
	multiplier := v.SizeMultiplier
	if multiplier == 0 {
		multiplier = 1
	}
	if len(v.Ingredients) == 0 {
		return v.BaseCostAdjustment, nil
	}
	breakdown, err := e.resolver.Resolve(ctx, v.Ingredients)
	if err != nil {
		return 0, err
	}
	return breakdown.Total*multiplier + v.BaseCostAdjustment, nil
}

// HasCycle reports whether adding the given sub-recipe references to parentID
// would create a circular dependency.
func (e *Engine) HasCycle(ctx context.Context, parentID string, subRecipeIDs []string) (bool, error) {
	return e.cycles.HasCycle(ctx, parentID, subRecipeIDs)
}

// FlattenConsumption expands a recipe into raw inventory consumption for the
// requested quantity of output units. Keys are inventory item ids.
func (e *Engine) FlattenConsumption(ctx context.Context, recipeID string, quantity float64) (map[string]float64, error) {
	return e.flattener.Flatten(ctx, recipeID, quantity)
}

// CreateRecipeWithVariants atomically creates a recipe and its variants. See
// the orchestrator for the transaction and compensation semantics.
func (e *Engine) CreateRecipeWithVariants(ctx context.Context, in CreateRecipeInput) (*CreationResult, error) {
	return e.orchestrator.create(ctx, in)
}

// UpdateRecipe applies a patch to an existing recipe. When the patch changes
// the ingredient list, the cycle check and cost resolution run synchronously
// before anything is persisted, so a stored recipe's totalCost always matches
// its stored lines.
func (e *Engine) UpdateRecipe(ctx context.Context, id string, patch store.RecipePatch) (*catalog.Recipe, error) {
	if patch.Ingredients != nil {
		lines := *patch.Ingredients
		// The creation path rejects empty ingredient lists; an update must
		// not be a back door into that state.
		if len(lines) == 0 {
			return nil, miserrors.NewWithContext(miserrors.ErrCodeInvalidRequest,
				"recipe requires at least one ingredient",
				map[string]any{"recipeId": id})
		}
		if err := catalog.ValidateLines(lines); err != nil {
			return nil, err
		}

		subIDs := make([]string, 0, len(lines))
		for _, line := range lines {
			if line.SourceType == catalog.SourceRecipe {
				subIDs = append(subIDs, line.SourceID)
			}
		}
		cyclic, err := e.cycles.HasCycle(ctx, id, subIDs)
		if err != nil {
			return nil, err
		}
		if cyclic {
			return nil, miserrors.NewWithContext(miserrors.ErrCodeInvalidRequest,
				"recipe update would create a circular reference",
				map[string]any{"recipeId": id})
		}

		breakdown, err := e.resolver.Resolve(ctx, lines)
		if err != nil {
			return nil, err
		}
		patch.Ingredients = &breakdown.Lines
		patch.TotalCost = &breakdown.Total
	}

	return e.store.UpdateRecipe(ctx, id, patch)
}
