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

	"github.com/kitchenops/mise/pkg/store"
)

// CycleDetector guards recipe-of-recipe chains against circular references.
//
// Each HasCycle call is self-contained: it re-walks the graph fresh with a
// per-call visited set, trading repeated reads for correctness against graph
// mutations between calls. There is no cross-call memoization.
//
// Known gap: two concurrent writers whose updates are individually acyclic
// can interleave into a cycle; this walk is a best-effort check, not a
// serialization guarantee. Closing it would need a graph-wide lock or
// version-stamped optimistic concurrency on every recipe touched mid-walk.
type CycleDetector struct {
	recipes store.RecipeStore
}

// NewCycleDetector creates a detector over the given recipe store.
func NewCycleDetector(recipes store.RecipeStore) *CycleDetector {
	return &CycleDetector{recipes: recipes}
}

// HasCycle reports whether making parentID depend on subRecipeIDs would close
// a cycle. parentID may be empty for a recipe that is not persisted yet; a
// recipe nobody references cannot be reached, so the answer is then false,
// but the walk still verifies every referenced recipe exists.
//
// A recipe listing itself is the degenerate one-hop case and falls out of the
// same walk. Must run before any write that changes a recipe's ingredients.
func (d *CycleDetector) HasCycle(ctx context.Context, parentID string, subRecipeIDs []string) (bool, error) {
	visited := make(map[string]bool)
	for _, subID := range subRecipeIDs {
		found, err := d.walk(ctx, parentID, subID, visited)
		if err != nil {
			return false, err
		}
		if found {
			cycleRejections.Inc()
			slog.Debug("circular recipe reference detected",
				"parentId", parentID, "via", subID)
			return true, nil
		}
	}
	return false, nil
}

func (d *CycleDetector) walk(ctx context.Context, targetID, id string, visited map[string]bool) (bool, error) {
	if targetID != "" && id == targetID {
		return true, nil
	}
	if visited[id] {
		return false, nil
	}
	visited[id] = true

	rec, err := d.recipes.GetRecipe(ctx, id)
	if err != nil {
		return false, err
	}

	for _, subID := range rec.SubRecipeIDs() {
		found, err := d.walk(ctx, targetID, subID, visited)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}
