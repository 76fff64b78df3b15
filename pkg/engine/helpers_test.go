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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kitchenops/mise/pkg/catalog"
	"github.com/kitchenops/mise/pkg/store"
	"github.com/kitchenops/mise/pkg/store/memory"
)

func patchActive(active *bool) store.RecipePatch {
	return store.RecipePatch{IsActive: active}
}

// seedStore loads a small kitchen catalog used across the engine tests:
//
//	flour 0.002/g, water 0.0005/ml, cheese 0.01/g, tomato 0.004/g
//	dough (sub, yield 2):  1000g flour + 600ml water    -> total 2.30
//	pizza (final, yield 1): 1 dough + 100g cheese        -> total 3.30
func seedStore(t *testing.T, st *memory.Store) {
	t.Helper()

	st.PutItem(catalog.InventoryItem{ID: "item-flour", Name: "Flour", Unit: "g", UnitCost: 0.002})
	st.PutItem(catalog.InventoryItem{ID: "item-water", Name: "Water", Unit: "ml", UnitCost: 0.0005})
	st.PutItem(catalog.InventoryItem{ID: "item-cheese", Name: "Cheese", Unit: "g", UnitCost: 0.01})
	st.PutItem(catalog.InventoryItem{ID: "item-tomato", Name: "Tomato", Unit: "g", UnitCost: 0.004})

	dough := &catalog.Recipe{
		ID:   "rec-dough",
		Name: "Pizza Dough",
		Slug: "pizza-dough",
		Type: catalog.RecipeTypeSub,
		Ingredients: []catalog.IngredientLine{
			{SourceType: catalog.SourceInventory, SourceID: "item-flour", Quantity: 1000, Unit: "g", CostPerUnit: 0.002, TotalCost: 2.0},
			{SourceType: catalog.SourceInventory, SourceID: "item-water", Quantity: 600, Unit: "ml", CostPerUnit: 0.0005, TotalCost: 0.3},
		},
		Yield:     2,
		TotalCost: 2.3,
		IsActive:  true,
	}
	require.NoError(t, st.CreateRecipe(t.Context(), dough))

	pizza := &catalog.Recipe{
		ID:   "rec-pizza",
		Name: "Pizza Base",
		Slug: "pizza-base",
		Type: catalog.RecipeTypeFinal,
		Ingredients: []catalog.IngredientLine{
			{SourceType: catalog.SourceRecipe, SourceID: "rec-dough", Quantity: 1, Unit: "unit", CostPerUnit: 2.3, TotalCost: 2.3},
			{SourceType: catalog.SourceInventory, SourceID: "item-cheese", Quantity: 100, Unit: "g", CostPerUnit: 0.01, TotalCost: 1.0},
		},
		Yield:     1,
		TotalCost: 3.3,
		IsActive:  true,
	}
	require.NoError(t, st.CreateRecipe(t.Context(), pizza))
}
