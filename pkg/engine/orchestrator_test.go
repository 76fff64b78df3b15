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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitchenops/mise/pkg/catalog"
	miserrors "github.com/kitchenops/mise/pkg/errors"
	"github.com/kitchenops/mise/pkg/store/memory"
)

func margheritaInput() CreateRecipeInput {
	return CreateRecipeInput{
		Name: "Pizza Margherita",
		Type: catalog.RecipeTypeFinal,
		Ingredients: []catalog.IngredientLine{
			{SourceType: catalog.SourceRecipe, SourceID: "rec-dough", Quantity: 1, Unit: "unit"},
			{SourceType: catalog.SourceInventory, SourceID: "item-cheese", Quantity: 120, Unit: "g"},
			{SourceType: catalog.SourceInventory, SourceID: "item-tomato", Quantity: 80, Unit: "g"},
		},
		Variants: []CreateVariantInput{
			{
				Name:           "Family",
				SizeMultiplier: 2,
				Ingredients: []catalog.IngredientLine{
					{SourceType: catalog.SourceInventory, SourceID: "item-cheese", Quantity: 60, Unit: "g"},
				},
			},
			{
				Name:               "Boxed",
				BaseCostAdjustment: 0.5,
			},
		},
	}
}

func TestCreateRecipeWithVariants(t *testing.T) {
	tests := []struct {
		name         string
		transactions bool
	}{
		{name: "transactional backend", transactions: true},
		{name: "compensating backend", transactions: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := memory.NewWithConfig(memory.Config{Transactions: tc.transactions})
			seedStore(t, st)

			res, err := New(st).CreateRecipeWithVariants(t.Context(), margheritaInput())
			require.NoError(t, err)
			require.NotNil(t, res)

			rec := res.Recipe
			assert.NotEmpty(t, rec.ID)
			assert.Equal(t, "pizza-margherita", rec.Slug)
			assert.True(t, rec.IsActive)

			// dough 2.30 + cheese 120*0.01 + tomato 80*0.004
			assert.InDelta(t, 3.82, rec.TotalCost, 1e-9)
			assert.Equal(t, "Pizza Dough", rec.Ingredients[0].NameSnapshot)

			require.Len(t, res.Variants, 2)
			family, boxed := res.Variants[0], res.Variants[1]

			// 60g cheese * 0.01 = 0.60, scaled by the multiplier. The base
			// recipe's cost never leaks in.
			assert.Equal(t, "Family", family.Name)
			assert.InDelta(t, 1.2, family.TotalCost, 1e-9)

			// No own lines: only the flat adjustment.
			assert.Equal(t, "Boxed", boxed.Name)
			assert.InDelta(t, 0.5, boxed.TotalCost, 1e-9)
			assert.InDelta(t, 1, boxed.SizeMultiplier, 1e-9)

			assert.Equal(t, 2, res.Summary.VariantCount)
			assert.Equal(t, 4, res.Summary.IngredientCount)
			assert.Positive(t, res.Summary.Elapsed)

			stored, err := st.ListVariants(t.Context(), rec.ID)
			require.NoError(t, err)
			assert.Len(t, stored, 2)
		})
	}
}

func TestCreateRolledBackOnVariantCostingFailure(t *testing.T) {
	for _, tc := range []struct {
		name         string
		transactions bool
	}{
		{name: "transactional backend", transactions: true},
		{name: "compensating backend", transactions: false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			st := memory.NewWithConfig(memory.Config{Transactions: tc.transactions})
			seedStore(t, st)

			in := margheritaInput()
			in.Variants[1].Ingredients = []catalog.IngredientLine{
				{SourceType: catalog.SourceInventory, SourceID: "item-unobtainium", Quantity: 1, Unit: "g"},
			}

			before := st.RecipeCount()
			res, err := New(st).CreateRecipeWithVariants(t.Context(), in)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, miserrors.IsNotFound(err), "original error must surface unchanged: %v", err)

			assert.Equal(t, before, st.RecipeCount())
			assert.Zero(t, st.VariantCount())
		})
	}
}

func TestCreateCompensatesAfterVariantWriteFailure(t *testing.T) {
	st := memory.New()
	seedStore(t, st)

	// Let the first variant land, fail the second write.
	calls := 0
	st.OnCreateVariant = func(v *catalog.RecipeVariant) error {
		calls++
		if calls >= 2 {
			return miserrors.New(miserrors.ErrCodeInternal, "disk full")
		}
		return nil
	}

	before := st.RecipeCount()
	_, err := New(st).CreateRecipeWithVariants(t.Context(), margheritaInput())
	require.Error(t, err)
	assert.Equal(t, miserrors.ErrCodeInternal, miserrors.CodeOf(err))

	// Compensation removed both the surviving variant and the base.
	assert.Equal(t, before, st.RecipeCount())
	assert.Zero(t, st.VariantCount())
}

func TestCreateValidationFailures(t *testing.T) {
	st := memory.New()
	seedStore(t, st)
	e := New(st)

	t.Run("duplicate variant names", func(t *testing.T) {
		in := margheritaInput()
		in.Variants[1].Name = "FAMILY"
		before := st.RecipeCount()

		_, err := e.CreateRecipeWithVariants(t.Context(), in)
		require.Error(t, err)
		assert.True(t, miserrors.IsInvalid(err))
		assert.Equal(t, before, st.RecipeCount())
	})

	t.Run("slug conflict", func(t *testing.T) {
		in := margheritaInput()
		in.Name = "Pizza Base"

		_, err := e.CreateRecipeWithVariants(t.Context(), in)
		require.Error(t, err)
		assert.True(t, miserrors.IsConflict(err))
	})

	t.Run("unknown sub-recipe reference", func(t *testing.T) {
		in := margheritaInput()
		in.Ingredients[0].SourceID = "rec-ghost"

		_, err := e.CreateRecipeWithVariants(t.Context(), in)
		require.Error(t, err)
		assert.True(t, miserrors.IsNotFound(err))
	})

	t.Run("no ingredients", func(t *testing.T) {
		in := margheritaInput()
		in.Ingredients = nil

		_, err := e.CreateRecipeWithVariants(t.Context(), in)
		require.Error(t, err)
		assert.True(t, miserrors.IsInvalid(err))
	})

	t.Run("name without slug material", func(t *testing.T) {
		in := margheritaInput()
		in.Name = "!!!"
		in.Slug = ""

		_, err := e.CreateRecipeWithVariants(t.Context(), in)
		require.Error(t, err)
		assert.True(t, miserrors.IsInvalid(err))
	})

	t.Run("negative size multiplier", func(t *testing.T) {
		in := margheritaInput()
		in.Variants[0].SizeMultiplier = -1

		_, err := e.CreateRecipeWithVariants(t.Context(), in)
		require.Error(t, err)
		assert.True(t, miserrors.IsInvalid(err))
	})
}

func TestCreateAppliesDefaults(t *testing.T) {
	st := memory.New()
	seedStore(t, st)

	res, err := New(st).CreateRecipeWithVariants(t.Context(), CreateRecipeInput{
		Name: "House Focaccia!",
		Ingredients: []catalog.IngredientLine{
			{SourceType: catalog.SourceInventory, SourceID: "item-flour", Quantity: 500, Unit: "g"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "house-focaccia", res.Recipe.Slug)
	assert.Equal(t, catalog.RecipeTypeFinal, res.Recipe.Type)
	assert.InDelta(t, 1, res.Recipe.Yield, 1e-9)
	assert.Empty(t, res.Variants)
	assert.Equal(t, 0, res.Summary.VariantCount)
	assert.Equal(t, 1, res.Summary.IngredientCount)
}
