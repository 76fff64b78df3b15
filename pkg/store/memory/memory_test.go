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

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitchenops/mise/pkg/catalog"
	miserrors "github.com/kitchenops/mise/pkg/errors"
	"github.com/kitchenops/mise/pkg/store"
)

func testRecipe(slug string) *catalog.Recipe {
	return &catalog.Recipe{
		Name:  slug,
		Slug:  slug,
		Type:  catalog.RecipeTypeFinal,
		Yield: 1,
		Ingredients: []catalog.IngredientLine{
			{SourceType: catalog.SourceInventory, SourceID: "dough", Quantity: 200, Unit: "g"},
		},
		IsActive: true,
	}
}

func TestInventoryLookup(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutItem(catalog.InventoryItem{ID: "dough", Name: "Dough", Unit: "g", UnitCost: 0.01})

	item, err := s.GetItem(ctx, "dough")
	require.NoError(t, err)
	assert.Equal(t, "g", item.Unit)
	assert.InDelta(t, 0.01, item.UnitCost, 1e-9)

	_, err = s.GetItem(ctx, "caviar")
	assert.True(t, miserrors.IsNotFound(err))
}

func TestRecipeCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	r := testRecipe("pizza-base")
	require.NoError(t, s.CreateRecipe(ctx, r))
	require.NotEmpty(t, r.ID, "create must assign an id")

	byID, err := s.GetRecipe(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "pizza-base", byID.Slug)

	bySlug, err := s.GetRecipeBySlug(ctx, "pizza-base")
	require.NoError(t, err)
	assert.Equal(t, r.ID, bySlug.ID)

	// Slug uniqueness is enforced at the store level too.
	dup := testRecipe("pizza-base")
	err = s.CreateRecipe(ctx, dup)
	assert.True(t, miserrors.IsConflict(err))

	newCost := 3.5
	updated, err := s.UpdateRecipe(ctx, r.ID, store.RecipePatch{TotalCost: &newCost})
	require.NoError(t, err)
	assert.InDelta(t, 3.5, updated.TotalCost, 1e-9)
	assert.Equal(t, "pizza-base", updated.Slug, "patch must not clear unrelated fields")

	require.NoError(t, s.DeleteRecipe(ctx, r.ID))
	_, err = s.GetRecipe(ctx, r.ID)
	assert.True(t, miserrors.IsNotFound(err))
	_, err = s.GetRecipeBySlug(ctx, "pizza-base")
	assert.True(t, miserrors.IsNotFound(err), "slug index must be cleaned on delete")
}

func TestGetRecipeReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	r := testRecipe("pizza-base")
	require.NoError(t, s.CreateRecipe(ctx, r))

	got, err := s.GetRecipe(ctx, r.ID)
	require.NoError(t, err)
	got.Ingredients[0].Quantity = 999

	again, err := s.GetRecipe(ctx, r.ID)
	require.NoError(t, err)
	assert.InDelta(t, 200, again.Ingredients[0].Quantity, 1e-9,
		"mutating a returned document must not touch stored state")
}

func TestVariantCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()
	r := testRecipe("pizza")
	require.NoError(t, s.CreateRecipe(ctx, r))

	small := &catalog.RecipeVariant{RecipeID: r.ID, Name: "Small", SizeMultiplier: 0.7}
	large := &catalog.RecipeVariant{RecipeID: r.ID, Name: "Large", SizeMultiplier: 1.5}
	require.NoError(t, s.CreateVariant(ctx, small))
	require.NoError(t, s.CreateVariant(ctx, large))

	// Variants must reference an existing recipe.
	orphan := &catalog.RecipeVariant{RecipeID: "ghost", Name: "X", SizeMultiplier: 1}
	assert.True(t, miserrors.IsNotFound(s.CreateVariant(ctx, orphan)))

	list, err := s.ListVariants(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Small", list[0].Name, "list order follows creation order")
	assert.Equal(t, "Large", list[1].Name)

	require.NoError(t, s.DeleteVariant(ctx, small.ID))
	list, err = s.ListVariants(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Large", list[0].Name)
}

func TestRunInTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewWithConfig(Config{Transactions: true})
	require.True(t, s.SupportsTransactions(ctx))

	err := s.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.CreateRecipe(txCtx, testRecipe("pizza")); err != nil {
			return err
		}
		return miserrors.New(miserrors.ErrCodeInternal, "boom")
	})
	require.Error(t, err)

	assert.Equal(t, 0, s.RecipeCount(), "failed transaction must leave no writes behind")
	_, err = s.GetRecipeBySlug(ctx, "pizza")
	assert.True(t, miserrors.IsNotFound(err))
}

func TestRunInTransactionCommits(t *testing.T) {
	ctx := context.Background()
	s := NewWithConfig(Config{Transactions: true})

	err := s.RunInTransaction(ctx, func(txCtx context.Context) error {
		return s.CreateRecipe(txCtx, testRecipe("pizza"))
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.RecipeCount())
}

func TestRunInTransactionWithoutSupport(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.False(t, s.SupportsTransactions(ctx))

	err := s.RunInTransaction(ctx, func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Equal(t, miserrors.ErrCodeInternal, miserrors.CodeOf(err))
}

func TestOnCreateVariantHook(t *testing.T) {
	ctx := context.Background()
	s := New()
	r := testRecipe("pizza")
	require.NoError(t, s.CreateRecipe(ctx, r))

	s.OnCreateVariant = func(v *catalog.RecipeVariant) error {
		if v.Name == "Cursed" {
			return miserrors.New(miserrors.ErrCodeInternal, "injected write failure")
		}
		return nil
	}

	ok := &catalog.RecipeVariant{RecipeID: r.ID, Name: "Fine", SizeMultiplier: 1}
	require.NoError(t, s.CreateVariant(ctx, ok))

	bad := &catalog.RecipeVariant{RecipeID: r.ID, Name: "Cursed", SizeMultiplier: 1}
	require.Error(t, s.CreateVariant(ctx, bad))
	assert.Equal(t, 1, s.VariantCount())
}
