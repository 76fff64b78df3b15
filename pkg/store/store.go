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

package store

import (
	"context"

	"github.com/kitchenops/mise/pkg/catalog"
)

// InventoryLookup resolves inventory item ids to their canonical unit and
// unit cost. The engine consumes inventory, it never writes it.
type InventoryLookup interface {
	// GetItem returns the item or a NOT_FOUND structured error.
	GetItem(ctx context.Context, id string) (*catalog.InventoryItem, error)
}

// RecipePatch is a partial update of a recipe document. Nil fields are left
// untouched.
type RecipePatch struct {
	Name        *string
	Code        *string
	Type        *catalog.RecipeType
	Ingredients *[]catalog.IngredientLine
	Yield       *float64
	TotalCost   *float64
	IsActive    *bool
}

// RecipeStore is the durable home of recipe documents.
type RecipeStore interface {
	// GetRecipe returns the recipe by id or a NOT_FOUND structured error.
	GetRecipe(ctx context.Context, id string) (*catalog.Recipe, error)

	// GetRecipeBySlug returns the recipe by slug or a NOT_FOUND structured error.
	GetRecipeBySlug(ctx context.Context, slug string) (*catalog.Recipe, error)

	// CreateRecipe persists a new recipe, assigning an id when absent.
	CreateRecipe(ctx context.Context, r *catalog.Recipe) error

	// UpdateRecipe applies a partial update and returns the stored document.
	UpdateRecipe(ctx context.Context, id string, patch RecipePatch) (*catalog.Recipe, error)

	// DeleteRecipe removes a recipe document. Used by the orchestrator's
	// compensating cleanup; routine deletion belongs to external systems.
	DeleteRecipe(ctx context.Context, id string) error
}

// VariantStore is the durable home of recipe variant documents.
type VariantStore interface {
	// GetVariant returns the variant by id or a NOT_FOUND structured error.
	GetVariant(ctx context.Context, id string) (*catalog.RecipeVariant, error)

	// ListVariants returns all variants of a recipe, creation-ordered.
	ListVariants(ctx context.Context, recipeID string) ([]*catalog.RecipeVariant, error)

	// CreateVariant persists a new variant, assigning an id when absent.
	CreateVariant(ctx context.Context, v *catalog.RecipeVariant) error

	// DeleteVariant removes a variant document.
	DeleteVariant(ctx context.Context, id string) error
}

// TxRunner exposes the backend's multi-document transaction capability.
type TxRunner interface {
	// SupportsTransactions reports whether the backend can run multi-document
	// transactions right now. The orchestrator queries it once per creation.
	SupportsTransactions(ctx context.Context) bool

	// RunInTransaction executes fn atomically. The ctx passed to fn must be
	// used for every store call inside the transaction. Backends that do not
	// support transactions return an INTERNAL error.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store bundles every contract the engine needs from one backend.
type Store interface {
	InventoryLookup
	RecipeStore
	VariantStore
	TxRunner
}
