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

package cli

import (
	"context"
	"fmt"

	"github.com/kitchenops/mise/pkg/catalog"
	miserrors "github.com/kitchenops/mise/pkg/errors"
	"github.com/kitchenops/mise/pkg/serializer"
	"github.com/kitchenops/mise/pkg/store/memory"
)

// Catalog is the file payload the CLI commands operate on: a flat list of
// inventory items and recipes, loaded into an in-memory store per invocation.
type Catalog struct {
	Items   []catalog.InventoryItem `json:"items" yaml:"items"`
	Recipes []catalog.Recipe        `json:"recipes" yaml:"recipes"`
}

// loadCatalog reads a catalog file and seeds an in-memory store with its
// contents. Recipes keep the ids and slugs they carry in the file.
func loadCatalog(ctx context.Context, path string) (*memory.Store, *Catalog, error) {
	cat, err := serializer.FromFile[Catalog](path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog from %q: %w", path, err)
	}

	st := memory.New()
	for _, item := range cat.Items {
		st.PutItem(item)
	}
	for i := range cat.Recipes {
		rec := cat.Recipes[i]
		if rec.ID == "" {
			return nil, nil, fmt.Errorf("catalog recipe %q is missing an id", rec.Name)
		}
		if rec.Slug == "" {
			rec.Slug = catalog.Slugify(rec.Name)
		}
		if err := st.CreateRecipe(ctx, &rec); err != nil {
			return nil, nil, fmt.Errorf("failed to load catalog recipe %q: %w", rec.Name, err)
		}
	}
	return st, cat, nil
}

// findRecipe resolves a --recipe argument against the store, trying the id
// first and falling back to the slug.
func findRecipe(ctx context.Context, st *memory.Store, ref string) (*catalog.Recipe, error) {
	rec, err := st.GetRecipe(ctx, ref)
	if err == nil {
		return rec, nil
	}
	if !miserrors.IsNotFound(err) {
		return nil, err
	}
	return st.GetRecipeBySlug(ctx, ref)
}
