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
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kitchenops/mise/pkg/catalog"
	miserrors "github.com/kitchenops/mise/pkg/errors"
	"github.com/kitchenops/mise/pkg/store"
)

// Compile-time contract assertion ensuring the store satisfies the engine interface.
var _ store.Store = (*Store)(nil)

// Config tunes the in-memory store.
type Config struct {
	// Transactions enables the RunInTransaction path, mimicking a
	// transaction-capable backend. Disabled, the store behaves like a
	// standalone deployment and the orchestrator falls back to
	// compensating cleanup.
	Transactions bool
}

type variantRec struct {
	variant catalog.RecipeVariant
	seq     int
}

// Store is a map-backed implementation of store.Store. It backs tests and
// the CLI's file-catalog mode.
//
// RunInTransaction snapshots and restores whole-state; it assumes a single
// writer, which holds for both of its intended uses.
type Store struct {
	mu         sync.RWMutex
	items      map[string]catalog.InventoryItem
	recipes    map[string]catalog.Recipe
	slugToID   map[string]string
	variants   map[string]variantRec
	variantSeq int
	supportsTx bool

	// OnCreateVariant, when set, runs before each variant write and can
	// veto it. Tests use it to force mid-creation persistence failures.
	OnCreateVariant func(v *catalog.RecipeVariant) error
}

// New creates an empty in-memory store without transaction support.
func New() *Store {
	return NewWithConfig(Config{})
}

// NewWithConfig creates an empty in-memory store with the given capabilities.
func NewWithConfig(cfg Config) *Store {
	return &Store{
		items:      map[string]catalog.InventoryItem{},
		recipes:    map[string]catalog.Recipe{},
		slugToID:   map[string]string{},
		variants:   map[string]variantRec{},
		supportsTx: cfg.Transactions,
	}
}

// PutItem seeds or replaces an inventory item. Inventory is owned by an
// external system; this exists so catalogs can be loaded for tests and CLI
// runs.
func (s *Store) PutItem(item catalog.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
}

// GetItem implements store.InventoryLookup.
func (s *Store) GetItem(_ context.Context, id string) (*catalog.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, miserrors.Newf(miserrors.ErrCodeNotFound, "inventory item %q not found", id)
	}
	out := item
	return &out, nil
}

// GetRecipe implements store.RecipeStore.
func (s *Store) GetRecipe(_ context.Context, id string) (*catalog.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, miserrors.Newf(miserrors.ErrCodeNotFound, "recipe %q not found", id)
	}
	return cloneRecipe(r), nil
}

// GetRecipeBySlug implements store.RecipeStore.
func (s *Store) GetRecipeBySlug(_ context.Context, slug string) (*catalog.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.slugToID[slug]
	if !ok {
		return nil, miserrors.Newf(miserrors.ErrCodeNotFound, "recipe with slug %q not found", slug)
	}
	r := s.recipes[id]
	return cloneRecipe(r), nil
}

// CreateRecipe implements store.RecipeStore.
func (s *Store) CreateRecipe(_ context.Context, r *catalog.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if _, exists := s.recipes[r.ID]; exists {
		return miserrors.Newf(miserrors.ErrCodeConflict, "recipe %q already exists", r.ID)
	}
	if owner, taken := s.slugToID[r.Slug]; taken {
		return miserrors.NewWithContext(miserrors.ErrCodeConflict,
			"recipe slug already exists",
			map[string]any{"slug": r.Slug, "recipeId": owner})
	}

	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	s.recipes[r.ID] = *cloneRecipe(*r)
	s.slugToID[r.Slug] = r.ID
	return nil
}

// UpdateRecipe implements store.RecipeStore.
func (s *Store) UpdateRecipe(_ context.Context, id string, patch store.RecipePatch) (*catalog.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, miserrors.Newf(miserrors.ErrCodeNotFound, "recipe %q not found", id)
	}

	if patch.Name != nil {
		r.Name = *patch.Name
	}
	if patch.Code != nil {
		r.Code = *patch.Code
	}
	if patch.Type != nil {
		r.Type = *patch.Type
	}
	if patch.Ingredients != nil {
		r.Ingredients = append([]catalog.IngredientLine(nil), (*patch.Ingredients)...)
	}
	if patch.Yield != nil {
		r.Yield = *patch.Yield
	}
	if patch.TotalCost != nil {
		r.TotalCost = *patch.TotalCost
	}
	if patch.IsActive != nil {
		r.IsActive = *patch.IsActive
	}
	r.UpdatedAt = time.Now().UTC()

	s.recipes[id] = r
	return cloneRecipe(r), nil
}

// DeleteRecipe implements store.RecipeStore.
func (s *Store) DeleteRecipe(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[id]
	if !ok {
		return miserrors.Newf(miserrors.ErrCodeNotFound, "recipe %q not found", id)
	}
	delete(s.recipes, id)
	delete(s.slugToID, r.Slug)
	return nil
}

// GetVariant implements store.VariantStore.
func (s *Store) GetVariant(_ context.Context, id string) (*catalog.RecipeVariant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.variants[id]
	if !ok {
		return nil, miserrors.Newf(miserrors.ErrCodeNotFound, "variant %q not found", id)
	}
	return cloneVariant(rec.variant), nil
}

// ListVariants implements store.VariantStore.
func (s *Store) ListVariants(_ context.Context, recipeID string) ([]*catalog.RecipeVariant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recs []variantRec
	for _, rec := range s.variants {
		if rec.variant.RecipeID == recipeID {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	out := make([]*catalog.RecipeVariant, 0, len(recs))
	for _, rec := range recs {
		out = append(out, cloneVariant(rec.variant))
	}
	return out, nil
}

// CreateVariant implements store.VariantStore.
func (s *Store) CreateVariant(_ context.Context, v *catalog.RecipeVariant) error {
	if s.OnCreateVariant != nil {
		if err := s.OnCreateVariant(v); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if _, exists := s.variants[v.ID]; exists {
		return miserrors.Newf(miserrors.ErrCodeConflict, "variant %q already exists", v.ID)
	}
	if _, ok := s.recipes[v.RecipeID]; !ok {
		return miserrors.Newf(miserrors.ErrCodeNotFound, "recipe %q not found", v.RecipeID)
	}

	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now

	s.variantSeq++
	s.variants[v.ID] = variantRec{variant: *cloneVariant(*v), seq: s.variantSeq}
	return nil
}

// DeleteVariant implements store.VariantStore.
func (s *Store) DeleteVariant(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.variants[id]; !ok {
		return miserrors.Newf(miserrors.ErrCodeNotFound, "variant %q not found", id)
	}
	delete(s.variants, id)
	return nil
}

// SupportsTransactions implements store.TxRunner.
func (s *Store) SupportsTransactions(_ context.Context) bool {
	return s.supportsTx
}

// RunInTransaction implements store.TxRunner by snapshotting the whole state
// and restoring it when fn fails.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.supportsTx {
		return miserrors.New(miserrors.ErrCodeInternal,
			"memory store was configured without transaction support")
	}

	snap := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// RecipeCount returns the number of stored recipes.
func (s *Store) RecipeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recipes)
}

// VariantCount returns the number of stored variants.
func (s *Store) VariantCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.variants)
}

type snapshot struct {
	items      map[string]catalog.InventoryItem
	recipes    map[string]catalog.Recipe
	slugToID   map[string]string
	variants   map[string]variantRec
	variantSeq int
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		items:      make(map[string]catalog.InventoryItem, len(s.items)),
		recipes:    make(map[string]catalog.Recipe, len(s.recipes)),
		slugToID:   make(map[string]string, len(s.slugToID)),
		variants:   make(map[string]variantRec, len(s.variants)),
		variantSeq: s.variantSeq,
	}
	for k, v := range s.items {
		snap.items[k] = v
	}
	for k, v := range s.recipes {
		snap.recipes[k] = *cloneRecipe(v)
	}
	for k, v := range s.slugToID {
		snap.slugToID[k] = v
	}
	for k, v := range s.variants {
		snap.variants[k] = variantRec{variant: *cloneVariant(v.variant), seq: v.seq}
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = snap.items
	s.recipes = snap.recipes
	s.slugToID = snap.slugToID
	s.variants = snap.variants
	s.variantSeq = snap.variantSeq
}

func cloneRecipe(r catalog.Recipe) *catalog.Recipe {
	out := r
	out.Ingredients = append([]catalog.IngredientLine(nil), r.Ingredients...)
	return &out
}

func cloneVariant(v catalog.RecipeVariant) *catalog.RecipeVariant {
	out := v
	out.Ingredients = append([]catalog.IngredientLine(nil), v.Ingredients...)
	return &out
}
