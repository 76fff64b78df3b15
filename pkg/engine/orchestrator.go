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
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kitchenops/mise/pkg/catalog"
	miserrors "github.com/kitchenops/mise/pkg/errors"
	"github.com/kitchenops/mise/pkg/store"
)

// creationState names one step of the orchestrated creation. FAILED is
// reachable from every other state.
type creationState string

const (
	stateValidating         creationState = "VALIDATING"
	stateCostingBase        creationState = "COSTING_BASE"
	statePersistingBase     creationState = "PERSISTING_BASE"
	stateCostingVariants    creationState = "COSTING_VARIANTS"
	statePersistingVariants creationState = "PERSISTING_VARIANTS"
	stateCommitted          creationState = "COMMITTED"
	stateFailed             creationState = "FAILED"
)

// maxConcurrentVariantCosting bounds the errgroup fan-out while costing
// variant ingredient lists.
const maxConcurrentVariantCosting = 4

// CreateVariantInput describes one variant to create with its parent recipe.
type CreateVariantInput struct {
	Name string `json:"name" yaml:"name"`

	// SizeMultiplier scales the variant's own ingredient cost. Zero means 1.
	SizeMultiplier float64 `json:"sizeMultiplier,omitempty" yaml:"sizeMultiplier,omitempty"`

	// BaseCostAdjustment is a flat add/subtract applied after ingredient
	// summation (packaging, fixed labor).
	BaseCostAdjustment float64 `json:"baseCostAdjustment,omitempty" yaml:"baseCostAdjustment,omitempty"`

	// Ingredients are the variant's own additional/override lines. They are
	// not a copy of the base recipe's list; without them the variant's
	// ingredient cost is zero.
	Ingredients []catalog.IngredientLine `json:"ingredients,omitempty" yaml:"ingredients,omitempty"`
}

// CreateRecipeInput is the payload for an orchestrated creation.
type CreateRecipeInput struct {
	Name string `json:"name" yaml:"name"`

	// Slug is derived from Name when empty.
	Slug string `json:"slug,omitempty" yaml:"slug,omitempty"`

	Code string             `json:"code,omitempty" yaml:"code,omitempty"`
	Type catalog.RecipeType `json:"type,omitempty" yaml:"type,omitempty"`

	// Yield defaults to 1 when zero.
	Yield float64 `json:"yield,omitempty" yaml:"yield,omitempty"`

	Ingredients []catalog.IngredientLine `json:"ingredients" yaml:"ingredients"`
	Variants    []CreateVariantInput     `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// CreationSummary describes what an orchestrated creation produced.
type CreationSummary struct {
	VariantCount    int           `json:"variantCount" yaml:"variantCount"`
	IngredientCount int           `json:"ingredientCount" yaml:"ingredientCount"`
	Elapsed         time.Duration `json:"elapsed" yaml:"elapsed"`
}

// CreationResult is the success response of an orchestrated creation. Both
// the transactional and compensating paths converge on this shape.
type CreationResult struct {
	Recipe   *catalog.Recipe          `json:"recipe" yaml:"recipe"`
	Variants []*catalog.RecipeVariant `json:"variants" yaml:"variants"`
	Summary  CreationSummary          `json:"summary" yaml:"summary"`
}

// orchestrator drives the create-recipe-with-variants state machine.
//
// When the backend supports multi-document transactions, every persistence
// step runs inside one transaction and a failure aborts it wholesale. On a
// standalone backend the orchestrator falls back to a best-effort saga:
// failures after persistence began trigger compensating deletes before the
// original error is surfaced unchanged. A crash between a write and its
// compensating delete can orphan a document; reconciling those is an
// out-of-band concern.
type orchestrator struct {
	store    store.Store
	resolver *CostResolver
	cycles   *CycleDetector
}

func newOrchestrator(st store.Store, resolver *CostResolver, cycles *CycleDetector) *orchestrator {
	return &orchestrator{
		store:    st,
		resolver: resolver,
		cycles:   cycles,
	}
}

func (o *orchestrator) create(ctx context.Context, in CreateRecipeInput) (*CreationResult, error) {
	start := time.Now()
	defer func() {
		createDuration.Observe(time.Since(start).Seconds())
	}()

	state := stateValidating
	recipe, err := o.validate(ctx, in)
	if err != nil {
		return nil, o.fail(state, err)
	}

	state = stateCostingBase
	breakdown, err := o.resolver.Resolve(ctx, recipe.Ingredients)
	if err != nil {
		return nil, o.fail(state, err)
	}
	recipe.Ingredients = breakdown.Lines
	recipe.TotalCost = breakdown.Total

	var (
		variants      []*catalog.RecipeVariant
		basePersisted bool
	)
	persist := func(writeCtx context.Context) error {
		state = statePersistingBase
		slog.Debug("creation state", "state", state, "slug", recipe.Slug)
		if err := o.store.CreateRecipe(writeCtx, recipe); err != nil {
			return err
		}
		basePersisted = true

		// Variant costing is read-only and fans out; it stays on the outer
		// ctx because a mongo session context must not be shared across
		// goroutines.
		state = stateCostingVariants
		slog.Debug("creation state", "state", state, "variants", len(in.Variants))
		costed, err := o.costVariants(ctx, recipe.ID, in.Variants)
		if err != nil {
			return err
		}

		state = statePersistingVariants
		slog.Debug("creation state", "state", state)
		for _, v := range costed {
			if err := o.store.CreateVariant(writeCtx, v); err != nil {
				return err
			}
			variants = append(variants, v)
		}
		return nil
	}

	if o.store.SupportsTransactions(ctx) {
		err = o.store.RunInTransaction(ctx, persist)
	} else {
		err = o.persistCompensating(ctx, recipe, persist, &basePersisted)
	}
	if err != nil {
		return nil, o.fail(state, err)
	}

	state = stateCommitted
	elapsed := time.Since(start)
	slog.Info("recipe created",
		"state", state,
		"recipeId", recipe.ID,
		"slug", recipe.Slug,
		"variants", len(variants),
		"totalCost", recipe.TotalCost,
		"elapsed", elapsed,
	)

	return &CreationResult{
		Recipe:   recipe,
		Variants: variants,
		Summary: CreationSummary{
			VariantCount:    len(variants),
			IngredientCount: countIngredients(recipe, variants),
			Elapsed:         elapsed,
		},
	}, nil
}

// validate covers the VALIDATING step: required fields, defaults, variant
// name uniqueness, slug collision, and the pre-write cycle check.
func (o *orchestrator) validate(ctx context.Context, in CreateRecipeInput) (*catalog.Recipe, error) {
	recipe := &catalog.Recipe{
		Name:        strings.TrimSpace(in.Name),
		Slug:        strings.TrimSpace(in.Slug),
		Code:        strings.TrimSpace(in.Code),
		Type:        in.Type,
		Yield:       in.Yield,
		Ingredients: in.Ingredients,
		IsActive:    true,
	}
	if recipe.Slug == "" {
		recipe.Slug = catalog.Slugify(recipe.Name)
	}
	// A name with no alphanumeric characters derives an empty slug; every
	// such recipe would collide on it.
	if recipe.Slug == "" {
		return nil, miserrors.NewWithContext(miserrors.ErrCodeInvalidRequest,
			"recipe name does not derive a usable slug, provide one explicitly",
			map[string]any{"name": recipe.Name})
	}
	if recipe.Type == "" {
		recipe.Type = catalog.RecipeTypeFinal
	}
	if recipe.Yield == 0 {
		recipe.Yield = 1
	}

	if err := recipe.Validate(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(in.Variants))
	for _, v := range in.Variants {
		names = append(names, v.Name)
		if err := catalog.ValidateLines(v.Ingredients); err != nil {
			return nil, err
		}
		if v.SizeMultiplier < 0 {
			return nil, miserrors.NewWithContext(miserrors.ErrCodeInvalidRequest,
				"variant size multiplier cannot be negative",
				map[string]any{"name": v.Name, "sizeMultiplier": v.SizeMultiplier})
		}
	}
	if err := catalog.ValidateVariantNames(names); err != nil {
		return nil, err
	}

	if _, err := o.store.GetRecipeBySlug(ctx, recipe.Slug); err == nil {
		return nil, miserrors.NewWithContext(miserrors.ErrCodeConflict,
			"recipe slug already exists", map[string]any{"slug": recipe.Slug})
	} else if !miserrors.IsNotFound(err) {
		return nil, err
	}

	subIDs := recipe.SubRecipeIDs()
	for _, v := range in.Variants {
		for _, line := range v.Ingredients {
			if line.SourceType == catalog.SourceRecipe {
				subIDs = append(subIDs, line.SourceID)
			}
		}
	}
	// A fresh recipe has no id yet, so no chain can reach back to it; the
	// walk still verifies every referenced sub-recipe exists before any
	// write happens.
	cyclic, err := o.cycles.HasCycle(ctx, "", subIDs)
	if err != nil {
		return nil, err
	}
	if cyclic {
		return nil, miserrors.New(miserrors.ErrCodeInvalidRequest,
			"recipe ingredients would create a circular reference")
	}

	return recipe, nil
}

// costVariants covers the COSTING_VARIANTS step, resolving every variant's
// own ingredient lines concurrently. Results keep input order.
func (o *orchestrator) costVariants(ctx context.Context, recipeID string, inputs []CreateVariantInput) ([]*catalog.RecipeVariant, error) {
	variants := make([]*catalog.RecipeVariant, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentVariantCosting)
	for i, in := range inputs {
		g.Go(func() error {
			v := &catalog.RecipeVariant{
				RecipeID:           recipeID,
				Name:               strings.TrimSpace(in.Name),
				SizeMultiplier:     in.SizeMultiplier,
				BaseCostAdjustment: in.BaseCostAdjustment,
				Ingredients:        in.Ingredients,
				IsActive:           true,
			}
			if v.SizeMultiplier == 0 {
				v.SizeMultiplier = 1
			}

			if len(in.Ingredients) > 0 {
				breakdown, err := o.resolver.Resolve(gctx, in.Ingredients)
				if err != nil {
					return err
				}
				v.Ingredients = breakdown.Lines
				v.TotalCost = breakdown.Total*v.SizeMultiplier + v.BaseCostAdjustment
			} else {
				// No own lines: the variant costs only its flat adjustment.
				// Base recipe cost is never inherited.
				v.TotalCost = v.BaseCostAdjustment
			}

			variants[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return variants, nil
}

// persistCompensating runs persist on a backend without transactions and
// unwinds with best-effort deletes when it fails partway.
func (o *orchestrator) persistCompensating(ctx context.Context, recipe *catalog.Recipe, persist func(ctx context.Context) error, basePersisted *bool) error {
	err := persist(ctx)
	if err == nil {
		return nil
	}

	if !*basePersisted {
		// The base insert itself failed; nothing was written.
		return err
	}

	compensationRuns.Inc()
	slog.Warn("creation failed after persistence began, running compensating cleanup",
		"recipeId", recipe.ID, "slug", recipe.Slug, "error", err)

	created, listErr := o.store.ListVariants(ctx, recipe.ID)
	if listErr != nil {
		compensationFailures.Inc()
		slog.Error("compensating cleanup could not list variants, manual intervention required",
			"recipeId", recipe.ID, "error", listErr)
	}
	for _, v := range created {
		if derr := o.store.DeleteVariant(ctx, v.ID); derr != nil {
			compensationFailures.Inc()
			slog.Error("compensating variant delete failed, manual intervention required",
				"variantId", v.ID, "recipeId", recipe.ID, "error", derr)
		}
	}
	if derr := o.store.DeleteRecipe(ctx, recipe.ID); derr != nil {
		compensationFailures.Inc()
		slog.Error("compensating recipe delete failed, manual intervention required",
			"recipeId", recipe.ID, "error", derr)
	}

	// Cleanup failures are logged above; the caller gets the original error.
	return err
}

func (o *orchestrator) fail(state creationState, err error) error {
	slog.Debug("creation failed", "state", state, "terminal", stateFailed, "error", err)
	return err
}

func countIngredients(recipe *catalog.Recipe, variants []*catalog.RecipeVariant) int {
	n := len(recipe.Ingredients)
	for _, v := range variants {
		n += len(v.Ingredients)
	}
	return n
}
