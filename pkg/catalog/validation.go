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

package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	miserrors "github.com/kitchenops/mise/pkg/errors"
)

// Slugify derives a URL-safe slug from a human name: lowercase, with every
// run of non-alphanumeric characters collapsed into a single hyphen.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}

	return b.String()
}

// FoldName normalizes a name for case-insensitive comparison using Unicode
// case folding, so variant-name uniqueness holds beyond ASCII.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// ValidateLine performs structural validation of a single ingredient line,
// before any store lookups.
func ValidateLine(line IngredientLine) error {
	if !line.SourceType.IsValid() {
		return miserrors.Newf(miserrors.ErrCodeInvalidRequest,
			"unknown ingredient source type %q", line.SourceType)
	}
	if strings.TrimSpace(line.SourceID) == "" {
		return miserrors.New(miserrors.ErrCodeInvalidRequest,
			"ingredient line is missing its source id")
	}
	if line.Quantity <= 0 {
		return miserrors.NewWithContext(miserrors.ErrCodeInvalidRequest,
			"ingredient quantity must be positive",
			map[string]any{"sourceId": line.SourceID, "quantity": line.Quantity})
	}
	if line.CostPerUnit < 0 {
		return miserrors.NewWithContext(miserrors.ErrCodeInvalidRequest,
			"ingredient cost per unit cannot be negative",
			map[string]any{"sourceId": line.SourceID, "costPerUnit": line.CostPerUnit})
	}
	return nil
}

// ValidateLines validates every line of an ingredient list. An empty list is
// allowed here; operations that require at least one line enforce that
// themselves.
func ValidateLines(lines []IngredientLine) error {
	for i, line := range lines {
		if err := ValidateLine(line); err != nil {
			return miserrors.WrapWithContext(miserrors.ErrCodeInvalidRequest,
				"invalid ingredient line", err, map[string]any{"index": i})
		}
	}
	return nil
}

// ValidateVariantNames enforces case-insensitive pairwise uniqueness of
// variant names within one recipe.
func ValidateVariantNames(names []string) error {
	seen := make(map[string]string, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return miserrors.New(miserrors.ErrCodeInvalidRequest,
				"variant name is required")
		}
		folded := FoldName(name)
		if prev, ok := seen[folded]; ok {
			return miserrors.NewWithContext(miserrors.ErrCodeInvalidRequest,
				"duplicate variant name",
				map[string]any{"name": name, "conflictsWith": prev})
		}
		seen[folded] = name
	}
	return nil
}

// Validate performs structural validation of a recipe document.
func (r *Recipe) Validate() error {
	if r == nil {
		return miserrors.New(miserrors.ErrCodeInvalidRequest, "recipe cannot be nil")
	}
	if strings.TrimSpace(r.Name) == "" {
		return miserrors.New(miserrors.ErrCodeInvalidRequest, "recipe name is required")
	}
	if len(r.Ingredients) == 0 {
		return miserrors.New(miserrors.ErrCodeInvalidRequest,
			"recipe requires at least one ingredient")
	}
	if r.Yield <= 0 {
		return miserrors.NewWithContext(miserrors.ErrCodeInvalidRequest,
			"recipe yield must be positive", map[string]any{"yield": r.Yield})
	}
	if r.Type != "" && !r.Type.IsValid() {
		return miserrors.Newf(miserrors.ErrCodeInvalidRequest,
			"unknown recipe type %q", r.Type)
	}
	return ValidateLines(r.Ingredients)
}

// Validate performs structural validation of a variant document.
func (v *RecipeVariant) Validate() error {
	if v == nil {
		return miserrors.New(miserrors.ErrCodeInvalidRequest, "variant cannot be nil")
	}
	if strings.TrimSpace(v.Name) == "" {
		return miserrors.New(miserrors.ErrCodeInvalidRequest, "variant name is required")
	}
	if v.SizeMultiplier <= 0 {
		return miserrors.NewWithContext(miserrors.ErrCodeInvalidRequest,
			"variant size multiplier must be positive",
			map[string]any{"name": v.Name, "sizeMultiplier": v.SizeMultiplier})
	}
	return ValidateLines(v.Ingredients)
}
