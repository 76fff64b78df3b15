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

import "time"

// SourceType discriminates the two kinds of ingredient lines.
type SourceType string

const (
	// SourceInventory marks a line consuming a raw inventory item.
	SourceInventory SourceType = "inventory"
	// SourceRecipe marks a line consuming another recipe as a sub-recipe.
	SourceRecipe SourceType = "recipe"
)

// IsValid reports whether the source type is one of the known values.
func (s SourceType) IsValid() bool {
	return s == SourceInventory || s == SourceRecipe
}

// RecipeType classifies how a recipe is intended to be used.
type RecipeType string

const (
	// RecipeTypeSub marks a recipe intended only as an ingredient of other recipes.
	RecipeTypeSub RecipeType = "sub"
	// RecipeTypeFinal marks a sellable, standalone recipe.
	RecipeTypeFinal RecipeType = "final"
)

// IsValid reports whether the recipe type is one of the known values.
func (r RecipeType) IsValid() bool {
	return r == RecipeTypeSub || r == RecipeTypeFinal
}

// InventoryItem is the engine's read-only view of an inventory record.
// Inventory storage itself belongs to an external system; the engine only
// consumes the canonical unit and the configured unit cost.
type InventoryItem struct {
	ID       string  `json:"id" yaml:"id" bson:"_id"`
	Name     string  `json:"name" yaml:"name" bson:"name"`
	Unit     string  `json:"unit" yaml:"unit" bson:"unit"`
	UnitCost float64 `json:"unitCost" yaml:"unitCost" bson:"unit_cost"`
}

// IngredientLine is one line of a recipe or variant ingredient list.
//
// NameSnapshot, CostPerUnit, and TotalCost are stamped at resolution time.
// They are snapshots, not live references: a later inventory price change
// leaves them stale until the next explicit recompute.
type IngredientLine struct {
	SourceType SourceType `json:"sourceType" yaml:"sourceType" bson:"source_type"`
	SourceID   string     `json:"sourceId" yaml:"sourceId" bson:"source_id"`
	Quantity   float64    `json:"quantity" yaml:"quantity" bson:"quantity"`
	Unit       string     `json:"unit" yaml:"unit" bson:"unit"`

	NameSnapshot string  `json:"nameSnapshot,omitempty" yaml:"nameSnapshot,omitempty" bson:"name_snapshot,omitempty"`
	CostPerUnit  float64 `json:"costPerUnit,omitempty" yaml:"costPerUnit,omitempty" bson:"cost_per_unit,omitempty"`
	TotalCost    float64 `json:"totalCost,omitempty" yaml:"totalCost,omitempty" bson:"total_cost,omitempty"`
}

// Recipe is a stored recipe document: an ordered ingredient list plus the
// denormalized total cost of executing the recipe once.
type Recipe struct {
	ID          string           `json:"id" yaml:"id" bson:"_id"`
	Name        string           `json:"name" yaml:"name" bson:"name"`
	Slug        string           `json:"slug" yaml:"slug" bson:"slug"`
	Code        string           `json:"code,omitempty" yaml:"code,omitempty" bson:"code,omitempty"`
	Type        RecipeType       `json:"type" yaml:"type" bson:"type"`
	Ingredients []IngredientLine `json:"ingredients" yaml:"ingredients" bson:"ingredients"`

	// Yield is how many output units one full execution produces.
	Yield float64 `json:"yield" yaml:"yield" bson:"yield"`

	// TotalCost is recomputed synchronously on every create or update that
	// touches Ingredients.
	TotalCost float64 `json:"totalCost" yaml:"totalCost" bson:"total_cost"`

	IsActive  bool      `json:"isActive" yaml:"isActive" bson:"is_active"`
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty" bson:"updated_at"`
}

// SubRecipeIDs returns the ids of the recipe-typed ingredient lines, in order.
func (r *Recipe) SubRecipeIDs() []string {
	var ids []string
	for _, line := range r.Ingredients {
		if line.SourceType == SourceRecipe {
			ids = append(ids, line.SourceID)
		}
	}
	return ids
}

// RecipeVariant is a size, flavor, or packaging variation of a parent recipe.
//
// A variant's cost never derives from the base recipe's ingredient list; it is
// the sum of the variant's own lines, scaled by SizeMultiplier, plus the flat
// BaseCostAdjustment.
type RecipeVariant struct {
	ID       string `json:"id" yaml:"id" bson:"_id"`
	RecipeID string `json:"recipeId" yaml:"recipeId" bson:"recipe_id"`
	Name     string `json:"name" yaml:"name" bson:"name"`

	SizeMultiplier     float64 `json:"sizeMultiplier" yaml:"sizeMultiplier" bson:"size_multiplier"`
	BaseCostAdjustment float64 `json:"baseCostAdjustment" yaml:"baseCostAdjustment" bson:"base_cost_adjustment"`

	Ingredients []IngredientLine `json:"ingredients,omitempty" yaml:"ingredients,omitempty" bson:"ingredients,omitempty"`
	TotalCost   float64          `json:"totalCost" yaml:"totalCost" bson:"total_cost"`

	IsActive  bool      `json:"isActive" yaml:"isActive" bson:"is_active"`
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty" bson:"updated_at"`
}
