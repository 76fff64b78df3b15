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

// Package catalog defines the recipe domain model shared by the stores and
// the resolution engine.
//
// A Recipe is a directed graph node: its ingredient lines reference either
// raw inventory items or other recipes (sub-recipes). RecipeVariant records
// hang off a parent recipe and carry their own additional ingredient lines,
// a size multiplier, and a flat cost adjustment.
//
// The package also holds structural validation that needs no store access:
// line shape, positive quantities, slug derivation, and case-insensitive
// variant-name uniqueness. Anything requiring a lookup (unit consistency,
// existence, cycles) lives in pkg/engine.
package catalog
