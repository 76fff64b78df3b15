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

// Package errors provides structured error handling for the recipe engine.
//
// Every failure surfaced by the engine carries one of a small set of codes:
//
//   - NOT_FOUND: a referenced inventory item, recipe, or variant is missing
//   - INVALID_REQUEST: unit mismatch, circular dependency, duplicate variant
//     name, empty ingredient list, missing required field, inactive recipe
//   - CONFLICT: slug already taken by another recipe
//   - INTERNAL: anything else
//
// All codes are terminal for the current call; the engine never retries.
// Callers branch on codes with the predicate helpers:
//
//	if errors.IsNotFound(err) {
//	    // 404 territory
//	}
//
// Errors wrap their cause, so errors.Is and errors.As walk the full chain.
package errors
