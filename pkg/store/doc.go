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

// Package store defines the storage contracts the resolution engine depends
// on: inventory lookup, recipe and variant CRUD, and the transaction
// capability probe.
//
// Two implementations ship with the module:
//
//   - store/memory: map-backed, for tests and file-catalog CLI runs, with
//     configurable transaction support so both orchestrator paths can be
//     exercised.
//   - store/mongo: MongoDB-backed, probing the server topology to decide
//     whether multi-document transactions are available.
//
// All lookups return structured errors from pkg/errors; a missing document
// is always a NOT_FOUND code, never a nil result.
package store
