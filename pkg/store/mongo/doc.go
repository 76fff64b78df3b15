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

// Package mongo provides a MongoDB-backed store.Store implementation.
//
// Documents map 1:1 onto the catalog types via their bson tags, with string
// uuids as _id values. Slug uniqueness relies on a unique index on
// recipes.slug, which deployment tooling is expected to create:
//
//	db.recipes.createIndex({slug: 1}, {unique: true})
//
// Whether multi-document transactions are available depends on the server
// topology: replica sets and sharded clusters support them, standalone
// servers do not. SupportsTransactions probes the topology with the hello
// command on every call so the answer tracks the deployment as it changes.
package mongo
