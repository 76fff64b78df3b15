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

// Package cli implements the command-line interface for the mise tool.
//
// # Overview
//
// The mise CLI resolves recipe costs, flattens recipes into raw inventory
// consumption, checks catalogs for circular references, and creates recipes
// with variants atomically. Commands operate on a catalog file (YAML or JSON)
// loaded into an in-memory store, or, for create, directly against MongoDB.
//
// # Commands
//
// cost - Resolve a recipe's ingredient cost:
//
//	mise cost --catalog kitchen.yaml --recipe pizza-base [--format table]
//
// flatten - Aggregate raw inventory consumption:
//
//	mise flatten --catalog kitchen.yaml --recipe pizza-base --quantity 3
//
// check - Detect circular recipe references:
//
//	mise check --catalog kitchen.yaml
//
// create - Atomically create a recipe with variants:
//
//	mise create --catalog kitchen.yaml --input margherita.yaml
//	mise create --mongo-uri mongodb://localhost:27017 --input margherita.yaml
//
// # Catalog Files
//
// A catalog file holds the inventory items and recipes the commands resolve
// against:
//
//	items:
//	  - id: item-flour
//	    name: Flour
//	    unit: g
//	    unitCost: 0.002
//	recipes:
//	  - id: rec-dough
//	    name: Pizza Dough
//	    type: sub
//	    yield: 2
//	    isActive: true
//	    ingredients:
//	      - sourceType: inventory
//	        sourceId: item-flour
//	        quantity: 1000
//	        unit: g
//
// # Global Flags
//
//	--output, -o   Output file path (default: stdout)
//	--format, -t   Output format: yaml, json, table (default: yaml)
//
// # Environment Variables
//
//	LOG_LEVEL       Set logging verbosity (debug, info, warn, error)
//	MISE_CATALOG    Default catalog file path
//	MISE_MONGO_URI  Default MongoDB connection URI for create
//	MISE_MONGO_DB   Default MongoDB database name for create
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/kitchenops/mise/pkg/cli.version=1.0.0'"
package cli
