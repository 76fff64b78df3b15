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
	"os"
	"path/filepath"
	"testing"
)

const testCatalogYAML = `items:
  - id: item-flour
    name: Flour
    unit: g
    unitCost: 0.002
  - id: item-water
    name: Water
    unit: ml
    unitCost: 0.0005
  - id: item-cheese
    name: Cheese
    unit: g
    unitCost: 0.01
recipes:
  - id: rec-dough
    name: Pizza Dough
    slug: pizza-dough
    type: sub
    yield: 2
    totalCost: 2.3
    isActive: true
    ingredients:
      - sourceType: inventory
        sourceId: item-flour
        quantity: 1000
        unit: g
      - sourceType: inventory
        sourceId: item-water
        quantity: 600
        unit: ml
  - id: rec-pizza
    name: Pizza Base
    slug: pizza-base
    type: final
    yield: 1
    totalCost: 3.3
    isActive: true
    ingredients:
      - sourceType: recipe
        sourceId: rec-dough
        quantity: 1
        unit: unit
      - sourceType: inventory
        sourceId: item-cheese
        quantity: 100
        unit: g
`

// writeTestCatalog writes the shared test catalog to a temp file and returns
// its path.
func writeTestCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(testCatalogYAML), 0o644); err != nil {
		t.Fatalf("Failed to write test catalog: %v", err)
	}
	return path
}

// writeTestFile writes content to a temp file with the given name and returns
// its path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}
