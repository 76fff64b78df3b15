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
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/kitchenops/mise/pkg/engine"
)

// runCommand executes the root command with args and returns the decoded
// output file content.
func runCommand(t *testing.T, outPath string, args ...string) error {
	t.Helper()
	full := append([]string{"mise"}, args...)
	full = append(full, "--output", outPath, "--format", "yaml")
	return rootCmd().Run(t.Context(), full)
}

func decodeOutput[T any](t *testing.T, path string) *T {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	var out T
	if err := yaml.Unmarshal(content, &out); err != nil {
		t.Fatalf("Failed to decode output: %v\n%s", err, content)
	}
	return &out
}

func TestCostCommand(t *testing.T) {
	catalog := writeTestCatalog(t)
	outPath := filepath.Join(t.TempDir(), "out.yaml")

	err := runCommand(t, outPath, "cost", "--catalog", catalog, "--recipe", "pizza-base")
	if err != nil {
		t.Fatalf("cost command failed: %v", err)
	}

	report := decodeOutput[costReport](t, outPath)
	if report.Slug != "pizza-base" {
		t.Errorf("Slug = %q, want pizza-base", report.Slug)
	}
	// dough 2.30 + 100g cheese at 0.01
	if diff := report.Breakdown.Total - 3.3; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Total = %v, want 3.3", report.Breakdown.Total)
	}
	if report.Breakdown.Lines[0].NameSnapshot != "Pizza Dough" {
		t.Errorf("Unexpected first line: %+v", report.Breakdown.Lines[0])
	}
}

func TestCostCommandUnknownRecipe(t *testing.T) {
	catalog := writeTestCatalog(t)
	outPath := filepath.Join(t.TempDir(), "out.yaml")

	err := runCommand(t, outPath, "cost", "--catalog", catalog, "--recipe", "nope")
	if err == nil {
		t.Fatal("Expected error for unknown recipe")
	}
	if !strings.Contains(err.Error(), "failed to find recipe") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestFlattenCommand(t *testing.T) {
	catalog := writeTestCatalog(t)
	outPath := filepath.Join(t.TempDir(), "out.yaml")

	err := runCommand(t, outPath, "flatten",
		"--catalog", catalog, "--recipe", "rec-pizza", "--quantity", "4")
	if err != nil {
		t.Fatalf("flatten command failed: %v", err)
	}

	report := decodeOutput[flattenReport](t, outPath)
	if report.Quantity != 4 {
		t.Errorf("Quantity = %v, want 4", report.Quantity)
	}

	want := map[string]float64{
		"item-cheese": 400,
		"item-flour":  2000,
		"item-water":  1200,
	}
	if len(report.Items) != len(want) {
		t.Fatalf("Expected %d items, got %d: %+v", len(want), len(report.Items), report.Items)
	}
	for _, line := range report.Items {
		if line.Quantity != want[line.ItemID] {
			t.Errorf("%s = %v, want %v", line.ItemID, line.Quantity, want[line.ItemID])
		}
		if line.Name == "" || line.Unit == "" {
			t.Errorf("%s missing name/unit enrichment: %+v", line.ItemID, line)
		}
	}
}

func TestCheckCommand(t *testing.T) {
	t.Run("clean catalog", func(t *testing.T) {
		catalog := writeTestCatalog(t)
		outPath := filepath.Join(t.TempDir(), "out.yaml")

		if err := runCommand(t, outPath, "check", "--catalog", catalog); err != nil {
			t.Fatalf("check command failed: %v", err)
		}

		report := decodeOutput[checkReport](t, outPath)
		if report.Checked != 2 || report.Cyclic != 0 {
			t.Errorf("Unexpected report: %+v", report)
		}
	})

	t.Run("cyclic catalog", func(t *testing.T) {
		cyclic := `recipes:
  - id: rec-a
    name: Loop A
    slug: loop-a
    yield: 1
    isActive: true
    ingredients:
      - sourceType: recipe
        sourceId: rec-b
        quantity: 1
        unit: unit
  - id: rec-b
    name: Loop B
    slug: loop-b
    yield: 1
    isActive: true
    ingredients:
      - sourceType: recipe
        sourceId: rec-a
        quantity: 1
        unit: unit
`
		catalog := writeTestFile(t, "cyclic.yaml", cyclic)
		outPath := filepath.Join(t.TempDir(), "out.yaml")

		err := runCommand(t, outPath, "check", "--catalog", catalog)
		if err == nil {
			t.Fatal("Expected error for cyclic catalog")
		}
		if !strings.Contains(err.Error(), "catalog check failed") {
			t.Errorf("Unexpected error: %v", err)
		}

		report := decodeOutput[checkReport](t, outPath)
		if report.Cyclic != 2 {
			t.Errorf("Cyclic = %d, want 2", report.Cyclic)
		}
	})
}

func TestCreateCommand(t *testing.T) {
	catalog := writeTestCatalog(t)
	input := writeTestFile(t, "margherita.yaml", `name: Pizza Margherita
type: final
ingredients:
  - sourceType: recipe
    sourceId: rec-dough
    quantity: 1
    unit: unit
  - sourceType: inventory
    sourceId: item-cheese
    quantity: 120
    unit: g
variants:
  - name: Family
    sizeMultiplier: 2
    ingredients:
      - sourceType: inventory
        sourceId: item-cheese
        quantity: 60
        unit: g
`)
	outPath := filepath.Join(t.TempDir(), "out.yaml")

	err := runCommand(t, outPath, "create", "--catalog", catalog, "--input", input)
	if err != nil {
		t.Fatalf("create command failed: %v", err)
	}

	res := decodeOutput[engine.CreationResult](t, outPath)
	if res.Recipe.Slug != "pizza-margherita" {
		t.Errorf("Slug = %q, want pizza-margherita", res.Recipe.Slug)
	}
	if res.Summary.VariantCount != 1 {
		t.Errorf("VariantCount = %d, want 1", res.Summary.VariantCount)
	}
	if len(res.Variants) != 1 || res.Variants[0].Name != "Family" {
		t.Errorf("Unexpected variants: %+v", res.Variants)
	}
}

func TestCreateCommandRequiresBackend(t *testing.T) {
	input := writeTestFile(t, "in.yaml", "name: X\ningredients: []\n")
	outPath := filepath.Join(t.TempDir(), "out.yaml")

	err := runCommand(t, outPath, "create", "--input", input)
	if err == nil {
		t.Fatal("Expected error without catalog or mongo-uri")
	}
	if !strings.Contains(err.Error(), "either --catalog or --mongo-uri is required") {
		t.Errorf("Unexpected error: %v", err)
	}
}
