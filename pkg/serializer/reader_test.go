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

package serializer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{path: "catalog.json", want: FormatJSON},
		{path: "catalog.yaml", want: FormatYAML},
		{path: "catalog.yml", want: FormatYAML},
		{path: "CATALOG.YAML", want: FormatYAML},
		{path: "report.txt", want: FormatTable},
		{path: "report.table", want: FormatTable},
		{path: "noextension", want: FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatFromPath(tt.path); got != tt.want {
				t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestReader_DeserializeJSON(t *testing.T) {
	reader, err := NewReader(FormatJSON, strings.NewReader(`{"name":"margherita","cost":3.82}`))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	var got testEntry
	if err := reader.Deserialize(&got); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if got.Name != "margherita" || got.Cost != 3.82 {
		t.Errorf("Unexpected data: %+v", got)
	}
}

func TestReader_DeserializeYAML(t *testing.T) {
	reader, err := NewReader(FormatYAML, strings.NewReader("name: margherita\ncost: 3.82\n"))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	var got testEntry
	if err := reader.Deserialize(&got); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if got.Name != "margherita" {
		t.Errorf("Unexpected data: %+v", got)
	}
}

func TestNewReader_RejectsTable(t *testing.T) {
	if _, err := NewReader(FormatTable, strings.NewReader("")); err == nil {
		t.Error("Expected error for table format")
	}
	if _, err := NewReader(Format("xml"), strings.NewReader("")); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestNewFileReader_MissingFile(t *testing.T) {
	if _, err := NewFileReader(FormatJSON, "/nonexistent/file.json"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entry.yaml")
	if err := os.WriteFile(path, []byte("name: calzone\ncost: 4.1\ncount: 1\n"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	got, err := FromFile[testEntry](path)
	if err != nil {
		t.Fatalf("FromFile failed: %v", err)
	}
	if got.Name != "calzone" || got.Count != 1 {
		t.Errorf("Unexpected data: %+v", got)
	}

	if _, err := FromFile[testEntry](filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
