package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"co2form/pkg/types"
)

func TestBuiltin(t *testing.T) {
	r := Builtin()
	codes := []string{}
	for _, ft := range r.List() {
		codes = append(codes, ft.Code)
	}
	if diff := cmp.Diff([]string{"Z", "D", "X", "E", "N"}, codes); diff != "" {
		t.Fatalf("builtin order (-want +got):\n%s", diff)
	}
	if got := r.Name("E"); got != "Ethanol (E85)" {
		t.Fatalf("Name(E)=%q", got)
	}
	if got := r.Name("Q"); got != "Q" {
		t.Fatalf("unknown code should echo, got %q", got)
	}
}

func TestNew_Rejects(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for empty list")
	}
	if _, err := New([]types.FuelType{{Code: " "}}); err == nil {
		t.Fatalf("expected error for empty code")
	}
	if _, err := New([]types.FuelType{{Code: "D"}, {Code: "D"}}); err == nil {
		t.Fatalf("expected error for duplicate code")
	}
}

func TestFromMap_SortsAndFillsCode(t *testing.T) {
	r, err := FromMap(map[string]types.FuelType{
		"X": {Name: "Regular Gasoline"},
		"D": {Name: "Diesel", Description: "Diesel fuel"},
	})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	want := []types.FuelType{
		{Code: "D", Name: "Diesel", Description: "Diesel fuel"},
		{Code: "X", Name: "Regular Gasoline"},
	}
	if diff := cmp.Diff(want, r.List()); diff != "" {
		t.Fatalf("list (-want +got):\n%s", diff)
	}
	if len(r.Map()) != 2 {
		t.Fatalf("map len=%d", len(r.Map()))
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "fuels.yaml")
	content := "fuel_types:\n  - code: D\n    name: Diesel\n  - code: H\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := r.Name("H"); got != "H" {
		t.Fatalf("name defaults to code, got %q", got)
	}
	if _, ok := r.Lookup("D"); !ok {
		t.Fatalf("D missing")
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
