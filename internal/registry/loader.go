// Package registry holds the catalogue of selectable fuel types.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"co2form/internal/common/fsutil"
	"co2form/pkg/types"
)

// Registry is an immutable, code-indexed set of fuel types.
type Registry struct {
	byCode map[string]types.FuelType
	order  []string
}

// Builtin returns the fuel types the prediction model was trained on.
func Builtin() *Registry {
	r, _ := New([]types.FuelType{
		{Code: "Z", Name: "Premium Gasoline", Description: "91-94 octane gasoline"},
		{Code: "D", Name: "Diesel", Description: "Diesel fuel"},
		{Code: "X", Name: "Regular Gasoline", Description: "87 octane gasoline"},
		{Code: "E", Name: "Ethanol (E85)", Description: "Flex fuel - 85% ethanol"},
		{Code: "N", Name: "Natural Gas", Description: "Compressed natural gas (CNG)"},
	})
	return r
}

// New builds a registry preserving the given order. Codes are trimmed and
// must be unique and non-empty.
func New(list []types.FuelType) (*Registry, error) {
	r := &Registry{byCode: make(map[string]types.FuelType, len(list))}
	for _, ft := range list {
		ft.Code = strings.TrimSpace(ft.Code)
		if ft.Code == "" {
			return nil, fmt.Errorf("fuel type with empty code")
		}
		if _, dup := r.byCode[ft.Code]; dup {
			return nil, fmt.Errorf("duplicate fuel type code %q", ft.Code)
		}
		if ft.Name == "" {
			ft.Name = ft.Code
		}
		r.byCode[ft.Code] = ft
		r.order = append(r.order, ft.Code)
	}
	if len(r.order) == 0 {
		return nil, fmt.Errorf("no fuel types")
	}
	return r, nil
}

// FromMap builds a registry from the endpoint's /fuel-types shape
// (code -> {name, description}). Codes are sorted for a stable order.
func FromMap(m map[string]types.FuelType) (*Registry, error) {
	codes := make([]string, 0, len(m))
	for c := range m {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	list := make([]types.FuelType, 0, len(codes))
	for _, c := range codes {
		ft := m[c]
		ft.Code = c
		list = append(list, ft)
	}
	return New(list)
}

// LoadFile reads a fuel type list from a yaml, json or toml file with a
// top-level "fuel_types" array.
func LoadFile(path string) (*Registry, error) {
	var doc struct {
		FuelTypes []types.FuelType `json:"fuel_types" yaml:"fuel_types" toml:"fuel_types"`
	}
	if err := fsutil.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("load fuel types: %w", err)
	}
	return New(doc.FuelTypes)
}

// List returns the fuel types in display order.
func (r *Registry) List() []types.FuelType {
	out := make([]types.FuelType, 0, len(r.order))
	for _, c := range r.order {
		out = append(out, r.byCode[c])
	}
	return out
}

// Lookup returns the fuel type for code.
func (r *Registry) Lookup(code string) (types.FuelType, bool) {
	ft, ok := r.byCode[strings.TrimSpace(code)]
	return ft, ok
}

// Name returns the display name for code, or the code itself if unknown.
func (r *Registry) Name(code string) string {
	if ft, ok := r.Lookup(code); ok {
		return ft.Name
	}
	return code
}

// Map returns the catalogue in the endpoint's /fuel-types shape.
func (r *Registry) Map() map[string]types.FuelType {
	out := make(map[string]types.FuelType, len(r.byCode))
	for c, ft := range r.byCode {
		out[c] = ft
	}
	return out
}
