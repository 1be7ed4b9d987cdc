package form

import (
	"fmt"
	"math"
	"strings"

	"co2form/pkg/types"
)

// Validator checks prediction requests against a set of Bounds.
type Validator struct {
	bounds Bounds
}

// NewValidator returns a Validator; zero limits in b fall back to defaults.
func NewValidator(b Bounds) *Validator {
	return &Validator{bounds: b.withDefaults()}
}

// Bounds returns the effective limits.
func (v *Validator) Bounds() Bounds { return v.bounds }

// Validate returns every rule req violates. An empty result means the
// request may be submitted.
func (v *Validator) Validate(req types.PredictionRequest) []string {
	var errs []string

	if !(req.FuelConsumption > 0) {
		errs = append(errs, "Fuel consumption must be greater than 0")
	} else if req.FuelConsumption > v.bounds.MaxConsumption {
		errs = append(errs, fmt.Sprintf("Fuel consumption seems too high (>%s L/100km)", formatLimit(v.bounds.MaxConsumption)))
	}

	if !(req.FuelEfficiency > 0) {
		errs = append(errs, "Fuel efficiency must be greater than 0")
	} else if req.FuelEfficiency > v.bounds.MaxEfficiency {
		errs = append(errs, fmt.Sprintf("Fuel efficiency seems too high (>%s mpg)", formatLimit(v.bounds.MaxEfficiency)))
	}

	if strings.TrimSpace(req.FuelType) == "" {
		errs = append(errs, "Please select a fuel type")
	}

	// Only when both numbers were supplied; negative values still count.
	if !v.bounds.SkipConsistency && present(req.FuelConsumption) && present(req.FuelEfficiency) {
		product := req.FuelConsumption * req.FuelEfficiency
		if product < v.bounds.ConsistencyMin || product > v.bounds.ConsistencyMax {
			errs = append(errs, "Fuel consumption and efficiency values seem inconsistent")
		}
	}
	return errs
}

// Join renders validation messages as the single line shown to the user.
func Join(errs []string) string {
	return strings.Join(errs, ". ")
}

func present(f float64) bool {
	return f != 0 && !math.IsNaN(f)
}

func formatLimit(f float64) string {
	return fmt.Sprintf("%g", f)
}
