package form

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"co2form/pkg/types"
)

// ParseNumber parses a user-typed number. Anything that is not a finite
// decimal yields NaN, which the validator reports as missing.
func ParseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}

// Parse builds a fresh request from submitted form values.
func Parse(values url.Values) types.PredictionRequest {
	return types.PredictionRequest{
		FuelConsumption: ParseNumber(values.Get(FieldConsumption)),
		FuelEfficiency:  ParseNumber(values.Get(FieldEfficiency)),
		FuelType:        strings.TrimSpace(values.Get(FieldFuelType)),
	}
}
