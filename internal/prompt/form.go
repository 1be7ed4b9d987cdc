// Package prompt collects a prediction request from an interactive
// terminal.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"co2form/internal/form"
	"co2form/internal/impact"
	"co2form/pkg/types"
)

// ErrAborted signals the user aborted input (e.g., Ctrl+C).
var ErrAborted = errors.New("prompt: aborted")

// Form asks for the three request fields in page order.
type Form struct {
	driver    Driver
	validator *form.Validator
	fuelTypes []types.FuelType
}

// New returns a Form. A nil validator uses the default bounds.
func New(driver Driver, v *form.Validator, fuelTypes []types.FuelType) *Form {
	if v == nil {
		v = form.NewValidator(form.DefaultBounds())
	}
	return &Form{driver: driver, validator: v, fuelTypes: fuelTypes}
}

// Ask prompts until each numeric field passes its live check, then asks for
// the fuel type. Values in defaults prefill the prompts.
func (f *Form) Ask(ctx context.Context, defaults types.PredictionRequest) (types.PredictionRequest, error) {
	if f.driver == nil {
		return types.PredictionRequest{}, errors.New("prompt: driver is nil")
	}
	if len(f.fuelTypes) == 0 {
		return types.PredictionRequest{}, errors.New("prompt: no fuel types")
	}
	var req types.PredictionRequest
	var err error
	if req.FuelConsumption, err = f.askNumber(ctx, form.FieldConsumption, "Fuel Consumption (L/100km)", defaults.FuelConsumption); err != nil {
		return req, err
	}
	if req.FuelEfficiency, err = f.askNumber(ctx, form.FieldEfficiency, "Fuel Efficiency (mpg)", defaults.FuelEfficiency); err != nil {
		return req, err
	}
	if req.FuelType, err = f.askFuelType(ctx, defaults.FuelType); err != nil {
		return req, err
	}
	return req, nil
}

func (f *Form) askNumber(ctx context.Context, field, label string, def float64) (float64, error) {
	cfg := InputConfig{
		Message:   label,
		Help:      form.HelpText(field),
		Validator: f.checker(field),
	}
	if def > 0 {
		cfg.Default = impact.FormatEmission(def)
	}
	for {
		raw, err := f.driver.Input(ctx, cfg)
		if err != nil {
			return 0, err
		}
		if err := cfg.Validator(raw); err != nil {
			if err := f.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", field, err)); err != nil {
				return 0, err
			}
			continue
		}
		return form.ParseNumber(raw), nil
	}
}

// checker rejects what the live hint flags plus anything that is not a
// number. Blank answers pass; the submit validation reports them.
func (f *Form) checker(field string) func(string) error {
	return func(raw string) error {
		if strings.TrimSpace(raw) != "" && math.IsNaN(form.ParseNumber(raw)) {
			return errors.New("please enter a number")
		}
		h := f.validator.CheckField(field, raw)
		if h.State == types.HintOutOfRange {
			return errors.New(h.Text)
		}
		return nil
	}
}

func (f *Form) askFuelType(ctx context.Context, def string) (string, error) {
	options := make([]string, len(f.fuelTypes))
	idx := 0
	for i, ft := range f.fuelTypes {
		options[i] = fmt.Sprintf("%s (%s)", ft.Name, ft.Code)
		if ft.Code == def {
			idx = i
		}
	}
	i, err := f.driver.Select(ctx, SelectConfig{
		Message:      "Fuel Type",
		Options:      options,
		DefaultIndex: idx,
	})
	if err != nil {
		return "", err
	}
	if i < 0 || i >= len(f.fuelTypes) {
		return "", fmt.Errorf("prompt: fuel type index %d out of range", i)
	}
	return f.fuelTypes[i].Code, nil
}
