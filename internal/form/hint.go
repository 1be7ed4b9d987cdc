package form

import (
	"fmt"

	"co2form/pkg/types"
)

var helpTexts = map[string]string{
	FieldConsumption: "How many liters of fuel per 100 kilometers (typical range: 4-20 L/100km)",
	FieldEfficiency:  "Miles per gallon - higher is better (typical range: 15-50 mpg)",
}

// HelpText returns the neutral help line for a numeric field.
func HelpText(field string) string { return helpTexts[field] }

// CheckField re-checks a single numeric field's own range while the user is
// typing. Blank, unparseable and zero values are neutral; the cross-field
// heuristic is not applied here.
func (v *Validator) CheckField(field, raw string) types.Hint {
	hint := types.Hint{Field: field, State: types.HintNeutral, Text: HelpText(field)}

	var max float64
	var msg string
	switch field {
	case FieldConsumption:
		max = v.bounds.MaxConsumption
		msg = fmt.Sprintf("Fuel consumption should be between 0 and %s L/100km", formatLimit(max))
	case FieldEfficiency:
		max = v.bounds.MaxEfficiency
		msg = fmt.Sprintf("Fuel efficiency should be between 0 and %s mpg", formatLimit(max))
	default:
		return hint
	}

	f := ParseNumber(raw)
	if present(f) && (f < 0 || f > max) {
		hint.State = types.HintOutOfRange
		hint.Text = msg
	}
	return hint
}
