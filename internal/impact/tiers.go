// Package impact maps a predicted CO2 emission to an environmental-impact
// tier and its advisory message.
package impact

import (
	"fmt"
	"strconv"
)

// Level identifies an impact tier, from lowest to highest emission.
type Level int

const (
	Excellent Level = iota
	Good
	ModerateHigh
	High
	VeryHigh
)

// Tier is one band of the emission scale. Upper is exclusive; the last tier
// has no upper bound.
type Tier struct {
	Level  Level
	Name   string
	Icon   string
	Upper  float64
	format string
}

// Tiers is ordered by ascending Upper bound.
var Tiers = []Tier{
	{Level: Excellent, Name: "excellent", Icon: "🌱", Upper: 100,
		format: "Excellent! Your vehicle has very low CO2 emissions (%s g/km). This is environmentally friendly and helps reduce your carbon footprint."},
	{Level: Good, Name: "good", Icon: "🌿", Upper: 150,
		format: "Good! Your vehicle has moderate CO2 emissions (%s g/km). Consider eco-friendly driving practices to reduce emissions further."},
	{Level: ModerateHigh, Name: "moderate-high", Icon: "⚠️", Upper: 200,
		format: "Your vehicle has moderate-high CO2 emissions (%s g/km). Consider carpooling, public transport, or a more fuel-efficient vehicle."},
	{Level: High, Name: "high", Icon: "🔶", Upper: 250,
		format: "Your vehicle has high CO2 emissions (%s g/km). This significantly impacts the environment. Consider eco-friendly alternatives."},
	{Level: VeryHigh, Name: "very-high", Icon: "🚨", Upper: 0,
		format: "Your vehicle has very high CO2 emissions (%s g/km). This has a major environmental impact. Consider switching to a more efficient vehicle or alternative transportation."},
}

// Classify returns the tier for an emission in g/km.
func Classify(emission float64) Tier {
	for _, t := range Tiers[:len(Tiers)-1] {
		if emission < t.Upper {
			return t
		}
	}
	return Tiers[len(Tiers)-1]
}

// Message returns the tier's advisory with the emission filled in.
func (t Tier) Message(emission float64) string {
	return t.Advisory(FormatEmission(emission))
}

// Advisory is Message for an emission already formatted for display.
func (t Tier) Advisory(emission string) string {
	return t.Icon + " " + fmt.Sprintf(t.format, emission)
}

// Range describes the tier bounds for display, e.g. "100-150".
func (t Tier) Range() string {
	lower := 0.0
	for i, x := range Tiers {
		if x.Level == t.Level && i > 0 {
			lower = Tiers[i-1].Upper
		}
	}
	if t.Level == VeryHigh {
		return "≥" + FormatEmission(lower)
	}
	if lower == 0 {
		return "<" + FormatEmission(t.Upper)
	}
	return FormatEmission(lower) + "-" + FormatEmission(t.Upper)
}

// FormatEmission prints a value the shortest way that round-trips.
func FormatEmission(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
