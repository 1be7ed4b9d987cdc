package form

// Field names as they appear in the form and on the wire.
const (
	FieldConsumption = "fuel_consumption"
	FieldEfficiency  = "fuel_efficiency"
	FieldFuelType    = "fuel_type"
)

// Bounds are the numeric limits applied by the validator.
//
// The consistency window bounds the product of L/100km and mpg. For a single
// vehicle the two are related by L/100km = 235.215/mpg (US gallons), so the
// product should sit near 235. The default window [50, 1000] is a loose
// sanity check around that, not a conversion.
type Bounds struct {
	MaxConsumption  float64 `json:"max_consumption" yaml:"max_consumption" toml:"max_consumption"`
	MaxEfficiency   float64 `json:"max_efficiency" yaml:"max_efficiency" toml:"max_efficiency"`
	SkipConsistency bool    `json:"skip_consistency" yaml:"skip_consistency" toml:"skip_consistency"`
	ConsistencyMin  float64 `json:"consistency_min" yaml:"consistency_min" toml:"consistency_min"`
	ConsistencyMax  float64 `json:"consistency_max" yaml:"consistency_max" toml:"consistency_max"`
}

// USGallonFactor is L/100km × mpg for a consistent pair of readings.
const USGallonFactor = 235.215

// DefaultBounds returns the limits used when nothing is configured.
func DefaultBounds() Bounds {
	return Bounds{
		MaxConsumption: 50,
		MaxEfficiency:  150,
		ConsistencyMin: 50,
		ConsistencyMax: 1000,
	}
}

// withDefaults fills zero limits from DefaultBounds.
func (b Bounds) withDefaults() Bounds {
	d := DefaultBounds()
	if b.MaxConsumption <= 0 {
		b.MaxConsumption = d.MaxConsumption
	}
	if b.MaxEfficiency <= 0 {
		b.MaxEfficiency = d.MaxEfficiency
	}
	if b.ConsistencyMin <= 0 {
		b.ConsistencyMin = d.ConsistencyMin
	}
	if b.ConsistencyMax <= 0 || b.ConsistencyMax < b.ConsistencyMin {
		b.ConsistencyMax = d.ConsistencyMax
	}
	return b
}
