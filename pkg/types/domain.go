package types

// FuelType describes one selectable fuel category.
type FuelType struct {
	// Single-letter code sent to the prediction endpoint.
	Code string `json:"code" yaml:"code" toml:"code"`
	// Human-friendly name.
	Name string `json:"name" yaml:"name" toml:"name"`
	// Short note shown next to the name in the select list.
	Description string `json:"description" yaml:"description" toml:"description"`
}
