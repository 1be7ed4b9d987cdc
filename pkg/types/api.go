package types

// PredictionRequest is the payload POSTed to the prediction endpoint.
type PredictionRequest struct {
	// Fuel consumption in litres per 100 km.
	FuelConsumption float64 `json:"fuel_consumption"`
	// Fuel efficiency in miles per gallon.
	FuelEfficiency float64 `json:"fuel_efficiency"`
	// Fuel type code (Z, D, X, E, N).
	FuelType string `json:"fuel_type"`
}

// InputEcho is the endpoint's echo of the request it scored.
type InputEcho struct {
	FuelConsumption float64 `json:"fuel_consumption"`
	FuelEfficiency  float64 `json:"fuel_efficiency"`
	// Optional; older endpoints omit it.
	FuelType string `json:"fuel_type,omitempty"`
}

// PredictionResult is returned by the prediction endpoint on success.
type PredictionResult struct {
	// Predicted CO2 emission in g/km.
	Prediction float64 `json:"prediction"`
	// Echo of the scored inputs.
	InputData InputEcho `json:"input_data"`
	// Display label for the fuel type.
	FuelTypeName string `json:"fuel_type_name"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	Error string `json:"error"`
	// HTTP status code. The upstream endpoint omits it.
	Code int `json:"code,omitempty"`
}

// HintState is the visual state of a live field hint.
type HintState string

const (
	HintNeutral    HintState = "neutral"
	HintOutOfRange HintState = "out_of_range"
)

// Hint is the live feedback shown under a numeric input while typing.
type Hint struct {
	Field string    `json:"field"`
	State HintState `json:"state"`
	Text  string    `json:"text"`
}
