package predictclient

import "errors"

const (
	// FallbackServerMessage is shown when a failed response carries no message.
	FallbackServerMessage = "An error occurred during prediction"
	// NetworkMessage is shown when no usable response was received.
	NetworkMessage = "Network error: Unable to connect to the server"
)

// ServerError is a non-2xx answer from the prediction endpoint.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string { return e.Message }

// StatusCode reports the upstream status.
func (e *ServerError) StatusCode() int { return e.Status }

// IsServerError reports whether err is a server-reported failure.
func IsServerError(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

// NetworkError means the exchange did not produce a usable response.
type NetworkError struct{ Err error }

func (e *NetworkError) Error() string { return NetworkMessage }

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err is a transport failure.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
