package httpapi

import (
	"encoding/json"
	"net/http"

	"co2form/internal/controller"
	"co2form/pkg/types"
)

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// statusForPanel maps a rendered outcome to an HTTP status.
func statusForPanel(p controller.Panel) int {
	switch p.Kind {
	case controller.KindSuccess:
		return http.StatusOK
	case controller.KindValidation:
		return http.StatusBadRequest
	case controller.KindBusy:
		return http.StatusConflict
	case controller.KindServer:
		// Upstream client errors are the caller's; anything else is a bad gateway.
		if p.UpstreamStatus >= 400 && p.UpstreamStatus < 500 {
			return p.UpstreamStatus
		}
		return http.StatusBadGateway
	default:
		return http.StatusServiceUnavailable
	}
}
