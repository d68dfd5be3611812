package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// sendJSON writes a JSON response with the given status code.
func sendJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// sendErrorResponse writes a standardized error body and logs the failure.
func sendErrorResponse(w http.ResponseWriter, log zerolog.Logger, errMsg, description string, status int, requestID string) {
	log.Warn().
		Str("request_id", requestID).
		Int("status", status).
		Str("error", errMsg).
		Msg("request failed")

	sendJSON(w, status, ErrorResponse{
		Error:       errMsg,
		Status:      status,
		Description: description,
		RequestID:   requestID,
	})
}
