package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/bettercharge/transaction-cleaning-system/internal/application/service"
	"github.com/bettercharge/transaction-cleaning-system/internal/infrastructure/middleware"
)

// RatesHandler exposes the FX rate state: inspection and manual seeding.
type RatesHandler struct {
	provider *service.RateProvider
	logger   zerolog.Logger
}

// NewRatesHandler creates a new rates handler
func NewRatesHandler(provider *service.RateProvider, log zerolog.Logger) *RatesHandler {
	return &RatesHandler{
		provider: provider,
		logger:   log,
	}
}

// GetRates returns the current rate state.
func (h *RatesHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, RatesResponse{Rates: h.provider.Snapshot()})
}

// SetRates merges caller-supplied rates into the provider state. Existing
// currencies absent from the request are kept.
func (h *RatesHandler) SetRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req SetRatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}
	if len(req.Rates) == 0 {
		sendErrorResponse(w, h.logger, "No rates supplied",
			"The 'rates' object must contain at least one currency", http.StatusBadRequest, requestID)
		return
	}

	h.provider.SetRates(req.Rates)

	h.logger.Info().
		Str("request_id", requestID).
		Int("count", len(req.Rates)).
		Msg("manual fx rates merged")

	sendJSON(w, http.StatusOK, RatesResponse{Rates: h.provider.Snapshot()})
}

// RegisterRoutes registers the rates handler routes
func (h *RatesHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/rates", h.GetRates).Methods("GET")
	router.HandleFunc("/rates", h.SetRates).Methods("PUT")
}
