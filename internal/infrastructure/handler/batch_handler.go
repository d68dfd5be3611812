// Package handler internal/infrastructure/handler/batch_handler.go
package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/bettercharge/transaction-cleaning-system/internal/application/service"
	"github.com/bettercharge/transaction-cleaning-system/internal/infrastructure/middleware"
	"github.com/bettercharge/transaction-cleaning-system/internal/infrastructure/xlsx"
)

// maxUploadBytes caps spreadsheet uploads at 32 MiB.
const maxUploadBytes = 32 << 20

// BatchHandler handles HTTP requests for spreadsheet cleaning batches
type BatchHandler struct {
	pipeline *service.PipelineService
	defaults service.PipelineOptions
	logger   zerolog.Logger
}

// NewBatchHandler creates a new batch handler. The defaults supply column
// names and conversion flags for uploads that do not override them.
func NewBatchHandler(pipeline *service.PipelineService, defaults service.PipelineOptions, log zerolog.Logger) *BatchHandler {
	return &BatchHandler{
		pipeline: pipeline,
		defaults: defaults,
		logger:   log,
	}
}

// CreateBatch ingests an uploaded spreadsheet, runs the cleaning pipeline,
// and persists the result as a new batch.
func (h *BatchHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		sendErrorResponse(w, h.logger, "Invalid upload",
			"The request must be a multipart form with a spreadsheet file", http.StatusBadRequest, requestID)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		sendErrorResponse(w, h.logger, "Missing file",
			"The 'file' form field is required", http.StatusBadRequest, requestID)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	table, err := xlsx.ReadTable(file, r.FormValue("sheet"))
	if err != nil {
		h.logger.Warn().
			Str("request_id", requestID).
			Str("filename", header.Filename).
			Err(err).
			Msg("failed to parse uploaded spreadsheet")
		sendErrorResponse(w, h.logger, "Invalid spreadsheet",
			"The uploaded file could not be read as a spreadsheet", http.StatusBadRequest, requestID)
		return
	}

	opts := h.defaults
	if v := r.FormValue("strict"); v != "" {
		opts.Convert.Strict, _ = strconv.ParseBool(v)
	}
	if v := r.FormValue("refresh_rates"); v != "" {
		opts.Convert.RefreshRates, _ = strconv.ParseBool(v)
	}

	batch, err := h.pipeline.ProcessTable(r.Context(), header.Filename, table, opts)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingRate):
			sendErrorResponse(w, h.logger, "Missing FX rate",
				err.Error(), http.StatusUnprocessableEntity, requestID)
		case strings.Contains(err.Error(), "must contain the"):
			sendErrorResponse(w, h.logger, "Missing column",
				err.Error(), http.StatusBadRequest, requestID)
		case strings.Contains(err.Error(), "failed to refresh fx rates"):
			sendErrorResponse(w, h.logger, "Rate source unavailable",
				"Unable to retrieve FX rates. Please try again later.", http.StatusServiceUnavailable, requestID)
		default:
			h.logger.Error().
				Str("request_id", requestID).
				Err(err).
				Msg("unexpected error processing batch")
			sendErrorResponse(w, h.logger, "Internal server error",
				"An unexpected error occurred. Please try again later.", http.StatusInternalServerError, requestID)
		}
		return
	}

	sendJSON(w, http.StatusCreated, BatchResponse{
		ID:         batch.ID,
		SourceName: batch.SourceName,
		RowCount:   batch.RowCount,
		CreatedAt:  batch.CreatedAt.Format(time.RFC3339),
	})
}

// GetBatch returns a stored batch, cleaned table included, as JSON.
func (h *BatchHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	batch, err := h.pipeline.GetBatch(r.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			sendErrorResponse(w, h.logger, "Batch not found",
				"The requested batch could not be found", http.StatusNotFound, requestID)
			return
		}
		sendErrorResponse(w, h.logger, "Internal server error",
			"Failed to retrieve the batch", http.StatusInternalServerError, requestID)
		return
	}

	sendJSON(w, http.StatusOK, batch)
}

// DownloadBatch streams a stored batch back as an .xlsx workbook.
func (h *BatchHandler) DownloadBatch(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	batch, err := h.pipeline.GetBatch(r.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			sendErrorResponse(w, h.logger, "Batch not found",
				"The requested batch could not be found", http.StatusNotFound, requestID)
			return
		}
		sendErrorResponse(w, h.logger, "Internal server error",
			"Failed to retrieve the batch", http.StatusInternalServerError, requestID)
		return
	}

	var buf bytes.Buffer
	if err := xlsx.WriteTable(batch.Table, &buf, ""); err != nil {
		h.logger.Error().
			Str("request_id", requestID).
			Str("batch_id", id).
			Err(err).
			Msg("failed to build workbook")
		sendErrorResponse(w, h.logger, "Internal server error",
			"Failed to build the workbook", http.StatusInternalServerError, requestID)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

// RegisterRoutes registers the batch handler routes
func (h *BatchHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/batches", h.CreateBatch).Methods("POST")
	router.HandleFunc("/batches/{id}", h.GetBatch).Methods("GET")
	router.HandleFunc("/batches/{id}/download", h.DownloadBatch).Methods("GET")
}
