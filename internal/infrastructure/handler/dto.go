package handler

import "github.com/shopspring/decimal"

// BatchResponse represents the response for batch endpoints
type BatchResponse struct {
	ID         string `json:"id"`
	SourceName string `json:"source_name"`
	RowCount   int    `json:"row_count"`
	CreatedAt  string `json:"created_at"`
}

// SetRatesRequest represents the request body for seeding FX rates manually
type SetRatesRequest struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

// RatesResponse represents the current FX rate state
type RatesResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
