package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://v6.exchangerate-api.com/v6"

// ExchangeRateAPIClient fetches current FX rates from exchangerate-api.com
// with USD as base. Rates are expressed as units of currency per 1 USD.
type ExchangeRateAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewExchangeRateAPIClient creates a new exchange rate API client
func NewExchangeRateAPIClient(apiKey string, httpClient *http.Client, log zerolog.Logger) *ExchangeRateAPIClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}

	return &ExchangeRateAPIClient{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     log,
	}
}

// SetBaseURL overrides the rate API endpoint. Empty input is ignored.
func (c *ExchangeRateAPIClient) SetBaseURL(u string) {
	if u != "" {
		c.baseURL = u
	}
}

// latestRatesResponse represents the response structure from the rate API
type latestRatesResponse struct {
	Result          string                     `json:"result"`
	ErrorType       string                     `json:"error-type"`
	ConversionRates map[string]decimal.Decimal `json:"conversion_rates"`
}

// FetchRates retrieves the latest rates for USD as base. If a non-empty
// symbols set is supplied the result is filtered to exactly those codes,
// case-normalized with blanks dropped; USD is injected after filtering so
// it is always present with rate 1. Any non-success response, network
// failure, or timeout is a hard failure with no fallback and no retry.
func (c *ExchangeRateAPIClient) FetchRates(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	reqURL := fmt.Sprintf("%s/%s/latest/USD", c.baseURL, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn().Err(closeErr).Msg("error closing response body")
		}
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate API returned error status: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var ratesResp latestRatesResponse
	if err := json.Unmarshal(bodyBytes, &ratesResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if ratesResp.Result != "success" {
		return nil, fmt.Errorf("rate API reported %q (error-type: %s)", ratesResp.Result, ratesResp.ErrorType)
	}

	rates := ratesResp.ConversionRates
	if rates == nil {
		rates = make(map[string]decimal.Decimal)
	}

	// Filter only to requested symbols if provided
	wanted := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			wanted[s] = true
		}
	}
	if len(wanted) > 0 {
		filtered := make(map[string]decimal.Decimal, len(wanted))
		for code, rate := range rates {
			if wanted[code] {
				filtered[code] = rate
			}
		}
		rates = filtered
	}

	// USD is forced to 1 regardless of the source payload.
	rates["USD"] = decimal.NewFromInt(1)

	c.logger.Debug().
		Int("rates", len(rates)).
		Int("requested", len(wanted)).
		Msg("fetched fx rates")

	return rates, nil
}
