package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*ExchangeRateAPIClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewExchangeRateAPIClient("test-key", server.Client(), zerolog.Nop())
	client.SetBaseURL(server.URL)
	return client, server
}

func TestFetchRates(t *testing.T) {
	ctx := context.Background()

	t.Run("Success response is filtered to the requested symbols", func(t *testing.T) {
		// Setup
		var gotPath string
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"result": "success",
				"conversion_rates": {"USD": 1, "EUR": 0.92, "GBP": 0.79, "JPY": 147.2}
			}`))
		})
		defer server.Close()

		// Execute
		rates, err := client.FetchRates(ctx, []string{" eur ", "GBP", ""})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "/test-key/latest/USD", gotPath)
		require.Len(t, rates, 3)
		assert.True(t, rates["EUR"].Equal(decimal.NewFromFloat(0.92)))
		assert.True(t, rates["GBP"].Equal(decimal.NewFromFloat(0.79)))
		assert.True(t, rates["USD"].Equal(decimal.NewFromInt(1)))
		assert.NotContains(t, rates, "JPY")
	})

	t.Run("Empty symbol set returns the full payload", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"result": "success",
				"conversion_rates": {"USD": 1, "EUR": 0.92, "JPY": 147.2}
			}`))
		})
		defer server.Close()

		rates, err := client.FetchRates(ctx, nil)

		require.NoError(t, err)
		assert.Len(t, rates, 3)
	})

	t.Run("USD is one even when the payload disagrees", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"result": "success",
				"conversion_rates": {"USD": 0.99, "EUR": 0.92}
			}`))
		})
		defer server.Close()

		rates, err := client.FetchRates(ctx, []string{"EUR"})

		require.NoError(t, err)
		assert.True(t, rates["USD"].Equal(decimal.NewFromInt(1)))
	})

	t.Run("Non-success result is a hard failure", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"result": "error", "error-type": "invalid-key"}`))
		})
		defer server.Close()

		rates, err := client.FetchRates(ctx, []string{"EUR"})

		require.Error(t, err)
		assert.Nil(t, rates)
		assert.Contains(t, err.Error(), "invalid-key")
	})

	t.Run("Non-200 status is a hard failure", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		defer server.Close()

		_, err := client.FetchRates(ctx, []string{"EUR"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("Malformed payload is a hard failure", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		})
		defer server.Close()

		_, err := client.FetchRates(ctx, []string{"EUR"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode response")
	})

	t.Run("Context cancellation aborts the request", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})
		defer server.Close()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := client.FetchRates(cancelled, []string{"EUR"})
		require.Error(t, err)
	})
}
