package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"

	"github.com/bettercharge/transaction-cleaning-system/internal/application/normalizer"
	"github.com/bettercharge/transaction-cleaning-system/internal/application/service"
	"github.com/bettercharge/transaction-cleaning-system/internal/config"
	"github.com/bettercharge/transaction-cleaning-system/internal/infrastructure/api"
	"github.com/bettercharge/transaction-cleaning-system/internal/infrastructure/db"
	"github.com/bettercharge/transaction-cleaning-system/internal/infrastructure/handler"
	"github.com/bettercharge/transaction-cleaning-system/internal/infrastructure/logger"
	"github.com/bettercharge/transaction-cleaning-system/internal/infrastructure/middleware"
	"github.com/bettercharge/transaction-cleaning-system/internal/infrastructure/xlsx"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	log := logger.New()
	log.Info().Msg("starting transaction cleaning service")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup BadgerDB
	if err := os.MkdirAll(cfg.Storage.BadgerPath, 0o755); err != nil {
		log.Fatal().Err(err).Msg("failed to create database directory")
	}

	badgerOpts := badger.DefaultOptions(cfg.Storage.BadgerPath)
	badgerOpts.Logger = nil // Disable Badger's default logger

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer func() {
		if err := badgerDB.Close(); err != nil {
			log.Error().Err(err).Msg("error closing BadgerDB")
		}
	}()

	// Initialize repositories and the FX stack
	batchRepo := db.NewBadgerBatchRepository(badgerDB)

	httpClient := &http.Client{Timeout: time.Duration(cfg.FX.TimeoutSeconds) * time.Second}
	rateClient := api.NewExchangeRateAPIClient(cfg.FX.APIKey, httpClient, log)
	rateClient.SetBaseURL(cfg.FX.BaseURL)

	provider := service.NewRateProvider(rateClient, log)

	// Initialize services
	rowNormalizer := normalizer.New(normalizer.Config{
		TimestampColumn:     cfg.Pipeline.TimestampColumn,
		CurrencyColumn:      cfg.Pipeline.CurrencyColumn,
		PaymentMethodColumn: cfg.Pipeline.PaymentMethodColumn,
		DefaultTimeZone:     cfg.Pipeline.DefaultTimeZone,
		DayFirst:            cfg.Pipeline.DayFirst,
	})
	converter := service.NewConversionService(provider, xlsx.Writer{}, log)
	pipeline := service.NewPipelineService(rowNormalizer, converter, batchRepo, log)

	defaults := service.PipelineOptions{
		Align: cfg.Pipeline.Align,
		Convert: service.ConvertOptions{
			AmountColumn:   cfg.Pipeline.AmountColumn,
			CurrencyColumn: cfg.Pipeline.CurrencyColumn,
			Strict:         cfg.Pipeline.Strict,
			RefreshRates:   cfg.Pipeline.RefreshRates,
		},
	}

	// Initialize handlers
	batchHandler := handler.NewBatchHandler(pipeline, defaults, log)
	ratesHandler := handler.NewRatesHandler(provider, log)

	// Setup router
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(log))
	batchHandler.RegisterRoutes(router)
	ratesHandler.RegisterRoutes(router)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("server listening")
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
