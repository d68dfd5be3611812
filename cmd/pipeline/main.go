// Command pipeline runs the cleaning flow end to end over a transaction
// workbook: alignment repair, field normalization, USD conversion, and user
// reconciliation, writing the cleaned workbook and an unmatched-user report.
package main

import (
	"context"
	"flag"
	"net/http"
	"time"

	"github.com/bettercharge/transaction-cleaning-system/internal/application/normalizer"
	"github.com/bettercharge/transaction-cleaning-system/internal/application/service"
	"github.com/bettercharge/transaction-cleaning-system/internal/config"
	"github.com/bettercharge/transaction-cleaning-system/internal/domain/entity"
	"github.com/bettercharge/transaction-cleaning-system/internal/infrastructure/api"
	"github.com/bettercharge/transaction-cleaning-system/internal/infrastructure/logger"
	"github.com/bettercharge/transaction-cleaning-system/internal/infrastructure/xlsx"
)

func main() {
	var (
		configPath    = flag.String("config", "", "path to YAML config file")
		inputPath     = flag.String("input", "data/transactions.xlsx", "transactions workbook path")
		txSheet       = flag.String("sheet", "Transactions", "transactions sheet name")
		usersSheet    = flag.String("users-sheet", "Users", "users sheet name; empty skips reconciliation")
		outputPath    = flag.String("output", "data/transactions_with_amount_usd.xlsx", "cleaned workbook output path")
		unmatchedPath = flag.String("unmatched-output", "data/trans_id_with_unmatched_userid.xlsx", "unmatched-user report output path")
		strict        = flag.Bool("strict", false, "fail on missing or zero fx rates")
		noRefresh     = flag.Bool("no-refresh", false, "skip the remote rate fetch; rely on seeded rates")
	)
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.FX.TimeoutSeconds) * time.Second}
	rateClient := api.NewExchangeRateAPIClient(cfg.FX.APIKey, httpClient, log)
	rateClient.SetBaseURL(cfg.FX.BaseURL)

	provider := service.NewRateProvider(rateClient, log)

	rowNormalizer := normalizer.New(normalizer.Config{
		TimestampColumn:     cfg.Pipeline.TimestampColumn,
		CurrencyColumn:      cfg.Pipeline.CurrencyColumn,
		PaymentMethodColumn: cfg.Pipeline.PaymentMethodColumn,
		DefaultTimeZone:     cfg.Pipeline.DefaultTimeZone,
		DayFirst:            cfg.Pipeline.DayFirst,
	})
	converter := service.NewConversionService(provider, xlsx.Writer{}, log)
	pipeline := service.NewPipelineService(rowNormalizer, converter, nil, log)

	raw, err := xlsx.ReadTableFromFile(*inputPath, *txSheet)
	if err != nil {
		log.Fatal().Err(err).Str("path", *inputPath).Msg("failed to read transactions")
	}

	opts := service.PipelineOptions{
		Align: cfg.Pipeline.Align,
		Convert: service.ConvertOptions{
			AmountColumn:   cfg.Pipeline.AmountColumn,
			CurrencyColumn: cfg.Pipeline.CurrencyColumn,
			Strict:         *strict || cfg.Pipeline.Strict,
			RefreshRates:   !*noRefresh && cfg.Pipeline.RefreshRates,
			SavePath:       *outputPath,
		},
	}

	ctx := context.Background()
	batch, err := pipeline.ProcessTable(ctx, *inputPath, raw, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline failed")
	}

	log.Info().
		Str("output", *outputPath).
		Int("rows", batch.RowCount).
		Msg("cleaned workbook written")

	if *usersSheet == "" {
		return
	}

	users, err := xlsx.ReadTableFromFile(*inputPath, *usersSheet)
	if err != nil {
		log.Fatal().Err(err).Str("sheet", *usersSheet).Msg("failed to read users")
	}
	usersAligned := service.AlignTable(users)

	roster, ok := usersAligned.Column(cfg.Pipeline.UserColumn)
	if !ok {
		log.Fatal().Str("column", cfg.Pipeline.UserColumn).Msg("users sheet is missing the user column")
	}

	recon := service.NewReconciliationService(log)
	unmatched, err := recon.MissingUserTransactionIDs(batch.Table, cfg.Pipeline.IDColumn, cfg.Pipeline.UserColumn, roster)
	if err != nil {
		log.Fatal().Err(err).Msg("reconciliation failed")
	}

	report := entity.NewTable([]string{cfg.Pipeline.IDColumn})
	for _, id := range unmatched {
		if err := report.AppendRow([]entity.Value{entity.String(id)}); err != nil {
			log.Fatal().Err(err).Msg("failed to build unmatched report")
		}
	}

	if err := (xlsx.Writer{}).Write(report, *unmatchedPath); err != nil {
		log.Fatal().Err(err).Str("path", *unmatchedPath).Msg("failed to write unmatched report")
	}

	log.Info().
		Int("unmatched", len(unmatched)).
		Str("report", *unmatchedPath).
		Msg("reconciliation report written")
}
