package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bettercharge/transaction-cleaning-system/internal/application/normalizer"
	"github.com/bettercharge/transaction-cleaning-system/internal/domain/entity"
	"github.com/bettercharge/transaction-cleaning-system/internal/domain/repository"
)

// PipelineOptions controls one end-to-end cleaning run.
type PipelineOptions struct {
	// Align applies the column-drift repair before normalization.
	Align   bool
	Convert ConvertOptions
}

// PipelineService sequences the cleaning steps over a raw table:
// alignment repair, field normalization, then USD conversion. Results are
// persisted as batches when a repository is configured.
type PipelineService struct {
	normalizer *normalizer.RowNormalizer
	converter  *ConversionService
	batches    repository.BatchRepository
	logger     zerolog.Logger
}

// NewPipelineService creates a new pipeline service. The repository may be
// nil for one-shot runs that do not persist batches.
func NewPipelineService(rn *normalizer.RowNormalizer, conv *ConversionService, batches repository.BatchRepository, log zerolog.Logger) *PipelineService {
	return &PipelineService{
		normalizer: rn,
		converter:  conv,
		batches:    batches,
		logger:     log,
	}
}

// ProcessTable runs the full pipeline over a raw table and returns the
// stored batch. Hard failures at any step abort the run; nothing is stored.
func (s *PipelineService) ProcessTable(ctx context.Context, sourceName string, raw *entity.Table, opts PipelineOptions) (*entity.Batch, error) {
	s.logger.Info().
		Str("source", sourceName).
		Int("rows", raw.NumRows()).
		Msg("processing batch")

	t := raw
	if opts.Align {
		t = AlignTable(t)
	}

	normalized, err := s.normalizer.Normalize(t)
	if err != nil {
		return nil, fmt.Errorf("normalization failed: %w", err)
	}

	converted, err := s.converter.ConvertToUSD(ctx, normalized, opts.Convert)
	if err != nil {
		return nil, fmt.Errorf("usd conversion failed: %w", err)
	}

	batch := &entity.Batch{
		ID:         uuid.New().String(),
		SourceName: sourceName,
		RowCount:   converted.NumRows(),
		CreatedAt:  time.Now().UTC(),
		Table:      converted,
	}

	if err := batch.Validate(); err != nil {
		return nil, err
	}

	if s.batches != nil {
		if _, err := s.batches.Store(ctx, batch); err != nil {
			return nil, fmt.Errorf("failed to store batch: %w", err)
		}
	}

	s.logger.Info().
		Str("batch_id", batch.ID).
		Int("rows", batch.RowCount).
		Msg("batch processed")

	return batch, nil
}

// GetBatch retrieves a previously processed batch.
func (s *PipelineService) GetBatch(ctx context.Context, id string) (*entity.Batch, error) {
	if s.batches == nil {
		return nil, fmt.Errorf("no batch repository configured")
	}
	return s.batches.FindByID(ctx, id)
}
