package repository

import (
	"context"

	"github.com/bettercharge/transaction-cleaning-system/internal/domain/entity"
)

// BatchRepository defines the interface for processed batch storage
type BatchRepository interface {
	// Store saves a batch and returns its ID
	Store(ctx context.Context, batch *entity.Batch) (string, error)

	// FindByID retrieves a batch by its unique identifier
	FindByID(ctx context.Context, id string) (*entity.Batch, error)
}
