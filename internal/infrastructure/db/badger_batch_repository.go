package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v3"

	"github.com/bettercharge/transaction-cleaning-system/internal/domain/entity"
)

// BadgerBatchRepository implements the batch repository interface using BadgerDB
type BadgerBatchRepository struct {
	db *badger.DB
}

// NewBadgerBatchRepository creates a new BadgerDB batch repository
func NewBadgerBatchRepository(db *badger.DB) *BadgerBatchRepository {
	return &BadgerBatchRepository{db: db}
}

// Store saves a batch and returns its ID
func (r *BadgerBatchRepository) Store(ctx context.Context, batch *entity.Batch) (string, error) {
	data, err := json.Marshal(batch)
	if err != nil {
		return "", fmt.Errorf("failed to marshal batch: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("batch:"+batch.ID), data)
	})

	if err != nil {
		return "", fmt.Errorf("failed to store batch: %w", err)
	}

	return batch.ID, nil
}

// FindByID retrieves a batch by its unique identifier
func (r *BadgerBatchRepository) FindByID(ctx context.Context, id string) (*entity.Batch, error) {
	var batch entity.Batch

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("batch:" + id))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &batch)
		})
	})

	if err == badger.ErrKeyNotFound {
		return nil, fmt.Errorf("batch not found: %s", id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to retrieve batch: %w", err)
	}

	return &batch, nil
}
