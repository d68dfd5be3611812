// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/bettercharge/transaction-cleaning-system/internal/domain/entity"
)

// MockRateSource mocks the RateSource interface
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) FetchRates(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, symbols)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

// MockBatchRepository mocks the BatchRepository interface
type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) Store(ctx context.Context, batch *entity.Batch) (string, error) {
	args := m.Called(ctx, batch)
	return args.String(0), args.Error(1)
}

func (m *MockBatchRepository) FindByID(ctx context.Context, id string) (*entity.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Batch), args.Error(1)
}

// MockTableWriter mocks the TableWriter interface
type MockTableWriter struct {
	mock.Mock
}

func (m *MockTableWriter) Write(t *entity.Table, path string) error {
	args := m.Called(t, path)
	return args.Error(0)
}
