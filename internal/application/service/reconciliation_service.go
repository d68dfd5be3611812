package service

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bettercharge/transaction-cleaning-system/internal/domain/entity"
)

// ReconciliationService compares a normalized transaction table against a
// user roster and reports transactions whose user reference does not
// resolve.
type ReconciliationService struct {
	logger zerolog.Logger
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(log zerolog.Logger) *ReconciliationService {
	return &ReconciliationService{logger: log}
}

// MissingUserTransactionIDs returns the distinct transaction identifiers
// (from idColumn) whose user reference (in userColumn) is not in the
// roster. Rows with a null user reference count as unmatched; rows with a
// null identifier are dropped from the report. A missing column is a hard
// failure raised before any row is inspected.
func (s *ReconciliationService) MissingUserTransactionIDs(t *entity.Table, idColumn, userColumn string, roster []entity.Value) ([]string, error) {
	idIdx, ok := t.ColumnIndex(idColumn)
	if !ok {
		return nil, fmt.Errorf("table must contain the %q column", idColumn)
	}
	userIdx, ok := t.ColumnIndex(userColumn)
	if !ok {
		return nil, fmt.Errorf("table must contain the %q column", userColumn)
	}

	known := make(map[string]bool, len(roster))
	for _, u := range roster {
		if u.IsNull() {
			continue
		}
		known[u.Text()] = true
	}

	seen := make(map[string]bool)
	unmatched := make([]string, 0)
	for _, row := range t.Rows {
		user := row[userIdx]
		if !user.IsNull() && known[user.Text()] {
			continue
		}

		id := row[idIdx]
		if id.IsNull() {
			continue
		}
		key := id.Text()
		if seen[key] {
			continue
		}
		seen[key] = true
		unmatched = append(unmatched, key)
	}

	s.logger.Info().
		Int("rows", t.NumRows()).
		Int("unmatched", len(unmatched)).
		Msg("user reconciliation completed")

	return unmatched, nil
}
