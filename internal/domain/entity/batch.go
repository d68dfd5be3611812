package entity

import (
	"errors"
	"time"
)

// Batch represents one processed spreadsheet run: the cleaned table plus
// bookkeeping about where it came from.
type Batch struct {
	ID               string    `json:"id"`
	SourceName       string    `json:"source_name"`
	RowCount         int       `json:"row_count"`
	UnmatchedUserIDs []string  `json:"unmatched_user_ids,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	Table            *Table    `json:"table"`
}

// Validate ensures the batch meets all requirements
func (b *Batch) Validate() error {
	if b.ID == "" {
		return errors.New("batch id must not be empty")
	}

	if b.Table == nil {
		return errors.New("batch must carry a result table")
	}

	return nil
}
