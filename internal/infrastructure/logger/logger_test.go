package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	t.Run("Writes structured JSON with a timestamp", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf)

		log.Info().Str("source", "transactions.xlsx").Msg("batch processed")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "batch processed", entry["message"])
		assert.Equal(t, "transactions.xlsx", entry["source"])
		assert.NotEmpty(t, entry["time"])
	})

	t.Run("Context round-trip", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf)

		ctx := WithContext(context.Background(), log)
		got := FromContext(ctx)

		got.Info().Msg("from context")
		assert.Contains(t, buf.String(), "from context")
	})

	t.Run("WithFields attaches every field", func(t *testing.T) {
		var buf bytes.Buffer
		log := WithFields(NewWithWriter(&buf), map[string]interface{}{
			"batch_id": "b-1",
			"rows":     3,
		})

		log.Info().Msg("annotated")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "b-1", entry["batch_id"])
		assert.Equal(t, float64(3), entry["rows"])
	})
}
