package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"broilerfarm/internal/core/entity"
	"broilerfarm/internal/core/id"
)

type mortalityLike struct {
	entity.BaseRecord
	Count  int    `db:"count" json:"count"`
	Reason string `db:"reason" json:"reason"`
	Skip   string `db:"-" json:"skip"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mortalityLike]()

	expectedCols := []string{
		"id", "owner_id", "version", "date", "created_at", "updated_at", "count", "reason",
	}
	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "skip")
}

func TestStructToMap(t *testing.T) {
	date := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	rec := mortalityLike{
		BaseRecord: entity.NewBaseRecord(id.New(), date),
		Count:      10,
		Reason:     "heat stress",
	}
	rec.Version = 5

	m := StructToMap(rec)

	assert.Equal(t, rec.ID, m["id"])
	assert.Equal(t, rec.OwnerID, m["owner_id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, date, m["date"])
	assert.Equal(t, 10, m["count"])
	assert.Equal(t, "heat stress", m["reason"])
	_, hasSkip := m["skip"]
	assert.False(t, hasSkip)
}
