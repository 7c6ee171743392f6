package record_repo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"broilerfarm/internal/core/id"
)

func TestParseOrderBy(t *testing.T) {
	repo := NewMortalityRepo(nil)

	tests := []struct {
		name    string
		orderBy string
		want    string
		wantErr bool
	}{
		{name: "default", orderBy: "", want: "date DESC, id DESC"},
		{name: "descending prefix", orderBy: "-date", want: "date DESC, id DESC"},
		{name: "ascending prefix", orderBy: "+count", want: "count ASC, id ASC"},
		{name: "bare field", orderBy: "count", want: "count ASC, id ASC"},
		{name: "unknown column", orderBy: "evil;drop", wantErr: true},
		{name: "not in column list", orderBy: "password_hash", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.orderBy)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBaseSelect_ScopesToOwner(t *testing.T) {
	repo := NewSalesRepo(nil)
	ownerID := id.New()

	sql, args, err := repo.baseSelect(ownerID).ToSql()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sql, "SELECT "))
	assert.Contains(t, sql, "FROM sales_records")
	assert.Contains(t, sql, "owner_id = $1")
	require.Len(t, args, 1)
	// squirrel resolves driver.Valuer args at ToSql time, so the UUID
	// arrives as its string form.
	assert.Equal(t, ownerID.String(), args[0])
}
