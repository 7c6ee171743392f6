package batch_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderBy_DateAlias(t *testing.T) {
	repo := NewRepo(nil)

	got, err := repo.parseOrderBy("-date")
	require.NoError(t, err)
	assert.Equal(t, "purchase_date DESC, id DESC", got)

	got, err = repo.parseOrderBy("")
	require.NoError(t, err)
	assert.Equal(t, "purchase_date DESC, id DESC", got)
}

func TestParseOrderBy_RejectsUnknownColumn(t *testing.T) {
	repo := NewRepo(nil)

	_, err := repo.parseOrderBy("owner_id; DROP TABLE batches")
	assert.Error(t, err)
}

func TestParseOrderBy_NamedColumn(t *testing.T) {
	repo := NewRepo(nil)

	got, err := repo.parseOrderBy("name")
	require.NoError(t, err)
	assert.Equal(t, "name ASC, id ASC", got)
}
