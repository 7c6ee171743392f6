package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"broilerfarm/internal/core/id"
)

func TestListQuery_ToFilter_Defaults(t *testing.T) {
	var q ListQuery

	filter, err := q.ToFilter()
	require.NoError(t, err)

	assert.Equal(t, 50, filter.Limit)
	assert.Equal(t, 0, filter.Offset)
	assert.Equal(t, "-date", filter.OrderBy)
	assert.Nil(t, filter.BatchID)
}

func TestListQuery_ToFilter_ParsesBatchID(t *testing.T) {
	batchID := id.New()
	q := ListQuery{BatchID: batchID.String(), Search: "  newcastle  ", OrderBy: "date", Limit: 25}

	filter, err := q.ToFilter()
	require.NoError(t, err)

	require.NotNil(t, filter.BatchID)
	assert.Equal(t, batchID, *filter.BatchID)
	assert.Equal(t, "newcastle", filter.Search)
	assert.Equal(t, "date", filter.OrderBy)
	assert.Equal(t, 25, filter.Limit)
}

func TestListQuery_ToFilter_RejectsBadBatchID(t *testing.T) {
	q := ListQuery{BatchID: "not-a-uuid"}

	_, err := q.ToFilter()
	assert.Error(t, err)
}
