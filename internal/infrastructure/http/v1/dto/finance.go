package dto

import (
	"time"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
	"broilerfarm/internal/domain/finance"
)

// TransactionRequest covers create and update of ledger entries.
type TransactionRequest struct {
	Date            time.Time   `json:"date" binding:"required"`
	TransactionType string      `json:"transactionType" binding:"required"`
	Category        string      `json:"category"`
	Description     string      `json:"description" binding:"required"`
	Amount          types.Money `json:"amount"`
}

// ToEntity builds a ledger transaction from the request.
func (r *TransactionRequest) ToEntity(ownerID id.ID) *finance.Transaction {
	t := finance.New(ownerID, r.Date, finance.TransactionType(r.TransactionType), r.Amount)
	if r.Category != "" {
		t.Category = r.Category
	}
	t.Description = r.Description
	return t
}

// ApplyTo copies the editable fields onto the stored transaction.
func (r *TransactionRequest) ApplyTo(t *finance.Transaction) {
	t.Date = r.Date.UTC()
	t.TransactionType = finance.TransactionType(r.TransactionType)
	if r.Category != "" {
		t.Category = r.Category
	} else {
		t.Category = "Uncategorized"
	}
	t.Description = r.Description
	t.Amount = r.Amount
}

// TransactionListQuery narrows ledger listings.
type TransactionListQuery struct {
	ListQuery
	TransactionType string `form:"transactionType"`
	Category        string `form:"category"`
}

// ToTransactionFilter converts query parameters to a ledger filter.
func (q *TransactionListQuery) ToTransactionFilter() (finance.ListFilter, error) {
	base, err := q.ToFilter()
	if err != nil {
		return finance.ListFilter{}, err
	}

	filter := finance.ListFilter{ListFilter: base}
	if q.TransactionType != "" {
		tt := finance.TransactionType(q.TransactionType)
		filter.TransactionType = &tt
	}
	if q.Category != "" {
		filter.Category = &q.Category
	}
	return filter, nil
}
