// Package finance holds the financial transaction ledger: owner
// capital movements and other farm-level money flows that are not
// tied to a batch event. Cash-flow reporting reads its financing
// section from this ledger.
package finance

import (
	"context"
	"time"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/entity"
	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TypeCapitalInjection TransactionType = "Capital Injection"
	TypeWithdrawal       TransactionType = "Withdrawal"
	TypeOtherIncome      TransactionType = "Other Income"
	TypeOtherExpense     TransactionType = "Other Expense"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TypeCapitalInjection, TypeWithdrawal, TypeOtherIncome, TypeOtherExpense:
		return true
	}
	return false
}

// IsInflow reports whether the entry adds cash to the farm.
func (t TransactionType) IsInflow() bool {
	return t == TypeCapitalInjection || t == TypeOtherIncome
}

// Transaction is one entry in the financial ledger.
type Transaction struct {
	entity.BaseRecord

	TransactionType TransactionType `db:"transaction_type" json:"transactionType"`
	Category        string          `db:"category" json:"category"`
	Description     string          `db:"description" json:"description"`
	Amount          types.Money     `db:"amount" json:"amount"`
}

// New creates a ledger entry.
func New(ownerID id.ID, date time.Time, txType TransactionType, amount types.Money) *Transaction {
	return &Transaction{
		BaseRecord:      entity.NewBaseRecord(ownerID, date),
		TransactionType: txType,
		Category:        "Uncategorized",
		Amount:          amount,
	}
}

// Validate checks the entry.
func (t *Transaction) Validate(ctx context.Context) error {
	if err := t.BaseRecord.Validate(ctx); err != nil {
		return err
	}
	if !t.TransactionType.Valid() {
		return apperror.NewValidation("unknown transaction type")
	}
	if !t.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive")
	}
	if t.Description == "" {
		return apperror.NewValidation("description is required")
	}
	return nil
}

// SignedAmount returns the amount with outflows negated.
func (t *Transaction) SignedAmount() types.Money {
	if t.TransactionType.IsInflow() {
		return t.Amount
	}
	return t.Amount.Neg()
}
