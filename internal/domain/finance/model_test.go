package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
)

var testDate = time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr bool
	}{
		{"valid", func(tx *Transaction) {}, false},
		{"unknown type", func(tx *Transaction) { tx.TransactionType = "Loan" }, true},
		{"zero amount", func(tx *Transaction) { tx.Amount = types.Zero() }, true},
		{"negative amount", func(tx *Transaction) { tx.Amount = types.MustMoney("-10") }, true},
		{"missing description", func(tx *Transaction) { tx.Description = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := New(id.New(), testDate, TypeCapitalInjection, types.MustMoney("1000"))
			tx.Description = "Owner startup capital"
			tt.mutate(tx)

			err := tx.Validate(t.Context())
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSignedAmount(t *testing.T) {
	injection := New(id.New(), testDate, TypeCapitalInjection, types.MustMoney("1000"))
	assert.True(t, injection.SignedAmount().Equal(types.MustMoney("1000")))

	withdrawal := New(id.New(), testDate, TypeWithdrawal, types.MustMoney("250"))
	assert.True(t, withdrawal.SignedAmount().Equal(types.MustMoney("-250")))
}
