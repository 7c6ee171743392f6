// Package sales provides the sales event record.
package sales

import (
	"context"
	"time"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/entity"
	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
	"broilerfarm/internal/domain/metrics"
)

// SaleType distinguishes immediate cash sales from credit sales.
type SaleType string

const (
	SaleCash   SaleType = "Cash"
	SaleCredit SaleType = "Credit"
)

// Record is one sale of birds out of a batch.
type Record struct {
	entity.BaseRecord

	BatchID      id.ID    `db:"batch_id" json:"batchId"`
	Quantity     int      `db:"quantity" json:"quantity"`
	PricePerBird types.Money `db:"price_per_bird" json:"pricePerBird"`
	SaleType     SaleType `db:"sale_type" json:"saleType"`
	CustomerName string   `db:"customer_name" json:"customerName,omitempty"`

	// TotalWeightKg is the live weight sold, optional; feeds the
	// closed-batch FCR calculation in reporting.
	TotalWeightKg types.Quantity `db:"total_weight_kg" json:"totalWeightKg,omitempty"`

	AmountReceived types.Money `db:"amount_received" json:"amountReceived"`

	// Derived: recomputed from quantity/price/received on every save
	TotalRevenue  types.Money           `db:"total_revenue" json:"totalRevenue"`
	BalanceDue    types.Money           `db:"balance_due" json:"balanceDue"`
	PaymentStatus metrics.PaymentStatus `db:"payment_status" json:"paymentStatus"`

	Notes string `db:"notes" json:"notes,omitempty"`
}

// New creates a sales record with derived fields computed.
func New(ownerID, batchID id.ID, date time.Time, quantity int, pricePerBird types.Money, saleType SaleType, amountReceived types.Money) *Record {
	r := &Record{
		BaseRecord:     entity.NewBaseRecord(ownerID, date),
		BatchID:        batchID,
		Quantity:       quantity,
		PricePerBird:   pricePerBird,
		SaleType:       saleType,
		AmountReceived: amountReceived,
	}
	r.Recalculate()
	return r
}

// Recalculate refreshes total revenue, balance due and payment status.
// Must be called after any change to quantity, price or amount received.
func (r *Record) Recalculate() {
	r.TotalRevenue = metrics.SaleTotal(r.Quantity, r.PricePerBird)
	r.BalanceDue = metrics.BalanceDue(r.TotalRevenue, r.AmountReceived)
	r.PaymentStatus = metrics.PaymentStatusFor(r.TotalRevenue, r.AmountReceived)
}

// Validate implements entity.Validatable.
func (r *Record) Validate(ctx context.Context) error {
	if err := r.BaseRecord.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(r.BatchID) {
		return apperror.NewValidation("batch is required").
			WithDetail("field", "batchId")
	}
	if r.Quantity <= 0 {
		return apperror.NewValidation("sale quantity must be positive").
			WithDetail("field", "quantity")
	}
	if r.PricePerBird.IsNegative() {
		return apperror.NewValidation("price per bird must be non-negative").
			WithDetail("field", "pricePerBird")
	}
	if r.SaleType != SaleCash && r.SaleType != SaleCredit {
		return apperror.NewValidation("sale type must be Cash or Credit").
			WithDetail("field", "saleType")
	}
	if r.AmountReceived.IsNegative() {
		return apperror.NewValidation("amount received must be non-negative").
			WithDetail("field", "amountReceived")
	}
	if r.TotalWeightKg.IsNegative() {
		return apperror.NewValidation("total weight must be non-negative").
			WithDetail("field", "totalWeightKg")
	}
	return nil
}
