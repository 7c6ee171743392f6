// Package health provides the health event record: vaccinations,
// treatments and inspections, optionally consuming a supply item.
package health

import (
	"context"
	"time"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/entity"
	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
)

// EventType classifies the health event.
type EventType string

const (
	EventVaccination EventType = "Vaccination"
	EventTreatment   EventType = "Treatment"
	EventInspection  EventType = "Inspection"
)

// Record is one health event.
type Record struct {
	entity.BaseRecord

	EventType   EventType `db:"event_type" json:"eventType"`
	Description string    `db:"description" json:"description,omitempty"`

	// BatchID is optional: farm-wide events carry no batch.
	BatchID *id.ID `db:"batch_id" json:"batchId,omitempty"`

	// Supply consumption: when set, QuantityUsed is withdrawn from the
	// item's stock with the same revert/reapply discipline as feed.
	SupplyItemID *id.ID         `db:"supply_item_id" json:"supplyItemId,omitempty"`
	QuantityUsed types.Quantity `db:"quantity_used" json:"quantityUsed,omitempty"`
}

// New creates a health record.
func New(ownerID id.ID, date time.Time, eventType EventType) *Record {
	return &Record{
		BaseRecord: entity.NewBaseRecord(ownerID, date),
		EventType:  eventType,
	}
}

// ConsumesSupply reports whether this event withdraws stock.
func (r *Record) ConsumesSupply() bool {
	return r.SupplyItemID != nil && !id.IsNil(*r.SupplyItemID) && r.QuantityUsed.IsPositive()
}

// Validate implements entity.Validatable.
func (r *Record) Validate(ctx context.Context) error {
	if err := r.BaseRecord.Validate(ctx); err != nil {
		return err
	}
	switch r.EventType {
	case EventVaccination, EventTreatment, EventInspection:
	default:
		return apperror.NewValidation("unknown health event type").
			WithDetail("field", "eventType")
	}
	if r.QuantityUsed.IsNegative() {
		return apperror.NewValidation("quantity used must be non-negative").
			WithDetail("field", "quantityUsed")
	}
	if r.SupplyItemID != nil && !id.IsNil(*r.SupplyItemID) && !r.QuantityUsed.IsPositive() {
		return apperror.NewValidation("quantity used must be positive when a supply item is consumed").
			WithDetail("field", "quantityUsed")
	}
	return nil
}
