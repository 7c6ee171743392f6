package entity

import (
	"context"
	"time"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/id"
)

// BaseRecord extends BaseEntity with audit fields. Every farm event
// (mortality, feed, weight, sale, expense, health) embeds it.
type BaseRecord struct {
	BaseEntity

	// Date is the business date of the event
	Date time.Time `db:"date" json:"date"`

	// Audit fields
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy,omitempty"`
}

// NewBaseRecord creates a new BaseRecord with generated ID and timestamps.
func NewBaseRecord(ownerID id.ID, date time.Time) BaseRecord {
	now := time.Now().UTC()
	if date.IsZero() {
		date = now
	}
	return BaseRecord{
		BaseEntity: NewBaseEntity(ownerID),
		Date:       date.UTC(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Touch updates the UpdatedAt timestamp and increments version.
func (b *BaseRecord) Touch() {
	b.UpdatedAt = time.Now().UTC()
	b.BaseEntity.Touch()
}

// SetUpdatedAt updates the updated_at timestamp (used by repository).
func (b *BaseRecord) SetUpdatedAt(t time.Time) {
	b.UpdatedAt = t
}

// Validate implements Validatable interface.
func (b *BaseRecord) Validate(ctx context.Context) error {
	if b.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	if b.Date.After(time.Now().UTC().Add(24 * time.Hour)) {
		return apperror.NewValidation("date cannot be in the future").
			WithDetail("field", "date")
	}
	return nil
}
