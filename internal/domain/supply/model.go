// Package supply provides the supply inventory item: feed, medication,
// vaccines and equipment consumed by feed and health events, replenished
// by purchase expenses.
package supply

import (
	"context"
	"strings"
	"time"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/entity"
	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
)

// Category groups supply items for consumption and COGS reporting.
type Category string

const (
	CategoryFeed       Category = "Feed"
	CategoryMedication Category = "Medication"
	CategoryVaccine    Category = "Vaccine"
	CategoryEquipment  Category = "Equipment"
	CategoryOther      Category = "Other"
)

// Item is one stock-tracked supply position.
type Item struct {
	entity.BaseEntity

	Name     string   `db:"name" json:"name"`
	Unit     string   `db:"unit" json:"unit"`
	Category Category `db:"category" json:"category"`

	// CurrentStock never goes negative; every consuming operation
	// checks it first.
	CurrentStock types.Quantity `db:"current_stock" json:"currentStock"`

	// BufferStock is the reorder threshold. Zero disables the signal.
	BufferStock types.Quantity `db:"buffer_stock" json:"bufferStock"`

	// CostBasis accumulates purchase spend for COGS reporting.
	CostBasis types.Money `db:"cost_basis" json:"costBasis"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a supply item.
func New(ownerID id.ID, name, unit string, category Category) *Item {
	now := time.Now().UTC()
	return &Item{
		BaseEntity: entity.NewBaseEntity(ownerID),
		Name:       name,
		Unit:       unit,
		Category:   category,
		CostBasis:  types.Zero(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate implements entity.Validatable.
func (i *Item) Validate(ctx context.Context) error {
	if i.Name == "" {
		return apperror.NewValidation("supply item name is required").
			WithDetail("field", "name")
	}
	if i.Unit == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}
	if i.CurrentStock.IsNegative() {
		return apperror.NewValidation("current stock must be non-negative").
			WithDetail("field", "currentStock")
	}
	if i.BufferStock.IsNegative() {
		return apperror.NewValidation("buffer stock must be non-negative").
			WithDetail("field", "bufferStock")
	}
	return nil
}

// Consume withdraws qty from stock.
func (i *Item) Consume(qty types.Quantity) error {
	if !qty.IsPositive() {
		return apperror.NewValidation("consumption quantity must be positive").
			WithDetail("field", "quantity")
	}
	if qty.Int64Scaled() > i.CurrentStock.Int64Scaled() {
		return apperror.NewInsufficientStock(i.ID.String(), qty.Float64(), i.CurrentStock.Float64())
	}
	i.CurrentStock = i.CurrentStock.Sub(qty)
	return nil
}

// RevertConsumption is the exact inverse of Consume.
func (i *Item) RevertConsumption(qty types.Quantity) {
	i.CurrentStock = i.CurrentStock.Add(qty)
}

// Restock adds purchased quantity and accumulates its cost.
func (i *Item) Restock(qty types.Quantity, cost types.Money) error {
	if !qty.IsPositive() {
		return apperror.NewValidation("restock quantity must be positive").
			WithDetail("field", "quantity")
	}
	i.CurrentStock = i.CurrentStock.Add(qty)
	i.CostBasis = types.Round2(i.CostBasis.Add(cost))
	return nil
}

// RevertRestock undoes a purchase. Stock already consumed since the
// purchase clamps the balance at zero rather than failing the reversal.
func (i *Item) RevertRestock(qty types.Quantity, cost types.Money) (clamped bool) {
	next := i.CurrentStock.Sub(qty)
	if next.IsNegative() {
		next = 0
		clamped = true
	}
	i.CurrentStock = next
	i.CostBasis = types.Round2(i.CostBasis.Sub(cost))
	if i.CostBasis.IsNegative() {
		i.CostBasis = types.Zero()
	}
	return clamped
}

// IsLowStock reports whether stock has reached the reorder threshold.
// Pure query, not a stored state transition.
func (i *Item) IsLowStock() bool {
	return i.BufferStock.IsPositive() &&
		i.CurrentStock.Int64Scaled() <= i.BufferStock.Int64Scaled()
}

// IsFeedLike reports whether the category counts as feed for COGS
// grouping.
func (i *Item) IsFeedLike() bool {
	return strings.Contains(strings.ToLower(string(i.Category)), "feed")
}
