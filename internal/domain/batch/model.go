// Package batch provides the production batch aggregate. A batch is one
// cohort of broiler chicks tracked from purchase to close-out; every
// mortality, feed, weight and sales event mutates it through the
// apply/revert transitions defined here and nowhere else.
package batch

import (
	"context"
	"time"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/entity"
	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
	"broilerfarm/internal/domain/metrics"
)

// Status is the batch lifecycle state.
type Status string

const (
	StatusActive Status = "Active"
	StatusClosed Status = "Closed"
)

// Batch represents one production cohort.
type Batch struct {
	entity.BaseEntity

	Name  string `db:"name" json:"name"`
	Breed string `db:"breed" json:"breed,omitempty"`

	HatchDate    *time.Time `db:"hatch_date" json:"hatchDate,omitempty"`
	PurchaseDate time.Time  `db:"purchase_date" json:"purchaseDate"`

	// Purchase inputs, fixed at creation
	PurchasedChickCount int         `db:"purchased_chick_count" json:"purchasedChickCount"`
	FreeChickCount      int         `db:"free_chick_count" json:"freeChickCount"`
	ChickPrice          types.Money `db:"chick_price" json:"chickPrice"`

	// Budget inputs, editable
	ProposedSellingPrice types.Money `db:"proposed_selling_price" json:"proposedSellingPricePerBird"`
	EstimatedFeedCost    types.Money `db:"estimated_feed_cost" json:"estimatedFeedCost"`

	// Population, partitioned by the central invariant:
	// CurrentCount + TotalMortality + TotalBirdsSold == InitialTotal
	InitialTotal   int `db:"initial_total" json:"initialTotal"`
	CurrentCount   int `db:"current_count" json:"currentCount"`
	TotalMortality int `db:"total_mortality" json:"totalMortality"`
	TotalBirdsSold int `db:"total_birds_sold" json:"totalBirdsSold"`

	// Derived metrics, recomputed by the transitions below
	CurrentMortalityRate  types.Money    `db:"current_mortality_rate" json:"currentMortalityRate"`
	FeedConsumed          types.Quantity `db:"feed_consumed" json:"feedConsumed"`
	CurrentWeight         types.Quantity `db:"current_weight" json:"currentWeight"`
	FeedConversionRatio   types.Money    `db:"feed_conversion_ratio" json:"feedConversionRatio"`
	TotalSalesRevenue     types.Money    `db:"total_sales_revenue" json:"totalSalesRevenue"`
	EstimatedSalesRevenue types.Money    `db:"estimated_sales_revenue" json:"estimatedSalesRevenue"`
	EstimatedProfitLoss   types.Money    `db:"estimated_profit_loss" json:"estimatedProfitLoss"`

	// TotalWeightSold is the cumulative live weight sold (kg), used for
	// closed-batch FCR reporting when no current weight sample remains.
	TotalWeightSold types.Quantity `db:"total_weight_sold" json:"totalWeightSold"`

	Status   Status     `db:"status" json:"status"`
	ClosedAt *time.Time `db:"closed_at" json:"closedAt,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy,omitempty"`
}

// New creates a batch from purchase inputs and computes the initial
// financial estimate.
func New(ownerID id.ID, name string) *Batch {
	now := time.Now().UTC()
	return &Batch{
		BaseEntity:            entity.NewBaseEntity(ownerID),
		Name:                  name,
		Status:                StatusActive,
		ChickPrice:            types.Zero(),
		ProposedSellingPrice:  types.Zero(),
		EstimatedFeedCost:     types.Zero(),
		CurrentMortalityRate:  types.Zero(),
		FeedConversionRatio:   types.Zero(),
		TotalSalesRevenue:     types.Zero(),
		EstimatedSalesRevenue: types.Zero(),
		EstimatedProfitLoss:   types.Zero(),
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// Validate implements entity.Validatable.
func (b *Batch) Validate(ctx context.Context) error {
	if b.Name == "" {
		return apperror.NewValidation("batch name is required").
			WithDetail("field", "name")
	}
	if b.PurchaseDate.IsZero() {
		return apperror.NewValidation("purchase date is required").
			WithDetail("field", "purchaseDate")
	}
	if b.PurchasedChickCount < 0 {
		return apperror.NewValidation("purchased chick count must be non-negative").
			WithDetail("field", "purchasedChickCount")
	}
	if b.FreeChickCount < 0 {
		return apperror.NewValidation("free chick count must be non-negative").
			WithDetail("field", "freeChickCount")
	}
	if b.PurchasedChickCount+b.FreeChickCount == 0 {
		return apperror.NewValidation("batch must contain at least one chick")
	}
	if b.ChickPrice.IsNegative() {
		return apperror.NewValidation("chick price must be non-negative").
			WithDetail("field", "chickPrice")
	}
	if b.ProposedSellingPrice.IsNegative() {
		return apperror.NewValidation("proposed selling price must be non-negative").
			WithDetail("field", "proposedSellingPricePerBird")
	}
	if b.EstimatedFeedCost.IsNegative() {
		return apperror.NewValidation("estimated feed cost must be non-negative").
			WithDetail("field", "estimatedFeedCost")
	}
	return nil
}

// Initialize fixes the population and computes the creation-time
// financial estimate. Called once, after the purchase inputs are set.
func (b *Batch) Initialize() {
	b.InitialTotal = b.PurchasedChickCount + b.FreeChickCount
	b.CurrentCount = b.InitialTotal
	b.TotalMortality = 0
	b.TotalBirdsSold = 0
	b.CurrentMortalityRate = types.Zero()
	b.recomputeEstimates()
}

// CanRecord checks that the batch accepts new event records.
func (b *Batch) CanRecord() error {
	if b.Status == StatusClosed {
		return apperror.NewBatchClosed(b.ID.String())
	}
	return nil
}

// Close marks the batch finished. Events recorded earlier stay intact.
func (b *Batch) Close() {
	now := time.Now().UTC()
	b.Status = StatusClosed
	b.ClosedAt = &now
}

// Reopen reactivates a closed batch.
func (b *Batch) Reopen() {
	b.Status = StatusActive
	b.ClosedAt = nil
}

// --- Event transitions ---
// Each apply has an exact-inverse revert; edits and deletes are built
// from these pairs inside one transaction.

// ApplyMortality removes count dead birds from the live population.
func (b *Batch) ApplyMortality(count int) error {
	if count <= 0 {
		return apperror.NewValidation("mortality count must be positive").
			WithDetail("field", "count")
	}
	if count > b.CurrentCount {
		return apperror.NewInsufficientPopulation(b.ID.String(), count, b.CurrentCount)
	}
	b.CurrentCount -= count
	b.TotalMortality += count
	b.CurrentMortalityRate = metrics.MortalityRate(b.TotalMortality, b.InitialTotal)
	b.recomputeEstimates()
	return nil
}

// RevertMortality is the exact inverse of ApplyMortality.
func (b *Batch) RevertMortality(count int) error {
	if count > b.TotalMortality {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"cannot revert more mortality than recorded").
			WithDetail("batch_id", b.ID.String()).
			WithDetail("count", count).
			WithDetail("total_mortality", b.TotalMortality)
	}
	b.CurrentCount += count
	b.TotalMortality -= count
	b.CurrentMortalityRate = metrics.MortalityRate(b.TotalMortality, b.InitialTotal)
	b.recomputeEstimates()
	return nil
}

// ApplySale removes sold birds and accumulates revenue. The estimated
// profit/loss stays frozen at its creation-time value; only the revenue
// projection follows the shrinking population.
func (b *Batch) ApplySale(quantity int, revenue types.Money, weightSold types.Quantity) error {
	if quantity <= 0 {
		return apperror.NewValidation("sale quantity must be positive").
			WithDetail("field", "quantity")
	}
	if quantity > b.CurrentCount {
		return apperror.NewInsufficientPopulation(b.ID.String(), quantity, b.CurrentCount)
	}
	b.CurrentCount -= quantity
	b.TotalBirdsSold += quantity
	b.TotalSalesRevenue = types.Round2(b.TotalSalesRevenue.Add(revenue))
	b.TotalWeightSold = b.TotalWeightSold.Add(weightSold)
	b.EstimatedSalesRevenue = metrics.EstimatedSalesRevenue(b.CurrentCount, b.ProposedSellingPrice)
	return nil
}

// RevertSale is the exact inverse of ApplySale.
func (b *Batch) RevertSale(quantity int, revenue types.Money, weightSold types.Quantity) error {
	if quantity > b.TotalBirdsSold {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"cannot revert more birds than sold").
			WithDetail("batch_id", b.ID.String()).
			WithDetail("quantity", quantity).
			WithDetail("total_birds_sold", b.TotalBirdsSold)
	}
	b.CurrentCount += quantity
	b.TotalBirdsSold -= quantity
	b.TotalSalesRevenue = types.Round2(b.TotalSalesRevenue.Sub(revenue))
	b.TotalWeightSold = b.TotalWeightSold.Sub(weightSold).ClampZero()
	b.EstimatedSalesRevenue = metrics.EstimatedSalesRevenue(b.CurrentCount, b.ProposedSellingPrice)
	return nil
}

// ApplyFeed accumulates feed consumption and recomputes FCR.
func (b *Batch) ApplyFeed(kg types.Quantity) error {
	if !kg.IsPositive() {
		return apperror.NewValidation("feed quantity must be positive").
			WithDetail("field", "quantityKg")
	}
	b.FeedConsumed = b.FeedConsumed.Add(kg)
	b.recomputeFCR()
	return nil
}

// RevertFeed is the exact inverse of ApplyFeed.
func (b *Batch) RevertFeed(kg types.Quantity) error {
	if kg.Int64Scaled() > b.FeedConsumed.Int64Scaled() {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"cannot revert more feed than consumed").
			WithDetail("batch_id", b.ID.String())
	}
	b.FeedConsumed = b.FeedConsumed.Sub(kg)
	b.recomputeFCR()
	return nil
}

// ApplyWeightSample sets the current average weight from the latest
// sample and recomputes FCR.
func (b *Batch) ApplyWeightSample(avgWeight types.Quantity) error {
	if !avgWeight.IsPositive() {
		return apperror.NewValidation("average weight must be positive").
			WithDetail("field", "averageWeightKg")
	}
	b.CurrentWeight = avgWeight
	b.recomputeFCR()
	return nil
}

// RevertWeightSample falls back to the previous latest sample weight
// (zero when no samples remain).
func (b *Batch) RevertWeightSample(fallbackWeight types.Quantity) {
	b.CurrentWeight = fallbackWeight
	b.recomputeFCR()
}

// RecomputeEstimates refreshes the frozen budget figures. Only batch
// create/edit may call this; event transitions never touch the
// profit/loss estimate except mortality, which shifts the projection.
func (b *Batch) RecomputeEstimates() {
	b.recomputeEstimates()
}

func (b *Batch) recomputeEstimates() {
	b.EstimatedSalesRevenue = metrics.EstimatedSalesRevenue(b.CurrentCount, b.ProposedSellingPrice)
	b.EstimatedProfitLoss = metrics.EstimatedProfitLoss(
		b.EstimatedSalesRevenue, b.ChickPrice, b.PurchasedChickCount, b.EstimatedFeedCost)
}

func (b *Batch) recomputeFCR() {
	b.FeedConversionRatio = metrics.FeedConversionRatio(b.FeedConsumed, b.CurrentWeight, b.CurrentCount)
}

// CheckInvariant verifies the population partition. Used by tests and
// as a final guard before persisting a mutated batch.
func (b *Batch) CheckInvariant() error {
	if b.CurrentCount < 0 || b.CurrentCount > b.InitialTotal {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"current count out of range").
			WithDetail("batch_id", b.ID.String()).
			WithDetail("current_count", b.CurrentCount).
			WithDetail("initial_total", b.InitialTotal)
	}
	if b.CurrentCount+b.TotalMortality+b.TotalBirdsSold != b.InitialTotal {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"population partition violated").
			WithDetail("batch_id", b.ID.String()).
			WithDetail("current_count", b.CurrentCount).
			WithDetail("total_mortality", b.TotalMortality).
			WithDetail("total_birds_sold", b.TotalBirdsSold).
			WithDetail("initial_total", b.InitialTotal)
	}
	return nil
}

// AgeDays returns the batch age in days from hatch date when known,
// otherwise from purchase date.
func (b *Batch) AgeDays(now time.Time) int {
	start := b.PurchaseDate
	if b.HatchDate != nil {
		start = *b.HatchDate
	}
	if start.IsZero() {
		return 0
	}
	days := int(now.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
