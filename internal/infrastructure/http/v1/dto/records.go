package dto

import (
	"time"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
	"broilerfarm/internal/domain/records/expense"
	"broilerfarm/internal/domain/records/feed"
	"broilerfarm/internal/domain/records/health"
	"broilerfarm/internal/domain/records/mortality"
	"broilerfarm/internal/domain/records/sales"
	"broilerfarm/internal/domain/records/weight"
)

func parseOptionalID(s, field string) (*id.ID, error) {
	if s == "" {
		return nil, nil
	}
	parsed, err := id.Parse(s)
	if err != nil {
		return nil, apperror.NewValidation("invalid "+field).WithDetail(field, s)
	}
	return &parsed, nil
}

// --- Mortality ---

// MortalityRequest covers create and update: updates are applied as
// revert-old plus apply-new, so both take the full record.
type MortalityRequest struct {
	BatchID string    `json:"batchId" binding:"required,uuid"`
	Date    time.Time `json:"date" binding:"required"`
	Count   int       `json:"count" binding:"required,min=1"`
	Reason  string    `json:"reason"`
	Notes   string    `json:"notes"`
}

// ToEntity builds a mortality record from the request.
func (r *MortalityRequest) ToEntity(ownerID id.ID) (*mortality.Record, error) {
	batchID, err := id.Parse(r.BatchID)
	if err != nil {
		return nil, apperror.NewValidation("invalid batchId").WithDetail("batchId", r.BatchID)
	}

	rec := mortality.New(ownerID, batchID, r.Date, r.Count)
	rec.Reason = r.Reason
	rec.Notes = r.Notes
	return rec, nil
}

// --- Feed ---

type FeedRequest struct {
	BatchID      string         `json:"batchId" binding:"required,uuid"`
	SupplyItemID string         `json:"supplyItemId" binding:"required,uuid"`
	Date         time.Time      `json:"date" binding:"required"`
	QuantityKg   types.Quantity `json:"quantityKg" binding:"required"`
	Notes        string         `json:"notes"`
}

// ToEntity builds a feed record from the request.
func (r *FeedRequest) ToEntity(ownerID id.ID) (*feed.Record, error) {
	batchID, err := id.Parse(r.BatchID)
	if err != nil {
		return nil, apperror.NewValidation("invalid batchId").WithDetail("batchId", r.BatchID)
	}
	itemID, err := id.Parse(r.SupplyItemID)
	if err != nil {
		return nil, apperror.NewValidation("invalid supplyItemId").WithDetail("supplyItemId", r.SupplyItemID)
	}

	rec := feed.New(ownerID, batchID, itemID, r.Date, r.QuantityKg)
	rec.Notes = r.Notes
	return rec, nil
}

// --- Weight ---

type WeightRequest struct {
	BatchID         string         `json:"batchId" binding:"required,uuid"`
	Date            time.Time      `json:"date" binding:"required"`
	AverageWeightKg types.Quantity `json:"averageWeightKg" binding:"required"`
	SampleSize      int            `json:"sampleSize" binding:"omitempty,min=1"`
	Notes           string         `json:"notes"`
}

// ToEntity builds a weight record from the request.
func (r *WeightRequest) ToEntity(ownerID id.ID) (*weight.Record, error) {
	batchID, err := id.Parse(r.BatchID)
	if err != nil {
		return nil, apperror.NewValidation("invalid batchId").WithDetail("batchId", r.BatchID)
	}

	rec := weight.New(ownerID, batchID, r.Date, r.AverageWeightKg)
	rec.SampleSize = r.SampleSize
	rec.Notes = r.Notes
	return rec, nil
}

// --- Sales ---

type SaleRequest struct {
	BatchID        string         `json:"batchId" binding:"required,uuid"`
	Date           time.Time      `json:"date" binding:"required"`
	Quantity       int            `json:"quantity" binding:"required,min=1"`
	PricePerBird   types.Money    `json:"pricePerBird"`
	SaleType       string         `json:"saleType" binding:"required,oneof=Cash Credit"`
	CustomerName   string         `json:"customerName"`
	TotalWeightKg  types.Quantity `json:"totalWeightKg"`
	AmountReceived types.Money    `json:"amountReceived"`
	Notes          string         `json:"notes"`
}

// ToEntity builds a sales record with derived fields computed.
func (r *SaleRequest) ToEntity(ownerID id.ID) (*sales.Record, error) {
	batchID, err := id.Parse(r.BatchID)
	if err != nil {
		return nil, apperror.NewValidation("invalid batchId").WithDetail("batchId", r.BatchID)
	}

	rec := sales.New(ownerID, batchID, r.Date, r.Quantity, r.PricePerBird, sales.SaleType(r.SaleType), r.AmountReceived)
	rec.CustomerName = r.CustomerName
	rec.TotalWeightKg = r.TotalWeightKg
	rec.Notes = r.Notes
	return rec, nil
}

// SalesListQuery narrows sales listings.
type SalesListQuery struct {
	ListQuery
	SaleType      string `form:"saleType" binding:"omitempty,oneof=Cash Credit"`
	PaymentStatus string `form:"paymentStatus"`
	CustomerName  string `form:"customerName"`
}

// ToSalesFilter converts query parameters to a sales list filter.
func (q *SalesListQuery) ToSalesFilter() (sales.ListFilter, error) {
	base, err := q.ToFilter()
	if err != nil {
		return sales.ListFilter{}, err
	}

	filter := sales.ListFilter{ListFilter: base}
	if q.SaleType != "" {
		st := sales.SaleType(q.SaleType)
		filter.SaleType = &st
	}
	if q.PaymentStatus != "" {
		filter.PaymentStatus = &q.PaymentStatus
	}
	if q.CustomerName != "" {
		filter.CustomerName = &q.CustomerName
	}
	return filter, nil
}

// --- Expenses ---

type ExpenseRequest struct {
	Date              time.Time      `json:"date" binding:"required"`
	Category          string         `json:"category" binding:"required"`
	Description       string         `json:"description"`
	Amount            types.Money    `json:"amount"`
	SupplyItemID      string         `json:"supplyItemId" binding:"omitempty,uuid"`
	QuantityPurchased types.Quantity `json:"quantityPurchased"`
	BatchID           string         `json:"batchId" binding:"omitempty,uuid"`
}

// ToEntity builds an expense record from the request.
func (r *ExpenseRequest) ToEntity(ownerID id.ID) (*expense.Record, error) {
	rec := expense.New(ownerID, r.Date, r.Category, r.Amount)
	rec.Description = r.Description
	rec.QuantityPurchased = r.QuantityPurchased

	itemID, err := parseOptionalID(r.SupplyItemID, "supplyItemId")
	if err != nil {
		return nil, err
	}
	rec.SupplyItemID = itemID

	batchID, err := parseOptionalID(r.BatchID, "batchId")
	if err != nil {
		return nil, err
	}
	rec.BatchID = batchID

	return rec, nil
}

// ExpenseListQuery narrows expense listings.
type ExpenseListQuery struct {
	ListQuery
	Category     string `form:"category"`
	SupplyItemID string `form:"supplyItemId" binding:"omitempty,uuid"`
}

// ToExpenseFilter converts query parameters to an expense list filter.
func (q *ExpenseListQuery) ToExpenseFilter() (expense.ListFilter, error) {
	base, err := q.ToFilter()
	if err != nil {
		return expense.ListFilter{}, err
	}

	filter := expense.ListFilter{ListFilter: base}
	if q.Category != "" {
		filter.Category = &q.Category
	}
	itemID, err := parseOptionalID(q.SupplyItemID, "supplyItemId")
	if err != nil {
		return expense.ListFilter{}, err
	}
	filter.SupplyItemID = itemID
	return filter, nil
}

// --- Health ---

type HealthRequest struct {
	Date         time.Time      `json:"date" binding:"required"`
	EventType    string         `json:"eventType" binding:"required,oneof=Vaccination Treatment Inspection"`
	Description  string         `json:"description"`
	BatchID      string         `json:"batchId" binding:"omitempty,uuid"`
	SupplyItemID string         `json:"supplyItemId" binding:"omitempty,uuid"`
	QuantityUsed types.Quantity `json:"quantityUsed"`
}

// ToEntity builds a health record from the request.
func (r *HealthRequest) ToEntity(ownerID id.ID) (*health.Record, error) {
	rec := health.New(ownerID, r.Date, health.EventType(r.EventType))
	rec.Description = r.Description
	rec.QuantityUsed = r.QuantityUsed

	batchID, err := parseOptionalID(r.BatchID, "batchId")
	if err != nil {
		return nil, err
	}
	rec.BatchID = batchID

	itemID, err := parseOptionalID(r.SupplyItemID, "supplyItemId")
	if err != nil {
		return nil, err
	}
	rec.SupplyItemID = itemID

	return rec, nil
}

// HealthListQuery narrows health event listings.
type HealthListQuery struct {
	ListQuery
	EventType string `form:"eventType" binding:"omitempty,oneof=Vaccination Treatment Inspection"`
}

// ToHealthFilter converts query parameters to a health list filter.
func (q *HealthListQuery) ToHealthFilter() (health.ListFilter, error) {
	base, err := q.ToFilter()
	if err != nil {
		return health.ListFilter{}, err
	}

	filter := health.ListFilter{ListFilter: base}
	if q.EventType != "" {
		et := health.EventType(q.EventType)
		filter.EventType = &et
	}
	return filter, nil
}
