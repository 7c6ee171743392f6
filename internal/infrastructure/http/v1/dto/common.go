// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"strings"
	"time"

	"broilerfarm/internal/core/apperror"
	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain"
)

// --- List Filtering ---

// ListQuery contains common list query parameters.
type ListQuery struct {
	Search   string     `form:"search"`
	BatchID  string     `form:"batchId"`
	DateFrom *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"dateTo" time_format:"2006-01-02"`
	OrderBy  string     `form:"orderBy"`
	Limit    int        `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset   int        `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts query parameters to a domain list filter.
func (q *ListQuery) ToFilter() (domain.ListFilter, error) {
	filter := domain.DefaultListFilter()
	filter.Search = strings.TrimSpace(q.Search)
	if q.BatchID != "" {
		batchID, err := id.Parse(q.BatchID)
		if err != nil {
			return filter, apperror.NewValidation("invalid batchId").WithDetail("batchId", q.BatchID)
		}
		filter.BatchID = &batchID
	}
	filter.DateFrom = q.DateFrom
	filter.DateTo = q.DateTo
	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}
	if q.Limit > 0 {
		filter.Limit = q.Limit
	}
	filter.Offset = q.Offset
	return filter, nil
}

// --- Responses ---

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ResultResponse reports a reconciliation outcome. Warnings surface
// tolerated failures like a delete whose batch no longer exists.
type ResultResponse struct {
	ID       string   `json:"id,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
