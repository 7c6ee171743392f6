package dto

import (
	"time"

	"broilerfarm/internal/domain/reports"
)

// PeriodQuery bounds financial statements. Both ends are optional and
// inclusive.
type PeriodQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// ToPeriod converts query parameters to a report period.
func (q *PeriodQuery) ToPeriod() reports.Period {
	return reports.Period{From: q.From, To: q.To}
}
