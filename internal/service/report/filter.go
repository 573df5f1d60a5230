package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"mr3x-notificacoes/internal/domain"
)

// ExportFilter bounds created_at by whole days in the configured location.
// Both ends are inclusive.
type ExportFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    domain.StatusFilter
}

// ParseExportFilter reads YYYY-MM-DD bounds and a status name. Empty
// values leave that part of the filter open.
func ParseExportFilter(start, end, status string, loc *time.Location) (ExportFilter, error) {
	if loc == nil {
		loc = time.UTC
	}

	verr := &domain.ValidationError{}
	filter := ExportFilter{}

	parse := func(field, value string) *time.Time {
		value = strings.TrimSpace(value)
		if value == "" {
			return nil
		}
		t, err := time.ParseInLocation(domain.DateLayout, value, loc)
		if err != nil {
			verr.Add(field, "must be a date in YYYY-MM-DD format")
			return nil
		}
		return &t
	}
	filter.StartDate = parse("start", start)
	filter.EndDate = parse("end", end)

	sf, err := domain.ParseStatusFilter(status)
	if err != nil {
		verr.Add("status", err.Error())
	}
	filter.Status = sf

	if verr.HasErrors() {
		return ExportFilter{}, verr
	}
	return filter, nil
}

func (f ExportFilter) From() *time.Time {
	if f.StartDate == nil {
		return nil
	}
	s := *f.StartDate
	from := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, s.Location())
	return &from
}

func (f ExportFilter) To() *time.Time {
	if f.EndDate == nil {
		return nil
	}
	e := *f.EndDate
	to := time.Date(e.Year(), e.Month(), e.Day(), 23, 59, 59, 0, e.Location())
	return &to
}

// Apply keeps the records inside the date range and status bucket,
// preserving their order.
func (f ExportFilter) Apply(records []domain.Notice) []domain.Notice {
	from, to := f.From(), f.To()

	out := make([]domain.Notice, 0, len(records))
	for i := range records {
		n := &records[i]
		if from != nil && n.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && n.CreatedAt.After(*to) {
			continue
		}
		if !f.Status.Matches(n) {
			continue
		}
		out = append(out, *n)
	}
	return out
}

type Summary struct {
	Count      int             `json:"count"`
	Accepted   int             `json:"accepted"`
	Pending    int             `json:"pending"`
	Ignored    int             `json:"ignored"`
	TotalValue decimal.Decimal `json:"total_value"`
}

func Summarize(records []domain.Notice) Summary {
	s := Summary{Count: len(records), TotalValue: decimal.Zero}
	for i := range records {
		n := &records[i]
		s.TotalValue = s.TotalValue.Add(n.DebtAmount)
		switch n.DerivedStatus() {
		case domain.DerivedAccepted:
			s.Accepted++
		case domain.DerivedIgnored:
			s.Ignored++
		default:
			s.Pending++
		}
	}
	return s
}
