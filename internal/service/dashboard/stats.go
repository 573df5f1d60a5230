package dashboard

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"mr3x-notificacoes/internal/domain"
	"mr3x-notificacoes/internal/pkg/i18n"
)

const monthsInSeries = 6

type MonthBucket struct {
	Key      string `json:"key"`
	Month    string `json:"month"`
	Total    int    `json:"total"`
	Accepted int    `json:"accepted"`
	Pending  int    `json:"pending"`
}

type StatusSlice struct {
	Status domain.DerivedStatus `json:"status"`
	Label  string               `json:"label"`
	Value  int                  `json:"value"`
}

type Stats struct {
	Total          int             `json:"total"`
	Accepted       int             `json:"accepted"`
	Pending        int             `json:"pending"`
	Ignored        int             `json:"ignored"`
	TotalValue     decimal.Decimal `json:"total_value"`
	AcceptedValue  decimal.Decimal `json:"accepted_value"`
	PendingValue   decimal.Decimal `json:"pending_value"`
	IgnoredValue   decimal.Decimal `json:"ignored_value"`
	AcceptanceRate string          `json:"acceptance_rate"`
	Breakdown      []StatusSlice   `json:"breakdown"`
	Monthly        []MonthBucket   `json:"monthly"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// Partition splits records by derived status. Every record lands in
// exactly one of the three slices.
func Partition(records []domain.Notice) (accepted, pending, ignored []domain.Notice) {
	for _, n := range records {
		switch n.DerivedStatus() {
		case domain.DerivedAccepted:
			accepted = append(accepted, n)
		case domain.DerivedIgnored:
			ignored = append(ignored, n)
		default:
			pending = append(pending, n)
		}
	}
	return accepted, pending, ignored
}

func SumAmounts(records []domain.Notice) decimal.Decimal {
	total := decimal.Zero
	for _, n := range records {
		total = total.Add(n.DebtAmount)
	}
	return total
}

// AcceptanceRate is a percentage with one decimal place, or "0" when
// there are no records.
func AcceptanceRate(accepted, total int) string {
	if total == 0 {
		return "0"
	}
	return decimal.NewFromInt(int64(accepted) * 100).
		Div(decimal.NewFromInt(int64(total))).
		StringFixed(1)
}

// MonthlySeries buckets records by creation month over the six calendar
// months ending at now, oldest first. Month boundaries follow now's
// location. Ignored records only count towards the total.
func MonthlySeries(records []domain.Notice, now time.Time) []MonthBucket {
	loc := now.Location()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	buckets := make([]MonthBucket, monthsInSeries)
	index := make(map[string]int, monthsInSeries)
	for i := 0; i < monthsInSeries; i++ {
		month := first.AddDate(0, i-(monthsInSeries-1), 0)
		key := monthKey(month)
		buckets[i] = MonthBucket{
			Key:   key,
			Month: i18n.T("month." + strconv.Itoa(int(month.Month()))),
		}
		index[key] = i
	}

	for _, n := range records {
		i, ok := index[monthKey(n.CreatedAt.In(loc))]
		if !ok {
			continue
		}
		buckets[i].Total++
		switch n.DerivedStatus() {
		case domain.DerivedAccepted:
			buckets[i].Accepted++
		case domain.DerivedPending:
			buckets[i].Pending++
		}
	}
	return buckets
}

func monthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

func ComputeStats(records []domain.Notice, now time.Time) Stats {
	accepted, pending, ignored := Partition(records)

	stats := Stats{
		Total:          len(records),
		Accepted:       len(accepted),
		Pending:        len(pending),
		Ignored:        len(ignored),
		TotalValue:     SumAmounts(records),
		AcceptedValue:  SumAmounts(accepted),
		PendingValue:   SumAmounts(pending),
		IgnoredValue:   SumAmounts(ignored),
		AcceptanceRate: AcceptanceRate(len(accepted), len(records)),
		Breakdown:      []StatusSlice{},
		Monthly:        MonthlySeries(records, now),
		GeneratedAt:    now,
	}

	for _, slice := range []StatusSlice{
		{Status: domain.DerivedAccepted, Value: stats.Accepted},
		{Status: domain.DerivedPending, Value: stats.Pending},
		{Status: domain.DerivedIgnored, Value: stats.Ignored},
	} {
		if slice.Value == 0 {
			continue
		}
		slice.Label = i18n.T("status_filter." + string(slice.Status))
		stats.Breakdown = append(stats.Breakdown, slice)
	}

	return stats
}
