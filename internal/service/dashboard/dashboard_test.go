package dashboard_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mr3x-notificacoes/internal/domain"
	"mr3x-notificacoes/internal/mocks"
	"mr3x-notificacoes/internal/repository"
	"mr3x-notificacoes/internal/service/dashboard"
)

func notice(accepted bool, status domain.NoticeStatus, amount string, createdAt time.Time) domain.Notice {
	return domain.Notice{
		Accepted:   accepted,
		Status:     status,
		DebtAmount: decimal.RequireFromString(amount),
		CreatedAt:  createdAt,
	}
}

func TestAcceptanceRate(t *testing.T) {
	assert.Equal(t, "0", dashboard.AcceptanceRate(0, 0))
	assert.Equal(t, "25.0", dashboard.AcceptanceRate(1, 4))
	assert.Equal(t, "33.3", dashboard.AcceptanceRate(1, 3))
	assert.Equal(t, "100.0", dashboard.AcceptanceRate(2, 2))
}

func TestPartition_Exhaustive(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every record lands in exactly one bucket", prop.ForAll(
		func(flags []bool, ignoredFlags []bool) bool {
			records := make([]domain.Notice, len(flags))
			for i, accepted := range flags {
				status := domain.NoticeStatusPending
				if i < len(ignoredFlags) && ignoredFlags[i] {
					status = domain.NoticeStatusIgnored
				}
				records[i] = domain.Notice{Accepted: accepted, Status: status}
			}

			accepted, pending, ignored := dashboard.Partition(records)
			if len(accepted)+len(pending)+len(ignored) != len(records) {
				return false
			}
			for _, n := range accepted {
				if !n.Accepted {
					return false
				}
			}
			for _, n := range ignored {
				if n.Accepted || n.Status != domain.NoticeStatusIgnored {
					return false
				}
			}
			for _, n := range pending {
				if n.Accepted || n.Status == domain.NoticeStatusIgnored {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Bool()),
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestMonthlySeries(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, loc)

	records := []domain.Notice{
		notice(true, domain.NoticeStatusPending, "100", time.Date(2025, 6, 1, 8, 0, 0, 0, loc)),
		notice(false, domain.NoticeStatusPending, "100", time.Date(2025, 6, 10, 8, 0, 0, 0, loc)),
		notice(false, domain.NoticeStatusIgnored, "100", time.Date(2025, 5, 10, 8, 0, 0, 0, loc)),
		notice(false, domain.NoticeStatusPending, "100", time.Date(2025, 1, 2, 8, 0, 0, 0, loc)),
		// seven months back falls outside the window
		notice(true, domain.NoticeStatusPending, "100", time.Date(2024, 11, 20, 8, 0, 0, 0, loc)),
		// 02:00 UTC on June 1st is still May 31st in BRT
		notice(false, domain.NoticeStatusPending, "100", time.Date(2025, 6, 1, 2, 0, 0, 0, time.UTC)),
	}

	series := dashboard.MonthlySeries(records, now)
	require.Len(t, series, 6)

	keys := make([]string, len(series))
	for i, b := range series {
		keys[i] = b.Key
	}
	assert.Equal(t, []string{"2025-01", "2025-02", "2025-03", "2025-04", "2025-05", "2025-06"}, keys)

	assert.Equal(t, dashboard.MonthBucket{Key: "2025-06", Month: "jun", Total: 2, Accepted: 1, Pending: 1}, series[5])
	assert.Equal(t, dashboard.MonthBucket{Key: "2025-05", Month: "mai", Total: 2, Accepted: 0, Pending: 1}, series[4])
	assert.Equal(t, 1, series[0].Total)

	total := 0
	for _, b := range series {
		total += b.Total
	}
	assert.Equal(t, 5, total)
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	records := []domain.Notice{
		notice(true, domain.NoticeStatusPending, "1500.50", now),
		notice(false, domain.NoticeStatusPending, "200", now),
		notice(false, domain.NoticeStatusPending, "300", now),
		notice(false, domain.NoticeStatusIgnored, "99.50", now),
	}

	stats := dashboard.ComputeStats(records, now)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Accepted)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Ignored)
	assert.Equal(t, "25.0", stats.AcceptanceRate)
	assert.True(t, stats.TotalValue.Equal(decimal.RequireFromString("2100")))
	assert.True(t, stats.AcceptedValue.Equal(decimal.RequireFromString("1500.50")))
	assert.True(t, stats.PendingValue.Equal(decimal.RequireFromString("500")))
	assert.True(t, stats.IgnoredValue.Equal(decimal.RequireFromString("99.50")))
	assert.Len(t, stats.Breakdown, 3)

	empty := dashboard.ComputeStats(nil, now)
	assert.Equal(t, "0", empty.AcceptanceRate)
	assert.Empty(t, empty.Breakdown)
	assert.NotNil(t, empty.Breakdown)
	assert.True(t, empty.TotalValue.IsZero())
}

func TestService_GetStats(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	t.Run("computes from the store", func(t *testing.T) {
		repo := new(mocks.NoticeRepository)
		svc := dashboard.NewService(repo, nil, time.UTC, log)

		repo.On("List", mock.Anything, repository.ListOptions{}).Return([]domain.Notice{
			notice(true, domain.NoticeStatusPending, "10", time.Now()),
			notice(false, domain.NoticeStatusPending, "10", time.Now()),
		}, nil)

		stats, err := svc.GetStats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Total)
		assert.Equal(t, "50.0", stats.AcceptanceRate)

		svc.Invalidate(context.Background())
		repo.AssertExpectations(t)
	})

	t.Run("store failure", func(t *testing.T) {
		repo := new(mocks.NoticeRepository)
		svc := dashboard.NewService(repo, nil, time.UTC, log)

		repo.On("List", mock.Anything, repository.ListOptions{}).Return(nil, errors.New("connection refused"))

		_, err := svc.GetStats(context.Background())
		assert.Error(t, err)
	})
}
