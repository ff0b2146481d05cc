package stats

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
	"github.com/paul-kim93/ablcrossborder/internal/domain/stats"
)

func newDashboardService(env *testEnv) *DashboardService {
	svc := NewDashboardService(env.txScope, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestGetSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a zeroed summary for a scope without sales", func(t *testing.T) {
		env := newTestEnv()
		svc := newDashboardService(env)

		summary, err := svc.GetSummary(ctx, ledger.TotalScope())
		require.NoError(t, err)
		assert.True(t, summary.Scope.IsTotal())
		assert.Equal(t, int64(0), summary.Cumulative.Quantity)
	})

	t.Run("rolls over stale windows and persists the result", func(t *testing.T) {
		env := newTestEnv()
		svc := newDashboardService(env)

		// Sales far enough back that month, week and yesterday have
		// all expired by testNow.
		_, lines := seedOrder(t, env, "O-1", testNow.AddDate(0, -2, 0), ledger.OrderStatusCompleted, []ledger.OrderLineItem{
			matchedLine(t, uuid.New(), 3, 5.00, 9.00),
		})
		stale := newAggregationService(env)
		stale.now = func() time.Time { return testNow.AddDate(0, -2, 0) }
		require.NoError(t, stale.ApplyLineItems(ctx, lines))

		summary, err := svc.GetSummary(ctx, ledger.TotalScope())
		require.NoError(t, err)
		assert.Equal(t, int64(3), summary.Cumulative.Quantity)
		assert.Equal(t, int64(0), summary.Month.Quantity)
		assert.Equal(t, int64(0), summary.Week.Quantity)
		assert.Equal(t, int64(0), summary.Yesterday.Quantity)

		// The rollover was written back, not just returned.
		stored, err := env.summaries.Find(ctx, ledger.TotalScope())
		require.NoError(t, err)
		assert.Equal(t, int64(0), stored.Month.Quantity)
	})
}

func TestGetSellerSummaries(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	svc := newDashboardService(env)
	agg := newAggregationService(env)

	sellerA := uuid.New()
	sellerB := uuid.New()
	_, lines := seedOrder(t, env, "O-1", testNow.Add(-time.Hour), ledger.OrderStatusCompleted, []ledger.OrderLineItem{
		matchedLine(t, sellerA, 2, 5.00, 9.00),
		matchedLine(t, sellerB, 1, 4.00, 7.00),
	})
	require.NoError(t, agg.ApplyLineItems(ctx, lines))

	summaries, err := svc.GetSellerSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	for _, s := range summaries {
		assert.False(t, s.Scope.IsTotal())
	}
}

func TestCharts(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, env *testEnv) uuid.UUID {
		seller := uuid.New()
		seedOrder(t, env, "O-1", testNow.Add(-time.Hour), ledger.OrderStatusCompleted, []ledger.OrderLineItem{
			matchedLine(t, seller, 2, 5.00, 9.00),
		})
		seedOrder(t, env, "O-2", testNow.AddDate(0, 0, -3), ledger.OrderStatusCompleted, []ledger.OrderLineItem{
			matchedLine(t, seller, 4, 5.00, 9.00),
		})
		seedOrder(t, env, "O-3", testNow.AddDate(0, -1, 0), ledger.OrderStatusCompleted, []ledger.OrderLineItem{
			matchedLine(t, seller, 8, 5.00, 9.00),
		})
		return seller
	}

	t.Run("daily chart covers the recent window only", func(t *testing.T) {
		env := newTestEnv()
		svc := newDashboardService(env)
		seed(t, env)

		amounts, err := svc.DailyChart(ctx, ledger.TotalScope(), 7)
		require.NoError(t, err)
		require.Len(t, amounts, 2)

		var total int64
		for _, a := range amounts {
			total += a.Quantity
		}
		assert.Equal(t, int64(6), total)
	})

	t.Run("daily chart rejects non-positive windows", func(t *testing.T) {
		env := newTestEnv()
		svc := newDashboardService(env)

		_, err := svc.DailyChart(ctx, ledger.TotalScope(), 0)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("monthly chart isolates one calendar month", func(t *testing.T) {
		env := newTestEnv()
		svc := newDashboardService(env)
		seed(t, env)

		lastMonth := testNow.AddDate(0, -1, 0)
		amounts, err := svc.MonthlyChart(ctx, ledger.TotalScope(), lastMonth.Year(), lastMonth.Month())
		require.NoError(t, err)
		require.Len(t, amounts, 1)
		assert.Equal(t, int64(8), amounts[0].Quantity)
		assert.Equal(t, stats.DateOf(lastMonth), amounts[0].Date)
	})

	t.Run("range chart bounds are inclusive", func(t *testing.T) {
		env := newTestEnv()
		svc := newDashboardService(env)
		seed(t, env)

		day := testNow.AddDate(0, 0, -3)
		amounts, err := svc.RangeChart(ctx, ledger.TotalScope(), day, day)
		require.NoError(t, err)
		require.Len(t, amounts, 1)
		assert.Equal(t, int64(4), amounts[0].Quantity)

		_, err = svc.RangeChart(ctx, ledger.TotalScope(), testNow, testNow.AddDate(0, 0, -1))
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("seller scope filters other sellers out", func(t *testing.T) {
		env := newTestEnv()
		svc := newDashboardService(env)
		seller := seed(t, env)
		other := uuid.New()
		seedOrder(t, env, "O-4", testNow.Add(-2*time.Hour), ledger.OrderStatusCompleted, []ledger.OrderLineItem{
			matchedLine(t, other, 10, 1.00, 2.00),
		})

		amounts, err := svc.DailyChart(ctx, ledger.SellerScope(seller), 7)
		require.NoError(t, err)

		var total int64
		for _, a := range amounts {
			total += a.Quantity
		}
		assert.Equal(t, int64(6), total)
	})
}
