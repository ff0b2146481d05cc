package stats

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
	"github.com/paul-kim93/ablcrossborder/internal/domain/stats"
)

// DashboardService serves the read side of the statistics. Reads are
// where stale windows are found, so fetching a summary rolls it over
// against the current date and persists the expiry before returning.
type DashboardService struct {
	txScope TransactionScope
	logger  *zap.Logger
	now     func() time.Time
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(txScope TransactionScope, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		txScope: txScope,
		logger:  logger,
		now:     time.Now,
	}
}

// GetSummary returns the rolled-over summary of a scope. A scope that
// has never sold anything gets a zeroed summary rather than an error.
func (s *DashboardService) GetSummary(ctx context.Context, scope ledger.Scope) (*stats.ScopeSummary, error) {
	now := s.now()
	var summary *stats.ScopeSummary
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.SummaryRepo().Find(ctx, scope)
		if err != nil {
			if shared.IsNotFound(err) {
				summary = stats.NewScopeSummary(scope, now)
				return nil
			}
			return err
		}
		before := found.LastUpdated
		found.RollOver(now)
		if !before.Equal(found.LastUpdated) {
			if err := repos.SummaryRepo().Save(ctx, found); err != nil {
				return err
			}
		}
		summary = found
		return nil
	})
	return summary, err
}

// GetSellerSummaries returns every per-seller summary, rolled over.
func (s *DashboardService) GetSellerSummaries(ctx context.Context) ([]stats.ScopeSummary, error) {
	now := s.now()
	var summaries []stats.ScopeSummary
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.SummaryRepo().FindSellers(ctx)
		if err != nil {
			return err
		}
		for i := range found {
			before := found[i].LastUpdated
			found[i].RollOver(now)
			if !before.Equal(found[i].LastUpdated) {
				if err := repos.SummaryRepo().Save(ctx, &found[i]); err != nil {
					return err
				}
			}
		}
		summaries = found
		return nil
	})
	return summaries, err
}

// DailyChart returns the per-day sums of the last days calendar days,
// today included. Days without sales are absent from the result.
func (s *DashboardService) DailyChart(ctx context.Context, scope ledger.Scope, days int) ([]ledger.DailyAmount, error) {
	if days <= 0 {
		return nil, shared.ErrInvalidInput
	}
	now := s.now()
	from := stats.DateOf(now).AddDate(0, 0, -(days - 1))

	return s.chart(ctx, scope, from, now)
}

// MonthlyChart returns the per-day sums of one calendar month.
func (s *DashboardService) MonthlyChart(ctx context.Context, scope ledger.Scope, year int, month time.Month) ([]ledger.DailyAmount, error) {
	if year < 1 || month < time.January || month > time.December {
		return nil, shared.ErrInvalidInput
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return s.chart(ctx, scope, from, to)
}

// RangeChart returns the per-day sums between from and to inclusive.
func (s *DashboardService) RangeChart(ctx context.Context, scope ledger.Scope, from, to time.Time) ([]ledger.DailyAmount, error) {
	from = stats.DateOf(from)
	to = stats.DateOf(to).AddDate(0, 0, 1).Add(-time.Nanosecond)
	if to.Before(from) {
		return nil, shared.ErrInvalidInput
	}
	return s.chart(ctx, scope, from, to)
}

func (s *DashboardService) chart(ctx context.Context, scope ledger.Scope, from, to time.Time) ([]ledger.DailyAmount, error) {
	var amounts []ledger.DailyAmount
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		amounts, err = repos.OrderRepo().DailyAmounts(ctx, scope, from, to)
		return err
	})
	return amounts, err
}
