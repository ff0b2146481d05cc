package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
	"github.com/paul-kim93/ablcrossborder/internal/domain/stats"
)

// AggregationService maintains the per-scope rolling summaries. Writes
// go through incremental application where possible and fall back to a
// full rescan for repair. Every mutation runs inside a transaction
// scope so a summary is never observed half updated.
type AggregationService struct {
	txScope TransactionScope
	logger  *zap.Logger
	now     func() time.Time
}

// NewAggregationService creates a new aggregation service.
func NewAggregationService(txScope TransactionScope, logger *zap.Logger) *AggregationService {
	return &AggregationService{
		txScope: txScope,
		logger:  logger,
		now:     time.Now,
	}
}

// loadSummary fetches the summary of a scope, creating a zeroed one on
// first touch, and expires any windows the row has outlived.
func (s *AggregationService) loadSummary(ctx context.Context, repos TransactionalRepositories, scope ledger.Scope, now time.Time) (*stats.ScopeSummary, error) {
	summary, err := repos.SummaryRepo().Find(ctx, scope)
	if err != nil {
		if shared.IsNotFound(err) {
			return stats.NewScopeSummary(scope, now), nil
		}
		return nil, err
	}
	summary.RollOver(now)
	return summary, nil
}

// ApplyLineItems folds freshly ingested line items into the summaries.
// Lines on orders outside the counting statuses and lines not yet
// matched to a product are skipped. Each line updates its seller's
// summary and the total summary in one transaction.
func (s *AggregationService) ApplyLineItems(ctx context.Context, lines []ledger.StatLine) error {
	now := s.now()

	countable := make([]ledger.StatLine, 0, len(lines))
	for _, line := range lines {
		if !line.Status.CountsForStats() || line.ProductID == nil {
			continue
		}
		countable = append(countable, line)
	}
	if len(countable) == 0 {
		return nil
	}

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		touched := make(map[string]*stats.ScopeSummary)

		get := func(scope ledger.Scope) (*stats.ScopeSummary, error) {
			if summary, ok := touched[scope.String()]; ok {
				return summary, nil
			}
			summary, err := s.loadSummary(ctx, repos, scope, now)
			if err != nil {
				return nil, err
			}
			touched[scope.String()] = summary
			return summary, nil
		}

		for _, line := range countable {
			for _, scope := range []ledger.Scope{ledger.SellerScope(line.SellerID), ledger.TotalScope()} {
				summary, err := get(scope)
				if err != nil {
					return err
				}
				summary.Apply(line.OrderTime, now, line.Quantity, line.SupplyAmount(), line.SaleAmount())
			}
		}

		for _, summary := range touched {
			if err := repos.SummaryRepo().Save(ctx, summary); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Line items applied to summaries",
		zap.Int("lines", len(countable)),
		zap.Int("skipped", len(lines)-len(countable)),
	)
	return nil
}

// ReconcileStatusChange adjusts the summaries after an order status
// change. Only transitions that cross the counting partition move any
// figures: entering the partition adds the order's lines, leaving it
// subtracts them. The total summary is then rebuilt as the sum of the
// per-seller rows rather than adjusted in place, so drift between the
// two cannot accumulate.
func (s *AggregationService) ReconcileStatusChange(ctx context.Context, orderID uuid.UUID, oldStatus, newStatus ledger.OrderStatus) error {
	if !ledger.CrossesStatsPartition(oldStatus, newStatus) {
		return nil
	}
	entering := newStatus.CountsForStats()
	now := s.now()

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		lines, err := repos.OrderRepo().LineItemsByOrder(ctx, orderID)
		if err != nil {
			return err
		}

		touched := make(map[string]*stats.ScopeSummary)
		for _, line := range lines {
			if line.ProductID == nil {
				continue
			}
			scope := ledger.SellerScope(line.SellerID)
			summary, ok := touched[scope.String()]
			if !ok {
				summary, err = s.loadSummary(ctx, repos, scope, now)
				if err != nil {
					return err
				}
				touched[scope.String()] = summary
			}
			qty := line.Quantity
			supply := line.SupplyAmount()
			sale := line.SaleAmount()
			if entering {
				summary.Apply(order.OrderTime, now, qty, supply, sale)
			} else {
				summary.Apply(order.OrderTime, now, -qty, supply.Neg(), sale.Neg())
			}
		}

		for _, summary := range touched {
			if err := repos.SummaryRepo().Save(ctx, summary); err != nil {
				return err
			}
		}

		return s.rebuildTotalFromSellers(ctx, repos, now)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Order status change reconciled",
		zap.String("order_id", orderID.String()),
		zap.String("from", oldStatus.String()),
		zap.String("to", newStatus.String()),
		zap.Bool("entering", entering),
	)
	return nil
}

// rebuildTotalFromSellers recomputes the total summary as the sum of
// every per-seller summary, expiring stale windows first.
func (s *AggregationService) rebuildTotalFromSellers(ctx context.Context, repos TransactionalRepositories, now time.Time) error {
	sellers, err := repos.SummaryRepo().FindSellers(ctx)
	if err != nil {
		return err
	}

	total, err := s.loadSummary(ctx, repos, ledger.TotalScope(), now)
	if err != nil {
		return err
	}
	total.Reset(now)

	for i := range sellers {
		sellers[i].RollOver(now)
		for _, w := range []stats.Window{stats.WindowCumulative, stats.WindowMonth, stats.WindowWeek, stats.WindowYesterday} {
			t := sellers[i].Totals(w)
			s.addWindow(total, w, t)
		}
	}
	return repos.SummaryRepo().Save(ctx, total)
}

func (s *AggregationService) addWindow(summary *stats.ScopeSummary, w stats.Window, t stats.WindowTotals) {
	switch w {
	case stats.WindowCumulative:
		summary.Cumulative.Add(t.Quantity, t.SupplyAmount, t.SaleAmount)
	case stats.WindowMonth:
		summary.Month.Add(t.Quantity, t.SupplyAmount, t.SaleAmount)
	case stats.WindowWeek:
		summary.Week.Add(t.Quantity, t.SupplyAmount, t.SaleAmount)
	case stats.WindowYesterday:
		summary.Yesterday.Add(t.Quantity, t.SupplyAmount, t.SaleAmount)
	}
}

// RecomputeScope discards a seller's summary and rebuilds it from the
// order lines. Window membership is judged against the current date, so
// a recompute always lands on the same figures regardless of how the
// summary drifted.
func (s *AggregationService) RecomputeScope(ctx context.Context, scope ledger.Scope) error {
	now := s.now()
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return s.recomputeScopeTx(ctx, repos, scope, now)
	})
}

func (s *AggregationService) recomputeScopeTx(ctx context.Context, repos TransactionalRepositories, scope ledger.Scope, now time.Time) error {
	summary, err := s.loadSummary(ctx, repos, scope, now)
	if err != nil {
		return err
	}
	summary.Reset(now)

	lines, err := repos.OrderRepo().StatLines(ctx, ledger.StatLineFilter{
		Scope:       scope,
		MatchedOnly: true,
		Statuses:    ledger.StatusesForStats(),
	})
	if err != nil {
		return err
	}
	for _, line := range lines {
		summary.Apply(line.OrderTime, now, line.Quantity, line.SupplyAmount(), line.SaleAmount())
	}
	return repos.SummaryRepo().Save(ctx, summary)
}

// RecomputeSellerAndTotal rebuilds one seller's summary and the total
// summary in a single transaction. This is the repair path after a
// price edit, where the incremental deltas are not recoverable.
func (s *AggregationService) RecomputeSellerAndTotal(ctx context.Context, sellerID uuid.UUID) error {
	now := s.now()
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := s.recomputeScopeTx(ctx, repos, ledger.SellerScope(sellerID), now); err != nil {
			return err
		}
		return s.rebuildTotalFromSellers(ctx, repos, now)
	})
}

// RecomputeAll rebuilds every seller's summary from scratch and derives
// the total summary from the rebuilt rows.
func (s *AggregationService) RecomputeAll(ctx context.Context) error {
	now := s.now()
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sellers, err := repos.SellerRepo().FindAll(ctx)
		if err != nil {
			return err
		}
		for i := range sellers {
			if err := s.recomputeScopeTx(ctx, repos, sellers[i].Scope(), now); err != nil {
				return fmt.Errorf("recompute seller %s: %w", sellers[i].ID, err)
			}
		}
		return s.rebuildTotalFromSellers(ctx, repos, now)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Full summary recompute finished")
	return nil
}

// VerifyConsistency checks that the total summary equals the sum of the
// per-seller summaries in every window. A mismatch is reported as
// shared.ErrConsistencyViolation with the offending window named.
func (s *AggregationService) VerifyConsistency(ctx context.Context) error {
	now := s.now()
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		total, err := s.loadSummary(ctx, repos, ledger.TotalScope(), now)
		if err != nil {
			return err
		}
		sellers, err := repos.SummaryRepo().FindSellers(ctx)
		if err != nil {
			return err
		}

		expected := stats.NewScopeSummary(ledger.TotalScope(), now)
		for i := range sellers {
			sellers[i].RollOver(now)
			for _, w := range []stats.Window{stats.WindowCumulative, stats.WindowMonth, stats.WindowWeek, stats.WindowYesterday} {
				s.addWindow(expected, w, sellers[i].Totals(w))
			}
		}

		for _, w := range []stats.Window{stats.WindowCumulative, stats.WindowMonth, stats.WindowWeek, stats.WindowYesterday} {
			got := total.Totals(w)
			want := expected.Totals(w)
			if got.Quantity != want.Quantity || !got.SupplyAmount.Equal(want.SupplyAmount) || !got.SaleAmount.Equal(want.SaleAmount) {
				return fmt.Errorf("%w: window %s total (%d, %s, %s) != seller sum (%d, %s, %s)",
					shared.ErrConsistencyViolation, w,
					got.Quantity, got.SupplyAmount, got.SaleAmount,
					want.Quantity, want.SupplyAmount, want.SaleAmount,
				)
			}
		}
		return nil
	})
}
