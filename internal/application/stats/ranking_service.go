package stats

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
	"github.com/paul-kim93/ablcrossborder/internal/domain/stats"
)

// RankingService precomputes the top product lists. Lists exist per
// scope, period and metric. The total scope ranks revenue at sale
// price; a seller's own list ranks revenue at supply price, which is
// what the seller actually settles at.
type RankingService struct {
	txScope TransactionScope
	logger  *zap.Logger
	now     func() time.Time
}

// NewRankingService creates a new ranking service.
func NewRankingService(txScope TransactionScope, logger *zap.Logger) *RankingService {
	return &RankingService{
		txScope: txScope,
		logger:  logger,
		now:     time.Now,
	}
}

type productAccumulator struct {
	productID uuid.UUID
	sellerID  uuid.UUID
	quantity  int64
	revenue   decimal.Decimal
	firstSeen int
}

// RecomputeScope rebuilds every ranking list of one scope. A failing
// key does not stop the others; the errors are joined and returned
// together.
func (s *RankingService) RecomputeScope(ctx context.Context, scope ledger.Scope) error {
	now := s.now()
	var errs []error
	for _, period := range stats.AllPeriods() {
		for _, metric := range stats.AllMetrics() {
			key := stats.RankingKey{Scope: scope, Period: period, Metric: metric}
			if err := s.recomputeKey(ctx, key, now); err != nil {
				errs = append(errs, fmt.Errorf("ranking %s/%s/%s: %w", scope, period, metric, err))
			}
		}
	}
	return errors.Join(errs...)
}

// RecomputeAll rebuilds the ranking lists of the total scope and every
// seller.
func (s *RankingService) RecomputeAll(ctx context.Context) error {
	var sellers []ledger.Seller
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sellers, err = repos.SellerRepo().FindAll(ctx)
		return err
	})
	if err != nil {
		return err
	}

	var errs []error
	if err := s.RecomputeScope(ctx, ledger.TotalScope()); err != nil {
		errs = append(errs, err)
	}
	for i := range sellers {
		if err := s.RecomputeScope(ctx, sellers[i].Scope()); err != nil {
			errs = append(errs, err)
		}
	}
	if joined := errors.Join(errs...); joined != nil {
		return joined
	}

	s.logger.Info("Ranking recompute finished", zap.Int("sellers", len(sellers)))
	return nil
}

// Find returns the precomputed list of one key in rank order.
func (s *RankingService) Find(ctx context.Context, key stats.RankingKey) ([]stats.ProductRanking, error) {
	if !key.Period.IsValid() || !key.Metric.IsValid() {
		return nil, shared.ErrInvalidInput
	}
	var rows []stats.ProductRanking
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		rows, err = repos.RankingRepo().Find(ctx, key)
		return err
	})
	return rows, err
}

func (s *RankingService) recomputeKey(ctx context.Context, key stats.RankingKey, now time.Time) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		lines, err := repos.OrderRepo().StatLines(ctx, ledger.StatLineFilter{
			Scope:       key.Scope,
			Since:       key.Period.Since(now),
			MatchedOnly: true,
			Statuses:    ledger.StatusesForStats(),
		})
		if err != nil {
			return err
		}

		rows := s.rank(key, lines, now)
		if len(rows) > 0 {
			if err := s.denormalizeNames(ctx, repos, rows); err != nil {
				return err
			}
		}
		return repos.RankingRepo().Replace(ctx, key, rows)
	})
}

// rank aggregates the lines per product and keeps the top entries.
// Ties keep the order products first appeared in the scan, so repeated
// recomputes over the same data yield the same list.
func (s *RankingService) rank(key stats.RankingKey, lines []ledger.StatLine, now time.Time) []stats.ProductRanking {
	acc := make(map[uuid.UUID]*productAccumulator)
	order := 0
	for _, line := range lines {
		if line.ProductID == nil {
			continue
		}
		a, ok := acc[*line.ProductID]
		if !ok {
			a = &productAccumulator{
				productID: *line.ProductID,
				sellerID:  line.SellerID,
				revenue:   decimal.Zero,
				firstSeen: order,
			}
			acc[*line.ProductID] = a
			order++
		}
		a.quantity += line.Quantity
		if key.Scope.IsTotal() {
			a.revenue = a.revenue.Add(line.SaleAmount())
		} else {
			a.revenue = a.revenue.Add(line.SupplyAmount())
		}
	}

	ranked := make([]*productAccumulator, 0, len(acc))
	for _, a := range acc {
		ranked = append(ranked, a)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		switch key.Metric {
		case stats.MetricQuantity:
			if a.quantity != b.quantity {
				return a.quantity > b.quantity
			}
		default:
			if !a.revenue.Equal(b.revenue) {
				return a.revenue.GreaterThan(b.revenue)
			}
		}
		return a.firstSeen < b.firstSeen
	})
	if len(ranked) > stats.RankingSize {
		ranked = ranked[:stats.RankingSize]
	}

	rows := make([]stats.ProductRanking, len(ranked))
	for i, a := range ranked {
		rows[i] = stats.ProductRanking{
			BaseEntity: shared.NewBaseEntity(),
			Scope:      key.Scope,
			Period:     key.Period,
			Metric:     key.Metric,
			Rank:       i + 1,
			ProductID:  a.productID,
			SellerID:   a.sellerID,
			Quantity:   a.quantity,
			Revenue:    a.revenue,
			ComputedAt: now,
		}
	}
	return rows
}

// denormalizeNames fills in product and seller names so readers need no
// joins. A product deleted since the scan keeps an empty name rather
// than failing the recompute.
func (s *RankingService) denormalizeNames(ctx context.Context, repos TransactionalRepositories, rows []stats.ProductRanking) error {
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ProductID
	}
	infos, err := repos.OrderRepo().ProductInfos(ctx, ids)
	if err != nil {
		return err
	}
	for i := range rows {
		if info, ok := infos[rows[i].ProductID]; ok {
			rows[i].ProductName = info.Name
			rows[i].SellerName = info.SellerName
		}
	}
	return nil
}
