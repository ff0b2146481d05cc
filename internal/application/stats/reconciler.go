package stats

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
)

// Reconciler coordinates the summary and ranking engines after ledger
// mutations. Handlers call it instead of the engines directly, so the
// ordering rules live in one place: summaries first, rankings after,
// rankings derived from the ledger rather than from the summaries.
type Reconciler struct {
	txScope     TransactionScope
	aggregation *AggregationService
	rankings    *RankingService
	logger      *zap.Logger
	now         func() time.Time
}

// NewReconciler creates a new reconciler.
func NewReconciler(txScope TransactionScope, aggregation *AggregationService, rankings *RankingService, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		txScope:     txScope,
		aggregation: aggregation,
		rankings:    rankings,
		logger:      logger,
		now:         time.Now,
	}
}

// OnLineItemsIngested folds freshly imported line items into the
// summaries and refreshes the rankings of the touched scopes.
func (r *Reconciler) OnLineItemsIngested(ctx context.Context, lines []ledger.StatLine) error {
	if err := r.aggregation.ApplyLineItems(ctx, lines); err != nil {
		return err
	}
	return r.recomputeTouchedRankings(ctx, lines)
}

// OnOrderStatusChanged reconciles an order's status transition. Moves
// that stay on one side of the counting partition are a no-op for the
// summaries but the persisted status still changed, so rankings of the
// order's sellers are refreshed either way the partition was crossed.
func (r *Reconciler) OnOrderStatusChanged(ctx context.Context, orderID uuid.UUID, oldStatus, newStatus ledger.OrderStatus) error {
	if !ledger.CrossesStatsPartition(oldStatus, newStatus) {
		return nil
	}
	if err := r.aggregation.ReconcileStatusChange(ctx, orderID, oldStatus, newStatus); err != nil {
		return err
	}

	var lines []ledger.OrderLineItem
	err := r.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		lines, err = repos.OrderRepo().LineItemsByOrder(ctx, orderID)
		return err
	})
	if err != nil {
		return err
	}

	var errs []error
	if err := r.rankings.RecomputeScope(ctx, ledger.TotalScope()); err != nil {
		errs = append(errs, err)
	}
	for _, sellerID := range sellerIDsOfLines(lines) {
		if err := r.rankings.RecomputeScope(ctx, ledger.SellerScope(sellerID)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OnLineItemPriceEdited repairs the statistics after a line item's
// stored prices were edited in place. The original deltas are gone, so
// the affected seller and the total are rebuilt from the ledger.
func (r *Reconciler) OnLineItemPriceEdited(ctx context.Context, lineItemID uuid.UUID) error {
	var line *ledger.OrderLineItem
	err := r.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		line, err = repos.OrderRepo().FindLineItem(ctx, lineItemID)
		return err
	})
	if err != nil {
		return err
	}
	if line.ProductID == nil {
		return nil
	}

	if err := r.aggregation.RecomputeSellerAndTotal(ctx, line.SellerID); err != nil {
		return err
	}
	var errs []error
	if err := r.rankings.RecomputeScope(ctx, ledger.TotalScope()); err != nil {
		errs = append(errs, err)
	}
	if err := r.rankings.RecomputeScope(ctx, ledger.SellerScope(line.SellerID)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// OnCodeMappingResolved matches previously unmatched line items once a
// code mapping exists for their product code. Each resolved line takes
// the product's current prices, has its quantity expanded by the
// mapping's multiplier, and is then applied to the statistics like a
// fresh ingest.
func (r *Reconciler) OnCodeMappingResolved(ctx context.Context, mapping *ledger.ProductCodeMapping) error {
	now := r.now()
	var resolved []ledger.StatLine

	err := r.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByID(ctx, mapping.ProductID)
		if err != nil {
			return err
		}
		lines, err := repos.OrderRepo().UnmatchedByCode(ctx, mapping.MappedCode)
		if err != nil {
			return err
		}

		for i := range lines {
			line := &lines[i]
			if err := line.Resolve(product.ID, product.SellerID, product.SupplyPrice, product.SalePrice, mapping.QuantityMultiplier); err != nil {
				return err
			}
			if err := repos.OrderRepo().SaveLineItem(ctx, line); err != nil {
				return err
			}

			order, err := repos.OrderRepo().FindByID(ctx, line.OrderID)
			if err != nil {
				return err
			}
			resolved = append(resolved, ledger.StatLine{
				LineItemID:  line.ID,
				OrderID:     line.OrderID,
				ProductID:   line.ProductID,
				SellerID:    line.SellerID,
				Quantity:    line.Quantity,
				SupplyPrice: line.SupplyPrice,
				SalePrice:   line.SalePrice,
				OrderTime:   order.OrderTime,
				Status:      order.Status,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(resolved) == 0 {
		return nil
	}

	r.logger.Info("Unmatched line items resolved",
		zap.String("code", mapping.MappedCode),
		zap.Int("lines", len(resolved)),
		zap.Time("resolved_at", now),
	)
	return r.OnLineItemsIngested(ctx, resolved)
}

// RefreshAll rebuilds every summary and every ranking list from the
// ledger. The days parameter is accepted for interface compatibility
// but a refresh is always a full recompute; partial refreshes cannot
// expire rows that fell out of a window.
func (r *Reconciler) RefreshAll(ctx context.Context, days int) error {
	_ = days

	if err := r.aggregation.RecomputeAll(ctx); err != nil {
		return err
	}
	if err := r.rankings.RecomputeAll(ctx); err != nil {
		return err
	}

	r.logger.Info("Full statistics refresh finished")
	return nil
}

// VerifyConsistency checks the total-versus-sellers invariant.
func (r *Reconciler) VerifyConsistency(ctx context.Context) error {
	err := r.aggregation.VerifyConsistency(ctx)
	if err != nil && errors.Is(err, shared.ErrConsistencyViolation) {
		r.logger.Warn("Summary consistency check failed", zap.Error(err))
	}
	return err
}

// recomputeTouchedRankings refreshes the total list and the list of
// every seller present in the lines.
func (r *Reconciler) recomputeTouchedRankings(ctx context.Context, lines []ledger.StatLine) error {
	sellers := make(map[uuid.UUID]struct{})
	for _, line := range lines {
		if line.ProductID == nil {
			continue
		}
		sellers[line.SellerID] = struct{}{}
	}
	if len(sellers) == 0 {
		return nil
	}

	var errs []error
	if err := r.rankings.RecomputeScope(ctx, ledger.TotalScope()); err != nil {
		errs = append(errs, err)
	}
	for sellerID := range sellers {
		if err := r.rankings.RecomputeScope(ctx, ledger.SellerScope(sellerID)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func sellerIDsOfLines(lines []ledger.OrderLineItem) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, line := range lines {
		if line.ProductID == nil {
			continue
		}
		if _, ok := seen[line.SellerID]; ok {
			continue
		}
		seen[line.SellerID] = struct{}{}
		ids = append(ids, line.SellerID)
	}
	return ids
}
