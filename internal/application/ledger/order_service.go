package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appshipment "github.com/paul-kim93/ablcrossborder/internal/application/shipment"
	appstats "github.com/paul-kim93/ablcrossborder/internal/application/stats"
	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
)

// OrderService handles order ingestion and the mutations that follow.
// It owns the matching rules: a line's product code is first looked up
// directly, then through the code mapping table, and a code neither
// resolves is stored as an unmatched line with zero prices until a
// mapping appears.
type OrderService struct {
	txScope         appstats.TransactionScope
	reconciler      *appstats.Reconciler
	shipmentService *appshipment.ShipmentService
	logger          *zap.Logger
	now             func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(txScope appstats.TransactionScope, reconciler *appstats.Reconciler, shipmentService *appshipment.ShipmentService, logger *zap.Logger) *OrderService {
	return &OrderService{
		txScope:         txScope,
		reconciler:      reconciler,
		shipmentService: shipmentService,
		logger:          logger,
		now:             time.Now,
	}
}

// IngestLineInput is one raw line of an imported order.
type IngestLineInput struct {
	ProductCode string
	Quantity    int64
}

// IngestOrderInput carries one raw imported order.
type IngestOrderInput struct {
	OrderNo   string
	BuyerID   string
	OrderTime time.Time
	Status    ledger.OrderStatus
	Lines     []IngestLineInput
}

// IngestOrder stores an imported order with its lines, deducts stock
// for statuses that consume it, and hands the new lines to the
// reconciler. An order number already present is rejected rather than
// merged.
func (s *OrderService) IngestOrder(ctx context.Context, input IngestOrderInput) (*ledger.Order, error) {
	order, err := ledger.NewOrder(input.OrderNo, input.BuyerID, input.OrderTime, input.Status)
	if err != nil {
		return nil, err
	}

	var statLines []ledger.StatLine
	err = s.txScope.Execute(ctx, func(repos appstats.TransactionalRepositories) error {
		if existing, err := repos.OrderRepo().FindByOrderNo(ctx, input.OrderNo); err == nil && existing != nil {
			return shared.NewDomainError("DUPLICATE_ORDER", "Order number already ingested")
		} else if err != nil && !shared.IsNotFound(err) {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}

		for _, raw := range input.Lines {
			line, err := s.matchLine(ctx, repos, order.ID, raw)
			if err != nil {
				return err
			}
			if err := repos.OrderRepo().SaveLineItem(ctx, line); err != nil {
				return err
			}
			if line.ProductID == nil {
				continue
			}
			statLines = append(statLines, ledger.StatLine{
				LineItemID:  line.ID,
				OrderID:     order.ID,
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
		return nil, err
	}

	if order.Status.DeductsStock() {
		s.deductStock(ctx, statLines, order.OrderTime)
	}

	if err := s.reconciler.OnLineItemsIngested(ctx, statLines); err != nil {
		return nil, err
	}

	s.logger.Info("Order ingested",
		zap.String("order_no", order.OrderNo),
		zap.Int("lines", len(input.Lines)),
		zap.Int("matched", len(statLines)),
	)
	return order, nil
}

// matchLine resolves a raw line against the catalog. Direct code match
// first, then the mapping table with its quantity multiplier, then an
// unmatched placeholder.
func (s *OrderService) matchLine(ctx context.Context, repos appstats.TransactionalRepositories, orderID uuid.UUID, raw IngestLineInput) (*ledger.OrderLineItem, error) {
	product, err := repos.ProductRepo().FindByCode(ctx, raw.ProductCode)
	if err == nil {
		return ledger.NewOrderLineItem(orderID, product.ID, product.SellerID, raw.ProductCode, raw.Quantity, product.SupplyPrice, product.SalePrice)
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}

	mapping, err := repos.ProductRepo().FindMapping(ctx, raw.ProductCode)
	if err == nil {
		product, err := repos.ProductRepo().FindByID(ctx, mapping.ProductID)
		if err != nil {
			return nil, err
		}
		quantity := raw.Quantity * mapping.QuantityMultiplier
		return ledger.NewOrderLineItem(orderID, product.ID, product.SellerID, raw.ProductCode, quantity, product.SupplyPrice, product.SalePrice)
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}

	return ledger.NewUnmatchedLineItem(orderID, raw.ProductCode, raw.Quantity)
}

// deductStock walks the matched lines and consumes batch stock in
// arrival order. A shortfall is logged and the remainder left
// unconsumed; the sale itself still counts.
func (s *OrderService) deductStock(ctx context.Context, lines []ledger.StatLine, orderTime time.Time) {
	for _, line := range lines {
		result, err := s.shipmentService.QuoteConsumption(ctx, *line.ProductID, line.Quantity, orderTime)
		if err != nil {
			s.logger.Warn("Stock quote failed",
				zap.String("product_id", line.ProductID.String()),
				zap.Error(err),
			)
			continue
		}
		if err := s.shipmentService.CommitQuote(ctx, *line.ProductID, result); err != nil {
			s.logger.Warn("Stock deduction failed",
				zap.String("product_id", line.ProductID.String()),
				zap.Error(err),
			)
			continue
		}
		if !result.FullyFulfilled() {
			s.logger.Warn("Stock shortfall on ingest",
				zap.String("product_id", line.ProductID.String()),
				zap.Int64("requested", result.RequestedQuantity),
				zap.Int64("consumed", result.ConsumedQuantity),
			)
		}
	}
}

// ChangeOrderStatus moves an order to a new status and reconciles the
// statistics when the move crosses the counting partition.
func (s *OrderService) ChangeOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus ledger.OrderStatus) error {
	var oldStatus ledger.OrderStatus
	var crossed bool
	err := s.txScope.Execute(ctx, func(repos appstats.TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		oldStatus = order.Status
		crossed, err = order.ChangeStatus(newStatus)
		if err != nil {
			return err
		}
		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return err
	}

	if crossed {
		if err := s.reconciler.OnOrderStatusChanged(ctx, orderID, oldStatus, newStatus); err != nil {
			return err
		}
	}

	s.logger.Info("Order status changed",
		zap.String("order_id", orderID.String()),
		zap.String("from", oldStatus.String()),
		zap.String("to", newStatus.String()),
		zap.Bool("crossed_partition", crossed),
	)
	return nil
}

// EditLinePrices overwrites a matched line's snapshot prices and repairs
// the statistics of the affected seller.
func (s *OrderService) EditLinePrices(ctx context.Context, lineItemID uuid.UUID, supplyPrice, salePrice decimal.Decimal) error {
	err := s.txScope.Execute(ctx, func(repos appstats.TransactionalRepositories) error {
		line, err := repos.OrderRepo().FindLineItem(ctx, lineItemID)
		if err != nil {
			return err
		}
		if line.ProductID == nil {
			return shared.ErrInvalidState
		}
		if err := line.UpdatePrices(supplyPrice, salePrice); err != nil {
			return err
		}
		return repos.OrderRepo().SaveLineItem(ctx, line)
	})
	if err != nil {
		return err
	}
	return s.reconciler.OnLineItemPriceEdited(ctx, lineItemID)
}

// CreateCodeMapping registers an external-code mapping and resolves any
// unmatched lines waiting on the code.
func (s *OrderService) CreateCodeMapping(ctx context.Context, productID uuid.UUID, mappedCode string, multiplier int64) (*ledger.ProductCodeMapping, error) {
	mapping, err := ledger.NewProductCodeMapping(productID, mappedCode, multiplier)
	if err != nil {
		return nil, err
	}
	err = s.txScope.Execute(ctx, func(repos appstats.TransactionalRepositories) error {
		if _, err := repos.ProductRepo().FindByID(ctx, productID); err != nil {
			return err
		}
		return repos.ProductRepo().SaveMapping(ctx, mapping)
	})
	if err != nil {
		return nil, err
	}

	if err := s.reconciler.OnCodeMappingResolved(ctx, mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}
