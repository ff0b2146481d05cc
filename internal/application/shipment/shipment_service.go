package shipment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shipment"
)

// ShipmentService manages shipment batches and their derived product
// prices. A product's stored price pair always mirrors the oldest
// active batch that still has stock, so every mutation that can change
// which batch that is ends by refreshing the product.
type ShipmentService struct {
	shipmentRepo shipment.Repository
	productRepo  ledger.ProductRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewShipmentService creates a new shipment service.
func NewShipmentService(shipmentRepo shipment.Repository, productRepo ledger.ProductRepository, logger *zap.Logger) *ShipmentService {
	return &ShipmentService{
		shipmentRepo: shipmentRepo,
		productRepo:  productRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateShipmentInput carries the fields of a new shipment batch.
type CreateShipmentInput struct {
	ProductID   uuid.UUID
	ShipmentNo  string
	ArrivalDate time.Time
	Quantity    int64
	SupplyPrice decimal.Decimal
	SalePrice   decimal.Decimal
}

// CreateShipment registers a new batch and refreshes the product's
// derived prices, since an earlier arrival date can displace the batch
// the prices came from.
func (s *ShipmentService) CreateShipment(ctx context.Context, input CreateShipmentInput) (*shipment.Shipment, error) {
	if _, err := s.productRepo.FindByID(ctx, input.ProductID); err != nil {
		return nil, err
	}

	sh, err := shipment.NewShipment(input.ProductID, input.ShipmentNo, input.ArrivalDate, input.Quantity, input.SupplyPrice, input.SalePrice)
	if err != nil {
		return nil, err
	}
	if err := s.shipmentRepo.Save(ctx, sh); err != nil {
		return nil, err
	}

	entry, err := shipment.NewPriceHistoryEntry(sh.ID, input.SupplyPrice, input.SalePrice, input.ArrivalDate, "initial")
	if err != nil {
		return nil, err
	}
	if err := s.shipmentRepo.AppendPriceHistory(ctx, entry); err != nil {
		return nil, err
	}

	if err := s.refreshProductPrices(ctx, input.ProductID); err != nil {
		return nil, err
	}

	s.logger.Info("Shipment created",
		zap.String("shipment_id", sh.ID.String()),
		zap.String("product_id", input.ProductID.String()),
		zap.Int64("quantity", input.Quantity),
	)
	return sh, nil
}

// UpdatePrice changes a shipment's price pair and appends the change to
// the price history, keyed by its effective date. Consumption priced at
// earlier dates keeps resolving to the earlier entries.
func (s *ShipmentService) UpdatePrice(ctx context.Context, shipmentID uuid.UUID, supplyPrice, salePrice decimal.Decimal, effectiveDate time.Time, reason string) error {
	sh, err := s.shipmentRepo.FindByID(ctx, shipmentID)
	if err != nil {
		return err
	}
	if err := sh.UpdatePrices(supplyPrice, salePrice); err != nil {
		return err
	}

	entry, err := shipment.NewPriceHistoryEntry(sh.ID, supplyPrice, salePrice, effectiveDate, reason)
	if err != nil {
		return err
	}
	if err := s.shipmentRepo.Save(ctx, sh); err != nil {
		return err
	}
	if err := s.shipmentRepo.AppendPriceHistory(ctx, entry); err != nil {
		return err
	}

	if err := s.refreshProductPrices(ctx, sh.ProductID); err != nil {
		return err
	}

	s.logger.Info("Shipment price updated",
		zap.String("shipment_id", shipmentID.String()),
		zap.String("supply_price", supplyPrice.String()),
		zap.String("sale_price", salePrice.String()),
	)
	return nil
}

// AdjustStock applies a manual correction to a shipment's remaining
// stock. Subtractions below zero are rejected before anything persists.
func (s *ShipmentService) AdjustStock(ctx context.Context, shipmentID uuid.UUID, adjType shipment.AdjustmentType, quantity int64, reason string) error {
	sh, err := s.shipmentRepo.FindByID(ctx, shipmentID)
	if err != nil {
		return err
	}

	adj, err := shipment.NewStockAdjustment(shipmentID, adjType, quantity, reason, s.now())
	if err != nil {
		return err
	}
	if err := sh.ApplyAdjustment(adj.Delta); err != nil {
		return err
	}

	if err := s.shipmentRepo.Save(ctx, sh); err != nil {
		return err
	}
	if err := s.shipmentRepo.AppendAdjustment(ctx, adj); err != nil {
		return err
	}

	if err := s.refreshProductPrices(ctx, sh.ProductID); err != nil {
		return err
	}

	s.logger.Info("Stock adjusted",
		zap.String("shipment_id", shipmentID.String()),
		zap.String("type", string(adjType)),
		zap.Int64("quantity", quantity),
	)
	return nil
}

// ListByProduct returns every shipment batch of a product, consumed and
// deactivated ones included.
func (s *ShipmentService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]shipment.Shipment, error) {
	return s.shipmentRepo.FindByProduct(ctx, productID)
}

// PriceHistory returns a shipment's price change log.
func (s *ShipmentService) PriceHistory(ctx context.Context, shipmentID uuid.UUID) ([]shipment.PriceHistoryEntry, error) {
	return s.shipmentRepo.PriceHistory(ctx, shipmentID)
}

// ProductStock returns the summed remaining stock of a product's active
// batches.
func (s *ShipmentService) ProductStock(ctx context.Context, productID uuid.UUID) (int64, error) {
	batches, err := s.shipmentRepo.ActiveByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	return shipment.TotalStock(batches), nil
}

// QuoteConsumption prices a hypothetical sale of the given quantity
// against the product's batches in arrival order. Nothing is mutated;
// the caller commits separately if the quote is acted on.
func (s *ShipmentService) QuoteConsumption(ctx context.Context, productID uuid.UUID, quantity int64, date time.Time) (*shipment.ConsumptionResult, error) {
	batches, err := s.shipmentRepo.ActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	history, err := s.shipmentRepo.PriceHistoryByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return shipment.Consume(batches, history, quantity, date)
}

// ConsumeStock prices a sale and commits the deduction against the
// consumed batches. The whole requested quantity must be available.
func (s *ShipmentService) ConsumeStock(ctx context.Context, productID uuid.UUID, quantity int64, date time.Time) (*shipment.ConsumptionResult, error) {
	result, err := s.QuoteConsumption(ctx, productID, quantity, date)
	if err != nil {
		return nil, err
	}
	if !result.FullyFulfilled() {
		return nil, shared.ErrInsufficientStock
	}
	if err := s.CommitQuote(ctx, productID, result); err != nil {
		return nil, err
	}
	return result, nil
}

// CommitQuote deducts the slices of a previously computed quote. Unlike
// ConsumeStock it accepts partial quotes; whatever the quote consumed
// is what gets deducted.
func (s *ShipmentService) CommitQuote(ctx context.Context, productID uuid.UUID, result *shipment.ConsumptionResult) error {
	for _, slice := range result.Slices {
		sh, err := s.shipmentRepo.FindByID(ctx, slice.ShipmentID)
		if err != nil {
			return err
		}
		if err := sh.CommitConsumption(slice.Quantity); err != nil {
			return err
		}
		if err := s.shipmentRepo.Save(ctx, sh); err != nil {
			return err
		}
	}
	return s.refreshProductPrices(ctx, productID)
}

// refreshProductPrices re-derives a product's stored price pair from
// the oldest active batch with stock. Products with no stocked batch
// keep their last known prices.
func (s *ShipmentService) refreshProductPrices(ctx context.Context, productID uuid.UUID) error {
	batches, err := s.shipmentRepo.ActiveByProduct(ctx, productID)
	if err != nil {
		return err
	}
	supply, sale := shipment.CurrentPrice(batches)
	if supply.IsZero() && sale.IsZero() {
		return nil
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	product.RefreshPrices(supply, sale)
	return s.productRepo.Save(ctx, product)
}
