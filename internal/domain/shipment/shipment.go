package shipment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
)

// Shipment is one inventory batch of a product. Batches are consumed
// oldest arrival first; the arrival ordering is the FIFO queue.
//
// Quantities obey 0 <= RemainingQuantity <= CurrentQuantity at all times.
// CurrentQuantity tracks manual adjustments against the initial intake;
// RemainingQuantity additionally reflects committed FIFO consumption.
type Shipment struct {
	shared.BaseEntity
	ProductID         uuid.UUID
	ShipmentNo        string
	ArrivalDate       time.Time
	InitialQuantity   int64
	CurrentQuantity   int64
	RemainingQuantity int64
	SupplyPrice       decimal.Decimal
	SalePrice         decimal.Decimal
	Active            bool
}

// NewShipment creates a new inventory batch
func NewShipment(productID uuid.UUID, shipmentNo string, arrivalDate time.Time, quantity int64, supplyPrice, salePrice decimal.Decimal) (*Shipment, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Initial quantity must be positive")
	}
	if !supplyPrice.IsPositive() || !salePrice.IsPositive() {
		return nil, shared.ErrInvalidPrice
	}
	if arrivalDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_ARRIVAL_DATE", "Arrival date cannot be zero")
	}

	return &Shipment{
		BaseEntity:        shared.NewBaseEntity(),
		ProductID:         productID,
		ShipmentNo:        shipmentNo,
		ArrivalDate:       arrivalDate,
		InitialQuantity:   quantity,
		CurrentQuantity:   quantity,
		RemainingQuantity: quantity,
		SupplyPrice:       supplyPrice,
		SalePrice:         salePrice,
		Active:            true,
	}, nil
}

// HasStock reports whether the batch still has sellable quantity
func (s *Shipment) HasStock() bool {
	return s.Active && s.RemainingQuantity > 0
}

// ApplyAdjustment applies a signed manual quantity delta to both the
// current and remaining counters. A negative delta larger than the
// remaining quantity is rejected.
func (s *Shipment) ApplyAdjustment(delta int64) error {
	if delta == 0 {
		return shared.NewDomainError("INVALID_DELTA", "Adjustment delta cannot be zero")
	}
	if delta < 0 && s.RemainingQuantity+delta < 0 {
		return shared.ErrInsufficientStock
	}
	s.CurrentQuantity += delta
	s.RemainingQuantity += delta
	s.Touch()
	return nil
}

// CommitConsumption decrements remaining stock after an order has been
// confirmed against this batch. Costing itself never calls this.
func (s *Shipment) CommitConsumption(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Consumed quantity must be positive")
	}
	if quantity > s.RemainingQuantity {
		return shared.ErrInsufficientStock
	}
	s.RemainingQuantity -= quantity
	s.Touch()
	return nil
}

// UpdatePrices replaces the stored current price pair. The caller is
// responsible for appending the matching history entry.
func (s *Shipment) UpdatePrices(supplyPrice, salePrice decimal.Decimal) error {
	if !supplyPrice.IsPositive() || !salePrice.IsPositive() {
		return shared.ErrInvalidPrice
	}
	s.SupplyPrice = supplyPrice
	s.SalePrice = salePrice
	s.Touch()
	return nil
}

// Deactivate removes the batch from the FIFO queue
func (s *Shipment) Deactivate() {
	s.Active = false
	s.Touch()
}

// PriceHistoryEntry records one time-versioned price for a shipment.
// Entries are append-only; the entry with the latest effective date not
// after a given day is the price in force on that day.
type PriceHistoryEntry struct {
	shared.BaseEntity
	ShipmentID    uuid.UUID
	SupplyPrice   decimal.Decimal
	SalePrice     decimal.Decimal
	EffectiveDate time.Time
	Reason        string
}

// NewPriceHistoryEntry creates a price history entry
func NewPriceHistoryEntry(shipmentID uuid.UUID, supplyPrice, salePrice decimal.Decimal, effectiveDate time.Time, reason string) (*PriceHistoryEntry, error) {
	if shipmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHIPMENT", "Shipment ID cannot be empty")
	}
	if !supplyPrice.IsPositive() || !salePrice.IsPositive() {
		return nil, shared.ErrInvalidPrice
	}
	if reason == "" {
		reason = "price update"
	}
	return &PriceHistoryEntry{
		BaseEntity:    shared.NewBaseEntity(),
		ShipmentID:    shipmentID,
		SupplyPrice:   supplyPrice,
		SalePrice:     salePrice,
		EffectiveDate: effectiveDate,
		Reason:        reason,
	}, nil
}

// AdjustmentType classifies a manual stock adjustment
type AdjustmentType string

const (
	AdjustmentTypeAdd      AdjustmentType = "add"
	AdjustmentTypeSubtract AdjustmentType = "subtract"
)

// IsValid checks if the adjustment type is valid
func (t AdjustmentType) IsValid() bool {
	return t == AdjustmentTypeAdd || t == AdjustmentTypeSubtract
}

// StockAdjustment is one entry of the append-only manual adjustment
// ledger. Delta carries the sign: positive for add, negative for
// subtract.
type StockAdjustment struct {
	shared.BaseEntity
	ShipmentID uuid.UUID
	Type       AdjustmentType
	Delta      int64
	Reason     string
	AdjustedAt time.Time
}

// NewStockAdjustment creates a stock adjustment record
func NewStockAdjustment(shipmentID uuid.UUID, adjType AdjustmentType, quantity int64, reason string, adjustedAt time.Time) (*StockAdjustment, error) {
	if shipmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHIPMENT", "Shipment ID cannot be empty")
	}
	if !adjType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT_TYPE", "Adjustment type must be add or subtract")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity must be positive")
	}
	delta := quantity
	if adjType == AdjustmentTypeSubtract {
		delta = -quantity
	}
	return &StockAdjustment{
		BaseEntity: shared.NewBaseEntity(),
		ShipmentID: shipmentID,
		Type:       adjType,
		Delta:      delta,
		Reason:     reason,
		AdjustedAt: adjustedAt,
	}, nil
}
