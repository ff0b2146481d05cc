package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
)

// OrderStatus represents the fulfillment status of an imported order.
// The set is closed: rows arrive already normalized by the import layer.
type OrderStatus string

const (
	OrderStatusAwaitingShipment OrderStatus = "AWAITING_SHIPMENT"
	OrderStatusInTransit        OrderStatus = "IN_TRANSIT"
	OrderStatusCustoms          OrderStatus = "CUSTOMS"
	OrderStatusCompleted        OrderStatus = "COMPLETED"
	OrderStatusCancelled        OrderStatus = "CANCELLED"
	OrderStatusRefundReturn     OrderStatus = "REFUND_RETURN"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusAwaitingShipment, OrderStatusInTransit, OrderStatusCustoms,
		OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefundReturn:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CountsForStats reports whether orders in this status contribute to the
// sales statistics. Cancelled and refund/return orders do not.
func (s OrderStatus) CountsForStats() bool {
	switch s {
	case OrderStatusAwaitingShipment, OrderStatusInTransit, OrderStatusCustoms, OrderStatusCompleted:
		return true
	}
	return false
}

// DeductsStock reports whether orders in this status hold physical stock.
// Refund/return orders still deduct stock until the goods come back.
func (s OrderStatus) DeductsStock() bool {
	return s.CountsForStats() || s == OrderStatusRefundReturn
}

// StatusesForStats returns the statuses that count toward statistics
func StatusesForStats() []OrderStatus {
	return []OrderStatus{
		OrderStatusAwaitingShipment,
		OrderStatusInTransit,
		OrderStatusCustoms,
		OrderStatusCompleted,
	}
}

// CrossesStatsPartition reports whether a transition from old to new moves
// an order between the counted and not-counted sides of the statistics
// partition. Only such transitions require aggregate adjustment.
func CrossesStatsPartition(old, new OrderStatus) bool {
	return old.CountsForStats() != new.CountsForStats()
}

// Order represents one imported marketplace order.
// OrderTime is supplier-local wall-clock time and is stored as given.
type Order struct {
	shared.BaseEntity
	OrderNo   string
	BuyerID   string
	OrderTime time.Time
	Status    OrderStatus
}

// NewOrder creates a new order
func NewOrder(orderNo, buyerID string, orderTime time.Time, status OrderStatus) (*Order, error) {
	if orderNo == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NO", "Order number cannot be empty")
	}
	if orderTime.IsZero() {
		return nil, shared.NewDomainError("INVALID_ORDER_TIME", "Order time cannot be zero")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+status.String())
	}

	return &Order{
		BaseEntity: shared.NewBaseEntity(),
		OrderNo:    orderNo,
		BuyerID:    buyerID,
		OrderTime:  orderTime,
		Status:     status,
	}, nil
}

// ChangeStatus transitions the order to a new status and reports whether
// the transition crossed the statistics partition.
func (o *Order) ChangeStatus(status OrderStatus) (crossed bool, err error) {
	if !status.IsValid() {
		return false, shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+status.String())
	}
	crossed = CrossesStatsPartition(o.Status, status)
	o.Status = status
	o.Touch()
	return crossed, nil
}

// OrderLineItem is one product line of an order. Prices are snapshots
// taken at line creation and never follow later catalog changes.
// ProductID is nil for rows whose product code did not match any product
// at import time; such rows carry zero prices until a code mapping
// resolves them.
type OrderLineItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID
	ProductID   *uuid.UUID
	ProductCode string
	SellerID    uuid.UUID // snapshot of the owning seller at line creation
	Quantity    int64
	SupplyPrice decimal.Decimal
	SalePrice   decimal.Decimal
}

// NewOrderLineItem creates a matched line item with snapshot prices
func NewOrderLineItem(orderID, productID, sellerID uuid.UUID, productCode string, quantity int64, supplyPrice, salePrice decimal.Decimal) (*OrderLineItem, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if supplyPrice.IsNegative() || salePrice.IsNegative() {
		return nil, shared.ErrInvalidPrice
	}

	item := &OrderLineItem{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     orderID,
		ProductCode: productCode,
		SellerID:    sellerID,
		Quantity:    quantity,
		SupplyPrice: supplyPrice,
		SalePrice:   salePrice,
	}
	if productID != uuid.Nil {
		item.ProductID = &productID
	}
	return item, nil
}

// NewUnmatchedLineItem creates a line item whose product code matched
// nothing. It is retained with zero prices pending a code mapping.
func NewUnmatchedLineItem(orderID uuid.UUID, productCode string, quantity int64) (*OrderLineItem, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return &OrderLineItem{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     orderID,
		ProductCode: productCode,
		Quantity:    quantity,
		SupplyPrice: decimal.Zero,
		SalePrice:   decimal.Zero,
	}, nil
}

// IsMatched reports whether the line references a known product
func (i *OrderLineItem) IsMatched() bool {
	return i.ProductID != nil
}

// Resolve attaches a product to a previously unmatched line and fills in
// the snapshot prices and seller.
func (i *OrderLineItem) Resolve(productID, sellerID uuid.UUID, supplyPrice, salePrice decimal.Decimal, multiplier int64) error {
	if i.IsMatched() {
		return shared.ErrInvalidState
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if multiplier > 1 {
		i.Quantity *= multiplier
	}
	i.ProductID = &productID
	i.SellerID = sellerID
	i.SupplyPrice = supplyPrice
	i.SalePrice = salePrice
	i.Touch()
	return nil
}

// UpdatePrices replaces the snapshot price pair (admin price correction)
func (i *OrderLineItem) UpdatePrices(supplyPrice, salePrice decimal.Decimal) error {
	if !supplyPrice.IsPositive() || !salePrice.IsPositive() {
		return shared.ErrInvalidPrice
	}
	i.SupplyPrice = supplyPrice
	i.SalePrice = salePrice
	i.Touch()
	return nil
}

// SupplyAmount returns quantity * supply price
func (i *OrderLineItem) SupplyAmount() decimal.Decimal {
	return i.SupplyPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// SaleAmount returns quantity * sale price
func (i *OrderLineItem) SaleAmount() decimal.Decimal {
	return i.SalePrice.Mul(decimal.NewFromInt(i.Quantity))
}
