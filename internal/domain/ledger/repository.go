package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatLine is a read model row joining a line item with its order, used
// by the aggregation and ranking engines. Quantity and prices are the
// line snapshots; OrderTime and Status come from the order.
type StatLine struct {
	LineItemID  uuid.UUID
	OrderID     uuid.UUID
	ProductID   *uuid.UUID
	SellerID    uuid.UUID
	Quantity    int64
	SupplyPrice decimal.Decimal
	SalePrice   decimal.Decimal
	OrderTime   time.Time
	Status      OrderStatus
}

// SupplyAmount returns quantity * supply price
func (l StatLine) SupplyAmount() decimal.Decimal {
	return l.SupplyPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// SaleAmount returns quantity * sale price
func (l StatLine) SaleAmount() decimal.Decimal {
	return l.SalePrice.Mul(decimal.NewFromInt(l.Quantity))
}

// StatLineFilter narrows a stat line scan
type StatLineFilter struct {
	Scope       Scope         // TotalScope scans every seller
	Since       *time.Time    // order_time >= Since when set
	MatchedOnly bool          // drop lines with no product reference
	Statuses    []OrderStatus // empty means any status
}

// ProductInfo carries the denormalized display fields rankings need
type ProductInfo struct {
	ProductID  uuid.UUID
	Name       string
	SellerID   uuid.UUID
	SellerName string
}

// DailyAmount is one day of summed sales, used by the chart read path
type DailyAmount struct {
	Date         time.Time
	Quantity     int64
	SupplyAmount decimal.Decimal
	SaleAmount   decimal.Decimal
}

// SellerRepository defines persistence for sellers
type SellerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Seller, error)
	FindAll(ctx context.Context) ([]Seller, error)
	Save(ctx context.Context, seller *Seller) error
}

// ProductRepository defines persistence for products and code mappings
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByCode(ctx context.Context, code string) (*Product, error)
	FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]Product, error)
	Save(ctx context.Context, product *Product) error

	FindMapping(ctx context.Context, mappedCode string) (*ProductCodeMapping, error)
	SaveMapping(ctx context.Context, mapping *ProductCodeMapping) error
}

// OrderRepository defines persistence for orders and line items
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderNo(ctx context.Context, orderNo string) (*Order, error)
	Save(ctx context.Context, order *Order) error

	LineItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderLineItem, error)
	FindLineItem(ctx context.Context, id uuid.UUID) (*OrderLineItem, error)
	SaveLineItem(ctx context.Context, item *OrderLineItem) error
	UnmatchedByCode(ctx context.Context, productCode string) ([]OrderLineItem, error)

	// StatLines scans line items joined with their orders for the
	// aggregation and ranking engines.
	StatLines(ctx context.Context, filter StatLineFilter) ([]StatLine, error)

	// ProductInfos resolves display names for ranking rows
	ProductInfos(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]ProductInfo, error)

	// DailyAmounts sums valid-for-stats sales per calendar day for the
	// chart read path.
	DailyAmounts(ctx context.Context, scope Scope, from, to time.Time) ([]DailyAmount, error)
}
