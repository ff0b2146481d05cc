package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
)

// Product represents a catalog product owned by a seller.
//
// SupplyPrice and SalePrice mirror the price pair of the oldest active
// shipment batch with remaining stock. They are a derived projection kept
// for display: the shipment ledger stays authoritative and the pair is
// refreshed whenever the "now selling" batch changes.
type Product struct {
	shared.BaseEntity
	SellerID    uuid.UUID
	Name        string
	Code        string
	SupplyPrice decimal.Decimal
	SalePrice   decimal.Decimal
	Active      bool
}

// NewProduct creates a new product
func NewProduct(sellerID uuid.UUID, name, code string, supplyPrice, salePrice decimal.Decimal) (*Product, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if supplyPrice.IsNegative() || salePrice.IsNegative() {
		return nil, shared.ErrInvalidPrice
	}

	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		SellerID:    sellerID,
		Name:        name,
		Code:        code,
		SupplyPrice: supplyPrice,
		SalePrice:   salePrice,
		Active:      true,
	}, nil
}

// RefreshPrices updates the derived price pair from the shipment ledger
func (p *Product) RefreshPrices(supplyPrice, salePrice decimal.Decimal) {
	p.SupplyPrice = supplyPrice
	p.SalePrice = salePrice
	p.Touch()
}

// Deactivate marks the product inactive
func (p *Product) Deactivate() {
	p.Active = false
	p.Touch()
}

// ProductCodeMapping maps an alias order code to a real product.
// Imported rows carrying the alias resolve to the mapped product with
// their quantity scaled by the multiplier.
type ProductCodeMapping struct {
	shared.BaseEntity
	ProductID          uuid.UUID
	MappedCode         string
	QuantityMultiplier int64
}

// NewProductCodeMapping creates a new code mapping
func NewProductCodeMapping(productID uuid.UUID, mappedCode string, multiplier int64) (*ProductCodeMapping, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if mappedCode == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Mapped code cannot be empty")
	}
	if multiplier <= 0 {
		multiplier = 1
	}
	return &ProductCodeMapping{
		BaseEntity:         shared.NewBaseEntity(),
		ProductID:          productID,
		MappedCode:         mappedCode,
		QuantityMultiplier: multiplier,
	}, nil
}
