package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
)

// SellerModel is the persistence model for the Seller domain entity.
type SellerModel struct {
	BaseModel
	Name    string `gorm:"type:varchar(200);not null"`
	Contact string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (SellerModel) TableName() string {
	return "sellers"
}

// ToDomain converts the persistence model to a domain Seller entity.
func (m *SellerModel) ToDomain() *ledger.Seller {
	return &ledger.Seller{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Contact:    m.Contact,
	}
}

// FromDomain populates the persistence model from a domain Seller entity.
func (m *SellerModel) FromDomain(s *ledger.Seller) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Name = s.Name
	m.Contact = s.Contact
}

// SellerModelFromDomain creates a new persistence model from a domain Seller entity.
func SellerModelFromDomain(s *ledger.Seller) *SellerModel {
	m := &SellerModel{}
	m.FromDomain(s)
	return m
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	SellerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Code        string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	SupplyPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SalePrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *ledger.Product {
	return &ledger.Product{
		BaseEntity:  m.BaseModel.ToDomain(),
		SellerID:    m.SellerID,
		Name:        m.Name,
		Code:        m.Code,
		SupplyPrice: m.SupplyPrice,
		SalePrice:   m.SalePrice,
		Active:      m.Active,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *ledger.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.SellerID = p.SellerID
	m.Name = p.Name
	m.Code = p.Code
	m.SupplyPrice = p.SupplyPrice
	m.SalePrice = p.SalePrice
	m.Active = p.Active
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *ledger.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ProductCodeMappingModel is the persistence model for external code mappings.
type ProductCodeMappingModel struct {
	BaseModel
	ProductID          uuid.UUID `gorm:"type:uuid;not null;index"`
	MappedCode         string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	QuantityMultiplier int64     `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (ProductCodeMappingModel) TableName() string {
	return "product_code_mappings"
}

// ToDomain converts the persistence model to a domain ProductCodeMapping entity.
func (m *ProductCodeMappingModel) ToDomain() *ledger.ProductCodeMapping {
	return &ledger.ProductCodeMapping{
		BaseEntity:         m.BaseModel.ToDomain(),
		ProductID:          m.ProductID,
		MappedCode:         m.MappedCode,
		QuantityMultiplier: m.QuantityMultiplier,
	}
}

// FromDomain populates the persistence model from a domain ProductCodeMapping entity.
func (m *ProductCodeMappingModel) FromDomain(c *ledger.ProductCodeMapping) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.ProductID = c.ProductID
	m.MappedCode = c.MappedCode
	m.QuantityMultiplier = c.QuantityMultiplier
}

// OrderModel is the persistence model for the Order domain entity.
type OrderModel struct {
	BaseModel
	OrderNo   string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	BuyerID   string    `gorm:"type:varchar(100);not null;index"`
	OrderTime time.Time `gorm:"not null;index"`
	Status    string    `gorm:"type:varchar(30);not null;index"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *ledger.Order {
	return &ledger.Order{
		BaseEntity: m.BaseModel.ToDomain(),
		OrderNo:    m.OrderNo,
		BuyerID:    m.BuyerID,
		OrderTime:  m.OrderTime,
		Status:     ledger.OrderStatus(m.Status),
	}
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *ledger.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.OrderNo = o.OrderNo
	m.BuyerID = o.BuyerID
	m.OrderTime = o.OrderTime
	m.Status = string(o.Status)
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *ledger.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderLineItemModel is the persistence model for order line items.
// ProductID is NULL for lines whose product code never resolved.
type OrderLineItemModel struct {
	BaseModel
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index"`
	ProductCode string          `gorm:"type:varchar(100);not null;index"`
	SellerID    uuid.UUID       `gorm:"type:uuid;index"`
	Quantity    int64           `gorm:"not null"`
	SupplyPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SalePrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderLineItemModel) TableName() string {
	return "order_line_items"
}

// ToDomain converts the persistence model to a domain OrderLineItem entity.
func (m *OrderLineItemModel) ToDomain() *ledger.OrderLineItem {
	return &ledger.OrderLineItem{
		BaseEntity:  m.BaseModel.ToDomain(),
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		ProductCode: m.ProductCode,
		SellerID:    m.SellerID,
		Quantity:    m.Quantity,
		SupplyPrice: m.SupplyPrice,
		SalePrice:   m.SalePrice,
	}
}

// FromDomain populates the persistence model from a domain OrderLineItem entity.
func (m *OrderLineItemModel) FromDomain(i *ledger.OrderLineItem) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.OrderID = i.OrderID
	m.ProductID = i.ProductID
	m.ProductCode = i.ProductCode
	m.SellerID = i.SellerID
	m.Quantity = i.Quantity
	m.SupplyPrice = i.SupplyPrice
	m.SalePrice = i.SalePrice
}

// OrderLineItemModelFromDomain creates a new persistence model from a domain OrderLineItem entity.
func OrderLineItemModelFromDomain(i *ledger.OrderLineItem) *OrderLineItemModel {
	m := &OrderLineItemModel{}
	m.FromDomain(i)
	return m
}
