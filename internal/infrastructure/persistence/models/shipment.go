package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paul-kim93/ablcrossborder/internal/domain/shipment"
)

// ShipmentModel is the persistence model for the Shipment domain entity.
type ShipmentModel struct {
	BaseModel
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_shipments_product_arrival,priority:1"`
	ShipmentNo        string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	ArrivalDate       time.Time       `gorm:"type:date;not null;index:idx_shipments_product_arrival,priority:2"`
	InitialQuantity   int64           `gorm:"not null"`
	CurrentQuantity   int64           `gorm:"not null"`
	RemainingQuantity int64           `gorm:"not null"`
	SupplyPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SalePrice         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Active            bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ShipmentModel) TableName() string {
	return "shipments"
}

// ToDomain converts the persistence model to a domain Shipment entity.
func (m *ShipmentModel) ToDomain() *shipment.Shipment {
	return &shipment.Shipment{
		BaseEntity:        m.BaseModel.ToDomain(),
		ProductID:         m.ProductID,
		ShipmentNo:        m.ShipmentNo,
		ArrivalDate:       m.ArrivalDate,
		InitialQuantity:   m.InitialQuantity,
		CurrentQuantity:   m.CurrentQuantity,
		RemainingQuantity: m.RemainingQuantity,
		SupplyPrice:       m.SupplyPrice,
		SalePrice:         m.SalePrice,
		Active:            m.Active,
	}
}

// FromDomain populates the persistence model from a domain Shipment entity.
func (m *ShipmentModel) FromDomain(s *shipment.Shipment) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.ProductID = s.ProductID
	m.ShipmentNo = s.ShipmentNo
	m.ArrivalDate = s.ArrivalDate
	m.InitialQuantity = s.InitialQuantity
	m.CurrentQuantity = s.CurrentQuantity
	m.RemainingQuantity = s.RemainingQuantity
	m.SupplyPrice = s.SupplyPrice
	m.SalePrice = s.SalePrice
	m.Active = s.Active
}

// ShipmentModelFromDomain creates a new persistence model from a domain Shipment entity.
func ShipmentModelFromDomain(s *shipment.Shipment) *ShipmentModel {
	m := &ShipmentModel{}
	m.FromDomain(s)
	return m
}

// PriceHistoryModel is the persistence model for shipment price history entries.
type PriceHistoryModel struct {
	BaseModel
	ShipmentID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_price_history_shipment_date,priority:1"`
	SupplyPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	EffectiveDate time.Time       `gorm:"type:date;not null;index:idx_price_history_shipment_date,priority:2"`
	Reason        string          `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (PriceHistoryModel) TableName() string {
	return "shipment_price_history"
}

// ToDomain converts the persistence model to a domain PriceHistoryEntry.
func (m *PriceHistoryModel) ToDomain() *shipment.PriceHistoryEntry {
	return &shipment.PriceHistoryEntry{
		BaseEntity:    m.BaseModel.ToDomain(),
		ShipmentID:    m.ShipmentID,
		SupplyPrice:   m.SupplyPrice,
		SalePrice:     m.SalePrice,
		EffectiveDate: m.EffectiveDate,
		Reason:        m.Reason,
	}
}

// FromDomain populates the persistence model from a domain PriceHistoryEntry.
func (m *PriceHistoryModel) FromDomain(e *shipment.PriceHistoryEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.ShipmentID = e.ShipmentID
	m.SupplyPrice = e.SupplyPrice
	m.SalePrice = e.SalePrice
	m.EffectiveDate = e.EffectiveDate
	m.Reason = e.Reason
}

// StockAdjustmentModel is the persistence model for manual stock adjustments.
type StockAdjustmentModel struct {
	BaseModel
	ShipmentID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type       string    `gorm:"type:varchar(10);not null"`
	Delta      int64     `gorm:"not null"`
	Reason     string    `gorm:"type:varchar(200)"`
	AdjustedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockAdjustmentModel) TableName() string {
	return "stock_adjustments"
}

// ToDomain converts the persistence model to a domain StockAdjustment.
func (m *StockAdjustmentModel) ToDomain() *shipment.StockAdjustment {
	return &shipment.StockAdjustment{
		BaseEntity: m.BaseModel.ToDomain(),
		ShipmentID: m.ShipmentID,
		Type:       shipment.AdjustmentType(m.Type),
		Delta:      m.Delta,
		Reason:     m.Reason,
		AdjustedAt: m.AdjustedAt,
	}
}

// FromDomain populates the persistence model from a domain StockAdjustment.
func (m *StockAdjustmentModel) FromDomain(a *shipment.StockAdjustment) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.ShipmentID = a.ShipmentID
	m.Type = string(a.Type)
	m.Delta = a.Delta
	m.Reason = a.Reason
	m.AdjustedAt = a.AdjustedAt
}
