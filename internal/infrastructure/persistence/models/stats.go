package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paul-kim93/ablcrossborder/internal/domain/stats"
)

// ScopeSummaryModel is the persistence model for per-scope rolling summaries.
// One row per scope; the total scope stores a NULL seller_id.
type ScopeSummaryModel struct {
	BaseModel
	ScopeColumns

	CumulativeQuantity     int64           `gorm:"not null;default:0"`
	CumulativeSupplyAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CumulativeSaleAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	MonthQuantity     int64           `gorm:"not null;default:0"`
	MonthSupplyAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MonthSaleAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	WeekQuantity     int64           `gorm:"not null;default:0"`
	WeekSupplyAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	WeekSaleAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	YesterdayQuantity     int64           `gorm:"not null;default:0"`
	YesterdaySupplyAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	YesterdaySaleAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	LastUpdated time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ScopeSummaryModel) TableName() string {
	return "scope_summaries"
}

// ToDomain converts the persistence model to a domain ScopeSummary.
func (m *ScopeSummaryModel) ToDomain() *stats.ScopeSummary {
	return &stats.ScopeSummary{
		BaseEntity: m.BaseModel.ToDomain(),
		Scope:      m.ScopeColumns.ToScope(),
		Cumulative: stats.WindowTotals{
			Quantity:     m.CumulativeQuantity,
			SupplyAmount: m.CumulativeSupplyAmount,
			SaleAmount:   m.CumulativeSaleAmount,
		},
		Month: stats.WindowTotals{
			Quantity:     m.MonthQuantity,
			SupplyAmount: m.MonthSupplyAmount,
			SaleAmount:   m.MonthSaleAmount,
		},
		Week: stats.WindowTotals{
			Quantity:     m.WeekQuantity,
			SupplyAmount: m.WeekSupplyAmount,
			SaleAmount:   m.WeekSaleAmount,
		},
		Yesterday: stats.WindowTotals{
			Quantity:     m.YesterdayQuantity,
			SupplyAmount: m.YesterdaySupplyAmount,
			SaleAmount:   m.YesterdaySaleAmount,
		},
		LastUpdated: m.LastUpdated,
	}
}

// FromDomain populates the persistence model from a domain ScopeSummary.
func (m *ScopeSummaryModel) FromDomain(s *stats.ScopeSummary) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.ScopeColumns = ScopeColumnsFromScope(s.Scope)
	m.CumulativeQuantity = s.Cumulative.Quantity
	m.CumulativeSupplyAmount = s.Cumulative.SupplyAmount
	m.CumulativeSaleAmount = s.Cumulative.SaleAmount
	m.MonthQuantity = s.Month.Quantity
	m.MonthSupplyAmount = s.Month.SupplyAmount
	m.MonthSaleAmount = s.Month.SaleAmount
	m.WeekQuantity = s.Week.Quantity
	m.WeekSupplyAmount = s.Week.SupplyAmount
	m.WeekSaleAmount = s.Week.SaleAmount
	m.YesterdayQuantity = s.Yesterday.Quantity
	m.YesterdaySupplyAmount = s.Yesterday.SupplyAmount
	m.YesterdaySaleAmount = s.Yesterday.SaleAmount
	m.LastUpdated = s.LastUpdated
}

// ScopeSummaryModelFromDomain creates a new persistence model from a domain ScopeSummary.
func ScopeSummaryModelFromDomain(s *stats.ScopeSummary) *ScopeSummaryModel {
	m := &ScopeSummaryModel{}
	m.FromDomain(s)
	return m
}

// ProductRankingModel is the persistence model for precomputed ranking rows.
type ProductRankingModel struct {
	BaseModel
	ScopeColumns

	Period          string          `gorm:"type:varchar(12);not null"`
	Metric          string          `gorm:"type:varchar(10);not null"`
	Rank            int             `gorm:"not null"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	ProductSellerID uuid.UUID       `gorm:"type:uuid;not null"`
	SellerName      string          `gorm:"type:varchar(200);not null"`
	Quantity        int64           `gorm:"not null;default:0"`
	Revenue         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ComputedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductRankingModel) TableName() string {
	return "product_rankings"
}

// ToDomain converts the persistence model to a domain ProductRanking.
func (m *ProductRankingModel) ToDomain() stats.ProductRanking {
	return stats.ProductRanking{
		BaseEntity:  m.BaseModel.ToDomain(),
		Scope:       m.ScopeColumns.ToScope(),
		Period:      stats.Period(m.Period),
		Metric:      stats.Metric(m.Metric),
		Rank:        m.Rank,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		SellerID:    m.ProductSellerID,
		SellerName:  m.SellerName,
		Quantity:    m.Quantity,
		Revenue:     m.Revenue,
		ComputedAt:  m.ComputedAt,
	}
}

// FromDomain populates the persistence model from a domain ProductRanking.
func (m *ProductRankingModel) FromDomain(r *stats.ProductRanking) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.ScopeColumns = ScopeColumnsFromScope(r.Scope)
	m.Period = string(r.Period)
	m.Metric = string(r.Metric)
	m.Rank = r.Rank
	m.ProductID = r.ProductID
	m.ProductName = r.ProductName
	m.ProductSellerID = r.SellerID
	m.SellerName = r.SellerName
	m.Quantity = r.Quantity
	m.Revenue = r.Revenue
	m.ComputedAt = r.ComputedAt
}
