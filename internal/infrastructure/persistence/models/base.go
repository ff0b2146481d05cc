package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// ScopeColumns maps a domain Scope onto two columns: the scope type and
// a nullable seller reference. The total scope stores a NULL seller.
type ScopeColumns struct {
	ScopeType string     `gorm:"type:varchar(10);not null"`
	SellerID  *uuid.UUID `gorm:"type:uuid"`
}

// ToScope converts the column pair back to a domain Scope.
func (c ScopeColumns) ToScope() ledger.Scope {
	if c.ScopeType == string(ledger.ScopeTypeSeller) && c.SellerID != nil {
		return ledger.SellerScope(*c.SellerID)
	}
	return ledger.TotalScope()
}

// ScopeColumnsFromScope maps a domain Scope to the column pair.
func ScopeColumnsFromScope(s ledger.Scope) ScopeColumns {
	if s.IsTotal() {
		return ScopeColumns{ScopeType: string(ledger.ScopeTypeTotal)}
	}
	sellerID := s.SellerID
	return ScopeColumns{ScopeType: string(ledger.ScopeTypeSeller), SellerID: &sellerID}
}
