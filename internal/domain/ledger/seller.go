package ledger

import (
	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
)

// Seller represents a merchant selling through the platform
type Seller struct {
	shared.BaseEntity
	Name    string
	Contact string
}

// NewSeller creates a new seller
func NewSeller(name, contact string) (*Seller, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Seller name cannot be empty")
	}
	return &Seller{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Contact:    contact,
	}, nil
}

// Scope returns the aggregation scope owned by this seller
func (s *Seller) Scope() Scope {
	return SellerScope(s.ID)
}
