package ledger

import "github.com/google/uuid"

// ScopeType distinguishes the total-of-all-sellers pseudo-scope from a
// concrete seller scope.
type ScopeType string

const (
	ScopeTypeTotal  ScopeType = "all"
	ScopeTypeSeller ScopeType = "seller"
)

// IsValid checks if the scope type is valid
func (t ScopeType) IsValid() bool {
	switch t {
	case ScopeTypeTotal, ScopeTypeSeller:
		return true
	}
	return false
}

// String returns the string representation
func (t ScopeType) String() string {
	return string(t)
}

// Scope identifies an aggregation unit: either a single seller or the
// total across all sellers. The total scope is a first-class value here,
// not a reserved seller id.
type Scope struct {
	Type     ScopeType
	SellerID uuid.UUID // zero value when Type is ScopeTypeTotal
}

// TotalScope returns the scope covering all sellers
func TotalScope() Scope {
	return Scope{Type: ScopeTypeTotal}
}

// SellerScope returns the scope for a single seller
func SellerScope(sellerID uuid.UUID) Scope {
	return Scope{Type: ScopeTypeSeller, SellerID: sellerID}
}

// IsTotal returns true for the total-of-all-sellers scope
func (s Scope) IsTotal() bool {
	return s.Type == ScopeTypeTotal
}

// String returns a stable textual key for logging
func (s Scope) String() string {
	if s.IsTotal() {
		return "all"
	}
	return "seller:" + s.SellerID.String()
}
