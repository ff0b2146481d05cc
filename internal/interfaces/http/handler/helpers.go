package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
)

// timeFormat is the timestamp layout used across API responses
const timeFormat = time.RFC3339

// toDecimal converts a float64 to a decimal.Decimal
func toDecimal(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// parseDateTime parses a datetime string in various formats
func parseDateTime(s string) (time.Time, error) {
	// Try RFC3339 first
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	// Try ISO date format
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	// Try datetime without timezone
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t, nil
	}
	// Default to RFC3339 parsing error
	return time.Parse(time.RFC3339, s)
}

// scopeFromQuery reads the optional seller_id query parameter. An absent
// parameter selects the total scope across all sellers.
func scopeFromQuery(c *gin.Context) (ledger.Scope, error) {
	raw := c.Query("seller_id")
	if raw == "" {
		return ledger.TotalScope(), nil
	}
	sellerID, err := uuid.Parse(raw)
	if err != nil {
		return ledger.Scope{}, err
	}
	return ledger.SellerScope(sellerID), nil
}
