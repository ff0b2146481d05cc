package shipment

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for shipments and their ledgers
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Shipment, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]Shipment, error)
	// ActiveByProduct returns active batches in arrival order
	ActiveByProduct(ctx context.Context, productID uuid.UUID) ([]Shipment, error)
	Save(ctx context.Context, s *Shipment) error

	PriceHistory(ctx context.Context, shipmentID uuid.UUID) ([]PriceHistoryEntry, error)
	PriceHistoryByProduct(ctx context.Context, productID uuid.UUID) ([]PriceHistoryEntry, error)
	AppendPriceHistory(ctx context.Context, entry *PriceHistoryEntry) error

	Adjustments(ctx context.Context, shipmentID uuid.UUID) ([]StockAdjustment, error)
	AppendAdjustment(ctx context.Context, adj *StockAdjustment) error
}
