package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shipment"
	"github.com/paul-kim93/ablcrossborder/internal/infrastructure/persistence/models"
)

// GormShipmentRepository implements shipment.Repository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// FindByID finds a shipment batch by its ID
func (r *GormShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipment.Shipment, error) {
	var model models.ShipmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProduct returns every batch of a product in arrival order
func (r *GormShipmentRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]shipment.Shipment, error) {
	var rows []models.ShipmentModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("arrival_date ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toShipments(rows), nil
}

// ActiveByProduct returns the active batches of a product in arrival order.
// Arrival order is the consumption order of the costing engine.
func (r *GormShipmentRepository) ActiveByProduct(ctx context.Context, productID uuid.UUID) ([]shipment.Shipment, error) {
	var rows []models.ShipmentModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND active = ?", productID, true).
		Order("arrival_date ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toShipments(rows), nil
}

// Save persists a shipment batch (insert or update)
func (r *GormShipmentRepository) Save(ctx context.Context, s *shipment.Shipment) error {
	model := models.ShipmentModelFromDomain(s)
	return r.db.WithContext(ctx).Save(model).Error
}

// PriceHistory returns the price history of one batch, oldest first
func (r *GormShipmentRepository) PriceHistory(ctx context.Context, shipmentID uuid.UUID) ([]shipment.PriceHistoryEntry, error) {
	var rows []models.PriceHistoryModel
	if err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("effective_date ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toPriceHistory(rows), nil
}

// PriceHistoryByProduct returns the price history across every batch of a
// product, oldest first. The costing engine replays it to price past dates.
func (r *GormShipmentRepository) PriceHistoryByProduct(ctx context.Context, productID uuid.UUID) ([]shipment.PriceHistoryEntry, error) {
	var rows []models.PriceHistoryModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN shipments s ON s.id = shipment_price_history.shipment_id").
		Where("s.product_id = ?", productID).
		Order("shipment_price_history.effective_date ASC, shipment_price_history.created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toPriceHistory(rows), nil
}

// AppendPriceHistory records one price change
func (r *GormShipmentRepository) AppendPriceHistory(ctx context.Context, entry *shipment.PriceHistoryEntry) error {
	model := &models.PriceHistoryModel{}
	model.FromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// Adjustments returns the manual adjustments of one batch, oldest first
func (r *GormShipmentRepository) Adjustments(ctx context.Context, shipmentID uuid.UUID) ([]shipment.StockAdjustment, error) {
	var rows []models.StockAdjustmentModel
	if err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("adjusted_at ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	adjustments := make([]shipment.StockAdjustment, len(rows))
	for i := range rows {
		adjustments[i] = *rows[i].ToDomain()
	}
	return adjustments, nil
}

// AppendAdjustment records one manual stock adjustment
func (r *GormShipmentRepository) AppendAdjustment(ctx context.Context, adj *shipment.StockAdjustment) error {
	model := &models.StockAdjustmentModel{}
	model.FromDomain(adj)
	return r.db.WithContext(ctx).Create(model).Error
}

func toShipments(rows []models.ShipmentModel) []shipment.Shipment {
	shipments := make([]shipment.Shipment, len(rows))
	for i := range rows {
		shipments[i] = *rows[i].ToDomain()
	}
	return shipments
}

func toPriceHistory(rows []models.PriceHistoryModel) []shipment.PriceHistoryEntry {
	entries := make([]shipment.PriceHistoryEntry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries
}
