package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
	"github.com/paul-kim93/ablcrossborder/internal/infrastructure/persistence/models"
)

// GormSellerRepository implements ledger.SellerRepository using GORM
type GormSellerRepository struct {
	db *gorm.DB
}

// NewGormSellerRepository creates a new GormSellerRepository
func NewGormSellerRepository(db *gorm.DB) *GormSellerRepository {
	return &GormSellerRepository{db: db}
}

// FindByID finds a seller by its ID
func (r *GormSellerRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Seller, error) {
	var model models.SellerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every seller ordered by name
func (r *GormSellerRepository) FindAll(ctx context.Context) ([]ledger.Seller, error) {
	var rows []models.SellerModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	sellers := make([]ledger.Seller, len(rows))
	for i := range rows {
		sellers[i] = *rows[i].ToDomain()
	}
	return sellers, nil
}

// Save persists a seller (insert or update)
func (r *GormSellerRepository) Save(ctx context.Context, seller *ledger.Seller) error {
	model := models.SellerModelFromDomain(seller)
	return r.db.WithContext(ctx).Save(model).Error
}

// GormProductRepository implements ledger.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a product by its own catalog code
func (r *GormProductRepository) FindByCode(ctx context.Context, code string) (*ledger.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySeller returns every product of a seller
func (r *GormProductRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]ledger.Product, error) {
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]ledger.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// Save persists a product (insert or update)
func (r *GormProductRepository) Save(ctx context.Context, product *ledger.Product) error {
	model := models.ProductModelFromDomain(product)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindMapping finds a code mapping by its external code
func (r *GormProductRepository) FindMapping(ctx context.Context, mappedCode string) (*ledger.ProductCodeMapping, error) {
	var model models.ProductCodeMappingModel
	if err := r.db.WithContext(ctx).Where("mapped_code = ?", mappedCode).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveMapping persists a code mapping
func (r *GormProductRepository) SaveMapping(ctx context.Context, mapping *ledger.ProductCodeMapping) error {
	model := &models.ProductCodeMappingModel{}
	model.FromDomain(mapping)
	return r.db.WithContext(ctx).Save(model).Error
}

// GormOrderRepository implements ledger.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderNo finds an order by its external order number
func (r *GormOrderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*ledger.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Where("order_no = ?", orderNo).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists an order (insert or update)
func (r *GormOrderRepository) Save(ctx context.Context, order *ledger.Order) error {
	model := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).Save(model).Error
}

// LineItemsByOrder returns the line items of one order
func (r *GormOrderRepository) LineItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]ledger.OrderLineItem, error) {
	var rows []models.OrderLineItemModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]ledger.OrderLineItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// FindLineItem finds a line item by its ID
func (r *GormOrderRepository) FindLineItem(ctx context.Context, id uuid.UUID) (*ledger.OrderLineItem, error) {
	var model models.OrderLineItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveLineItem persists a line item (insert or update)
func (r *GormOrderRepository) SaveLineItem(ctx context.Context, item *ledger.OrderLineItem) error {
	model := models.OrderLineItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// UnmatchedByCode returns unmatched line items carrying the given code
func (r *GormOrderRepository) UnmatchedByCode(ctx context.Context, productCode string) ([]ledger.OrderLineItem, error) {
	var rows []models.OrderLineItemModel
	if err := r.db.WithContext(ctx).
		Where("product_id IS NULL AND product_code = ?", productCode).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]ledger.OrderLineItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// StatLines scans line items joined with their orders for the engines
func (r *GormOrderRepository) StatLines(ctx context.Context, filter ledger.StatLineFilter) ([]ledger.StatLine, error) {
	type row struct {
		LineItemID  uuid.UUID
		OrderID     uuid.UUID
		ProductID   *uuid.UUID
		SellerID    uuid.UUID
		Quantity    int64
		SupplyPrice decimal.Decimal
		SalePrice   decimal.Decimal
		OrderTime   time.Time
		Status      string
	}

	query := r.db.WithContext(ctx).
		Table("order_line_items AS li").
		Select("li.id AS line_item_id, li.order_id, li.product_id, li.seller_id, li.quantity, li.supply_price, li.sale_price, o.order_time, o.status").
		Joins("JOIN orders o ON o.id = li.order_id").
		Order("o.order_time ASC, li.created_at ASC")

	if !filter.Scope.IsTotal() {
		query = query.Where("li.seller_id = ?", filter.Scope.SellerID)
	}
	if filter.Since != nil {
		query = query.Where("o.order_time >= ?", *filter.Since)
	}
	if filter.MatchedOnly {
		query = query.Where("li.product_id IS NOT NULL")
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		query = query.Where("o.status IN ?", statuses)
	}

	var raw []row
	if err := query.Scan(&raw).Error; err != nil {
		return nil, err
	}

	lines := make([]ledger.StatLine, 0, len(raw))
	for _, rw := range raw {
		lines = append(lines, ledger.StatLine{
			LineItemID:  rw.LineItemID,
			OrderID:     rw.OrderID,
			ProductID:   rw.ProductID,
			SellerID:    rw.SellerID,
			Quantity:    rw.Quantity,
			SupplyPrice: rw.SupplyPrice,
			SalePrice:   rw.SalePrice,
			OrderTime:   rw.OrderTime,
			Status:      ledger.OrderStatus(rw.Status),
		})
	}
	return lines, nil
}

// ProductInfos resolves display names for the given products
func (r *GormOrderRepository) ProductInfos(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]ledger.ProductInfo, error) {
	infos := make(map[uuid.UUID]ledger.ProductInfo, len(productIDs))
	if len(productIDs) == 0 {
		return infos, nil
	}

	type row struct {
		ProductID  uuid.UUID
		Name       string
		SellerID   uuid.UUID
		SellerName string
	}
	var raw []row
	if err := r.db.WithContext(ctx).
		Table("products AS p").
		Select("p.id AS product_id, p.name, p.seller_id, s.name AS seller_name").
		Joins("JOIN sellers s ON s.id = p.seller_id").
		Where("p.id IN ?", productIDs).
		Scan(&raw).Error; err != nil {
		return nil, err
	}

	for _, rw := range raw {
		infos[rw.ProductID] = ledger.ProductInfo{
			ProductID:  rw.ProductID,
			Name:       rw.Name,
			SellerID:   rw.SellerID,
			SellerName: rw.SellerName,
		}
	}
	return infos, nil
}

// DailyAmounts sums counting sales per calendar day for the chart read path
func (r *GormOrderRepository) DailyAmounts(ctx context.Context, scope ledger.Scope, from, to time.Time) ([]ledger.DailyAmount, error) {
	type row struct {
		Date         time.Time
		Quantity     int64
		SupplyAmount decimal.Decimal
		SaleAmount   decimal.Decimal
	}

	statuses := make([]string, 0, 4)
	for _, s := range ledger.StatusesForStats() {
		statuses = append(statuses, string(s))
	}

	query := r.db.WithContext(ctx).
		Table("order_line_items AS li").
		Select("DATE(o.order_time) AS date, "+
			"COALESCE(SUM(li.quantity), 0) AS quantity, "+
			"COALESCE(SUM(li.quantity * li.supply_price), 0) AS supply_amount, "+
			"COALESCE(SUM(li.quantity * li.sale_price), 0) AS sale_amount").
		Joins("JOIN orders o ON o.id = li.order_id").
		Where("li.product_id IS NOT NULL").
		Where("o.status IN ?", statuses).
		Where("o.order_time >= ? AND o.order_time <= ?", from, to).
		Group("DATE(o.order_time)").
		Order("date ASC")

	if !scope.IsTotal() {
		query = query.Where("li.seller_id = ?", scope.SellerID)
	}

	var raw []row
	if err := query.Scan(&raw).Error; err != nil {
		return nil, err
	}

	amounts := make([]ledger.DailyAmount, 0, len(raw))
	for _, rw := range raw {
		amounts = append(amounts, ledger.DailyAmount{
			Date:         rw.Date,
			Quantity:     rw.Quantity,
			SupplyAmount: rw.SupplyAmount,
			SaleAmount:   rw.SaleAmount,
		})
	}
	return amounts, nil
}
