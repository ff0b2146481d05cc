package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
)

// CatalogService manages sellers and products.
type CatalogService struct {
	sellerRepo  ledger.SellerRepository
	productRepo ledger.ProductRepository
	logger      *zap.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(sellerRepo ledger.SellerRepository, productRepo ledger.ProductRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		sellerRepo:  sellerRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// CreateSeller registers a new seller.
func (s *CatalogService) CreateSeller(ctx context.Context, name, contact string) (*ledger.Seller, error) {
	seller, err := ledger.NewSeller(name, contact)
	if err != nil {
		return nil, err
	}
	if err := s.sellerRepo.Save(ctx, seller); err != nil {
		return nil, err
	}
	s.logger.Info("Seller created", zap.String("seller_id", seller.ID.String()), zap.String("name", name))
	return seller, nil
}

// ListSellers returns every registered seller.
func (s *CatalogService) ListSellers(ctx context.Context) ([]ledger.Seller, error) {
	return s.sellerRepo.FindAll(ctx)
}

// GetSeller returns one seller by id.
func (s *CatalogService) GetSeller(ctx context.Context, id uuid.UUID) (*ledger.Seller, error) {
	return s.sellerRepo.FindByID(ctx, id)
}

// CreateProduct registers a product under a seller. The price pair is
// the initial one; later shipments overwrite it with the oldest stocked
// batch's prices.
func (s *CatalogService) CreateProduct(ctx context.Context, sellerID uuid.UUID, name, code string, supplyPrice, salePrice decimal.Decimal) (*ledger.Product, error) {
	if _, err := s.sellerRepo.FindByID(ctx, sellerID); err != nil {
		return nil, err
	}
	product, err := ledger.NewProduct(sellerID, name, code, supplyPrice, salePrice)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("seller_id", sellerID.String()),
		zap.String("code", code),
	)
	return product, nil
}

// ListProducts returns every product of a seller.
func (s *CatalogService) ListProducts(ctx context.Context, sellerID uuid.UUID) ([]ledger.Product, error) {
	return s.productRepo.FindBySeller(ctx, sellerID)
}

// GetProduct returns one product by id.
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*ledger.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}
