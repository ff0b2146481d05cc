package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
)

// MockSellerRepository is a mock implementation of ledger.SellerRepository
type MockSellerRepository struct {
	mock.Mock
}

func (m *MockSellerRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Seller, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Seller), args.Error(1)
}

func (m *MockSellerRepository) FindAll(ctx context.Context) ([]ledger.Seller, error) {
	args := m.Called(ctx)
	return args.Get(0).([]ledger.Seller), args.Error(1)
}

func (m *MockSellerRepository) Save(ctx context.Context, seller *ledger.Seller) error {
	args := m.Called(ctx, seller)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of ledger.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*ledger.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]ledger.Product, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).([]ledger.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *ledger.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindMapping(ctx context.Context, mappedCode string) (*ledger.ProductCodeMapping, error) {
	args := m.Called(ctx, mappedCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.ProductCodeMapping), args.Error(1)
}

func (m *MockProductRepository) SaveMapping(ctx context.Context, mapping *ledger.ProductCodeMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func TestCreateSeller(t *testing.T) {
	ctx := context.Background()

	t.Run("saves a valid seller", func(t *testing.T) {
		sellerRepo := new(MockSellerRepository)
		sellerRepo.On("Save", ctx, mock.AnythingOfType("*ledger.Seller")).Return(nil)
		svc := NewCatalogService(sellerRepo, new(MockProductRepository), zap.NewNop())

		seller, err := svc.CreateSeller(ctx, "Seller A", "a@example.com")

		require.NoError(t, err)
		assert.Equal(t, "Seller A", seller.Name)
		assert.NotEqual(t, uuid.Nil, seller.ID)
		sellerRepo.AssertExpectations(t)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		sellerRepo := new(MockSellerRepository)
		svc := NewCatalogService(sellerRepo, new(MockProductRepository), zap.NewNop())

		_, err := svc.CreateSeller(ctx, "", "a@example.com")

		assert.Error(t, err)
		sellerRepo.AssertNotCalled(t, "Save")
	})
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()
	seller := &ledger.Seller{Name: "Seller A"}

	t.Run("saves a product under an existing seller", func(t *testing.T) {
		sellerRepo := new(MockSellerRepository)
		sellerRepo.On("FindByID", ctx, sellerID).Return(seller, nil)
		productRepo := new(MockProductRepository)
		productRepo.On("Save", ctx, mock.AnythingOfType("*ledger.Product")).Return(nil)
		svc := NewCatalogService(sellerRepo, productRepo, zap.NewNop())

		product, err := svc.CreateProduct(ctx, sellerID, "Widget", "W-1", decimal.NewFromInt(5), decimal.NewFromInt(9))

		require.NoError(t, err)
		assert.Equal(t, sellerID, product.SellerID)
		assert.Equal(t, "W-1", product.Code)
		assert.True(t, product.Active)
		productRepo.AssertExpectations(t)
	})

	t.Run("rejects an unknown seller", func(t *testing.T) {
		sellerRepo := new(MockSellerRepository)
		sellerRepo.On("FindByID", ctx, sellerID).Return(nil, shared.ErrNotFound)
		productRepo := new(MockProductRepository)
		svc := NewCatalogService(sellerRepo, productRepo, zap.NewNop())

		_, err := svc.CreateProduct(ctx, sellerID, "Widget", "W-1", decimal.NewFromInt(5), decimal.NewFromInt(9))

		assert.True(t, shared.IsNotFound(err))
		productRepo.AssertNotCalled(t, "Save")
	})

	t.Run("rejects negative prices", func(t *testing.T) {
		sellerRepo := new(MockSellerRepository)
		sellerRepo.On("FindByID", ctx, sellerID).Return(seller, nil)
		productRepo := new(MockProductRepository)
		svc := NewCatalogService(sellerRepo, productRepo, zap.NewNop())

		_, err := svc.CreateProduct(ctx, sellerID, "Widget", "W-1", decimal.NewFromInt(-1), decimal.NewFromInt(9))

		assert.ErrorIs(t, err, shared.ErrInvalidPrice)
		productRepo.AssertNotCalled(t, "Save")
	})
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()

	productRepo := new(MockProductRepository)
	productRepo.On("FindBySeller", ctx, sellerID).Return([]ledger.Product{
		{Name: "Widget", Code: "W-1"},
		{Name: "Gadget", Code: "G-1"},
	}, nil)
	svc := NewCatalogService(new(MockSellerRepository), productRepo, zap.NewNop())

	products, err := svc.ListProducts(ctx, sellerID)

	require.NoError(t, err)
	assert.Len(t, products, 2)
	productRepo.AssertExpectations(t)
}
