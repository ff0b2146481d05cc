package stats

import (
	"context"

	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shipment"
	"github.com/paul-kim93/ablcrossborder/internal/domain/stats"
)

// TransactionScope provides transactional access to the repositories the
// statistics services touch. When a function is executed within a
// transaction scope, all repository operations are part of the same
// database transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a
// transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	SellerRepo() ledger.SellerRepository
	ProductRepo() ledger.ProductRepository
	OrderRepo() ledger.OrderRepository
	ShipmentRepo() shipment.Repository
	SummaryRepo() stats.SummaryRepository
	RankingRepo() stats.RankingRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	sellerRepo   ledger.SellerRepository
	productRepo  ledger.ProductRepository
	orderRepo    ledger.OrderRepository
	shipmentRepo shipment.Repository
	summaryRepo  stats.SummaryRepository
	rankingRepo  stats.RankingRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	sellerRepo ledger.SellerRepository,
	productRepo ledger.ProductRepository,
	orderRepo ledger.OrderRepository,
	shipmentRepo shipment.Repository,
	summaryRepo stats.SummaryRepository,
	rankingRepo stats.RankingRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		sellerRepo:   sellerRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		shipmentRepo: shipmentRepo,
		summaryRepo:  summaryRepo,
		rankingRepo:  rankingRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) SellerRepo() ledger.SellerRepository   { return s.sellerRepo }
func (s *NoOpTransactionScope) ProductRepo() ledger.ProductRepository { return s.productRepo }
func (s *NoOpTransactionScope) OrderRepo() ledger.OrderRepository     { return s.orderRepo }
func (s *NoOpTransactionScope) ShipmentRepo() shipment.Repository     { return s.shipmentRepo }
func (s *NoOpTransactionScope) SummaryRepo() stats.SummaryRepository  { return s.summaryRepo }
func (s *NoOpTransactionScope) RankingRepo() stats.RankingRepository  { return s.rankingRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
