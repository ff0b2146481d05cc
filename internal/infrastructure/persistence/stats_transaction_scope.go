package persistence

import (
	"context"

	"gorm.io/gorm"

	appstats "github.com/paul-kim93/ablcrossborder/internal/application/stats"
	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shipment"
	"github.com/paul-kim93/ablcrossborder/internal/domain/stats"
)

// GormTransactionScope implements appstats.TransactionScope using GORM
// transactions. Every repository handed to the callback is bound to the
// same *gorm.DB transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appstats.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) SellerRepo() ledger.SellerRepository {
	return NewGormSellerRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProductRepo() ledger.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) OrderRepo() ledger.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) ShipmentRepo() shipment.Repository {
	return NewGormShipmentRepository(r.tx)
}

func (r *gormTransactionalRepositories) SummaryRepo() stats.SummaryRepository {
	return NewGormSummaryRepository(r.tx)
}

func (r *gormTransactionalRepositories) RankingRepo() stats.RankingRepository {
	return NewGormRankingRepository(r.tx)
}

var _ appstats.TransactionScope = (*GormTransactionScope)(nil)
var _ appstats.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
