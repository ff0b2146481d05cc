package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
	"github.com/paul-kim93/ablcrossborder/internal/domain/stats"
	"github.com/paul-kim93/ablcrossborder/internal/infrastructure/persistence/models"
)

// GormSummaryRepository implements stats.SummaryRepository using GORM
type GormSummaryRepository struct {
	db *gorm.DB
}

// NewGormSummaryRepository creates a new GormSummaryRepository
func NewGormSummaryRepository(db *gorm.DB) *GormSummaryRepository {
	return &GormSummaryRepository{db: db}
}

func scopeQuery(db *gorm.DB, scope ledger.Scope) *gorm.DB {
	if scope.IsTotal() {
		return db.Where("scope_type = ?", string(ledger.ScopeTypeTotal))
	}
	return db.Where("scope_type = ? AND seller_id = ?", string(ledger.ScopeTypeSeller), scope.SellerID)
}

// Find returns the summary row of one scope
func (r *GormSummaryRepository) Find(ctx context.Context, scope ledger.Scope) (*stats.ScopeSummary, error) {
	var model models.ScopeSummaryModel
	if err := scopeQuery(r.db.WithContext(ctx), scope).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every summary row, the total scope included
func (r *GormSummaryRepository) FindAll(ctx context.Context) ([]stats.ScopeSummary, error) {
	var rows []models.ScopeSummaryModel
	if err := r.db.WithContext(ctx).
		Order("scope_type ASC, seller_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toSummaries(rows), nil
}

// FindSellers returns every per-seller summary row
func (r *GormSummaryRepository) FindSellers(ctx context.Context) ([]stats.ScopeSummary, error) {
	var rows []models.ScopeSummaryModel
	if err := r.db.WithContext(ctx).
		Where("scope_type = ?", string(ledger.ScopeTypeSeller)).
		Order("seller_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toSummaries(rows), nil
}

// Save persists a summary row (insert or update)
func (r *GormSummaryRepository) Save(ctx context.Context, s *stats.ScopeSummary) error {
	model := models.ScopeSummaryModelFromDomain(s)
	return r.db.WithContext(ctx).Save(model).Error
}

func toSummaries(rows []models.ScopeSummaryModel) []stats.ScopeSummary {
	summaries := make([]stats.ScopeSummary, len(rows))
	for i := range rows {
		summaries[i] = *rows[i].ToDomain()
	}
	return summaries
}

// GormRankingRepository implements stats.RankingRepository using GORM
type GormRankingRepository struct {
	db *gorm.DB
}

// NewGormRankingRepository creates a new GormRankingRepository
func NewGormRankingRepository(db *gorm.DB) *GormRankingRepository {
	return &GormRankingRepository{db: db}
}

func rankingKeyQuery(db *gorm.DB, key stats.RankingKey) *gorm.DB {
	db = scopeQuery(db, key.Scope)
	return db.Where("period = ? AND metric = ?", string(key.Period), string(key.Metric))
}

// Replace swaps the ranking list of one key atomically
func (r *GormRankingRepository) Replace(ctx context.Context, key stats.RankingKey, rows []stats.ProductRanking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := rankingKeyQuery(tx, key).Delete(&models.ProductRankingModel{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		batch := make([]models.ProductRankingModel, len(rows))
		for i := range rows {
			batch[i].FromDomain(&rows[i])
		}
		return tx.Create(&batch).Error
	})
}

// Find returns the ranking list of one key in rank order
func (r *GormRankingRepository) Find(ctx context.Context, key stats.RankingKey) ([]stats.ProductRanking, error) {
	var rows []models.ProductRankingModel
	if err := rankingKeyQuery(r.db.WithContext(ctx), key).
		Order("rank ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	rankings := make([]stats.ProductRanking, len(rows))
	for i := range rows {
		rankings[i] = rows[i].ToDomain()
	}
	return rankings, nil
}
