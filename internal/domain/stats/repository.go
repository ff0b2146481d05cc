package stats

import (
	"context"

	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
)

// SummaryRepository persists the per-scope summary rows.
type SummaryRepository interface {
	// Find returns the summary of the scope, or shared.ErrNotFound.
	Find(ctx context.Context, scope ledger.Scope) (*ScopeSummary, error)
	// FindAll returns every summary, the total scope included.
	FindAll(ctx context.Context) ([]ScopeSummary, error)
	// FindSellers returns every per-seller summary.
	FindSellers(ctx context.Context) ([]ScopeSummary, error)
	Save(ctx context.Context, s *ScopeSummary) error
}

// RankingRepository persists the precomputed top lists.
type RankingRepository interface {
	// Replace swaps the list of one key for the given rows.
	Replace(ctx context.Context, key RankingKey, rows []ProductRanking) error
	Find(ctx context.Context, key RankingKey) ([]ProductRanking, error)
}
