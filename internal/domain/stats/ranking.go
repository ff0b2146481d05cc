package stats

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
)

// RankingSize is how many products each ranking list keeps.
const RankingSize = 5

// Period selects the time range a ranking list covers.
type Period string

const (
	PeriodCumulative Period = "cumulative"
	PeriodYear       Period = "year"
	PeriodMonth      Period = "month"
	PeriodWeek       Period = "week"
)

func (p Period) IsValid() bool {
	switch p {
	case PeriodCumulative, PeriodYear, PeriodMonth, PeriodWeek:
		return true
	}
	return false
}

func (p Period) String() string {
	return string(p)
}

// Since returns the inclusive lower bound of the period as of now, or
// nil for the cumulative period.
func (p Period) Since(now time.Time) *time.Time {
	var t time.Time
	switch p {
	case PeriodYear:
		t = YearStart(now)
	case PeriodMonth:
		t = MonthStart(now)
	case PeriodWeek:
		t = WeekStart(now)
	default:
		return nil
	}
	return &t
}

func AllPeriods() []Period {
	return []Period{PeriodCumulative, PeriodYear, PeriodMonth, PeriodWeek}
}

// Metric selects what a ranking list is ordered by.
type Metric string

const (
	MetricRevenue  Metric = "revenue"
	MetricQuantity Metric = "quantity"
)

func (m Metric) IsValid() bool {
	return m == MetricRevenue || m == MetricQuantity
}

func (m Metric) String() string {
	return string(m)
}

func AllMetrics() []Metric {
	return []Metric{MetricRevenue, MetricQuantity}
}

// ProductRanking is one row of a precomputed top list. Product and
// seller names are denormalized so reads need no joins.
type ProductRanking struct {
	shared.BaseEntity
	Scope       ledger.Scope    `json:"scope"`
	Period      Period          `json:"period"`
	Metric      Metric          `json:"metric"`
	Rank        int             `json:"rank"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SellerID    uuid.UUID       `json:"seller_id"`
	SellerName  string          `json:"seller_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
	ComputedAt  time.Time       `json:"computed_at"`
}

// RankingKey identifies one top list.
type RankingKey struct {
	Scope  ledger.Scope
	Period Period
	Metric Metric
}
