package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
)

// WindowTotals holds the accumulated figures of one window.
type WindowTotals struct {
	Quantity     int64           `json:"quantity"`
	SupplyAmount decimal.Decimal `json:"supply_amount"`
	SaleAmount   decimal.Decimal `json:"sale_amount"`
}

func ZeroTotals() WindowTotals {
	return WindowTotals{
		SupplyAmount: decimal.Zero,
		SaleAmount:   decimal.Zero,
	}
}

func (t *WindowTotals) Add(quantity int64, supplyAmount, saleAmount decimal.Decimal) {
	t.Quantity += quantity
	t.SupplyAmount = t.SupplyAmount.Add(supplyAmount)
	t.SaleAmount = t.SaleAmount.Add(saleAmount)
}

func (t *WindowTotals) Sub(quantity int64, supplyAmount, saleAmount decimal.Decimal) {
	t.Quantity -= quantity
	t.SupplyAmount = t.SupplyAmount.Sub(supplyAmount)
	t.SaleAmount = t.SaleAmount.Sub(saleAmount)
}

func (t WindowTotals) IsZero() bool {
	return t.Quantity == 0 && t.SupplyAmount.IsZero() && t.SaleAmount.IsZero()
}

// ScopeSummary is the persistent summary row of one scope. It carries
// the four rolling windows and the timestamp of the last update, which
// drives lazy rollover.
type ScopeSummary struct {
	shared.BaseEntity
	Scope       ledger.Scope `json:"scope"`
	Cumulative  WindowTotals `json:"cumulative"`
	Month       WindowTotals `json:"month"`
	Week        WindowTotals `json:"week"`
	Yesterday   WindowTotals `json:"yesterday"`
	LastUpdated time.Time    `json:"last_updated"`
}

func NewScopeSummary(scope ledger.Scope, now time.Time) *ScopeSummary {
	return &ScopeSummary{
		BaseEntity:  shared.NewBaseEntity(),
		Scope:       scope,
		Cumulative:  ZeroTotals(),
		Month:       ZeroTotals(),
		Week:        ZeroTotals(),
		Yesterday:   ZeroTotals(),
		LastUpdated: now,
	}
}

// RollOver expires windows the summary has outlived. A summary last
// touched in a previous month loses its month figures, a previous week
// its week figures, and any day change clears the yesterday figures,
// which described the day before the last update.
func (s *ScopeSummary) RollOver(now time.Time) {
	if !SameMonth(s.LastUpdated, now) {
		s.Month = ZeroTotals()
	}
	if !SameWeek(s.LastUpdated, now) {
		s.Week = ZeroTotals()
	}
	if !SameDay(s.LastUpdated, now) {
		s.Yesterday = ZeroTotals()
	}
	s.LastUpdated = now
}

// Apply folds a line amount into every window the order time belongs to
// as of now. Negative quantities reverse a previous application.
func (s *ScopeSummary) Apply(orderTime, now time.Time, quantity int64, supplyAmount, saleAmount decimal.Decimal) {
	s.Cumulative.Add(quantity, supplyAmount, saleAmount)
	if InWindow(WindowMonth, orderTime, now) {
		s.Month.Add(quantity, supplyAmount, saleAmount)
	}
	if InWindow(WindowWeek, orderTime, now) {
		s.Week.Add(quantity, supplyAmount, saleAmount)
	}
	if InWindow(WindowYesterday, orderTime, now) {
		s.Yesterday.Add(quantity, supplyAmount, saleAmount)
	}
	s.LastUpdated = now
	s.Touch()
}

// Reset zeroes every window ahead of a full recompute.
func (s *ScopeSummary) Reset(now time.Time) {
	s.Cumulative = ZeroTotals()
	s.Month = ZeroTotals()
	s.Week = ZeroTotals()
	s.Yesterday = ZeroTotals()
	s.LastUpdated = now
	s.Touch()
}

// Totals returns the figures of the requested window.
func (s *ScopeSummary) Totals(w Window) WindowTotals {
	switch w {
	case WindowCumulative:
		return s.Cumulative
	case WindowMonth:
		return s.Month
	case WindowWeek:
		return s.Week
	case WindowYesterday:
		return s.Yesterday
	}
	return ZeroTotals()
}
