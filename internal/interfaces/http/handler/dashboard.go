package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	statsapp "github.com/paul-kim93/ablcrossborder/internal/application/stats"
	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
	"github.com/paul-kim93/ablcrossborder/internal/domain/stats"
)

// DashboardHandler handles the precomputed statistics read endpoints
// plus the refresh and consistency maintenance operations.
type DashboardHandler struct {
	BaseHandler
	dashboardService *statsapp.DashboardService
	rankingService   *statsapp.RankingService
	reconciler       *statsapp.Reconciler
	defaultChartDays int
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(
	dashboardService *statsapp.DashboardService,
	rankingService *statsapp.RankingService,
	reconciler *statsapp.Reconciler,
	defaultChartDays int,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		rankingService:   rankingService,
		reconciler:       reconciler,
		defaultChartDays: defaultChartDays,
	}
}

// WindowTotalsResponse is one rolling window of a summary
type WindowTotalsResponse struct {
	Quantity     int64           `json:"quantity"`
	SupplyAmount decimal.Decimal `json:"supply_amount"`
	SaleAmount   decimal.Decimal `json:"sale_amount"`
}

// SummaryResponse represents a scope summary in API responses
type SummaryResponse struct {
	Scope       string               `json:"scope"`
	SellerID    string               `json:"seller_id,omitempty"`
	Cumulative  WindowTotalsResponse `json:"cumulative"`
	Month       WindowTotalsResponse `json:"month"`
	Week        WindowTotalsResponse `json:"week"`
	Yesterday   WindowTotalsResponse `json:"yesterday"`
	LastUpdated string               `json:"last_updated"`
}

func toWindowTotalsResponse(t stats.WindowTotals) WindowTotalsResponse {
	return WindowTotalsResponse{
		Quantity:     t.Quantity,
		SupplyAmount: t.SupplyAmount,
		SaleAmount:   t.SaleAmount,
	}
}

func toSummaryResponse(s *stats.ScopeSummary) SummaryResponse {
	resp := SummaryResponse{
		Scope:       string(s.Scope.Type),
		Cumulative:  toWindowTotalsResponse(s.Cumulative),
		Month:       toWindowTotalsResponse(s.Month),
		Week:        toWindowTotalsResponse(s.Week),
		Yesterday:   toWindowTotalsResponse(s.Yesterday),
		LastUpdated: s.LastUpdated.Format(timeFormat),
	}
	if !s.Scope.IsTotal() {
		resp.SellerID = s.Scope.SellerID.String()
	}
	return resp
}

// GetSummary handles GET /dashboard/summary. Without a seller_id query
// parameter it returns the total scope across all sellers.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	scope, err := scopeFromQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid seller_id")
		return
	}

	summary, err := h.dashboardService.GetSummary(c.Request.Context(), scope)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSummaryResponse(summary))
}

// GetSellerSummaries handles GET /dashboard/sellers
func (h *DashboardHandler) GetSellerSummaries(c *gin.Context) {
	summaries, err := h.dashboardService.GetSellerSummaries(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]SummaryResponse, len(summaries))
	for i := range summaries {
		out[i] = toSummaryResponse(&summaries[i])
	}
	h.Success(c, out)
}

// RankingRowResponse is one row of a top products list
type RankingRowResponse struct {
	Rank        int             `json:"rank"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	SellerID    string          `json:"seller_id"`
	SellerName  string          `json:"seller_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// GetRankings handles GET /dashboard/rankings. The period defaults to
// cumulative and the metric to revenue.
func (h *DashboardHandler) GetRankings(c *gin.Context) {
	scope, err := scopeFromQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid seller_id")
		return
	}

	period := stats.Period(c.DefaultQuery("period", string(stats.PeriodCumulative)))
	metric := stats.Metric(c.DefaultQuery("metric", string(stats.MetricRevenue)))

	rows, err := h.rankingService.Find(c.Request.Context(), stats.RankingKey{
		Scope:  scope,
		Period: period,
		Metric: metric,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]RankingRowResponse, len(rows))
	for i, r := range rows {
		out[i] = RankingRowResponse{
			Rank:        r.Rank,
			ProductID:   r.ProductID.String(),
			ProductName: r.ProductName,
			SellerID:    r.SellerID.String(),
			SellerName:  r.SellerName,
			Quantity:    r.Quantity,
			Revenue:     r.Revenue,
		}
	}
	h.Success(c, out)
}

// DailyAmountResponse is one day of the sales chart
type DailyAmountResponse struct {
	Date         string          `json:"date"`
	Quantity     int64           `json:"quantity"`
	SupplyAmount decimal.Decimal `json:"supply_amount"`
	SaleAmount   decimal.Decimal `json:"sale_amount"`
}

// GetDailyChart handles GET /dashboard/chart. The window is selected
// by days (recent days, the default), month (a calendar month as
// YYYY-MM) or from/to (an inclusive date range).
func (h *DashboardHandler) GetDailyChart(c *gin.Context) {
	scope, err := scopeFromQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid seller_id")
		return
	}

	amounts, err := h.chartForQuery(c, scope)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]DailyAmountResponse, len(amounts))
	for i, a := range amounts {
		out[i] = DailyAmountResponse{
			Date:         a.Date.Format("2006-01-02"),
			Quantity:     a.Quantity,
			SupplyAmount: a.SupplyAmount,
			SaleAmount:   a.SaleAmount,
		}
	}
	h.Success(c, out)
}

func (h *DashboardHandler) chartForQuery(c *gin.Context, scope ledger.Scope) ([]ledger.DailyAmount, error) {
	ctx := c.Request.Context()

	if raw := c.Query("month"); raw != "" {
		month, err := time.Parse("2006-01", raw)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		return h.dashboardService.MonthlyChart(ctx, scope, month.Year(), month.Month())
	}

	if rawFrom, rawTo := c.Query("from"), c.Query("to"); rawFrom != "" || rawTo != "" {
		from, err := time.Parse("2006-01-02", rawFrom)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		to, err := time.Parse("2006-01-02", rawTo)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		return h.dashboardService.RangeChart(ctx, scope, from, to)
	}

	days := h.defaultChartDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		days = parsed
	}
	return h.dashboardService.DailyChart(ctx, scope, days)
}

// RefreshRequest is the request body for a statistics refresh
type RefreshRequest struct {
	Days int `json:"days"`
}

// Refresh handles POST /dashboard/refresh. Every refresh rebuilds the
// summaries and rankings from the order ledger regardless of days.
func (h *DashboardHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.reconciler.RefreshAll(c.Request.Context(), req.Days); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"refreshed": true})
}

// VerifyConsistency handles POST /dashboard/consistency-check
func (h *DashboardHandler) VerifyConsistency(c *gin.Context) {
	if err := h.reconciler.VerifyConsistency(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"consistent": true})
}
