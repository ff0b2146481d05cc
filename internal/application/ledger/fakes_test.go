package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appshipment "github.com/paul-kim93/ablcrossborder/internal/application/shipment"
	appstats "github.com/paul-kim93/ablcrossborder/internal/application/stats"
	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shipment"
	"github.com/paul-kim93/ablcrossborder/internal/domain/stats"
)

// In-memory repositories wired into the full service graph, so the
// order tests observe the same reconciliation the handlers trigger.
// Entities are stored by value to mimic database round trips.

type memSellerRepo struct {
	sellers map[uuid.UUID]ledger.Seller
}

func newMemSellerRepo() *memSellerRepo {
	return &memSellerRepo{sellers: make(map[uuid.UUID]ledger.Seller)}
}

func (r *memSellerRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Seller, error) {
	s, ok := r.sellers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &s, nil
}

func (r *memSellerRepo) FindAll(_ context.Context) ([]ledger.Seller, error) {
	out := make([]ledger.Seller, 0, len(r.sellers))
	for _, s := range r.sellers {
		out = append(out, s)
	}
	return out, nil
}

func (r *memSellerRepo) Save(_ context.Context, seller *ledger.Seller) error {
	r.sellers[seller.ID] = *seller
	return nil
}

type memProductRepo struct {
	products map[uuid.UUID]ledger.Product
	mappings map[string]ledger.ProductCodeMapping
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{
		products: make(map[uuid.UUID]ledger.Product),
		mappings: make(map[string]ledger.ProductCodeMapping),
	}
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r *memProductRepo) FindByCode(_ context.Context, code string) (*ledger.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			found := p
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindBySeller(_ context.Context, sellerID uuid.UUID) ([]ledger.Product, error) {
	var out []ledger.Product
	for _, p := range r.products {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) Save(_ context.Context, product *ledger.Product) error {
	r.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) FindMapping(_ context.Context, mappedCode string) (*ledger.ProductCodeMapping, error) {
	m, ok := r.mappings[mappedCode]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &m, nil
}

func (r *memProductRepo) SaveMapping(_ context.Context, mapping *ledger.ProductCodeMapping) error {
	r.mappings[mapping.MappedCode] = *mapping
	return nil
}

type memOrderRepo struct {
	orders map[uuid.UUID]ledger.Order
	lines  map[uuid.UUID]ledger.OrderLineItem
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{
		orders: make(map[uuid.UUID]ledger.Order),
		lines:  make(map[uuid.UUID]ledger.OrderLineItem),
	}
}

func (r *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &o, nil
}

func (r *memOrderRepo) FindByOrderNo(_ context.Context, orderNo string) (*ledger.Order, error) {
	for _, o := range r.orders {
		if o.OrderNo == orderNo {
			found := o
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memOrderRepo) Save(_ context.Context, order *ledger.Order) error {
	r.orders[order.ID] = *order
	return nil
}

func (r *memOrderRepo) LineItemsByOrder(_ context.Context, orderID uuid.UUID) ([]ledger.OrderLineItem, error) {
	var out []ledger.OrderLineItem
	for _, l := range r.lines {
		if l.OrderID == orderID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memOrderRepo) FindLineItem(_ context.Context, id uuid.UUID) (*ledger.OrderLineItem, error) {
	l, ok := r.lines[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &l, nil
}

func (r *memOrderRepo) SaveLineItem(_ context.Context, item *ledger.OrderLineItem) error {
	r.lines[item.ID] = *item
	return nil
}

func (r *memOrderRepo) UnmatchedByCode(_ context.Context, productCode string) ([]ledger.OrderLineItem, error) {
	var out []ledger.OrderLineItem
	for _, l := range r.lines {
		if l.ProductID == nil && l.ProductCode == productCode {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memOrderRepo) StatLines(_ context.Context, filter ledger.StatLineFilter) ([]ledger.StatLine, error) {
	var out []ledger.StatLine
	for _, l := range r.lines {
		o, ok := r.orders[l.OrderID]
		if !ok {
			continue
		}
		if filter.MatchedOnly && l.ProductID == nil {
			continue
		}
		if !filter.Scope.IsTotal() && l.SellerID != filter.Scope.SellerID {
			continue
		}
		if filter.Since != nil && o.OrderTime.Before(*filter.Since) {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, s := range filter.Statuses {
				if o.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, ledger.StatLine{
			LineItemID:  l.ID,
			OrderID:     l.OrderID,
			ProductID:   l.ProductID,
			SellerID:    l.SellerID,
			Quantity:    l.Quantity,
			SupplyPrice: l.SupplyPrice,
			SalePrice:   l.SalePrice,
			OrderTime:   o.OrderTime,
			Status:      o.Status,
		})
	}
	return out, nil
}

func (r *memOrderRepo) ProductInfos(_ context.Context, productIDs []uuid.UUID) (map[uuid.UUID]ledger.ProductInfo, error) {
	out := make(map[uuid.UUID]ledger.ProductInfo)
	for _, id := range productIDs {
		out[id] = ledger.ProductInfo{ProductID: id, Name: "Product", SellerName: "Seller"}
	}
	return out, nil
}

func (r *memOrderRepo) DailyAmounts(_ context.Context, scope ledger.Scope, from, to time.Time) ([]ledger.DailyAmount, error) {
	byDay := make(map[time.Time]*ledger.DailyAmount)
	for _, l := range r.lines {
		o, ok := r.orders[l.OrderID]
		if !ok || l.ProductID == nil || !o.Status.CountsForStats() {
			continue
		}
		if !scope.IsTotal() && l.SellerID != scope.SellerID {
			continue
		}
		if o.OrderTime.Before(from) || o.OrderTime.After(to) {
			continue
		}
		day := stats.DateOf(o.OrderTime)
		d, ok := byDay[day]
		if !ok {
			d = &ledger.DailyAmount{Date: day}
			byDay[day] = d
		}
		d.Quantity += l.Quantity
		d.SupplyAmount = d.SupplyAmount.Add(l.SupplyPrice.Mul(decimal.NewFromInt(l.Quantity)))
		d.SaleAmount = d.SaleAmount.Add(l.SalePrice.Mul(decimal.NewFromInt(l.Quantity)))
	}
	out := make([]ledger.DailyAmount, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	return out, nil
}

type memSummaryRepo struct {
	rows map[string]stats.ScopeSummary
}

func newMemSummaryRepo() *memSummaryRepo {
	return &memSummaryRepo{rows: make(map[string]stats.ScopeSummary)}
}

func (r *memSummaryRepo) Find(_ context.Context, scope ledger.Scope) (*stats.ScopeSummary, error) {
	s, ok := r.rows[scope.String()]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &s, nil
}

func (r *memSummaryRepo) FindAll(_ context.Context) ([]stats.ScopeSummary, error) {
	out := make([]stats.ScopeSummary, 0, len(r.rows))
	for _, s := range r.rows {
		out = append(out, s)
	}
	return out, nil
}

func (r *memSummaryRepo) FindSellers(_ context.Context) ([]stats.ScopeSummary, error) {
	var out []stats.ScopeSummary
	for _, s := range r.rows {
		if !s.Scope.IsTotal() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSummaryRepo) Save(_ context.Context, s *stats.ScopeSummary) error {
	r.rows[s.Scope.String()] = *s
	return nil
}

type memRankingRepo struct {
	rows map[string][]stats.ProductRanking
}

func newMemRankingRepo() *memRankingRepo {
	return &memRankingRepo{rows: make(map[string][]stats.ProductRanking)}
}

func (r *memRankingRepo) Replace(_ context.Context, key stats.RankingKey, rows []stats.ProductRanking) error {
	r.rows[key.Scope.String()+"/"+key.Period.String()+"/"+key.Metric.String()] = append([]stats.ProductRanking(nil), rows...)
	return nil
}

func (r *memRankingRepo) Find(_ context.Context, key stats.RankingKey) ([]stats.ProductRanking, error) {
	return r.rows[key.Scope.String()+"/"+key.Period.String()+"/"+key.Metric.String()], nil
}

type memShipmentRepo struct {
	shipments map[uuid.UUID]shipment.Shipment
	history   []shipment.PriceHistoryEntry
}

func newMemShipmentRepo() *memShipmentRepo {
	return &memShipmentRepo{shipments: make(map[uuid.UUID]shipment.Shipment)}
}

func (r *memShipmentRepo) FindByID(_ context.Context, id uuid.UUID) (*shipment.Shipment, error) {
	s, ok := r.shipments[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &s, nil
}

func (r *memShipmentRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]shipment.Shipment, error) {
	var out []shipment.Shipment
	for _, s := range r.shipments {
		if s.ProductID == productID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ArrivalDate.Before(out[j].ArrivalDate) })
	return out, nil
}

func (r *memShipmentRepo) ActiveByProduct(ctx context.Context, productID uuid.UUID) ([]shipment.Shipment, error) {
	all, err := r.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	var out []shipment.Shipment
	for _, s := range all {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memShipmentRepo) Save(_ context.Context, s *shipment.Shipment) error {
	r.shipments[s.ID] = *s
	return nil
}

func (r *memShipmentRepo) PriceHistory(_ context.Context, shipmentID uuid.UUID) ([]shipment.PriceHistoryEntry, error) {
	var out []shipment.PriceHistoryEntry
	for _, e := range r.history {
		if e.ShipmentID == shipmentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memShipmentRepo) PriceHistoryByProduct(ctx context.Context, productID uuid.UUID) ([]shipment.PriceHistoryEntry, error) {
	batches, err := r.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	ids := make(map[uuid.UUID]struct{}, len(batches))
	for _, b := range batches {
		ids[b.ID] = struct{}{}
	}
	var out []shipment.PriceHistoryEntry
	for _, e := range r.history {
		if _, ok := ids[e.ShipmentID]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memShipmentRepo) AppendPriceHistory(_ context.Context, entry *shipment.PriceHistoryEntry) error {
	r.history = append(r.history, *entry)
	return nil
}

func (r *memShipmentRepo) Adjustments(_ context.Context, _ uuid.UUID) ([]shipment.StockAdjustment, error) {
	return nil, nil
}

func (r *memShipmentRepo) AppendAdjustment(_ context.Context, _ *shipment.StockAdjustment) error {
	return nil
}

// testEnv wires the fakes into the real service graph
type testEnv struct {
	sellers   *memSellerRepo
	products  *memProductRepo
	orders    *memOrderRepo
	summaries *memSummaryRepo
	rankings  *memRankingRepo
	shipments *memShipmentRepo

	shipmentService *appshipment.ShipmentService
	reconciler      *appstats.Reconciler
	orderService    *OrderService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		sellers:   newMemSellerRepo(),
		products:  newMemProductRepo(),
		orders:    newMemOrderRepo(),
		summaries: newMemSummaryRepo(),
		rankings:  newMemRankingRepo(),
		shipments: newMemShipmentRepo(),
	}
	txScope := appstats.NewNoOpTransactionScope(
		env.sellers, env.products, env.orders, env.shipments, env.summaries, env.rankings,
	)
	log := zap.NewNop()
	env.shipmentService = appshipment.NewShipmentService(env.shipments, env.products, log)
	env.reconciler = appstats.NewReconciler(
		txScope,
		appstats.NewAggregationService(txScope, log),
		appstats.NewRankingService(txScope, log),
		log,
	)
	env.orderService = NewOrderService(txScope, env.reconciler, env.shipmentService, log)
	return env
}

var (
	_ ledger.SellerRepository  = (*memSellerRepo)(nil)
	_ ledger.ProductRepository = (*memProductRepo)(nil)
	_ ledger.OrderRepository   = (*memOrderRepo)(nil)
	_ stats.SummaryRepository  = (*memSummaryRepo)(nil)
	_ stats.RankingRepository  = (*memRankingRepo)(nil)
	_ shipment.Repository      = (*memShipmentRepo)(nil)
)
