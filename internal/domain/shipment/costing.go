package shipment

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
)

// The FIFO costing engine is a pure projection over the shipment ledger:
// it selects and prices batch slices but never mutates remaining
// quantities. Committing a consumption is a separate, explicit step.

// ConsumedSlice is the portion of one batch used to cover a request
type ConsumedSlice struct {
	ShipmentID   uuid.UUID
	ShipmentNo   string
	Quantity     int64
	SupplyPrice  decimal.Decimal // unit price in force on the costing date
	SalePrice    decimal.Decimal
	SupplyAmount decimal.Decimal
	SaleAmount   decimal.Decimal
}

// ConsumptionResult is the complete FIFO costing breakdown
type ConsumptionResult struct {
	Slices            []ConsumedSlice
	ConsumedQuantity  int64
	RequestedQuantity int64
	TotalSupplyAmount decimal.Decimal
	TotalSaleAmount   decimal.Decimal
	AvgSupplyPrice    decimal.Decimal
	AvgSalePrice      decimal.Decimal
}

// FullyFulfilled reports whether the whole requested quantity was covered.
// A shortfall is not an engine error; callers that need full coverage
// must check this.
func (r ConsumptionResult) FullyFulfilled() bool {
	return r.ConsumedQuantity == r.RequestedQuantity
}

// Shortfall returns the uncovered quantity
func (r ConsumptionResult) Shortfall() int64 {
	return r.RequestedQuantity - r.ConsumedQuantity
}

// PriceAt returns the shipment price pair in force on the given date:
// the latest history entry with effective_date <= date, falling back to
// the shipment's stored current pair when no entry qualifies.
func PriceAt(history []PriceHistoryEntry, s *Shipment, date time.Time) (supply, sale decimal.Decimal) {
	day := DateOf(date)
	var best *PriceHistoryEntry
	for i := range history {
		if history[i].ShipmentID != s.ID {
			continue
		}
		eff := DateOf(history[i].EffectiveDate)
		if eff.After(day) {
			continue
		}
		if best == nil || eff.After(DateOf(best.EffectiveDate)) {
			best = &history[i]
		}
	}
	if best != nil {
		return best.SupplyPrice, best.SalePrice
	}
	return s.SupplyPrice, s.SalePrice
}

// CurrentPrice returns the stored price pair of the oldest active batch
// with remaining stock - the batch currently selling. Zero prices mean
// the product is out of stock.
func CurrentPrice(shipments []Shipment) (supply, sale decimal.Decimal) {
	for _, s := range sortFIFO(shipments) {
		if s.HasStock() {
			return s.SupplyPrice, s.SalePrice
		}
	}
	return decimal.Zero, decimal.Zero
}

// TotalStock returns the summed remaining quantity over active batches
func TotalStock(shipments []Shipment) int64 {
	var total int64
	for _, s := range shipments {
		if s.Active {
			total += s.RemainingQuantity
		}
	}
	return total
}

// Consume walks active batches in arrival order, taking from each until
// the requested quantity is covered or stock runs out. Each slice is
// priced as of the costing date via PriceAt. Partial fulfillment is
// reported through the result, not as an error.
func Consume(shipments []Shipment, history []PriceHistoryEntry, quantity int64, date time.Time) (*ConsumptionResult, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	result := &ConsumptionResult{
		Slices:            make([]ConsumedSlice, 0),
		RequestedQuantity: quantity,
		TotalSupplyAmount: decimal.Zero,
		TotalSaleAmount:   decimal.Zero,
		AvgSupplyPrice:    decimal.Zero,
		AvgSalePrice:      decimal.Zero,
	}

	remaining := quantity
	for _, s := range sortFIFO(shipments) {
		if remaining == 0 {
			break
		}
		if !s.HasStock() {
			continue
		}

		take := remaining
		if s.RemainingQuantity < take {
			take = s.RemainingQuantity
		}

		supply, sale := PriceAt(history, &s, date)
		takeDec := decimal.NewFromInt(take)
		slice := ConsumedSlice{
			ShipmentID:   s.ID,
			ShipmentNo:   s.ShipmentNo,
			Quantity:     take,
			SupplyPrice:  supply,
			SalePrice:    sale,
			SupplyAmount: supply.Mul(takeDec),
			SaleAmount:   sale.Mul(takeDec),
		}
		result.Slices = append(result.Slices, slice)
		result.ConsumedQuantity += take
		result.TotalSupplyAmount = result.TotalSupplyAmount.Add(slice.SupplyAmount)
		result.TotalSaleAmount = result.TotalSaleAmount.Add(slice.SaleAmount)
		remaining -= take
	}

	if result.ConsumedQuantity > 0 {
		consumed := decimal.NewFromInt(result.ConsumedQuantity)
		result.AvgSupplyPrice = result.TotalSupplyAmount.Div(consumed).Round(4)
		result.AvgSalePrice = result.TotalSaleAmount.Div(consumed).Round(4)
	}

	return result, nil
}

// CommitConsumption applies a costing result to the actual batches,
// decrementing remaining quantities. Used when an order is confirmed
// rather than merely quoted.
func CommitConsumption(shipments []*Shipment, result *ConsumptionResult) error {
	if result == nil {
		return shared.NewDomainError("INVALID_RESULT", "Consumption result cannot be nil")
	}

	byID := make(map[uuid.UUID]*Shipment, len(shipments))
	for _, s := range shipments {
		byID[s.ID] = s
	}

	for _, slice := range result.Slices {
		s, ok := byID[slice.ShipmentID]
		if !ok {
			return shared.NewDomainError("SHIPMENT_NOT_FOUND", "Shipment not found: "+slice.ShipmentID.String())
		}
		if err := s.CommitConsumption(slice.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// sortFIFO orders batches by arrival date ascending, falling back to
// creation time for same-day arrivals.
func sortFIFO(shipments []Shipment) []Shipment {
	sorted := make([]Shipment, len(shipments))
	copy(sorted, shipments)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].ArrivalDate.Equal(sorted[j].ArrivalDate) {
			return sorted[i].ArrivalDate.Before(sorted[j].ArrivalDate)
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// DateOf truncates a timestamp to its calendar day
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
