package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	shipmentapp "github.com/paul-kim93/ablcrossborder/internal/application/shipment"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shipment"
	"github.com/paul-kim93/ablcrossborder/internal/interfaces/http/dto"
)

// ShipmentHandler handles shipment batch and costing endpoints
type ShipmentHandler struct {
	BaseHandler
	shipmentService *shipmentapp.ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler
func NewShipmentHandler(shipmentService *shipmentapp.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{shipmentService: shipmentService}
}

// CreateShipmentRequest is the request body for registering a batch
type CreateShipmentRequest struct {
	ProductID   string  `json:"product_id" binding:"required,uuid"`
	ShipmentNo  string  `json:"shipment_no" binding:"required,min=1,max=100"`
	ArrivalDate string  `json:"arrival_date" binding:"required"`
	Quantity    int64   `json:"quantity" binding:"required,gt=0"`
	SupplyPrice float64 `json:"supply_price" binding:"gt=0"`
	SalePrice   float64 `json:"sale_price" binding:"gt=0"`
}

// ShipmentResponse represents a shipment batch in API responses
type ShipmentResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	ShipmentNo        string          `json:"shipment_no"`
	ArrivalDate       string          `json:"arrival_date"`
	InitialQuantity   int64           `json:"initial_quantity"`
	CurrentQuantity   int64           `json:"current_quantity"`
	RemainingQuantity int64           `json:"remaining_quantity"`
	SupplyPrice       decimal.Decimal `json:"supply_price"`
	SalePrice         decimal.Decimal `json:"sale_price"`
	Active            bool            `json:"active"`
}

func toShipmentResponse(s *shipment.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:                s.ID.String(),
		ProductID:         s.ProductID.String(),
		ShipmentNo:        s.ShipmentNo,
		ArrivalDate:       s.ArrivalDate.Format("2006-01-02"),
		InitialQuantity:   s.InitialQuantity,
		CurrentQuantity:   s.CurrentQuantity,
		RemainingQuantity: s.RemainingQuantity,
		SupplyPrice:       s.SupplyPrice,
		SalePrice:         s.SalePrice,
		Active:            s.Active,
	}
}

// Create handles POST /shipments
func (h *ShipmentHandler) Create(c *gin.Context) {
	var req CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	arrivalDate, err := parseDateTime(req.ArrivalDate)
	if err != nil {
		h.BadRequest(c, "Invalid arrival_date format")
		return
	}

	batch, err := h.shipmentService.CreateShipment(c.Request.Context(), shipmentapp.CreateShipmentInput{
		ProductID:   uuid.MustParse(req.ProductID),
		ShipmentNo:  req.ShipmentNo,
		ArrivalDate: arrivalDate,
		Quantity:    req.Quantity,
		SupplyPrice: toDecimal(req.SupplyPrice),
		SalePrice:   toDecimal(req.SalePrice),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toShipmentResponse(batch))
}

// UpdatePriceRequest is the request body for a batch price change
type UpdatePriceRequest struct {
	SupplyPrice   float64 `json:"supply_price" binding:"gt=0"`
	SalePrice     float64 `json:"sale_price" binding:"gt=0"`
	EffectiveDate string  `json:"effective_date" binding:"required"`
	Reason        string  `json:"reason" binding:"max=200"`
}

// UpdatePrice handles PUT /shipments/:id/price
func (h *ShipmentHandler) UpdatePrice(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}
	shipmentID := uuid.MustParse(uri.ID)

	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	effectiveDate, err := parseDateTime(req.EffectiveDate)
	if err != nil {
		h.BadRequest(c, "Invalid effective_date format")
		return
	}

	err = h.shipmentService.UpdatePrice(
		c.Request.Context(),
		shipmentID,
		toDecimal(req.SupplyPrice),
		toDecimal(req.SalePrice),
		effectiveDate,
		req.Reason,
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AdjustStockRequest is the request body for a manual stock adjustment
type AdjustStockRequest struct {
	Type     string `json:"type" binding:"required,oneof=add subtract"`
	Quantity int64  `json:"quantity" binding:"required,gt=0"`
	Reason   string `json:"reason" binding:"required,min=1,max=200"`
}

// AdjustStock handles POST /shipments/:id/adjustments
func (h *ShipmentHandler) AdjustStock(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}
	shipmentID := uuid.MustParse(uri.ID)

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	err := h.shipmentService.AdjustStock(
		c.Request.Context(),
		shipmentID,
		shipment.AdjustmentType(req.Type),
		req.Quantity,
		req.Reason,
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListByProduct handles GET /products/:id/shipments
func (h *ShipmentHandler) ListByProduct(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	productID := uuid.MustParse(uri.ID)

	batches, err := h.shipmentService.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]ShipmentResponse, len(batches))
	for i := range batches {
		out[i] = toShipmentResponse(&batches[i])
	}
	h.Success(c, out)
}

// PriceHistoryResponse represents one price history entry
type PriceHistoryResponse struct {
	ID            string          `json:"id"`
	ShipmentID    string          `json:"shipment_id"`
	SupplyPrice   decimal.Decimal `json:"supply_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	EffectiveDate string          `json:"effective_date"`
	Reason        string          `json:"reason,omitempty"`
}

// PriceHistory handles GET /shipments/:id/price-history
func (h *ShipmentHandler) PriceHistory(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}
	shipmentID := uuid.MustParse(uri.ID)

	entries, err := h.shipmentService.PriceHistory(c.Request.Context(), shipmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]PriceHistoryResponse, len(entries))
	for i, e := range entries {
		out[i] = PriceHistoryResponse{
			ID:            e.ID.String(),
			ShipmentID:    e.ShipmentID.String(),
			SupplyPrice:   e.SupplyPrice,
			SalePrice:     e.SalePrice,
			EffectiveDate: e.EffectiveDate.Format("2006-01-02"),
			Reason:        e.Reason,
		}
	}
	h.Success(c, out)
}

// ProductStock handles GET /products/:id/stock
func (h *ShipmentHandler) ProductStock(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	productID := uuid.MustParse(uri.ID)

	total, err := h.shipmentService.ProductStock(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"product_id":  productID.String(),
		"total_stock": total,
	})
}

// QuoteRequest is the request body for a FIFO costing quote
type QuoteRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
	Date      string `json:"date" binding:"required"`
}

// ConsumedSliceResponse is one batch slice of a costing quote
type ConsumedSliceResponse struct {
	ShipmentID   string          `json:"shipment_id"`
	ShipmentNo   string          `json:"shipment_no"`
	Quantity     int64           `json:"quantity"`
	SupplyPrice  decimal.Decimal `json:"supply_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	SupplyAmount decimal.Decimal `json:"supply_amount"`
	SaleAmount   decimal.Decimal `json:"sale_amount"`
}

// QuoteResponse is the full FIFO costing breakdown
type QuoteResponse struct {
	Slices            []ConsumedSliceResponse `json:"slices"`
	ConsumedQuantity  int64                   `json:"consumed_quantity"`
	RequestedQuantity int64                   `json:"requested_quantity"`
	FullyFulfilled    bool                    `json:"fully_fulfilled"`
	TotalSupplyAmount decimal.Decimal         `json:"total_supply_amount"`
	TotalSaleAmount   decimal.Decimal         `json:"total_sale_amount"`
	AvgSupplyPrice    decimal.Decimal         `json:"avg_supply_price"`
	AvgSalePrice      decimal.Decimal         `json:"avg_sale_price"`
}

// Quote handles POST /costing/quote. The quote prices a hypothetical
// consumption without committing stock.
func (h *ShipmentHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	date, err := parseDateTime(req.Date)
	if err != nil {
		h.BadRequest(c, "Invalid date format")
		return
	}

	result, err := h.shipmentService.QuoteConsumption(
		c.Request.Context(),
		uuid.MustParse(req.ProductID),
		req.Quantity,
		date,
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	slices := make([]ConsumedSliceResponse, len(result.Slices))
	for i, s := range result.Slices {
		slices[i] = ConsumedSliceResponse{
			ShipmentID:   s.ShipmentID.String(),
			ShipmentNo:   s.ShipmentNo,
			Quantity:     s.Quantity,
			SupplyPrice:  s.SupplyPrice,
			SalePrice:    s.SalePrice,
			SupplyAmount: s.SupplyAmount,
			SaleAmount:   s.SaleAmount,
		}
	}
	h.Success(c, QuoteResponse{
		Slices:            slices,
		ConsumedQuantity:  result.ConsumedQuantity,
		RequestedQuantity: result.RequestedQuantity,
		FullyFulfilled:    result.FullyFulfilled(),
		TotalSupplyAmount: result.TotalSupplyAmount,
		TotalSaleAmount:   result.TotalSaleAmount,
		AvgSupplyPrice:    result.AvgSupplyPrice,
		AvgSalePrice:      result.AvgSalePrice,
	})
}
