package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ledgerapp "github.com/paul-kim93/ablcrossborder/internal/application/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/interfaces/http/dto"
)

// OrderHandler handles order ingestion and maintenance endpoints
type OrderHandler struct {
	BaseHandler
	orderService *ledgerapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *ledgerapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// IngestLineRequest is one raw line of an ingested order
type IngestLineRequest struct {
	ProductCode string `json:"product_code" binding:"required,min=1,max=100"`
	Quantity    int64  `json:"quantity" binding:"required,gt=0"`
}

// IngestOrderRequest is the request body for ingesting an order
type IngestOrderRequest struct {
	OrderNo   string              `json:"order_no" binding:"required,min=1,max=100"`
	BuyerID   string              `json:"buyer_id" binding:"required,min=1,max=100"`
	OrderTime string              `json:"order_time" binding:"required"`
	Status    string              `json:"status" binding:"required"`
	Lines     []IngestLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID        string `json:"id"`
	OrderNo   string `json:"order_no"`
	BuyerID   string `json:"buyer_id"`
	OrderTime string `json:"order_time"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func toOrderResponse(o *ledger.Order) OrderResponse {
	return OrderResponse{
		ID:        o.ID.String(),
		OrderNo:   o.OrderNo,
		BuyerID:   o.BuyerID,
		OrderTime: o.OrderTime.Format(timeFormat),
		Status:    o.Status.String(),
		CreatedAt: o.CreatedAt.Format(timeFormat),
	}
}

// Ingest handles POST /orders
func (h *OrderHandler) Ingest(c *gin.Context) {
	var req IngestOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orderTime, err := parseDateTime(req.OrderTime)
	if err != nil {
		h.BadRequest(c, "Invalid order_time format")
		return
	}

	status := ledger.OrderStatus(req.Status)
	if !status.IsValid() {
		h.BadRequest(c, "Invalid order status")
		return
	}

	lines := make([]ledgerapp.IngestLineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = ledgerapp.IngestLineInput{
			ProductCode: l.ProductCode,
			Quantity:    l.Quantity,
		}
	}

	order, err := h.orderService.IngestOrder(c.Request.Context(), ledgerapp.IngestOrderInput{
		OrderNo:   req.OrderNo,
		BuyerID:   req.BuyerID,
		OrderTime: orderTime,
		Status:    status,
		Lines:     lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toOrderResponse(order))
}

// ChangeStatusRequest is the request body for an order status change
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeStatus handles POST /orders/:id/status
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	orderID := uuid.MustParse(uri.ID)

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	status := ledger.OrderStatus(req.Status)
	if !status.IsValid() {
		h.BadRequest(c, "Invalid order status")
		return
	}

	if err := h.orderService.ChangeOrderStatus(c.Request.Context(), orderID, status); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// EditLinePricesRequest is the request body for a line item price edit
type EditLinePricesRequest struct {
	SupplyPrice float64 `json:"supply_price" binding:"gte=0"`
	SalePrice   float64 `json:"sale_price" binding:"gte=0"`
}

// EditLinePrices handles PUT /order-lines/:id/prices
func (h *OrderHandler) EditLinePrices(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid line item ID")
		return
	}
	lineItemID := uuid.MustParse(uri.ID)

	var req EditLinePricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	err := h.orderService.EditLinePrices(
		c.Request.Context(),
		lineItemID,
		decimal.NewFromFloat(req.SupplyPrice),
		decimal.NewFromFloat(req.SalePrice),
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateMappingRequest is the request body for a product code mapping
type CreateMappingRequest struct {
	ProductID          string `json:"product_id" binding:"required,uuid"`
	MappedCode         string `json:"mapped_code" binding:"required,min=1,max=100"`
	QuantityMultiplier int64  `json:"quantity_multiplier"`
}

// MappingResponse represents a code mapping in API responses
type MappingResponse struct {
	ID                 string `json:"id"`
	ProductID          string `json:"product_id"`
	MappedCode         string `json:"mapped_code"`
	QuantityMultiplier int64  `json:"quantity_multiplier"`
}

// CreateMapping handles POST /code-mappings. Creating a mapping also
// resolves any previously unmatched lines carrying the mapped code.
func (h *OrderHandler) CreateMapping(c *gin.Context) {
	var req CreateMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	productID := uuid.MustParse(req.ProductID)

	mapping, err := h.orderService.CreateCodeMapping(
		c.Request.Context(),
		productID,
		req.MappedCode,
		req.QuantityMultiplier,
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, MappingResponse{
		ID:                 mapping.ID.String(),
		ProductID:          mapping.ProductID.String(),
		MappedCode:         mapping.MappedCode,
		QuantityMultiplier: mapping.QuantityMultiplier,
	})
}
