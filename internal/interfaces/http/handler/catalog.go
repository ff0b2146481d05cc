package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ledgerapp "github.com/paul-kim93/ablcrossborder/internal/application/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/interfaces/http/dto"
)

// CatalogHandler handles seller and product API endpoints
type CatalogHandler struct {
	BaseHandler
	catalogService *ledgerapp.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *ledgerapp.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// CreateSellerRequest is the request body for creating a seller
type CreateSellerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Contact string `json:"contact" binding:"max=200"`
}

// SellerResponse represents a seller in API responses
type SellerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Contact   string `json:"contact,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toSellerResponse(s *ledger.Seller) SellerResponse {
	return SellerResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Contact:   s.Contact,
		CreatedAt: s.CreatedAt.Format(timeFormat),
		UpdatedAt: s.UpdatedAt.Format(timeFormat),
	}
}

// CreateSeller handles POST /sellers
func (h *CatalogHandler) CreateSeller(c *gin.Context) {
	var req CreateSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	seller, err := h.catalogService.CreateSeller(c.Request.Context(), req.Name, req.Contact)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toSellerResponse(seller))
}

// ListSellers handles GET /sellers
func (h *CatalogHandler) ListSellers(c *gin.Context) {
	sellers, err := h.catalogService.ListSellers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]SellerResponse, len(sellers))
	for i := range sellers {
		out[i] = toSellerResponse(&sellers[i])
	}
	h.Success(c, out)
}

// GetSeller handles GET /sellers/:id
func (h *CatalogHandler) GetSeller(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid seller ID")
		return
	}
	id := uuid.MustParse(uri.ID)

	seller, err := h.catalogService.GetSeller(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSellerResponse(seller))
}

// CreateProductRequest is the request body for creating a product
type CreateProductRequest struct {
	SellerID    string  `json:"seller_id" binding:"required,uuid"`
	Name        string  `json:"name" binding:"required,min=1,max=200"`
	Code        string  `json:"code" binding:"required,min=1,max=100"`
	SupplyPrice float64 `json:"supply_price" binding:"gte=0"`
	SalePrice   float64 `json:"sale_price" binding:"gte=0"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          string          `json:"id"`
	SellerID    string          `json:"seller_id"`
	Name        string          `json:"name"`
	Code        string          `json:"code"`
	SupplyPrice decimal.Decimal `json:"supply_price"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	Active      bool            `json:"active"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

func toProductResponse(p *ledger.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID.String(),
		SellerID:    p.SellerID.String(),
		Name:        p.Name,
		Code:        p.Code,
		SupplyPrice: p.SupplyPrice,
		SalePrice:   p.SalePrice,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt.Format(timeFormat),
		UpdatedAt:   p.UpdatedAt.Format(timeFormat),
	}
}

// CreateProduct handles POST /products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	sellerID := uuid.MustParse(req.SellerID)

	product, err := h.catalogService.CreateProduct(
		c.Request.Context(),
		sellerID,
		req.Name,
		req.Code,
		toDecimal(req.SupplyPrice),
		toDecimal(req.SalePrice),
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toProductResponse(product))
}

// ListProducts handles GET /sellers/:id/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid seller ID")
		return
	}
	sellerID := uuid.MustParse(uri.ID)

	products, err := h.catalogService.ListProducts(c.Request.Context(), sellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = toProductResponse(&products[i])
	}
	h.Success(c, out)
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	id := uuid.MustParse(uri.ID)

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductResponse(product))
}
