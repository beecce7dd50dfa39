package handlers

import (
	"github.com/gin-gonic/gin"

	"kitchenledger/internal/domain/product"
	"kitchenledger/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves the recipe catalog.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service}
}

// List handles GET /products. Archived products are not listed.
func (h *ProductHandler) List(c *gin.Context) {
	items, err := h.service.ListActive(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewItemsResponse(items))
}

// Get handles GET /products/:id. Archived products are still returned.
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParamID(c)
	if !ok {
		return
	}
	p, err := h.service.Get(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Create handles POST /products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	p, err := h.service.Create(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, "product created", p)
}

// Update handles PUT /products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	p, err := h.service.Update(c.Request.Context(), productID, req.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Mutated(c, "product updated", p)
}

// Delete handles DELETE /products/:id by archiving the product.
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.ParamID(c)
	if !ok {
		return
	}
	if err := h.service.Archive(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
