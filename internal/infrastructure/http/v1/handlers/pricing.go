package handlers

import (
	"github.com/gin-gonic/gin"

	"kitchenledger/internal/domain/fixedcosts"
	"kitchenledger/internal/domain/pricing"
	"kitchenledger/internal/infrastructure/http/v1/dto"
)

// PricingHandler serves stored prices and the fixed-costs record.
type PricingHandler struct {
	*BaseHandler
	service    *pricing.Service
	fixedCosts *fixedcosts.Service
}

// NewPricingHandler creates a new pricing handler.
func NewPricingHandler(base *BaseHandler, service *pricing.Service, fixedCosts *fixedcosts.Service) *PricingHandler {
	return &PricingHandler{BaseHandler: base, service: service, fixedCosts: fixedCosts}
}

// List handles GET /pricing.
func (h *PricingHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewItemsResponse(items))
}

// Get handles GET /pricing/:id.
func (h *PricingHandler) Get(c *gin.Context) {
	pricingID, ok := h.ParamID(c)
	if !ok {
		return
	}
	pr, err := h.service.Get(c.Request.Context(), pricingID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, pr)
}

// Create handles POST /pricing.
func (h *PricingHandler) Create(c *gin.Context) {
	var req dto.CreatePricingRequest
	if !h.BindJSON(c, &req) {
		return
	}
	pr, err := h.service.Create(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, "pricing created", pr)
}

// Update handles PUT /pricing/:id.
func (h *PricingHandler) Update(c *gin.Context) {
	pricingID, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.UpdatePricingRequest
	if !h.BindJSON(c, &req) {
		return
	}
	pr, err := h.service.Update(c.Request.Context(), pricingID, req.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Mutated(c, "pricing updated", pr)
}

// Recalculate handles POST /pricing/:id/recalculate.
func (h *PricingHandler) Recalculate(c *gin.Context) {
	pricingID, ok := h.ParamID(c)
	if !ok {
		return
	}
	pr, err := h.service.Recalculate(c.Request.Context(), pricingID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Mutated(c, "pricing recalculated", pr)
}

// Delete handles DELETE /pricing/:id.
func (h *PricingHandler) Delete(c *gin.Context) {
	pricingID, ok := h.ParamID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), pricingID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// GetFixedCosts handles GET /fixed-costs.
func (h *PricingHandler) GetFixedCosts(c *gin.Context) {
	fc, err := h.fixedCosts.Load(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"fixedCosts": fc, "total": fc.Total()})
}

// UpdateFixedCosts handles PUT /fixed-costs and reprices active products.
func (h *PricingHandler) UpdateFixedCosts(c *gin.Context) {
	var req dto.FixedCostsRequest
	if !h.BindJSON(c, &req) {
		return
	}
	fc, err := h.fixedCosts.Update(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Mutated(c, "fixed costs updated", fc)
}
