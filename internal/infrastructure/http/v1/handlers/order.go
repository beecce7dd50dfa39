package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"kitchenledger/internal/core/apperror"
	appctx "kitchenledger/internal/core/context"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/domain/audit"
	"kitchenledger/internal/domain/auth"
	"kitchenledger/internal/domain/order"
	"kitchenledger/internal/infrastructure/http/v1/dto"
)

// CancelRoles may cancel orders, either directly or through a status change.
var CancelRoles = []string{auth.RoleAdmin, auth.RoleEditor}

// OrderEngine is the order transaction engine as seen by HTTP.
type OrderEngine interface {
	Create(ctx context.Context, req order.CreateRequest) (*order.Order, error)
	Get(ctx context.Context, orderID id.ID) (*order.Order, error)
	List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error)
	UpdateStatus(ctx context.Context, orderID id.ID, status string) (*order.Order, error)
	UpdatePosition(ctx context.Context, orderID id.ID, position int) (*order.Order, error)
	Cancel(ctx context.Context, orderID id.ID) (*order.Order, error)
	History(ctx context.Context, orderID id.ID, limit int) ([]audit.Entry, error)
}

// OrderHandler serves /orders.
type OrderHandler struct {
	*BaseHandler
	engine OrderEngine
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(base *BaseHandler, engine OrderEngine) *OrderHandler {
	return &OrderHandler{BaseHandler: base, engine: engine}
}

// List handles GET /orders.
func (h *OrderHandler) List(c *gin.Context) {
	var q dto.OrderListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	orders, err := h.engine.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewItemsResponse(orders))
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := h.ParamID(c)
	if !ok {
		return
	}
	o, err := h.engine.Get(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, o)
}

// Create handles POST /orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	o, err := h.engine.Create(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, "order created", o)
}

// UpdateStatus handles PATCH /orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if req.Status == string(order.StatusCancelled) && !appctx.HasAnyRole(c.Request.Context(), CancelRoles...) {
		h.Error(c, apperror.NewForbidden("insufficient permissions").WithDetail("required_roles", CancelRoles))
		return
	}
	o, err := h.engine.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Mutated(c, "order status updated", o)
}

// UpdatePosition handles PATCH /orders/:id/position.
func (h *OrderHandler) UpdatePosition(c *gin.Context) {
	orderID, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.UpdateOrderPositionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	o, err := h.engine.UpdatePosition(c.Request.Context(), orderID, *req.Position)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Mutated(c, "order position updated", o)
}

// Cancel handles POST /orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := h.ParamID(c)
	if !ok {
		return
	}
	o, err := h.engine.Cancel(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Mutated(c, "order cancelled", o)
}

// History handles GET /orders/:id/history.
func (h *OrderHandler) History(c *gin.Context) {
	orderID, ok := h.ParamID(c)
	if !ok {
		return
	}
	entries, err := h.engine.History(c.Request.Context(), orderID, h.ParseIntQuery(c, "limit", 50))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewItemsResponse(entries))
}
