// Package handlers provides HTTP request handlers.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"kitchenledger/internal/core/id"
	"kitchenledger/internal/domain"
	"kitchenledger/internal/infrastructure/http/v1/dto"
)

// CatalogHandler provides generic CRUD handlers for paged catalog entities
// (inputs, inventory, customers).
type CatalogHandler[T any, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	cfg CatalogHandlerConfig[T, CreateDTO, UpdateDTO]
}

// CatalogHandlerConfig binds the handler to one service.
type CatalogHandlerConfig[T any, CreateDTO any, UpdateDTO any] struct {
	EntityName string
	Create     func(ctx context.Context, req CreateDTO) (T, error)
	Get        func(ctx context.Context, entityID id.ID) (T, error)
	List       func(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error)
	Update     func(ctx context.Context, entityID id.ID, req UpdateDTO) (T, error)
	Delete     func(ctx context.Context, entityID id.ID) error
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T any, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, CreateDTO, UpdateDTO],
) *CatalogHandler[T, CreateDTO, UpdateDTO] {
	return &CatalogHandler[T, CreateDTO, UpdateDTO]{BaseHandler: base, cfg: cfg}
}

// List handles GET /{entity} with search and pagination.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) List(c *gin.Context) {
	var q dto.PaginationRequest
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.cfg.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(result))
}

// Get handles GET /{entity}/:id.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	entityID, ok := h.ParamID(c)
	if !ok {
		return
	}

	entity, err := h.cfg.Get(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entity)
}

// Create handles POST /{entity}.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	entity, err := h.cfg.Create(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, h.cfg.EntityName+" created", entity)
}

// Update handles PUT /{entity}/:id.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	entityID, ok := h.ParamID(c)
	if !ok {
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	entity, err := h.cfg.Update(c.Request.Context(), entityID, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Mutated(c, h.cfg.EntityName+" updated", entity)
}

// Delete handles DELETE /{entity}/:id.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Delete(c *gin.Context) {
	entityID, ok := h.ParamID(c)
	if !ok {
		return
	}

	if err := h.cfg.Delete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
