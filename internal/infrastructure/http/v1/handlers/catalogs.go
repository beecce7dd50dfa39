package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"kitchenledger/internal/core/id"
	"kitchenledger/internal/domain/customer"
	"kitchenledger/internal/domain/input"
	"kitchenledger/internal/domain/inventory"
	"kitchenledger/internal/infrastructure/http/v1/dto"
)

type (
	InputHandler     = CatalogHandler[*input.Input, dto.CreateInputRequest, dto.UpdateInputRequest]
	InventoryHandler = CatalogHandler[*inventory.Item, dto.CreateInventoryRequest, dto.UpdateInventoryRequest]
	CustomerHandler  = CatalogHandler[*customer.Customer, dto.CustomerRequest, dto.CustomerRequest]
)

// NewInputHandler serves /inputs.
func NewInputHandler(base *BaseHandler, service *input.Service) *InputHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*input.Input, dto.CreateInputRequest, dto.UpdateInputRequest]{
		EntityName: "input",
		Create: func(ctx context.Context, req dto.CreateInputRequest) (*input.Input, error) {
			return service.Create(ctx, req.Name, req.StockLimit)
		},
		Get:  service.Get,
		List: service.List,
		Update: func(ctx context.Context, inputID id.ID, req dto.UpdateInputRequest) (*input.Input, error) {
			return service.Update(ctx, inputID, req.ToDomain())
		},
		Delete: service.Delete,
	})
}

// NewInventoryHandler serves /inventory.
func NewInventoryHandler(base *BaseHandler, service *inventory.Service) *InventoryHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*inventory.Item, dto.CreateInventoryRequest, dto.UpdateInventoryRequest]{
		EntityName: "inventory item",
		Create: func(ctx context.Context, req dto.CreateInventoryRequest) (*inventory.Item, error) {
			return service.Create(ctx, req.ToDomain())
		},
		Get:  service.Get,
		List: service.List,
		Update: func(ctx context.Context, itemID id.ID, req dto.UpdateInventoryRequest) (*inventory.Item, error) {
			return service.Update(ctx, itemID, req.ToDomain())
		},
		Delete: service.Delete,
	})
}

// NewCustomerHandler serves /customers.
func NewCustomerHandler(base *BaseHandler, service *customer.Service) *CustomerHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*customer.Customer, dto.CustomerRequest, dto.CustomerRequest]{
		EntityName: "customer",
		Create: func(ctx context.Context, req dto.CustomerRequest) (*customer.Customer, error) {
			return service.Create(ctx, req.ToDomain())
		},
		Get:  service.Get,
		List: service.List,
		Update: func(ctx context.Context, customerID id.ID, req dto.CustomerRequest) (*customer.Customer, error) {
			return service.Update(ctx, customerID, req.ToDomain())
		},
		Delete: service.Delete,
	})
}

// LowStockHandler handles GET /inventory/low-stock.
func LowStockHandler(base *BaseHandler, service *inventory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := service.LowStock(c.Request.Context())
		if err != nil {
			base.Error(c, err)
			return
		}
		base.OK(c, dto.NewItemsResponse(items))
	}
}
