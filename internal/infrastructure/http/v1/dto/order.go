package dto

import (
	"time"

	"kitchenledger/internal/core/id"
	"kitchenledger/internal/domain/order"
)

// OrderItemRequest is one requested line.
type OrderItemRequest struct {
	PricingID id.ID `json:"pricingId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"max=10000"`
}

// CreateOrderRequest places an order. Item and date checks happen in the
// engine so they are reported after the customer lookup.
type CreateOrderRequest struct {
	CustomerID id.ID              `json:"customerId" binding:"required"`
	DueDate    time.Time          `json:"dueDate"`
	Notes      string             `json:"notes"`
	Position   *int               `json:"position"`
	Items      []OrderItemRequest `json:"items" binding:"dive"`
}

func (r *CreateOrderRequest) ToDomain() order.CreateRequest {
	items := make([]order.CreateItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = order.CreateItem{PricingID: it.PricingID, Quantity: it.Quantity}
	}
	return order.CreateRequest{
		CustomerID: r.CustomerID,
		DueDate:    r.DueDate,
		Notes:      r.Notes,
		Position:   r.Position,
		Items:      items,
	}
}

// UpdateOrderStatusRequest moves an order through the workflow.
// Unknown names are rejected by the engine as invalid input.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderPositionRequest reorders the production queue.
type UpdateOrderPositionRequest struct {
	Position *int `json:"position" binding:"required,min=0"`
}

// OrderListQuery filters GET /orders.
type OrderListQuery struct {
	Status     string     `form:"status" binding:"omitempty,orderstatus"`
	CustomerID string     `form:"customerId" binding:"omitempty,uuid"`
	From       *time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To         *time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
}

// ToFilter converts the query; the bound values are already validated.
func (q *OrderListQuery) ToFilter() order.ListFilter {
	f := order.ListFilter{From: q.From, To: q.To}
	if q.Status != "" {
		s := order.Status(q.Status)
		f.Status = &s
	}
	if q.CustomerID != "" {
		cid := id.MustParse(q.CustomerID)
		f.CustomerID = &cid
	}
	if f.To != nil && f.To.Equal(f.To.Truncate(24*time.Hour)) {
		end := f.To.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}
	return f
}
