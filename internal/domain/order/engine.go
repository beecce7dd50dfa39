package order

import (
	"context"
	"fmt"
	"sort"
	"time"

	"kitchenledger/internal/core/apperror"
	appctx "kitchenledger/internal/core/context"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/tx"
	"kitchenledger/internal/core/types"
	"kitchenledger/internal/domain/audit"
	"kitchenledger/internal/domain/customer"
	"kitchenledger/internal/domain/inventory"
	"kitchenledger/internal/domain/notification"
	"kitchenledger/internal/domain/pricing"
	"kitchenledger/internal/domain/product"
	"kitchenledger/pkg/logger"
)

const auditEntity = "order"

// CustomerReader resolves customers.
type CustomerReader interface {
	GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error)
}

// PricingReader resolves pricings.
type PricingReader interface {
	GetByID(ctx context.Context, pricingID id.ID) (*pricing.Pricing, error)
}

// ProductReader resolves products, archived ones included.
type ProductReader interface {
	GetByID(ctx context.Context, productID id.ID) (*product.Product, error)
}

// MessageStore keeps the pending message board in step with orders.
// Both methods run inside the order transaction.
type MessageStore interface {
	CreateOrderMessage(ctx context.Context, orderID id.ID, senderID, content string) error
	DeleteByOrder(ctx context.Context, orderID id.ID) error
}

// Broadcaster delivers events to connected observers after commit.
type Broadcaster interface {
	Broadcast(ctx context.Context, ev notification.Event)
}

// Metrics receives business counters.
type Metrics interface {
	OrderCreated(items int, total float64)
	OrderCancelled()
	OrderStatusChanged(status string)
	StockShortage()
}

// Deps bundles the collaborators of the engine. Audit, Broadcaster and
// Metrics are optional.
type Deps struct {
	Customers   CustomerReader
	Pricings    PricingReader
	Products    ProductReader
	Stock       inventory.Ledger
	Messages    MessageStore
	Broadcaster Broadcaster
	Audit       audit.Logger
	Metrics     Metrics
	TxManager   tx.Manager
}

// Engine orchestrates order creation, status changes and cancellation.
type Engine struct {
	repo Repository
	deps Deps
}

// NewEngine creates a new order engine.
func NewEngine(repo Repository, deps Deps) *Engine {
	if deps.Audit == nil {
		deps.Audit = audit.Nop{}
	}
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	return &Engine{repo: repo, deps: deps}
}

// CreateItem is one requested line.
type CreateItem struct {
	PricingID id.ID
	Quantity  int
}

// CreateRequest is the input of Create.
type CreateRequest struct {
	CustomerID id.ID
	DueDate    time.Time
	Notes      string
	Position   *int
	Items      []CreateItem
}

// need is the total stock an order takes from one inventory item.
type need struct {
	inventoryID id.ID
	name        string
	amount      types.Quantity
}

// add accumulates per-unit × count. It reports false on overflow.
func (n *need) add(perUnit types.Quantity, count int) bool {
	q, ok := perUnit.Times(count)
	if !ok {
		return false
	}
	n.amount, ok = n.amount.Add(q)
	return ok
}

func errNeedTooLarge(n *need) error {
	return apperror.NewInvalidInput("requested stock is too large").
		WithDetail("inventoryId", n.inventoryID.String()).
		WithDetail("ingredient", n.name)
}

// MaxItemQuantity bounds the units a single order line may request.
const MaxItemQuantity = 10_000

// Create places an order in one transaction. Every item and ingredient is
// validated and every stock row is checked before anything is deducted, so a
// shortage anywhere leaves all stock untouched.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	var created *Order

	err := e.deps.TxManager.RunInTransaction(ctx, func(ctx context.Context) error {
		cust, err := e.deps.Customers.GetByID(ctx, req.CustomerID)
		if err != nil {
			return err
		}
		if err := validateCreate(req); err != nil {
			return err
		}

		items, needs, err := e.resolveItems(ctx, req.Items)
		if err != nil {
			return err
		}
		if err := e.reserve(ctx, needs); err != nil {
			return err
		}

		total := types.Zero()
		for _, it := range items {
			total = total.Add(it.LineTotal())
		}

		now := time.Now().UTC()
		o := &Order{
			ID:         id.New(),
			CustomerID: cust.ID,
			Customer:   NewCustomerSnapshot(cust),
			Items:      items,
			TotalPrice: types.RoundMoney(total),
			Date:       now,
			DueDate:    req.DueDate.UTC(),
			Notes:      req.Notes,
			Status:     StatusNotStarted,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if req.Position != nil {
			o.Position = *req.Position
		}

		if err := e.repo.Create(ctx, o); err != nil {
			return err
		}
		content := fmt.Sprintf("New order for %s: %d item(s), due %s",
			cust.Name, len(items), o.DueDate.Format("2006-01-02"))
		if err := e.deps.Messages.CreateOrderMessage(ctx, o.ID, senderID(ctx), content); err != nil {
			return err
		}
		e.logAudit(ctx, o.ID, audit.ActionCreate, map[string]any{
			"totalPrice": o.TotalPrice.String(),
			"items":      len(o.Items),
		})

		created = o
		return nil
	})
	if err != nil {
		if apperror.HasCode(err, apperror.CodeInsufficientStock) {
			e.deps.Metrics.StockShortage()
		}
		return nil, err
	}

	total, _ := created.TotalPrice.Float64()
	e.deps.Metrics.OrderCreated(len(created.Items), total)
	e.broadcast(ctx, notification.OrderEvent(created.ID))

	logger.Info(ctx, "order created",
		"order_id", created.ID,
		"customer_id", created.CustomerID,
		"total_price", created.TotalPrice.String())
	return created, nil
}

func validateCreate(req CreateRequest) error {
	if len(req.Items) == 0 {
		return apperror.NewInvalidInput("order must contain at least one item").WithDetail("field", "items")
	}
	for i, it := range req.Items {
		if it.Quantity <= 0 {
			return apperror.NewInvalidInput("item quantity must be positive").
				WithDetail("index", i).
				WithDetail("quantity", it.Quantity)
		}
		if it.Quantity > MaxItemQuantity {
			return apperror.NewInvalidInput(fmt.Sprintf("item quantity cannot exceed %d", MaxItemQuantity)).
				WithDetail("index", i).
				WithDetail("quantity", it.Quantity)
		}
	}
	if req.DueDate.IsZero() {
		return apperror.NewInvalidInput("due date is required").WithDetail("field", "dueDate")
	}
	if req.Position != nil && *req.Position < 0 {
		return apperror.NewInvalidInput("position cannot be negative").WithDetail("field", "position")
	}
	return nil
}

// resolveItems snapshots every line and sums the stock each inventory item must give.
func (e *Engine) resolveItems(ctx context.Context, reqItems []CreateItem) ([]Item, map[id.ID]*need, error) {
	items := make([]Item, 0, len(reqItems))
	needs := make(map[id.ID]*need)

	for _, ri := range reqItems {
		pr, err := e.deps.Pricings.GetByID(ctx, ri.PricingID)
		if err != nil {
			return nil, nil, err
		}
		p, err := e.deps.Products.GetByID(ctx, pr.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if !p.IsActive() {
			return nil, nil, apperror.NewNotFound("product", p.ID.String())
		}

		snap := NewPricingSnapshot(pr, p)
		for _, ing := range snap.Ingredients {
			n, ok := needs[ing.InventoryID]
			if !ok {
				n = &need{inventoryID: ing.InventoryID, name: ing.Name}
				needs[ing.InventoryID] = n
			}
			if !ing.Quantity.IsPositive() {
				return nil, nil, apperror.NewInvalidValue("ingredient quantity must be positive").
					WithDetail("inventoryId", ing.InventoryID.String())
			}
			if !n.add(ing.Quantity, ri.Quantity) {
				return nil, nil, errNeedTooLarge(n)
			}
		}
		items = append(items, Item{PricingID: pr.ID, Quantity: ri.Quantity, Snapshot: snap})
	}
	return items, needs, nil
}

// reserve locks the affected rows in id order, verifies every need, then deducts.
func (e *Engine) reserve(ctx context.Context, needs map[id.ID]*need) error {
	ids := sortedIDs(needs)
	locked, err := e.deps.Stock.LockForUpdate(ctx, ids)
	if err != nil {
		return err
	}

	for _, invID := range ids {
		n := needs[invID]
		item, ok := locked[invID]
		if !ok {
			return apperror.NewNotFound("inventory", invID.String()).WithDetail("ingredient", n.name)
		}
		if item.Quantity < n.amount {
			return apperror.NewInsufficientStock(invID.String(), n.name, n.amount.String(), item.Quantity.String())
		}
	}

	for _, invID := range ids {
		n := needs[invID]
		ok, err := e.deps.Stock.Deduct(ctx, invID, n.amount)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewInsufficientStock(invID.String(), n.name, n.amount.String(), locked[invID].Quantity.String())
		}
	}
	return nil
}

// Cancel restores the stock the order consumed, using the recipe captured at
// creation, and marks it Cancelled.
func (e *Engine) Cancel(ctx context.Context, orderID id.ID) (*Order, error) {
	var cancelled *Order

	err := e.deps.TxManager.RunInTransaction(ctx, func(ctx context.Context) error {
		o, err := e.repo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !o.Status.CanTransitionTo(StatusCancelled) {
			return apperror.NewInvalidState("order", string(o.Status), string(StatusCancelled))
		}

		restores := make(map[id.ID]*need)
		for _, it := range o.Items {
			if it.Snapshot == nil {
				return apperror.NewNotFound("pricing snapshot", o.ID.String()).
					WithDetail("pricingId", it.PricingID.String())
			}
			for _, ing := range it.Snapshot.Ingredients {
				n, ok := restores[ing.InventoryID]
				if !ok {
					n = &need{inventoryID: ing.InventoryID, name: ing.Name}
					restores[ing.InventoryID] = n
				}
				if !n.add(ing.Quantity, it.Quantity) {
					return errNeedTooLarge(n)
				}
			}
		}
		for _, invID := range sortedIDs(restores) {
			if err := e.deps.Stock.Restore(ctx, invID, restores[invID].amount); err != nil {
				return err
			}
		}

		ok, err := e.repo.UpdateStatus(ctx, o.ID, o.Status, StatusCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewInvalidState("order", string(o.Status), string(StatusCancelled))
		}
		if err := e.deps.Messages.DeleteByOrder(ctx, o.ID); err != nil {
			return err
		}
		e.logAudit(ctx, o.ID, audit.ActionCancel, map[string]any{
			"status": map[string]any{"old": o.Status, "new": StatusCancelled},
		})

		o.Status = StatusCancelled
		o.UpdatedAt = time.Now().UTC()
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.deps.Metrics.OrderCancelled()
	e.broadcast(ctx, notification.UpdateEvent(cancelled.ID, string(StatusCancelled)))
	logger.Info(ctx, "order cancelled", "order_id", cancelled.ID)
	return cancelled, nil
}

// UpdateStatus moves an order through the workflow. Cancelled goes through
// Cancel so stock is restored. Setting the current status again is a no-op.
func (e *Engine) UpdateStatus(ctx context.Context, orderID id.ID, status string) (*Order, error) {
	next, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	if next == StatusCancelled {
		return e.Cancel(ctx, orderID)
	}

	var (
		updated *Order
		changed bool
	)
	err = e.deps.TxManager.RunInTransaction(ctx, func(ctx context.Context) error {
		o, err := e.repo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		updated = o
		if o.Status == next {
			return nil
		}
		if !o.Status.CanTransitionTo(next) {
			return apperror.NewInvalidState("order", string(o.Status), string(next))
		}

		ok, err := e.repo.UpdateStatus(ctx, o.ID, o.Status, next)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewInvalidState("order", string(o.Status), string(next))
		}
		if next.ClearsMessages() {
			if err := e.deps.Messages.DeleteByOrder(ctx, o.ID); err != nil {
				return err
			}
		}
		e.logAudit(ctx, o.ID, audit.ActionStatus, map[string]any{
			"status": map[string]any{"old": o.Status, "new": next},
		})

		o.Status = next
		o.UpdatedAt = time.Now().UTC()
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		e.deps.Metrics.OrderStatusChanged(string(next))
		e.broadcast(ctx, notification.UpdateEvent(updated.ID, string(next)))
		logger.Info(ctx, "order status changed", "order_id", updated.ID, "status", next)
	}
	return updated, nil
}

// UpdatePosition moves an order on the kitchen board.
func (e *Engine) UpdatePosition(ctx context.Context, orderID id.ID, position int) (*Order, error) {
	if position < 0 {
		return nil, apperror.NewInvalidInput("position cannot be negative").WithDetail("field", "position")
	}

	var updated *Order
	err := e.deps.TxManager.RunInTransaction(ctx, func(ctx context.Context) error {
		o, err := e.repo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := e.repo.UpdatePosition(ctx, o.ID, position); err != nil {
			return err
		}
		e.logAudit(ctx, o.ID, audit.ActionPosition, map[string]any{
			"position": map[string]any{"old": o.Position, "new": position},
		})
		o.Position = position
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Get returns an order by id.
func (e *Engine) Get(ctx context.Context, orderID id.ID) (*Order, error) {
	return e.repo.GetByID(ctx, orderID)
}

// List returns orders ordered by position, then date.
func (e *Engine) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	return e.repo.List(ctx, filter)
}

// History returns the audit trail of an order, newest first.
func (e *Engine) History(ctx context.Context, orderID id.ID, limit int) ([]audit.Entry, error) {
	if _, err := e.repo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	return e.deps.Audit.History(ctx, auditEntity, orderID, limit)
}

func (e *Engine) broadcast(ctx context.Context, ev notification.Event) {
	if e.deps.Broadcaster == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "notification broadcast panicked", "panic", r, "order_id", ev.OrderID)
		}
	}()
	e.deps.Broadcaster.Broadcast(ctx, ev)
}

func (e *Engine) logAudit(ctx context.Context, orderID id.ID, action audit.Action, changes map[string]any) {
	if err := e.deps.Audit.LogChange(ctx, auditEntity, orderID, action, changes); err != nil {
		logger.Warn(ctx, "order audit failed", "order_id", orderID, "action", action, "error", err)
	}
}

func senderID(ctx context.Context) string {
	if uid := appctx.GetUserID(ctx); uid != "" {
		return uid
	}
	return "system"
}

func sortedIDs(m map[id.ID]*need) []id.ID {
	ids := make([]id.ID, 0, len(m))
	for k := range m {
		ids = append(ids, k)
	}
	sort.Slice(ids, func(i, j int) bool { return id.Less(ids[i], ids[j]) })
	return ids
}

type nopMetrics struct{}

func (nopMetrics) OrderCreated(int, float64) {}
func (nopMetrics) OrderCancelled()           {}
func (nopMetrics) OrderStatusChanged(string) {}
func (nopMetrics) StockShortage()            {}
