package order

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/types"
	"kitchenledger/internal/domain/customer"
	"kitchenledger/internal/domain/inventory"
	"kitchenledger/internal/domain/notification"
	"kitchenledger/internal/domain/pricing"
	"kitchenledger/internal/domain/product"
)

type inlineTx struct{}

func (inlineTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memLedger struct {
	stock   map[id.ID]types.Quantity
	deducts int
}

func (l *memLedger) LockForUpdate(_ context.Context, ids []id.ID) (map[id.ID]*inventory.Item, error) {
	out := make(map[id.ID]*inventory.Item, len(ids))
	for _, invID := range ids {
		if q, ok := l.stock[invID]; ok {
			out[invID] = &inventory.Item{ID: invID, Quantity: q}
		}
	}
	return out, nil
}

func (l *memLedger) Deduct(_ context.Context, invID id.ID, amount types.Quantity) (bool, error) {
	if !amount.IsPositive() {
		return false, apperror.NewInvalidValue("stock movement must be positive")
	}
	q, ok := l.stock[invID]
	if !ok || q < amount {
		return false, nil
	}
	l.stock[invID] = q - amount
	l.deducts++
	return true, nil
}

func (l *memLedger) Restore(_ context.Context, invID id.ID, amount types.Quantity) error {
	if !amount.IsPositive() {
		return apperror.NewInvalidValue("stock movement must be positive")
	}
	if _, ok := l.stock[invID]; !ok {
		return apperror.NewNotFound("inventory", invID.String())
	}
	l.stock[invID] += amount
	return nil
}

// drainingLedger lets another writer take stock after the rows were read
// under lock, so only the conditional decrement can catch the shortage.
type drainingLedger struct {
	*memLedger
	drain map[id.ID]types.Quantity
}

func (l *drainingLedger) LockForUpdate(ctx context.Context, ids []id.ID) (map[id.ID]*inventory.Item, error) {
	locked, err := l.memLedger.LockForUpdate(ctx, ids)
	for invID, q := range l.drain {
		l.stock[invID] -= q
	}
	return locked, err
}

type memOrders struct {
	items map[id.ID]*Order
}

func (r *memOrders) Create(_ context.Context, o *Order) error {
	cp := *o
	r.items[o.ID] = &cp
	return nil
}

func (r *memOrders) GetByID(_ context.Context, orderID id.ID) (*Order, error) {
	o, ok := r.items[orderID]
	if !ok {
		return nil, apperror.NewNotFound("order", orderID.String())
	}
	cp := *o
	return &cp, nil
}

func (r *memOrders) GetForUpdate(ctx context.Context, orderID id.ID) (*Order, error) {
	return r.GetByID(ctx, orderID)
}

func (r *memOrders) List(_ context.Context, _ ListFilter) ([]*Order, error) {
	out := make([]*Order, 0, len(r.items))
	for _, o := range r.items {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memOrders) UpdateStatus(_ context.Context, orderID id.ID, from, to Status) (bool, error) {
	o, ok := r.items[orderID]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (r *memOrders) UpdatePosition(_ context.Context, orderID id.ID, position int) error {
	o, ok := r.items[orderID]
	if !ok {
		return apperror.NewNotFound("order", orderID.String())
	}
	o.Position = position
	return nil
}

type memMessages struct {
	byOrder map[id.ID]int
}

func (m *memMessages) CreateOrderMessage(_ context.Context, orderID id.ID, _, _ string) error {
	m.byOrder[orderID]++
	return nil
}

func (m *memMessages) DeleteByOrder(_ context.Context, orderID id.ID) error {
	delete(m.byOrder, orderID)
	return nil
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []notification.Event
}

func (b *recordingBroadcaster) Broadcast(_ context.Context, ev notification.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
}

type catalog struct {
	customers map[id.ID]*customer.Customer
	pricings  map[id.ID]*pricing.Pricing
	products  map[id.ID]*product.Product
}

type customerLookup struct{ c *catalog }

func (l customerLookup) GetByID(_ context.Context, cid id.ID) (*customer.Customer, error) {
	if c, ok := l.c.customers[cid]; ok {
		return c, nil
	}
	return nil, apperror.NewNotFound("customer", cid.String())
}

type pricingLookup struct{ c *catalog }

func (l pricingLookup) GetByID(_ context.Context, pid id.ID) (*pricing.Pricing, error) {
	if p, ok := l.c.pricings[pid]; ok {
		return p, nil
	}
	return nil, apperror.NewNotFound("pricing", pid.String())
}

type productLookup struct{ c *catalog }

func (l productLookup) GetByID(_ context.Context, pid id.ID) (*product.Product, error) {
	if p, ok := l.c.products[pid]; ok {
		return p, nil
	}
	return nil, apperror.NewNotFound("product", pid.String())
}

type fixture struct {
	engine   *Engine
	ledger   *memLedger
	orders   *memOrders
	messages *memMessages
	events   *recordingBroadcaster
	cat      *catalog
	customer id.ID
	flour    id.ID
	sugar    id.ID
	bread    id.ID // pricing
	cake     id.ID // pricing
	cakeProd id.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ledger:   &memLedger{stock: map[id.ID]types.Quantity{}},
		orders:   &memOrders{items: map[id.ID]*Order{}},
		messages: &memMessages{byOrder: map[id.ID]int{}},
		events:   &recordingBroadcaster{},
		cat: &catalog{
			customers: map[id.ID]*customer.Customer{},
			pricings:  map[id.ID]*pricing.Pricing{},
			products:  map[id.ID]*product.Product{},
		},
		customer: id.New(),
		flour:    id.New(),
		sugar:    id.New(),
	}

	f.cat.customers[f.customer] = &customer.Customer{ID: f.customer, Name: "Ana", Email: "ana@example.com"}
	f.ledger.stock[f.flour] = types.NewQuantityFromInt(10)
	f.ledger.stock[f.sugar] = types.NewQuantityFromInt(1)

	breadProd := &product.Product{
		ID: id.New(), Name: "Bread", Yield: 10, Lifecycle: product.LifecycleActive,
		Ingredients: []product.Ingredient{{InventoryID: f.flour, Name: "Flour", Quantity: types.NewQuantityFromInt(2)}},
	}
	cakeProd := &product.Product{
		ID: id.New(), Name: "Cake", Yield: 1, Lifecycle: product.LifecycleActive,
		Ingredients: []product.Ingredient{
			{InventoryID: f.flour, Name: "Flour", Quantity: types.NewQuantityFromInt(1)},
			{InventoryID: f.sugar, Name: "Sugar", Quantity: types.NewQuantityFromInt(5)},
		},
	}
	f.cat.products[breadProd.ID] = breadProd
	f.cat.products[cakeProd.ID] = cakeProd
	f.cakeProd = cakeProd.ID

	f.bread = id.New()
	f.cat.pricings[f.bread] = &pricing.Pricing{
		ID: f.bread, ProductID: breadProd.ID, Yields: 10, SellingPrice: types.MustMoney("2.50"),
	}
	f.cake = id.New()
	f.cat.pricings[f.cake] = &pricing.Pricing{
		ID: f.cake, ProductID: cakeProd.ID, Yields: 1, SellingPrice: types.MustMoney("30.00"),
	}

	f.engine = NewEngine(f.orders, Deps{
		Customers:   customerLookup{f.cat},
		Pricings:    pricingLookup{f.cat},
		Products:    productLookup{f.cat},
		Stock:       f.ledger,
		Messages:    f.messages,
		Broadcaster: f.events,
		TxManager:   inlineTx{},
	})
	return f
}

func (f *fixture) request(items ...CreateItem) CreateRequest {
	return CreateRequest{
		CustomerID: f.customer,
		DueDate:    time.Now().Add(48 * time.Hour),
		Items:      items,
	}
}

func TestCreate_DeductsStockAndSnapshots(t *testing.T) {
	f := newFixture(t)

	o, err := f.engine.Create(context.Background(), f.request(CreateItem{PricingID: f.bread, Quantity: 3}))
	require.NoError(t, err)

	assert.Equal(t, StatusNotStarted, o.Status)
	assert.Equal(t, "7.5", o.TotalPrice.String())
	assert.Equal(t, "Ana", o.Customer.Name)
	require.Len(t, o.Items, 1)
	require.NotNil(t, o.Items[0].Snapshot)
	assert.Equal(t, "Bread", o.Items[0].Snapshot.ProductName)

	assert.Equal(t, types.NewQuantityFromInt(4), f.ledger.stock[f.flour])
	assert.Equal(t, 1, f.messages.byOrder[o.ID])
	require.Len(t, f.events.events, 1)
	assert.Equal(t, notification.TypeOrder, f.events.events[0].Type)
}

func TestCreate_ShortageLeavesAllStockUntouched(t *testing.T) {
	f := newFixture(t)
	before := map[id.ID]types.Quantity{f.flour: f.ledger.stock[f.flour], f.sugar: f.ledger.stock[f.sugar]}

	_, err := f.engine.Create(context.Background(), f.request(
		CreateItem{PricingID: f.bread, Quantity: 1},
		CreateItem{PricingID: f.cake, Quantity: 1},
	))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, "Sugar", appErr.Details["ingredient"])
	assert.Equal(t, "5.0000", appErr.Details["requested"])
	assert.Equal(t, "1.0000", appErr.Details["available"])

	assert.Equal(t, before, f.ledger.stock)
	assert.Zero(t, f.ledger.deducts)
	assert.Empty(t, f.orders.items)
	assert.Empty(t, f.messages.byOrder)
	assert.Empty(t, f.events.events)
}

func TestCreate_AggregatesSharedIngredient(t *testing.T) {
	f := newFixture(t)
	f.ledger.stock[f.sugar] = types.NewQuantityFromInt(5)

	// bread ×4 takes 8 flour and cake ×1 takes 1 more: 9 of 10
	_, err := f.engine.Create(context.Background(), f.request(
		CreateItem{PricingID: f.bread, Quantity: 4},
		CreateItem{PricingID: f.cake, Quantity: 1},
	))
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromInt(1), f.ledger.stock[f.flour])
	assert.Equal(t, types.Quantity(0), f.ledger.stock[f.sugar])

	// one more bread needs 2 flour with only 1 left
	_, err = f.engine.Create(context.Background(), f.request(CreateItem{PricingID: f.bread, Quantity: 1}))
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))
	assert.Equal(t, types.NewQuantityFromInt(1), f.ledger.stock[f.flour])
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Create(ctx, f.request())
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))

	_, err = f.engine.Create(ctx, f.request(CreateItem{PricingID: f.bread, Quantity: 0}))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))

	req := f.request(CreateItem{PricingID: f.bread, Quantity: 1})
	req.CustomerID = id.New()
	_, err = f.engine.Create(ctx, req)
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.engine.Create(ctx, f.request(CreateItem{PricingID: id.New(), Quantity: 1}))
	assert.True(t, apperror.IsNotFound(err))

	assert.Equal(t, types.NewQuantityFromInt(10), f.ledger.stock[f.flour])
}

func TestCreate_RejectsOversizedQuantities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Create(ctx, f.request(CreateItem{PricingID: f.bread, Quantity: 922337203685477}))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))

	_, err = f.engine.Create(ctx, f.request(CreateItem{PricingID: f.bread, Quantity: MaxItemQuantity + 1}))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))

	// per-line product and cross-line sum both exceed the quantity range
	bulk := &product.Product{
		ID: id.New(), Name: "Bulk", Yield: 1, Lifecycle: product.LifecycleActive,
		Ingredients: []product.Ingredient{{InventoryID: f.flour, Name: "Flour", Quantity: types.Quantity(math.MaxInt64 / 4)}},
	}
	f.cat.products[bulk.ID] = bulk
	bulkPricing := id.New()
	f.cat.pricings[bulkPricing] = &pricing.Pricing{ID: bulkPricing, ProductID: bulk.ID, Yields: 1, SellingPrice: types.MustMoney("1")}

	_, err = f.engine.Create(ctx, f.request(CreateItem{PricingID: bulkPricing, Quantity: 5}))
	require.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "Flour", appErr.Details["ingredient"])

	_, err = f.engine.Create(ctx, f.request(
		CreateItem{PricingID: bulkPricing, Quantity: 3},
		CreateItem{PricingID: bulkPricing, Quantity: 3},
	))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))

	assert.Equal(t, types.NewQuantityFromInt(10), f.ledger.stock[f.flour])
	assert.Zero(t, f.ledger.deducts)
	assert.Empty(t, f.orders.items)
	assert.Empty(t, f.messages.byOrder)
}

func TestCreate_ConditionalDeductCatchesConcurrentDrain(t *testing.T) {
	f := newFixture(t)
	ledger := &drainingLedger{
		memLedger: f.ledger,
		drain:     map[id.ID]types.Quantity{f.flour: types.NewQuantityFromInt(5)},
	}
	f.engine.deps.Stock = ledger

	// 6 flour passes the check against the locked 10, then only 5 remain
	_, err := f.engine.Create(context.Background(), f.request(CreateItem{PricingID: f.bread, Quantity: 3}))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, "Flour", appErr.Details["ingredient"])

	assert.Equal(t, types.NewQuantityFromInt(5), f.ledger.stock[f.flour])
	assert.Zero(t, f.ledger.deducts)
	assert.Empty(t, f.orders.items)
	assert.Empty(t, f.messages.byOrder)
	assert.Empty(t, f.events.events)
}

func TestCreate_ArchivedProductIsNotFound(t *testing.T) {
	f := newFixture(t)
	f.cat.products[f.cakeProd].Lifecycle = product.LifecycleArchived
	f.ledger.stock[f.sugar] = types.NewQuantityFromInt(50)

	_, err := f.engine.Create(context.Background(), f.request(CreateItem{PricingID: f.cake, Quantity: 1}))
	assert.True(t, apperror.IsNotFound(err))
	assert.Zero(t, f.ledger.deducts)
}

func TestCancel_RestoresStockFromSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.engine.Create(ctx, f.request(CreateItem{PricingID: f.bread, Quantity: 2}))
	require.NoError(t, err)
	require.Equal(t, types.NewQuantityFromInt(6), f.ledger.stock[f.flour])

	// recipe edits after ordering do not change what is given back
	f.cat.products[f.cat.pricings[f.bread].ProductID].Ingredients[0].Quantity = types.NewQuantityFromInt(9)

	cancelled, err := f.engine.Cancel(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, types.NewQuantityFromInt(10), f.ledger.stock[f.flour])
	assert.Zero(t, f.messages.byOrder[o.ID])

	last := f.events.events[len(f.events.events)-1]
	assert.Equal(t, notification.TypeUpdate, last.Type)
	assert.Equal(t, string(StatusCancelled), last.Status)

	_, err = f.engine.Cancel(ctx, o.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState))
	assert.Equal(t, types.NewQuantityFromInt(10), f.ledger.stock[f.flour])
}

func TestUpdateStatus_Workflow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.engine.Create(ctx, f.request(CreateItem{PricingID: f.bread, Quantity: 1}))
	require.NoError(t, err)

	_, err = f.engine.UpdateStatus(ctx, o.ID, "Baking")
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))

	updated, err := f.engine.UpdateStatus(ctx, o.ID, string(StatusInProgress))
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, updated.Status)
	assert.Equal(t, 1, f.messages.byOrder[o.ID])

	eventsBefore := len(f.events.events)
	_, err = f.engine.UpdateStatus(ctx, o.ID, string(StatusInProgress))
	require.NoError(t, err)
	assert.Len(t, f.events.events, eventsBefore)

	_, err = f.engine.UpdateStatus(ctx, o.ID, string(StatusDone))
	require.NoError(t, err)
	assert.Zero(t, f.messages.byOrder[o.ID])

	_, err = f.engine.UpdateStatus(ctx, o.ID, string(StatusNotStarted))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState))

	_, err = f.engine.UpdateStatus(ctx, o.ID, string(StatusCancelled))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState))
	assert.Equal(t, types.NewQuantityFromInt(8), f.ledger.stock[f.flour])
}

func TestUpdateStatus_CancelledRestoresStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.engine.Create(ctx, f.request(CreateItem{PricingID: f.bread, Quantity: 5}))
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(0), f.ledger.stock[f.flour])

	_, err = f.engine.UpdateStatus(ctx, o.ID, string(StatusCancelled))
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromInt(10), f.ledger.stock[f.flour])
}

func TestUpdatePosition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.engine.Create(ctx, f.request(CreateItem{PricingID: f.bread, Quantity: 1}))
	require.NoError(t, err)

	moved, err := f.engine.UpdatePosition(ctx, o.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, moved.Position)

	_, err = f.engine.UpdatePosition(ctx, o.ID, -1)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))

	_, err = f.engine.UpdatePosition(ctx, id.New(), 1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusNotStarted.CanTransitionTo(StatusDone))
	assert.True(t, StatusInProgress.CanTransitionTo(StatusNotStarted))
	assert.False(t, StatusDone.CanTransitionTo(StatusInProgress))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusDone.ClearsMessages())
	assert.False(t, StatusInProgress.ClearsMessages())
}
