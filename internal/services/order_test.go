package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-manager/internal/models"
)

func sampleItems() []models.OrderItemInput {
	return []models.OrderItemInput{
		{Name: "Margherita Pizza", Quantity: 1, Price: 12.99},
		{Name: "Soda", Quantity: 2, Price: 2.99},
	}
}

func TestCreateOrderComputesTotal(t *testing.T) {
	env := newTestEnv(t)
	table := env.mustCreateTable(t, 1, 4)

	order := env.mustCreateOrder(t, table.ID, "usr_waiter1", sampleItems())

	assert.InDelta(t, 18.97, order.TotalAmount, 0.001)
	assert.Equal(t, models.OrderActive, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, "usr_waiter1", order.WaiterID)

	require.Len(t, order.Items, 2)
	for _, item := range order.Items {
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, models.ItemOrdered, item.Status)
	}
}

func TestCreateOrderDefaultsZeroQuantityToOne(t *testing.T) {
	env := newTestEnv(t)
	table := env.mustCreateTable(t, 1, 4)

	order := env.mustCreateOrder(t, table.ID, "usr_waiter1", []models.OrderItemInput{
		{Name: "Espresso", Price: 3.50},
	})

	require.Len(t, order.Items, 1)
	assert.Equal(t, 1, order.Items[0].Quantity)
	assert.InDelta(t, 3.50, order.TotalAmount, 0.001)
}

func TestCreateOrderValidation(t *testing.T) {
	env := newTestEnv(t)
	table := env.mustCreateTable(t, 1, 4)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     models.CreateOrderRequest
		wantErr error
	}{
		{
			name:    "missing table",
			req:     models.CreateOrderRequest{Items: sampleItems()},
			wantErr: ErrValidation,
		},
		{
			name:    "no items",
			req:     models.CreateOrderRequest{TableID: table.ID},
			wantErr: ErrValidation,
		},
		{
			name:    "unknown table",
			req:     models.CreateOrderRequest{TableID: "tbl_missing", Items: sampleItems()},
			wantErr: ErrTableNotFound,
		},
		{
			name: "unnamed item",
			req: models.CreateOrderRequest{
				TableID: table.ID,
				Items:   []models.OrderItemInput{{Price: 5}},
			},
			wantErr: ErrValidation,
		},
		{
			name: "negative price",
			req: models.CreateOrderRequest{
				TableID: table.ID,
				Items:   []models.OrderItemInput{{Name: "Soup", Price: -1}},
			},
			wantErr: ErrValidation,
		},
		{
			name: "negative quantity",
			req: models.CreateOrderRequest{
				TableID: table.ID,
				Items:   []models.OrderItemInput{{Name: "Soup", Quantity: -2, Price: 4}},
			},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.orders.Create(ctx, tt.req, "usr_waiter1")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateOrderMarksTableOccupied(t *testing.T) {
	env := newTestEnv(t)
	table := env.mustCreateTable(t, 1, 4)

	order := env.mustCreateOrder(t, table.ID, "usr_waiter1", sampleItems())

	updated, err := env.tables.Get(context.Background(), table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, updated.Status)
	assert.True(t, updated.IsOccupied)
	assert.Equal(t, order.ID, updated.CurrentOrderID)

	event := env.events.lastOrderEvent()
	require.NotNil(t, event)
	assert.Equal(t, models.EventOrderCreated, event.Type)
	assert.Equal(t, order.ID, event.OrderID)
}

func TestUpdateOrderReplacingItemsRecomputesTotal(t *testing.T) {
	env := newTestEnv(t)
	table := env.mustCreateTable(t, 1, 4)
	order := env.mustCreateOrder(t, table.ID, "usr_waiter1", sampleItems())

	updated, err := env.orders.Update(context.Background(), order.ID, models.OrderPatch{
		Items: []models.OrderItemInput{
			{Name: "Steak", Quantity: 1, Price: 24.50},
			{Name: "Wine", Quantity: 2, Price: 8.00},
		},
	}, models.RoleWaiter, "usr_waiter1")
	require.NoError(t, err)

	assert.InDelta(t, 40.50, updated.TotalAmount, 0.001)
	require.Len(t, updated.Items, 2)
	assert.Equal(t, models.ItemOrdered, updated.Items[0].Status)
}

func TestUpdateOrderWaiterOwnership(t *testing.T) {
	env := newTestEnv(t)
	table := env.mustCreateTable(t, 1, 4)
	order := env.mustCreateOrder(t, table.ID, "usr_waiter1", sampleItems())
	ctx := context.Background()

	patch := models.OrderPatch{PaymentStatus: paymentStatusPtr(models.PaymentPaid)}

	_, err := env.orders.Update(ctx, order.ID, patch, models.RoleWaiter, "usr_waiter2")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = env.orders.Update(ctx, order.ID, patch, models.RoleWaiter, "usr_waiter1")
	assert.NoError(t, err)

	// Admins bypass the ownership check.
	_, err = env.orders.Update(ctx, order.ID, models.OrderPatch{
		PaymentMethod: paymentMethodPtr(models.PayCard),
	}, models.RoleAdmin, "usr_admin")
	assert.NoError(t, err)
}

func TestUpdateOrderChefItemStatusOnly(t *testing.T) {
	env := newTestEnv(t)
	table := env.mustCreateTable(t, 1, 4)
	order := env.mustCreateOrder(t, table.ID, "usr_waiter1", sampleItems())
	ctx := context.Background()

	// Anything beyond itemUpdates is off-limits for a chef.
	_, err := env.orders.Update(ctx, order.ID, models.OrderPatch{
		Status: orderStatusPtr(models.OrderCompleted),
	}, models.RoleChef, "usr_chef")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = env.orders.Update(ctx, order.ID, models.OrderPatch{
		Items: sampleItems(),
	}, models.RoleChef, "usr_chef")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	updated, err := env.orders.Update(ctx, order.ID, models.OrderPatch{
		ItemUpdates: []models.ItemStatusUpdate{
			{ItemID: order.Items[0].ID, Status: models.ItemPreparing},
			{ItemID: "itm_stale", Status: models.ItemReady},
		},
	}, models.RoleChef, "usr_chef")
	require.NoError(t, err)

	assert.Equal(t, models.ItemPreparing, updated.Items[0].Status)
	// The stale id was silently skipped; nothing else changed.
	assert.Equal(t, models.ItemOrdered, updated.Items[1].Status)
	assert.InDelta(t, order.TotalAmount, updated.TotalAmount, 0.001)
}

func TestUpdateOrderItemUpdatesIgnoredForNonChefs(t *testing.T) {
	env := newTestEnv(t)
	table := env.mustCreateTable(t, 1, 4)
	order := env.mustCreateOrder(t, table.ID, "usr_waiter1", sampleItems())

	updated, err := env.orders.Update(context.Background(), order.ID, models.OrderPatch{
		ItemUpdates: []models.ItemStatusUpdate{
			{ItemID: order.Items[0].ID, Status: models.ItemServed},
		},
	}, models.RoleWaiter, "usr_waiter1")
	require.NoError(t, err)

	assert.Equal(t, models.ItemOrdered, updated.Items[0].Status)
}

func TestCompletingOrderReleasesTable(t *testing.T) {
	env := newTestEnv(t)
	table := env.mustCreateTable(t, 1, 4)
	order := env.mustCreateOrder(t, table.ID, "usr_waiter1", sampleItems())
	ctx := context.Background()

	_, err := env.orders.Update(ctx, order.ID, models.OrderPatch{
		Status: orderStatusPtr(models.OrderCompleted),
	}, models.RoleAdmin, "usr_admin")
	require.NoError(t, err)

	released, err := env.tables.Get(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, released.Status)
	assert.False(t, released.IsOccupied)
	assert.Empty(t, released.CurrentOrderID)

	event := env.events.lastOrderEvent()
	require.NotNil(t, event)
	assert.Equal(t, models.EventOrderCompleted, event.Type)
}

func TestTerminalOrderStatusNeverReverts(t *testing.T) {
	env := newTestEnv(t)
	table := env.mustCreateTable(t, 1, 4)
	order := env.mustCreateOrder(t, table.ID, "usr_waiter1", sampleItems())
	ctx := context.Background()

	_, err := env.orders.Update(ctx, order.ID, models.OrderPatch{
		Status: orderStatusPtr(models.OrderCancelled),
	}, models.RoleAdmin, "usr_admin")
	require.NoError(t, err)

	_, err = env.orders.Update(ctx, order.ID, models.OrderPatch{
		Status: orderStatusPtr(models.OrderActive),
	}, models.RoleAdmin, "usr_admin")
	assert.ErrorIs(t, err, ErrValidation)

	// Re-sending the same terminal status is a no-op, not an error.
	_, err = env.orders.Update(ctx, order.ID, models.OrderPatch{
		Status: orderStatusPtr(models.OrderCancelled),
	}, models.RoleAdmin, "usr_admin")
	assert.NoError(t, err)
}

func TestRejectedPatchLeavesNoPartialState(t *testing.T) {
	env := newTestEnv(t)
	table := env.mustCreateTable(t, 1, 4)
	order := env.mustCreateOrder(t, table.ID, "usr_waiter1", sampleItems())
	ctx := context.Background()

	// One bad field rejects the whole patch: the valid completion must not
	// have released the table or touched the stored order.
	_, err := env.orders.Update(ctx, order.ID, models.OrderPatch{
		Status:        orderStatusPtr(models.OrderCompleted),
		PaymentStatus: paymentStatusPtr(models.PaymentStatus("bogus")),
	}, models.RoleAdmin, "usr_admin")
	require.ErrorIs(t, err, ErrValidation)

	held, err := env.tables.Get(ctx, table.ID)
	require.NoError(t, err)
	assert.True(t, held.IsOccupied)
	assert.Equal(t, order.ID, held.CurrentOrderID)
	assert.Equal(t, models.TableOccupied, held.Status)

	stored, err := env.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderActive, stored.Status)
	assert.Equal(t, models.PaymentPending, stored.PaymentStatus)

	// Same for a bad item status riding along with a valid batch entry.
	_, err = env.orders.Update(ctx, order.ID, models.OrderPatch{
		ItemUpdates: []models.ItemStatusUpdate{
			{ItemID: order.Items[0].ID, Status: models.ItemPreparing},
			{ItemID: order.Items[1].ID, Status: models.ItemStatus("burnt")},
		},
	}, models.RoleChef, "usr_chef")
	require.ErrorIs(t, err, ErrValidation)

	stored, err = env.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemOrdered, stored.Items[0].Status)
}

func TestDeleteOrderReleasesTableWhenStillHeld(t *testing.T) {
	env := newTestEnv(t)
	table := env.mustCreateTable(t, 1, 4)
	order := env.mustCreateOrder(t, table.ID, "usr_waiter1", sampleItems())
	ctx := context.Background()

	require.NoError(t, env.orders.Delete(ctx, order.ID))

	released, err := env.tables.Get(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, released.Status)
	assert.Empty(t, released.CurrentOrderID)

	_, err = env.orders.Get(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDeleteOrderLeavesReassignedTableAlone(t *testing.T) {
	env := newTestEnv(t)
	table := env.mustCreateTable(t, 1, 4)
	ctx := context.Background()

	first := env.mustCreateOrder(t, table.ID, "usr_waiter1", sampleItems())
	second := env.mustCreateOrder(t, table.ID, "usr_waiter2", sampleItems())

	require.NoError(t, env.orders.Delete(ctx, first.ID))

	held, err := env.tables.Get(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, held.Status)
	assert.Equal(t, second.ID, held.CurrentOrderID)
}

// Two orders can land on the same table: creation does not check current
// occupancy, and the table ends up pointing at whichever order wrote last.
// The guarded release keeps the earlier order's completion from freeing a
// table the later order still holds.
func TestCreateOrderRaceWindow(t *testing.T) {
	env := newTestEnv(t)
	table := env.mustCreateTable(t, 1, 4)
	ctx := context.Background()

	first := env.mustCreateOrder(t, table.ID, "usr_waiter1", sampleItems())
	second := env.mustCreateOrder(t, table.ID, "usr_waiter2", sampleItems())
	require.NotEqual(t, first.ID, second.ID)

	_, err := env.orders.Update(ctx, first.ID, models.OrderPatch{
		Status: orderStatusPtr(models.OrderCompleted),
	}, models.RoleAdmin, "usr_admin")
	require.NoError(t, err)

	held, err := env.tables.Get(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, held.CurrentOrderID)
	assert.True(t, held.IsOccupied)
}

func TestListOrdersScopedToWaiter(t *testing.T) {
	env := newTestEnv(t)
	tableA := env.mustCreateTable(t, 1, 4)
	tableB := env.mustCreateTable(t, 2, 2)
	ctx := context.Background()

	mine := env.mustCreateOrder(t, tableA.ID, "usr_waiter1", sampleItems())
	env.mustCreateOrder(t, tableB.ID, "usr_waiter2", sampleItems())

	orders, err := env.orders.List(ctx, models.RoleWaiter, "usr_waiter1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].ID)

	all, err := env.orders.List(ctx, models.RoleAdmin, "usr_admin")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestKitchenOrdersActiveOldestFirst(t *testing.T) {
	env := newTestEnv(t)
	tableA := env.mustCreateTable(t, 1, 4)
	tableB := env.mustCreateTable(t, 2, 2)
	tableC := env.mustCreateTable(t, 3, 6)
	ctx := context.Background()

	oldest := env.mustCreateOrder(t, tableA.ID, "usr_waiter1", sampleItems())
	done := env.mustCreateOrder(t, tableB.ID, "usr_waiter1", sampleItems())
	newest := env.mustCreateOrder(t, tableC.ID, "usr_waiter2", sampleItems())

	_, err := env.orders.Update(ctx, done.ID, models.OrderPatch{
		Status: orderStatusPtr(models.OrderCompleted),
	}, models.RoleAdmin, "usr_admin")
	require.NoError(t, err)

	kitchen, err := env.orders.KitchenOrders(ctx)
	require.NoError(t, err)
	require.Len(t, kitchen, 2)
	assert.Equal(t, oldest.ID, kitchen[0].ID)
	assert.Equal(t, newest.ID, kitchen[1].ID)
}
