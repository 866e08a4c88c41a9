package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"restaurant-manager/internal/logger"
	"restaurant-manager/internal/models"
	"restaurant-manager/internal/storage"
)

// eventRecorder captures published events so tests can assert on them.
type eventRecorder struct {
	orders       []*models.OrderEvent
	reservations []*models.ReservationEvent
}

func (r *eventRecorder) PublishOrderEvent(event *models.OrderEvent) error {
	r.orders = append(r.orders, event)
	return nil
}

func (r *eventRecorder) PublishReservationEvent(event *models.ReservationEvent) error {
	r.reservations = append(r.reservations, event)
	return nil
}

func (r *eventRecorder) lastOrderEvent() *models.OrderEvent {
	if len(r.orders) == 0 {
		return nil
	}
	return r.orders[len(r.orders)-1]
}

type testEnv struct {
	store        *storage.InMemoryStore
	tables       *TableService
	orders       *OrderService
	reservations *ReservationService
	groceries    *GroceryService
	events       *eventRecorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.NewLogger()
	t.Cleanup(func() { log.Close() })

	store := storage.NewInMemoryStore()
	events := &eventRecorder{}
	tables := NewTableService(store, log)

	return &testEnv{
		store:        store,
		tables:       tables,
		orders:       NewOrderService(store, tables, events, log),
		reservations: NewReservationService(store, events, log),
		groceries:    NewGroceryService(store, log),
		events:       events,
	}
}

func (env *testEnv) mustCreateTable(t *testing.T, number, capacity int) *models.Table {
	t.Helper()
	table, err := env.tables.Create(context.Background(), models.CreateTableRequest{
		Number:   number,
		Capacity: capacity,
	})
	require.NoError(t, err)
	return table
}

func (env *testEnv) mustCreateOrder(t *testing.T, tableID, waiterID string, items []models.OrderItemInput) *models.Order {
	t.Helper()
	order, err := env.orders.Create(context.Background(), models.CreateOrderRequest{
		TableID: tableID,
		Items:   items,
	}, waiterID)
	require.NoError(t, err)
	return order
}

func (env *testEnv) mustCreateReservation(t *testing.T, req models.CreateReservationRequest) *models.Reservation {
	t.Helper()
	reservation, err := env.reservations.Create(context.Background(), req, "usr_reception")
	require.NoError(t, err)
	return reservation
}

func strPtr(s string) *string                                  { return &s }
func intPtr(n int) *int                                        { return &n }
func floatPtr(f float64) *float64                              { return &f }
func boolPtr(b bool) *bool                                     { return &b }
func orderStatusPtr(s models.OrderStatus) *models.OrderStatus  { return &s }
func tableStatusPtr(s models.TableStatus) *models.TableStatus  { return &s }
func paymentStatusPtr(s models.PaymentStatus) *models.PaymentStatus {
	return &s
}
func paymentMethodPtr(m models.PaymentMethod) *models.PaymentMethod {
	return &m
}
func reservationStatusPtr(s models.ReservationStatus) *models.ReservationStatus {
	return &s
}
