package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"restaurant-manager/internal/logger"
	"restaurant-manager/internal/models"
	"restaurant-manager/internal/storage"
	"restaurant-manager/internal/utils"
)

type OrderPublisher interface {
	PublishOrderEvent(event *models.OrderEvent) error
}

// OrderService owns the order lifecycle: totals are recomputed from the
// item list on every mutation, and table occupancy is kept in sync through
// the table service. Role refinements that need the caller identity
// (waiter ownership, chef item-status-only) live here rather than in the
// policy table.
type OrderService struct {
	store    storage.Store
	tables   *TableService
	producer OrderPublisher
	log      *logger.Logger
}

func NewOrderService(store storage.Store, tables *TableService, producer OrderPublisher, log *logger.Logger) *OrderService {
	return &OrderService{
		store:    store,
		tables:   tables,
		producer: producer,
		log:      log,
	}
}

func (s *OrderService) Create(ctx context.Context, req models.CreateOrderRequest, waiterID string) (*models.Order, error) {
	if req.TableID == "" || len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: a table and at least one item are required", ErrValidation)
	}

	if _, err := s.store.GetTable(req.TableID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}

	items, err := buildItems(req.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		ID:            utils.GenerateID(utils.OrderPrefix),
		TableID:       req.TableID,
		Items:         items,
		Status:        models.OrderActive,
		WaiterID:      waiterID,
		TotalAmount:   computeTotal(items),
		PaymentStatus: models.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.SaveOrder(order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	// Synchronous by design: order creation is not committed until the
	// table is marked occupied. A failure here after the order write is a
	// known inconsistency window, there is no compensating rollback.
	if err := s.tables.OnOrderCreated(ctx, order); err != nil {
		s.log.Error("ORDER", fmt.Sprintf("Order %s saved but table update failed: %v", order.ID, err))
		return nil, fmt.Errorf("failed to occupy table: %w", err)
	}

	s.log.LogOrder("CREATE", order.ID,
		fmt.Sprintf("Order for table %s by waiter %s, total %.2f", order.TableID, waiterID, order.TotalAmount))
	s.publishEvent(models.EventOrderCreated, order)

	return order, nil
}

// Update applies a partial order edit on behalf of callerID. A waiter may
// only touch their own orders; a chef may only send itemUpdates.
func (s *OrderService) Update(ctx context.Context, id string, patch models.OrderPatch, callerRole models.Role, callerID string) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if callerRole == models.RoleWaiter && order.WaiterID != callerID {
		return nil, fmt.Errorf("%w: waiters may only update their own orders", ErrNotAuthorized)
	}
	if callerRole == models.RoleChef &&
		(patch.Items != nil || patch.Status != nil || patch.PaymentStatus != nil || patch.PaymentMethod != nil) {
		return nil, fmt.Errorf("%w: chefs may only update item statuses", ErrNotAuthorized)
	}

	// Validate the whole patch before touching anything. A rejected patch
	// must leave no partial state: no table release, no mutated record.
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, *patch.Status)
		}
		if order.Status.Terminal() && *patch.Status != order.Status {
			return nil, fmt.Errorf("%w: %s orders cannot change status", ErrValidation, order.Status)
		}
	}
	if patch.PaymentStatus != nil && !patch.PaymentStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown payment status %q", ErrValidation, *patch.PaymentStatus)
	}
	if patch.PaymentMethod != nil && !patch.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, *patch.PaymentMethod)
	}
	for _, update := range patch.ItemUpdates {
		if !update.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown item status %q", ErrValidation, update.Status)
		}
	}

	var newItems []models.OrderItem
	if patch.Items != nil {
		items, err := buildItems(patch.Items)
		if err != nil {
			return nil, err
		}
		newItems = items
	}

	// Apply to a copy: the memory store hands out aliased records, and the
	// stored order must not change unless the update commits.
	updated := *order
	updated.Items = append([]models.OrderItem(nil), order.Items...)
	if newItems != nil {
		updated.Items = newItems
		updated.TotalAmount = computeTotal(newItems)
	}

	eventType := models.EventOrderUpdated
	if patch.Status != nil {
		updated.Status = *patch.Status

		switch updated.Status {
		case models.OrderCompleted:
			eventType = models.EventOrderCompleted
		case models.OrderCancelled:
			eventType = models.EventOrderCancelled
		}
		if updated.Status.Terminal() {
			if err := s.tables.ReleaseForOrder(ctx, &updated); err != nil {
				return nil, fmt.Errorf("failed to release table: %w", err)
			}
		}
	}

	if patch.PaymentStatus != nil {
		updated.PaymentStatus = *patch.PaymentStatus
	}
	if patch.PaymentMethod != nil {
		updated.PaymentMethod = *patch.PaymentMethod
	}

	// Per-item batch used by the kitchen. Unmatched item ids are silently
	// skipped so a stale kitchen screen cannot fail the whole batch.
	if len(patch.ItemUpdates) > 0 && callerRole == models.RoleChef {
		for _, update := range patch.ItemUpdates {
			for i := range updated.Items {
				if updated.Items[i].ID == update.ItemID {
					updated.Items[i].Status = update.Status
					break
				}
			}
		}
	}

	updated.UpdatedAt = time.Now()
	if err := s.store.UpdateOrder(&updated); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.log.LogOrder("UPDATE", updated.ID, fmt.Sprintf("Order updated by %s (%s)", callerID, callerRole))
	s.publishEvent(eventType, &updated)

	return &updated, nil
}

// Delete releases the order's table (guarded) before removing the record.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.tables.ReleaseForOrder(ctx, order); err != nil {
		return fmt.Errorf("failed to release table: %w", err)
	}
	if err := s.store.DeleteOrder(id); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	s.log.LogOrder("DELETE", id, "Order removed")
	s.publishEvent(models.EventOrderDeleted, order)
	return nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.store.GetOrder(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// List returns orders newest first. Waiters only see their own.
func (s *OrderService) List(ctx context.Context, callerRole models.Role, callerID string) ([]*models.Order, error) {
	filter := storage.OrderFilter{}
	if callerRole == models.RoleWaiter {
		filter.WaiterID = callerID
	}

	orders, err := s.store.ListOrders(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

// KitchenOrders returns active orders oldest first, the order the kitchen
// should work them.
func (s *OrderService) KitchenOrders(ctx context.Context) ([]*models.Order, error) {
	orders, err := s.store.ListOrders(storage.OrderFilter{Status: models.OrderActive})
	if err != nil {
		return nil, fmt.Errorf("failed to list kitchen orders: %w", err)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.Before(orders[j].CreatedAt) })
	return orders, nil
}

func buildItems(inputs []models.OrderItemInput) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	for _, input := range inputs {
		if input.Name == "" {
			return nil, fmt.Errorf("%w: item name is required", ErrValidation)
		}
		if input.Quantity < 0 {
			return nil, fmt.Errorf("%w: item quantity cannot be negative", ErrValidation)
		}
		if input.Price < 0 {
			return nil, fmt.Errorf("%w: item price cannot be negative", ErrValidation)
		}
		quantity := input.Quantity
		if quantity == 0 {
			quantity = 1
		}
		items = append(items, models.OrderItem{
			ID:       utils.GenerateID(utils.OrderItemPrefix),
			Name:     input.Name,
			Quantity: quantity,
			Price:    input.Price,
			Status:   models.ItemOrdered,
			Notes:    input.Notes,
		})
	}
	return items, nil
}

func computeTotal(items []models.OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func (s *OrderService) publishEvent(eventType string, order *models.Order) {
	if s.producer == nil {
		return
	}
	event := &models.OrderEvent{
		Type:      eventType,
		OrderID:   order.ID,
		Order:     order,
		Timestamp: time.Now(),
	}
	if err := s.producer.PublishOrderEvent(event); err != nil {
		s.log.Error("KAFKA", fmt.Sprintf("Failed to publish %s for order %s: %v", eventType, order.ID, err))
	}
}
