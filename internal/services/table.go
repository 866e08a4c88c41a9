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

// TableCache is satisfied by the redis cache wrapper. The service works
// without one; every method tolerates a nil cache.
type TableCache interface {
	GetTables(ctx context.Context) ([]*models.Table, bool)
	SetTables(ctx context.Context, tables []*models.Table)
	InvalidateTables(ctx context.Context)
}

// TableService owns table CRUD and the occupancy bookkeeping driven by
// order lifecycle events. Table status and currentOrderId are mutated
// here and nowhere else, except the staff table-edit path in Update.
type TableService struct {
	store storage.Store
	cache TableCache
	log   *logger.Logger
}

func NewTableService(store storage.Store, log *logger.Logger) *TableService {
	return &TableService{
		store: store,
		log:   log,
	}
}

func (s *TableService) SetCache(cache TableCache) {
	s.cache = cache
}

func (s *TableService) Create(ctx context.Context, req models.CreateTableRequest) (*models.Table, error) {
	if req.Number < 1 {
		return nil, fmt.Errorf("%w: table number must be at least 1", ErrValidation)
	}
	if req.Capacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be at least 1", ErrValidation)
	}

	if _, err := s.store.GetTableByNumber(req.Number); err == nil {
		return nil, fmt.Errorf("%w: table with number %d already exists", ErrValidation, req.Number)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to check table number: %w", err)
	}

	now := time.Now()
	table := &models.Table{
		ID:         utils.GenerateID(utils.TablePrefix),
		Number:     req.Number,
		Capacity:   req.Capacity,
		IsOccupied: false,
		Status:     models.TableAvailable,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.SaveTable(table); err != nil {
		return nil, fmt.Errorf("failed to save table: %w", err)
	}
	s.invalidate(ctx)

	s.log.LogTable("CREATE", table.ID, fmt.Sprintf("Table %d created with capacity %d", table.Number, table.Capacity))
	return table, nil
}

func (s *TableService) Get(ctx context.Context, id string) (*models.Table, error) {
	table, err := s.store.GetTable(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return table, nil
}

func (s *TableService) List(ctx context.Context) ([]*models.Table, error) {
	if s.cache != nil {
		if tables, ok := s.cache.GetTables(ctx); ok {
			return tables, nil
		}
	}

	tables, err := s.store.ListTables()
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })

	if s.cache != nil {
		s.cache.SetTables(ctx, tables)
	}
	return tables, nil
}

// Update applies a staff table edit. Status and isOccupied are set
// verbatim: the reserved state is an independent, staff-managed signal and
// is never derived from reservation records.
func (s *TableService) Update(ctx context.Context, id string, patch models.TablePatch) (*models.Table, error) {
	table, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Validate the whole patch before applying: a rejected patch must not
	// leave the stored record half-mutated.
	if patch.Number != nil && *patch.Number != table.Number {
		if *patch.Number < 1 {
			return nil, fmt.Errorf("%w: table number must be at least 1", ErrValidation)
		}
		if _, err := s.store.GetTableByNumber(*patch.Number); err == nil {
			return nil, fmt.Errorf("%w: table with number %d already exists", ErrValidation, *patch.Number)
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("failed to check table number: %w", err)
		}
	}
	if patch.Capacity != nil && *patch.Capacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be at least 1", ErrValidation)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown table status %q", ErrValidation, *patch.Status)
	}

	// Apply to a copy: the memory store hands out aliased records.
	updated := *table
	if patch.Number != nil {
		updated.Number = *patch.Number
	}
	if patch.Capacity != nil {
		updated.Capacity = *patch.Capacity
	}
	if patch.Status != nil {
		updated.Status = *patch.Status
	}
	if patch.IsOccupied != nil {
		updated.IsOccupied = *patch.IsOccupied
	}
	updated.UpdatedAt = time.Now()

	if err := s.store.UpdateTable(&updated); err != nil {
		return nil, fmt.Errorf("failed to update table: %w", err)
	}
	s.invalidate(ctx)

	s.log.LogTable("UPDATE", updated.ID, fmt.Sprintf("Table %d updated", updated.Number))
	return &updated, nil
}

func (s *TableService) Delete(ctx context.Context, id string) error {
	table, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if table.CurrentOrderID != "" {
		return fmt.Errorf("%w: table %d has an active order", ErrValidation, table.Number)
	}

	if err := s.store.DeleteTable(id); err != nil {
		return fmt.Errorf("failed to delete table: %w", err)
	}
	s.invalidate(ctx)

	s.log.LogTable("DELETE", id, fmt.Sprintf("Table %d removed", table.Number))
	return nil
}

// OnOrderCreated marks the order's table occupied. It runs synchronously
// inside order creation: if it fails, the whole creation fails.
func (s *TableService) OnOrderCreated(ctx context.Context, order *models.Order) error {
	table, err := s.Get(ctx, order.TableID)
	if err != nil {
		return err
	}

	table.Status = models.TableOccupied
	table.IsOccupied = true
	table.CurrentOrderID = order.ID
	table.UpdatedAt = time.Now()

	if err := s.store.UpdateTable(table); err != nil {
		return fmt.Errorf("failed to mark table occupied: %w", err)
	}
	s.invalidate(ctx)

	s.log.LogTable("OCCUPY", table.ID, fmt.Sprintf("Table %d occupied by order %s", table.Number, order.ID))
	return nil
}

// ReleaseForOrder resets the order's table to available, but only while
// the table still points at this order. A table reassigned to a newer
// order is left untouched.
func (s *TableService) ReleaseForOrder(ctx context.Context, order *models.Order) error {
	table, err := s.store.GetTable(order.TableID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}

	if table.CurrentOrderID != order.ID {
		s.log.LogTable("RELEASE_SKIP", table.ID,
			fmt.Sprintf("Table %d current order is %q, not %s", table.Number, table.CurrentOrderID, order.ID))
		return nil
	}

	table.Status = models.TableAvailable
	table.IsOccupied = false
	table.CurrentOrderID = ""
	table.UpdatedAt = time.Now()

	if err := s.store.UpdateTable(table); err != nil {
		return fmt.Errorf("failed to release table: %w", err)
	}
	s.invalidate(ctx)

	s.log.LogTable("RELEASE", table.ID, fmt.Sprintf("Table %d released from order %s", table.Number, order.ID))
	return nil
}

func (s *TableService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateTables(ctx)
	}
}
