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

// GroceryService manages the kitchen inventory.
type GroceryService struct {
	store storage.Store
	log   *logger.Logger
}

func NewGroceryService(store storage.Store, log *logger.Logger) *GroceryService {
	return &GroceryService{
		store: store,
		log:   log,
	}
}

func (s *GroceryService) Create(ctx context.Context, req models.CreateGroceryRequest, updaterID string) (*models.Grocery, error) {
	if req.Name == "" || req.Category == "" {
		return nil, fmt.Errorf("%w: name and category are required", ErrValidation)
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}

	if _, err := s.store.GetGroceryByName(req.Name); err == nil {
		return nil, fmt.Errorf("%w: item %q already exists", ErrValidation, req.Name)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to check grocery name: %w", err)
	}

	unit := req.Unit
	if unit == "" {
		unit = "kg"
	}
	minQuantity := req.MinQuantity
	if minQuantity <= 0 {
		minQuantity = 5
	}

	now := time.Now()
	grocery := &models.Grocery{
		ID:          utils.GenerateID(utils.GroceryPrefix),
		Name:        req.Name,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Unit:        unit,
		MinQuantity: minQuantity,
		UpdatedBy:   updaterID,
		LastUpdated: now,
		CreatedAt:   now,
	}

	if err := s.store.SaveGrocery(grocery); err != nil {
		return nil, fmt.Errorf("failed to save grocery: %w", err)
	}

	s.log.Info("GROCERY", fmt.Sprintf("Item %q created in category %q", grocery.Name, grocery.Category))
	return grocery, nil
}

func (s *GroceryService) Update(ctx context.Context, id string, patch models.GroceryPatch, updaterID string) (*models.Grocery, error) {
	grocery, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Quantity != nil && *patch.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}

	// Apply to a copy: the memory store hands out aliased records.
	updated := *grocery
	if patch.Name != nil && *patch.Name != "" {
		updated.Name = *patch.Name
	}
	if patch.Category != nil && *patch.Category != "" {
		updated.Category = *patch.Category
	}
	// quantity may legitimately be set to zero when the shelf runs out.
	if patch.Quantity != nil {
		updated.Quantity = *patch.Quantity
	}
	if patch.Unit != nil && *patch.Unit != "" {
		updated.Unit = *patch.Unit
	}
	if patch.MinQuantity != nil && *patch.MinQuantity > 0 {
		updated.MinQuantity = *patch.MinQuantity
	}
	updated.UpdatedBy = updaterID
	updated.LastUpdated = time.Now()

	if err := s.store.UpdateGrocery(&updated); err != nil {
		return nil, fmt.Errorf("failed to update grocery: %w", err)
	}

	s.log.Info("GROCERY", fmt.Sprintf("Item %q updated by %s", updated.Name, updaterID))
	return &updated, nil
}

func (s *GroceryService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteGrocery(id); err != nil {
		return fmt.Errorf("failed to delete grocery: %w", err)
	}
	s.log.Info("GROCERY", fmt.Sprintf("Item %s removed", id))
	return nil
}

func (s *GroceryService) Get(ctx context.Context, id string) (*models.Grocery, error) {
	grocery, err := s.store.GetGrocery(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrGroceryNotFound
		}
		return nil, err
	}
	return grocery, nil
}

func (s *GroceryService) List(ctx context.Context) ([]*models.Grocery, error) {
	groceries, err := s.store.ListGroceries()
	if err != nil {
		return nil, fmt.Errorf("failed to list groceries: %w", err)
	}
	sort.Slice(groceries, func(i, j int) bool {
		if groceries[i].Category != groceries[j].Category {
			return groceries[i].Category < groceries[j].Category
		}
		return groceries[i].Name < groceries[j].Name
	})
	return groceries, nil
}

func (s *GroceryService) LowStock(ctx context.Context) ([]*models.Grocery, error) {
	groceries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]*models.Grocery, 0)
	for _, grocery := range groceries {
		if grocery.LowStock() {
			low = append(low, grocery)
		}
	}
	return low, nil
}
