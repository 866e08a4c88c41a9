package storage

import (
	"strings"
	"sync"

	"restaurant-manager/internal/models"
)

// InMemoryStore keeps everything in maps behind a single RWMutex. Used for
// local development and as the test double for service tests.
type InMemoryStore struct {
	mutex        sync.RWMutex
	tables       map[string]*models.Table
	orders       map[string]*models.Order
	reservations map[string]*models.Reservation
	groceries    map[string]*models.Grocery
	users        map[string]*models.User
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		tables:       make(map[string]*models.Table),
		orders:       make(map[string]*models.Order),
		reservations: make(map[string]*models.Reservation),
		groceries:    make(map[string]*models.Grocery),
		users:        make(map[string]*models.User),
	}
}

func (s *InMemoryStore) SaveTable(table *models.Table) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.tables[table.ID] = table
	return nil
}

func (s *InMemoryStore) GetTable(id string) (*models.Table, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	table, exists := s.tables[id]
	if !exists {
		return nil, ErrNotFound
	}
	return table, nil
}

func (s *InMemoryStore) GetTableByNumber(number int) (*models.Table, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	for _, table := range s.tables {
		if table.Number == number {
			return table, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) ListTables() ([]*models.Table, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	tables := make([]*models.Table, 0, len(s.tables))
	for _, table := range s.tables {
		tables = append(tables, table)
	}
	return tables, nil
}

func (s *InMemoryStore) UpdateTable(table *models.Table) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.tables[table.ID]; !exists {
		return ErrNotFound
	}
	s.tables[table.ID] = table
	return nil
}

func (s *InMemoryStore) DeleteTable(id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.tables[id]; !exists {
		return ErrNotFound
	}
	delete(s.tables, id)
	return nil
}

func (s *InMemoryStore) SaveOrder(order *models.Order) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.orders[order.ID] = order
	return nil
}

func (s *InMemoryStore) GetOrder(id string) (*models.Order, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	order, exists := s.orders[id]
	if !exists {
		return nil, ErrNotFound
	}
	return order, nil
}

func (s *InMemoryStore) ListOrders(filter OrderFilter) ([]*models.Order, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var orders []*models.Order
	for _, order := range s.orders {
		if filter.WaiterID != "" && order.WaiterID != filter.WaiterID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (s *InMemoryStore) UpdateOrder(order *models.Order) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.orders[order.ID]; !exists {
		return ErrNotFound
	}
	s.orders[order.ID] = order
	return nil
}

func (s *InMemoryStore) DeleteOrder(id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.orders[id]; !exists {
		return ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *InMemoryStore) SaveReservation(reservation *models.Reservation) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.reservations[reservation.ID] = reservation
	return nil
}

func (s *InMemoryStore) GetReservation(id string) (*models.Reservation, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	reservation, exists := s.reservations[id]
	if !exists {
		return nil, ErrNotFound
	}
	return reservation, nil
}

func (s *InMemoryStore) ListReservations(filter ReservationFilter) ([]*models.Reservation, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var reservations []*models.Reservation
	for _, r := range s.reservations {
		if filter.TableID != "" && r.TableID != filter.TableID {
			continue
		}
		if !filter.DayStart.IsZero() && r.Date.Before(filter.DayStart) {
			continue
		}
		if !filter.DayEnd.IsZero() && !r.Date.Before(filter.DayEnd) {
			continue
		}
		if filter.Time != "" && r.Time != filter.Time {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.ExcludeID != "" && r.ID == filter.ExcludeID {
			continue
		}
		reservations = append(reservations, r)
	}
	return reservations, nil
}

func (s *InMemoryStore) UpdateReservation(reservation *models.Reservation) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.reservations[reservation.ID]; !exists {
		return ErrNotFound
	}
	s.reservations[reservation.ID] = reservation
	return nil
}

func (s *InMemoryStore) DeleteReservation(id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.reservations[id]; !exists {
		return ErrNotFound
	}
	delete(s.reservations, id)
	return nil
}

func (s *InMemoryStore) SaveGrocery(grocery *models.Grocery) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.groceries[grocery.ID] = grocery
	return nil
}

func (s *InMemoryStore) GetGrocery(id string) (*models.Grocery, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	grocery, exists := s.groceries[id]
	if !exists {
		return nil, ErrNotFound
	}
	return grocery, nil
}

func (s *InMemoryStore) GetGroceryByName(name string) (*models.Grocery, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	for _, grocery := range s.groceries {
		if strings.EqualFold(grocery.Name, name) {
			return grocery, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) ListGroceries() ([]*models.Grocery, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	groceries := make([]*models.Grocery, 0, len(s.groceries))
	for _, grocery := range s.groceries {
		groceries = append(groceries, grocery)
	}
	return groceries, nil
}

func (s *InMemoryStore) UpdateGrocery(grocery *models.Grocery) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.groceries[grocery.ID]; !exists {
		return ErrNotFound
	}
	s.groceries[grocery.ID] = grocery
	return nil
}

func (s *InMemoryStore) DeleteGrocery(id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.groceries[id]; !exists {
		return ErrNotFound
	}
	delete(s.groceries, id)
	return nil
}

func (s *InMemoryStore) SaveUser(user *models.User) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.users[user.ID] = user
	return nil
}

func (s *InMemoryStore) GetUser(id string) (*models.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	user, exists := s.users[id]
	if !exists {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *InMemoryStore) HealthCheck() error { return nil }

func (s *InMemoryStore) Close() error { return nil }
