package storage

import (
	"errors"
	"time"

	"restaurant-manager/internal/models"
)

// ErrNotFound is returned by all Get/Update/Delete methods when the
// referenced record does not exist. Services translate it into their own
// entity-specific sentinels.
var ErrNotFound = errors.New("record not found")

// ReservationFilter narrows ListReservations. Zero values mean "no
// constraint". DayStart/DayEnd form a half-open interval [DayStart, DayEnd).
type ReservationFilter struct {
	TableID   string
	DayStart  time.Time
	DayEnd    time.Time
	Time      string
	Status    models.ReservationStatus
	ExcludeID string
}

// OrderFilter narrows ListOrders. Zero values mean "no constraint".
type OrderFilter struct {
	WaiterID string
	Status   models.OrderStatus
}

type Store interface {
	SaveTable(table *models.Table) error
	GetTable(id string) (*models.Table, error)
	GetTableByNumber(number int) (*models.Table, error)
	ListTables() ([]*models.Table, error)
	UpdateTable(table *models.Table) error
	DeleteTable(id string) error

	SaveOrder(order *models.Order) error
	GetOrder(id string) (*models.Order, error)
	ListOrders(filter OrderFilter) ([]*models.Order, error)
	UpdateOrder(order *models.Order) error
	DeleteOrder(id string) error

	SaveReservation(reservation *models.Reservation) error
	GetReservation(id string) (*models.Reservation, error)
	ListReservations(filter ReservationFilter) ([]*models.Reservation, error)
	UpdateReservation(reservation *models.Reservation) error
	DeleteReservation(id string) error

	SaveGrocery(grocery *models.Grocery) error
	GetGrocery(id string) (*models.Grocery, error)
	GetGroceryByName(name string) (*models.Grocery, error)
	ListGroceries() ([]*models.Grocery, error)
	UpdateGrocery(grocery *models.Grocery) error
	DeleteGrocery(id string) error

	SaveUser(user *models.User) error
	GetUser(id string) (*models.User, error)

	HealthCheck() error
	Close() error
}
