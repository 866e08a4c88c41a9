package models

import (
	"time"

	"github.com/uptrace/bun"
)

type OrderStatus string

const (
	OrderActive    OrderStatus = "active"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderActive, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status is final. Completed and cancelled
// orders never revert.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PayCash   PaymentMethod = "cash"
	PayCard   PaymentMethod = "card"
	PayOnline PaymentMethod = "online"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PayCash, PayCard, PayOnline:
		return true
	}
	return false
}

type ItemStatus string

const (
	ItemOrdered   ItemStatus = "ordered"
	ItemPreparing ItemStatus = "preparing"
	ItemReady     ItemStatus = "ready"
	ItemServed    ItemStatus = "served"
	ItemCancelled ItemStatus = "cancelled"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemOrdered, ItemPreparing, ItemReady, ItemServed, ItemCancelled:
		return true
	}
	return false
}

// OrderItem is embedded in its order, never stored standalone.
type OrderItem struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Quantity int        `json:"quantity"`
	Price    float64    `json:"price"`
	Status   ItemStatus `json:"status"`
	Notes    string     `json:"notes"`
}

type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID            string        `json:"id" bun:"id,pk"`
	TableID       string        `json:"table" bun:"table_id"`
	Items         []OrderItem   `json:"items" bun:"items,type:json"`
	Status        OrderStatus   `json:"status" bun:"status"`
	WaiterID      string        `json:"waiter" bun:"waiter_id"`
	TotalAmount   float64       `json:"totalAmount" bun:"total_amount"`
	PaymentStatus PaymentStatus `json:"paymentStatus" bun:"payment_status"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty" bun:"payment_method,nullzero"`
	CreatedAt     time.Time     `json:"createdAt" bun:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" bun:"updated_at"`
}

type OrderItemInput struct {
	Name     string  `json:"name" binding:"required"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Notes    string  `json:"notes"`
}

type CreateOrderRequest struct {
	TableID string           `json:"table" binding:"required"`
	Items   []OrderItemInput `json:"items" binding:"required"`
}

type ItemStatusUpdate struct {
	ItemID string     `json:"itemId"`
	Status ItemStatus `json:"status"`
}

// OrderPatch carries a partial order update. Items, when present, replaces
// the whole item list; ItemUpdates is the chef's per-item batch and leaves
// the rest of the order alone.
type OrderPatch struct {
	Items         []OrderItemInput   `json:"items"`
	Status        *OrderStatus       `json:"status"`
	PaymentStatus *PaymentStatus     `json:"paymentStatus"`
	PaymentMethod *PaymentMethod     `json:"paymentMethod"`
	ItemUpdates   []ItemStatusUpdate `json:"itemUpdates"`
}
