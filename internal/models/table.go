package models

import (
	"time"

	"github.com/uptrace/bun"
)

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableReserved  TableStatus = "reserved"
	TableOccupied  TableStatus = "occupied"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableReserved, TableOccupied:
		return true
	}
	return false
}

type Table struct {
	bun.BaseModel `bun:"table:tables"`

	ID             string      `json:"id" bun:"id,pk"`
	Number         int         `json:"tableNumber" bun:"table_number"`
	Capacity       int         `json:"capacity" bun:"capacity"`
	IsOccupied     bool        `json:"isOccupied" bun:"is_occupied"`
	Status         TableStatus `json:"status" bun:"status"`
	CurrentOrderID string      `json:"currentOrderId,omitempty" bun:"current_order_id,nullzero"`
	CreatedAt      time.Time   `json:"createdAt" bun:"created_at"`
	UpdatedAt      time.Time   `json:"updatedAt" bun:"updated_at"`
}

type CreateTableRequest struct {
	Number   int `json:"tableNumber" binding:"required"`
	Capacity int `json:"capacity" binding:"required"`
}

// TablePatch carries a partial table update. Nil means "leave unchanged".
// Status and IsOccupied are set verbatim: the reserved state is staff-managed
// and is never derived from reservation records.
type TablePatch struct {
	Number     *int         `json:"tableNumber"`
	Capacity   *int         `json:"capacity"`
	Status     *TableStatus `json:"status"`
	IsOccupied *bool        `json:"isOccupied"`
}
