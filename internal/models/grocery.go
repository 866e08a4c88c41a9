package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Grocery struct {
	bun.BaseModel `bun:"table:groceries"`

	ID          string    `json:"id" bun:"id,pk"`
	Name        string    `json:"name" bun:"name,unique"`
	Category    string    `json:"category" bun:"category"`
	Quantity    float64   `json:"quantity" bun:"quantity"`
	Unit        string    `json:"unit" bun:"unit"`
	MinQuantity float64   `json:"minQuantity" bun:"min_quantity"`
	UpdatedBy   string    `json:"updatedBy" bun:"updated_by"`
	LastUpdated time.Time `json:"lastUpdated" bun:"last_updated"`
	CreatedAt   time.Time `json:"createdAt" bun:"created_at"`
}

// LowStock reports whether the item needs restocking.
func (g *Grocery) LowStock() bool {
	return g.Quantity <= g.MinQuantity
}

type CreateGroceryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	MinQuantity float64 `json:"minQuantity"`
}

type GroceryPatch struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Quantity    *float64 `json:"quantity"`
	Unit        *string  `json:"unit"`
	MinQuantity *float64 `json:"minQuantity"`
}
