package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCanceled  ReservationStatus = "canceled"
	ReservationCompleted ReservationStatus = "completed"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationConfirmed, ReservationCanceled, ReservationCompleted:
		return true
	}
	return false
}

// Reservation books a table for a (date, time) slot. Date is stored at
// day granularity (truncated to midnight); Time is the wall-clock slot
// string, e.g. "19:00".
type Reservation struct {
	bun.BaseModel `bun:"table:reservations"`

	ID              string            `json:"id" bun:"id,pk"`
	CustomerName    string            `json:"customerName" bun:"customer_name"`
	CustomerPhone   string            `json:"customerPhone" bun:"customer_phone"`
	CustomerEmail   string            `json:"customerEmail,omitempty" bun:"customer_email,nullzero"`
	Date            time.Time         `json:"date" bun:"date"`
	Time            string            `json:"time" bun:"time"`
	PartySize       int               `json:"partySize" bun:"party_size"`
	TableID         string            `json:"table" bun:"table_id"`
	Status          ReservationStatus `json:"status" bun:"status"`
	SpecialRequests string            `json:"specialRequests" bun:"special_requests"`
	CreatedBy       string            `json:"createdBy" bun:"created_by"`
	CreatedAt       time.Time         `json:"createdAt" bun:"created_at"`
	UpdatedAt       time.Time         `json:"updatedAt" bun:"updated_at"`
}

type CreateReservationRequest struct {
	CustomerName    string `json:"customerName" binding:"required"`
	CustomerPhone   string `json:"customerPhone" binding:"required"`
	CustomerEmail   string `json:"customerEmail"`
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	PartySize       int    `json:"partySize" binding:"required"`
	TableID         string `json:"table" binding:"required"`
	SpecialRequests string `json:"specialRequests"`
}

// ReservationPatch carries a partial reservation update. Nil means "leave
// unchanged"; SpecialRequests may be explicitly blanked by sending an
// empty string.
type ReservationPatch struct {
	CustomerName    *string            `json:"customerName"`
	CustomerPhone   *string            `json:"customerPhone"`
	CustomerEmail   *string            `json:"customerEmail"`
	Date            *string            `json:"date"`
	Time            *string            `json:"time"`
	PartySize       *int               `json:"partySize"`
	TableID         *string            `json:"table"`
	Status          *ReservationStatus `json:"status"`
	SpecialRequests *string            `json:"specialRequests"`
}
