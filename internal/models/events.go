package models

import "time"

// Event types published to Kafka. Consumers (kitchen display, reporting)
// key off Type; the full entity snapshot rides along.
const (
	EventOrderCreated       = "order.created"
	EventOrderUpdated       = "order.updated"
	EventOrderCompleted     = "order.completed"
	EventOrderCancelled     = "order.cancelled"
	EventOrderDeleted       = "order.deleted"
	EventReservationCreated = "reservation.created"
	EventReservationUpdated = "reservation.updated"
	EventReservationDeleted = "reservation.deleted"
)

type OrderEvent struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	Order     *Order    `json:"order"`
	Timestamp time.Time `json:"timestamp"`
}

type ReservationEvent struct {
	Type          string       `json:"type"`
	ReservationID string       `json:"reservation_id"`
	Reservation   *Reservation `json:"reservation"`
	Timestamp     time.Time    `json:"timestamp"`
}
