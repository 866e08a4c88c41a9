package services

import "errors"

// All service errors are terminal: the caller decides whether to retry,
// the services never do. Handlers translate these into HTTP statuses.
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotAuthorized       = errors.New("not authorized")
	ErrSlotConflict        = errors.New("table is already reserved for this time")
	ErrTableNotFound       = errors.New("table not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrGroceryNotFound     = errors.New("grocery item not found")
)
