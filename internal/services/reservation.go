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

const dateLayout = "2006-01-02"

type ReservationPublisher interface {
	PublishReservationEvent(event *models.ReservationEvent) error
}

// ReservationService books tables into (date, time) slots. The conflict
// key is the (table, calendar day, time string) triple; availability is
// derived purely from confirmed reservations, never from live table
// occupancy.
type ReservationService struct {
	store    storage.Store
	producer ReservationPublisher
	log      *logger.Logger
}

func NewReservationService(store storage.Store, producer ReservationPublisher, log *logger.Logger) *ReservationService {
	return &ReservationService{
		store:    store,
		producer: producer,
		log:      log,
	}
}

// dayBounds truncates t to the start of its day and returns the half-open
// interval [dayStart, dayStart+24h).
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

func (s *ReservationService) Create(ctx context.Context, req models.CreateReservationRequest, requesterID string) (*models.Reservation, error) {
	if req.CustomerName == "" || req.CustomerPhone == "" || req.Date == "" || req.Time == "" || req.TableID == "" {
		return nil, fmt.Errorf("%w: customerName, customerPhone, date, time and table are required", ErrValidation)
	}
	if req.PartySize < 1 {
		return nil, fmt.Errorf("%w: partySize must be at least 1", ErrValidation)
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", ErrValidation)
	}

	if _, err := s.store.GetTable(req.TableID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}

	dayStart, dayEnd := dayBounds(date)
	if err := s.checkSlot(req.TableID, dayStart, dayEnd, req.Time, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	reservation := &models.Reservation{
		ID:              utils.GenerateID(utils.ReservationPrefix),
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		Date:            dayStart,
		Time:            req.Time,
		PartySize:       req.PartySize,
		TableID:         req.TableID,
		Status:          models.ReservationConfirmed,
		SpecialRequests: req.SpecialRequests,
		CreatedBy:       requesterID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.SaveReservation(reservation); err != nil {
		return nil, fmt.Errorf("failed to save reservation: %w", err)
	}

	s.log.LogReservation("BOOK", reservation.ID,
		fmt.Sprintf("Table %s booked for %s at %s %s", reservation.TableID, reservation.CustomerName, req.Date, req.Time))
	s.publishEvent(models.EventReservationCreated, reservation)

	return reservation, nil
}

// Update applies a partial reservation edit. Moving the slot (date, time
// or table) re-runs the conflict check against the new triple, excluding
// this reservation itself.
func (s *ReservationService) Update(ctx context.Context, id string, patch models.ReservationPatch) (*models.Reservation, error) {
	reservation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	newTable := reservation.TableID
	if patch.TableID != nil && *patch.TableID != "" {
		newTable = *patch.TableID
	}
	newDate := reservation.Date
	if patch.Date != nil && *patch.Date != "" {
		parsed, err := time.Parse(dateLayout, *patch.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", ErrValidation)
		}
		newDate, _ = dayBounds(parsed)
	}
	newTime := reservation.Time
	if patch.Time != nil && *patch.Time != "" {
		newTime = *patch.Time
	}

	slotMoved := newTable != reservation.TableID || !newDate.Equal(reservation.Date) || newTime != reservation.Time
	if slotMoved {
		if newTable != reservation.TableID {
			if _, err := s.store.GetTable(newTable); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return nil, ErrTableNotFound
				}
				return nil, err
			}
		}
		dayStart, dayEnd := dayBounds(newDate)
		if err := s.checkSlot(newTable, dayStart, dayEnd, newTime, reservation.ID); err != nil {
			return nil, err
		}
	}

	// Validate before applying anything: a rejected patch must leave the
	// stored record untouched.
	if patch.PartySize != nil && *patch.PartySize < 1 {
		return nil, fmt.Errorf("%w: partySize must be at least 1", ErrValidation)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown reservation status %q", ErrValidation, *patch.Status)
	}

	// Apply to a copy: the memory store hands out aliased records.
	updated := *reservation
	if patch.CustomerName != nil && *patch.CustomerName != "" {
		updated.CustomerName = *patch.CustomerName
	}
	if patch.CustomerPhone != nil && *patch.CustomerPhone != "" {
		updated.CustomerPhone = *patch.CustomerPhone
	}
	if patch.CustomerEmail != nil && *patch.CustomerEmail != "" {
		updated.CustomerEmail = *patch.CustomerEmail
	}
	if patch.PartySize != nil {
		updated.PartySize = *patch.PartySize
	}
	if patch.Status != nil {
		updated.Status = *patch.Status
	}
	// specialRequests may be explicitly blanked, unlike the fields above.
	if patch.SpecialRequests != nil {
		updated.SpecialRequests = *patch.SpecialRequests
	}
	updated.TableID = newTable
	updated.Date = newDate
	updated.Time = newTime
	updated.UpdatedAt = time.Now()

	if err := s.store.UpdateReservation(&updated); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	s.log.LogReservation("UPDATE", updated.ID, "Reservation updated")
	s.publishEvent(models.EventReservationUpdated, &updated)

	return &updated, nil
}

func (s *ReservationService) Get(ctx context.Context, id string) (*models.Reservation, error) {
	reservation, err := s.store.GetReservation(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return reservation, nil
}

// List returns reservations for the given day, or today onward when no
// date is given, sorted by date then time.
func (s *ReservationService) List(ctx context.Context, dateStr string, status models.ReservationStatus) ([]*models.Reservation, error) {
	filter := storage.ReservationFilter{Status: status}
	if dateStr != "" {
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", ErrValidation)
		}
		filter.DayStart, filter.DayEnd = dayBounds(date)
	} else {
		filter.DayStart, _ = dayBounds(time.Now())
	}

	reservations, err := s.store.ListReservations(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	sort.Slice(reservations, func(i, j int) bool {
		if !reservations[i].Date.Equal(reservations[j].Date) {
			return reservations[i].Date.Before(reservations[j].Date)
		}
		return reservations[i].Time < reservations[j].Time
	})
	return reservations, nil
}

// Delete cancels a reservation outright. Table state is untouched:
// reservations never hold table occupancy.
func (s *ReservationService) Delete(ctx context.Context, id string) error {
	reservation, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteReservation(id); err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	s.log.LogReservation("CANCEL", id, fmt.Sprintf("Reservation for %s removed", reservation.CustomerName))
	s.publishEvent(models.EventReservationDeleted, reservation)
	return nil
}

// AvailableTables lists tables with no confirmed reservation at the exact
// (date, time) slot, ascending by table number. Live occupancy is not
// consulted: a table serving walk-ins right now can still be reserved for
// tonight.
func (s *ReservationService) AvailableTables(ctx context.Context, dateStr, timeStr string, partySize int) ([]*models.Table, error) {
	if dateStr == "" || timeStr == "" {
		return nil, fmt.Errorf("%w: date and time are required", ErrValidation)
	}
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", ErrValidation)
	}

	tables, err := s.store.ListTables()
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	dayStart, dayEnd := dayBounds(date)
	reservations, err := s.store.ListReservations(storage.ReservationFilter{
		DayStart: dayStart,
		DayEnd:   dayEnd,
		Time:     timeStr,
		Status:   models.ReservationConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	reserved := make(map[string]bool, len(reservations))
	for _, r := range reservations {
		reserved[r.TableID] = true
	}

	available := make([]*models.Table, 0, len(tables))
	for _, table := range tables {
		if reserved[table.ID] {
			continue
		}
		if partySize > 0 && table.Capacity < partySize {
			continue
		}
		available = append(available, table)
	}
	sort.Slice(available, func(i, j int) bool { return available[i].Number < available[j].Number })

	return available, nil
}

func (s *ReservationService) checkSlot(tableID string, dayStart, dayEnd time.Time, timeStr, excludeID string) error {
	conflicts, err := s.store.ListReservations(storage.ReservationFilter{
		TableID:   tableID,
		DayStart:  dayStart,
		DayEnd:    dayEnd,
		Time:      timeStr,
		Status:    models.ReservationConfirmed,
		ExcludeID: excludeID,
	})
	if err != nil {
		return fmt.Errorf("failed to check slot: %w", err)
	}
	if len(conflicts) > 0 {
		return ErrSlotConflict
	}
	return nil
}

// publishEvent is best-effort: a broker failure is logged, never surfaced
// to the caller.
func (s *ReservationService) publishEvent(eventType string, reservation *models.Reservation) {
	if s.producer == nil {
		return
	}
	event := &models.ReservationEvent{
		Type:          eventType,
		ReservationID: reservation.ID,
		Reservation:   reservation,
		Timestamp:     time.Now(),
	}
	if err := s.producer.PublishReservationEvent(event); err != nil {
		s.log.Error("KAFKA", fmt.Sprintf("Failed to publish %s for reservation %s: %v", eventType, reservation.ID, err))
	}
}
