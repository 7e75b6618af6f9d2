package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/smartdine/restaurant-service/internal/domain"
	"github.com/smartdine/restaurant-service/pkg/errors"
	"github.com/smartdine/restaurant-service/pkg/locking"
	"github.com/smartdine/restaurant-service/pkg/logging"
	"github.com/smartdine/restaurant-service/pkg/metrics"
)

// ReservationApplicationService allocates tables to reservation
// requests. Only Approved reservations block a table; the overlap
// check and the status write happen under the table's lock so two
// concurrent requests cannot both win the same slot.
type ReservationApplicationService struct {
	reservations domain.ReservationRepository
	tables       domain.TableRepository
	locks        *locking.KeyedMutex
	metrics      *metrics.Metrics
	logger       *logging.Logger
}

// NewReservationApplicationService creates a new ReservationApplicationService
func NewReservationApplicationService(
	reservations domain.ReservationRepository,
	tables domain.TableRepository,
	locks *locking.KeyedMutex,
	m *metrics.Metrics,
	logger *logging.Logger,
) *ReservationApplicationService {
	return &ReservationApplicationService{
		reservations: reservations,
		tables:       tables,
		locks:        locks,
		metrics:      m,
		logger:       logger,
	}
}

// CreateTable registers a new dining table
func (s *ReservationApplicationService) CreateTable(ctx context.Context, cmd CreateTableCommand) (*TableDTO, error) {
	table, err := domain.NewTable(uuid.New().String(), cmd.Number, cmd.Capacity)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.tables.Save(ctx, table); err != nil {
		s.logger.Error("Failed to create table", "number", cmd.Number, "error", err)
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	s.logger.Info("Created table", "id", table.ID, "number", table.Number)
	return ToTableDTO(table), nil
}

// ListTables returns all tables ordered by table number
func (s *ReservationApplicationService) ListTables(ctx context.Context) ([]*TableDTO, error) {
	tables, err := s.tables.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	dtos := make([]*TableDTO, 0, len(tables))
	for _, t := range tables {
		dtos = append(dtos, ToTableDTO(t))
	}
	return dtos, nil
}

// RequestReservation creates a pending reservation. A specific table
// can be requested; otherwise the smallest free table that seats the
// party is assigned, scanning in table number order.
func (s *ReservationApplicationService) RequestReservation(ctx context.Context, cmd RequestReservationCommand) (*ReservationDTO, error) {
	if !cmd.BookingTime.After(time.Now()) {
		s.recordOutcome("rejected_past")
		return nil, errors.ErrValidation(domain.ErrReservationInPast.Error())
	}

	var table *domain.Table
	var err error
	if cmd.TableID != "" {
		table, err = s.findRequestedTable(ctx, cmd)
	} else {
		table, err = s.findAnyFreeTable(ctx, cmd)
	}
	if err != nil {
		s.recordOutcome("rejected_unavailable")
		return nil, err
	}

	unlock := s.locks.Lock(table.ID)
	defer unlock()

	// Re-check under the lock; another request may have been approved
	// for the same window in between.
	free, err := s.tableFree(ctx, table.ID, cmd.BookingTime, "")
	if err != nil {
		return nil, err
	}
	if !free {
		s.recordOutcome("rejected_unavailable")
		return nil, errors.ErrConflict(domain.ErrTableUnavailable.Error())
	}

	reservation, err := domain.NewReservation(uuid.New().String(), table.ID, cmd.CustomerName, cmd.CustomerPhone, cmd.PartySize, cmd.BookingTime)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.reservations.Save(ctx, reservation); err != nil {
		s.logger.Error("Failed to save reservation", "tableId", table.ID, "error", err)
		return nil, fmt.Errorf("failed to save reservation: %w", err)
	}

	s.recordOutcome("requested")
	s.logger.Info("Requested reservation",
		"reservationId", reservation.ID,
		"tableId", table.ID,
		"bookingTime", cmd.BookingTime,
	)
	return ToReservationDTO(reservation), nil
}

// Approve confirms a pending reservation. Availability is re-checked
// under the table lock, excluding the reservation itself, because other
// approvals may have landed since the request was made.
func (s *ReservationApplicationService) Approve(ctx context.Context, cmd ApproveReservationCommand) (*ReservationDTO, error) {
	reservation, err := s.loadReservation(ctx, cmd.ReservationID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(reservation.TableID)
	defer unlock()

	free, err := s.tableFree(ctx, reservation.TableID, reservation.BookingTime, reservation.ID)
	if err != nil {
		return nil, err
	}
	if !free {
		s.recordOutcome("approval_conflict")
		return nil, errors.ErrConflict(domain.ErrTableUnavailable.Error())
	}

	if err := reservation.Approve(); err != nil {
		return nil, errors.ErrConflict(err.Error())
	}

	if err := s.reservations.Update(ctx, reservation); err != nil {
		s.logger.Error("Failed to update reservation", "reservationId", reservation.ID, "error", err)
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	s.recordOutcome("approved")
	s.logger.Info("Approved reservation", "reservationId", reservation.ID, "tableId", reservation.TableID)
	return ToReservationDTO(reservation), nil
}

// Reject declines a pending reservation
func (s *ReservationApplicationService) Reject(ctx context.Context, cmd RejectReservationCommand) (*ReservationDTO, error) {
	reservation, err := s.loadReservation(ctx, cmd.ReservationID)
	if err != nil {
		return nil, err
	}

	if err := reservation.Reject(cmd.Note); err != nil {
		return nil, errors.ErrConflict(err.Error())
	}

	if err := s.reservations.Update(ctx, reservation); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	s.recordOutcome("rejected")
	s.logger.Info("Rejected reservation", "reservationId", reservation.ID)
	return ToReservationDTO(reservation), nil
}

// Cancel withdraws a pending or approved reservation, freeing its slot
func (s *ReservationApplicationService) Cancel(ctx context.Context, reservationID string) (*ReservationDTO, error) {
	reservation, err := s.loadReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if err := reservation.Cancel(); err != nil {
		return nil, errors.ErrConflict(err.Error())
	}

	if err := s.reservations.Update(ctx, reservation); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	s.recordOutcome("cancelled")
	s.logger.Info("Cancelled reservation", "reservationId", reservation.ID)
	return ToReservationDTO(reservation), nil
}

// Complete marks an approved reservation as honored
func (s *ReservationApplicationService) Complete(ctx context.Context, reservationID string) (*ReservationDTO, error) {
	reservation, err := s.loadReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if err := reservation.Complete(); err != nil {
		return nil, errors.ErrConflict(err.Error())
	}

	if err := s.reservations.Update(ctx, reservation); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	s.logger.Info("Completed reservation", "reservationId", reservation.ID)
	return ToReservationDTO(reservation), nil
}

// ListReservations returns all reservations
func (s *ReservationApplicationService) ListReservations(ctx context.Context) ([]*ReservationDTO, error) {
	reservations, err := s.reservations.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return ToReservationDTOs(reservations), nil
}

// GetReservation retrieves a reservation by ID
func (s *ReservationApplicationService) GetReservation(ctx context.Context, id string) (*ReservationDTO, error) {
	reservation, err := s.loadReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToReservationDTO(reservation), nil
}

func (s *ReservationApplicationService) loadReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	if reservation == nil {
		return nil, errors.ErrNotFoundWithID("reservation", id)
	}
	return reservation, nil
}

func (s *ReservationApplicationService) findRequestedTable(ctx context.Context, cmd RequestReservationCommand) (*domain.Table, error) {
	table, err := s.tables.FindByID(ctx, cmd.TableID)
	if err != nil {
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	if table == nil {
		return nil, errors.ErrNotFoundWithID("table", cmd.TableID)
	}
	if !table.Seats(cmd.PartySize) {
		return nil, errors.ErrValidation(fmt.Sprintf("table %d seats %d, party is %d", table.Number, table.Capacity, cmd.PartySize))
	}
	return table, nil
}

// findAnyFreeTable scans tables in ascending number order and returns
// the first that seats the party and has no approved reservation in
// the window
func (s *ReservationApplicationService) findAnyFreeTable(ctx context.Context, cmd RequestReservationCommand) (*domain.Table, error) {
	tables, err := s.tables.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })

	for _, table := range tables {
		if !table.Seats(cmd.PartySize) {
			continue
		}
		free, err := s.tableFree(ctx, table.ID, cmd.BookingTime, "")
		if err != nil {
			return nil, err
		}
		if free {
			return table, nil
		}
	}
	return nil, errors.ErrConflict(domain.ErrNoTableAvailable.Error())
}

// tableFree reports whether a table has no approved reservation whose
// window covers bookingTime
func (s *ReservationApplicationService) tableFree(ctx context.Context, tableID string, bookingTime time.Time, excludeID string) (bool, error) {
	from := bookingTime.Add(-domain.ReservationWindow)
	to := bookingTime.Add(domain.ReservationWindow)

	overlapping, err := s.reservations.FindApprovedInWindow(ctx, tableID, from, to, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check reservations: %w", err)
	}
	return len(overlapping) == 0, nil
}

func (s *ReservationApplicationService) recordOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordReservationRequest(outcome)
	}
}
