package domain

import "time"

// ReservationStatus is the lifecycle state of a table reservation
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "Pending"
	ReservationApproved  ReservationStatus = "Approved"
	ReservationRejected  ReservationStatus = "Rejected"
	ReservationCompleted ReservationStatus = "Completed"
	ReservationCancelled ReservationStatus = "Cancelled"
)

// IsValid reports whether the status is a known reservation status
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationPending, ReservationApproved, ReservationRejected,
		ReservationCompleted, ReservationCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationRejected || s == ReservationCompleted || s == ReservationCancelled
}

// ReservationWindow is the half-width of the exclusion window around a
// booking time. Two bookings on the same table conflict when their
// times are strictly less than twice this apart, which keeps standard
// two-hour seatings from overlapping.
const ReservationWindow = time.Hour + 59*time.Minute

// Reservation holds a table for a party around a booking time. Only
// Approved reservations block a table; Pending ones are provisional
// until staff approve them.
type Reservation struct {
	ID            string            `bson:"_id" json:"id"`
	TableID       string            `bson:"tableId" json:"tableId"`
	CustomerName  string            `bson:"customerName" json:"customerName"`
	CustomerPhone string            `bson:"customerPhone,omitempty" json:"customerPhone,omitempty"`
	PartySize     int               `bson:"partySize" json:"partySize"`
	BookingTime   time.Time         `bson:"bookingTime" json:"bookingTime"`
	Status        ReservationStatus `bson:"status" json:"status"`
	Note          string            `bson:"note,omitempty" json:"note,omitempty"`

	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
	DomainEvents []DomainEvent `bson:"-" json:"-"`
}

// NewReservation creates a pending reservation request
func NewReservation(id, tableID, customerName, customerPhone string, partySize int, bookingTime time.Time) (*Reservation, error) {
	if customerName == "" {
		return nil, ErrNameRequired
	}
	if partySize <= 0 {
		return nil, ErrInvalidQuantity
	}

	now := time.Now()
	r := &Reservation{
		ID:            id,
		TableID:       tableID,
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		PartySize:     partySize,
		BookingTime:   bookingTime,
		Status:        ReservationPending,
		CreatedAt:     now,
		UpdatedAt:     now,
		DomainEvents:  make([]DomainEvent, 0),
	}

	r.AddDomainEvent(&ReservationRequestedEvent{
		ReservationID: id,
		TableID:       tableID,
		BookingTime:   bookingTime,
		RequestedAt:   now,
	})

	return r, nil
}

// WindowStart returns the start of the exclusion window
func (r *Reservation) WindowStart() time.Time {
	return r.BookingTime.Add(-ReservationWindow)
}

// WindowEnd returns the end of the exclusion window
func (r *Reservation) WindowEnd() time.Time {
	return r.BookingTime.Add(ReservationWindow)
}

// ConflictsWith reports whether another booking time falls inside this
// reservation's exclusion window. Boundary times exactly at the window
// edge do not conflict.
func (r *Reservation) ConflictsWith(bookingTime time.Time) bool {
	return bookingTime.After(r.WindowStart()) && bookingTime.Before(r.WindowEnd())
}

// Approve confirms a pending reservation
func (r *Reservation) Approve() error {
	if r.Status != ReservationPending {
		return ErrInvalidTransition
	}
	r.Status = ReservationApproved
	r.UpdatedAt = time.Now()
	return nil
}

// Reject declines a pending reservation with an optional note
func (r *Reservation) Reject(note string) error {
	if r.Status != ReservationPending {
		return ErrInvalidTransition
	}
	r.Status = ReservationRejected
	r.Note = note
	r.UpdatedAt = time.Now()
	return nil
}

// Complete marks an approved reservation as honored
func (r *Reservation) Complete() error {
	if r.Status != ReservationApproved {
		return ErrInvalidTransition
	}
	r.Status = ReservationCompleted
	r.UpdatedAt = time.Now()
	return nil
}

// Cancel withdraws a pending or approved reservation
func (r *Reservation) Cancel() error {
	if r.Status.IsTerminal() {
		return ErrInvalidTransition
	}
	r.Status = ReservationCancelled
	r.UpdatedAt = time.Now()
	return nil
}

// Domain event methods
func (r *Reservation) AddDomainEvent(event DomainEvent) {
	r.DomainEvents = append(r.DomainEvents, event)
}

func (r *Reservation) ClearDomainEvents() {
	r.DomainEvents = make([]DomainEvent, 0)
}

func (r *Reservation) GetDomainEvents() []DomainEvent {
	return r.DomainEvents
}
