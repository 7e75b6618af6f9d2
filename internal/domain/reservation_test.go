package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReservation(t *testing.T) {
	booking := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	res, err := NewReservation("RES-1", "TBL-1", "Alice", "555-0101", 4, booking)
	require.NoError(t, err)

	assert.Equal(t, ReservationPending, res.Status)
	assert.Equal(t, booking, res.BookingTime)
	assert.Len(t, res.GetDomainEvents(), 1)
}

func TestReservation_Window(t *testing.T) {
	booking := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	res, _ := NewReservation("RES-1", "TBL-1", "Alice", "", 4, booking)

	assert.Equal(t, booking.Add(-ReservationWindow), res.WindowStart())
	assert.Equal(t, booking.Add(ReservationWindow), res.WindowEnd())
}

func TestReservation_ConflictsWith(t *testing.T) {
	booking := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	res, _ := NewReservation("RES-1", "TBL-1", "Alice", "", 4, booking)

	assert.True(t, res.ConflictsWith(booking))
	assert.True(t, res.ConflictsWith(booking.Add(time.Hour)))
	assert.True(t, res.ConflictsWith(booking.Add(-time.Hour-58*time.Minute)))

	// the window boundary itself does not conflict
	assert.False(t, res.ConflictsWith(booking.Add(ReservationWindow)))
	assert.False(t, res.ConflictsWith(booking.Add(-ReservationWindow)))
	assert.False(t, res.ConflictsWith(booking.Add(3*time.Hour)))
}

func TestReservation_Lifecycle(t *testing.T) {
	booking := time.Now().Add(24 * time.Hour)

	res, _ := NewReservation("RES-1", "TBL-1", "Alice", "", 4, booking)
	require.NoError(t, res.Approve())
	assert.Equal(t, ReservationApproved, res.Status)
	require.NoError(t, res.Complete())
	assert.Equal(t, ReservationCompleted, res.Status)

	// terminal: no further transitions
	assert.ErrorIs(t, res.Cancel(), ErrInvalidTransition)

	res2, _ := NewReservation("RES-2", "TBL-1", "Bob", "", 2, booking)
	require.NoError(t, res2.Reject("fully booked"))
	assert.Equal(t, ReservationRejected, res2.Status)
	assert.Equal(t, "fully booked", res2.Note)
	assert.ErrorIs(t, res2.Approve(), ErrInvalidTransition)

	res3, _ := NewReservation("RES-3", "TBL-1", "Cara", "", 2, booking)
	require.NoError(t, res3.Cancel())
	assert.Equal(t, ReservationCancelled, res3.Status)
}

func TestReservation_CompleteRequiresApproval(t *testing.T) {
	res, _ := NewReservation("RES-1", "TBL-1", "Alice", "", 4, time.Now().Add(time.Hour))
	assert.ErrorIs(t, res.Complete(), ErrInvalidTransition)
}
