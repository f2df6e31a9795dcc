package inmem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kushal-Harsora/questionaire/booking"
	"github.com/Kushal-Harsora/questionaire/questionnaire"
)

func TestBookingsAreCopied(t *testing.T) {
	store := NewStore()

	b := &booking.Booking{ID: booking.MakeID(), Name: "Jane", Date: "2026-10-18", StartTime: "11:00:00"}
	require.NoError(t, store.Bookings().Store(b))

	b.Name = "changed"

	found, err := store.Bookings().Find(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", found.Name)

	n, err := store.Bookings().CountBySlot("2026-10-18", "11:00:00")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = store.Bookings().Find(booking.MakeID())
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func TestSubmissionsByEmail(t *testing.T) {
	store := NewStore()

	s, err := questionnaire.NewSubmission("jane@example.com", []questionnaire.Answer{{Question: "Q", Answer: "A"}})
	require.NoError(t, err)
	require.NoError(t, store.Submissions().Store(s))

	list, err := store.Submissions().ListByEmail("jane@example.com")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = store.Submissions().ListByEmail("john@example.com")
	require.NoError(t, err)
	assert.Empty(t, list)
}
