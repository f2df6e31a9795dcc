package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kushal-Harsora/questionaire/booking"
	"github.com/Kushal-Harsora/questionaire/conf"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "questionaire.bookings.1.booked", Subject("questionaire", "bookings.1.booked"))
	assert.Equal(t, "questionaire.bookings.1.booked", Subject("questionaire.", "bookings.1.booked"))
	assert.Equal(t, "bookings.1.booked", Subject("", "bookings.1.booked"))
}

func TestDisabledBusUsesNoopPublisher(t *testing.T) {
	publisher, closer, err := NewEventPublisher(conf.EventBus{Enabled: false}, "questionaire")
	require.NoError(t, err)
	defer closer.Close()

	e := booking.NewBookedEvent(&booking.Booking{ID: booking.MakeID()})

	err = publisher.Publish(context.Background(), e)
	assert.NoError(t, err)
}
