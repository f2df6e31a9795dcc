package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/Kushal-Harsora/questionaire/conf"
)

type countRepository map[string]int

func (r countRepository) Store(b *Booking) error {
	r[b.Date+" "+b.StartTime]++
	return nil
}

func (r countRepository) Delete(id BookingID) error {
	return nil
}

func (r countRepository) Find(id BookingID) (*Booking, error) {
	return nil, ErrBookingNotFound
}

func (r countRepository) ListByDate(date string) ([]*Booking, error) {
	return nil, nil
}

func (r countRepository) CountBySlot(date string, start string) (int, error) {
	return r[date+" "+start], nil
}

type scheduleTestSuite struct {
	suite.Suite
	ist      *time.Location
	schedule *Schedule
	now      time.Time
}

func (suite *scheduleTestSuite) SetupTest() {
	cfg := conf.DefaultBooking()

	schedule, err := NewSchedule(cfg)
	suite.Require().NoError(err)

	suite.ist = cfg.TimeZone
	suite.schedule = schedule
	suite.now = time.Date(2026, time.October, 17, 20, 0, 0, 0, cfg.TimeZone)
}

func (suite *scheduleTestSuite) TestAllowedDates() {
	dates := suite.schedule.AllowedDates(suite.now)
	suite.Equal([]string{"2026-10-18", "2026-10-19"}, dates)
}

func (suite *scheduleTestSuite) TestAllowedDatesUseScheduleZone() {
	// 20:00 UTC is already the next day in India
	now := time.Date(2026, time.October, 17, 20, 0, 0, 0, time.UTC)

	dates := suite.schedule.AllowedDates(now)
	suite.Equal([]string{"2026-10-19", "2026-10-20"}, dates)
}

func (suite *scheduleTestSuite) TestAllowedDatesAcrossMonthEnd() {
	now := time.Date(2026, time.October, 31, 9, 0, 0, 0, suite.ist)

	dates := suite.schedule.AllowedDates(now)
	suite.Equal([]string{"2026-11-01", "2026-11-02"}, dates)
}

func (suite *scheduleTestSuite) TestResolve() {
	w, err := suite.schedule.Resolve(suite.now, "2026-10-18", "14:00:00", "16:00:00")
	suite.Require().NoError(err)

	suite.Equal("2026-10-18", w.Date)
	suite.Equal("16:00:00", w.Slot.End)
	suite.True(time.Date(2026, time.October, 18, 14, 0, 0, 0, suite.ist).Equal(w.Start))
	suite.Equal(2*time.Hour, w.End.Sub(w.Start))
}

func (suite *scheduleTestSuite) TestResolveFillsEnd() {
	w, err := suite.schedule.Resolve(suite.now, "2026-10-19", "17:00:00", "")
	suite.Require().NoError(err)
	suite.Equal("19:00:00", w.Slot.End)
}

func (suite *scheduleTestSuite) TestResolveInstantDate() {
	// midnight of the 18th in India, as a browser serializes it
	w, err := suite.schedule.Resolve(suite.now, "2026-10-17T18:30:00.000Z", "11:00:00", "13:00:00")
	suite.Require().NoError(err)
	suite.Equal("2026-10-18", w.Date)
}

func (suite *scheduleTestSuite) TestResolveErrors() {
	tests := []struct {
		name  string
		date  string
		start string
		end   string
		err   error
	}{
		{"today", "2026-10-17", "11:00:00", "13:00:00", ErrDateNotAllowed},
		{"beyond horizon", "2026-10-20", "11:00:00", "13:00:00", ErrDateNotAllowed},
		{"garbage date", "tomorrow", "11:00:00", "13:00:00", ErrInvalidDate},
		{"unknown start", "2026-10-18", "12:00:00", "14:00:00", ErrSlotNotFound},
		{"mismatched end", "2026-10-18", "11:00:00", "16:00:00", ErrSlotMismatch},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.schedule.Resolve(suite.now, tt.date, tt.start, tt.end)
			suite.ErrorIs(err, tt.err)
		})
	}
}

func (suite *scheduleTestSuite) TestAvailability() {
	repo := countRepository{}
	repo["2026-10-18 11:00:00"] = 1

	days, err := suite.schedule.Availability(suite.now, repo)
	suite.Require().NoError(err)
	suite.Len(days, 2)

	suite.Equal("2026-10-18", days[0].Date)
	suite.Len(days[0].Slots, 3)
	suite.False(days[0].Slots[0].Available)
	suite.Equal(0, days[0].Slots[0].Remaining)
	suite.True(days[0].Slots[1].Available)
	suite.True(days[1].Slots[0].Available)
}

func TestScheduleTestSuite(t *testing.T) {
	suite.Run(t, new(scheduleTestSuite))
}

func TestNewScheduleRejectsEmptySlots(t *testing.T) {
	cfg := conf.DefaultBooking()
	cfg.Slots = nil

	_, err := NewSchedule(cfg)
	assert.Error(t, err)
}

func TestNewScheduleCustomSlots(t *testing.T) {
	cfg := conf.DefaultBooking()
	cfg.TimeZone = time.UTC
	cfg.Horizon = 5
	cfg.Capacity = 3
	cfg.Slots = []conf.Slot{{Start: "09:30:00", End: "10:00:00"}}

	schedule, err := NewSchedule(cfg)
	require.NoError(t, err)

	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	assert.Len(t, schedule.AllowedDates(now), 5)
	assert.Equal(t, 3, schedule.Capacity())

	end, ok := schedule.EndOf("09:30:00")
	assert.True(t, ok)
	assert.Equal(t, "10:00:00", end)
}
