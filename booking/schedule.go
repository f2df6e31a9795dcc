package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kushal-Harsora/questionaire/conf"
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrDateNotAllowed  = errors.New("date not available for booking")
	ErrSlotNotFound    = errors.New("time slot not found")
	ErrSlotMismatch    = errors.New("end time does not match start time")
	ErrSlotFull        = errors.New("time slot fully booked")
	ErrBookingNotFound = errors.New("booking not found")
)

const DateLayout = "2006-01-02"

// Window is a resolved slot on a concrete date.
type Window struct {
	Date  string
	Slot  conf.Slot
	Start time.Time
	End   time.Time
}

type Schedule struct {
	loc      *time.Location
	horizon  int
	capacity int
	slots    []conf.Slot
	ends     map[string]string
}

func NewSchedule(cfg conf.Booking) (*Schedule, error) {
	if cfg.TimeZone == nil {
		return nil, errors.New("booking time zone required")
	}

	if len(cfg.Slots) == 0 {
		return nil, errors.New("at least one slot required")
	}

	if err := conf.ValidateSlots(cfg.Slots); err != nil {
		return nil, err
	}

	ends := make(map[string]string, len(cfg.Slots))
	for _, s := range cfg.Slots {
		ends[s.Start] = s.End
	}

	horizon := cfg.Horizon
	if horizon <= 0 {
		horizon = 2
	}

	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 1
	}

	return &Schedule{
		loc:      cfg.TimeZone,
		horizon:  horizon,
		capacity: capacity,
		slots:    cfg.Slots,
		ends:     ends,
	}, nil
}

func (s *Schedule) Location() *time.Location {
	return s.loc
}

func (s *Schedule) Capacity() int {
	return s.capacity
}

func (s *Schedule) Slots() []conf.Slot {
	slots := make([]conf.Slot, len(s.slots))
	copy(slots, s.slots)
	return slots
}

// AllowedDates lists the bookable dates: the days following today in the
// schedule's time zone. Today is never bookable.
func (s *Schedule) AllowedDates(now time.Time) []string {
	local := now.In(s.loc)
	y, m, d := local.Date()

	dates := make([]string, 0, s.horizon)
	for i := 1; i <= s.horizon; i++ {
		day := time.Date(y, m, d+i, 0, 0, 0, 0, s.loc)
		dates = append(dates, day.Format(DateLayout))
	}

	return dates
}

func (s *Schedule) IsAllowed(now time.Time, date string) bool {
	for _, d := range s.AllowedDates(now) {
		if d == date {
			return true
		}
	}

	return false
}

// ParseDate accepts a calendar date or an RFC 3339 instant. Instants are
// converted to the schedule's time zone before the date is taken.
func (s *Schedule) ParseDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidDate
	}

	if t, err := time.ParseInLocation(DateLayout, raw, s.loc); err == nil {
		return t.Format(DateLayout), nil
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidDate, raw)
	}

	return t.In(s.loc).Format(DateLayout), nil
}

func (s *Schedule) EndOf(start string) (string, bool) {
	end, ok := s.ends[start]
	return end, ok
}

// Resolve checks a requested date and slot against the table. An empty end
// is filled in from the table; a non-empty end must match it.
func (s *Schedule) Resolve(now time.Time, rawDate string, start string, end string) (*Window, error) {
	date, err := s.ParseDate(rawDate)
	if err != nil {
		return nil, err
	}

	if !s.IsAllowed(now, date) {
		return nil, ErrDateNotAllowed
	}

	expected, ok := s.EndOf(start)
	if !ok {
		return nil, ErrSlotNotFound
	}

	if end != "" && end != expected {
		return nil, ErrSlotMismatch
	}

	startAt, err := s.at(date, start)
	if err != nil {
		return nil, err
	}

	endAt, err := s.at(date, expected)
	if err != nil {
		return nil, err
	}

	return &Window{
		Date:  date,
		Slot:  conf.Slot{Start: start, End: expected},
		Start: startAt,
		End:   endAt,
	}, nil
}

func (s *Schedule) at(date string, clock string) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+conf.ClockLayout, date+" "+clock, s.loc)
}

type SlotAvailability struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Remaining int    `json:"remaining"`
	Available bool   `json:"available"`
}

type Day struct {
	Date  string             `json:"date"`
	Slots []SlotAvailability `json:"slots"`
}

// Availability lists every allowed date with the remaining capacity of each
// slot, as counted by the repository.
func (s *Schedule) Availability(now time.Time, bookings Repository) ([]Day, error) {
	dates := s.AllowedDates(now)

	days := make([]Day, 0, len(dates))
	for _, date := range dates {
		day := Day{
			Date:  date,
			Slots: make([]SlotAvailability, 0, len(s.slots)),
		}

		for _, slot := range s.slots {
			n, err := bookings.CountBySlot(date, slot.Start)
			if err != nil {
				return nil, err
			}

			remaining := s.capacity - n
			if remaining < 0 {
				remaining = 0
			}

			day.Slots = append(day.Slots, SlotAvailability{
				StartTime: slot.Start,
				EndTime:   slot.End,
				Remaining: remaining,
				Available: remaining > 0,
			})
		}

		days = append(days, day)
	}

	return days, nil
}
