package booking

import (
	"encoding/json"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
)

type BookingID ulid.ULID

func MakeID() BookingID {
	return BookingID(ulid.Make())
}

func ParseID(id string) (BookingID, error) {
	bookingID, err := ulid.Parse(id)
	if err != nil {
		return BookingID{}, err
	}
	return BookingID(bookingID), nil
}

func (id BookingID) Bytes() []byte {
	return id[:]
}

func (id BookingID) String() string {
	return ulid.ULID(id).String()
}

func (id BookingID) Time() time.Time {
	ms := ulid.ULID(id).Time()
	return ulid.Time(ms)
}

func (id BookingID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *BookingID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	bookingID, err := ParseID(s)
	if err != nil {
		return err
	}

	*id = bookingID
	return nil
}

// ValidationError reports the first invalid field of an inquiry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field string, message string) error {
	return &ValidationError{field, message}
}

func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

type TimeSlot struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Inquiry is the booking form as submitted.
type Inquiry struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	TimeSlot TimeSlot `json:"timeSlot"`
	Remark   string   `json:"remark"`
}

const (
	MaxNameLength   = 100
	MaxRemarkLength = 100
	PhoneLength     = 10
)

// Normalize trims surrounding whitespace from every field.
func (in *Inquiry) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Remark = strings.TrimSpace(in.Remark)
	in.TimeSlot.Date = strings.TrimSpace(in.TimeSlot.Date)
	in.TimeSlot.StartTime = strings.TrimSpace(in.TimeSlot.StartTime)
	in.TimeSlot.EndTime = strings.TrimSpace(in.TimeSlot.EndTime)
}

func (in *Inquiry) Validate() error {
	n := utf8.RuneCountInString(in.Name)
	if n == 0 {
		return invalid("name", "Name must be at least 1 character.")
	}
	if n > MaxNameLength {
		return invalid("name", "Name must be at most 100 characters.")
	}

	if !ValidEmail(in.Email) {
		return invalid("email", "Invalid email address.")
	}

	if !ValidPhone(in.Phone) {
		return invalid("phone", "Phone number must be of 10 digits.")
	}

	if in.TimeSlot.Date == "" || in.TimeSlot.StartTime == "" {
		return invalid("timeSlot", "Time slot is required.")
	}

	r := utf8.RuneCountInString(in.Remark)
	if r == 0 {
		return invalid("remark", "Remark must be at least 1 characters.")
	}
	if r > MaxRemarkLength {
		return invalid("remark", "Remark must be at most 100 characters.")
	}

	return nil
}

func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}

	// reject display-name forms such as "Jane <jane@example.com>"
	return addr.Address == email
}

func ValidPhone(phone string) bool {
	if len(phone) != PhoneLength {
		return false
	}

	for _, r := range phone {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return false
		}
	}

	return true
}

type Booking struct {
	ID        BookingID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Remark    string    `json:"remark"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	TimeZone  string    `json:"timeZone"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewBooking(in Inquiry, w *Window) *Booking {
	id := MakeID()

	return &Booking{
		ID:        id,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Remark:    in.Remark,
		Date:      w.Date,
		StartTime: w.Slot.Start,
		EndTime:   w.Slot.End,
		StartAt:   w.Start,
		EndAt:     w.End,
		TimeZone:  w.Start.Location().String(),
		CreatedAt: id.Time(),
	}
}

type BookedEvent struct {
	Booking   Booking   `json:"booking"`
	OccuredAt time.Time `json:"occured_at"`
}

func NewBookedEvent(b *Booking) *BookedEvent {
	return &BookedEvent{
		Booking:   *b,
		OccuredAt: time.Now(),
	}
}

func (e *BookedEvent) EventName() string {
	return "booking_booked"
}

func (e *BookedEvent) Topic() string {
	return "bookings." + e.Booking.ID.String() + ".booked"
}
