package db

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Kushal-Harsora/questionaire/booking"
)

type Booking struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	Email     string `gorm:"index"`
	Phone     string
	Remark    string
	Date      string `gorm:"index:idx_booking_slot"`
	StartTime string `gorm:"index:idx_booking_slot"`
	EndTime   string
	StartAt   time.Time
	EndAt     time.Time
	TimeZone  string
	DataModel
}

func NewBooking(b *booking.Booking) *Booking {
	return &Booking{
		ID:        b.ID.String(),
		Name:      b.Name,
		Email:     b.Email,
		Phone:     b.Phone,
		Remark:    b.Remark,
		Date:      b.Date,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		StartAt:   b.StartAt,
		EndAt:     b.EndAt,
		TimeZone:  b.TimeZone,
		DataModel: DataModel{
			CreatedAt: b.CreatedAt,
		},
	}
}

func (b *Booking) reconstitute() (*booking.Booking, error) {
	id, err := booking.ParseID(b.ID)
	if err != nil {
		return nil, err
	}

	startAt, endAt := b.StartAt, b.EndAt
	if loc, err := time.LoadLocation(b.TimeZone); err == nil {
		startAt = startAt.In(loc)
		endAt = endAt.In(loc)
	}

	return &booking.Booking{
		ID:        id,
		Name:      b.Name,
		Email:     b.Email,
		Phone:     b.Phone,
		Remark:    b.Remark,
		Date:      b.Date,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		StartAt:   startAt,
		EndAt:     endAt,
		TimeZone:  b.TimeZone,
		CreatedAt: b.CreatedAt,
	}, nil
}

type bookingRepository struct {
	db *gorm.DB
}

func (repo *bookingRepository) Store(b *booking.Booking) error {
	booking := NewBooking(b) // convert Domain to Data model
	return repo.db.Save(booking).Error
}

func (repo *bookingRepository) Delete(id booking.BookingID) error {
	result := repo.db.Unscoped().Delete(&Booking{}, "id = ?", id.String())
	if err := result.Error; err != nil {
		return err
	}

	if result.RowsAffected == 0 {
		return booking.ErrBookingNotFound
	}

	return nil
}

func (repo *bookingRepository) Find(id booking.BookingID) (*booking.Booking, error) {
	var b *Booking

	result := repo.db.Take(&b, "id = ?", id.String())
	if err := result.Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrBookingNotFound
		}

		return nil, err
	}

	return b.reconstitute()
}

func (repo *bookingRepository) ListByDate(date string) ([]*booking.Booking, error) {
	var bookings []*Booking

	result := repo.db.Where("date = ?", date).Order("start_at").Find(&bookings)
	if err := result.Error; err != nil {
		return nil, err
	}

	results := make([]*booking.Booking, 0, len(bookings))
	for _, b := range bookings {
		bk, err := b.reconstitute()
		if err != nil {
			return nil, err
		}

		results = append(results, bk)
	}

	return results, nil
}

func (repo *bookingRepository) CountBySlot(date string, start string) (int, error) {
	var count int64

	result := repo.db.Model(&Booking{}).
		Where("date = ? AND start_time = ?", date, start).
		Count(&count)

	if err := result.Error; err != nil {
		return 0, err
	}

	return int(count), nil
}
