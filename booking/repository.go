package booking

type Repository interface {
	// Command

	Store(b *Booking) error
	Delete(id BookingID) error

	// Query

	Find(id BookingID) (*Booking, error)
	ListByDate(date string) ([]*Booking, error)
	CountBySlot(date string, start string) (int, error)
}
