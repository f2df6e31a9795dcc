package inmem

import (
	"sort"
	"sync"

	"github.com/Kushal-Harsora/questionaire/booking"
	"github.com/Kushal-Harsora/questionaire/questionnaire"
)

type Store struct {
	bookings    *bookingRepository
	submissions *submissionRepository
}

func NewStore() *Store {
	return &Store{
		bookings: &bookingRepository{
			bookings: make(map[booking.BookingID]*booking.Booking),
		},
		submissions: &submissionRepository{
			submissions: make(map[questionnaire.SubmissionID]*questionnaire.Submission),
		},
	}
}

func (s *Store) Bookings() booking.Repository {
	return s.bookings
}

func (s *Store) Submissions() questionnaire.Repository {
	return s.submissions
}

func (s *Store) Close() error {
	return nil
}

type bookingRepository struct {
	bookings map[booking.BookingID]*booking.Booking
	sync.RWMutex
}

func (repo *bookingRepository) Store(b *booking.Booking) error {
	repo.Lock()
	defer repo.Unlock()

	copied := *b
	repo.bookings[b.ID] = &copied
	return nil
}

func (repo *bookingRepository) Delete(id booking.BookingID) error {
	repo.Lock()
	defer repo.Unlock()

	if _, ok := repo.bookings[id]; !ok {
		return booking.ErrBookingNotFound
	}

	delete(repo.bookings, id)
	return nil
}

func (repo *bookingRepository) Find(id booking.BookingID) (*booking.Booking, error) {
	repo.RLock()
	defer repo.RUnlock()

	b, ok := repo.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}

	copied := *b
	return &copied, nil
}

func (repo *bookingRepository) ListByDate(date string) ([]*booking.Booking, error) {
	repo.RLock()
	defer repo.RUnlock()

	results := make([]*booking.Booking, 0)
	for _, b := range repo.bookings {
		if b.Date == date {
			copied := *b
			results = append(results, &copied)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].StartAt.Before(results[j].StartAt)
	})

	return results, nil
}

func (repo *bookingRepository) CountBySlot(date string, start string) (int, error) {
	repo.RLock()
	defer repo.RUnlock()

	count := 0
	for _, b := range repo.bookings {
		if b.Date == date && b.StartTime == start {
			count++
		}
	}

	return count, nil
}

type submissionRepository struct {
	submissions map[questionnaire.SubmissionID]*questionnaire.Submission
	sync.RWMutex
}

func (repo *submissionRepository) Store(s *questionnaire.Submission) error {
	repo.Lock()
	defer repo.Unlock()

	copied := *s
	copied.Answers = append([]questionnaire.Answer(nil), s.Answers...)
	repo.submissions[s.ID] = &copied
	return nil
}

func (repo *submissionRepository) Find(id questionnaire.SubmissionID) (*questionnaire.Submission, error) {
	repo.RLock()
	defer repo.RUnlock()

	s, ok := repo.submissions[id]
	if !ok {
		return nil, questionnaire.ErrSubmissionNotFound
	}

	copied := *s
	return &copied, nil
}

func (repo *submissionRepository) ListByEmail(email string) ([]*questionnaire.Submission, error) {
	repo.RLock()
	defer repo.RUnlock()

	results := make([]*questionnaire.Submission, 0)
	for _, s := range repo.submissions {
		if s.Email == email {
			copied := *s
			results = append(results, &copied)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ID.String() < results[j].ID.String()
	})

	return results, nil
}
