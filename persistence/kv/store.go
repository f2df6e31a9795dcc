package kv

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/Kushal-Harsora/questionaire/booking"
	"github.com/Kushal-Harsora/questionaire/conf"
	"github.com/Kushal-Harsora/questionaire/questionnaire"
)

// Key layout:
//
//	bookings/<id>                        booking JSON
//	bookings_by_slot/<date>/<start>/<id> index, empty value
//	submissions/<id>                     submission JSON
//	submissions_by_email/<email>/<id>    index, empty value
const (
	bookingPrefix         = "bookings/"
	bookingSlotPrefix     = "bookings_by_slot/"
	submissionPrefix      = "submissions/"
	submissionEmailPrefix = "submissions_by_email/"
)

type Store struct {
	db          *badger.DB
	bookings    *bookingRepository
	submissions *submissionRepository
}

func NewStore(cfg conf.Persistence) (*Store, error) {
	host := cfg.Host
	if host == "" {
		host = conf.Path
	}

	opts := badger.DefaultOptions(filepath.Join(host, cfg.Name))
	if cfg.InMem {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:          db,
		bookings:    &bookingRepository{db},
		submissions: &submissionRepository{db},
	}, nil
}

func (s *Store) Bookings() booking.Repository {
	return s.bookings
}

func (s *Store) Submissions() questionnaire.Repository {
	return s.submissions
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Truncate() error {
	return s.db.DropAll()
}

func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}

	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

// suffixes returns the last path segment of every key under prefix.
func suffixes(txn *badger.Txn, prefix []byte) []string {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false

	it := txn.NewIterator(opts)
	defer it.Close()

	results := make([]string, 0)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		key := it.Item().KeyCopy(nil)
		idx := bytes.LastIndexByte(key, '/')
		results = append(results, string(key[idx+1:]))
	}

	return results
}

// restoreZone puts the booking's instants back into its named time zone;
// JSON keeps only the offset.
func restoreZone(b *booking.Booking) *booking.Booking {
	if loc, err := time.LoadLocation(b.TimeZone); err == nil {
		b.StartAt = b.StartAt.In(loc)
		b.EndAt = b.EndAt.In(loc)
	}

	return b
}

type bookingRepository struct {
	db *badger.DB
}

func (repo *bookingRepository) Store(b *booking.Booking) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}

	id := b.ID.String()

	return repo.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(bookingPrefix+id), data); err != nil {
			return err
		}

		index := bookingSlotPrefix + b.Date + "/" + b.StartTime + "/" + id
		return txn.Set([]byte(index), nil)
	})
}

func (repo *bookingRepository) Delete(id booking.BookingID) error {
	return repo.db.Update(func(txn *badger.Txn) error {
		var b *booking.Booking
		key := []byte(bookingPrefix + id.String())
		if err := getJSON(txn, key, &b); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return booking.ErrBookingNotFound
			}

			return err
		}

		index := bookingSlotPrefix + b.Date + "/" + b.StartTime + "/" + id.String()
		if err := txn.Delete([]byte(index)); err != nil {
			return err
		}

		return txn.Delete(key)
	})
}

func (repo *bookingRepository) Find(id booking.BookingID) (*booking.Booking, error) {
	var b *booking.Booking

	err := repo.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, []byte(bookingPrefix+id.String()), &b)
	})

	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, booking.ErrBookingNotFound
		}

		return nil, err
	}

	return restoreZone(b), nil
}

func (repo *bookingRepository) ListByDate(date string) ([]*booking.Booking, error) {
	results := make([]*booking.Booking, 0)

	err := repo.db.View(func(txn *badger.Txn) error {
		prefix := []byte(bookingSlotPrefix + date + "/")
		for _, id := range suffixes(txn, prefix) {
			var b *booking.Booking
			if err := getJSON(txn, []byte(bookingPrefix+id), &b); err != nil {
				return err
			}

			results = append(results, restoreZone(b))
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].StartAt.Before(results[j].StartAt)
	})

	return results, nil
}

func (repo *bookingRepository) CountBySlot(date string, start string) (int, error) {
	count := 0

	err := repo.db.View(func(txn *badger.Txn) error {
		prefix := []byte(bookingSlotPrefix + date + "/" + start + "/")
		count = len(suffixes(txn, prefix))
		return nil
	})

	return count, err
}

type submissionRepository struct {
	db *badger.DB
}

func (repo *submissionRepository) Store(s *questionnaire.Submission) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	id := s.ID.String()

	return repo.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(submissionPrefix+id), data); err != nil {
			return err
		}

		index := submissionEmailPrefix + s.Email + "/" + id
		return txn.Set([]byte(index), nil)
	})
}

func (repo *submissionRepository) Find(id questionnaire.SubmissionID) (*questionnaire.Submission, error) {
	var s *questionnaire.Submission

	err := repo.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, []byte(submissionPrefix+id.String()), &s)
	})

	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, questionnaire.ErrSubmissionNotFound
		}

		return nil, err
	}

	return s, nil
}

func (repo *submissionRepository) ListByEmail(email string) ([]*questionnaire.Submission, error) {
	results := make([]*questionnaire.Submission, 0)

	err := repo.db.View(func(txn *badger.Txn) error {
		prefix := []byte(submissionEmailPrefix + email + "/")
		for _, id := range suffixes(txn, prefix) {
			var s *questionnaire.Submission
			if err := getJSON(txn, []byte(submissionPrefix+id), &s); err != nil {
				return err
			}

			results = append(results, s)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return results, nil
}
