package db

import (
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Kushal-Harsora/questionaire/booking"
	"github.com/Kushal-Harsora/questionaire/conf"
	"github.com/Kushal-Harsora/questionaire/questionnaire"
)

type DataModel struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type Store struct {
	db          *gorm.DB
	bookings    *bookingRepository
	submissions *submissionRepository
}

func NewStore(cfg conf.Persistence) (*Store, error) {
	host := cfg.Host
	if host == "" {
		host = conf.Path
	}

	filename := filepath.Join(host, cfg.Name+".db")
	if cfg.InMem {
		filename = "file::memory:?cache=shared"
	}

	db, err := gorm.Open(sqlite.Open(filename), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&Booking{}, &Submission{}, &Answer{},
	); err != nil {
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
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func (s *Store) Truncate() error {
	for _, table := range []string{"answers", "submissions", "bookings"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}

	return nil
}
