package persistence

import (
	"errors"

	"github.com/Kushal-Harsora/questionaire/booking"
	"github.com/Kushal-Harsora/questionaire/conf"
	"github.com/Kushal-Harsora/questionaire/persistence/db"
	"github.com/Kushal-Harsora/questionaire/persistence/inmem"
	"github.com/Kushal-Harsora/questionaire/persistence/kv"
	"github.com/Kushal-Harsora/questionaire/questionnaire"
)

type Store interface {
	Bookings() booking.Repository
	Submissions() questionnaire.Repository
	Close() error
}

func NewStore(cfg conf.Persistence) (Store, error) {
	switch cfg.Driver {
	case conf.SQLite:
		return db.NewStore(cfg)
	case conf.BadgerDB:
		return kv.NewStore(cfg)
	case conf.InMem:
		return inmem.NewStore(), nil
	default:
		return nil, errors.New("driver not supported")
	}
}
