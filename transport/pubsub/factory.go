package pubsub

import (
	"io"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Kushal-Harsora/questionaire"
	"github.com/Kushal-Harsora/questionaire/conf"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type connCloser struct {
	nc *nats.Conn
}

func (c connCloser) Close() error {
	return c.nc.Drain()
}

// NewEventPublisher connects to the event bus when it is enabled. The returned
// closer drains the connection.
func NewEventPublisher(cfg conf.EventBus, name string) (questionaire.EventPublisher, io.Closer, error) {
	if !cfg.Enabled {
		return NewNoopPublisher(), nopCloser{}, nil
	}

	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}

	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(5000*time.Millisecond),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, nil, err
	}

	return NewNATSPublisher(nc, cfg.Prefix), connCloser{nc}, nil
}
