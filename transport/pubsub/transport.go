package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/Kushal-Harsora/questionaire"
)

var ErrInvalidEvent = errors.New("invalid event")

type natsPublisher struct {
	nc     *nats.Conn
	prefix string
}

// NewNATSPublisher publishes every event as JSON on <prefix>.<topic>.
func NewNATSPublisher(nc *nats.Conn, prefix string) questionaire.EventPublisher {
	return &natsPublisher{nc, prefix}
}

func (p *natsPublisher) Publish(ctx context.Context, e questionaire.Event) error {
	if e == nil {
		return ErrInvalidEvent
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return p.nc.Publish(Subject(p.prefix, e.Topic()), data)
}

func Subject(prefix string, topic string) string {
	prefix = strings.Trim(prefix, ".")
	if prefix == "" {
		return topic
	}

	return prefix + "." + topic
}

type noopPublisher struct{}

// NewNoopPublisher drops every event.
func NewNoopPublisher() questionaire.EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, e questionaire.Event) error {
	return nil
}
