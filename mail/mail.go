package mail

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Kushal-Harsora/questionaire/conf"
)

var ErrRecipientRequired = errors.New("recipient required")

// Invite is an iCalendar attachment sent as both an alternative body part
// and an invite.ics file.
type Invite struct {
	Filename string
	Method   string
	Content  string
}

type Message struct {
	FromName string
	To       string
	Subject  string
	Text     string
	HTML     string
	Invite   *Invite
}

type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

func NewMailer(cfg conf.Mail, log *zap.Logger) (Mailer, error) {
	switch cfg.Driver {
	case conf.SMTPMail:
		return NewSMTPMailer(cfg), nil
	case conf.LogMail:
		return NewLogMailer(log), nil
	default:
		return nil, errors.New("driver not supported")
	}
}

type logMailer struct {
	log *zap.Logger
}

// NewLogMailer writes messages to the log instead of delivering them.
func NewLogMailer(log *zap.Logger) Mailer {
	return &logMailer{
		log.With(
			zap.String("infra", "mail"),
			zap.String("driver", "log"),
		),
	}
}

func (m *logMailer) Send(ctx context.Context, msg *Message) error {
	if msg.To == "" {
		return ErrRecipientRequired
	}

	m.log.Info("mail sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Bool("html", msg.HTML != ""),
		zap.Bool("invite", msg.Invite != nil),
	)

	return nil
}
