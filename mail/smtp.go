package mail

import (
	"context"
	"fmt"
	"io"

	gomail "gopkg.in/mail.v2"

	"github.com/Kushal-Harsora/questionaire/conf"
)

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	name   string
}

func NewSMTPMailer(cfg conf.Mail) Mailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.Timeout = cfg.Timeout

	return &smtpMailer{
		dialer: dialer,
		from:   cfg.From,
		name:   cfg.SenderName,
	}
}

func (m *smtpMailer) Send(ctx context.Context, msg *Message) error {
	if msg.To == "" {
		return ErrRecipientRequired
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	gm := m.compose(msg)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(gm)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	}
}

func (m *smtpMailer) compose(msg *Message) *gomail.Message {
	name := msg.FromName
	if name == "" {
		name = m.name
	}

	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", m.from, name)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)

	switch {
	case msg.Text != "" && msg.HTML != "":
		gm.SetBody("text/plain", msg.Text)
		gm.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		gm.SetBody("text/html", msg.HTML)
	default:
		gm.SetBody("text/plain", msg.Text)
	}

	if invite := msg.Invite; invite != nil {
		method := invite.Method
		if method == "" {
			method = "REQUEST"
		}

		filename := invite.Filename
		if filename == "" {
			filename = "invite.ics"
		}

		gm.AddAlternative("text/calendar; method="+method, invite.Content)

		gm.Attach(filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := io.WriteString(w, invite.Content)
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-Type": {`application/ics; name="` + filename + `"`},
			}),
		)
	}

	return gm
}
