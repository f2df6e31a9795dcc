package mail

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kushal-Harsora/questionaire/booking"
	"github.com/Kushal-Harsora/questionaire/conf"
	"github.com/Kushal-Harsora/questionaire/questionnaire"
)

func TestRenderQuestionnaireEscapes(t *testing.T) {
	answers := []questionnaire.Answer{
		{Question: "Industry?", Answer: "Retail"},
		{Question: "Goal?", Answer: "<script>alert(1)</script>"},
	}

	html, err := RenderQuestionnaire(answers)
	require.NoError(t, err)

	assert.Contains(t, html, "Marketing Questionnaire Responses")
	assert.Contains(t, html, ">1</td>")
	assert.Contains(t, html, ">2</td>")
	assert.Contains(t, html, "Retail")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func testBooking() *booking.Booking {
	ist := time.FixedZone("Asia/Kolkata", 5*60*60+30*60)

	return &booking.Booking{
		ID:        booking.MakeID(),
		Name:      "Jane",
		Email:     "jane@example.com",
		Remark:    "ROI",
		Date:      "2026-10-18",
		StartTime: "11:00:00",
		EndTime:   "13:00:00",
		StartAt:   time.Date(2026, time.October, 18, 11, 0, 0, 0, ist),
		EndAt:     time.Date(2026, time.October, 18, 13, 0, 0, 0, ist),
		TimeZone:  "Asia/Kolkata",
	}
}

func TestRenderConfirmation(t *testing.T) {
	text, err := RenderConfirmation(testBooking())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "Hello Jane,"))
	assert.Contains(t, text, "Your booking is confirmed.")
	assert.Contains(t, text, "Date: Sun Oct 18 2026")
	assert.Contains(t, text, "Time: 11:00:00 - 13:00:00 (Asia/Kolkata)")
	assert.Contains(t, text, "Remark: ROI")
}

func TestRenderReminder(t *testing.T) {
	text, err := RenderReminder(testBooking())
	require.NoError(t, err)
	assert.Contains(t, text, "reminder of your consultation")
}

func TestSMTPCompose(t *testing.T) {
	cfg := conf.Mail{
		Driver:     conf.SMTPMail,
		Host:       "smtp.example.com",
		Port:       587,
		From:       "bookings@example.com",
		SenderName: "Acme",
		Timeout:    time.Second,
	}

	m := NewSMTPMailer(cfg).(*smtpMailer)

	gm := m.compose(&Message{
		To:      "jane@example.com",
		Subject: ConfirmationSubject,
		Text:    "Hello",
		Invite: &Invite{
			Content: "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n",
		},
	})

	var buf bytes.Buffer
	_, err := gm.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "Subject: Your Booking Confirmation")
	assert.Contains(t, raw, "To: jane@example.com")
	assert.Contains(t, raw, "bookings@example.com")
	assert.Contains(t, raw, "text/calendar; method=REQUEST")
	assert.Contains(t, raw, "invite.ics")
}

func TestSMTPSendHonoursContext(t *testing.T) {
	m := NewSMTPMailer(conf.Mail{Host: "smtp.invalid", Port: 587, From: "a@example.com"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Send(ctx, &Message{To: "jane@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLogMailer(t *testing.T) {
	m, err := NewMailer(conf.Mail{Driver: conf.LogMail}, zap.NewNop())
	require.NoError(t, err)

	err = m.Send(context.Background(), &Message{To: "jane@example.com", Subject: "hi"})
	assert.NoError(t, err)

	err = m.Send(context.Background(), &Message{})
	assert.ErrorIs(t, err, ErrRecipientRequired)
}
