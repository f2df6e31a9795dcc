package questionaire

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Kushal-Harsora/questionaire/booking"
	"github.com/Kushal-Harsora/questionaire/conf"
	"github.com/Kushal-Harsora/questionaire/mail"
	"github.com/Kushal-Harsora/questionaire/questionnaire"
	"github.com/Kushal-Harsora/questionaire/session"
)

var (
	ErrInvalidEmail = errors.New("invalid email")
	ErrMailDelivery = errors.New("mail delivery failed")
)

type Service interface {
	Login(ctx context.Context, email string) (*session.Token, error)
	Session(ctx context.Context, token string) (*session.Claims, error)
	Questions() []conf.Step
	SubmitResponses(ctx context.Context, token string, answers []questionnaire.Answer) (*questionnaire.Submission, error)
	Submissions(ctx context.Context, email string) ([]*questionnaire.Submission, error)
	Availability(ctx context.Context) ([]booking.Day, error)
	Book(ctx context.Context, token string, inquiry booking.Inquiry) (*booking.Booking, error)
	SendReminders(ctx context.Context, date string) (int, error)
}

type ServiceMiddleware func(Service) Service

type Event interface {
	EventName() string
	Topic() string
}

type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
}

type Repositories struct {
	Bookings    booking.Repository
	Submissions questionnaire.Repository
}

func NewService(repos Repositories, sessions *session.Manager, mailer mail.Mailer, events EventPublisher, cfg *conf.Config) (Service, error) {
	schedule, err := booking.NewSchedule(cfg.Booking)
	if err != nil {
		return nil, err
	}

	return &service{
		cfg:         cfg,
		schedule:    schedule,
		bookings:    repos.Bookings,
		submissions: repos.Submissions,
		sessions:    sessions,
		mailer:      mailer,
		events:      events,
		now:         time.Now,
	}, nil
}

type service struct {
	cfg         *conf.Config
	schedule    *booking.Schedule
	bookings    booking.Repository
	submissions questionnaire.Repository
	sessions    *session.Manager
	mailer      mail.Mailer
	events      EventPublisher
	now         func() time.Time

	// guards the capacity check and the store that follows it
	slots sync.Mutex
}

func (svc *service) Login(ctx context.Context, email string) (*session.Token, error) {
	email = strings.TrimSpace(email)
	if !booking.ValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	return svc.sessions.Issue(email)
}

func (svc *service) Session(ctx context.Context, token string) (*session.Claims, error) {
	return svc.sessions.Parse(ctx, token)
}

func (svc *service) Questions() []conf.Step {
	return svc.cfg.Questionnaire.Steps
}

func (svc *service) SubmitResponses(ctx context.Context, token string, answers []questionnaire.Answer) (*questionnaire.Submission, error) {
	claims, err := svc.sessions.Parse(ctx, token)
	if err != nil {
		return nil, err
	}

	s, err := questionnaire.NewSubmission(claims.Email, answers)
	if err != nil {
		return nil, err
	}

	if err := svc.submissions.Store(s); err != nil {
		return nil, err
	}

	html, err := mail.RenderQuestionnaire(s.Answers)
	if err != nil {
		return nil, err
	}

	msg := &mail.Message{
		FromName: svc.cfg.Mail.SurveySender,
		To:       s.Email,
		Subject:  mail.QuestionnaireSubject,
		HTML:     html,
	}

	if err := svc.mailer.Send(ctx, msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}

	if err := svc.sessions.Revoke(ctx, claims); err != nil {
		return nil, err
	}

	svc.publish(ctx, questionnaire.NewSubmittedEvent(s))

	return s, nil
}

func (svc *service) Submissions(ctx context.Context, email string) ([]*questionnaire.Submission, error) {
	email = strings.TrimSpace(email)
	if !booking.ValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	return svc.submissions.ListByEmail(email)
}

func (svc *service) Availability(ctx context.Context) ([]booking.Day, error) {
	return svc.schedule.Availability(svc.now(), svc.bookings)
}

// Book does not require a session. When the visitor still holds one, it is
// revoked once the booking is confirmed.
func (svc *service) Book(ctx context.Context, token string, in booking.Inquiry) (*booking.Booking, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var claims *session.Claims
	if token != "" {
		c, err := svc.sessions.Parse(ctx, token)
		if err == nil {
			claims = c
		}
	}

	now := svc.now()

	w, err := svc.schedule.Resolve(now, in.TimeSlot.Date, in.TimeSlot.StartTime, in.TimeSlot.EndTime)
	if err != nil {
		return nil, err
	}

	b, err := svc.reserve(in, w)
	if err != nil {
		return nil, err
	}

	if err := svc.sendConfirmation(ctx, b, now); err != nil {
		// An abandoned send may still be delivered, so the slot stays taken.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		// release the slot so the visitor can try again
		if derr := svc.bookings.Delete(b.ID); derr != nil {
			return nil, errors.Join(err, derr)
		}

		return nil, err
	}

	if claims != nil {
		if err := svc.sessions.Revoke(ctx, claims); err != nil {
			return nil, err
		}
	}

	svc.publish(ctx, booking.NewBookedEvent(b))

	return b, nil
}

func (svc *service) reserve(in booking.Inquiry, w *booking.Window) (*booking.Booking, error) {
	svc.slots.Lock()
	defer svc.slots.Unlock()

	n, err := svc.bookings.CountBySlot(w.Date, w.Slot.Start)
	if err != nil {
		return nil, err
	}

	if n >= svc.schedule.Capacity() {
		return nil, booking.ErrSlotFull
	}

	b := booking.NewBooking(in, w)
	if err := svc.bookings.Store(b); err != nil {
		return nil, err
	}

	return b, nil
}

func (svc *service) inviteOptions() booking.InviteOptions {
	cfg := svc.cfg

	return booking.InviteOptions{
		AppName:       cfg.AppName,
		Domain:        cfg.Booking.Domain,
		Location:      cfg.Booking.Location,
		Organizer:     cfg.Mail.From,
		OrganizerName: cfg.AppName,
	}
}

func (svc *service) sendConfirmation(ctx context.Context, b *booking.Booking, now time.Time) error {
	text, err := mail.RenderConfirmation(b)
	if err != nil {
		return err
	}

	msg := &mail.Message{
		FromName: svc.cfg.AppName,
		To:       b.Email,
		Subject:  mail.ConfirmationSubject,
		Text:     text,
		Invite: &mail.Invite{
			Filename: "invite.ics",
			Method:   "REQUEST",
			Content:  booking.Invite(b, svc.inviteOptions(), now),
		},
	}

	if err := svc.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}

	return nil
}

func (svc *service) SendReminders(ctx context.Context, date string) (int, error) {
	date, err := svc.schedule.ParseDate(date)
	if err != nil {
		return 0, err
	}

	bookings, err := svc.bookings.ListByDate(date)
	if err != nil {
		return 0, err
	}

	sent := 0
	var errs []error
	for _, b := range bookings {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		text, err := mail.RenderReminder(b)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		msg := &mail.Message{
			FromName: svc.cfg.AppName,
			To:       b.Email,
			Subject:  mail.ReminderSubject,
			Text:     text,
		}

		if err := svc.mailer.Send(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("booking %s: %w", b.ID, err))
			continue
		}

		sent++
	}

	return sent, errors.Join(errs...)
}

// publish is best effort: the visitor's request already succeeded.
func (svc *service) publish(ctx context.Context, e Event) {
	if svc.events == nil {
		return
	}

	if err := svc.events.Publish(ctx, e); err != nil {
		zap.L().Warn(err.Error(),
			zap.String("event", e.EventName()),
			zap.String("topic", e.Topic()),
		)
	}
}
