package questionaire

import (
	"context"

	"go.uber.org/zap"

	"github.com/Kushal-Harsora/questionaire/booking"
	"github.com/Kushal-Harsora/questionaire/conf"
	"github.com/Kushal-Harsora/questionaire/questionnaire"
	"github.com/Kushal-Harsora/questionaire/session"
)

func LoggingMiddleware(log *zap.Logger) ServiceMiddleware {
	return func(next Service) Service {
		return &loggingMiddleware{
			log.With(
				zap.String("service", "questionaire"),
				zap.String("middleware", "logging"),
			),
			next,
		}
	}
}

type loggingMiddleware struct {
	log  *zap.Logger
	next Service
}

func (mw *loggingMiddleware) Login(ctx context.Context, email string) (*session.Token, error) {
	log := mw.log.With(
		zap.String("action", "login"),
		zap.String("email", email),
	)

	token, err := mw.next.Login(ctx, email)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("session issued", zap.String("token_id", token.ID))
	return token, nil
}

func (mw *loggingMiddleware) Session(ctx context.Context, token string) (*session.Claims, error) {
	log := mw.log.With(
		zap.String("action", "session"),
	)

	claims, err := mw.next.Session(ctx, token)
	if err != nil {
		log.Warn(err.Error())
		return nil, err
	}

	log.Debug("session found", zap.String("email", claims.Email))
	return claims, nil
}

func (mw *loggingMiddleware) Questions() []conf.Step {
	return mw.next.Questions()
}

func (mw *loggingMiddleware) SubmitResponses(ctx context.Context, token string, answers []questionnaire.Answer) (*questionnaire.Submission, error) {
	log := mw.log.With(
		zap.String("action", "submit_responses"),
		zap.Int("answers", len(answers)),
	)

	s, err := mw.next.SubmitResponses(ctx, token, answers)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("responses submitted",
		zap.String("submission_id", s.ID.String()),
		zap.String("email", s.Email),
	)
	return s, nil
}

func (mw *loggingMiddleware) Submissions(ctx context.Context, email string) ([]*questionnaire.Submission, error) {
	log := mw.log.With(
		zap.String("action", "submissions"),
		zap.String("email", email),
	)

	list, err := mw.next.Submissions(ctx, email)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Debug("submissions listed", zap.Int("count", len(list)))
	return list, nil
}

func (mw *loggingMiddleware) Availability(ctx context.Context) ([]booking.Day, error) {
	log := mw.log.With(
		zap.String("action", "availability"),
	)

	days, err := mw.next.Availability(ctx)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	return days, nil
}

func (mw *loggingMiddleware) Book(ctx context.Context, token string, inquiry booking.Inquiry) (*booking.Booking, error) {
	log := mw.log.With(
		zap.String("action", "book"),
		zap.String("email", inquiry.Email),
		zap.String("date", inquiry.TimeSlot.Date),
		zap.String("start_time", inquiry.TimeSlot.StartTime),
	)

	b, err := mw.next.Book(ctx, token, inquiry)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("consultation booked",
		zap.String("booking_id", b.ID.String()),
		zap.Time("start_at", b.StartAt),
	)
	return b, nil
}

func (mw *loggingMiddleware) SendReminders(ctx context.Context, date string) (int, error) {
	log := mw.log.With(
		zap.String("action", "send_reminders"),
		zap.String("date", date),
	)

	sent, err := mw.next.SendReminders(ctx, date)
	if err != nil {
		log.Error(err.Error(), zap.Int("sent", sent))
		return sent, err
	}

	log.Info("reminders sent", zap.Int("sent", sent))
	return sent, nil
}
