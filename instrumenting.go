package questionaire

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Kushal-Harsora/questionaire/booking"
	"github.com/Kushal-Harsora/questionaire/conf"
	"github.com/Kushal-Harsora/questionaire/questionnaire"
	"github.com/Kushal-Harsora/questionaire/session"
)

type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	mailFailures *prometheus.CounterVec
	bookings     prometheus.Counter
	submissions  prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "questionaire",
				Subsystem: "service",
				Name:      "requests_total",
				Help:      "Total number of service calls.",
			},
			[]string{"method", "success"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "questionaire",
				Subsystem: "service",
				Name:      "request_duration_seconds",
				Help:      "Duration of service calls.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"method"},
		),
		mailFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "questionaire",
				Subsystem: "mail",
				Name:      "failures_total",
				Help:      "Total number of emails that could not be delivered.",
			},
			[]string{"method"},
		),
		bookings: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "questionaire",
				Subsystem: "booking",
				Name:      "confirmed_total",
				Help:      "Total number of confirmed bookings.",
			},
		),
		submissions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "questionaire",
				Subsystem: "questionnaire",
				Name:      "submitted_total",
				Help:      "Total number of submitted questionnaires.",
			},
		),
	}

	reg.MustRegister(
		m.requests,
		m.duration,
		m.mailFailures,
		m.bookings,
		m.submissions,
	)

	return m
}

func (m *Metrics) observe(method string, begin time.Time, err error) {
	m.requests.WithLabelValues(method, strconv.FormatBool(err == nil)).Inc()
	m.duration.WithLabelValues(method).Observe(time.Since(begin).Seconds())

	if errors.Is(err, ErrMailDelivery) {
		m.mailFailures.WithLabelValues(method).Inc()
	}
}

func InstrumentingMiddleware(m *Metrics) ServiceMiddleware {
	return func(next Service) Service {
		return &instrumentingMiddleware{m, next}
	}
}

type instrumentingMiddleware struct {
	metrics *Metrics
	next    Service
}

func (mw *instrumentingMiddleware) Login(ctx context.Context, email string) (*session.Token, error) {
	begin := time.Now()
	token, err := mw.next.Login(ctx, email)
	mw.metrics.observe("login", begin, err)
	return token, err
}

func (mw *instrumentingMiddleware) Session(ctx context.Context, token string) (*session.Claims, error) {
	begin := time.Now()
	claims, err := mw.next.Session(ctx, token)
	mw.metrics.observe("session", begin, err)
	return claims, err
}

func (mw *instrumentingMiddleware) Questions() []conf.Step {
	return mw.next.Questions()
}

func (mw *instrumentingMiddleware) SubmitResponses(ctx context.Context, token string, answers []questionnaire.Answer) (*questionnaire.Submission, error) {
	begin := time.Now()
	s, err := mw.next.SubmitResponses(ctx, token, answers)
	mw.metrics.observe("submit_responses", begin, err)

	if err == nil {
		mw.metrics.submissions.Inc()
	}

	return s, err
}

func (mw *instrumentingMiddleware) Submissions(ctx context.Context, email string) ([]*questionnaire.Submission, error) {
	begin := time.Now()
	list, err := mw.next.Submissions(ctx, email)
	mw.metrics.observe("submissions", begin, err)
	return list, err
}

func (mw *instrumentingMiddleware) Availability(ctx context.Context) ([]booking.Day, error) {
	begin := time.Now()
	days, err := mw.next.Availability(ctx)
	mw.metrics.observe("availability", begin, err)
	return days, err
}

func (mw *instrumentingMiddleware) Book(ctx context.Context, token string, inquiry booking.Inquiry) (*booking.Booking, error) {
	begin := time.Now()
	b, err := mw.next.Book(ctx, token, inquiry)
	mw.metrics.observe("book", begin, err)

	if err == nil {
		mw.metrics.bookings.Inc()
	}

	return b, err
}

func (mw *instrumentingMiddleware) SendReminders(ctx context.Context, date string) (int, error) {
	begin := time.Now()
	sent, err := mw.next.SendReminders(ctx, date)
	mw.metrics.observe("send_reminders", begin, err)
	return sent, err
}
