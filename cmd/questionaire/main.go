package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	ginzap "github.com/gin-contrib/zap"

	"github.com/Kushal-Harsora/questionaire"
	"github.com/Kushal-Harsora/questionaire/booking"
	"github.com/Kushal-Harsora/questionaire/conf"
	"github.com/Kushal-Harsora/questionaire/mail"
	"github.com/Kushal-Harsora/questionaire/persistence"
	"github.com/Kushal-Harsora/questionaire/questionnaire"
	"github.com/Kushal-Harsora/questionaire/session"

	transHTTP "github.com/Kushal-Harsora/questionaire/transport/http"
	transPubSub "github.com/Kushal-Harsora/questionaire/transport/pubsub"
)

var (
	Version   string = "0.0.0"
	BuildTime string
	GitCommit string
)

var versionCmd = &cli.Command{
	Name:    "version",
	Aliases: []string{"ver", "v"},
	Usage:   "Show version",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "all",
			Aliases: []string{"a"},
			Usage:   "Show all infomation (include: Version, BuildTime, GitCommit)",
			Value:   false,
		},
	},
	Action: func(ctx *cli.Context) error {
		if !ctx.Bool("all") {
			fmt.Println(ctx.App.Version)
		} else {
			cli.ShowVersion(ctx)
		}
		return nil
	},
}

var gensecretCmd = &cli.Command{
	Name:  "gensecret",
	Usage: "Generate a new secret for signing session tokens",
	Action: func(ctx *cli.Context) error {
		secret, err := generateSecret()
		if err != nil {
			return fmt.Errorf("failed to generate secret: %w", err)
		}

		fmt.Printf("Secret: %s\n", secret)
		return nil
	},
}

var remindCmd = &cli.Command{
	Name:  "remind",
	Usage: "Send reminder emails for the bookings on a date",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "date",
			Usage: "Booking date (YYYY-MM-DD), defaults to tomorrow",
		},
	},
	Action: remind,
}

var submissionsCmd = &cli.Command{
	Name:  "submissions",
	Usage: "List the questionnaires a visitor has submitted",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "email",
			Usage:    "Visitor email address",
			Required: true,
		},
	},
	Action: submissions,
}

func main() {
	cli.VersionPrinter = func(cli *cli.Context) {
		fmt.Println("Version: " + cli.App.Version)
		fmt.Println("BuildTime: " + BuildTime)
		fmt.Println("GitCommit: " + GitCommit)
	}

	app := &cli.App{
		Name:     "questionaire",
		Usage:    "Consultation booking and marketing questionnaire service",
		Version:  Version,
		Commands: []*cli.Command{versionCmd, gensecretCmd, remindCmd, submissionsCmd},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "path",
				Usage:   "Specifies the working directory",
				EnvVars: []string{"QUESTIONAIRE_PATH"},
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Specifies the HTTP service port",
				Value:   8080,
				EnvVars: []string{"QUESTIONAIRE_HTTP_PORT"},
			},
			&cli.StringFlag{
				Name:    "nats",
				Usage:   "Overrides the event bus URL",
				EnvVars: []string{"NATS_URL"},
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func generateSecret() (string, error) {
	b := make([]byte, conf.MinSecretSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

func loadConfig(cli *cli.Context) (*conf.Config, error) {
	if err := conf.LoadEnv(cli); err != nil {
		return nil, err
	}

	cfg, err := conf.LoadConfig()
	if err != nil {
		return nil, err
	}

	if url := cli.String("nats"); url != "" {
		cfg.EventBus.URL = url
	}

	conf.ReplaceGlobals(cfg)
	return cfg, nil
}

func newLogger(cfg *conf.Config) (*zap.Logger, error) {
	if cfg.Production {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}

// components holds everything the service depends on, in the order they
// must be closed.
type components struct {
	closers []io.Closer
}

func (c *components) add(closer io.Closer) {
	c.closers = append(c.closers, closer)
}

func (c *components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func buildService(cfg *conf.Config, log *zap.Logger) (questionaire.Service, *components, error) {
	c := new(components)

	// Add Persistence
	store, err := persistence.NewStore(cfg.Persistence)
	if err != nil {
		log.Error(err.Error(),
			zap.String("infra", "persistence"),
			zap.String("driver", cfg.Persistence.Driver.String()),
		)
		return nil, c, err
	}
	c.add(store)

	// Add Sessions
	revoked, err := session.NewRevocationStore(cfg.Revocation)
	if err != nil {
		log.Error(err.Error(),
			zap.String("infra", "revocation"),
			zap.String("driver", cfg.Revocation.Driver.String()),
		)
		return nil, c, err
	}
	c.add(revoked)

	sessions, err := session.NewManager(cfg.BaseURL, cfg.JWT, revoked)
	if err != nil {
		return nil, c, err
	}

	// Add Mail
	mailer, err := mail.NewMailer(cfg.Mail, log)
	if err != nil {
		return nil, c, err
	}

	// Add Event Bus
	publisher, closer, err := transPubSub.NewEventPublisher(cfg.EventBus, cfg.Name)
	if err != nil {
		log.Error(err.Error(),
			zap.String("infra", "pubsub"),
			zap.String("url", cfg.EventBus.URL),
		)
		return nil, c, err
	}
	c.add(closer)

	if cfg.EventBus.Enabled {
		log.Info("connected",
			zap.String("infra", "pubsub"),
			zap.String("url", cfg.EventBus.URL),
		)
	}

	repos := questionaire.Repositories{
		Bookings:    store.Bookings(),
		Submissions: store.Submissions(),
	}

	svc, err := questionaire.NewService(repos, sessions, mailer, publisher, cfg)
	if err != nil {
		return nil, c, err
	}

	return svc, c, nil
}

func tomorrow(loc *time.Location) string {
	return time.Now().In(loc).AddDate(0, 0, 1).Format(booking.DateLayout)
}

func remind(cli *cli.Context) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)

	svc, components, err := buildService(cfg, log)
	defer components.Close()
	if err != nil {
		return err
	}

	svc = questionaire.LoggingMiddleware(log)(svc)

	date := cli.String("date")
	if date == "" {
		date = tomorrow(cfg.Booking.TimeZone)
	}

	resp, err := questionaire.SendRemindersEndpoint(svc)(cli.Context, date)
	if err != nil {
		return err
	}

	result := resp.(questionaire.SendRemindersResponse)
	fmt.Printf("Sent %d reminder(s) for %s\n", result.Sent, result.Date)
	return nil
}

func submissions(cli *cli.Context) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)

	svc, components, err := buildService(cfg, log)
	defer components.Close()
	if err != nil {
		return err
	}

	svc = questionaire.LoggingMiddleware(log)(svc)

	resp, err := questionaire.SubmissionsEndpoint(svc)(cli.Context, cli.String("email"))
	if err != nil {
		return err
	}

	return printSubmissions(os.Stdout, resp.([]*questionnaire.Submission))
}

func printSubmissions(w io.Writer, list []*questionnaire.Submission) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No submissions found")
		return err
	}

	for _, s := range list {
		if _, err := fmt.Fprintf(w, "%s  %s\n", s.ID, s.CreatedAt.Format(time.RFC3339)); err != nil {
			return err
		}

		for _, a := range s.Answers {
			if _, err := fmt.Fprintf(w, "  %s\n    %s\n", a.Question, a.Answer); err != nil {
				return err
			}
		}
	}

	return nil
}

func run(cli *cli.Context) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)

	svc, components, err := buildService(cfg, log)
	defer components.Close()
	if err != nil {
		return err
	}

	// Add Middlewares
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc = questionaire.InstrumentingMiddleware(questionaire.NewMetrics(registry))(svc)
	svc = questionaire.LoggingMiddleware(log)(svc)

	// Add Endpoints
	endpoints := questionaire.MakeEndpoints(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Add Reminder Schedule
	if spec := cfg.Booking.Reminder; spec != "" {
		log := log.With(
			zap.String("job", "reminders"),
			zap.String("spec", spec),
		)

		c := cron.New(cron.WithLocation(cfg.Booking.TimeZone))
		if _, err := c.AddFunc(spec, func() {
			endpoints.SendReminders(ctx, tomorrow(cfg.Booking.TimeZone))
		}); err != nil {
			log.Error(err.Error())
			return err
		}

		c.Start()
		defer c.Stop()

		log.Info("scheduled")
	}

	// Add HTTP Transport
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(ginzap.Ginzap(log, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(log, true))

	// GET /metrics
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	cookie := transHTTP.NewSessionCookie(cfg)
	limiter := transHTTP.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	if err := transHTTP.AddRouters(r, endpoints, cookie, limiter, cfg.RateLimit.TrustedProxies); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(conf.Port),
		Handler: r,
	}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err.Error())
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sign := <-quit:
		log.Info("shutdown", zap.String("signal", sign.String()))
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}
