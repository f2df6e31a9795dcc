package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

var (
	Path string
	Port int

	global *Config
)

func G() *Config {
	if global == nil {
		panic("configuration not loaded")
	}

	return global
}

func ReplaceGlobals(cfg *Config) {
	global = cfg
}

// DefaultDir is the working directory under $HOME used when no path is given.
const DefaultDir = ".questionaire"

func LoadEnv(cli *cli.Context) error {
	path := cli.String("path")
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		path = filepath.Join(homeDir, DefaultDir)
	}

	Path = path
	Port = cli.Int("port")

	// .env is optional; variables already set in the environment win.
	dotenv := filepath.Join(Path, ".env")
	if _, err := os.Stat(dotenv); err == nil {
		if err := godotenv.Load(dotenv); err != nil {
			return fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	return nil
}

func LoadConfig() (*Config, error) {
	f, err := os.Open(Path + "/config.yaml")
	if err != nil {
		f, err = os.Open(Path + "/config.example.yaml")
		if err != nil {
			return nil, err
		}
	}
	defer f.Close()

	r, err := NewEnvExpandedReader(f)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns a configuration usable without a config file.
// Decoding a file on top of it overrides only the keys present.
func Default() *Config {
	return &Config{
		Name:    "questionaire",
		AppName: "Questionaire",
		BaseURL: "http://localhost:8080",
		JWT: JWT{
			Timeout: 24 * time.Hour,
			Cookie:  "token",
		},
		Persistence: Persistence{
			Driver: InMem,
			Name:   "questionaire",
		},
		Revocation: Revocation{
			Driver: MemoryRevocation,
		},
		Mail: Mail{
			Driver:       LogMail,
			Port:         587,
			SurveySender: "Marketing Survey",
			Timeout:      10 * time.Second,
		},
		Booking:       DefaultBooking(),
		Questionnaire: DefaultQuestionnaire(),
		RateLimit: RateLimit{
			RPS:   1,
			Burst: 5,
		},
	}
}

type Config struct {
	Name          string        `yaml:"name"`
	AppName       string        `yaml:"appName"`
	BaseURL       string        `yaml:"baseUrl"`
	Production    bool          `yaml:"production"`
	JWT           JWT           `yaml:"jwt"`
	Persistence   Persistence   `yaml:"persistence"`
	Revocation    Revocation    `yaml:"revocation"`
	Mail          Mail          `yaml:"mail"`
	Booking       Booking       `yaml:"booking"`
	Questionnaire Questionnaire `yaml:"questionnaire"`
	EventBus      EventBus      `yaml:"eventBus"`
	RateLimit     RateLimit     `yaml:"rateLimit"`
}

const MinSecretSize = 32

var ErrSecretTooShort = fmt.Errorf("jwt secret must be at least %d bytes", MinSecretSize)

type JWT struct {
	Secret  []byte
	Timeout time.Duration
	Cookie  string
}

func (cfg *JWT) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Secret  string `yaml:"secret"`
		Timeout string `yaml:"timeout"`
		Cookie  string `yaml:"cookie"`
	}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	if len(raw.Secret) < MinSecretSize {
		return ErrSecretTooShort
	}

	cfg.Secret = []byte(raw.Secret)

	if raw.Timeout == "" {
		cfg.Timeout = 24 * time.Hour
	} else {
		timeout, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return err
		}

		cfg.Timeout = timeout
	}

	cfg.Cookie = raw.Cookie
	if cfg.Cookie == "" {
		cfg.Cookie = "token"
	}

	return nil
}

type PersistenceDriver int

const (
	SQLite PersistenceDriver = iota
	BadgerDB
	InMem
)

func ParsePersistenceDriver(driver string) (PersistenceDriver, error) {
	switch driver {
	case "sqlite":
		return SQLite, nil
	case "badger":
		return BadgerDB, nil
	case "inmem":
		return InMem, nil
	default:
		return -1, errors.New("driver not supported")
	}
}

func (driver PersistenceDriver) String() string {
	switch driver {
	case SQLite:
		return "sqlite"
	case BadgerDB:
		return "badger"
	case InMem:
		return "inmem"
	default:
		return "unknown"
	}
}

type Persistence struct {
	Driver PersistenceDriver
	Name   string
	Host   string
	InMem  bool
}

func (p *Persistence) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Driver string `yaml:"driver"`
		Name   string `yaml:"name"`
		Host   string `yaml:"host"`
		InMem  bool   `yaml:"inmem"`
	}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	driver, err := ParsePersistenceDriver(raw.Driver)
	if err != nil {
		return err
	}

	p.Driver = driver

	p.Name = raw.Name
	if p.Name == "" {
		p.Name = "questionaire"
	}

	p.Host = raw.Host
	if raw.Host == "" {
		p.Host = Path
	}

	p.InMem = raw.InMem

	return nil
}

type RevocationDriver int

const (
	MemoryRevocation RevocationDriver = iota
	RedisRevocation
)

func ParseRevocationDriver(driver string) (RevocationDriver, error) {
	switch driver {
	case "", "memory":
		return MemoryRevocation, nil
	case "redis":
		return RedisRevocation, nil
	default:
		return -1, errors.New("revocation driver not supported")
	}
}

func (driver RevocationDriver) String() string {
	switch driver {
	case MemoryRevocation:
		return "memory"
	case RedisRevocation:
		return "redis"
	default:
		return "unknown"
	}
}

type Revocation struct {
	Driver   RevocationDriver
	Addr     string
	Password string
	DB       int
}

func (r *Revocation) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Driver   string `yaml:"driver"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	driver, err := ParseRevocationDriver(raw.Driver)
	if err != nil {
		return err
	}

	r.Driver = driver
	r.Addr = raw.Addr
	if r.Driver == RedisRevocation && r.Addr == "" {
		r.Addr = "localhost:6379"
	}

	r.Password = raw.Password
	r.DB = raw.DB

	return nil
}

type MailDriver int

const (
	SMTPMail MailDriver = iota
	LogMail
)

func ParseMailDriver(driver string) (MailDriver, error) {
	switch driver {
	case "smtp":
		return SMTPMail, nil
	case "", "log":
		return LogMail, nil
	default:
		return -1, errors.New("mail driver not supported")
	}
}

func (driver MailDriver) String() string {
	switch driver {
	case SMTPMail:
		return "smtp"
	case LogMail:
		return "log"
	default:
		return "unknown"
	}
}

type Mail struct {
	Driver       MailDriver
	Host         string
	Port         int
	Username     string
	Password     string
	From         string
	SenderName   string
	SurveySender string
	Timeout      time.Duration
}

func (m *Mail) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Driver       string `yaml:"driver"`
		Host         string `yaml:"host"`
		Port         int    `yaml:"port"`
		Username     string `yaml:"username"`
		Password     string `yaml:"password"`
		From         string `yaml:"from"`
		SenderName   string `yaml:"senderName"`
		SurveySender string `yaml:"surveySender"`
		Timeout      string `yaml:"timeout"`
	}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	driver, err := ParseMailDriver(raw.Driver)
	if err != nil {
		return err
	}

	m.Driver = driver
	m.Host = raw.Host
	m.Port = raw.Port
	if m.Port == 0 {
		m.Port = 587
	}

	m.Username = raw.Username
	m.Password = raw.Password

	m.From = raw.From
	if m.From == "" {
		m.From = raw.Username
	}

	if m.Driver == SMTPMail && (m.Host == "" || m.From == "") {
		return errors.New("smtp mail requires host and from address")
	}

	m.SenderName = raw.SenderName
	m.SurveySender = raw.SurveySender
	if m.SurveySender == "" {
		m.SurveySender = "Marketing Survey"
	}

	if raw.Timeout == "" {
		m.Timeout = 10 * time.Second
	} else {
		timeout, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return err
		}

		m.Timeout = timeout
	}

	return nil
}

type EventBus struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Prefix  string `yaml:"prefix"`
}

type RateLimit struct {
	RPS            float64  `yaml:"rps"`
	Burst          int      `yaml:"burst"`
	TrustedProxies []string `yaml:"trustedProxies"`
}
