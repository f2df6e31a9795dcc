package conf

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadConfigExpandsEnv(t *testing.T) {
	dir := t.TempDir()

	content := `
name: questionaire-test
appName: Acme Marketing
jwt:
  secret: ${QUESTIONAIRE_TEST_SECRET}
  timeout: 2h
persistence:
  driver: inmem
mail:
  driver: log
booking:
  timeZone: UTC
  horizon: 3
`
	err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644)
	require.NoError(t, err)

	t.Setenv("QUESTIONAIRE_TEST_SECRET", testSecret)
	Path = dir

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "questionaire-test", cfg.Name)
	assert.Equal(t, []byte(testSecret), cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Timeout)
	assert.Equal(t, "token", cfg.JWT.Cookie)
	assert.Equal(t, InMem, cfg.Persistence.Driver)
	assert.Equal(t, dir, cfg.Persistence.Host)
	assert.Equal(t, "UTC", cfg.Booking.TimeZone.String())
	assert.Equal(t, 3, cfg.Booking.Horizon)
	assert.Len(t, cfg.Booking.Slots, 3)
	assert.Equal(t, 1, cfg.Booking.Capacity)

	// untouched sections keep their defaults
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.NotEmpty(t, cfg.Questionnaire.Steps)
}

func TestLoadConfigKeepsLiteralDollars(t *testing.T) {
	dir := t.TempDir()

	content := `
jwt:
  secret: "abc$$def0123456789abcdef0123456789xyz"
mail:
  driver: smtp
  host: smtp.example.com
  username: ${QUESTIONAIRE_TEST_USER}
  password: "pa$sword"
`
	err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644)
	require.NoError(t, err)

	t.Setenv("QUESTIONAIRE_TEST_USER", "mailer@example.com")
	t.Setenv("sword", "leaked")
	Path = dir

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []byte("abc$$def0123456789abcdef0123456789xyz"), cfg.JWT.Secret)
	assert.Equal(t, "mailer@example.com", cfg.Mail.Username)
	assert.Equal(t, "pa$sword", cfg.Mail.Password)
}

func TestEnvExpandedReader(t *testing.T) {
	t.Setenv("QUESTIONAIRE_TEST_HOST", "db.internal")

	r, err := NewEnvExpandedReader(strings.NewReader(
		"host: ${QUESTIONAIRE_TEST_HOST}\nunset: '${QUESTIONAIRE_TEST_UNSET}'\nraw: $HOME $$ $",
	))
	require.NoError(t, err)

	data, err := io.ReadAll(r)
	require.NoError(t, err)

	assert.Equal(t, "host: db.internal\nunset: ''\nraw: $HOME $$ $", string(data))
}

func newCLIContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("questionaire", flag.ContinueOnError)
	set.String("path", "", "")
	set.Int("port", 8080, "")
	require.NoError(t, set.Parse(args))

	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestLoadEnvDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	err := LoadEnv(newCLIContext(t))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".questionaire"), Path)
	assert.Equal(t, 8080, Port)
}

func TestLoadEnvReadsDotEnv(t *testing.T) {
	dir := t.TempDir()

	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("QUESTIONAIRE_TEST_DOTENV=from-file\n"), 0o644)
	require.NoError(t, err)
	t.Cleanup(func() { os.Unsetenv("QUESTIONAIRE_TEST_DOTENV") })

	err = LoadEnv(newCLIContext(t, "-path", dir, "-port", "9090"))
	require.NoError(t, err)

	assert.Equal(t, dir, Path)
	assert.Equal(t, 9090, Port)
	assert.Equal(t, "from-file", os.Getenv("QUESTIONAIRE_TEST_DOTENV"))
}

func TestLoadConfigFallsBackToExample(t *testing.T) {
	dir := t.TempDir()

	content := "jwt:\n  secret: " + testSecret + "\n"
	err := os.WriteFile(filepath.Join(dir, "config.example.yaml"), []byte(content), 0o644)
	require.NoError(t, err)

	Path = dir

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Timeout)
}

func TestJWTSecretTooShort(t *testing.T) {
	var cfg JWT
	err := yaml.Unmarshal([]byte("secret: short"), &cfg)
	assert.ErrorIs(t, err, ErrSecretTooShort)
}

func TestBookingSlotsValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  string
	}{
		{
			name: "end before start",
			yaml: "slots:\n  - start: \"13:00:00\"\n    end: \"11:00:00\"\n",
			err:  "must end after",
		},
		{
			name: "bad clock",
			yaml: "slots:\n  - start: \"1pm\"\n    end: \"15:00:00\"\n",
			err:  "invalid slot start",
		},
		{
			name: "duplicate start",
			yaml: "slots:\n  - start: \"09:00:00\"\n    end: \"10:00:00\"\n  - start: \"09:00:00\"\n    end: \"11:00:00\"\n",
			err:  "duplicate slot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Booking
			err := yaml.Unmarshal([]byte(tt.yaml), &b)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.err), err.Error())
		})
	}
}

func TestQuestionnaireDuplicateID(t *testing.T) {
	content := `
steps:
  - title: one
    questions:
      - id: a
        text: A?
  - title: two
    questions:
      - id: a
        text: Again?
`
	var q Questionnaire
	err := yaml.Unmarshal([]byte(content), &q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate question id")
}

func TestMailRequiresHostForSMTP(t *testing.T) {
	var m Mail
	err := yaml.Unmarshal([]byte("driver: smtp\nusername: someone@example.com\n"), &m)
	assert.Error(t, err)

	err = yaml.Unmarshal([]byte("driver: smtp\nhost: smtp.example.com\nusername: someone@example.com\n"), &m)
	require.NoError(t, err)
	assert.Equal(t, "someone@example.com", m.From)
	assert.Equal(t, 587, m.Port)
	assert.Equal(t, "Marketing Survey", m.SurveySender)
}
