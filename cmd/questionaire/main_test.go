package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/Kushal-Harsora/questionaire"
	"github.com/Kushal-Harsora/questionaire/booking"
	"github.com/Kushal-Harsora/questionaire/conf"
	"github.com/Kushal-Harsora/questionaire/questionnaire"
	"github.com/Kushal-Harsora/questionaire/session"
)

type questionaireTestSuite struct {
	suite.Suite
	cfg        *conf.Config
	svc        questionaire.Service
	components *components
}

func (suite *questionaireTestSuite) SetupSuite() {
	suite.T().Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")

	conf.Path = "../.."
	conf.Port = 8080

	cfg, err := conf.LoadConfig()
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	cfg.Persistence.Driver = conf.InMem
	cfg.Mail.Driver = conf.LogMail
	cfg.EventBus.Enabled = false

	svc, components, err := buildService(cfg, zap.NewNop())
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	suite.cfg = cfg
	suite.svc = svc
	suite.components = components
}

func (suite *questionaireTestSuite) TestQuestionsFromConfig() {
	steps := suite.svc.Questions()
	suite.Len(steps, 3)
	suite.Equal("About You", steps[0].Title)
}

func (suite *questionaireTestSuite) TestSubmitResponses() {
	ctx := context.Background()

	token, err := suite.svc.Login(ctx, "user01@example.com")
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	answers := []questionnaire.Answer{
		{Question: "What is your current role?", Answer: "Engineer"},
	}

	s, err := suite.svc.SubmitResponses(ctx, token.Token, answers)
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	suite.Equal("user01@example.com", s.Email)
	suite.Len(s.Answers, 1)

	_, err = suite.svc.Session(ctx, token.Token)
	suite.ErrorIs(err, session.ErrTokenRevoked)

	list, err := suite.svc.Submissions(ctx, "user01@example.com")
	suite.Require().NoError(err)
	suite.Require().Len(list, 1)

	var out bytes.Buffer
	err = printSubmissions(&out, list)
	suite.Require().NoError(err)
	suite.Contains(out.String(), s.ID.String())
	suite.Contains(out.String(), "What is your current role?")
	suite.Contains(out.String(), "Engineer")
}

func (suite *questionaireTestSuite) TestBookAndRemind() {
	ctx := context.Background()

	days, err := suite.svc.Availability(ctx)
	if err != nil {
		suite.Fail(err.Error())
		return
	}
	suite.Require().NotEmpty(days)

	day := days[len(days)-1]
	slot := day.Slots[len(day.Slots)-1]

	inquiry := booking.Inquiry{
		Name:  "User02",
		Email: "user02@example.com",
		Phone: "9876543210",
		TimeSlot: booking.TimeSlot{
			Date:      day.Date,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		},
		Remark: "Please call before",
	}

	b, err := suite.svc.Book(ctx, "", inquiry)
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	suite.Equal(day.Date, b.Date)
	suite.Equal(slot.EndTime, b.EndTime)

	sent, err := suite.svc.SendReminders(ctx, day.Date)
	suite.NoError(err)
	suite.Equal(1, sent)
}

func (suite *questionaireTestSuite) TearDownSuite() {
	if suite.components != nil {
		suite.components.Close()
	}
}

func TestQuestionaireTestSuite(t *testing.T) {
	suite.Run(t, new(questionaireTestSuite))
}

func TestPrintNoSubmissions(t *testing.T) {
	var out bytes.Buffer
	err := printSubmissions(&out, nil)
	require.NoError(t, err)
	assert.Equal(t, "No submissions found\n", out.String())
}

func TestGenerateSecret(t *testing.T) {
	secret, err := generateSecret()
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(secret)
	require.NoError(t, err)
	assert.Len(t, raw, conf.MinSecretSize)
}

func TestTomorrow(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	expected := time.Now().In(loc).AddDate(0, 0, 1).Format(booking.DateLayout)
	assert.Equal(t, expected, tomorrow(loc))
}
