package questionnaire

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
)

var (
	ErrNoAnswers          = errors.New("at least one answer is required")
	ErrEmptyQuestion      = errors.New("question must not be empty")
	ErrAnswerTooLong      = errors.New("answer must be at most 1000 characters")
	ErrSubmissionNotFound = errors.New("submission not found")
)

const MaxAnswerLength = 1000

type SubmissionID ulid.ULID

func MakeID() SubmissionID {
	return SubmissionID(ulid.Make())
}

func ParseID(id string) (SubmissionID, error) {
	submissionID, err := ulid.Parse(id)
	if err != nil {
		return SubmissionID{}, err
	}
	return SubmissionID(submissionID), nil
}

func (id SubmissionID) String() string {
	return ulid.ULID(id).String()
}

func (id SubmissionID) Time() time.Time {
	return ulid.Time(ulid.ULID(id).Time())
}

func (id SubmissionID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *SubmissionID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	submissionID, err := ParseID(s)
	if err != nil {
		return err
	}

	*id = submissionID
	return nil
}

type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Normalize trims the answers and checks them. Answers may be empty; the
// visitor is free to skip a question.
func Normalize(answers []Answer) ([]Answer, error) {
	if len(answers) == 0 {
		return nil, ErrNoAnswers
	}

	normalized := make([]Answer, 0, len(answers))
	for _, a := range answers {
		a.Question = strings.TrimSpace(a.Question)
		a.Answer = strings.TrimSpace(a.Answer)

		if a.Question == "" {
			return nil, ErrEmptyQuestion
		}

		if utf8.RuneCountInString(a.Answer) > MaxAnswerLength {
			return nil, ErrAnswerTooLong
		}

		normalized = append(normalized, a)
	}

	return normalized, nil
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrNoAnswers) ||
		errors.Is(err, ErrEmptyQuestion) ||
		errors.Is(err, ErrAnswerTooLong)
}

type Submission struct {
	ID        SubmissionID `json:"id"`
	Email     string       `json:"email"`
	Answers   []Answer     `json:"answers"`
	CreatedAt time.Time    `json:"createdAt"`
}

func NewSubmission(email string, answers []Answer) (*Submission, error) {
	normalized, err := Normalize(answers)
	if err != nil {
		return nil, err
	}

	id := MakeID()

	return &Submission{
		ID:        id,
		Email:     email,
		Answers:   normalized,
		CreatedAt: id.Time(),
	}, nil
}

type SubmittedEvent struct {
	Submission Submission `json:"submission"`
	OccuredAt  time.Time  `json:"occured_at"`
}

func NewSubmittedEvent(s *Submission) *SubmittedEvent {
	return &SubmittedEvent{
		Submission: *s,
		OccuredAt:  time.Now(),
	}
}

func (e *SubmittedEvent) EventName() string {
	return "questionnaire_submitted"
}

func (e *SubmittedEvent) Topic() string {
	return "submissions." + e.Submission.ID.String() + ".submitted"
}
