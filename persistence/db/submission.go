package db

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Kushal-Harsora/questionaire/questionnaire"
)

type Submission struct {
	ID      string   `gorm:"primaryKey"`
	Email   string   `gorm:"index"`
	Answers []Answer `gorm:"foreignKey:SubmissionID"`
	DataModel
}

type Answer struct {
	ID           uint   `gorm:"primaryKey"`
	SubmissionID string `gorm:"index"`
	Position     int
	Question     string
	Answer       string
}

func NewSubmission(s *questionnaire.Submission) *Submission {
	answers := make([]Answer, 0, len(s.Answers))
	for i, a := range s.Answers {
		answers = append(answers, Answer{
			SubmissionID: s.ID.String(),
			Position:     i,
			Question:     a.Question,
			Answer:       a.Answer,
		})
	}

	return &Submission{
		ID:      s.ID.String(),
		Email:   s.Email,
		Answers: answers,
		DataModel: DataModel{
			CreatedAt: s.CreatedAt,
		},
	}
}

func (s *Submission) reconstitute() (*questionnaire.Submission, error) {
	id, err := questionnaire.ParseID(s.ID)
	if err != nil {
		return nil, err
	}

	answers := make([]questionnaire.Answer, 0, len(s.Answers))
	for _, a := range s.Answers {
		answers = append(answers, questionnaire.Answer{
			Question: a.Question,
			Answer:   a.Answer,
		})
	}

	return &questionnaire.Submission{
		ID:        id,
		Email:     s.Email,
		Answers:   answers,
		CreatedAt: s.CreatedAt,
	}, nil
}

type submissionRepository struct {
	db *gorm.DB
}

func orderedAnswers(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

func (repo *submissionRepository) Store(s *questionnaire.Submission) error {
	submission := NewSubmission(s) // convert Domain to Data model

	return repo.db.Transaction(func(tx *gorm.DB) error {
		// First, delete existing answers
		if err := tx.Where("submission_id = ?", submission.ID).
			Delete(&Answer{}).
			Error; err != nil {
			return err
		}

		// Then, save the submission with its answers
		return tx.Save(submission).Error
	})
}

func (repo *submissionRepository) Find(id questionnaire.SubmissionID) (*questionnaire.Submission, error) {
	var s *Submission

	result := repo.db.Preload("Answers", orderedAnswers).Take(&s, "id = ?", id.String())
	if err := result.Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, questionnaire.ErrSubmissionNotFound
		}

		return nil, err
	}

	return s.reconstitute()
}

func (repo *submissionRepository) ListByEmail(email string) ([]*questionnaire.Submission, error) {
	var submissions []*Submission

	result := repo.db.Preload("Answers", orderedAnswers).
		Where("email = ?", email).
		Order("id").
		Find(&submissions)

	if err := result.Error; err != nil {
		return nil, err
	}

	results := make([]*questionnaire.Submission, 0, len(submissions))
	for _, s := range submissions {
		submission, err := s.reconstitute()
		if err != nil {
			return nil, err
		}

		results = append(results, submission)
	}

	return results, nil
}
