package questionnaire

type Repository interface {
	// Command

	Store(s *Submission) error

	// Query

	Find(id SubmissionID) (*Submission, error)
	ListByEmail(email string) ([]*Submission, error)
}
