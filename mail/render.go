package mail

import (
	"embed"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/Kushal-Harsora/questionaire/booking"
	"github.com/Kushal-Harsora/questionaire/questionnaire"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	QuestionnaireSubject = "Your Marketing Questionnaire Responses"
	ConfirmationSubject  = "Your Booking Confirmation"
	ReminderSubject      = "Reminder: Your Consultation Tomorrow"
)

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.New("").
			Funcs(htmltemplate.FuncMap{"inc": func(i int) int { return i + 1 }}).
			ParseFS(templateFS, "templates/*.html.tmpl"))

	textTemplates = texttemplate.Must(texttemplate.New("").
			Funcs(texttemplate.FuncMap{"day": day}).
			ParseFS(templateFS, "templates/*.txt.tmpl"))
)

// day formats a date the way browsers print Date.toDateString.
func day(t time.Time) string {
	return t.Format("Mon Jan 02 2006")
}

func RenderQuestionnaire(answers []questionnaire.Answer) (string, error) {
	var sb strings.Builder
	data := struct{ Answers []questionnaire.Answer }{answers}
	if err := htmlTemplates.ExecuteTemplate(&sb, "questionnaire.html.tmpl", data); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func RenderConfirmation(b *booking.Booking) (string, error) {
	var sb strings.Builder
	if err := textTemplates.ExecuteTemplate(&sb, "confirmation.txt.tmpl", b); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func RenderReminder(b *booking.Booking) (string, error) {
	var sb strings.Builder
	if err := textTemplates.ExecuteTemplate(&sb, "reminder.txt.tmpl", b); err != nil {
		return "", err
	}

	return sb.String(), nil
}
