package http

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/kit/endpoint"

	"github.com/Kushal-Harsora/questionaire"
)

//go:embed templates/*.html
var pagesFS embed.FS

func Pages() *template.Template {
	return template.Must(template.ParseFS(pagesFS, "templates/*.html"))
}

type page struct {
	Title string
	Email string
	Data  any
}

// email returns the address of the current session, if any.
func email(c *gin.Context, endpoint endpoint.Endpoint, cookie SessionCookie) string {
	token := cookie.Token(c)
	if token == "" {
		return ""
	}

	resp, err := endpoint(c, token)
	if err != nil {
		return ""
	}

	s, ok := resp.(questionaire.SessionResponse)
	if !ok {
		return ""
	}

	return s.Email
}

func IndexPage(session endpoint.Endpoint, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", page{
			Title: "Welcome",
			Email: email(c, session, cookie),
		})
	}
}

// QuestionsPage sends visitors without a session back to the sign in page.
func QuestionsPage(questions endpoint.Endpoint, session endpoint.Endpoint, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr := email(c, session, cookie)
		if addr == "" {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}

		steps, err := questions(c, nil)
		if err != nil {
			c.Error(err)
			c.String(StatusCode(err), err.Error())
			return
		}

		c.HTML(http.StatusOK, "questions.html", page{
			Title: "Questionnaire",
			Email: addr,
			Data:  steps,
		})
	}
}

func FormPage(availability endpoint.Endpoint, session endpoint.Endpoint, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		days, err := availability(c, nil)
		if err != nil {
			c.Error(err)
			c.String(StatusCode(err), err.Error())
			return
		}

		c.HTML(http.StatusOK, "form.html", page{
			Title: "Book a Consultation",
			Email: email(c, session, cookie),
			Data:  days,
		})
	}
}
