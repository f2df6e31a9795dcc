package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kushal-Harsora/questionaire/conf"
	"github.com/Kushal-Harsora/questionaire/session"
)

// SessionCookie carries the session token between the browser and the API.
type SessionCookie struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

func NewSessionCookie(cfg *conf.Config) SessionCookie {
	return SessionCookie{
		Name:   cfg.JWT.Cookie,
		MaxAge: cfg.JWT.Timeout,
		Secure: cfg.Production,
	}
}

func (sc SessionCookie) Set(c *gin.Context, token *session.Token) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sc.Name,
		Value:    token.Token,
		Path:     "/",
		MaxAge:   int(sc.MaxAge.Seconds()),
		Expires:  token.ExpiredAt,
		Secure:   sc.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear logs the visitor out by expiring the cookie.
func (sc SessionCookie) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sc.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		Secure:   sc.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// Token returns the raw token, or an empty string when the cookie is absent.
func (sc SessionCookie) Token(c *gin.Context) string {
	token, err := c.Cookie(sc.Name)
	if err != nil {
		return ""
	}

	return token
}
