package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Kushal-Harsora/questionaire"
	"github.com/Kushal-Harsora/questionaire/booking"
	"github.com/Kushal-Harsora/questionaire/questionnaire"
	"github.com/Kushal-Harsora/questionaire/session"
)

var ErrRateLimited = errors.New("too many requests")

func StatusCode(err error) int {
	var verrs validator.ValidationErrors

	switch {
	case errors.Is(err, session.ErrTokenNotFound):
		return http.StatusNotFound

	case errors.Is(err, session.ErrInvalidToken),
		errors.Is(err, session.ErrTokenRevoked):
		return http.StatusUnauthorized

	case errors.Is(err, booking.ErrSlotFull):
		return http.StatusConflict

	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests

	case errors.As(err, &verrs),
		booking.IsValidationError(err),
		questionnaire.IsValidationError(err),
		errors.Is(err, booking.ErrInvalidDate),
		errors.Is(err, booking.ErrDateNotAllowed),
		errors.Is(err, booking.ErrSlotNotFound),
		errors.Is(err, booking.ErrSlotMismatch),
		errors.Is(err, questionaire.ErrInvalidEmail),
		errors.Is(err, questionaire.ErrInvalidRequest):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.Abort()
	c.Error(err)

	code := StatusCode(err)
	if code == http.StatusNotFound {
		c.JSON(code, gin.H{"message": "Token Not Found!"})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}

func invalidRequest(err error) error {
	return fmt.Errorf("%w: %w", questionaire.ErrInvalidRequest, err)
}
