package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/kit/endpoint"

	"github.com/Kushal-Harsora/questionaire"
	"github.com/Kushal-Harsora/questionaire/booking"
	"github.com/Kushal-Harsora/questionaire/session"
)

const (
	LoginMessage     = "Login Successful"
	SubmittedMessage = "Responses submitted and email sent successfully. Logout Successful"
	BookedMessage    = "Form Submitted Successfully!"
)

var ErrInvalidResponse = errors.New("invalid response")

func LoginHandler(endpoint endpoint.Endpoint, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req questionaire.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, invalidRequest(err))
			return
		}

		resp, err := endpoint(c, req)
		if err != nil {
			fail(c, err)
			return
		}

		token, ok := resp.(*session.Token)
		if !ok {
			fail(c, ErrInvalidResponse)
			return
		}

		cookie.Set(c, token)

		c.JSON(http.StatusOK, gin.H{"message": LoginMessage})
	}
}

func SessionHandler(endpoint endpoint.Endpoint, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := endpoint(c, cookie.Token(c))
		if err != nil {
			fail(c, err)
			return
		}

		c.JSON(http.StatusOK, &resp)
	}
}

func QuestionsHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := endpoint(c, nil)
		if err != nil {
			fail(c, err)
			return
		}

		c.JSON(http.StatusOK, &resp)
	}
}

func SubmitResponsesHandler(endpoint endpoint.Endpoint, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookie.Token(c)
		if token == "" {
			fail(c, session.ErrTokenNotFound)
			return
		}

		var req questionaire.SubmitResponsesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, invalidRequest(err))
			return
		}
		req.Token = token

		if _, err := endpoint(c, req); err != nil {
			fail(c, err)
			return
		}

		cookie.Clear(c)

		c.JSON(http.StatusOK, gin.H{"message": SubmittedMessage})
	}
}

func AvailabilityHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := endpoint(c, nil)
		if err != nil {
			fail(c, err)
			return
		}

		c.JSON(http.StatusOK, &resp)
	}
}

type TimeSlotRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime"`
}

type InquiryRequest struct {
	Name     string          `json:"name" binding:"required,max=100"`
	Email    string          `json:"email" binding:"required,email"`
	Phone    string          `json:"phone" binding:"required,phone"`
	TimeSlot TimeSlotRequest `json:"timeSlot"`
	Remark   string          `json:"remark" binding:"required,max=100"`
}

func (req InquiryRequest) Inquiry() booking.Inquiry {
	return booking.Inquiry{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		TimeSlot: booking.TimeSlot{
			Date:      req.TimeSlot.Date,
			StartTime: req.TimeSlot.StartTime,
			EndTime:   req.TimeSlot.EndTime,
		},
		Remark: req.Remark,
	}
}

func BookHandler(endpoint endpoint.Endpoint, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req InquiryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, invalidRequest(err))
			return
		}

		book := questionaire.BookRequest{
			Token:   cookie.Token(c),
			Inquiry: req.Inquiry(),
		}

		if _, err := endpoint(c, book); err != nil {
			fail(c, err)
			return
		}

		cookie.Clear(c)

		c.JSON(http.StatusOK, gin.H{"message": BookedMessage})
	}
}

func HealthHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
