package questionaire

import (
	"context"
	"errors"

	"github.com/go-kit/kit/endpoint"

	"github.com/Kushal-Harsora/questionaire/booking"
	"github.com/Kushal-Harsora/questionaire/questionnaire"
)

var ErrInvalidRequest = errors.New("invalid request")

type EndpointSet struct {
	Login           endpoint.Endpoint
	Session         endpoint.Endpoint
	Questions       endpoint.Endpoint
	SubmitResponses endpoint.Endpoint
	Submissions     endpoint.Endpoint
	Availability    endpoint.Endpoint
	Book            endpoint.Endpoint
	SendReminders   endpoint.Endpoint
}

func MakeEndpoints(svc Service) EndpointSet {
	return EndpointSet{
		Login:           LoginEndpoint(svc),
		Session:         SessionEndpoint(svc),
		Questions:       QuestionsEndpoint(svc),
		SubmitResponses: SubmitResponsesEndpoint(svc),
		Submissions:     SubmissionsEndpoint(svc),
		Availability:    AvailabilityEndpoint(svc),
		Book:            BookEndpoint(svc),
		SendReminders:   SendRemindersEndpoint(svc),
	}
}

type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func LoginEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		req, ok := request.(LoginRequest)
		if !ok {
			return nil, ErrInvalidRequest
		}

		return svc.Login(ctx, req.Email)
	}
}

type SessionResponse struct {
	Email string `json:"email"`
}

func SessionEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		token, ok := request.(string)
		if !ok {
			return nil, ErrInvalidRequest
		}

		claims, err := svc.Session(ctx, token)
		if err != nil {
			return nil, err
		}

		return SessionResponse{claims.Email}, nil
	}
}

func QuestionsEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		return svc.Questions(), nil
	}
}

type SubmitResponsesRequest struct {
	Token string                 `json:"-"`
	Data  []questionnaire.Answer `json:"data" binding:"required"`
}

func SubmitResponsesEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		req, ok := request.(SubmitResponsesRequest)
		if !ok {
			return nil, ErrInvalidRequest
		}

		return svc.SubmitResponses(ctx, req.Token, req.Data)
	}
}

func SubmissionsEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		email, ok := request.(string)
		if !ok {
			return nil, ErrInvalidRequest
		}

		return svc.Submissions(ctx, email)
	}
}

func AvailabilityEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		return svc.Availability(ctx)
	}
}

type BookRequest struct {
	Token   string `json:"-"`
	Inquiry booking.Inquiry
}

func BookEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		req, ok := request.(BookRequest)
		if !ok {
			return nil, ErrInvalidRequest
		}

		return svc.Book(ctx, req.Token, req.Inquiry)
	}
}

type SendRemindersResponse struct {
	Date string `json:"date"`
	Sent int    `json:"sent"`
}

func SendRemindersEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		date, ok := request.(string)
		if !ok {
			return nil, ErrInvalidRequest
		}

		sent, err := svc.SendReminders(ctx, date)
		if err != nil {
			return nil, err
		}

		return SendRemindersResponse{date, sent}, nil
	}
}
