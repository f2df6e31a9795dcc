package http

import (
	"github.com/gin-gonic/gin"

	"github.com/Kushal-Harsora/questionaire"
)

// AddRouters registers every page and API route on r. Only the listed
// proxies may set the client address through forwarding headers; with none,
// the rate limiter keys on the connection's remote address.
func AddRouters(r *gin.Engine, endpoints questionaire.EndpointSet, cookie SessionCookie, limiter *RateLimiter, trustedProxies []string) error {
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		return err
	}

	if err := RegisterValidations(); err != nil {
		return err
	}

	r.SetHTMLTemplate(Pages())

	// GET /healthz
	r.GET("/healthz", HealthHandler)

	// GET /
	r.GET("/", IndexPage(endpoints.Session, cookie))

	// GET /questions
	r.GET("/questions", QuestionsPage(endpoints.Questions, endpoints.Session, cookie))

	// GET /form
	r.GET("/form", FormPage(endpoints.Availability, endpoints.Session, cookie))

	api := r.Group("/api")
	{
		// POST /api/auth
		api.POST("/auth", limiter.Handler(), LoginHandler(endpoints.Login, cookie))

		// GET /api/helper
		api.GET("/helper", SessionHandler(endpoints.Session, cookie))

		// GET /api/questions
		api.GET("/questions", QuestionsHandler(endpoints.Questions))

		// POST /api/data
		api.POST("/data", limiter.Handler(), SubmitResponsesHandler(endpoints.SubmitResponses, cookie))

		// GET /api/slots
		api.GET("/slots", AvailabilityHandler(endpoints.Availability))

		// POST /api/form
		api.POST("/form", limiter.Handler(), BookHandler(endpoints.Book, cookie))
	}

	return nil
}
