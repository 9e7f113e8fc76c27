package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/seminarhub/backend/api/handler"
)

type Handlers struct {
	User    *apiHandler.UserHandler
	Seminar *apiHandler.SeminarHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Account routes
	r.POST("/api/v1/user", handlers.User.Register)
	r.PUT("/api/v1/user/login", handlers.User.Login)
	r.DELETE("/api/v1/user/logout", authMiddleware(handlers.User.Logout))
	r.GET("/api/v1/user/me", authMiddleware(handlers.User.Me))
	r.PUT("/api/v1/user/me", authMiddleware(handlers.User.UpdateMe))
	r.POST("/api/v1/user/participant", authMiddleware(handlers.User.RegisterParticipant))
	r.GET("/api/v1/user/{id}", authMiddleware(handlers.User.Get))

	// Seminar routes; detail and listing are public
	r.GET("/api/v1/seminar", handlers.Seminar.List)
	r.GET("/api/v1/seminar/{id}", handlers.Seminar.Get)
	r.POST("/api/v1/seminar", authMiddleware(handlers.Seminar.Create))
	r.PUT("/api/v1/seminar/{id}", authMiddleware(handlers.Seminar.Update))
	r.POST("/api/v1/seminar/{id}/user", authMiddleware(handlers.Seminar.Attend))
	r.DELETE("/api/v1/seminar/{id}/user", authMiddleware(handlers.Seminar.Drop))

	return r
}
