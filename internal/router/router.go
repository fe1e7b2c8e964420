package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskkeeper/backend/api/handler"
)

type Handlers struct {
	Auth     *apiHandler.AuthHandler
	Task     *apiHandler.TaskHandler
	Category *apiHandler.CategoryHandler
	Views    *apiHandler.ViewsHandler
	Health   *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/signup", handlers.Auth.Signup)
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))
	r.GET("/api/v1/auth/me", authMiddleware(handlers.Auth.Me))

	// Protected routes
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.List))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.Create))
	r.GET("/api/v1/tasks/upcoming", authMiddleware(handlers.Views.Upcoming))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Update))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Delete))
	r.POST("/api/v1/tasks/{id}/toggle", authMiddleware(handlers.Task.Toggle))

	r.GET("/api/v1/categories", authMiddleware(handlers.Category.List))
	r.POST("/api/v1/categories", authMiddleware(handlers.Category.Create))
	r.DELETE("/api/v1/categories/{id}", authMiddleware(handlers.Category.Delete))

	r.GET("/api/v1/dashboard", authMiddleware(handlers.Views.Dashboard))

	return r
}
