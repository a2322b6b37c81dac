package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/aircha/todo-web/internal/api/handler"
	"github.com/aircha/todo-web/internal/api/middleware"
	"github.com/aircha/todo-web/internal/api/view"
	"github.com/aircha/todo-web/internal/core/ports"
	"github.com/aircha/todo-web/internal/infrastructure/http/handlers"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Auth     ports.AuthService
	Todos    ports.TodoService
	Sessions ports.SessionGate
	Cookie   middleware.SessionCookie
	Checks   []handlers.Check
	Logger   zerolog.Logger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.Renderer = view.MustNew()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Infrastructure (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Checks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth pages ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Sessions, deps.Cookie)

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/todos")
	})
	e.GET("/signup", authHandler.SignupPage)
	e.POST("/signup", authHandler.Signup)
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)

	// --- Todo pages ---
	pageHandler := handler.NewTodoPageHandler(deps.Todos)
	pages := e.Group("/todos", middleware.RequireSession(deps.Sessions, deps.Cookie, middleware.RedirectToLogin))

	pages.GET("", pageHandler.List)
	pages.GET("/create", pageHandler.CreatePage)
	pages.POST("", pageHandler.Create)
	pages.GET("/:id/edit", pageHandler.UpdatePage)
	pages.POST("/:id", pageHandler.Update)
	pages.POST("/:id/toggle", pageHandler.Toggle)
	pages.POST("/:id/delete", pageHandler.Delete)

	// --- Todo API ---
	apiHandler := handler.NewTodoHandler(deps.Todos)
	api := e.Group("/api/todos", middleware.RequireSession(deps.Sessions, deps.Cookie, middleware.Unauthorized))

	api.POST("", apiHandler.Create)
	api.GET("", apiHandler.List)
	api.GET("/:id", apiHandler.Get)
	api.PUT("/:id", apiHandler.Update)
	api.POST("/:id/toggle", apiHandler.Toggle)
	api.DELETE("/:id", apiHandler.Delete)

	return e
}
