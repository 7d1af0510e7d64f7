package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/user-directory/docs"
	"github.com/99minutos/user-directory/internal/api/handler"
	"github.com/99minutos/user-directory/internal/api/middleware"
	"github.com/99minutos/user-directory/internal/core/ports"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Roles ports.RoleService
	Users ports.UserService

	// Mongo is required for readiness; Redis may be nil when disabled.
	Mongo handler.Pinger
	Redis handler.Pinger

	// ActivateLimiter guards POST /users/activate. Nil disables the limit.
	ActivateLimiter middleware.Limiter

	Logger zerolog.Logger
	// ExposeErrors includes raw storage errors in 500 responses.
	ExposeErrors bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(deps.Logger, deps.ExposeErrors)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Logger))
	e.Use(middleware.Metrics())

	// --- Roles ---
	roles := handler.NewRoleHandler(deps.Roles)
	e.GET("/roles", roles.List)
	e.POST("/roles", roles.Create)
	e.GET("/roles/:id", roles.Get)
	e.PUT("/roles/:id", roles.Update)
	e.DELETE("/roles/:id", roles.Delete)

	// --- Users ---
	users := handler.NewUserHandler(deps.Users)
	activateLimit := middleware.AttemptLimit(deps.ActivateLimiter, deps.Logger)
	e.POST("/users", users.Create)
	e.GET("/users", users.List)
	e.POST("/users/activate", users.Activate, activateLimit)
	e.GET("/users/username/:username", users.GetByUsername)
	e.GET("/users/:id", users.Get)
	e.PUT("/users/:id", users.Update)
	e.DELETE("/users/:id", users.Delete)

	// --- Operational ---
	health := handler.NewHealthHandler(deps.Mongo, deps.Redis)
	e.GET("/", handler.Index)
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
