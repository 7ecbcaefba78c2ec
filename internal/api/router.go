package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/taskmanager/task-tracker/docs"
	"github.com/taskmanager/task-tracker/internal/api/handler"
	"github.com/taskmanager/task-tracker/internal/api/middleware"
	"github.com/taskmanager/task-tracker/internal/core/domain"
	"github.com/taskmanager/task-tracker/internal/core/ports"
	"github.com/taskmanager/task-tracker/internal/infrastructure/http/handlers"
)

// metricsSubsystem prefixes the HTTP request metrics recorded by echoprometheus.
const metricsSubsystem = "tasktracker"

// Dependencies are the collaborators the router wires into handlers and middleware.
type Dependencies struct {
	Log          zerolog.Logger
	AuthService  ports.AuthService
	TaskService  ports.TaskService
	UserService  ports.UserService
	Tokens       middleware.TokenVerifier
	Resolver     middleware.PrincipalResolver
	HealthChecks map[string]handlers.Check

	// EnableMetrics registers the Prometheus middleware and /metrics. The
	// collectors live in the default registry, so enable it once per process.
	EnableMetrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	if deps.EnableMetrics {
		e.Use(echoprometheus.NewMiddleware(metricsSubsystem))
		e.GET("/metrics", echoprometheus.NewHandler())
	}
	e.Use(middleware.Authenticate(deps.Tokens, deps.Resolver, deps.Log))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	taskHandler := handler.NewTaskHandler(deps.TaskService)
	adminHandler := handler.NewAdminHandler(deps.TaskService, deps.UserService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Task routes (any authenticated principal) ---
	tasks := e.Group("/tasks", middleware.RequireAuthenticated())
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create)
	tasks.GET("/statistics", taskHandler.Statistics)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	// --- Admin routes ---
	admin := e.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/tasks", adminHandler.ListTasks)
	admin.GET("/users", adminHandler.ListUsers)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- API docs ---
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= 500 {
				event = log.Error()
			}
			if v.Error != nil {
				event = event.Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
