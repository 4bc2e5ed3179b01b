package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/virtual-artifact/social-api/docs"
	"github.com/virtual-artifact/social-api/internal/api/handler"
	"github.com/virtual-artifact/social-api/internal/api/middleware"
	"github.com/virtual-artifact/social-api/internal/core/ports"
)

// Deps are the services the HTTP layer is built on.
type Deps struct {
	Auth  ports.AuthService
	Posts ports.PostService
	// Store enables POST /upload when non-nil.
	Store  ports.ObjectStore
	Checks map[string]handler.DependencyCheck
	// Registerer receives the HTTP request metrics. Nil means the default
	// Prometheus registry.
	Registerer prometheus.Registerer
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	postHandler := handler.NewPostHandler(deps.Posts)
	healthHandler := handler.NewHealthHandler(deps.Checks)
	requireUser := middleware.Auth(deps.Auth)

	// --- Probes and tooling (no auth required) ---
	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/token", authHandler.Login)
	e.GET("/confirm/:token", authHandler.Confirm)
	e.POST("/confirm/resend", authHandler.ResendConfirmation)

	// --- Posts ---
	e.GET("/post", postHandler.ListPosts)
	e.GET("/post/:id", postHandler.GetPost)
	e.GET("/post/:id/comment", postHandler.PostComments)
	e.POST("/post", postHandler.CreatePost, requireUser)
	e.POST("/comment", postHandler.CreateComment, requireUser)
	e.POST("/like", postHandler.LikePost, requireUser)

	if deps.Store != nil {
		uploadHandler := handler.NewUploadHandler(deps.Store, deps.Log)
		e.POST("/upload", uploadHandler.Upload, requireUser)
	}

	return e
}

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
			if v.Error != nil {
				event = log.Warn().Err(v.Error)
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
