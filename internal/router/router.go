package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/medschedule-api/internal/middleware"
	apperrors "github.com/jwalitptl/medschedule-api/pkg/errors"
	"github.com/jwalitptl/medschedule-api/pkg/httputil"
	"github.com/jwalitptl/medschedule-api/pkg/metrics"
	"github.com/jwalitptl/medschedule-api/pkg/validator"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type SessionHandler interface {
	RegisterRoutes(public, protected *gin.RouterGroup)
}

type FunctionHandler interface {
	RegisterRoutes(gin.IRoutes)
}

// Handlers groups everything the router mounts. Confirmation is optional.
type Handlers struct {
	Health       Handler
	Auth         SessionHandler
	Doctor       Handler
	Appointment  Handler
	Patient      Handler
	Chat         Handler
	Admin        Handler
	Confirmation FunctionHandler
}

type RouterConfig struct {
	Release   bool
	RateLimit rate.Limit
	RateBurst int
	// RateLimitEnabled turns the per-client limiter on.
	RateLimitEnabled bool
	CORSConfig       middleware.CORSConfig
	// TrustedProxies may set the client IP through X-Forwarded-For. Nil trusts
	// no one, so the limiter keys on the peer address.
	TrustedProxies []string
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, m *metrics.Metrics, config RouterConfig) (*Router, error) {
	if config.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Setup()

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	if err := engine.SetTrustedProxies(config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(m),
	)

	r := &Router{engine: engine, auth: auth, handlers: handlers}

	// the confirmation function answers its own preflight and envelope
	if handlers.Confirmation != nil {
		handlers.Confirmation.RegisterRoutes(engine)
	}

	engine.Use(middleware.CORS(config.CORSConfig))
	if config.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(limiter.RateLimit())
	}

	engine.NoRoute(func(c *gin.Context) {
		httputil.RespondWithError(c, apperrors.NotFound("route", nil))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, httputil.ErrorResponse{
			Status:  "error",
			Code:    "method_not_allowed",
			Message: "method not allowed",
		})
	})

	return r, nil
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	r.handlers.Health.RegisterRoutes(api)

	// Public routes
	r.handlers.Doctor.RegisterRoutes(api)

	// Protected routes
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	r.handlers.Auth.RegisterRoutes(api, protected)
	r.handlers.Appointment.RegisterRoutes(protected)
	r.handlers.Patient.RegisterRoutes(protected)
	r.handlers.Chat.RegisterRoutes(protected)

	admin := protected.Group("")
	admin.Use(r.auth.RequireAdmin())
	r.handlers.Admin.RegisterRoutes(admin)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
