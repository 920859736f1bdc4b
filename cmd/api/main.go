package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/medschedule-api/internal/config"
	"github.com/jwalitptl/medschedule-api/internal/confirmation"
	"github.com/jwalitptl/medschedule-api/internal/email"
	adminHandler "github.com/jwalitptl/medschedule-api/internal/handler/admin"
	appointmentHandler "github.com/jwalitptl/medschedule-api/internal/handler/appointment"
	authHandler "github.com/jwalitptl/medschedule-api/internal/handler/auth"
	chatHandler "github.com/jwalitptl/medschedule-api/internal/handler/chat"
	confirmationHandler "github.com/jwalitptl/medschedule-api/internal/handler/confirmation"
	doctorHandler "github.com/jwalitptl/medschedule-api/internal/handler/doctor"
	"github.com/jwalitptl/medschedule-api/internal/handler/health"
	patientHandler "github.com/jwalitptl/medschedule-api/internal/handler/patient"
	"github.com/jwalitptl/medschedule-api/internal/middleware"
	"github.com/jwalitptl/medschedule-api/internal/repository/postgres"
	"github.com/jwalitptl/medschedule-api/internal/router"
	appointmentService "github.com/jwalitptl/medschedule-api/internal/service/appointment"
	authService "github.com/jwalitptl/medschedule-api/internal/service/auth"
	"github.com/jwalitptl/medschedule-api/internal/service/chat"
	"github.com/jwalitptl/medschedule-api/internal/service/dashboard"
	doctorService "github.com/jwalitptl/medschedule-api/internal/service/doctor"
	"github.com/jwalitptl/medschedule-api/internal/service/notification"
	patientService "github.com/jwalitptl/medschedule-api/internal/service/patient"
	"github.com/jwalitptl/medschedule-api/pkg/logger"
	"github.com/jwalitptl/medschedule-api/pkg/metrics"
	"github.com/jwalitptl/medschedule-api/pkg/security"
)

func main() {
	configFile := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	format := cfg.Logging.Format
	if format == "" && !cfg.IsDevelopment() {
		format = "json"
	}
	logger.NewLogger(&logger.Config{
		Level:       logger.ParseLevel(cfg.Logging.Level),
		Format:      format,
		ServiceName: "medschedule-api",
	}).SetGlobal()

	loc, err := cfg.Schedule.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid schedule timezone")
	}

	ctx := context.Background()

	// Initialize metrics
	m := metrics.NewMetrics(cfg.Monitoring.Namespace)
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := m.Register(registry); err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	// Initialize database
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	checks := []health.Check{{Name: "database", Ping: db.PingContext}}

	// Session revocation lives in redis when configured so it survives restarts
	// and is shared between replicas.
	revocations := authService.NewMemoryRevocationStore()
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid redis url")
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		revocations = authService.NewRedisRevocationStore(rdb)
		checks = append(checks, health.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	} else {
		log.Warn().Msg("redis not configured, sign-outs are kept in memory")
	}

	// Initialize repositories
	doctorRepo := postgres.NewDoctorRepository(db, m)
	appointmentRepo := postgres.NewAppointmentRepository(db, m)
	patientRepo := postgres.NewPatientRepository(db, m)

	// Initialize services
	var sender notification.Sender = notification.NopSender{}
	if cfg.Notification.Enabled {
		sender = notification.NewFunctionClient(cfg.Notification, nil)
	}
	notifier := notification.NewService(sender, loc, cfg.Notification.Timeout, m)

	authSvc := authService.NewService(cfg.JWT, cfg.Admin, security.NewBcryptHasher(0), revocations)
	doctorSvc := doctorService.NewService(doctorRepo, cfg.Schedule.Window(), cfg.Schedule.DirectoryCacheTTL)
	appointmentSvc := appointmentService.NewService(appointmentRepo, notifier, m, appointmentService.Options{
		Window:            cfg.Schedule.Window(),
		Location:          loc,
		Duration:          time.Duration(cfg.Schedule.AppointmentMinutes) * time.Minute,
		BookingWindowDays: cfg.Schedule.BookingWindowDays,
	})
	patientSvc := patientService.NewService(patientRepo)
	dashboardSvc := dashboard.NewService(appointmentRepo, patientRepo)

	mailer, err := email.New(ctx, cfg.Email)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure email provider")
	}
	relay := confirmation.NewRelay(mailer, cfg.Notification.APIKey)

	// Initialize handlers
	var gatherer prometheus.Gatherer
	if cfg.Monitoring.PrometheusEnabled {
		gatherer = registry
	}
	handlers := router.Handlers{
		Health:       health.NewHandler(gatherer, checks...),
		Auth:         authHandler.NewHandler(authSvc),
		Doctor:       doctorHandler.NewHandler(doctorSvc, appointmentSvc),
		Appointment:  appointmentHandler.NewHandler(appointmentSvc),
		Patient:      patientHandler.NewHandler(patientSvc),
		Chat:         chatHandler.NewHandler(chat.NewDefaultResponder(), patientSvc),
		Admin:        adminHandler.NewHandler(appointmentSvc, patientSvc, doctorSvc, dashboardSvc, loc),
		Confirmation: confirmationHandler.NewHandler(relay),
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}

	// Setup router
	r, err := router.NewRouter(middleware.NewAuthMiddleware(authSvc), handlers, m, router.RouterConfig{
		Release:          !cfg.IsDevelopment(),
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:        cfg.RateLimit.Burst,
		CORSConfig:       corsConfig,
		TrustedProxies:   cfg.Server.TrustedProxies,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create router")
	}
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("timezone", loc.String()).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// let in-flight confirmation calls finish; each has its own timeout
	notifier.Close()

	log.Info().Msg("server exited properly")
}
