package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/clinicdesk/clinicdesk/libs/config"
	"github.com/clinicdesk/clinicdesk/libs/db"
	"github.com/clinicdesk/clinicdesk/libs/httpx"
	"github.com/clinicdesk/clinicdesk/libs/kafkax"
	otelx "github.com/clinicdesk/clinicdesk/libs/otel"
	"github.com/clinicdesk/clinicdesk/libs/runtime"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/clinic"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/handlers"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/outbox"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/storage"
)

func main() {
	service := config.String("SERVICE_NAME", "clinic-service")
	port, err := config.Port("PORT", "8081")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	jwtSecret, err := config.RequiredString("JWT_SECRET")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	outboxRepo := outbox.NewRepository(pool)
	svc := clinic.NewService(storage.NewDB(pool, outboxRepo), logger)

	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	authn := handlers.NewAuthenticator(jwtSecret)
	publicHandler := handlers.NewPublicHandler(svc)
	scheduleHandler := handlers.NewScheduleHandler(svc)
	appointmentHandler := handlers.NewAppointmentHandler(svc)
	notificationHandler := handlers.NewNotificationHandler(svc)
	profileHandler := handlers.NewProfileHandler(svc)

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(config.String("KAFKA_BROKERS", ""))},
	)
	mux.HandleFunc("/api/v1/public/practitioners", publicHandler.Practitioners)
	mux.HandleFunc("/api/v1/public/availability", publicHandler.Availability)
	mux.HandleFunc("/api/v1/schedules", authn.Wrap(scheduleHandler.Schedules))
	mux.HandleFunc("/api/v1/schedules/delete", authn.Wrap(scheduleHandler.Delete))
	mux.HandleFunc("/api/v1/appointments", authn.Wrap(appointmentHandler.Appointments))
	mux.HandleFunc("/api/v1/appointments/confirm", authn.Wrap(appointmentHandler.Confirm))
	mux.HandleFunc("/api/v1/appointments/cancel", authn.Wrap(appointmentHandler.Cancel))
	mux.HandleFunc("/api/v1/notifications", authn.Wrap(notificationHandler.List))
	mux.HandleFunc("/api/v1/notifications/read", authn.Wrap(notificationHandler.MarkRead))
	mux.HandleFunc("/api/v1/practitioners/me", authn.Wrap(profileHandler.Me))

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: []string{config.String("CORS_ALLOWED_ORIGINS", "*")},
			AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		}),
		rateLimitMiddleware(logger),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "clinic")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}

// rateLimitMiddleware prefers the shared Redis window when REDIS_ADDR is set
// so limits hold across replicas; otherwise it falls back to the in-process
// limiter.
func rateLimitMiddleware(logger *slog.Logger) httpx.Middleware {
	limit := 120
	window := time.Minute
	if addr := config.String("REDIS_ADDR", ""); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		return httpx.NewRedisRateLimiter(rdb, limit, window, "clinic:rl").Middleware(logger, true)
	}
	return httpx.NewRateLimiter(limit, window).Middleware()
}
