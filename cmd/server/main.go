package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yourorg/roomreserve/internal/events"
	"github.com/yourorg/roomreserve/internal/handler"
	"github.com/yourorg/roomreserve/internal/infrastructure/logger"
	"github.com/yourorg/roomreserve/internal/infrastructure/redis"
	"github.com/yourorg/roomreserve/internal/observability/metrics"
	"github.com/yourorg/roomreserve/internal/observability/tracing"
	"github.com/yourorg/roomreserve/internal/reliability/retry"
	"github.com/yourorg/roomreserve/internal/repository"
	"github.com/yourorg/roomreserve/internal/security"
	"github.com/yourorg/roomreserve/internal/security/audit"
	"github.com/yourorg/roomreserve/internal/security/auth"
	"github.com/yourorg/roomreserve/internal/security/middleware"
	"github.com/yourorg/roomreserve/internal/security/ratelimit"
	"github.com/yourorg/roomreserve/internal/service"
	"github.com/yourorg/roomreserve/internal/worker"
	"github.com/yourorg/roomreserve/pkg/cache"
	"github.com/yourorg/roomreserve/pkg/config"
	"github.com/yourorg/roomreserve/pkg/database"
)

func main() {
	// 1. Load configuration (.env first, so local runs need no exports)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET must be set")
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting RoomReserve server", slog.String("environment", cfg.Environment))

	// 3. Initialize tracing (no-op unless an OTLP endpoint is configured)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, log, "roomreserve", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Connect to PostgreSQL, retrying while the database comes up
	dbConfig := &database.Config{
		Host:     cfg.DatabaseHost,
		Port:     cfg.DatabasePort,
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	}
	pool, err := retry.Do(ctx, retry.DefaultConfig(), log, "postgres connect",
		func(ctx context.Context) (*database.ConnectionPool, error) {
			return database.NewConnectionPool(ctx, dbConfig, log)
		})
	if err != nil {
		log.Error("failed to connect to PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := repository.EnsureSchema(ctx, pool.GetDB()); err != nil {
		log.Error("failed to ensure schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. Connect to Redis (token denylist)
	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	// 6. Initialize repositories
	userRepo := repository.NewPostgresUserRepository(pool.GetDB(), log)
	roomRepo := repository.NewPostgresRoomRepository(pool.GetDB(), log)
	bookingRepo := repository.NewPostgresBookingRepository(pool.GetDB(), log)

	// 7. Initialize security components
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	denylist := auth.NewDenylist(redisClient, log)
	rateLimiter := ratelimit.NewLimiter(cfg.AuthRateLimit, cfg.AuthRateLimitWindow)
	auditLogger := audit.NewLogger(log)
	authz := security.NewAuthorizationService(log)

	// 8. Initialize services
	hub := events.NewHub()
	roomService := service.NewRoomService(roomRepo, cache.New(), log)
	bookingService := service.NewBookingService(bookingRepo, roomService, hub, auditLogger, log)
	adminService := service.NewAdminService(userRepo, bookingRepo, hub, auditLogger, log)
	authService := service.NewAuthService(userRepo, tokenManager, denylist, cfg.TokenTTL, log)
	reportService := service.NewReportService(userRepo, bookingRepo, roomRepo, log)

	if cfg.SeedRooms {
		if err := roomService.EnsureSeedData(); err != nil {
			log.Error("failed to seed room catalog", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// 9. Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log)
	roomHandler := handler.NewRoomHandler(roomService, log)
	bookingHandler := handler.NewBookingHandler(bookingService, log)
	adminHandler := handler.NewAdminHandler(adminService, reportService, log)
	healthHandler := handler.NewHealthHandler(pool, redisClient, log)
	eventsHandler := handler.NewEventsHandler(hub, log, cfg.CORSAllowedOrigins)

	// 10. Setup HTTP routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", handler.Index)

	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/login/json", authHandler.LoginJSON)
	mux.HandleFunc("GET /api/auth/me", authHandler.Me)
	mux.HandleFunc("GET /api/auth/verify", authHandler.Verify)
	mux.HandleFunc("POST /api/auth/change-password", authHandler.ChangePassword)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)

	mux.HandleFunc("GET /api/rooms", roomHandler.List)
	mux.HandleFunc("GET /api/rooms/{id}", roomHandler.Get)

	mux.HandleFunc("POST /api/bookings", bookingHandler.Create)
	mux.HandleFunc("GET /api/bookings", bookingHandler.List)
	mux.HandleFunc("GET /api/bookings/{id}", bookingHandler.Get)
	mux.HandleFunc("GET /api/bookings/guest/{name}", bookingHandler.ByGuest)
	mux.HandleFunc("GET /api/user/bookings", bookingHandler.ForUser)

	mux.HandleFunc("GET /api/admin/users", adminHandler.ListUsers)
	mux.HandleFunc("GET /api/admin/users/{id}", adminHandler.GetUser)
	mux.HandleFunc("PATCH /api/admin/users/{id}", adminHandler.UpdateUser)
	mux.HandleFunc("DELETE /api/admin/users/{id}", adminHandler.DeleteUser)
	mux.HandleFunc("GET /api/admin/bookings", adminHandler.ListBookings)
	mux.HandleFunc("GET /api/admin/bookings/{id}", adminHandler.GetBooking)
	mux.HandleFunc("PATCH /api/admin/bookings/{id}", adminHandler.UpdateBooking)
	mux.HandleFunc("DELETE /api/admin/bookings/{id}", adminHandler.DeleteBooking)
	mux.HandleFunc("GET /api/admin/stats", adminHandler.Stats)
	mux.HandleFunc("GET /api/admin/report", adminHandler.Report)

	mux.Handle("GET /ws/admin/events", eventsHandler)

	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Readiness)
	mux.Handle("GET /metrics", promhttp.Handler())

	// CORS middleware honoring configured origins
	handlerWithCORS := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(cfg.CORSAllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(cfg.CORSAllowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})

	// Chain middleware: request ID -> metrics -> sanitize -> content type
	// -> rate limit -> JWT -> admin gate -> CORS -> mux
	rootHandler := withRequestID(
		metrics.HTTPMetricsMiddleware(
			middleware.SanitizePaths(log)(
				middleware.ValidateJSONContentType(log)(
					middleware.RateLimitMiddleware(rateLimiter, log)(
						middleware.JWTMiddleware(tokenManager, denylist, log)(
							middleware.AdminMiddleware(authz, log)(handlerWithCORS),
						),
					),
				),
			),
		),
		log,
	)

	// 11. Start report worker in background
	reportWorker := worker.NewReportWorker(reportService, log, cfg.ReportInterval)
	go reportWorker.Start(ctx)

	// 12. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
		slog.Int("auth_rate_limit", cfg.AuthRateLimit),
		slog.Duration("auth_rate_limit_window", cfg.AuthRateLimitWindow),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel() // stop report worker
	rateLimiter.Stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}

// withRequestID attaches a request ID to the context and response headers for traceability
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := generateRequestID()
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), audit.RequestIDKey{}, reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("req-%d", time.Now().UnixNano())
}
