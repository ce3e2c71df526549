package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/lendledger/lendledger-backend/internal/config"
	"github.com/lendledger/lendledger-backend/internal/handler"
	"github.com/lendledger/lendledger-backend/internal/middleware"
	"github.com/lendledger/lendledger-backend/internal/notify"
	"github.com/lendledger/lendledger-backend/internal/report"
	"github.com/lendledger/lendledger-backend/internal/repository/postgres"
	"github.com/lendledger/lendledger-backend/internal/repository/redis"
	"github.com/lendledger/lendledger-backend/internal/repository/storage"
	"github.com/lendledger/lendledger-backend/internal/service"
	"github.com/lendledger/lendledger-backend/internal/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Connect to Redis for sessions
	redisClient := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping Redis")
	}
	defer redisClient.Close()
	log.Info().Msg("Connected to Redis")

	sessionStore := redis.NewRedisSessionStore(redisClient, cfg.SessionTTL)

	// Initialize repositories
	borrowerRepo := postgres.NewBorrowerRepository(pool)
	loanRepo := postgres.NewLoanRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)

	// SMS notifier (no-op unless explicitly enabled)
	var notifier notify.Notifier = notify.NoopNotifier{}
	if cfg.Twilio.Enabled {
		notifier = notify.NewTwilioNotifier(cfg.Twilio)
		log.Info().Msg("SMS notifications enabled")
	}

	// Statement PDF renderer
	renderer := report.NewChromedpRenderer(report.ChromedpConfig{
		RemoteURL: cfg.PDF.RemoteURL,
		NoSandbox: cfg.PDF.NoSandbox,
		Timeout:   cfg.PDF.Timeout,
	})
	defer renderer.Close()

	// Optional statement archive
	var archive storage.StatementArchive
	if cfg.Archive.Enabled {
		s3Archive, err := storage.NewS3StatementArchive(context.Background(), cfg.Archive)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize statement archive")
		}
		archive = s3Archive
		log.Info().Str("bucket", cfg.Archive.Bucket).Msg("Statement archive enabled")
	}

	// WebSocket hub for real-time updates
	hub := websocket.NewHub()

	// Initialize services
	authService := service.NewAuthService(borrowerRepo, sessionStore)
	loanService := service.NewLoanService(loanRepo, paymentRepo, borrowerRepo, notifier)
	loanService.SetEventPublisher(hub)
	paymentService := service.NewPaymentService(loanRepo, paymentRepo, borrowerRepo, notifier)
	paymentService.SetEventPublisher(hub)
	exportService := service.NewExportService(loanService, borrowerRepo, renderer, archive)

	// Session middleware and per-session rate limiter
	sessionMiddleware := middleware.NewSessionMiddleware(sessionStore)
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// Initialize handlers
	cookieSecure := cfg.Env == "production"
	authHandler := handler.NewAuthHandler(authService, cookieSecure, cfg.SessionTTL)
	loanHandler := handler.NewLoanHandler(loanService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	exportHandler := handler.NewExportHandler(exportService)
	wsHandler := handler.NewWebSocketHandler(hub, sessionStore, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, sessionMiddleware, rateLimiter, authHandler, loanHandler, paymentHandler, exportHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
