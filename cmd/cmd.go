package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"noous-backend/internal/config"
	"noous-backend/internal/handlers"
	"noous-backend/internal/middleware"
	"noous-backend/internal/repository"
	"noous-backend/internal/services"
	"noous-backend/pkg/ratelimit"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// rateLimitRetention is how long an untouched rate-limit counter survives
// before the background sweep removes it.
const rateLimitRetention = 24 * time.Hour

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Connect to redis when configured
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, notification pub/sub disabled")
			redisClient = nil
		} else {
			log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
			defer redisClient.Close()
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	surpriseRepo := repository.NewSurpriseRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	rateLimitRepo := repository.NewRateLimitRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo, cfg.JWT.Secret)
	pushService, err := services.NewPushService(cfg.APNs)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create push service")
	}
	wsHub := services.NewWSHub(linkRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, wsHub, pushService, redisClient)
	inviteWindow := time.Duration(cfg.RateLimit.InviteWindowMinutes) * time.Minute
	rateLimiter := services.NewRateLimiter(rateLimitRepo, cfg.RateLimit.InviteMaxAttempts, inviteWindow)
	linkService := services.NewLinkService(linkRepo, userRepo, notificationService, rateLimiter, wsHub)
	surpriseService, err := services.NewSurpriseService(surpriseRepo, linkRepo, userRepo, notificationService, wsHub, cfg.AWS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create surprise service")
	}
	momentService := services.NewMomentService(surpriseRepo)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	linkHandler := handlers.NewLinkHandler(linkService)
	surpriseHandler := handlers.NewSurpriseHandler(surpriseService)
	momentHandler := handlers.NewMomentHandler(momentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, userService, linkService)

	// Local best-effort pre-check in front of the authoritative limiter
	inviteLimiter := ratelimit.New(cfg.RateLimit.InviteMaxAttempts, inviteWindow)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/users", userHandler.Register)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))

			r.Get("/users/me", userHandler.Me)
			r.Put("/users/push-token", userHandler.UpdatePushToken)

			r.Group(func(r chi.Router) {
				r.Use(middleware.LocalRateLimit(inviteLimiter))
				r.Post("/links/invite", linkHandler.Invite)
			})
			r.Post("/links/invites/{notification_id}/accept", linkHandler.AcceptInvite)
			r.Post("/links/invites/{notification_id}/reject", linkHandler.RejectInvite)
			r.Get("/links", linkHandler.GetLinks)
			r.Delete("/links/{partner_id}", linkHandler.Unlink)

			r.Post("/surprises", surpriseHandler.Create)
			r.Post("/surprises/upload", surpriseHandler.Upload)
			r.Get("/surprises", surpriseHandler.GetFeed)
			r.Post("/surprises/{surprise_id}/reveal", surpriseHandler.Reveal)
			r.Post("/surprises/{surprise_id}/reactions", surpriseHandler.React)
			r.Delete("/surprises/{surprise_id}", surpriseHandler.Delete)

			r.Get("/moments", momentHandler.GetMoments)

			r.Get("/notifications", notificationHandler.GetNotifications)
			r.Post("/notifications/{notification_id}/read", notificationHandler.MarkRead)
			r.Delete("/notifications/{notification_id}", notificationHandler.Delete)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background sweep for stale rate-limit counters
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if err := rateLimiter.SweepStale(sweepCtx, rateLimitRetention); err != nil {
					log.Error().Err(err).Msg("Failed to sweep rate limit counters")
				}
				inviteLimiter.Sweep(time.Now())
			}
		}
	}()

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	stopSweep()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
