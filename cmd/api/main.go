package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/PAUBookIt/book-it-backend/internal/handlers"
	httpmw "github.com/PAUBookIt/book-it-backend/internal/http/middleware"
	"github.com/PAUBookIt/book-it-backend/internal/repository"
	"github.com/PAUBookIt/book-it-backend/internal/service"
	"github.com/PAUBookIt/book-it-backend/pkg/config"
	"github.com/PAUBookIt/book-it-backend/pkg/database"
	"github.com/PAUBookIt/book-it-backend/pkg/events"
	"github.com/PAUBookIt/book-it-backend/pkg/logger"
	mw "github.com/PAUBookIt/book-it-backend/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Connect to database
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Connect to Redis for rate limiting
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("Invalid Redis URL", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	// Connect to event bus
	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)
	classroomRepo := repository.NewClassroomRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	idempotencyRepo := repository.NewIdempotencyRepository(pool)

	// Initialize services
	userService := service.NewUserService(userRepo, cfg)
	classroomService := service.NewClassroomService(classroomRepo, eventBus)
	reservationService := service.NewReservationService(reservationRepo, classroomRepo, userRepo, idempotencyRepo, eventBus)

	// Initialize handlers
	h := handlers.New(userService, classroomService, reservationService, cfg)

	authLimiter := httpmw.NewRateLimiter(redisClient, httpmw.RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
	})

	// Setup router
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("api"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware())
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
		})
		r.With(h.RequireJWT).Get("/auth/me", h.Me)

		r.Route("/classrooms", func(r chi.Router) {
			r.Get("/", h.ListClassrooms)
			r.Get("/{id}", h.GetClassroom)
			r.With(h.RequireJWT).Post("/", h.CreateClassroom)
			r.With(h.RequireJWT).Put("/{id}", h.UpdateClassroomState)
			r.With(h.RequireJWT).Delete("/{id}", h.DeleteClassroom)
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Get("/", h.ListReservations)
			r.Get("/{id}", h.GetReservation)
			r.With(h.RequireJWT).Post("/", h.CreateReservation)
			r.With(h.RequireJWT).Put("/{id}", h.DecideReservation)
			r.With(h.RequireJWT).Delete("/{id}", h.DeleteReservation)
		})
	})

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("API server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting API server", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}
