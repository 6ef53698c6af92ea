package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/loanworks/loan-engine/internal/auth"
	"github.com/loanworks/loan-engine/internal/config"
	"github.com/loanworks/loan-engine/internal/handler"
	"github.com/loanworks/loan-engine/internal/repository"
	"github.com/loanworks/loan-engine/internal/service"
	"github.com/loanworks/loan-engine/pkg/response"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	uow := repository.NewUnitOfWork(db)

	// Services
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.GetAccessTTL(), cfg.JWT.GetRefreshTTL())
	authService := service.NewAuthService(userRepo, tokens, service.LogOTPSender{})
	loanService := service.NewLoanService(loanRepo, uow, redisClient, cfg)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	loanHandler := handler.NewLoanHandler(loanService)
	adminHandler := handler.NewAdminHandler(loanService)
	healthHandler := handler.NewHealthHandler(db, redisClient, 5*time.Second)

	router := setupRoutes(tokens, authHandler, loanHandler, adminHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.GetReadTimeout(),
		WriteTimeout: cfg.Server.GetWriteTimeout(),
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.GetConnMaxLifetime())

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	tokens *auth.TokenManager,
	authHandler *handler.AuthHandler,
	loanHandler *handler.LoanHandler,
	adminHandler *handler.AdminHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)
	router.Use(response.CORSMiddleware)
	router.Use(tokens.Middleware)

	// Health checks
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/verify-otp", authHandler.VerifyOTP).Methods("POST")
	api.HandleFunc("/login", authHandler.Login).Methods("POST")

	api.HandleFunc("/loans", loanHandler.CreateLoan).Methods("POST")
	api.HandleFunc("/loans", loanHandler.ListLoans).Methods("GET")
	api.HandleFunc("/loans/{loanId}/schedule", loanHandler.GetSchedule).Methods("GET")
	api.HandleFunc("/loans/{loanId}/foreclose", loanHandler.ForecloseLoan).Methods("POST")
	api.HandleFunc("/loans/{loanId}/foreclosure-details", loanHandler.PreviewForeclosure).Methods("GET")
	api.HandleFunc("/payment-schedule/pay", loanHandler.PayInstallment).Methods("POST")

	api.HandleFunc("/admin/loans", adminHandler.ListAllLoans).Methods("GET")

	return router
}
