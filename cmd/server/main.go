package main

import (
	"buho-backend/internal/api"
	"buho-backend/internal/config"
	"buho-backend/internal/handlers"
	"buho-backend/internal/llm"
	"buho-backend/internal/ratelimit"
	"buho-backend/internal/retrieval"
	"buho-backend/internal/services"
	"buho-backend/internal/store/postgres"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	log.Println("Starting Búho Backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Initialize Database Connection Pool
	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dbCancel()

	dbpool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Unable to create database connection pool: %v\n", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(dbCtx); err != nil {
		log.Fatalf("FATAL: Unable to ping database: %v\n", err)
	}
	log.Println("Database connection pool established and pinged successfully.")

	// 3. Initialize Dependencies (Store, Pipeline, Services, Handlers)
	pgStore := postgres.NewPostgresStore(dbpool)
	log.Println("Postgres store initialized.")

	// --- Completion Provider Client ---
	llmClient := llm.NewClient(llm.Config{
		APIKey:          cfg.GroqAPIKey,
		BaseURL:         cfg.GroqBaseURL,
		Model:           cfg.GroqModel,
		ClassifierModel: cfg.GroqClassifierModel,
	})
	if llmClient.Configured() {
		log.Println("Completion provider client initialized.")
	} else {
		log.Println("WARN: completion provider credential is missing; chat turns will fail.")
	}

	// --- Retrieval Pipeline ---
	extractor := retrieval.NewExtractor()
	searcher := retrieval.NewSearcher()
	sources := retrieval.DefaultSources(extractor, searcher)
	topicRouter := retrieval.NewRouter(llmClient, sources)
	log.Println("Retrieval pipeline initialized.")

	// --- Throttling ---
	counterStore := ratelimit.NewMemoryStore()
	chatLimiter := ratelimit.NewLimiter(counterStore, cfg.RateLimitMaxRequests, cfg.RateLimitWindow)
	loginGuard := ratelimit.NewLoginGuard(counterStore, cfg.LoginAttemptLimit, cfg.LoginLockoutDuration)
	log.Println("Rate limiter and login guard initialized.")

	// --- Initialize Services ---
	authService := services.NewAuthService(pgStore, cfg, loginGuard)
	log.Println("AuthService initialized.")
	convService := services.NewConversationService(pgStore)
	log.Println("ConversationService initialized.")
	chatService := services.NewChatService(pgStore, topicRouter, llmClient)
	log.Println("ChatService initialized.")

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	convHandler := handlers.NewConversationHandlers(convService)
	chatHandler := handlers.NewChatHandlers(chatService)
	healthHandler := handlers.NewHealthHandler(llmClient)
	log.Println("Handlers initialized.")

	// 4. Setup Router & Inject Dependencies
	routerDeps := api.RouterDependencies{
		AuthHandler:         authHandler,
		ConversationHandler: convHandler,
		ChatHandler:         chatHandler,
		HealthHandler:       healthHandler,
		ChatLimiter:         chatLimiter,
		Config:              cfg,
	}
	router := api.NewRouter(routerDeps)
	log.Println("HTTP router configured.")

	// 5. Configure and Start HTTP Server
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
		// Production hardening: Set timeouts to avoid Slowloris attacks
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Could not listen on %s: %v\n", cfg.HTTPPort, err)
		}
		log.Println("Server listener routine stopped.")
	}()

	<-stopChan
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Server graceful shutdown failed: %v", err)
	}

	log.Println("Server shutdown complete.")
}
