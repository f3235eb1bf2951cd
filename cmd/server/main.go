package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"elevateu-backend/internal/cache"
	"elevateu-backend/internal/config"
	"elevateu-backend/internal/database"
	"elevateu-backend/internal/handlers"
	"elevateu-backend/internal/middleware"
	"elevateu-backend/internal/repository"
	"elevateu-backend/internal/router"
	"elevateu-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting ElevateU Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Connect MongoDB ────
	client, db, err := database.NewMongoDatabase(cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatalf("✗ MongoDB connection failed: %v", err)
	}
	defer client.Disconnect(context.Background())
	log.Println("✓ MongoDB connected")

	// ──── Step 3: Ensure Indexes ────
	if err := database.EnsureIndexes(db); err != nil {
		log.Fatalf("✗ Index creation failed: %v", err)
	}
	log.Println("✓ Indexes ensured")

	// ──── Step 4: Connect Redis (optional) ────
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		rc, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠ Redis unavailable, catalog cache disabled: %v", err)
		} else {
			redisClient = rc
			defer rc.Close()
			log.Println("✓ Redis connected")
		}
	} else {
		log.Println("⚠ REDIS_URL not set, catalog cache disabled")
	}

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(db)
	courseRepo := repository.NewCourseRepo(db)
	enrollmentRepo := repository.NewEnrollmentRepo(db)
	progressRepo := repository.NewProgressRepo(db)
	studyUpdateRepo := repository.NewStudyUpdateRepo(db)
	chatSessionRepo := repository.NewChatSessionRepo(db)

	// ──── Step 5: Initialize Gemini Client (optional) ────
	var model services.ResponseGenerator
	var gemini *services.GeminiCompleter
	if cfg.GeminiAPIKey != "" {
		gemini, err = services.NewGeminiCompleter(
			cfg.GeminiAPIKey,
			cfg.GeminiModel,
			time.Duration(cfg.GeminiTimeoutSeconds)*time.Second,
		)
		if err != nil {
			log.Printf("⚠ Gemini initialization failed, chat runs rule-based: %v", err)
		} else {
			model = services.NewModelResponder(gemini)
			defer gemini.Close()
			log.Println("✓ Gemini client initialized")
		}
	} else {
		log.Println("⚠ GEMINI_API_KEY not set, chat runs rule-based")
	}

	// ──── Initialize Services ────
	catalogCache := cache.NewCatalogCache(redisClient, courseRepo)
	resolver := services.NewIdentityResolver(userRepo)
	aggregator := services.NewProgressAggregator(enrollmentRepo, courseRepo, progressRepo)
	recommender := services.NewRecommendationSelector(catalogCache, enrollmentRepo)
	assembler := services.NewContextAssembler(aggregator, recommender)

	courseService := services.NewCourseService(courseRepo, enrollmentRepo, progressRepo, catalogCache, catalogCache)
	userService := services.NewUserService(userRepo, resolver)
	enrollmentService := services.NewEnrollmentService(enrollmentRepo, courseRepo, progressRepo, resolver, aggregator)
	progressService := services.NewProgressService(progressRepo, courseRepo, resolver)
	studyUpdateService := services.NewStudyUpdateService(studyUpdateRepo, courseRepo, resolver)
	adminService := services.NewAdminService(userRepo, courseRepo, enrollmentRepo, progressRepo, studyUpdateRepo, resolver, aggregator)
	chatbotService := services.NewChatbotService(
		resolver, assembler, aggregator, recommender,
		courseRepo, progressRepo, chatSessionRepo,
		model, cfg.ChatHistoryLimit,
	)
	chatHistoryService := services.NewChatHistoryService(chatSessionRepo, resolver)

	tokenAuth := middleware.NewTokenAuth(cfg.JWTSecret, cfg.AdminAPIKey)

	// ──── Initialize Handlers ────
	healthHandler := handlers.NewHealthHandler(db)
	courseHandler := handlers.NewCourseHandler(courseService)
	userHandler := handlers.NewUserHandler(userService)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService)
	progressHandler := handlers.NewProgressHandler(progressService)
	studyUpdateHandler := handlers.NewStudyUpdateHandler(studyUpdateService)
	adminHandler := handlers.NewAdminHandler(adminService)
	chatbotHandler := handlers.NewChatbotHandler(chatbotService, chatHistoryService)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		tokenAuth,
		healthHandler,
		courseHandler,
		userHandler,
		enrollmentHandler,
		progressHandler,
		studyUpdateHandler,
		adminHandler,
		chatbotHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ ElevateU Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
