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

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/meeting-summarizer/pkg/validator"

	"github.com/johnquangdev/meeting-summarizer/internal/adapter/handler"
	"github.com/johnquangdev/meeting-summarizer/internal/adapter/repository"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/external/recall"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/queue"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/lifecycle"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/pipeline"
	pkgai "github.com/johnquangdev/meeting-summarizer/pkg/ai"
	"github.com/johnquangdev/meeting-summarizer/pkg/config"
	"github.com/johnquangdev/meeting-summarizer/pkg/email"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running migrations (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize Redis
	log.Println("📦 Connecting to Redis...")
	redisStore, err := cache.NewRedisStore(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisStore.Close()

	// Initialize NATS task queue
	log.Println("📦 Connecting to NATS...")
	taskQueue, err := queue.NewNATSQueue(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer taskQueue.Close()

	// Initialize MinIO audio store
	log.Println("📦 Connecting to object storage...")
	audioStore, err := storage.NewAudioStore(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	meetingRepo := repository.NewMeetingRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	participantRepo := repository.NewParticipantRepository(db)

	// Initialize provider and engine clients
	log.Println("🤖 Initializing provider and engine clients...")
	providerClient := recall.NewClient(&cfg.Recall, logger)
	whisperClient := pkgai.NewWhisperClient(&cfg.Whisper)
	openrouterClient := pkgai.NewOpenRouterClient(&cfg.OpenRouter)
	emailClient := email.NewResendClient(&cfg.Email)

	// Initialize the reconciliation engine
	log.Println("⚙️  Initializing lifecycle engine...")
	normalizer := lifecycle.NewNormalizer()
	directory := lifecycle.NewDirectory(redisStore, meetingRepo, providerClient, cfg.Pipeline.DirectoryRetention, logger)
	resolver := lifecycle.NewResolver(providerClient, logger)
	dispatcher := lifecycle.NewDispatcher(taskQueue, logger)
	lifecycleService := lifecycle.NewService(
		meetingRepo, transcriptRepo, summaryRepo, participantRepo,
		normalizer, directory, resolver, dispatcher,
		providerClient, cfg.Pipeline.DedupeWindow, logger,
	)

	// Initialize the pipeline workers
	log.Println("👷 Initializing pipeline workers...")
	pipelineService := pipeline.NewService(
		meetingRepo, transcriptRepo, summaryRepo, participantRepo,
		resolver, dispatcher, providerClient, audioStore,
		whisperClient, openrouterClient, emailClient, logger,
	)
	worker := pipeline.NewWorker(taskQueue, pipelineService, cfg.Pipeline.WorkerCount, logger)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if err := worker.Start(workerCtx); err != nil {
		log.Fatalf("Failed to start pipeline workers: %v", err)
	}
	defer worker.Stop()

	// Initialize handlers
	log.Println("🪝 Initializing handlers...")
	webhookHandler := handler.NewWebhook(lifecycleService, &cfg.Zoom, logger)
	meetingHandler := handler.NewMeeting(lifecycleService, logger)
	streamingHandler := handler.NewStreaming(lifecycleService, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, webhookHandler, meetingHandler, streamingHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
