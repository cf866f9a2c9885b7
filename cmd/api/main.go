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

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/mock-interview/pkg/validator"

	"github.com/johnquangdev/mock-interview/internal/adapter/handler"
	"github.com/johnquangdev/mock-interview/internal/adapter/repository"
	"github.com/johnquangdev/mock-interview/internal/infrastructure/cache"
	"github.com/johnquangdev/mock-interview/internal/infrastructure/database"
	"github.com/johnquangdev/mock-interview/internal/infrastructure/export"
	"github.com/johnquangdev/mock-interview/internal/infrastructure/external/questionapi"
	"github.com/johnquangdev/mock-interview/internal/infrastructure/storage"
	"github.com/johnquangdev/mock-interview/internal/usecase/interview"
	"github.com/johnquangdev/mock-interview/internal/usecase/question"
	"github.com/johnquangdev/mock-interview/internal/usecase/session"
	"github.com/johnquangdev/mock-interview/internal/usecase/transcript"
	"github.com/johnquangdev/mock-interview/pkg/config"
	"github.com/johnquangdev/mock-interview/pkg/retry"
)

// @title           Mock Interview API
// @version         1.0
// @description     Runs spoken mock interviews: question bank, realtime session sequencing, transcript archive and export
// @BasePath        /v1

const sessionReapInterval = time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

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
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-Request-ID"},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Apply sql-migrate files only when explicitly enabled in config.
	if cfg.Database.AutoMigrate {
		if cfg.IsProduction() {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE and run scripts/migrate.go instead.")
		}
		if err := database.AutoMigrate(db, logger); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; run scripts/migrate.go in CI/CD/production")
	}

	// Initialize question bank cache
	var bankCache cache.Store
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		bankCache = cache.NewRedisStore(redisClient, "mock-interview:")
	} else {
		log.Println("⚠️  Redis disabled, caching the question bank in memory")
		memoryStore := cache.NewMemoryStore()
		defer memoryStore.Close()
		bankCache = memoryStore
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	dialogRepo := repository.NewDialogRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	retryPolicy := retry.Policy{
		InitialInterval: cfg.Retry.InitialInterval,
		MaxInterval:     cfg.Retry.MaxInterval,
		MaxElapsedTime:  cfg.Retry.MaxElapsedTime,
		MaxRetries:      cfg.Retry.MaxRetries,
	}
	clk := clock.New()

	// Initialize question service
	log.Println("❓ Initializing question service...")
	questionService := question.NewQuestionService(
		dialogRepo,
		bankCache,
		cfg.Redis.BankTTL,
		cfg.Questions.MaxQuestions,
		logger.Named("questions"),
	)
	var scriptProvider interview.ScriptProvider = questionService
	if cfg.Questions.RemoteURL != "" {
		log.Printf("🔗 Fetching interview scripts from %s", cfg.Questions.RemoteURL)
		scriptProvider = questionapi.NewClient(cfg.Questions.RemoteURL, &http.Client{Timeout: 10 * time.Second})
	}

	// Initialize transcript archive
	log.Println("📝 Initializing transcript service...")
	transcriptService := transcript.NewTranscriptService(
		transcriptRepo,
		clk,
		cfg.Transcript.Retention,
		retryPolicy,
		logger.Named("transcripts"),
	)

	// Initialize object storage
	var uploader session.Uploader
	var bucket handler.BucketInspector
	if cfg.Storage.Enabled {
		log.Println("🪣 Connecting to object storage...")
		minioClient, err := storage.NewMinIOClient(&cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
		uploader = minioClient
		bucket = minioClient
		log.Printf("✅ Object storage ready: %s/%s", cfg.Storage.Endpoint, cfg.Storage.BucketName)
	} else {
		log.Println("⚠️  Object storage disabled, transcript upload unavailable")
	}
	exporter := session.NewExporter(export.NewPDFRenderer(), uploader, logger.Named("export"))

	// Initialize session manager
	log.Println("🎙️  Initializing session manager...")
	interviewCfg := interview.Config{
		IntroGapSeconds:     cfg.Interview.IntroGapSeconds,
		AnswerWindowSeconds: cfg.Interview.AnswerWindowSeconds,
		PerWord:             cfg.Interview.PerWord,
		FadeLead:            cfg.Interview.FadeLead,
		FadeDuration:        cfg.Interview.FadeDuration,
		StallGrace:          cfg.Interview.StallGrace,
		Language:            cfg.Interview.Language,
	}
	manager := session.NewManager(
		session.Config{
			Interview:   interviewCfg,
			Retry:       retryPolicy,
			IdleTimeout: cfg.Interview.IdleTimeout,
		},
		scriptProvider,
		transcriptService,
		sessionRepo,
		clk,
		logger.Named("sessions"),
	)

	// Start background workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	if err := transcriptService.StartPurgeWorker(workerCtx, cfg.Transcript.PurgeInterval); err != nil {
		log.Fatalf("Failed to start transcript purge worker: %v", err)
	}
	if err := manager.StartReaper(workerCtx, sessionReapInterval); err != nil {
		log.Fatalf("Failed to start session reaper: %v", err)
	}

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(
		cfg,
		handler.NewQuestionHandler(questionService, logger),
		handler.NewTranscriptHandler(transcriptService, logger),
		handler.NewSessionHandler(manager, exporter, cfg.Interview.Language, cfg.Server.AllowedOrigins, logger),
		handler.NewStorageHandler(bucket, logger),
		manager.Len,
	)
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
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	if err := manager.StopReaper(); err != nil {
		log.Printf("⚠️  %v", err)
	}
	if err := transcriptService.StopPurgeWorker(); err != nil {
		log.Printf("⚠️  %v", err)
	}
	manager.Shutdown()

	log.Println("✅ Server stopped gracefully")
}
