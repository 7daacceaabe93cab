package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	config "github.com/maheshrc27/smartflow/configs"
	"github.com/maheshrc27/smartflow/internal/api"
	"github.com/maheshrc27/smartflow/internal/api/handlers"
	"github.com/maheshrc27/smartflow/internal/api/middleware"
	"github.com/maheshrc27/smartflow/internal/database"
	job "github.com/maheshrc27/smartflow/internal/jobs"
	"github.com/maheshrc27/smartflow/internal/publisher"
	"github.com/maheshrc27/smartflow/internal/queue"
	"github.com/maheshrc27/smartflow/internal/repository"
	"github.com/maheshrc27/smartflow/internal/service"
)

type repositories struct {
	posts     repository.PostRepository
	analytics repository.AnalyticsRepository
	history   repository.PostingHistoryRepository
	users     repository.UserRepository
	tenants   repository.TenantRepository
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	setupLogging(cfg.LogLevel)

	var db *sql.DB
	var repos repositories
	switch cfg.StorageDriver {
	case "postgres":
		var err error
		db, err = database.Open(cfg.PostgresURI)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		repos = repositories{
			posts:     repository.NewPostRepository(db),
			analytics: repository.NewAnalyticsRepository(db),
			history:   repository.NewPostingHistoryRepository(db),
			users:     repository.NewUserRepository(db),
			tenants:   repository.NewTenantRepository(db),
		}
	case "memory":
		repos = repositories{
			posts:     repository.NewMemoryPostRepository(),
			analytics: repository.NewMemoryAnalyticsRepository(),
			history:   repository.NewMemoryPostingHistoryRepository(),
			users:     repository.NewMemoryUserRepository(),
			tenants:   repository.NewMemoryTenantRepository(),
		}
	default:
		log.Fatalf("Unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	ctx := context.Background()

	var store service.ObjectStore
	if cfg.R2.AccountID != "" {
		r2, err := service.NewR2Store(ctx, cfg.R2)
		if err != nil {
			log.Fatalf("Failed to configure R2: %v", err)
		}
		store = r2
	} else {
		log.Println("R2 is not configured, media is kept in memory")
		store = service.NewMemoryStore(fmt.Sprintf("http://localhost:%s/media", cfg.Port))
	}

	analyticsService := service.NewAnalyticsService(repos.posts, repos.analytics)
	mediaService := service.NewMediaService(store)
	postService := service.NewPostService(repos.posts, repos.history)
	schedulerService := service.NewSchedulerService(repos.posts)
	authService := service.NewAuthService(*cfg, repos.users, repos.tenants)
	userService := service.NewUserService(repos.users)
	tenantService := service.NewTenantService(repos.tenants)

	var aiService service.AIContentService
	if cfg.Gemini.APIKey != "" {
		provider, err := service.NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.TextModels, cfg.Gemini.ImageModel)
		if err != nil {
			log.Fatalf("Failed to configure Gemini: %v", err)
		}
		aiService = service.NewAIContentService(provider, mediaService)
	} else {
		log.Println("GEMINI_API_KEY is not set, AI routes are disabled")
	}

	// publication outcomes
	outcomeQueue := queue.NewQueue(repos.history)
	var notifier job.OutcomeNotifier = queue.NewDirectNotifier(outcomeQueue)
	var asynqServer *asynq.Server
	if cfg.RedisURI != "" {
		redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
		client := asynq.NewClient(redisConn)
		defer client.Close()
		notifier = queue.NewAsynqNotifier(client)

		asynqServer = asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})
		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePostOutcome, outcomeQueue.HandlePostOutcomeTask)

		go func() {
			log.Println("Starting the Asynq server...")
			if err := asynqServer.Run(mux); err != nil {
				log.Fatalf("Could not start Asynq server: %v", err)
			}
		}()
	}

	pub := publisher.NewSimulatedPublisher(publisher.SimulatedConfig{
		MinDelay:    cfg.Publisher.MinDelay,
		MaxDelay:    cfg.Publisher.MaxDelay,
		SuccessRate: cfg.Publisher.SuccessRate,
	})
	publishJob := job.NewPublishJob(repos.posts, analyticsService, pub, notifier, cfg.PublishTimeout)
	scheduler := job.NewScheduler(publishJob, cfg.ScanInterval)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Tenant-ID",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	if mem, ok := store.(*service.MemoryStore); ok {
		app.Get("/media/*", func(c *fiber.Ctx) error {
			data, found := mem.Get(c.Params("*"))
			if !found {
				return c.SendStatus(fiber.StatusNotFound)
			}
			return c.Send(data)
		})
	}

	api.RegisterRoutes(app, middleware.NewAuthMiddleware(*cfg), api.Handlers{
		Auth:      handlers.NewAuthHandler(*cfg, authService),
		User:      handlers.NewUserHandler(userService, tenantService),
		Post:      handlers.NewPostHandler(postService),
		Scheduler: handlers.NewSchedulerHandler(schedulerService),
		Analytics: handlers.NewAnalyticsHandler(analyticsService),
		Content:   handlers.NewContentHandler(aiService, mediaService),
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, scheduler, asynqServer, db)
}

func setupLogging(level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: l})))
}

func closeDB(db *sql.DB) {
	if db == nil {
		return
	}
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, scheduler *job.Scheduler, asynqServer *asynq.Server, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Failed to shut down server: %v", err)
	}

	// waits for an in-flight scan
	scheduler.Stop()

	if asynqServer != nil {
		asynqServer.Shutdown()
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
