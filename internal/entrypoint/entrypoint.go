package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/clock"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/users"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookshelf v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	cat, err := NewCatalog(db, cfg.Storage, cfg.Covers)
	if err != nil {
		log.Fatalf("Failed to initialize object store: %v", err)
	}
	log.Printf("Object store initialized at %s", cat.Store.Dir())

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var backfill *scheduler.CoverBackfillScheduler
	if cfg.Tasks.Enabled {
		taskCfg := tasks.FromSettings(cfg.Tasks)

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewGenerateCoverQueue(cat.Books),
			tasks.NewCountPagesQueue(cat.Progress),
			tasks.NewBackfillCoversQueue(cat.Books, taskClient, taskCfg.BackfillBatch),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		if cfg.Scheduler.CoverBackfillEnabled {
			backfill = scheduler.NewCoverBackfillScheduler(taskClient, cfg.Scheduler.CoverBackfillSchedule)
			if err := backfill.Start(taskCtx); err != nil {
				log.Printf("WARNING: cover backfill scheduler not started: %v", err)
				backfill = nil
			}
		}
	} else if cfg.Scheduler.CoverBackfillEnabled {
		log.Printf("WARNING: cover backfill is enabled but the task queue is disabled; ignoring schedule")
	}

	authService := auth.NewService(users.NewRepository(db.DB), cfg.Auth)
	authMiddleware := auth.NewMiddleware(authService, cfg.Auth)
	rateLimiter := auth.NewRateLimiter(auth.RateLimitConfig{
		MaxAttempts:     cfg.Auth.MaxLoginAttempts,
		WindowDuration:  cfg.Auth.RateLimitWindow,
		LockoutDuration: cfg.Auth.LockoutDuration,
	}, clock.New())

	if cfg.Auth.Mode == config.AuthModeToken {
		log.Printf("Authentication mode: token")
		if hasUsers, _ := authService.HasUsers(); !hasUsers {
			log.Printf("No users found. Run '%s create-user' to create one.", os.Args[0])
		}
	} else {
		log.Printf("Authentication mode: none (acting as user %d)", cfg.Auth.DefaultUserID)
	}

	stopCleanup := startLimiterCleanup(rateLimiter, cfg.Auth.RateLimitWindow)

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		Version:        version,
		Taxonomy:       cat.Taxonomy,
		Books:          cat.Books,
		Progress:       cat.Progress,
		Babels:         cat.Babels,
		Composer:       cat.Composer,
		Store:          cat.Store,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		RateLimiter:    rateLimiter,
	}
	// Assigned separately so a disabled queue stays a nil interface.
	if taskClient != nil {
		routerCfg.TaskClient = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		stopCleanup()
		if backfill != nil {
			backfill.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

// startLimiterCleanup periodically drops expired rate limiter records.
func startLimiterCleanup(limiter *auth.RateLimiter, every time.Duration) func() {
	if every <= 0 {
		every = 15 * time.Minute
	}
	ticker := time.NewTicker(every)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				limiter.Cleanup()
			case <-done:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}
}
