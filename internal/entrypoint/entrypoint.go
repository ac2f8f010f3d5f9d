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

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	auditrepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/loans"
	"github.com/mrlokans/library/internal/database/stats"
	"github.com/mrlokans/library/internal/database/students"
	http_controllers "github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/tasks"
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
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -2 is syscall.SIGINT, plain kill sends syscall.SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Background work stops after the last request has been answered
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// App holds the wired backend. Build it with NewApp, release it with Close.
type App struct {
	Router    *gin.Engine
	DB        *database.Database
	Audit     *audit.Service
	Tasks     *tasks.Client
	Scheduler *scheduler.Scheduler

	cancelBackground context.CancelFunc
}

// NewApp opens the database and assembles repositories, audit trail,
// task queue and scheduler behind the router.
func NewApp(cfg *config.Config, version string) (*App, error) {
	db, err := database.Open(cfg.Database.Driver, cfg.Database.Path, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	policy := cfg.Policy()
	log.Printf("Loan policy: %d days, %.2f per late day, max %d active loans",
		policy.LoanDays, policy.FinePerDay, policy.MaxActiveLoans)

	studentsRepo := students.NewRepository(db.DB)
	booksRepo := books.NewRepository(db.DB)
	loansRepo := loans.NewRepository(db.DB, policy)
	statsRepo := stats.NewRepository(db.DB)
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))

	app := &App{DB: db, Audit: auditService}

	routerCfg := http_controllers.RouterConfig{
		Students:           studentsRepo,
		Books:              booksRepo,
		Loans:              loansRepo,
		Stats:              statsRepo,
		Database:           db,
		Audit:              auditService,
		AuditReader:        auditService,
		AuditRetentionDays: cfg.Audit.RetentionDays,
		ReadOnly:           cfg.Global.ReadOnly,
		Version:            version,
	}

	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err := tasks.NewClient(cfg.Tasks.DBPath, taskCfg)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("initialize task queue: %w", err)
		}
		taskClient.Register(
			tasks.NewOverdueScanQueue(loansRepo, auditService),
			tasks.NewCleanupAuditEventsQueue(auditService),
		)
		app.Tasks = taskClient
		app.Scheduler = scheduler.New(taskClient, scheduler.Config{
			OverdueScanEnabled:  cfg.OverdueScan.Enabled,
			OverdueScanSchedule: cfg.OverdueScan.Schedule,
			AuditRetentionDays:  cfg.Audit.RetentionDays,
		})
		routerCfg.TaskQueue = taskClient
	} else {
		log.Printf("Task queue disabled: overdue scans and audit cleanup will not run")
	}

	app.Router = http_controllers.NewRouter(routerCfg)
	return app, nil
}

// Start launches the task workers and the scheduler.
func (a *App) Start() error {
	if a.Tasks == nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelBackground = cancel

	go a.Tasks.Start(ctx)
	if err := a.Scheduler.Start(ctx); err != nil {
		cancel()
		return fmt.Errorf("start scheduler: %w", err)
	}
	return nil
}

// Shutdown stops the scheduler and drains the task workers within ctx.
func (a *App) Shutdown(ctx context.Context) {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Tasks != nil {
		a.Tasks.Stop(ctx)
	}
	if a.cancelBackground != nil {
		a.cancelBackground()
	}
}

// Close waits for pending audit writes and releases the databases.
func (a *App) Close() {
	if a.Audit != nil {
		a.Audit.Wait()
	}
	if a.Tasks != nil {
		if err := a.Tasks.Close(); err != nil {
			log.Printf("Error closing task client: %v", err)
		}
	}
	if err := a.DB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Library v%s", version)

	app, err := NewApp(cfg, version)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatalf("Failed to start background workers: %v", err)
	}

	Serve(app.Router, cfg, app.Shutdown)
}
