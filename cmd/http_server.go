package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/asset-custody/internal"
	"github.com/frahmantamala/asset-custody/internal/assignment"
	assignmentPostgres "github.com/frahmantamala/asset-custody/internal/assignment/postgres"
	"github.com/frahmantamala/asset-custody/internal/audit"
	auditPostgres "github.com/frahmantamala/asset-custody/internal/audit/postgres"
	"github.com/frahmantamala/asset-custody/internal/auth"
	"github.com/frahmantamala/asset-custody/internal/category"
	categoryPostgres "github.com/frahmantamala/asset-custody/internal/category/postgres"
	"github.com/frahmantamala/asset-custody/internal/core/events"
	"github.com/frahmantamala/asset-custody/internal/department"
	departmentPostgres "github.com/frahmantamala/asset-custody/internal/department/postgres"
	"github.com/frahmantamala/asset-custody/internal/item"
	itemPostgres "github.com/frahmantamala/asset-custody/internal/item/postgres"
	"github.com/frahmantamala/asset-custody/internal/personnel"
	personnelPostgres "github.com/frahmantamala/asset-custody/internal/personnel/postgres"
	"github.com/frahmantamala/asset-custody/internal/report"
	reportPostgres "github.com/frahmantamala/asset-custody/internal/report/postgres"
	"github.com/frahmantamala/asset-custody/internal/report/rediscache"
	"github.com/frahmantamala/asset-custody/internal/store"
	"github.com/frahmantamala/asset-custody/internal/transport"
	"github.com/frahmantamala/asset-custody/internal/transport/rest"
	"github.com/frahmantamala/asset-custody/internal/user"
	userPostgres "github.com/frahmantamala/asset-custody/internal/user/postgres"
	"github.com/frahmantamala/asset-custody/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

// Dependencies are the process-wide resources. DB and ReadDB share one connection pool.
type Dependencies struct {
	Config *internal.Config
	SQL    *sql.DB
	DB     *gorm.DB
	ReadDB *sqlx.DB
	Redis  *redis.Client
	Bus    *events.EventBus
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	apiDoc, err := rest.LoadAPIDocument(context.Background(), deps.Config.Server.OpenAPIPath)
	if err != nil {
		// the API still works without its description
		deps.Logger.Warn("openapi document not served", "path", deps.Config.Server.OpenAPIPath, "error", err)
	}

	router, err := buildRouter(deps, apiDoc)
	if err != nil {
		deps.Logger.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "redis_cache", deps.Redis != nil)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.Close()
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Configure(os.Stdout, config.Logging.Level, config.Logging.Format)

	sqlDB, err := initDB(ctx, config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	deps := &Dependencies{
		Config: config,
		SQL:    sqlDB,
		DB:     gormDB,
		ReadDB: sqlx.NewDb(sqlDB, "pgx"),
		Bus:    events.NewEventBus(lg),
		Logger: lg,
	}

	if config.Redis.Enabled() {
		rdb, err := rediscache.Connect(ctx, config.Redis.Addr, config.Redis.Password, config.Redis.DB, 3*time.Second)
		if err != nil {
			// reports fall back to the database
			lg.Warn("redis unavailable, report cache disabled", "addr", config.Redis.Addr, "error", err)
		} else {
			deps.Redis = rdb
		}
	}

	return deps, nil
}

func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("Redis close error", "error", err)
		}
	}
	if err := d.SQL.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

// initDB opens the pgx pool shared by gorm and sqlx
func initDB(ctx context.Context, cfg internal.DatabaseConfig) (*sql.DB, error) {
	dbConn, err := sql.Open("pgx", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := internal.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := dbConn.PingContext(pingCtx); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// buildRouter wires repositories, services and handlers onto one router. Report cache
// invalidation is subscribed to the event bus here, so every publisher below feeds it.
func buildRouter(deps *Dependencies, apiDoc *rest.APIDocument) (*chi.Mux, error) {
	cfg := deps.Config
	lg := deps.Logger

	isolation, err := cfg.Database.TxIsolation()
	if err != nil {
		return nil, err
	}
	tx := store.NewGormTransactor(deps.DB, isolation)

	var reportCache report.Cache = report.NopCache{}
	if deps.Redis != nil {
		reportCache = rediscache.NewCache(deps.Redis, "")
	}
	report.NewEventHandler(reportCache, lg).Register(deps.Bus)

	auditService := audit.NewService(auditPostgres.NewAuditRepository(deps.DB), lg)

	userRepo := userPostgres.NewUserRepository(deps.DB)
	userService := user.NewService(userRepo, tx, auditService, deps.Bus, user.Credentials{
		DefaultPassword: cfg.Security.DefaultPassword,
		BCryptCost:      cfg.Security.BCryptCost,
	}, lg)

	authService := auth.NewService(userRepo, auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration), lg)

	personnelService := personnel.NewService(personnelPostgres.NewPersonnelRepository(deps.DB), tx, auditService, deps.Bus, lg)
	itemService := item.NewService(itemPostgres.NewItemRepository(deps.DB), tx, auditService, deps.Bus, lg)
	categoryService := category.NewService(categoryPostgres.NewCategoryRepository(deps.DB), tx, auditService, deps.Bus, lg)
	departmentService := department.NewService(departmentPostgres.NewDepartmentRepository(deps.DB), tx, auditService, deps.Bus, lg)
	assignmentService := assignment.NewService(assignmentPostgres.NewAssignmentRepository(deps.DB), tx, auditService, deps.Bus, lg)

	cacheTTL := time.Duration(0)
	if deps.Redis != nil {
		cacheTTL = cfg.Redis.CacheTTL
	}
	reportService := report.NewService(reportPostgres.NewReportRepository(deps.ReadDB), reportCache, cacheTTL, lg)

	base := transport.NewBaseHandler(lg)
	handlers := rest.Handlers{
		Auth:       auth.NewHandler(base, authService),
		RBAC:       auth.NewRBACAuthorization(lg),
		User:       user.NewHandler(base, userService),
		Personnel:  personnel.NewHandler(base, personnelService),
		Item:       item.NewHandler(base, itemService),
		Category:   category.NewHandler(base, categoryService),
		Department: department.NewHandler(base, departmentService),
		Assignment: assignment.NewHandler(base, assignmentService),
		Report:     report.NewHandler(base, reportService),
		Audit:      audit.NewHandler(base, auditService),
	}

	health := map[string]rest.Checker{"database": deps.SQL.PingContext}
	if deps.Redis != nil {
		health["redis"] = func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() }
	}

	return rest.NewRouter(handlers, rest.Options{
		Logger:         lg,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Health:         health,
		APIDoc:         apiDoc,
	}), nil
}
