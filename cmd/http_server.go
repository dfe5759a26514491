package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/frahmantamala/access-management/internal"
	"github.com/frahmantamala/access-management/internal/access"
	accessPostgres "github.com/frahmantamala/access-management/internal/access/postgres"
	"github.com/frahmantamala/access-management/internal/auth"
	authPostgres "github.com/frahmantamala/access-management/internal/auth/postgres"
	"github.com/frahmantamala/access-management/internal/authz"
	"github.com/frahmantamala/access-management/internal/core/events"
	"github.com/frahmantamala/access-management/internal/offboarding"
	offboardingPostgres "github.com/frahmantamala/access-management/internal/offboarding/postgres"
	"github.com/frahmantamala/access-management/internal/system"
	systemPostgres "github.com/frahmantamala/access-management/internal/system/postgres"
	"github.com/frahmantamala/access-management/internal/transport/rest"
	"github.com/frahmantamala/access-management/internal/transport/swagger"
	"github.com/frahmantamala/access-management/internal/user"
	userPostgres "github.com/frahmantamala/access-management/internal/user/postgres"
	"github.com/frahmantamala/access-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	SQLDB    *sql.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	corsOrigin := firstOrigin(deps.Config.Server.AllowedOrigins)
	rest.RegisterAllRoutes(deps.Router, deps.SQLDB, deps.Handlers, corsOrigin, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr, "driver", deps.Config.Database.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if deps.SQLDB != nil {
			if err := deps.SQLDB.Close(); err != nil {
				deps.Logger.Error("database close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	// The served spec is validated up front so a broken document fails
	// the boot, not the first Swagger visit.
	if _, statErr := os.Stat("./api/openapi.yml"); statErr == nil {
		if _, err := swagger.LoadSpec(context.Background(), "./api/openapi.yml"); err != nil {
			return nil, err
		}
	} else {
		lg.Warn("openapi spec not found, /swagger will be empty", "path", "./api/openapi.yml")
	}

	gormDB, sqlDB, err := initDB(config.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	handlers := buildHandlers(config, gormDB, lg)

	return &Dependencies{
		Config:   config,
		SQLDB:    sqlDB,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		Handlers: handlers,
		Logger:   lg,
	}, nil
}

// buildHandlers wires repositories, services, the authorizer, and the
// event bus into the HTTP handlers.
func buildHandlers(config *internal.Config, gormDB *gorm.DB, lg *slog.Logger) rest.Handlers {
	eventBus := events.NewEventBus(lg)
	access.NewAuditLogger(lg).Register(eventBus)

	userRepo := userPostgres.NewUserRepository(gormDB)
	systemRepo := systemPostgres.NewSystemRepository(gormDB)
	accessRepo := accessPostgres.NewAccessRepository(gormDB)
	offboardingRepo := offboardingPostgres.NewOffboardingRepository(gormDB)
	authRepo := authPostgres.NewRepository(gormDB)

	authorizer := authz.NewAuthorizer(userRepo, systemRepo, lg)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.JWTAccessSecret,
		config.Security.JWTRefreshSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen)
	userService := user.NewService(userRepo, lg)
	systemService := system.NewService(systemRepo, userRepo, authorizer, lg)
	accessService := access.NewService(accessRepo, systemRepo, userRepo, authorizer, eventBus, lg)
	offboardingService := offboarding.NewService(offboardingRepo, userRepo, systemRepo, authorizer, eventBus, lg)

	return rest.Handlers{
		Auth:        auth.NewHandler(authService),
		User:        user.NewHandler(userService),
		System:      system.NewHandler(lg, systemService),
		Access:      access.NewHandler(lg, accessService),
		Offboarding: offboarding.NewHandler(lg, offboardingService),
	}
}

// initDB opens the configured database. Postgres goes through sqlx on
// the pgx driver with GORM layered on the same connection; sqlite is
// the self-contained demo mode and gets schema plus demo data on boot.
func initDB(cfg internal.DatabaseConfig, lg *slog.Logger) (*gorm.DB, *sql.DB, error) {
	if cfg.Driver == "sqlite" {
		gormDB, err := gorm.Open(gormsqlite.Open(cfg.Source), &gorm.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := migrateDemoSchema(gormDB); err != nil {
			return nil, nil, err
		}
		if err := SeedDemoData(gormDB, lg); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, nil, err
		}
		return gormDB, sqlDB, nil
	}

	sqlxDB, err := sqlx.Connect("pgx", cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlxDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlxDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlxDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlxDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlxDB.Ping(); err != nil {
		_ = sqlxDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
	if err != nil {
		_ = sqlxDB.Close()
		return nil, nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return gormDB, sqlxDB.DB, nil
}

func firstOrigin(allowed string) string {
	origins := strings.Split(allowed, ",")
	if len(origins) == 0 {
		return "*"
	}
	return strings.TrimSpace(origins[0])
}
