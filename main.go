// Package main is the entry point for the recordkeeper API server.
// It initializes all dependencies and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"recordkeeper/src/app/server"
	"recordkeeper/src/core/domain"
	"recordkeeper/src/core/ports"
	"recordkeeper/src/core/usecase"
	"recordkeeper/src/infra/config"
	"recordkeeper/src/infra/db"
	"recordkeeper/src/infra/logger"
	"recordkeeper/src/infra/repo"
)

// store is what main needs from either database backend.
type store interface {
	ports.Provider
	ports.ErrorClassifier
	EnsureSchema(ctx context.Context, statements ...string) error
}

func main() {
	if err := run(); err != nil {
		log.Printf("fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	log.Info("starting application",
		"port", cfg.Server.Port,
		"log_level", cfg.Log.Level,
		"db_driver", cfg.Database.Driver,
	)

	ctx := context.Background()

	// Initialize database connection
	st, opts, closeDB, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeDB()

	if cfg.Database.Bootstrap {
		if err := st.EnsureSchema(ctx, db.UsersSchema(cfg.Database.Driver)...); err != nil {
			return err
		}
	}

	// Initialize repositories and services
	users := repo.NewRepository(domain.UserRecord, st, logger.WithComponent(log, "repo"), opts...)
	userService := usecase.NewUserService(users, st, logger.WithComponent(log, "users"))
	healthService := usecase.NewHealthService(st, log)

	// Create and run HTTP server
	srv := server.New(cfg, log, healthService, userService)

	// Run blocks until shutdown signal is received
	return srv.Run()
}

func openStore(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (store, []repo.Option, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pg, err := db.New(ctx, cfg, log)
		if err != nil {
			return nil, nil, nil, err
		}
		return pg, []repo.Option{repo.WithDialect(repo.Dollar)}, pg.Close, nil
	case config.DriverSQLite:
		lite, err := db.OpenSQLite(ctx, cfg, log)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := lite.Close(); err != nil {
				log.Warn("failed to close database", "error", err)
			}
		}
		return lite, nil, closeFn, nil
	default:
		return nil, nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
