// Package database provides SQL Server connectivity for agrilend-engine.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/microsoft/go-mssqldb" // SQL Server driver
	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/config"
	"github.com/agrilend/agrilend-engine/pkg/logging"
	"github.com/agrilend/agrilend-engine/pkg/retry"
)

// DB wraps a database/sql pool for SQL Server.
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// Connect opens a SQL Server connection pool and verifies it with a ping.
// Transient ping failures are retried with exponential backoff because the
// database may still be starting when the service boots; permanent ones
// (bad credentials, unknown driver) fail fast.
func Connect(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	connStr := cfg.ConnectionString()

	pool, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*sql.DB, error) {
		pool, openErr := sql.Open("sqlserver", connStr)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open SQL Server pool: %w", openErr)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if pingErr := pool.PingContext(pingCtx); pingErr != nil {
			pool.Close()
			logger.Warn("SQL Server ping failed",
				zap.String("server", cfg.Server),
				zap.String("database", cfg.Name),
				zap.Bool("retryable", retry.IsRetryable(pingErr)),
				zap.String("error", logging.SanitizeError(pingErr)))
			return nil, pingErr
		}
		return pool, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQL Server %s/%s: %w", cfg.Server, cfg.Name, err)
	}

	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)

	logger.Info("Connected to SQL Server",
		zap.String("server", cfg.Server),
		zap.String("database", cfg.Name))

	return &DB{DB: pool, logger: logger.Named("database")}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if err := db.DB.Close(); err != nil {
		db.logger.Warn("Failed to close database pool", zap.Error(err))
	}
}
