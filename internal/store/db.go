// Package store persists finished scheduling runs to Postgres.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/nordatc/shiftplan/internal/config"
	apperrors "github.com/nordatc/shiftplan/pkg/errors"
	"github.com/nordatc/shiftplan/pkg/logger"

	_ "github.com/lib/pq"
)

// DB wraps a connection pool with slow-query logging.
type DB struct {
	*sql.DB
	cfg *config.DatabaseConfig
}

// New opens a connection pool and verifies it with a ping.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "open database connection")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "ping database")
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Msg("connected to schedule store")

	return &DB{DB: db, cfg: cfg}, nil
}

// Close releases the connection pool.
func (db *DB) Close() error {
	if db.DB != nil {
		logger.Info().Msg("closing schedule store connection")
		return db.DB.Close()
	}
	return nil
}

// Health pings the database.
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}

// ExecContext executes a statement, logging it if it runs slowly.
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := db.DB.ExecContext(ctx, query, args...)
	if d := time.Since(start); d > 100*time.Millisecond {
		logger.Warn().Str("query", truncateQuery(query)).Dur("duration", d).Msg("slow query")
	}
	return result, err
}

// QueryRowContext executes a single-row query.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRowContext(ctx, query, args...)
}

func truncateQuery(query string) string {
	if len(query) > 200 {
		return query[:200] + "..."
	}
	return query
}
