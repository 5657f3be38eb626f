package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"projectops/internal/config"
)

// DSN builds a postgres:// URL for the given credentials and database.
func DSN(cfg config.DatabaseConfig, user, password, database string) string {
	userInfo := url.UserPassword(user, password)
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%d/%s?sslmode=%s",
		userInfo.String(),
		cfg.Host,
		cfg.Port,
		url.PathEscape(database),
		url.QueryEscape(sslMode),
	)
}

// EnsureDatabaseExists connects to the maintenance database with the admin
// credentials and creates cfg.Name when it is missing.
func EnsureDatabaseExists(ctx context.Context, cfg config.DatabaseConfig) error {
	if cfg.AdminUser == "" {
		return fmt.Errorf("DB_ADMIN_USER environment variable is required")
	}
	if cfg.AdminPassword == "" {
		return fmt.Errorf("DB_ADMIN_PASSWORD environment variable is required")
	}

	log.Info().Str("database", cfg.Name).Msg("checking if database exists")

	pool, err := pgxpool.New(ctx, DSN(cfg, cfg.AdminUser, cfg.AdminPassword, "postgres"))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pool.Close()

	qctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)"
	if err := pool.QueryRow(qctx, query, cfg.Name).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if exists {
		log.Info().Str("database", cfg.Name).Msg("database already exists")
		return nil
	}

	// CREATE DATABASE cannot run inside a transaction and does not take parameters.
	createQuery := fmt.Sprintf("CREATE DATABASE %s", pgx.Identifier{cfg.Name}.Sanitize())
	if _, err := pool.Exec(qctx, createQuery); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	log.Info().Str("database", cfg.Name).Msg("database created")
	return nil
}

// Connect opens the shared connection pool and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("DB_HOST environment variable is required")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("DB_USERNAME environment variable is required")
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("DB_DATABASE environment variable is required")
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("user", cfg.User).
		Str("database", cfg.Name).
		Msg("connecting to database")

	poolConfig, err := pgxpool.ParseConfig(DSN(cfg, cfg.User, cfg.Password, cfg.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string (check your .env file): %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 && cfg.MinConns <= poolConfig.MaxConns {
		poolConfig.MinConns = cfg.MinConns
	}
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("database connection pool established")
	return pool, nil
}
