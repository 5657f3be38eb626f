package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"projectops/internal/database"
	"projectops/internal/server"
)

const shutdownTimeout = 5 * time.Second

type ServeCmd struct {
	Migrate bool `help:"Run migrations before serving (also enabled by AUTO_MIGRATE)."`
}

func (c *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, log, err := setup(globals)
	if err != nil {
		return err
	}

	log.Info().Str("version", cfg.App.Version).Str("env", cfg.App.Environment).Msg("starting server")

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if c.Migrate || cfg.Database.AutoMigrate {
		if err := database.RunMigrations(ctx, pool); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info().Msg("database migrations completed")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// Fail fast with a clear message; logout and sync both depend on redis.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = rdb.Ping(pingCtx).Err()
	cancel()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Addr, err)
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	srv := server.NewServer(cfg, log, pool, rdb)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server gracefully")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("server exited")
	return nil
}
