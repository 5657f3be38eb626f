package commands

import (
	"context"
	"fmt"

	"projectops/internal/database"
)

type MigrateCmd struct {
	CreateDB bool `help:"Create the database with the admin credentials when it does not exist." name:"create-db"`
}

func (c *MigrateCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, log, err := setup(globals)
	if err != nil {
		return err
	}

	if c.CreateDB {
		if err := database.EnsureDatabaseExists(ctx, cfg.Database); err != nil {
			return err
		}
	}

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Str("database", cfg.Database.Name).Msg("migrations applied")
	return nil
}
