package main

import (
	"context"

	"github.com/alecthomas/kong"

	"projectops/cmd/api/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		EnvFile string           `help:"Path to an env file loaded before reading configuration." default:".env" type:"path"`
		Version kong.VersionFlag `help:"Print the version and exit."`

		Serve   commands.ServeCmd   `cmd:"" default:"1" help:"Start the HTTP API server."`
		Migrate commands.MigrateCmd `cmd:"" help:"Apply database migrations and exit."`
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("projectops"),
		kong.Description("Project lifecycle and framework agreement API."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{EnvFile: cli.EnvFile, Version: version})
	cmd.FatalIfErrorf(err)
}
