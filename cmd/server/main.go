// Package main is the entry point for the Tandem API server, which serves
// bilingual flashcard decks, spaced-repetition study sessions and deck
// sharing between partners.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/tandem-api/internal/config"
	"github.com/phrazzld/tandem-api/internal/platform/logger"
	"github.com/phrazzld/tandem-api/internal/platform/postgres"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// options are command-line settings that are not part of Config.
type options struct {
	migrate     string
	autoMigrate bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "tandem-api: %v\n", err)
		os.Exit(1)
	}
}

// run parses args, loads configuration and either runs a migration command
// or serves until ctx is cancelled.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, opts, err := loadConfig(args)
	if err != nil {
		return err
	}

	log, err := logger.SetupWithWriter(cfg.Server, stdout)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	slog.SetDefault(log)

	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("time_zone", cfg.Study.TimeZone))

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}()

	if opts.migrate != "" {
		return postgres.Migrate(ctx, db, log, opts.migrate)
	}
	if opts.autoMigrate {
		if err := postgres.Migrate(ctx, db, log, "up"); err != nil {
			return err
		}
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return app.serve(ctx)
}

// loadConfig binds command-line flags over environment and file config.
func loadConfig(args []string) (*config.Config, options, error) {
	var opts options

	fs := pflag.NewFlagSet("tandem-api", pflag.ContinueOnError)
	fs.Int("port", 0, "HTTP port (overrides TANDEM_SERVER_PORT)")
	fs.String("log-level", "", "log level: debug, info, warn or error")
	fs.StringVar(&opts.migrate, "migrate", "", "run a migration command (up, down, status, ...) and exit")
	fs.BoolVar(&opts.autoMigrate, "auto-migrate", false, "apply pending migrations before serving")

	if err := fs.Parse(args); err != nil {
		return nil, opts, err
	}
	if opts.migrate != "" && !postgres.IsMigrationCommand(opts.migrate) {
		return nil, opts, fmt.Errorf("unsupported migration command %q", opts.migrate)
	}

	v := viper.New()
	// Only flags set explicitly override other sources.
	if fs.Changed("port") {
		if err := v.BindPFlag("server.port", fs.Lookup("port")); err != nil {
			return nil, opts, err
		}
	}
	if fs.Changed("log-level") {
		if err := v.BindPFlag("server.log_level", fs.Lookup("log-level")); err != nil {
			return nil, opts, err
		}
	}

	cfg, err := config.LoadWith(v)
	if err != nil {
		return nil, opts, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, opts, nil
}
