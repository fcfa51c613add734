// Package main applies the development schema for insurance_users and
// policies_summ to the store named by the DB_* settings.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pressly/goose/v3"

	"github.com/policyscope/policyscope/internal/config"
	"github.com/policyscope/policyscope/internal/logging"
	"github.com/policyscope/policyscope/internal/metrics"
	"github.com/policyscope/policyscope/internal/repository"
)

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("failed to load config: %v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, "text")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repository.New(ctx, repository.ConfigFrom(cfg), logger, metrics.NewNoop())
	if err != nil {
		fatalf("failed to configure database: %s", logging.SanitizeError(err, cfg.Database.Password))
	}
	defer store.Close()

	provider, err := store.NewMigrator(ctx)
	if err != nil {
		fatalf("%s", logging.SanitizeError(err, cfg.Database.Password))
	}

	if err := run(ctx, provider, args); err != nil {
		fatalf("%s: %s", args[0], logging.SanitizeError(err, cfg.Database.Password))
	}
}

func run(ctx context.Context, provider *goose.Provider, args []string) error {
	switch args[0] {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return err
		}
		for _, r := range results {
			slog.Info("migration applied", "version", r.Source.Version, "duration", r.Duration)
		}
		slog.Info("migrations: up completed", "applied", len(results))

	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid steps argument %q", args[1])
			}
			steps = n
		}
		for i := 0; i < steps; i++ {
			r, err := provider.Down(ctx)
			if err != nil {
				return err
			}
			slog.Info("migration rolled back", "version", r.Source.Version, "duration", r.Duration)
		}

	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			applied := "-"
			if s.State == goose.StateApplied {
				applied = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%05d  %-8s  %s\n", s.Source.Version, s.State, applied)
		}

	case "version":
		v, err := provider.GetDBVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("version: %d\n", v)

	default:
		usage()
		os.Exit(2)
	}
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate <command> [args]

Commands:
  up           Apply all pending migrations
  down [N]     Roll back N migrations (default: 1)
  status       List migrations and when they were applied
  version      Print the current schema version

Environment:
  DB_DRIVER, DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD, DB_PARAMS
  as for the query service. A .env file is read when present.`)
}

func fatalf(format string, args ...any) {
	slog.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}
