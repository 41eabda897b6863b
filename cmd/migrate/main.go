package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"docvault/config"
	"docvault/internal/infra/persistence/gormdb"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

// Supported subcommands:
// - up:      apply pending migrations, optionally up to -to
// - down:    roll back the latest migration, or down to -to
// - status:  list every migration and whether it is applied
// - version: print the current schema version

func main() {
	upCmd := flag.NewFlagSet("up", flag.ExitOnError)
	upTo := upCmd.Int64("to", 0, "Target version (0 applies everything)")

	downCmd := flag.NewFlagSet("down", flag.ExitOnError)
	downTo := downCmd.Int64("to", -1, "Target version (-1 rolls back one migration)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, os.Args[1], os.Args[2:], upCmd, upTo, downCmd, downTo); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, subcommand string, args []string, upCmd *flag.FlagSet, upTo *int64, downCmd *flag.FlagSet, downTo *int64) error {
	switch subcommand {
	case "up":
		if err := upCmd.Parse(args); err != nil {
			return errors.WithStack(err)
		}
	case "down":
		if err := downCmd.Parse(args); err != nil {
			return errors.WithStack(err)
		}
	case "status", "version":
	case "help", "-h", "--help":
		printUsage()

		return nil
	default:
		printUsage()

		return errors.Errorf("unknown subcommand: %s", subcommand)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	db, err := gormdb.Open(cfg, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB")
	}
	defer sqlDB.Close()

	provider, err := gormdb.NewMigrationProvider(sqlDB, cfg.Database.Driver)
	if err != nil {
		return err
	}

	switch subcommand {
	case "up":
		return up(ctx, provider, *upTo)
	case "down":
		return down(ctx, provider, *downTo)
	case "status":
		return status(ctx, provider)
	default:
		return version(ctx, provider)
	}
}

func up(ctx context.Context, provider *goose.Provider, to int64) error {
	var (
		results []*goose.MigrationResult
		err     error
	)
	if to > 0 {
		results, err = provider.UpTo(ctx, to)
	} else {
		results, err = provider.Up(ctx)
	}
	if err != nil {
		return errors.Wrap(err, "migrate up")
	}

	if len(results) == 0 {
		fmt.Println("No pending migrations")
	}
	for _, result := range results {
		fmt.Printf("OK   %s (%s)\n", result.Source.Path, result.Duration)
	}

	return nil
}

func down(ctx context.Context, provider *goose.Provider, to int64) error {
	if to < 0 {
		result, err := provider.Down(ctx)
		if err != nil {
			return errors.Wrap(err, "migrate down")
		}
		fmt.Printf("OK   %s (%s)\n", result.Source.Path, result.Duration)

		return nil
	}

	results, err := provider.DownTo(ctx, to)
	if err != nil {
		return errors.Wrapf(err, "migrate down to %d", to)
	}
	for _, result := range results {
		fmt.Printf("OK   %s (%s)\n", result.Source.Path, result.Duration)
	}

	return nil
}

func status(ctx context.Context, provider *goose.Provider) error {
	statuses, err := provider.Status(ctx)
	if err != nil {
		return errors.Wrap(err, "migration status")
	}

	fmt.Printf("%-8s %-10s %-20s %s\n", "VERSION", "STATE", "APPLIED AT", "FILE")
	for _, s := range statuses {
		appliedAt := "-"
		if !s.AppliedAt.IsZero() {
			appliedAt = s.AppliedAt.UTC().Format(time.DateTime)
		}
		fmt.Printf("%-8d %-10s %-20s %s\n", s.Source.Version, s.State, appliedAt, s.Source.Path)
	}

	return nil
}

func version(ctx context.Context, provider *goose.Provider) error {
	current, err := provider.GetDBVersion(ctx)
	if err != nil {
		return errors.Wrap(err, "read schema version")
	}
	fmt.Printf("Schema version: %d\n", current)

	return nil
}

func printUsage() {
	fmt.Println("Usage: migrate <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  up       Apply pending migrations (-to <version>)")
	fmt.Println("  down     Roll back the latest migration (-to <version>)")
	fmt.Println("  status   List migrations and their state")
	fmt.Println("  version  Print the current schema version")
}
