package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"hospital/backend/internal/config"
	"hospital/backend/internal/store/postgres"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, log *slog.Logger, db *bun.DB) error {
				count, err := postgres.Migrate(ctx, db)
				if err != nil {
					log.Error("migration failed", slog.Any("err", err))
					return fmt.Errorf("migration failed: %w", err)
				}
				log.Info("migrations applied", slog.Int("count", count))
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s).\n", count)
				return nil
			})
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last applied migration group",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, log *slog.Logger, db *bun.DB) error {
				count, err := postgres.Rollback(ctx, db)
				if err != nil {
					log.Error("rollback failed", slog.Any("err", err))
					return fmt.Errorf("rollback failed: %w", err)
				}
				log.Info("migrations rolled back", slog.Int("count", count))
				fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s).\n", count)
				return nil
			})
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show which migrations have been applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, log *slog.Logger, db *bun.DB) error {
				states, err := postgres.MigrationStatus(ctx, db)
				if err != nil {
					return fmt.Errorf("migration status: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%-30s %-8s %s\n", "VERSION", "STATUS", "MIGRATED AT")
				for _, s := range states {
					state, at := "pending", "-"
					if s.Applied {
						state, at = "applied", s.MigratedAt.UTC().Format(time.RFC3339)
					}
					fmt.Fprintf(out, "%-30s %-8s %s\n", s.Version, state, at)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(upCmd, downCmd, statusCmd)
	return cmd
}

func withDatabase(ctx context.Context, fn func(ctx context.Context, log *slog.Logger, db *bun.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel).With(slog.String("component", "migrate"))

	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{MaxOpenConns: 1})
	if err != nil {
		args := append([]any{slog.Any("err", err)}, databaseLogArgs(cfg.DatabaseURL)...)
		log.Error("database connection failed", args...)
		return err
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}()

	return fn(ctx, log, db)
}
