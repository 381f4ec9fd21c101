package postgres

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Each migration ships as NNNNN_name.tx.up.sql / .tx.down.sql and runs in its
// own transaction. Statements are separated by --bun:split lines.
//
//go:embed migrations/*.sql
var migrationFiles embed.FS

var Migrations = migrate.NewMigrations()

func init() {
	if err := Migrations.Discover(migrationFiles); err != nil {
		panic(fmt.Errorf("discover migrations: %w", err))
	}
}

type MigrationState struct {
	Version    string
	Applied    bool
	MigratedAt time.Time
}

func newMigrator(db *bun.DB) *migrate.Migrator {
	return migrate.NewMigrator(db, Migrations, migrate.WithMarkAppliedOnSuccess(true))
}

// Migrate applies every embedded migration not yet recorded in bun_migrations
// and returns how many ran.
func Migrate(ctx context.Context, db *bun.DB) (int, error) {
	m := newMigrator(db)
	if err := m.Init(ctx); err != nil {
		return 0, fmt.Errorf("init migrations table: %w", err)
	}
	if err := m.Lock(ctx); err != nil {
		return 0, err
	}
	defer func() { _ = m.Unlock(context.WithoutCancel(ctx)) }()

	group, err := m.Migrate(ctx)
	if err != nil {
		return appliedCount(group), fmt.Errorf("migrate: %w", err)
	}
	return appliedCount(group), nil
}

// Rollback reverts the most recently applied migration group and returns how
// many migrations it undid.
func Rollback(ctx context.Context, db *bun.DB) (int, error) {
	m := newMigrator(db)
	if err := m.Init(ctx); err != nil {
		return 0, fmt.Errorf("init migrations table: %w", err)
	}
	if err := m.Lock(ctx); err != nil {
		return 0, err
	}
	defer func() { _ = m.Unlock(context.WithoutCancel(ctx)) }()

	group, err := m.Rollback(ctx)
	if err != nil {
		return 0, fmt.Errorf("rollback: %w", err)
	}
	return appliedCount(group), nil
}

func MigrationStatus(ctx context.Context, db *bun.DB) ([]MigrationState, error) {
	m := newMigrator(db)
	if err := m.Init(ctx); err != nil {
		return nil, fmt.Errorf("init migrations table: %w", err)
	}
	ms, err := m.MigrationsWithStatus(ctx)
	if err != nil {
		return nil, err
	}
	return migrationStates(ms), nil
}

func migrationStates(ms migrate.MigrationSlice) []MigrationState {
	out := make([]MigrationState, 0, len(ms))
	for _, mig := range ms {
		out = append(out, MigrationState{
			Version:    mig.String(),
			Applied:    mig.IsApplied(),
			MigratedAt: mig.MigratedAt,
		})
	}
	return out
}

func appliedCount(group *migrate.MigrationGroup) int {
	if group == nil {
		return 0
	}
	return len(group.Migrations)
}
