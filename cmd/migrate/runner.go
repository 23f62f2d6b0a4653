package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

// runner applies numbered migrations and records them in schema_migrations.
type runner struct {
	pool *pgxpool.Pool
	dir  string
}

// migrationNames returns the sorted names of the .up.sql files in dir,
// without the suffix.
func migrationNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), upSuffix) {
			names = append(names, strings.TrimSuffix(e.Name(), upSuffix))
		}
	}
	slices.Sort(names)
	return names, nil
}

// pendingNames keeps the names not yet in applied, in order.
func pendingNames(all []string, applied map[string]bool) []string {
	var out []string
	for _, name := range all {
		if !applied[name] {
			out = append(out, name)
		}
	}
	return out
}

// lastApplied is the highest applied name that still has a file, or "".
func lastApplied(all []string, applied map[string]bool) string {
	for i := len(all) - 1; i >= 0; i-- {
		if applied[all[i]] {
			return all[i]
		}
	}
	return ""
}

func (r *runner) applied(ctx context.Context) (map[string]bool, error) {
	if _, err := r.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		return nil, fmt.Errorf("ensure schema_migrations: %w", err)
	}
	rows, err := r.pool.Query(ctx, "SELECT name FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	done := make(map[string]bool, len(names))
	for _, n := range names {
		done[n] = true
	}
	return done, nil
}

// exec runs one file and the bookkeeping statement in a single transaction.
func (r *runner) exec(ctx context.Context, file, record, name string) error {
	sql, err := os.ReadFile(filepath.Join(r.dir, file))
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		if _, err := tx.Exec(ctx, record, name); err != nil {
			return fmt.Errorf("record %s: %w", name, err)
		}
		return nil
	})
}

func (r *runner) up(ctx context.Context) error {
	all, err := migrationNames(r.dir)
	if err != nil {
		return err
	}
	done, err := r.applied(ctx)
	if err != nil {
		return err
	}
	pending := pendingNames(all, done)
	if len(pending) == 0 {
		slog.Info("all migrations already applied")
		return nil
	}
	for _, name := range pending {
		if err := r.exec(ctx, name+upSuffix, "INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
			return err
		}
		slog.Info("migration applied", "migration", name)
	}
	slog.Info("migrations completed", "count", len(pending))
	return nil
}

func (r *runner) status(ctx context.Context) error {
	all, err := migrationNames(r.dir)
	if err != nil {
		return err
	}
	done, err := r.applied(ctx)
	if err != nil {
		return err
	}
	for _, name := range all {
		slog.Info("migration", "name", name, "applied", done[name])
	}
	slog.Info("migration status", "pending", len(pendingNames(all, done)))
	return nil
}

func (r *runner) down(ctx context.Context) error {
	all, err := migrationNames(r.dir)
	if err != nil {
		return err
	}
	done, err := r.applied(ctx)
	if err != nil {
		return err
	}
	name := lastApplied(all, done)
	if name == "" {
		slog.Info("nothing to revert")
		return nil
	}
	if err := r.exec(ctx, name+downSuffix, "DELETE FROM schema_migrations WHERE name = $1", name); err != nil {
		return err
	}
	slog.Info("migration reverted", "migration", name)
	return nil
}
