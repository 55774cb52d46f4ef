package migration

import (
	"context"

	"gokea/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner applies the dataset store schema
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order. Every step is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.enableForeignKeys(ctx, db); err != nil {
		return errors.Wrap(err, "failed to enable foreign keys")
	}

	if err := r.createDatasetsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create datasets table")
	}

	if err := r.createInteractionsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create interactions table")
	}

	if err := r.createRankStatsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create rank_stats table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return r.recordVersion(ctx, db)
}

func (r *MigrationRunner) enableForeignKeys(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`)
	return err
}

func (r *MigrationRunner) createDatasetsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS datasets (
			name        TEXT PRIMARY KEY,
			description TEXT NOT NULL DEFAULT '',
			sources     TEXT NOT NULL DEFAULT '',
			ranks       TEXT NOT NULL DEFAULT '',
			position    INTEGER NOT NULL,
			imported_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		)
	`)
	return err
}

func (r *MigrationRunner) createInteractionsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS interactions (
			dataset   TEXT NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
			seq       INTEGER NOT NULL,
			grp       TEXT NOT NULL,
			family    TEXT NOT NULL,
			kinase    TEXT NOT NULL,
			substrate TEXT NOT NULL,
			PRIMARY KEY (dataset, seq)
		)
	`)
	return err
}

func (r *MigrationRunner) createRankStatsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS rank_stats (
			dataset TEXT NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
			name    TEXT NOT NULL,
			mean    REAL NOT NULL,
			std_dev REAL NOT NULL,
			PRIMARY KEY (dataset, name)
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_interactions_kinase ON interactions(dataset, kinase)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_substrate ON interactions(dataset, substrate)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *MigrationRunner) recordVersion(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version    TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		)
	`); err != nil {
		return errors.Wrap(err, "failed to create schema_version table")
	}
	_, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, r.version)
	return err
}

// AppliedVersions lists recorded schema versions, oldest first
func AppliedVersions(ctx context.Context, db *sqlx.DB) ([]string, error) {
	var versions []string
	err := db.SelectContext(ctx, &versions, `SELECT version FROM schema_version ORDER BY applied_at, version`)
	return versions, err
}
