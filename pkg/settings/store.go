// Package settings persists the process-wide configuration that is not
// derivable from the skill directories themselves: the configured storage
// roots, the enabled-skill set, and the routing model preference. Values
// live in a small key/value table in the shared SQLite database and are
// read in full on every query.
package settings

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillkit/pkg/db"
)

// Store is the injectable key/value persistence boundary.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SQLiteStore implements Store on the shared SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// Migrations returns the settings table migrations.
func Migrations() []db.Migration {
	return []db.Migration{
		{
			Version:     20250811120000,
			Description: "create settings table",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					CREATE TABLE IF NOT EXISTS settings (
						key TEXT PRIMARY KEY,
						value TEXT NOT NULL,
						updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
					)
				`)
				return err
			},
			Down: func(tx *sql.Tx) error {
				_, err := tx.Exec("DROP TABLE IF EXISTS settings")
				return err
			},
		},
	}
}

// Open opens the settings store at the default database path.
func Open(ctx context.Context) (*SQLiteStore, error) {
	dbPath, err := db.DefaultDBPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(ctx, dbPath)
}

// OpenAt opens the settings store at a specific database path and runs
// pending migrations.
func OpenAt(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	sqlDB, err := db.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	runner := db.NewMigrationRunner(sqlDB)
	if err := runner.Run(ctx, Migrations()); err != nil {
		sqlDB.Close()
		return nil, errors.Wrap(err, "failed to run settings migrations")
	}

	return &SQLiteStore{db: sqlDB}, nil
}

// Get returns the stored value for key and whether it was present.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM settings WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to read setting %q", key)
	}
	return value, true, nil
}

// Set stores the value for key, replacing any previous value.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return errors.Wrapf(err, "failed to write setting %q", key)
}

// Delete removes the value for key. Deleting an absent key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", key)
	return errors.Wrapf(err, "failed to delete setting %q", key)
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
