package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Storage bundles the SQLite-backed repositories behind a single handle.
type Storage struct {
	pool     *ConnectionPool
	Guests   *GuestRepository
	Admins   *AdminRepository
	Sessions *SessionRepository
}

// Open connects to the SQLite database identified by dsn and returns a
// Storage whose repositories share one connection pool. Migrate must be
// called before the repositories are used.
func Open(dsn string) (*Storage, error) {
	pool, err := NewConnectionPool(dsn)
	if err != nil {
		return nil, err
	}

	return &Storage{
		pool:     pool,
		Guests:   NewGuestRepository(pool),
		Admins:   NewAdminRepository(pool),
		Sessions: NewSessionRepository(pool),
	}, nil
}

// Close releases the underlying database handle.
func (s *Storage) Close() error {
	return s.pool.Close()
}

// Ping verifies the database connection.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// migrations are applied in order inside a single transaction each. The
// schema_migrations table records which versions have already run so that
// restarting the service is idempotent.
var migrations = []struct {
	version int
	script  string
}{
	{
		version: 1,
		script: `
			CREATE TABLE IF NOT EXISTS guests (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				submission_key TEXT NOT NULL UNIQUE,
				name TEXT NOT NULL,
				email TEXT NOT NULL,
				phone TEXT NOT NULL,
				dietary_restrictions TEXT,
				favorite_music TEXT,
				bus_service INTEGER NOT NULL DEFAULT 0,
				bus_route TEXT,
				companions TEXT NOT NULL DEFAULT '[]',
				created_at TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_guests_created_at ON guests(created_at);
		`,
	},
	{
		version: 2,
		script: `
			CREATE TABLE IF NOT EXISTS admin_users (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			);
		`,
	},
	{
		version: 3,
		script: `
			CREATE TABLE IF NOT EXISTS sessions (
				id TEXT PRIMARY KEY,
				admin_id TEXT NOT NULL REFERENCES admin_users(id) ON DELETE CASCADE,
				token TEXT NOT NULL UNIQUE,
				expires_at TEXT NOT NULL,
				revoked_at TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions(token);
		`,
	},
}

// Migrate applies any schema migrations that have not run yet.
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.pool.DB().ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, migration := range migrations {
		applied, err := s.migrationApplied(ctx, migration.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.Exec(migration.script); err != nil {
				return fmt.Errorf("migration %d failed: %w", migration.version, err)
			}
			if _, err := tx.Exec(
				"INSERT INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))",
				migration.version,
			); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", migration.version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Storage) migrationApplied(ctx context.Context, version int) (bool, error) {
	var count int
	err := s.pool.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to inspect schema_migrations: %w", err)
	}
	return count > 0, nil
}
