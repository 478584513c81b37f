package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	ferrors "git.home.luguber.info/inful/solia/internal/foundation/errors"
	"git.home.luguber.info/inful/solia/internal/logfields"
)

// SchemaVersion is the logical schema version this build expects
// (PRAGMA user_version).
const SchemaVersion = 13

// openEntryIndex is the partial unique index that allows at most one row
// with end_ts IS NULL. Its name shows up in constraint violation messages.
const openEntryIndex = "idx_entries_single_open"

// migration is one forward-only schema step. Steps are keyed by the version
// they migrate TO and applied in ascending order inside one transaction.
type migration struct {
	version int
	stmts   []string
}

var migrations = []migration{
	{1, []string{
		`CREATE TABLE profiles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			color TEXT NOT NULL DEFAULT '',
			archived INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE time_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_id INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			start_ts INTEGER NOT NULL,
			end_ts INTEGER,
			note TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX idx_entries_profile_start ON time_entries(profile_id, start_ts)`,
		`CREATE INDEX idx_entries_end ON time_entries(end_ts)`,
	}},
	{2, []string{
		`ALTER TABLE profiles ADD COLUMN target_seconds INTEGER`,
	}},
	{3, []string{
		`CREATE TABLE services (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			rate_cents INTEGER NOT NULL,
			estimated_seconds INTEGER
		)`,
	}},
	{4, []string{
		`CREATE TABLE projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_id INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			estimated_seconds INTEGER,
			service_id INTEGER REFERENCES services(id) ON DELETE SET NULL,
			notes TEXT NOT NULL DEFAULT ''
		)`,
	}},
	{5, []string{
		`ALTER TABLE time_entries ADD COLUMN project_id INTEGER REFERENCES projects(id) ON DELETE SET NULL`,
	}},
	{6, []string{
		`CREATE TABLE profile_todos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_id INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			text TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			created_ts INTEGER NOT NULL DEFAULT (strftime('%s','now'))
		)`,
	}},
	{7, []string{
		`CREATE TABLE profile_services (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_id INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			service_id INTEGER NOT NULL REFERENCES services(id) ON DELETE CASCADE,
			notes TEXT NOT NULL DEFAULT '',
			created_ts INTEGER NOT NULL DEFAULT (strftime('%s','now'))
		)`,
	}},
	{8, []string{
		`CREATE TABLE profile_service_todos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_service_id INTEGER NOT NULL REFERENCES profile_services(id) ON DELETE CASCADE,
			text TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			created_ts INTEGER NOT NULL DEFAULT (strftime('%s','now'))
		)`,
	}},
	{9, []string{
		`CREATE TABLE project_todos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			text TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			created_ts INTEGER NOT NULL DEFAULT (strftime('%s','now'))
		)`,
	}},
	{10, []string{
		`ALTER TABLE profiles ADD COLUMN company TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE profiles ADD COLUMN contact_person TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE profiles ADD COLUMN email TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE profiles ADD COLUMN phone TEXT NOT NULL DEFAULT ''`,
	}},
	{11, []string{
		`ALTER TABLE profiles ADD COLUMN address TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE profiles ADD COLUMN notes TEXT NOT NULL DEFAULT ''`,
	}},
	{12, []string{
		`ALTER TABLE projects ADD COLUMN deadline_ts INTEGER`,
		`ALTER TABLE projects ADD COLUMN start_ts INTEGER`,
		`ALTER TABLE projects ADD COLUMN invoice_sent INTEGER NOT NULL DEFAULT 0`,
		`ALTER TABLE projects ADD COLUMN invoice_paid INTEGER NOT NULL DEFAULT 0`,
	}},
	{13, []string{
		// Storage-level backstop for the single-open-entry invariant: the
		// indexed expression is 1 for every open row, so at most one fits.
		`CREATE UNIQUE INDEX ` + openEntryIndex + ` ON time_entries((end_ts IS NULL)) WHERE end_ts IS NULL`,
	}},
}

// migrate brings the on-disk schema up to SchemaVersion. All pending steps
// run inside a single transaction; any failure rolls the whole upgrade back
// and leaves the previous version intact.
func (s *Store) migrate(ctx context.Context) error {
	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryMigration, "read schema version").Build()
	}
	if current > SchemaVersion {
		return ferrors.MigrationError("database schema is newer than this build").
			WithContext("on_disk", current).
			WithContext("supported", SchemaVersion).
			Build()
	}
	if current == SchemaVersion {
		return nil
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, m := range migrations {
			if m.version <= current {
				continue
			}
			for _, stmt := range m.stmts {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return ferrors.WrapError(err, ferrors.CategoryMigration, "migration step failed").
						Fatal().
						WithContext("target_version", m.version).
						Build()
				}
			}
		}
		// PRAGMA does not support placeholders.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryMigration, "set schema version").Fatal().Build()
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("database migrated",
		logfields.SchemaVersion(SchemaVersion),
		slog.Int("from_version", current))
	return nil
}

// schemaVersion reads the current PRAGMA user_version, for diagnostics and
// tests.
func (s *Store) schemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v)
	return v, err
}
