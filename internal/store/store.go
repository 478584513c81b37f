// Package store owns the on-disk SQLite database: transactional CRUD for
// profiles, projects, services, time entries and todos, plus the schema
// migration chain. It is the single source of durable truth; the state
// package only caches what lives here.
package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	ferrors "git.home.luguber.info/inful/solia/internal/foundation/errors"
)

// Store wraps the SQLite database. All mutations run inside explicit
// transactions so the single-open-entry invariant holds even when a second
// process shares the file.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithNow overrides the wall clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open opens (or creates) the database at path and migrates it to the
// current schema version. Use ":memory:" for an ephemeral store.
func Open(path string, opts ...Option) (*Store, error) {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path == ":memory:" {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "open database").
			WithContext("path", path).Build()
	}
	// A single connection keeps pragmas, the migration transaction and
	// in-memory databases coherent across the database/sql pool.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// inTx runs fn inside a transaction. Any error rolls the transaction back;
// unclassified errors are wrapped as storage failures.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryStorage, "begin transaction").Build()
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return classify(err)
	}
	if err := tx.Commit(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryStorage, "commit transaction").Build()
	}
	return nil
}

// classify maps raw driver errors onto the shared taxonomy. Already
// classified errors pass through untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := ferrors.AsClassified(err); ok {
		return err
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, openEntryIndex):
		// The partial unique index backs up the application-level check.
		return ferrors.WrapError(err, ferrors.CategoryConflict, "an open entry already exists").Build()
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return ferrors.WrapError(err, ferrors.CategoryAlreadyExists, "name already in use").Build()
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ferrors.WrapError(err, ferrors.CategoryNotFound, "referenced row does not exist").Build()
	default:
		return ferrors.WrapError(err, ferrors.CategoryStorage, "database operation failed").Build()
	}
}

// requireAffected converts a zero-row mutation into a not-found error.
func requireAffected(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ferrors.NotFoundError(what + " does not exist").
			WithContext("id", id).Build()
	}
	return nil
}

// exists reports whether a row with the given id is present in table.
func exists(ctx context.Context, tx *sql.Tx, table string, id int64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
