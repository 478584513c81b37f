package store

import (
	"context"
	"database/sql"
	"strings"

	ferrors "git.home.luguber.info/inful/solia/internal/foundation/errors"
)

const entryColumns = "id, profile_id, project_id, start_ts, end_ts, note, tags"

// OpenEntry starts tracking time against a profile. It fails with a conflict
// error if any entry is already open anywhere in the store, and with a
// not-found error for an unknown profile or project. The new entry starts at
// the store clock's current time.
func (s *Store) OpenEntry(ctx context.Context, profileID int64, projectID *int64, note, tags string) (*TimeEntry, error) {
	var entry *TimeEntry
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, "profiles", profileID)
		if err != nil {
			return err
		}
		if !ok {
			return ferrors.NotFoundError("profile does not exist").
				WithContext("profile_id", profileID).Build()
		}
		if projectID != nil {
			ok, err := exists(ctx, tx, "projects", *projectID)
			if err != nil {
				return err
			}
			if !ok {
				return ferrors.NotFoundError("project does not exist").
					WithContext("project_id", *projectID).Build()
			}
		}

		var openID int64
		err = tx.QueryRowContext(ctx, "SELECT id FROM time_entries WHERE end_ts IS NULL").Scan(&openID)
		switch {
		case err == nil:
			return ferrors.ConflictError("an open entry already exists").
				WithContext("open_entry_id", openID).Build()
		case err != sql.ErrNoRows:
			return err
		}

		start := s.now().Unix()
		res, err := tx.ExecContext(ctx,
			"INSERT INTO time_entries (profile_id, project_id, start_ts, note, tags) VALUES (?, ?, ?, ?, ?)",
			profileID, projectID, start, note, tags,
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		entry = &TimeEntry{
			ID:        id,
			ProfileID: profileID,
			ProjectID: projectID,
			StartTS:   start,
			Note:      note,
			Tags:      tags,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// CloseEntry sets end_ts on an open entry. It fails with not-found for an
// unknown id, invalid-state if the entry is already closed, and validation
// if endTS precedes the entry's start.
func (s *Store) CloseEntry(ctx context.Context, entryID, endTS int64) (*TimeEntry, error) {
	var entry *TimeEntry
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		e, err := scanEntry(tx.QueryRowContext(ctx,
			"SELECT "+entryColumns+" FROM time_entries WHERE id = ?", entryID))
		if err == sql.ErrNoRows {
			return ferrors.NotFoundError("entry does not exist").
				WithContext("entry_id", entryID).Build()
		}
		if err != nil {
			return err
		}
		if e.EndTS != nil {
			return ferrors.InvalidStateError("entry is already closed").
				WithContext("entry_id", entryID).Build()
		}
		if endTS < e.StartTS {
			return ferrors.ValidationError("end timestamp precedes start").
				WithContext("start_ts", e.StartTS).
				WithContext("end_ts", endTS).Build()
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE time_entries SET end_ts = ? WHERE id = ?", endTS, entryID); err != nil {
			return err
		}
		e.EndTS = &endTS
		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// FindOpenEntry returns the single open entry, or nil if the timer is idle.
// Finding more than one open row means the invariant was violated outside
// this process and is reported as a conflict.
func (s *Store) FindOpenEntry(ctx context.Context) (*TimeEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM time_entries WHERE end_ts IS NULL ORDER BY start_ts DESC")
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var found []*TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, classify(err)
		}
		found = append(found, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		return nil, ferrors.ConflictError("multiple open entries in store").
			WithContext("count", len(found)).Build()
	}
}

// ListEntries returns entries matching the filter, newest first, joined with
// profile and project names.
func (s *Store) ListEntries(ctx context.Context, filter EntryFilter) ([]EntryRow, error) {
	var clauses []string
	var args []any
	if filter.ProfileID != nil {
		clauses = append(clauses, "e.profile_id = ?")
		args = append(args, *filter.ProfileID)
	}
	if filter.ProjectID != nil {
		clauses = append(clauses, "e.project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.From != nil {
		clauses = append(clauses, "e.start_ts >= ?")
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		clauses = append(clauses, "e.start_ts <= ?")
		args = append(args, *filter.To)
	}
	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}

	query := `SELECT e.id, e.profile_id, e.project_id, e.start_ts, e.end_ts, e.note, e.tags,
		p.name, COALESCE(pr.name, '')
		FROM time_entries e
		JOIN profiles p ON p.id = e.profile_id
		LEFT JOIN projects pr ON pr.id = e.project_id
		` + where + ` ORDER BY e.start_ts DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []EntryRow
	for rows.Next() {
		var r EntryRow
		var projectID, endTS sql.NullInt64
		if err := rows.Scan(&r.ID, &r.ProfileID, &projectID, &r.StartTS, &endTS,
			&r.Note, &r.Tags, &r.ProfileName, &r.ProjectName); err != nil {
			return nil, classify(err)
		}
		if projectID.Valid {
			r.ProjectID = &projectID.Int64
		}
		if endTS.Valid {
			r.EndTS = &endTS.Int64
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// GetEntry returns one entry by id.
func (s *Store) GetEntry(ctx context.Context, entryID int64) (*TimeEntry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM time_entries WHERE id = ?", entryID))
	if err == sql.ErrNoRows {
		return nil, ferrors.NotFoundError("entry does not exist").
			WithContext("entry_id", entryID).Build()
	}
	if err != nil {
		return nil, classify(err)
	}
	return e, nil
}

// UpdateEntry replaces an entry's note and tags.
func (s *Store) UpdateEntry(ctx context.Context, entryID int64, note, tags string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE time_entries SET note = ?, tags = ? WHERE id = ?", note, tags, entryID)
		if err != nil {
			return err
		}
		return requireAffected(res, "entry", entryID)
	})
}

// DeleteEntry removes a single entry.
func (s *Store) DeleteEntry(ctx context.Context, entryID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM time_entries WHERE id = ?", entryID)
		if err != nil {
			return err
		}
		return requireAffected(res, "entry", entryID)
	})
}

// DeleteEntries removes several entries in one transaction. An empty id list
// is a no-op.
func (s *Store) DeleteEntries(ctx context.Context, entryIDs []int64) error {
	if len(entryIDs) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(entryIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(entryIDs))
	for i, id := range entryIDs {
		args[i] = id
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"DELETE FROM time_entries WHERE id IN ("+placeholders+")", args...)
		return err
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*TimeEntry, error) {
	var e TimeEntry
	var projectID, endTS sql.NullInt64
	err := row.Scan(&e.ID, &e.ProfileID, &projectID, &e.StartTS, &endTS, &e.Note, &e.Tags)
	if err != nil {
		return nil, err
	}
	if projectID.Valid {
		e.ProjectID = &projectID.Int64
	}
	if endTS.Valid {
		e.EndTS = &endTS.Int64
	}
	return &e, nil
}
