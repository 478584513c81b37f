package store

import (
	"context"
	"database/sql"
	"strings"

	ferrors "git.home.luguber.info/inful/solia/internal/foundation/errors"
)

const profileColumns = `id, name, color, archived, target_seconds,
	company, contact_person, email, phone, address, notes`

// CreateProfile inserts a new profile. Names must be unique and non-empty.
func (s *Store) CreateProfile(ctx context.Context, p Profile) (*Profile, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, ferrors.ValidationError("profile name must not be empty").Build()
	}
	var created Profile
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO profiles (name, color, archived, target_seconds,
				company, contact_person, email, phone, address, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Name, p.Color, p.Archived, p.TargetSeconds,
			p.Company, p.ContactPerson, p.Email, p.Phone, p.Address, p.Notes,
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		created = p
		created.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetProfile returns one profile by id.
func (s *Store) GetProfile(ctx context.Context, profileID int64) (*Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE id = ?", profileID))
	if err == sql.ErrNoRows {
		return nil, ferrors.NotFoundError("profile does not exist").
			WithContext("profile_id", profileID).Build()
	}
	if err != nil {
		return nil, classify(err)
	}
	return p, nil
}

// ListProfiles returns profiles ordered by name. Archived profiles are
// included only on request.
func (s *Store) ListProfiles(ctx context.Context, includeArchived bool) ([]Profile, error) {
	query := "SELECT " + profileColumns + " FROM profiles"
	if !includeArchived {
		query += " WHERE archived = 0"
	}
	query += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// RenameProfile changes a profile's name, keeping the uniqueness rule.
func (s *Store) RenameProfile(ctx context.Context, profileID int64, name string) error {
	if strings.TrimSpace(name) == "" {
		return ferrors.ValidationError("profile name must not be empty").Build()
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE profiles SET name = ? WHERE id = ?", name, profileID)
		if err != nil {
			return err
		}
		return requireAffected(res, "profile", profileID)
	})
}

// SetProfileArchived flips the archived flag. Archiving is the default UI
// alternative to deletion.
func (s *Store) SetProfileArchived(ctx context.Context, profileID int64, archived bool) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE profiles SET archived = ? WHERE id = ?", archived, profileID)
		if err != nil {
			return err
		}
		return requireAffected(res, "profile", profileID)
	})
}

// SetProfileTargetSeconds sets or clears the time goal.
func (s *Store) SetProfileTargetSeconds(ctx context.Context, profileID int64, target *int64) error {
	if target != nil && *target < 0 {
		return ferrors.ValidationError("target seconds must not be negative").Build()
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE profiles SET target_seconds = ? WHERE id = ?", target, profileID)
		if err != nil {
			return err
		}
		return requireAffected(res, "profile", profileID)
	})
}

// UpdateProfileContacts replaces the contact metadata block.
func (s *Store) UpdateProfileContacts(ctx context.Context, profileID int64, company, contactPerson, email, phone, address string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE profiles SET company = ?, contact_person = ?, email = ?,
				phone = ?, address = ? WHERE id = ?`,
			company, contactPerson, email, phone, address, profileID)
		if err != nil {
			return err
		}
		return requireAffected(res, "profile", profileID)
	})
}

// SetProfileNotes replaces the free-form notes.
func (s *Store) SetProfileNotes(ctx context.Context, profileID int64, notes string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE profiles SET notes = ? WHERE id = ?", notes, profileID)
		if err != nil {
			return err
		}
		return requireAffected(res, "profile", profileID)
	})
}

// DeleteProfile removes a profile. Its projects, time entries, attached
// services and todos cascade away in the same transaction.
func (s *Store) DeleteProfile(ctx context.Context, profileID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM profiles WHERE id = ?", profileID)
		if err != nil {
			return err
		}
		return requireAffected(res, "profile", profileID)
	})
}

func scanProfile(row rowScanner) (*Profile, error) {
	var p Profile
	var target sql.NullInt64
	err := row.Scan(&p.ID, &p.Name, &p.Color, &p.Archived, &target,
		&p.Company, &p.ContactPerson, &p.Email, &p.Phone, &p.Address, &p.Notes)
	if err != nil {
		return nil, err
	}
	if target.Valid {
		p.TargetSeconds = &target.Int64
	}
	return &p, nil
}
