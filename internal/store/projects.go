package store

import (
	"context"
	"database/sql"
	"strings"

	ferrors "git.home.luguber.info/inful/solia/internal/foundation/errors"
)

const projectColumns = `id, profile_id, name, estimated_seconds, service_id,
	deadline_ts, start_ts, invoice_sent, invoice_paid, notes`

// CreateProject inserts a project under a profile.
func (s *Store) CreateProject(ctx context.Context, p Project) (*Project, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, ferrors.ValidationError("project name must not be empty").Build()
	}
	var created Project
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, "profiles", p.ProfileID)
		if err != nil {
			return err
		}
		if !ok {
			return ferrors.NotFoundError("profile does not exist").
				WithContext("profile_id", p.ProfileID).Build()
		}
		if p.ServiceID != nil {
			ok, err := exists(ctx, tx, "services", *p.ServiceID)
			if err != nil {
				return err
			}
			if !ok {
				return ferrors.NotFoundError("service does not exist").
					WithContext("service_id", *p.ServiceID).Build()
			}
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO projects (profile_id, name, estimated_seconds, service_id,
				deadline_ts, start_ts, invoice_sent, invoice_paid, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ProfileID, p.Name, p.EstimatedSeconds, p.ServiceID,
			p.DeadlineTS, p.StartTS, p.InvoiceSent, p.InvoicePaid, p.Notes)
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

// GetProject returns one project by id.
func (s *Store) GetProject(ctx context.Context, projectID int64) (*Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id = ?", projectID))
	if err == sql.ErrNoRows {
		return nil, ferrors.NotFoundError("project does not exist").
			WithContext("project_id", projectID).Build()
	}
	if err != nil {
		return nil, classify(err)
	}
	return p, nil
}

// ListProjects returns a profile's projects ordered by name.
func (s *Store) ListProjects(ctx context.Context, profileID int64) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE profile_id = ? ORDER BY name", profileID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		p, err := scanProject(rows)
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

// UpdateProject replaces the mutable fields of a project.
func (s *Store) UpdateProject(ctx context.Context, p Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return ferrors.ValidationError("project name must not be empty").Build()
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE projects SET name = ?, estimated_seconds = ?, service_id = ?,
				deadline_ts = ?, start_ts = ?, notes = ? WHERE id = ?`,
			p.Name, p.EstimatedSeconds, p.ServiceID,
			p.DeadlineTS, p.StartTS, p.Notes, p.ID)
		if err != nil {
			return err
		}
		return requireAffected(res, "project", p.ID)
	})
}

// SetProjectInvoiceFlags updates the invoice lifecycle flags.
func (s *Store) SetProjectInvoiceFlags(ctx context.Context, projectID int64, sent, paid bool) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE projects SET invoice_sent = ?, invoice_paid = ? WHERE id = ?",
			sent, paid, projectID)
		if err != nil {
			return err
		}
		return requireAffected(res, "project", projectID)
	})
}

// DeleteProject removes a project. Time entries referencing it survive with
// project_id nulled; project todos cascade away.
func (s *Store) DeleteProject(ctx context.Context, projectID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", projectID)
		if err != nil {
			return err
		}
		return requireAffected(res, "project", projectID)
	})
}

func scanProject(row rowScanner) (*Project, error) {
	var p Project
	var estimate, serviceID, deadline, start sql.NullInt64
	err := row.Scan(&p.ID, &p.ProfileID, &p.Name, &estimate, &serviceID,
		&deadline, &start, &p.InvoiceSent, &p.InvoicePaid, &p.Notes)
	if err != nil {
		return nil, err
	}
	if estimate.Valid {
		p.EstimatedSeconds = &estimate.Int64
	}
	if serviceID.Valid {
		p.ServiceID = &serviceID.Int64
	}
	if deadline.Valid {
		p.DeadlineTS = &deadline.Int64
	}
	if start.Valid {
		p.StartTS = &start.Int64
	}
	return &p, nil
}
