package store

import (
	"context"
	"database/sql"
	"strings"

	ferrors "git.home.luguber.info/inful/solia/internal/foundation/errors"
)

// CreateService adds a catalog entry. Names are unique; rates are integer
// cents and must not be negative.
func (s *Store) CreateService(ctx context.Context, svc Service) (*Service, error) {
	if strings.TrimSpace(svc.Name) == "" {
		return nil, ferrors.ValidationError("service name must not be empty").Build()
	}
	if svc.RateCents < 0 {
		return nil, ferrors.ValidationError("service rate must not be negative").Build()
	}
	var created Service
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO services (name, rate_cents, estimated_seconds) VALUES (?, ?, ?)",
			svc.Name, svc.RateCents, svc.EstimatedSeconds)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		created = svc
		created.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetService returns one catalog entry by id.
func (s *Store) GetService(ctx context.Context, serviceID int64) (*Service, error) {
	svc, err := scanService(s.db.QueryRowContext(ctx,
		"SELECT id, name, rate_cents, estimated_seconds FROM services WHERE id = ?", serviceID))
	if err == sql.ErrNoRows {
		return nil, ferrors.NotFoundError("service does not exist").
			WithContext("service_id", serviceID).Build()
	}
	if err != nil {
		return nil, classify(err)
	}
	return svc, nil
}

// ListServices returns the whole catalog ordered by name.
func (s *Store) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, rate_cents, estimated_seconds FROM services ORDER BY name")
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, *svc)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// UpdateService replaces name, rate and estimate of a catalog entry.
func (s *Store) UpdateService(ctx context.Context, svc Service) error {
	if strings.TrimSpace(svc.Name) == "" {
		return ferrors.ValidationError("service name must not be empty").Build()
	}
	if svc.RateCents < 0 {
		return ferrors.ValidationError("service rate must not be negative").Build()
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE services SET name = ?, rate_cents = ?, estimated_seconds = ? WHERE id = ?",
			svc.Name, svc.RateCents, svc.EstimatedSeconds, svc.ID)
		if err != nil {
			return err
		}
		return requireAffected(res, "service", svc.ID)
	})
}

// DeleteService removes a catalog entry. Projects referencing it keep their
// rows with service_id nulled; attached profile services cascade away.
func (s *Store) DeleteService(ctx context.Context, serviceID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM services WHERE id = ?", serviceID)
		if err != nil {
			return err
		}
		return requireAffected(res, "service", serviceID)
	})
}

// AttachService creates a profile service instance.
func (s *Store) AttachService(ctx context.Context, profileID, serviceID int64, notes string) (*ProfileService, error) {
	var created ProfileService
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, check := range []struct {
			table string
			id    int64
			what  string
		}{
			{"profiles", profileID, "profile"},
			{"services", serviceID, "service"},
		} {
			ok, err := exists(ctx, tx, check.table, check.id)
			if err != nil {
				return err
			}
			if !ok {
				return ferrors.NotFoundError(check.what + " does not exist").
					WithContext("id", check.id).Build()
			}
		}
		now := s.now().Unix()
		res, err := tx.ExecContext(ctx,
			"INSERT INTO profile_services (profile_id, service_id, notes, created_ts) VALUES (?, ?, ?, ?)",
			profileID, serviceID, notes, now)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		created = ProfileService{ID: id, ProfileID: profileID, ServiceID: serviceID, Notes: notes, CreatedTS: now}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListProfileServices returns a profile's attached services with catalog
// detail, newest first.
func (s *Store) ListProfileServices(ctx context.Context, profileID int64) ([]ProfileServiceDetail, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ps.id, ps.profile_id, ps.service_id, ps.notes, ps.created_ts,
			s.name, s.rate_cents, s.estimated_seconds
		FROM profile_services ps
		JOIN services s ON s.id = ps.service_id
		WHERE ps.profile_id = ?
		ORDER BY ps.created_ts DESC, ps.id DESC`, profileID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []ProfileServiceDetail
	for rows.Next() {
		var d ProfileServiceDetail
		var estimate sql.NullInt64
		if err := rows.Scan(&d.ID, &d.ProfileID, &d.ServiceID, &d.Notes, &d.CreatedTS,
			&d.ServiceName, &d.RateCents, &estimate); err != nil {
			return nil, classify(err)
		}
		if estimate.Valid {
			d.EstimatedSeconds = &estimate.Int64
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// GetProfileService returns one attached service with catalog detail.
func (s *Store) GetProfileService(ctx context.Context, profileServiceID int64) (*ProfileServiceDetail, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT ps.id, ps.profile_id, ps.service_id, ps.notes, ps.created_ts,
			s.name, s.rate_cents, s.estimated_seconds
		FROM profile_services ps
		JOIN services s ON s.id = ps.service_id
		WHERE ps.id = ?`, profileServiceID)

	var d ProfileServiceDetail
	var estimate sql.NullInt64
	err := row.Scan(&d.ID, &d.ProfileID, &d.ServiceID, &d.Notes, &d.CreatedTS,
		&d.ServiceName, &d.RateCents, &estimate)
	if err == sql.ErrNoRows {
		return nil, ferrors.NotFoundError("profile service not found").
			WithContext("profile_service_id", profileServiceID).Build()
	}
	if err != nil {
		return nil, classify(err)
	}
	if estimate.Valid {
		d.EstimatedSeconds = &estimate.Int64
	}
	return &d, nil
}

// UpdateProfileServiceNotes replaces the notes of one attached service.
func (s *Store) UpdateProfileServiceNotes(ctx context.Context, profileServiceID int64, notes string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE profile_services SET notes = ? WHERE id = ?", notes, profileServiceID)
		if err != nil {
			return err
		}
		return requireAffected(res, "profile service", profileServiceID)
	})
}

// DetachService removes an attached service; its todos cascade away.
func (s *Store) DetachService(ctx context.Context, profileServiceID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM profile_services WHERE id = ?", profileServiceID)
		if err != nil {
			return err
		}
		return requireAffected(res, "profile service", profileServiceID)
	})
}

func scanService(row rowScanner) (*Service, error) {
	var svc Service
	var estimate sql.NullInt64
	if err := row.Scan(&svc.ID, &svc.Name, &svc.RateCents, &estimate); err != nil {
		return nil, err
	}
	if estimate.Valid {
		svc.EstimatedSeconds = &estimate.Int64
	}
	return &svc, nil
}
