package postgres

import (
	"context"
	"database/sql"

	"pet-tag/internal/domain/scans"
)

type ScansRepo struct {
	db *sql.DB
}

func NewScansRepo(db *sql.DB) *ScansRepo {
	return &ScansRepo{db: db}
}

func (r *ScansRepo) Create(ctx context.Context, s scans.Scan) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scans (id, pet_id, created_at, lat, lng, user_agent)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, s.ID, s.PetID, s.CreatedAt, nullFloat(s.Lat), nullFloat(s.Lng), s.UserAgent)
	return err
}

func (r *ScansRepo) SetLocation(ctx context.Context, petID, scanID string, lat, lng float64) error {
	if !isUUID(petID) || !isUUID(scanID) {
		return scans.ErrScanNotFound
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE scans SET lat = $3, lng = $4
		WHERE id = $1 AND pet_id = $2 AND lat IS NULL
	`, scanID, petID, lat, lng)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 1 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM scans WHERE id = $1 AND pet_id = $2)
	`, scanID, petID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return scans.ErrLocationSet
	}
	return scans.ErrScanNotFound
}

func (r *ScansRepo) ListByPets(ctx context.Context, petIDs []string, limit int) ([]scans.Scan, error) {
	if len(petIDs) == 0 {
		return []scans.Scan{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, created_at, lat, lng, user_agent
		FROM scans
		WHERE pet_id::text = ANY($1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, petIDs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]scans.Scan, 0)
	for rows.Next() {
		var s scans.Scan
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&s.ID, &s.PetID, &s.CreatedAt, &lat, &lng, &s.UserAgent); err != nil {
			return nil, err
		}
		s.Lat, s.Lng = floatPtr(lat), floatPtr(lng)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ScansRepo) CountByPets(ctx context.Context, petIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(petIDs))
	if len(petIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT pet_id, COUNT(*)
		FROM scans
		WHERE pet_id::text = ANY($1)
		GROUP BY pet_id
	`, petIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var petID string
		var n int
		if err := rows.Scan(&petID, &n); err != nil {
			return nil, err
		}
		out[petID] = n
	}
	return out, rows.Err()
}
