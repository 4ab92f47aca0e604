package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-tag/internal/domain/pets"
)

const petColumns = `
	id, owner_user_id,
	name, nickname, city, province, region, gender,
	birth_date, microchip, microchip_code,
	likes, fears, health_notes,
	image_url, image_url_2, image_url_3,
	nfc_connected, tag_id, slug,
	created_at, updated_at`

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	return insertPet(ctx, r.db, p)
}

func insertPet(ctx context.Context, q querier, p pets.Pet) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
	`,
		p.ID,
		p.OwnerUserID,
		p.Name,
		p.Nickname,
		p.City,
		p.Province,
		p.Region,
		string(p.Gender),
		toNullDate(p.BirthDate),
		p.Microchip,
		p.MicrochipCode,
		p.Likes,
		p.Fears,
		p.HealthNotes,
		p.PhotoURLs[0],
		p.PhotoURLs[1],
		p.PhotoURLs[2],
		p.NFCConnected,
		p.TagID,
		p.Slug,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if isUniqueViolation(err, "pets_slug_key") {
		return pets.ErrSlugTaken
	}
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	if !isUUID(p.ID) {
		return pets.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			nickname = $3,
			city = $4,
			province = $5,
			region = $6,
			gender = $7,
			birth_date = $8,
			microchip = $9,
			microchip_code = $10,
			likes = $11,
			fears = $12,
			health_notes = $13,
			image_url = $14,
			image_url_2 = $15,
			image_url_3 = $16,
			nfc_connected = $17,
			tag_id = $18,
			updated_at = $19
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Nickname,
		p.City,
		p.Province,
		p.Region,
		string(p.Gender),
		toNullDate(p.BirthDate),
		p.Microchip,
		p.MicrochipCode,
		p.Likes,
		p.Fears,
		p.HealthNotes,
		p.PhotoURLs[0],
		p.PhotoURLs[1],
		p.PhotoURLs[2],
		p.NFCConnected,
		p.TagID,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if !isUUID(id) {
		return pets.Pet{}, pets.ErrNotFound
	}
	return scanPet(r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id))
}

func (r *PetsRepo) GetBySlug(ctx context.Context, slug string) (pets.Pet, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return pets.Pet{}, pets.ErrNotFound
	}
	return scanPet(r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE slug = $1`, slug))
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}
	if !isUUID(ownerUserID) {
		return []pets.Pet{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var p pets.Pet
	var gender string
	var bd sql.NullTime
	if err := row.Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.Name,
		&p.Nickname,
		&p.City,
		&p.Province,
		&p.Region,
		&gender,
		&bd,
		&p.Microchip,
		&p.MicrochipCode,
		&p.Likes,
		&p.Fears,
		&p.HealthNotes,
		&p.PhotoURLs[0],
		&p.PhotoURLs[1],
		&p.PhotoURLs[2],
		&p.NFCConnected,
		&p.TagID,
		&p.Slug,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}

	p.Gender = pets.Gender(gender)
	if bd.Valid {
		// ojo: birth_date es date, pgx lo mapea a time.Time midnight UTC
		t := bd.Time
		p.BirthDate = &t
	}
	return p, nil
}
