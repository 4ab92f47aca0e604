package postgres

import (
	"context"
	"database/sql"

	"pet-tag/internal/domain/contacts"
)

type ContactsRepo struct {
	db *sql.DB
}

func NewContactsRepo(db *sql.DB) *ContactsRepo {
	return &ContactsRepo{db: db}
}

func (r *ContactsRepo) CreateMany(ctx context.Context, cs []contacts.Contact) error {
	if len(cs) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		return insertContacts(ctx, tx, cs)
	})
}

func insertContacts(ctx context.Context, q querier, cs []contacts.Contact) error {
	for _, c := range cs {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO family_members (id, pet_id, name, phone, email, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, c.ID, c.PetID, c.Name, c.Phone, c.Email, c.CreatedAt, c.UpdatedAt); err != nil {
			return err
		}
	}
	return nil
}

func (r *ContactsRepo) ListByPet(ctx context.Context, petID string) ([]contacts.Contact, error) {
	return r.ListByPets(ctx, []string{petID})
}

func (r *ContactsRepo) ListByPets(ctx context.Context, petIDs []string) ([]contacts.Contact, error) {
	if len(petIDs) == 0 {
		return []contacts.Contact{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, name, phone, email, created_at, updated_at
		FROM family_members
		WHERE pet_id::text = ANY($1)
		ORDER BY created_at ASC, id ASC
	`, petIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]contacts.Contact, 0)
	for rows.Next() {
		var c contacts.Contact
		if err := rows.Scan(&c.ID, &c.PetID, &c.Name, &c.Phone, &c.Email, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ContactsRepo) ReplaceForPets(ctx context.Context, byPet map[string][]contacts.Contact) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for petID, cs := range byPet {
			if _, err := tx.ExecContext(ctx, `DELETE FROM family_members WHERE pet_id = $1`, petID); err != nil {
				return err
			}
			if err := insertContacts(ctx, tx, cs); err != nil {
				return err
			}
		}
		return nil
	})
}
