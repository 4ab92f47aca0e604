package postgres

import (
	"context"
	"database/sql"

	"pet-tag/internal/domain/contacts"
	"pet-tag/internal/domain/pets"
)

// RegistrationWriter escribe la mascota y sus contactos en una sola transacción.
type RegistrationWriter struct {
	db *sql.DB
}

func NewRegistrationWriter(db *sql.DB) *RegistrationWriter {
	return &RegistrationWriter{db: db}
}

func (w *RegistrationWriter) CreatePetWithContacts(ctx context.Context, p pets.Pet, cs []contacts.Contact) error {
	return withTx(ctx, w.db, func(tx *sql.Tx) error {
		if err := insertPet(ctx, tx, p); err != nil {
			return err
		}
		return insertContacts(ctx, tx, cs)
	})
}
