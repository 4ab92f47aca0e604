package memory

import (
	"context"

	"pet-tag/internal/domain/contacts"
	"pet-tag/internal/domain/pets"
)

// RegistrationWriter imita la transacción de Postgres tomando ambos locks.
type RegistrationWriter struct {
	pets     *PetRepo
	contacts *ContactRepo
}

func NewRegistrationWriter(p *PetRepo, c *ContactRepo) *RegistrationWriter {
	return &RegistrationWriter{pets: p, contacts: c}
}

func (w *RegistrationWriter) CreatePetWithContacts(ctx context.Context, p pets.Pet, cs []contacts.Contact) error {
	w.pets.mu.Lock()
	defer w.pets.mu.Unlock()
	w.contacts.mu.Lock()
	defer w.contacts.mu.Unlock()

	if err := w.pets.createLocked(p); err != nil {
		return err
	}
	if err := w.contacts.createLocked(cs); err != nil {
		w.pets.deleteLocked(p.ID)
		w.contacts.deletePetLocked(p.ID)
		return err
	}
	return nil
}
