package registration

import (
	"context"

	"pet-tag/internal/domain/contacts"
	"pet-tag/internal/domain/pets"
)

// Writer persiste mascota + contactos de forma atómica.
type Writer interface {
	CreatePetWithContacts(ctx context.Context, p pets.Pet, cs []contacts.Contact) error
}
