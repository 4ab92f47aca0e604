package contacts

import "context"

type Repository interface {
	CreateMany(ctx context.Context, cs []Contact) error
	ListByPet(ctx context.Context, petID string) ([]Contact, error)
	ListByPets(ctx context.Context, petIDs []string) ([]Contact, error)

	// ReplaceForPets borra y reinserta los contactos de cada mascota en una
	// sola transacción.
	ReplaceForPets(ctx context.Context, byPet map[string][]Contact) error
}
