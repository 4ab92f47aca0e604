package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-tag/internal/domain/contacts"
)

type ContactRepo struct {
	mu    sync.RWMutex
	byPet map[string][]contacts.Contact
}

func NewContactRepo() *ContactRepo {
	return &ContactRepo{byPet: make(map[string][]contacts.Contact)}
}

func (r *ContactRepo) CreateMany(ctx context.Context, cs []contacts.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(cs)
}

func (r *ContactRepo) createLocked(cs []contacts.Contact) error {
	for _, c := range cs {
		if c.ID == "" || c.PetID == "" {
			return errors.New("contact id and pet id required")
		}
	}
	for _, c := range cs {
		r.byPet[c.PetID] = append(r.byPet[c.PetID], c)
	}
	return nil
}

func (r *ContactRepo) ListByPet(ctx context.Context, petID string) ([]contacts.Contact, error) {
	return r.ListByPets(ctx, []string{petID})
}

func (r *ContactRepo) ListByPets(ctx context.Context, petIDs []string) ([]contacts.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contacts.Contact, 0)
	for _, id := range petIDs {
		out = append(out, r.byPet[id]...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ReplaceForPets es atómico bajo el lock: o se reemplazan todas las mascotas o ninguna.
func (r *ContactRepo) ReplaceForPets(ctx context.Context, byPet map[string][]contacts.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for petID, cs := range byPet {
		for _, c := range cs {
			if c.ID == "" || c.PetID != petID {
				return errors.New("contact id required and pet id must match")
			}
		}
	}
	for petID, cs := range byPet {
		r.byPet[petID] = append([]contacts.Contact(nil), cs...)
	}
	return nil
}

func (r *ContactRepo) deletePetLocked(petID string) {
	delete(r.byPet, petID)
}
