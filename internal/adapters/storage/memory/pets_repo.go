package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-tag/internal/domain/pets"
)

type PetRepo struct {
	mu     sync.RWMutex
	byID   map[string]pets.Pet
	bySlug map[string]string
}

func NewPetRepo() *PetRepo {
	return &PetRepo{
		byID:   make(map[string]pets.Pet),
		bySlug: make(map[string]string),
	}
}

func (r *PetRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(p)
}

func (r *PetRepo) createLocked(p pets.Pet) error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pet already exists")
	}
	if _, taken := r.bySlug[p.Slug]; taken {
		return pets.ErrSlugTaken
	}
	r.byID[p.ID] = p
	r.bySlug[p.Slug] = p.ID
	return nil
}

func (r *PetRepo) deleteLocked(id string) {
	if p, ok := r.byID[id]; ok {
		delete(r.bySlug, p.Slug)
		delete(r.byID, id)
	}
}

func (r *PetRepo) Update(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[p.ID]
	if !exists {
		return pets.ErrNotFound
	}
	// slug inmutable
	p.Slug = cur.Slug
	r.byID[p.ID] = p
	return nil
}

func (r *PetRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *PetRepo) GetBySlug(ctx context.Context, slug string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySlug[slug]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *PetRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
