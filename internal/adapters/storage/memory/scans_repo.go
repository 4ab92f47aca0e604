package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-tag/internal/domain/scans"
)

type scanRepo struct {
	mu    sync.RWMutex
	items []scans.Scan
}

func NewScanRepo() scans.Repository {
	return &scanRepo{}
}

func (r *scanRepo) Create(ctx context.Context, s scans.Scan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		return errors.New("scan id required")
	}
	r.items = append(r.items, s)
	return nil
}

func (r *scanRepo) SetLocation(ctx context.Context, petID, scanID string, lat, lng float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		s := &r.items[i]
		if s.ID != scanID || s.PetID != petID {
			continue
		}
		if s.HasLocation() {
			return scans.ErrLocationSet
		}
		s.Lat, s.Lng = &lat, &lng
		return nil
	}
	return scans.ErrScanNotFound
}

func (r *scanRepo) ListByPets(ctx context.Context, petIDs []string, limit int) ([]scans.Scan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := make(map[string]struct{}, len(petIDs))
	for _, id := range petIDs {
		want[id] = struct{}{}
	}

	out := make([]scans.Scan, 0)
	for _, s := range r.items {
		if _, ok := want[s.PetID]; ok {
			out = append(out, s)
		}
	}

	// Más nuevos primero
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *scanRepo) CountByPets(ctx context.Context, petIDs []string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int, len(petIDs))
	want := make(map[string]struct{}, len(petIDs))
	for _, id := range petIDs {
		want[id] = struct{}{}
	}
	for _, s := range r.items {
		if _, ok := want[s.PetID]; ok {
			out[s.PetID]++
		}
	}
	return out, nil
}
