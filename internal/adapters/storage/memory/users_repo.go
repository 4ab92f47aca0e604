package memory

import (
	"context"
	"errors"
	"sync"

	"pet-tag/internal/domain/users"
)

type userRepo struct {
	mu   sync.RWMutex
	byID map[string]users.User
}

func NewUserRepo() users.Repository {
	return &userRepo{byID: make(map[string]users.User)}
}

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == "" {
		return errors.New("user id required")
	}
	if _, exists := r.byID[u.ID]; exists {
		return errors.New("user already exists")
	}
	if r.conflictLocked(u) {
		return users.ErrConflict
	}
	r.byID[u.ID] = u
	return nil
}

func (r *userRepo) Update(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[u.ID]; !exists {
		return users.ErrNotFound
	}
	if r.conflictLocked(u) {
		return users.ErrConflict
	}
	r.byID[u.ID] = u
	return nil
}

// conflictLocked replica los unique de email y google_sub (vacío = NULL).
func (r *userRepo) conflictLocked(u users.User) bool {
	for id, other := range r.byID {
		if id == u.ID {
			continue
		}
		if u.Email != "" && other.Email == u.Email {
			return true
		}
		if u.GoogleSub != "" && other.GoogleSub == u.GoogleSub {
			return true
		}
	}
	return false
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	return r.find(func(u users.User) bool { return email != "" && u.Email == email })
}

func (r *userRepo) GetByGoogleSub(ctx context.Context, sub string) (users.User, error) {
	return r.find(func(u users.User) bool { return sub != "" && u.GoogleSub == sub })
}

func (r *userRepo) find(match func(users.User) bool) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if match(u) {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}
