package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-tag/internal/ports/auth"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("user not found")
	ErrConflict         = errors.New("email already registered")
	ErrUnauthorized     = errors.New("invalid credentials")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrWeakPassword     = errors.New("password must be at least 8 characters")
)

const MinPasswordLen = 8

// PetChecker decide el ruteo post-login.
type PetChecker interface {
	HasAny(ctx context.Context, ownerUserID string) (bool, error)
}

type Service struct {
	repo Repository
	pets PetChecker
	now  func() time.Time
}

func NewService(repo Repository, pets PetChecker) *Service {
	return &Service{
		repo: repo,
		pets: pets,
		now:  time.Now,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) SignUp(ctx context.Context, email, password, confirm string) (User, error) {
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return User{}, fmt.Errorf("%w: valid email required", ErrInvalidInput)
	}
	if password != confirm {
		return User{}, ErrPasswordMismatch
	}
	if len(password) < MinPasswordLen {
		return User{}, ErrWeakPassword
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// SignIn no distingue "no existe" de "password incorrecta".
func (s *Service) SignIn(ctx context.Context, email, password string) (User, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrUnauthorized
		}
		return User{}, err
	}
	if u.PasswordHash == "" {
		return User{}, ErrUnauthorized
	}
	ok, err := VerifyPassword(password, u.PasswordHash)
	if err != nil || !ok {
		return User{}, ErrUnauthorized
	}
	return u, nil
}

// UpsertExternal busca por subject, después por email (vincula la cuenta),
// y si no existe crea el usuario.
func (s *Service) UpsertExternal(ctx context.Context, id auth.Identity) (User, error) {
	sub := strings.TrimSpace(id.Subject)
	if sub == "" {
		return User{}, ErrInvalidInput
	}

	u, err := s.repo.GetByGoogleSub(ctx, sub)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	email := NormalizeEmail(id.Email)
	now := s.now()

	if email != "" && id.EmailVerified {
		u, err = s.repo.GetByEmail(ctx, email)
		switch {
		case err == nil:
			u.GoogleSub = sub
			u.UpdatedAt = now
			if err := s.repo.Update(ctx, u); err != nil {
				return User{}, err
			}
			return u, nil
		case !errors.Is(err, ErrNotFound):
			return User{}, err
		}
	}

	u = User{
		ID:        uuid.NewString(),
		Email:     email,
		GoogleSub: sub,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	if strings.TrimSpace(id) == "" {
		return User{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// NextPath: intent register => /register; si no, dashboard solo si ya tiene mascotas.
func (s *Service) NextPath(ctx context.Context, userID string, intent Intent) (string, error) {
	if intent == IntentRegister {
		return PathRegister, nil
	}
	has, err := s.pets.HasAny(ctx, userID)
	if err != nil {
		return "", err
	}
	if has {
		return PathDashboard, nil
	}
	return PathRegister, nil
}
