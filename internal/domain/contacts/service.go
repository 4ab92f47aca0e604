package contacts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-tag/internal/domain/pets"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoPets       = errors.New("owner has no pets")
)

// OwnerPets es lo único que necesitamos del módulo pets.
type OwnerPets interface {
	ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error)
}

type Service struct {
	repo Repository
	pets OwnerPets
	norm Normalizer
	now  func() time.Time
}

func NewService(repo Repository, petsSvc OwnerPets, defaultRegion string) *Service {
	return &Service{
		repo: repo,
		pets: petsSvc,
		norm: NewNormalizer(defaultRegion),
		now:  time.Now,
	}
}

// Prepare normaliza y valida las filas: descarta las vacías, exige nombre y
// (teléfono o email), y deduplica por Key conservando la primera.
func (s *Service) Prepare(petID string, in []Input) ([]Contact, error) {
	now := s.now()
	seen := map[string]struct{}{}
	out := make([]Contact, 0, len(in))

	for i, row := range in {
		if row.Blank() {
			continue
		}
		// +1µs por fila: created_at conserva el orden de carga
		ts := now.Add(time.Duration(len(out)) * time.Microsecond)
		c := Contact{
			ID:        uuid.NewString(),
			PetID:     petID,
			Name:      strings.TrimSpace(row.Name),
			Phone:     s.norm.Phone(row.Phone),
			Email:     s.norm.Email(row.Email),
			CreatedAt: ts,
			UpdatedAt: ts,
		}
		if c.Name == "" {
			return nil, fmt.Errorf("%w: contact %d: name required", ErrInvalidInput, i+1)
		}
		if c.Phone == "" && c.Email == "" {
			return nil, fmt.Errorf("%w: contact %d: phone or email required", ErrInvalidInput, i+1)
		}
		if _, dup := seen[c.Key()]; dup {
			continue
		}
		seen[c.Key()] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

// CreateForPet lo usa el alta de mascota fuera del wizard.
func (s *Service) CreateForPet(ctx context.Context, petID string, in []Input) ([]Contact, error) {
	if strings.TrimSpace(petID) == "" {
		return nil, ErrInvalidInput
	}
	cs, err := s.Prepare(petID, in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateMany(ctx, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

func (s *Service) ListByPet(ctx context.Context, petID string) ([]Contact, error) {
	cs, err := s.repo.ListByPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	sortByCreated(cs)
	return cs, nil
}

// ListForOwner devuelve los contactos únicos de todas las mascotas del dueño.
func (s *Service) ListForOwner(ctx context.Context, ownerUserID string) ([]Contact, error) {
	ids, err := s.petIDs(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Contact{}, nil
	}
	cs, err := s.repo.ListByPets(ctx, ids)
	if err != nil {
		return nil, err
	}
	return Dedup(cs), nil
}

// ReplaceForOwner reemplaza el set de contactos en todas las mascotas del dueño.
func (s *Service) ReplaceForOwner(ctx context.Context, ownerUserID string, in []Input) ([]Contact, error) {
	ids, err := s.petIDs(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrNoPets
	}

	base, err := s.Prepare("", in)
	if err != nil {
		return nil, err
	}

	byPet := make(map[string][]Contact, len(ids))
	for _, petID := range ids {
		rows := make([]Contact, 0, len(base))
		for _, c := range base {
			c.ID = uuid.NewString()
			c.PetID = petID
			rows = append(rows, c)
		}
		byPet[petID] = rows
	}

	if err := s.repo.ReplaceForPets(ctx, byPet); err != nil {
		return nil, err
	}
	return byPet[ids[0]], nil
}

func (s *Service) petIDs(ctx context.Context, ownerUserID string) ([]string, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.pets.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// Dedup deja un contacto por Key. Gana la fila actualizada más recientemente;
// empate: la creada primero, después el id menor.
func Dedup(cs []Contact) []Contact {
	winners := make(map[string]Contact, len(cs))
	for _, c := range cs {
		k := c.Key()
		cur, ok := winners[k]
		if !ok || beats(c, cur) {
			winners[k] = c
		}
	}

	out := make([]Contact, 0, len(winners))
	for _, c := range winners {
		out = append(out, c)
	}
	sortByCreated(out)
	return out
}

func beats(a, b Contact) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func sortByCreated(cs []Contact) {
	sort.SliceStable(cs, func(i, j int) bool {
		if !cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].CreatedAt.Before(cs[j].CreatedAt)
		}
		return cs[i].ID < cs[j].ID
	})
}
