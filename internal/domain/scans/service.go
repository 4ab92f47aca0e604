package scans

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"pet-tag/internal/domain/pets"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
	ErrScanNotFound = errors.New("scan not found")
	ErrLocationSet  = errors.New("scan location already set")
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// PetDirectory es lo que scans necesita de pets.
type PetDirectory interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error)
}

type Service struct {
	repo Repository
	pets PetDirectory
	now  func() time.Time
}

func NewService(repo Repository, petsSvc PetDirectory) *Service {
	return &Service{
		repo: repo,
		pets: petsSvc,
		now:  time.Now,
	}
}

type RecordInput struct {
	Lat       *float64
	Lng       *float64
	UserAgent string
}

// Record guarda un scan. Coordenadas inválidas o incompletas se descartan
// pero el scan se guarda igual.
func (s *Service) Record(ctx context.Context, petID string, in RecordInput) (Scan, error) {
	if strings.TrimSpace(petID) == "" {
		return Scan{}, ErrInvalidInput
	}
	if _, err := s.pets.GetByID(ctx, petID); err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			return Scan{}, ErrNotFound
		}
		return Scan{}, err
	}

	sc := Scan{
		ID:        uuid.NewString(),
		PetID:     petID,
		CreatedAt: s.now(),
		UserAgent: truncate(strings.TrimSpace(in.UserAgent), MaxUserAgent),
	}
	if validCoords(in.Lat, in.Lng) {
		lat, lng := *in.Lat, *in.Lng
		sc.Lat, sc.Lng = &lat, &lng
	}

	if err := s.repo.Create(ctx, sc); err != nil {
		return Scan{}, err
	}
	return sc, nil
}

// AttachLocation completa las coordenadas de un scan ya registrado por la
// vista del perfil. Se completa una sola vez; el resto del scan no cambia.
func (s *Service) AttachLocation(ctx context.Context, petID, scanID string, lat, lng *float64) error {
	petID, scanID = strings.TrimSpace(petID), strings.TrimSpace(scanID)
	if petID == "" || scanID == "" {
		return ErrInvalidInput
	}
	if !validCoords(lat, lng) {
		return fmt.Errorf("%w: lat and lng required", ErrInvalidInput)
	}
	return s.repo.SetLocation(ctx, petID, scanID, *lat, *lng)
}

// ListForOwner devuelve los scans de todas las mascotas del dueño, más nuevos primero.
func (s *Service) ListForOwner(ctx context.Context, ownerUserID string, limit int) ([]Entry, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return nil, ErrInvalidInput
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		return nil, ErrInvalidInput
	}

	items, err := s.pets.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []Entry{}, nil
	}

	names := make(map[string]string, len(items))
	ids := make([]string, 0, len(items))
	for _, p := range items {
		names[p.ID] = p.Name
		ids = append(ids, p.ID)
	}

	list, err := s.repo.ListByPets(ctx, ids, limit)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(list))
	for _, sc := range list {
		out = append(out, Entry{Scan: sc, PetName: names[sc.PetID]})
	}
	return out, nil
}

// CountByPet: cantidad de scans por mascota (0 si no tiene).
func (s *Service) CountByPet(ctx context.Context, petIDs []string) (map[string]int, error) {
	if len(petIDs) == 0 {
		return map[string]int{}, nil
	}
	return s.repo.CountByPets(ctx, petIDs)
}

func validCoords(lat, lng *float64) bool {
	if lat == nil || lng == nil {
		return false
	}
	return *lat >= -90 && *lat <= 90 && *lng >= -180 && *lng <= 180
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	s = s[:max]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
