package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pet-tag/internal/domain/contacts"
	"pet-tag/internal/domain/pets"
	"pet-tag/internal/domain/scans"
	"pet-tag/internal/platform/logger"
)

var ErrNotFound = errors.New("profile not found")

type PetLookup interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
	GetBySlug(ctx context.Context, slug string) (pets.Pet, error)
}

type ContactLister interface {
	ListByPet(ctx context.Context, petID string) ([]contacts.Contact, error)
}

type ScanRecorder interface {
	Record(ctx context.Context, petID string, in scans.RecordInput) (scans.Scan, error)
}

type Service struct {
	pets     PetLookup
	contacts ContactLister
	scans    ScanRecorder
	log      logger.Logger
}

func NewService(p PetLookup, c ContactLister, s ScanRecorder, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{pets: p, contacts: c, scans: s, log: log.With(map[string]any{"component": "profile"})}
}

func (s *Service) ByID(ctx context.Context, petID string) (View, error) {
	if strings.TrimSpace(petID) == "" {
		return View{}, ErrNotFound
	}
	p, err := s.pets.GetByID(ctx, petID)
	return s.build(ctx, p, err)
}

func (s *Service) BySlug(ctx context.Context, slug string) (View, error) {
	if strings.TrimSpace(slug) == "" {
		return View{}, ErrNotFound
	}
	p, err := s.pets.GetBySlug(ctx, slug)
	return s.build(ctx, p, err)
}

func (s *Service) build(ctx context.Context, p pets.Pet, err error) (View, error) {
	if errors.Is(err, pets.ErrNotFound) {
		return View{}, ErrNotFound
	}
	if err != nil {
		return View{}, err
	}
	cs, err := s.contacts.ListByPet(ctx, p.ID)
	if err != nil {
		return View{}, fmt.Errorf("list contacts: %w", err)
	}
	return newView(p, cs), nil
}

// LogView registra el scan de una visita y devuelve su id, que la página usa
// para completar la ubicación. Best-effort: un error solo se loguea y devuelve "".
func (s *Service) LogView(ctx context.Context, petID, userAgent string) string {
	if s.scans == nil {
		return ""
	}
	sc, err := s.scans.Record(context.WithoutCancel(ctx), petID, scans.RecordInput{UserAgent: userAgent})
	if err != nil {
		s.log.Warn("scan log failed", map[string]any{"pet_id": petID, "err": err})
		return ""
	}
	return sc.ID
}
