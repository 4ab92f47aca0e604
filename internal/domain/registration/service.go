package registration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-tag/internal/domain/contacts"
	"pet-tag/internal/domain/pets"
	"pet-tag/internal/platform/logger"
	"pet-tag/internal/ports/kv"
	"pet-tag/internal/ports/objects"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrBadState     = errors.New("invalid wizard step")
)

const (
	DraftTTL  = 24 * time.Hour
	MaxPhotos = pets.PhotoSlots

	draftPrefix  = "draft:"
	slugAttempts = 5
)

type Service struct {
	drafts   kv.Store
	pets     *pets.Service
	contacts *contacts.Service
	writer   Writer
	photos   objects.Store
	log      logger.Logger
	now      func() time.Time
}

type Deps struct {
	Drafts   kv.Store
	Pets     *pets.Service
	Contacts *contacts.Service
	Writer   Writer
	Photos   objects.Store
	Log      logger.Logger
}

func NewService(d Deps) *Service {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		drafts:   d.Drafts,
		pets:     d.Pets,
		contacts: d.Contacts,
		writer:   d.Writer,
		photos:   d.Photos,
		log:      log.With(map[string]any{"component": "registration"}),
		now:      time.Now,
	}
}

// GetDraft devuelve el borrador guardado o uno nuevo en el paso 0.
func (s *Service) GetDraft(ctx context.Context, userID string) (Draft, error) {
	if strings.TrimSpace(userID) == "" {
		return Draft{}, ErrInvalidInput
	}
	var d Draft
	ok, err := s.drafts.Get(ctx, draftPrefix+userID, &d)
	if err != nil {
		return Draft{}, fmt.Errorf("load draft: %w", err)
	}
	if !ok {
		return newDraft(), nil
	}
	return d, nil
}

func (s *Service) UpdateDraft(ctx context.Context, userID string, in DraftUpdate) (Draft, error) {
	d, err := s.GetDraft(ctx, userID)
	if err != nil {
		return Draft{}, err
	}
	if in.Owners != nil {
		d.Owners = append([]contacts.Input(nil), (*in.Owners)...)
	}
	if in.Pet != nil {
		d.Pet = *in.Pet
	}
	if in.PhotoCount != nil {
		n := *in.PhotoCount
		if n < 0 || n > MaxPhotos {
			return Draft{}, fmt.Errorf("%w: photo_count must be 0..%d", ErrInvalidInput, MaxPhotos)
		}
		d.PhotoCount = n
	}
	return d, s.save(ctx, userID, d)
}

// Next avanza un paso; desde summary no hay siguiente (se hace submit).
func (s *Service) Next(ctx context.Context, userID string) (Draft, error) {
	return s.move(ctx, userID, +1)
}

func (s *Service) Back(ctx context.Context, userID string) (Draft, error) {
	return s.move(ctx, userID, -1)
}

func (s *Service) move(ctx context.Context, userID string, delta int) (Draft, error) {
	d, err := s.GetDraft(ctx, userID)
	if err != nil {
		return Draft{}, err
	}
	next := d.Step + Step(delta)
	if next < StepIntro || next > StepSummary {
		return Draft{}, fmt.Errorf("%w: cannot move from %s", ErrBadState, d.Step)
	}
	d.Step = next
	return d, s.save(ctx, userID, d)
}

func (s *Service) DiscardDraft(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrInvalidInput
	}
	return s.drafts.Delete(ctx, draftPrefix+userID)
}

func (s *Service) save(ctx context.Context, userID string, d Draft) error {
	d.UpdatedAt = s.now()
	if err := s.drafts.Set(ctx, draftPrefix+userID, d, DraftTTL); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Result es lo que queda creado después del submit.
type Result struct {
	Pet           pets.Pet
	Contacts      []contacts.Contact
	SkippedPhotos int
}

// Submit sube las fotos (una por una, las que fallan se saltean), después
// escribe mascota + contactos en una transacción. Si la escritura falla se
// borran las fotos subidas. Con éxito se borra el borrador.
func (s *Service) Submit(ctx context.Context, userID string, sub Submission) (Result, error) {
	if strings.TrimSpace(userID) == "" {
		return Result{}, ErrInvalidInput
	}
	if len(sub.Photos) > MaxPhotos {
		return Result{}, fmt.Errorf("%w: at most %d photos", ErrInvalidInput, MaxPhotos)
	}

	in, err := toCreateInput(sub.Pet)
	if err != nil {
		return Result{}, err
	}
	// Validamos antes de subir nada.
	pet, err := s.pets.NewPet(userID, in)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	cs, err := s.contacts.Prepare(pet.ID, sub.Owners)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(cs) == 0 {
		return Result{}, fmt.Errorf("%w: at least one owner with name and phone or email", ErrInvalidInput)
	}

	keys, urls, skipped := s.uploadPhotos(ctx, userID, sub.Photos)
	copy(pet.PhotoURLs[:], urls)

	for i := 0; i < slugAttempts; i++ {
		err = s.writer.CreatePetWithContacts(ctx, pet, cs)
		if !errors.Is(err, pets.ErrSlugTaken) {
			break
		}
		pet = s.pets.RegenerateSlug(pet)
	}
	if err != nil {
		s.cleanupPhotos(ctx, keys)
		return Result{}, fmt.Errorf("save registration: %w", err)
	}

	if err := s.DiscardDraft(ctx, userID); err != nil {
		s.log.Warn("discard draft failed", map[string]any{"user_id": userID, "err": err})
	}

	s.log.Info("pet registered", map[string]any{
		"user_id":        userID,
		"pet_id":         pet.ID,
		"contacts":       len(cs),
		"photos":         len(urls),
		"skipped_photos": skipped,
	})
	return Result{Pet: pet, Contacts: cs, SkippedPhotos: skipped}, nil
}

func (s *Service) uploadPhotos(ctx context.Context, userID string, photos []Photo) (keys, urls []string, skipped int) {
	for i, ph := range photos {
		if s.photos == nil {
			skipped++
			continue
		}
		key, err := objects.PhotoKey(userID, ph.ContentType)
		if err != nil {
			s.log.Warn("photo skipped", map[string]any{"index": i, "err": err})
			skipped++
			continue
		}
		url, err := s.photos.Put(ctx, key, ph.ContentType, bytes.NewReader(ph.Data))
		if err != nil {
			s.log.Warn("photo upload failed", map[string]any{"index": i, "err": err})
			skipped++
			continue
		}
		keys = append(keys, key)
		urls = append(urls, url)
	}
	return keys, urls, skipped
}

func (s *Service) cleanupPhotos(ctx context.Context, keys []string) {
	ctx = context.WithoutCancel(ctx)
	for _, k := range keys {
		if err := s.photos.Delete(ctx, k); err != nil {
			s.log.Warn("photo cleanup failed", map[string]any{"key": k, "err": err})
		}
	}
}

func toCreateInput(f PetFields) (pets.CreateInput, error) {
	in := pets.CreateInput{
		Name:          f.Name,
		Nickname:      f.Nickname,
		City:          f.City,
		Province:      f.Province,
		Region:        f.Region,
		Gender:        f.Gender,
		Microchip:     f.Microchip || strings.TrimSpace(f.MicrochipCode) != "",
		MicrochipCode: f.MicrochipCode,
		Likes:         f.Likes,
		Fears:         f.Fears,
		HealthNotes:   f.HealthNotes,
	}
	if bd := strings.TrimSpace(f.BirthDate); bd != "" {
		t, err := time.Parse("2006-01-02", bd)
		if err != nil {
			return pets.CreateInput{}, fmt.Errorf("%w: birth_date must be YYYY-MM-DD", ErrInvalidInput)
		}
		in.BirthDate = &t
	}
	return in, nil
}
