package pets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-tag/internal/ports/objects"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
	ErrForbidden    = errors.New("forbidden")
	ErrSlugTaken    = errors.New("slug already taken")
	ErrNoPhotoStore = errors.New("photo storage not configured")
)

const slugAttempts = 5

type Service struct {
	repo   Repository
	photos objects.Store
	now    func() time.Time
	slug   func(name string) string
}

// NewService: photos puede ser nil si no se suben fotos desde este servicio.
func NewService(repo Repository, photos objects.Store) *Service {
	return &Service{
		repo:   repo,
		photos: photos,
		now:    time.Now,
		slug:   Slug,
	}
}

type CreateInput struct {
	Name          string
	Nickname      string
	City          string
	Province      string
	Region        string
	Gender        string
	BirthDate     *time.Time
	Microchip     bool
	MicrochipCode string
	Likes         string
	Fears         string
	HealthNotes   string
	PhotoURLs     []string
}

// NewPet valida y arma la mascota sin persistirla (la usa registration
// dentro de su propia transacción).
func (s *Service) NewPet(ownerUserID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Pet{}, ErrInvalidInput
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Pet{}, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	g, ok := ParseGender(in.Gender)
	if !ok {
		return Pet{}, fmt.Errorf("%w: gender must be MALE or FEMALE", ErrInvalidInput)
	}
	if len(in.PhotoURLs) > PhotoSlots {
		return Pet{}, fmt.Errorf("%w: at most %d photos", ErrInvalidInput, PhotoSlots)
	}

	now := s.now()
	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        name,
		Nickname:    strings.TrimSpace(in.Nickname),
		City:        strings.TrimSpace(in.City),
		Province:    strings.TrimSpace(in.Province),
		Region:      strings.TrimSpace(in.Region),
		Gender:      g,
		BirthDate:   in.BirthDate,
		Microchip:   in.Microchip,
		Likes:       strings.TrimSpace(in.Likes),
		Fears:       strings.TrimSpace(in.Fears),
		HealthNotes: strings.TrimSpace(in.HealthNotes),
		Slug:        s.slug(name),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Microchip {
		p.MicrochipCode = strings.TrimSpace(in.MicrochipCode)
	}
	copy(p.PhotoURLs[:], in.PhotoURLs)
	return p, nil
}

// Create persiste una mascota nueva; regenera el slug si ya existe.
func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	p, err := s.NewPet(ownerUserID, in)
	if err != nil {
		return Pet{}, err
	}
	for i := 0; i < slugAttempts; i++ {
		err = s.repo.Create(ctx, p)
		if !errors.Is(err, ErrSlugTaken) {
			break
		}
		p.Slug = s.slug(p.Name)
	}
	if err != nil {
		return Pet{}, err
	}
	return p, nil
}

// RegenerateSlug la usa registration cuando la transacción choca con el unique de slug.
func (s *Service) RegenerateSlug(p Pet) Pet {
	p.Slug = s.slug(p.Name)
	return p
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	if strings.TrimSpace(id) == "" {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (Pet, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// HasAny decide el ruteo post-login: dashboard si tiene al menos una mascota.
func (s *Service) HasAny(ctx context.Context, ownerUserID string) (bool, error) {
	items, err := s.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return false, err
	}
	return len(items) > 0, nil
}

// PatchBirthDate distingue "no enviado" de "null" (limpiar).
type PatchBirthDate struct {
	Present bool
	Value   *time.Time
}

// UpdateInput: punteros para PATCH real, nil = no tocar.
type UpdateInput struct {
	Name          *string
	Nickname      *string
	City          *string
	Province      *string
	Region        *string
	Gender        *string
	BirthDate     PatchBirthDate
	Microchip     *bool
	MicrochipCode *string
	Likes         *string
	Fears         *string
	HealthNotes   *string
}

func (s *Service) UpdateProfile(ctx context.Context, petID, ownerUserID string, in UpdateInput) (Pet, error) {
	p, err := s.GetOwned(ctx, petID, ownerUserID)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		p.Name = name
	}
	if in.Gender != nil {
		g, ok := ParseGender(*in.Gender)
		if !ok {
			return Pet{}, fmt.Errorf("%w: gender must be MALE or FEMALE", ErrInvalidInput)
		}
		p.Gender = g
	}
	setTrimmed(&p.Nickname, in.Nickname)
	setTrimmed(&p.City, in.City)
	setTrimmed(&p.Province, in.Province)
	setTrimmed(&p.Region, in.Region)
	setTrimmed(&p.Likes, in.Likes)
	setTrimmed(&p.Fears, in.Fears)
	setTrimmed(&p.HealthNotes, in.HealthNotes)
	setTrimmed(&p.MicrochipCode, in.MicrochipCode)
	if in.Microchip != nil {
		p.Microchip = *in.Microchip
	}
	if !p.Microchip {
		p.MicrochipCode = ""
	}
	if in.BirthDate.Present {
		p.BirthDate = in.BirthDate.Value
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// ReplacePhoto sube la foto y recién después actualiza el slot (0..2).
// Si falla la DB, el objeto subido se borra; si no, se borra el anterior (best-effort).
func (s *Service) ReplacePhoto(ctx context.Context, petID, ownerUserID string, slot int, contentType string, body io.Reader) (Pet, error) {
	if s.photos == nil {
		return Pet{}, ErrNoPhotoStore
	}
	if slot < 0 || slot >= PhotoSlots {
		return Pet{}, fmt.Errorf("%w: slot must be 1..%d", ErrInvalidInput, PhotoSlots)
	}
	p, err := s.GetOwned(ctx, petID, ownerUserID)
	if err != nil {
		return Pet{}, err
	}

	key, err := objects.PhotoKey(ownerUserID, contentType)
	if err != nil {
		return Pet{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	url, err := s.photos.Put(ctx, key, contentType, body)
	if err != nil {
		return Pet{}, fmt.Errorf("upload photo: %w", err)
	}

	old := p.PhotoURLs[slot]
	p.PhotoURLs[slot] = url
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		_ = s.photos.Delete(context.WithoutCancel(ctx), key)
		return Pet{}, err
	}

	// La foto anterior del slot ya no la referencia nadie (best-effort).
	if old != "" && old != url {
		if oldKey, ok := s.photos.KeyForURL(old); ok {
			_ = s.photos.Delete(context.WithoutCancel(ctx), oldKey)
		}
	}
	return p, nil
}

// SetNFC marca/desmarca el tag físico asociado.
func (s *Service) SetNFC(ctx context.Context, petID string, connected bool, tagID string) (Pet, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	p.NFCConnected = connected
	if connected {
		p.TagID = strings.TrimSpace(tagID)
	} else {
		p.TagID = ""
	}
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
