package nfc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-tag/internal/domain/pets"
	"pet-tag/internal/platform/logger"
	"pet-tag/internal/ports/capabilities"
	"pet-tag/internal/ports/kv"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrSessionNotFound   = errors.New("pairing session not found")
	ErrInvalidTransition = errors.New("invalid pairing transition")
)

const (
	SessionTTL    = 10 * time.Minute
	sessionPrefix = "nfc:"

	MaxSerialNumber = 64
)

// PetStore es lo que nfc necesita de pets.
type PetStore interface {
	GetOwned(ctx context.Context, petID, ownerUserID string) (pets.Pet, error)
	SetNFC(ctx context.Context, petID string, connected bool, tagID string) (pets.Pet, error)
}

type Service struct {
	pets     PetStore
	sessions kv.Store
	caps     capabilities.CapabilitiesResolver
	baseURL  string
	log      logger.Logger
	now      func() time.Time
}

func NewService(p PetStore, sessions kv.Store, caps capabilities.CapabilitiesResolver, publicBaseURL string, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		pets:     p,
		sessions: sessions,
		caps:     caps,
		baseURL:  strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
		log:      log.With(map[string]any{"component": "nfc"}),
		now:      time.Now,
	}
}

// ProfileURL es la URL que se graba en el tag.
func (s *Service) ProfileURL(petID string) string {
	return s.baseURL + "/p/" + petID
}

// Status arma la vista de configuración: URL, mensaje NDEF y soporte del navegador.
func (s *Service) Status(ctx context.Context, petID, ownerUserID, userAgent string) (Status, error) {
	p, err := s.pets.GetOwned(ctx, petID, ownerUserID)
	if err != nil {
		return Status{}, err
	}
	url := s.ProfileURL(p.ID)
	msg, err := EncodeURI(url)
	if err != nil {
		return Status{}, err
	}
	platform, supported := s.support(ctx, userAgent)

	st := Status{
		PetID:        p.ID,
		PetName:      p.Name,
		URL:          url,
		NDEFMessage:  msg,
		Platform:     platform,
		Supported:    supported,
		NFCConnected: p.NFCConnected,
		TagID:        p.TagID,
	}
	if !supported {
		st.Instructions = Instructions(platform, url)
	}
	return st, nil
}

func (s *Service) support(ctx context.Context, userAgent string) (capabilities.Platform, bool) {
	platform := s.caps.Platform(ctx, userAgent)
	ok, err := s.caps.HasFeature(ctx, capabilities.CapabilityCheck{
		Feature:   capabilities.FeatureNFCWrite,
		UserAgent: userAgent,
	})
	if err != nil {
		s.log.Warn("capability check failed", map[string]any{"err": err})
		return platform, false
	}
	return platform, ok
}

// StartPairing abre una sesión en scanning. Si el navegador no soporta Web NFC
// la sesión nace en error (unsupported_platform).
func (s *Service) StartPairing(ctx context.Context, petID, ownerUserID, userAgent string) (Session, error) {
	p, err := s.pets.GetOwned(ctx, petID, ownerUserID)
	if err != nil {
		return Session{}, err
	}
	now := s.now()
	platform, supported := s.support(ctx, userAgent)

	sess := Session{
		ID:          uuid.NewString(),
		PetID:       p.ID,
		OwnerUserID: ownerUserID,
		State:       StateScanning,
		Platform:    platform,
		TargetURL:   s.ProfileURL(p.ID),
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(SessionTTL),
	}
	if !supported {
		sess.State = StateError
		sess.Reason = ReasonUnsupportedPlatform
		sess.Message = ReasonUnsupportedPlatform.Message()
	}
	return s.save(ctx, sess)
}

func (s *Service) GetSession(ctx context.Context, petID, ownerUserID, sessionID string) (Session, error) {
	return s.load(ctx, petID, ownerUserID, sessionID)
}

// Read procesa el contenido actual del tag. Vacío o ya con la URL de la mascota
// pasa a writing; cualquier otro contenido pide confirmación.
func (s *Service) Read(ctx context.Context, petID, ownerUserID, sessionID string, in ReadInput) (Session, error) {
	sess, err := s.load(ctx, petID, ownerUserID, sessionID)
	if err != nil {
		return Session{}, err
	}
	if sess.State != StateScanning {
		return Session{}, transitionError(sess.State, "read")
	}

	content, err := tagContent(in)
	if err != nil {
		return Session{}, err
	}
	sess.SerialNumber = strings.TrimSpace(in.SerialNumber)
	sess.ExistingContent = content
	sess.State = StateWriting
	for _, c := range content {
		if !sameURL(c, sess.TargetURL) {
			sess.State = StateConfirm
			break
		}
	}
	return s.save(ctx, sess)
}

func (s *Service) Confirm(ctx context.Context, petID, ownerUserID, sessionID string) (Session, error) {
	sess, err := s.load(ctx, petID, ownerUserID, sessionID)
	if err != nil {
		return Session{}, err
	}
	if sess.State != StateConfirm {
		return Session{}, transitionError(sess.State, "confirm")
	}
	sess.State = StateWriting
	return s.save(ctx, sess)
}

// Cancel vuelve a idle. No aplica a sesiones ya terminadas con éxito.
func (s *Service) Cancel(ctx context.Context, petID, ownerUserID, sessionID string) (Session, error) {
	sess, err := s.load(ctx, petID, ownerUserID, sessionID)
	if err != nil {
		return Session{}, err
	}
	if sess.State == StateIdle || sess.State == StateSuccess {
		return Session{}, transitionError(sess.State, "cancel")
	}
	sess.State = StateIdle
	sess.Reason, sess.Message = "", ""
	return s.save(ctx, sess)
}

// Written se llama después de la escritura física. Recién ahí se marca la
// mascota como conectada; si la DB falla la sesión queda en writing y se puede reintentar.
func (s *Service) Written(ctx context.Context, petID, ownerUserID, sessionID, serial string) (Session, error) {
	sess, err := s.load(ctx, petID, ownerUserID, sessionID)
	if err != nil {
		return Session{}, err
	}
	if sess.State != StateWriting {
		return Session{}, transitionError(sess.State, "written")
	}
	if serial = strings.TrimSpace(serial); serial == "" {
		serial = sess.SerialNumber
	}

	if _, err := s.pets.SetNFC(ctx, petID, true, serial); err != nil {
		return Session{}, fmt.Errorf("mark pet connected: %w", err)
	}
	sess.SerialNumber = serial
	sess.State = StateSuccess
	if sess, err = s.save(ctx, sess); err != nil {
		return Session{}, err
	}
	s.log.Info("nfc tag paired", map[string]any{"pet_id": petID, "tag_id": serial})
	return sess, nil
}

func (s *Service) Fail(ctx context.Context, petID, ownerUserID, sessionID, reason string) (Session, error) {
	sess, err := s.load(ctx, petID, ownerUserID, sessionID)
	if err != nil {
		return Session{}, err
	}
	if sess.State.Terminal() {
		return Session{}, transitionError(sess.State, "fail")
	}
	r := ParseReason(strings.TrimSpace(reason))
	sess.State = StateError
	sess.Reason = r
	sess.Message = r.Message()
	s.log.Warn("nfc pairing failed", map[string]any{"pet_id": petID, "reason": string(r), "raw": reason})
	return s.save(ctx, sess)
}

// MarkConnected marca el tag como conectado sin sesión de pairing: es el camino
// manual (iPhone u otro navegador sin Web NFC) después de grabar con una app.
func (s *Service) MarkConnected(ctx context.Context, petID, ownerUserID, serial string) (pets.Pet, error) {
	if _, err := s.pets.GetOwned(ctx, petID, ownerUserID); err != nil {
		return pets.Pet{}, err
	}
	serial = strings.TrimSpace(serial)
	if len(serial) > MaxSerialNumber {
		return pets.Pet{}, fmt.Errorf("%w: serial number too long", ErrInvalidInput)
	}
	p, err := s.pets.SetNFC(ctx, petID, true, serial)
	if err != nil {
		return pets.Pet{}, fmt.Errorf("mark pet connected: %w", err)
	}
	s.log.Info("nfc tag marked connected", map[string]any{"pet_id": petID, "tag_id": serial, "manual": true})
	return p, nil
}

// Disconnect desvincula el tag (flag false, tag id vacío).
func (s *Service) Disconnect(ctx context.Context, petID, ownerUserID string) (pets.Pet, error) {
	if _, err := s.pets.GetOwned(ctx, petID, ownerUserID); err != nil {
		return pets.Pet{}, err
	}
	return s.pets.SetNFC(ctx, petID, false, "")
}

func (s *Service) load(ctx context.Context, petID, ownerUserID, sessionID string) (Session, error) {
	if _, err := s.pets.GetOwned(ctx, petID, ownerUserID); err != nil {
		return Session{}, err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Session{}, ErrSessionNotFound
	}
	var sess Session
	ok, err := s.sessions.Get(ctx, sessionPrefix+sessionID, &sess)
	if err != nil {
		return Session{}, fmt.Errorf("load pairing session: %w", err)
	}
	if !ok || sess.PetID != petID || sess.OwnerUserID != ownerUserID {
		return Session{}, ErrSessionNotFound
	}
	if !s.now().Before(sess.ExpiresAt) {
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}

// save guarda la sesión y la devuelve con updated_at al día.
func (s *Service) save(ctx context.Context, sess Session) (Session, error) {
	now := s.now()
	ttl := sess.ExpiresAt.Sub(now)
	if ttl <= 0 {
		return Session{}, ErrSessionNotFound
	}
	sess.UpdatedAt = now
	if err := s.sessions.Set(ctx, sessionPrefix+sess.ID, sess, ttl); err != nil {
		return Session{}, fmt.Errorf("save pairing session: %w", err)
	}
	return sess, nil
}

func transitionError(from State, action string) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, from)
}

// tagContent junta lo que hay en el tag: URLs tal cual y, para otros records,
// el tipo entre corchetes.
func tagContent(in ReadInput) ([]string, error) {
	var out []string
	for _, rec := range in.Records {
		switch t := strings.ToLower(strings.TrimSpace(rec.RecordType)); t {
		case "", "empty":
		case "url", "absolute-url":
			u := strings.TrimSpace(rec.URL)
			if u == "" {
				u = strings.TrimSpace(string(rec.Data))
			}
			if u != "" {
				out = append(out, u)
			}
		default:
			out = append(out, "["+t+"]")
		}
	}

	if len(in.Message) > 0 {
		recs, err := ParseMessage(in.Message)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		for _, r := range recs {
			if u, ok := r.URI(); ok {
				out = append(out, u)
				continue
			}
			out = append(out, "["+string(r.Type)+"]")
		}
	}
	return out, nil
}

func sameURL(a, b string) bool {
	norm := func(s string) string {
		return strings.TrimRight(strings.TrimSpace(s), "/")
	}
	return strings.EqualFold(norm(a), norm(b))
}
