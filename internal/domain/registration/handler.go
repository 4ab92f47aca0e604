package registration

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"pet-tag/internal/domain/contacts"
	"pet-tag/internal/domain/pets"
	"pet-tag/internal/middleware"
	"pet-tag/internal/ports/objects"

	"github.com/go-chi/chi/v5"
)

const maxSubmitBytes = MaxPhotos*objects.MaxPhotoBytes + (1 << 20)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/register", func(rr chi.Router) {
		rr.Post("/", submitHandler(svc))

		rr.Get("/draft", getDraftHandler(svc))
		rr.Put("/draft", updateDraftHandler(svc))
		rr.Delete("/draft", discardDraftHandler(svc))
		rr.Post("/draft/next", moveDraftHandler(svc, svc.Next))
		rr.Post("/draft/back", moveDraftHandler(svc, svc.Back))
	})
}

// draftResponse es el borrador con el nombre del paso para la UI.
type draftResponse struct {
	Step       Step             `json:"step"`
	StepName   string           `json:"step_name"`
	Owners     []contacts.Input `json:"owners"`
	Pet        PetFields        `json:"pet"`
	PhotoCount int              `json:"photo_count"`
	UpdatedAt  time.Time        `json:"updated_at,omitempty"`
}

type contactResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type submitResponse struct {
	PetID         string            `json:"pet_id"`
	Slug          string            `json:"slug"`
	Name          string            `json:"name"`
	PhotoURLs     []string          `json:"photo_urls"`
	Contacts      []contactResponse `json:"contacts"`
	SkippedPhotos int               `json:"skipped_photos"`
}

// getDraftHandler godoc
// @Summary Ver borrador del wizard
// @Tags registration
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Success 200 {object} draftResponse
// @Failure 401 {string} string "unauthorized"
// @Router /register/draft [get]
func getDraftHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		d, err := svc.GetDraft(r.Context(), uid)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDraftResponse(d))
	}
}

// updateDraftHandler godoc
// @Summary Guardar borrador del wizard
// @Description Solo se reemplazan las secciones enviadas (owners, pet, photo_count).
// @Tags registration
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param payload body DraftUpdate true "Secciones del borrador"
// @Success 200 {object} draftResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Router /register/draft [put]
func updateDraftHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req DraftUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		d, err := svc.UpdateDraft(r.Context(), uid, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDraftResponse(d))
	}
}

// moveDraftHandler godoc
// @Summary Avanzar / retroceder paso del wizard
// @Tags registration
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Success 200 {object} draftResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "invalid wizard step"
// @Router /register/draft/next [post]
// @Router /register/draft/back [post]
func moveDraftHandler(svc *Service, move func(ctx context.Context, userID string) (Draft, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		d, err := move(r.Context(), uid)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDraftResponse(d))
	}
}

// discardDraftHandler godoc
// @Summary Descartar borrador
// @Tags registration
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Router /register/draft [delete]
func discardDraftHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := svc.DiscardDraft(r.Context(), uid); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// submitHandler godoc
// @Summary Registrar mascota (submit del wizard)
// @Description multipart/form-data con `payload` (JSON con owners y pet) y hasta 3 archivos `photo`; o application/json sin fotos.
// @Tags registration
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param payload formData string true "JSON {owners:[{name,phone,email}], pet:{...}}"
// @Param photo formData file false "Foto (hasta 3)"
// @Success 201 {object} submitResponse
// @Failure 400 {string} string "invalid payload / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 413 {string} string "request too large"
// @Router /register [post]
func submitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBytes)

		var sub Submission
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			if err := r.ParseMultipartForm(maxSubmitBytes); err != nil {
				var mbe *http.MaxBytesError
				if errors.As(err, &mbe) {
					http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
					return
				}
				http.Error(w, "invalid multipart form", http.StatusBadRequest)
				return
			}
			if err := json.Unmarshal([]byte(r.FormValue("payload")), &sub); err != nil {
				http.Error(w, "invalid payload json", http.StatusBadRequest)
				return
			}
			photos, status, msg := readPhotos(r.MultipartForm.File["photo"])
			if status != 0 {
				http.Error(w, msg, status)
				return
			}
			sub.Photos = photos
		} else if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.Submit(r.Context(), uid, sub)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := submitResponse{
			PetID:         res.Pet.ID,
			Slug:          res.Pet.Slug,
			Name:          res.Pet.Name,
			PhotoURLs:     res.Pet.Photos(),
			Contacts:      make([]contactResponse, 0, len(res.Contacts)),
			SkippedPhotos: res.SkippedPhotos,
		}
		for _, c := range res.Contacts {
			out.Contacts = append(out.Contacts, contactResponse{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email})
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

func readPhotos(files []*multipart.FileHeader) ([]Photo, int, string) {
	if len(files) > MaxPhotos {
		return nil, http.StatusBadRequest, "at most 3 photos"
	}
	out := make([]Photo, 0, len(files))
	for _, fh := range files {
		if fh.Size > objects.MaxPhotoBytes {
			return nil, http.StatusRequestEntityTooLarge, "photo too large"
		}
		f, err := fh.Open()
		if err != nil {
			return nil, http.StatusBadRequest, "invalid photo"
		}
		data, err := io.ReadAll(io.LimitReader(f, objects.MaxPhotoBytes+1))
		_ = f.Close()
		if err != nil {
			return nil, http.StatusBadRequest, "invalid photo"
		}
		ct := fh.Header.Get("Content-Type")
		if ct == "" || ct == "application/octet-stream" {
			ct = http.DetectContentType(data)
		}
		out = append(out, Photo{ContentType: ct, Data: data})
	}
	return out, 0, ""
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, pets.ErrInvalidInput), errors.Is(err, contacts.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrBadState):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toDraftResponse(d Draft) draftResponse {
	return draftResponse{
		Step:       d.Step,
		StepName:   d.Step.String(),
		Owners:     d.Owners,
		Pet:        d.Pet,
		PhotoCount: d.PhotoCount,
		UpdatedAt:  d.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
