package pets

import (
	"bufio"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-tag/internal/middleware"
	"pet-tag/internal/ports/objects"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/pets", listPetsHandler(svc))
	r.Get("/pets/{petID}", getPetHandler(svc))
	r.Patch("/pets/{petID}", updatePetHandler(svc))

	// Reemplazo de foto por slot (1..3)
	r.Put("/pets/{petID}/photos/{slot}", replacePhotoHandler(svc))
}

// petResponse es la vista del dueño (incluye microchip_code y tag_id).
type petResponse struct {
	ID            string     `json:"id"`
	OwnerUserID   string     `json:"owner_user_id"`
	Name          string     `json:"name"`
	Nickname      string     `json:"nickname"`
	City          string     `json:"city"`
	Province      string     `json:"province"`
	Region        string     `json:"region"`
	Gender        Gender     `json:"gender"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	Microchip     bool       `json:"microchip"`
	MicrochipCode string     `json:"microchip_code,omitempty"`
	Likes         string     `json:"likes"`
	Fears         string     `json:"fears"`
	HealthNotes   string     `json:"health_notes"`
	PhotoURLs     []string   `json:"photo_urls"` // siempre 3 posiciones, "" = vacío
	NFCConnected  bool       `json:"nfc_connected"`
	TagID         string     `json:"tag_id,omitempty"`
	Slug          string     `json:"slug"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type updatePetRequest struct {
	Name          *string `json:"name"`
	Nickname      *string `json:"nickname"`
	City          *string `json:"city"`
	Province      *string `json:"province"`
	Region        *string `json:"region"`
	Gender        *string `json:"gender"`
	Microchip     *bool   `json:"microchip"`
	MicrochipCode *string `json:"microchip_code"`
	Likes         *string `json:"likes"`
	Fears         *string `json:"fears"`
	HealthNotes   *string `json:"health_notes"`
	BirthDate     *string `json:"birth_date"` // YYYY-MM-DD o null para limpiar
}

// listPetsHandler godoc
// @Summary Listar mis mascotas
// @Tags pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token (o cookie session)"
// @Success 200 {array} petResponse
// @Failure 401 {string} string "unauthorized"
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Ver mascota (solo dueño)
// @Tags pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetOwned(r.Context(), chi.URLParam(r, "petID"), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// updatePetHandler godoc
// @Summary Editar mascota
// @Description PATCH: solo se modifican los campos enviados. birth_date acepta null para limpiar.
// @Tags pets
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param payload body updatePetRequest true "Campos a modificar"
// @Success 200 {object} petResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [patch]
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Decodificamos a map primero para detectar presencia de birth_date.
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var req updatePetRequest
		{
			b, _ := json.Marshal(raw)
			dec := json.NewDecoder(strings.NewReader(string(b)))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		bd := PatchBirthDate{}
		if v, exists := raw["birth_date"]; exists {
			bd.Present = true
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					http.Error(w, "birth_date must be YYYY-MM-DD or null", http.StatusBadRequest)
					return
				}
				if strings.TrimSpace(s) != "" {
					t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
					if err != nil {
						http.Error(w, "birth_date must be YYYY-MM-DD or null", http.StatusBadRequest)
						return
					}
					bd.Value = &t
				}
			}
		}

		updated, err := svc.UpdateProfile(r.Context(), chi.URLParam(r, "petID"), claims.UserID, UpdateInput{
			Name:          req.Name,
			Nickname:      req.Nickname,
			City:          req.City,
			Province:      req.Province,
			Region:        req.Region,
			Gender:        req.Gender,
			BirthDate:     bd,
			Microchip:     req.Microchip,
			MicrochipCode: req.MicrochipCode,
			Likes:         req.Likes,
			Fears:         req.Fears,
			HealthNotes:   req.HealthNotes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

// replacePhotoHandler godoc
// @Summary Reemplazar foto de la mascota
// @Description multipart/form-data con el archivo en el campo `photo`. slot 1..3.
// @Tags pets
// @Accept multipart/form-data
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param slot path int true "Slot de foto (1..3)"
// @Param photo formData file true "Imagen (jpeg, png, webp, heic, gif; máx 10 MiB)"
// @Success 200 {object} petResponse
// @Failure 400 {string} string "invalid slot / invalid photo"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Failure 413 {string} string "photo too large"
// @Router /pets/{petID}/photos/{slot} [put]
func replacePhotoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
		if err != nil || slot < 1 || slot > PhotoSlots {
			http.Error(w, "slot must be 1, 2 or 3", http.StatusBadRequest)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, objects.MaxPhotoBytes+(1<<20))
		file, header, err := r.FormFile("photo")
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				http.Error(w, "photo too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "photo file required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > objects.MaxPhotoBytes {
			http.Error(w, "photo too large", http.StatusRequestEntityTooLarge)
			return
		}

		body := bufio.NewReader(file)
		ct := header.Header.Get("Content-Type")
		if ct == "" || ct == "application/octet-stream" {
			head, _ := body.Peek(512)
			ct = http.DetectContentType(head)
		}

		p, err := svc.ReplacePhoto(r.Context(), chi.URLParam(r, "petID"), claims.UserID, slot-1, ct, body)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNoPhotoStore):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:            p.ID,
		OwnerUserID:   p.OwnerUserID,
		Name:          p.Name,
		Nickname:      p.Nickname,
		City:          p.City,
		Province:      p.Province,
		Region:        p.Region,
		Gender:        p.Gender,
		BirthDate:     p.BirthDate,
		Microchip:     p.Microchip,
		MicrochipCode: p.MicrochipCode,
		Likes:         p.Likes,
		Fears:         p.Fears,
		HealthNotes:   p.HealthNotes,
		PhotoURLs:     p.PhotoURLs[:],
		NFCConnected:  p.NFCConnected,
		TagID:         p.TagID,
		Slug:          p.Slug,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
