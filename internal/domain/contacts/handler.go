package contacts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-tag/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/contacts", listContactsHandler(svc))
	r.Put("/contacts", replaceContactsHandler(svc))
}

// contactResponse es un contacto deduplicado entre las mascotas del dueño.
type contactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// listContactsHandler godoc
// @Summary Listar contactos
// @Description Contactos únicos (por email, teléfono o nombre) de todas mis mascotas.
// @Tags contacts
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Success 200 {array} contactResponse
// @Failure 401 {string} string "unauthorized"
// @Router /contacts [get]
func listContactsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListForOwner(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toContactResponses(items))
	}
}

// replaceContactsHandler godoc
// @Summary Reemplazar contactos
// @Description Reemplaza los contactos en todas mis mascotas. Filas vacías se ignoran; cada fila necesita nombre y teléfono o email.
// @Tags contacts
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param payload body []Input true "Contactos"
// @Success 200 {array} contactResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "owner has no pets"
// @Router /contacts [put]
func replaceContactsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req []Input
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		items, err := svc.ReplaceForOwner(r.Context(), claims.UserID, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toContactResponses(items))
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNoPets):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toContactResponses(cs []Contact) []contactResponse {
	out := make([]contactResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, contactResponse{
			ID:        c.ID,
			Name:      c.Name,
			Phone:     c.Phone,
			Email:     c.Email,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
