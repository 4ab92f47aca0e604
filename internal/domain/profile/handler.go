package profile

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registra /p/{petID}. El catch-all /{slug} se registra
// aparte con RegisterSlugRoute al final del router.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/p/{petID}", byIDHandler(svc))
}

func RegisterSlugRoute(r chi.Router, svc *Service) {
	r.Get("/{slug}", bySlugHandler(svc))
}

// byIDHandler godoc
// @Summary Perfil público de la mascota
// @Description Accept: application/json devuelve JSON; si no, HTML. La vista HTML registra un scan.
// @Tags profile
// @Produce json
// @Produce html
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} View
// @Failure 404 {string} string "profile not found"
// @Router /p/{petID} [get]
func byIDHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.ByID(r.Context(), chi.URLParam(r, "petID"))
		respond(w, r, svc, v, err)
	}
}

// bySlugHandler godoc
// @Summary Perfil público por slug
// @Tags profile
// @Produce json
// @Produce html
// @Param slug path string true "Slug de la mascota"
// @Success 200 {object} View
// @Failure 404 {string} string "profile not found"
// @Router /{slug} [get]
func bySlugHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.BySlug(r.Context(), chi.URLParam(r, "slug"))
		respond(w, r, svc, v, err)
	}
}

func respond(w http.ResponseWriter, r *http.Request, svc *Service, v View, err error) {
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(v)
		return
	}

	scanID := svc.LogView(r.Context(), v.ID, r.UserAgent())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = renderPage(w, v, scanID)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
