package scans

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-tag/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes: publicMW se aplica solo al POST público (rate limit).
func RegisterRoutes(r chi.Router, svc *Service, publicMW ...func(http.Handler) http.Handler) {
	r.With(publicMW...).Post("/p/{petID}/scans", recordScanHandler(svc))
	r.With(publicMW...).Patch("/p/{petID}/scans/{scanID}", attachLocationHandler(svc))
	r.Get("/scans", listScansHandler(svc))
}

type recordScanRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type recordScanResponse struct {
	ID          string `json:"id"`
	HasLocation bool   `json:"has_location"`
}

// scanResponse es una fila de la página de logs.
type scanResponse struct {
	ID        string    `json:"id"`
	PetID     string    `json:"pet_id"`
	PetName   string    `json:"pet_name"`
	CreatedAt time.Time `json:"created_at"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	MapsURL   string    `json:"maps_url,omitempty"`
	UserAgent string    `json:"user_agent"`
}

// recordScanHandler godoc
// @Summary Registrar scan del tag
// @Description Público. Coordenadas opcionales (ambas o ninguna). Rate limit por IP cuando hay Redis.
// @Tags scans
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body recordScanRequest false "Coordenadas"
// @Success 202 {object} recordScanResponse
// @Failure 400 {string} string "invalid json"
// @Failure 404 {string} string "pet not found"
// @Failure 429 {string} string "too many requests"
// @Router /p/{petID}/scans [post]
func recordScanHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordScanRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 4<<10)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sc, err := svc.Record(r.Context(), chi.URLParam(r, "petID"), RecordInput{
			Lat:       req.Lat,
			Lng:       req.Lng,
			UserAgent: r.UserAgent(),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, recordScanResponse{ID: sc.ID, HasLocation: sc.HasLocation()})
	}
}

// attachLocationHandler godoc
// @Summary Agregar ubicación a un scan
// @Description Público. La página del perfil manda las coordenadas del scan que registró al abrirse.
// @Tags scans
// @Accept json
// @Param petID path string true "ID de la mascota"
// @Param scanID path string true "ID del scan"
// @Param payload body recordScanRequest true "Coordenadas"
// @Success 204
// @Failure 400 {string} string "invalid input"
// @Failure 404 {string} string "scan not found"
// @Failure 409 {string} string "scan location already set"
// @Failure 429 {string} string "too many requests"
// @Router /p/{petID}/scans/{scanID} [patch]
func attachLocationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordScanRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 4<<10)).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		err := svc.AttachLocation(r.Context(), chi.URLParam(r, "petID"), chi.URLParam(r, "scanID"), req.Lat, req.Lng)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// listScansHandler godoc
// @Summary Logs de scans
// @Description Scans de todas mis mascotas, más nuevos primero.
// @Tags scans
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param limit query int false "1..200 (default 50)"
// @Success 200 {array} scanResponse
// @Failure 400 {string} string "invalid limit"
// @Failure 401 {string} string "unauthorized"
// @Router /scans [get]
func listScansHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		limit := DefaultLimit
		if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > MaxLimit {
				http.Error(w, "limit must be 1..200", http.StatusBadRequest)
				return
			}
			limit = n
		}

		items, err := svc.ListForOwner(r.Context(), claims.UserID, limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]scanResponse, 0, len(items))
		for _, e := range items {
			out = append(out, scanResponse{
				ID:        e.ID,
				PetID:     e.PetID,
				PetName:   e.PetName,
				CreatedAt: e.CreatedAt,
				Lat:       e.Lat,
				Lng:       e.Lng,
				MapsURL:   e.MapsURL(),
				UserAgent: e.UserAgent,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrScanNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrLocationSet):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
