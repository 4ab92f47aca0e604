package nfc

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"pet-tag/internal/domain/pets"
	"pet-tag/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/pets/{petID}/nfc", statusHandler(svc))
	r.Delete("/pets/{petID}/nfc", disconnectHandler(svc))
	r.Post("/pets/{petID}/nfc/manual", manualConnectHandler(svc))

	r.Post("/pets/{petID}/nfc/pairing", startPairingHandler(svc))
	r.Get("/pets/{petID}/nfc/pairing/{sessionID}", getSessionHandler(svc))
	r.Post("/pets/{petID}/nfc/pairing/{sessionID}/read", readTagHandler(svc))
	r.Post("/pets/{petID}/nfc/pairing/{sessionID}/confirm", confirmHandler(svc))
	r.Post("/pets/{petID}/nfc/pairing/{sessionID}/cancel", cancelHandler(svc))
	r.Post("/pets/{petID}/nfc/pairing/{sessionID}/written", writtenHandler(svc))
	r.Post("/pets/{petID}/nfc/pairing/{sessionID}/failed", failedHandler(svc))
}

type readTagRequest struct {
	SerialNumber string      `json:"serial_number"`
	Records      []TagRecord `json:"records"`
	Message      []byte      `json:"message,omitempty"` // NDEF crudo en base64
}

type writtenRequest struct {
	SerialNumber string `json:"serial_number"`
}

type failedRequest struct {
	Reason string `json:"reason"`
}

type connectionResponse struct {
	PetID        string `json:"pet_id"`
	NFCConnected bool   `json:"nfc_connected"`
	TagID        string `json:"tag_id,omitempty"`
}

// statusHandler godoc
// @Summary Estado NFC de la mascota
// @Description URL a grabar, mensaje NDEF (base64), soporte del navegador e instrucciones manuales.
// @Tags nfc
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} Status
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/nfc [get]
func statusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		st, err := svc.Status(r.Context(), chi.URLParam(r, "petID"), userID, r.UserAgent())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// disconnectHandler godoc
// @Summary Desvincular tag
// @Tags nfc
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} connectionResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/nfc [delete]
func disconnectHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		p, err := svc.Disconnect(r.Context(), chi.URLParam(r, "petID"), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, connectionResponse{PetID: p.ID, NFCConnected: p.NFCConnected})
	}
}

// manualConnectHandler godoc
// @Summary Marcar tag como conectado (manual)
// @Description Para navegadores sin Web NFC: el dueño graba el tag con una app y lo marca acá.
// @Tags nfc
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param payload body writtenRequest false "Serial del tag"
// @Success 200 {object} connectionResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/nfc/manual [post]
func manualConnectHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		var req writtenRequest
		if err := decodeBody(r, &req); err != nil {
			writeServiceError(w, err)
			return
		}
		p, err := svc.MarkConnected(r.Context(), chi.URLParam(r, "petID"), userID, req.SerialNumber)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, connectionResponse{PetID: p.ID, NFCConnected: p.NFCConnected, TagID: p.TagID})
	}
}

// startPairingHandler godoc
// @Summary Iniciar pairing
// @Description La sesión arranca en scanning, o en error (unsupported_platform) si el navegador no tiene Web NFC.
// @Tags nfc
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Success 201 {object} Session
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/nfc/pairing [post]
func startPairingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		sess, err := svc.StartPairing(r.Context(), chi.URLParam(r, "petID"), userID, r.UserAgent())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sess)
	}
}

// getSessionHandler godoc
// @Summary Ver sesión de pairing
// @Tags nfc
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param sessionID path string true "ID de la sesión"
// @Success 200 {object} Session
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pairing session not found"
// @Router /pets/{petID}/nfc/pairing/{sessionID} [get]
func getSessionHandler(svc *Service) http.HandlerFunc {
	return sessionAction(func(r *http.Request, userID, petID, sid string) (Session, error) {
		return svc.GetSession(r.Context(), petID, userID, sid)
	})
}

// readTagHandler godoc
// @Summary Reportar contenido leído del tag
// @Description Tag vacío o con la URL de la mascota pasa a writing; otro contenido pasa a confirm.
// @Tags nfc
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param sessionID path string true "ID de la sesión"
// @Param payload body readTagRequest true "Records leídos"
// @Success 200 {object} Session
// @Failure 400 {string} string "invalid json"
// @Failure 404 {string} string "pairing session not found"
// @Failure 409 {string} string "invalid pairing transition"
// @Router /pets/{petID}/nfc/pairing/{sessionID}/read [post]
func readTagHandler(svc *Service) http.HandlerFunc {
	return sessionAction(func(r *http.Request, userID, petID, sid string) (Session, error) {
		var req readTagRequest
		if err := decodeBody(r, &req); err != nil {
			return Session{}, err
		}
		return svc.Read(r.Context(), petID, userID, sid, ReadInput{
			SerialNumber: req.SerialNumber,
			Records:      req.Records,
			Message:      req.Message,
		})
	})
}

// confirmHandler godoc
// @Summary Confirmar sobrescritura del tag
// @Tags nfc
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param sessionID path string true "ID de la sesión"
// @Success 200 {object} Session
// @Failure 404 {string} string "pairing session not found"
// @Failure 409 {string} string "invalid pairing transition"
// @Router /pets/{petID}/nfc/pairing/{sessionID}/confirm [post]
func confirmHandler(svc *Service) http.HandlerFunc {
	return sessionAction(func(r *http.Request, userID, petID, sid string) (Session, error) {
		return svc.Confirm(r.Context(), petID, userID, sid)
	})
}

// cancelHandler godoc
// @Summary Cancelar pairing
// @Tags nfc
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param sessionID path string true "ID de la sesión"
// @Success 200 {object} Session
// @Failure 404 {string} string "pairing session not found"
// @Failure 409 {string} string "invalid pairing transition"
// @Router /pets/{petID}/nfc/pairing/{sessionID}/cancel [post]
func cancelHandler(svc *Service) http.HandlerFunc {
	return sessionAction(func(r *http.Request, userID, petID, sid string) (Session, error) {
		return svc.Cancel(r.Context(), petID, userID, sid)
	})
}

// writtenHandler godoc
// @Summary Tag escrito
// @Description Se llama después de la escritura física; marca la mascota como conectada.
// @Tags nfc
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param sessionID path string true "ID de la sesión"
// @Param payload body writtenRequest false "Serial del tag"
// @Success 200 {object} Session
// @Failure 404 {string} string "pairing session not found"
// @Failure 409 {string} string "invalid pairing transition"
// @Router /pets/{petID}/nfc/pairing/{sessionID}/written [post]
func writtenHandler(svc *Service) http.HandlerFunc {
	return sessionAction(func(r *http.Request, userID, petID, sid string) (Session, error) {
		var req writtenRequest
		if err := decodeBody(r, &req); err != nil {
			return Session{}, err
		}
		return svc.Written(r.Context(), petID, userID, sid, req.SerialNumber)
	})
}

// failedHandler godoc
// @Summary Reportar error de escritura
// @Description reason: not_allowed, not_supported, not_readable, network, aborted, timeout (otro => generic).
// @Tags nfc
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param sessionID path string true "ID de la sesión"
// @Param payload body failedRequest true "Razón"
// @Success 200 {object} Session
// @Failure 404 {string} string "pairing session not found"
// @Failure 409 {string} string "invalid pairing transition"
// @Router /pets/{petID}/nfc/pairing/{sessionID}/failed [post]
func failedHandler(svc *Service) http.HandlerFunc {
	return sessionAction(func(r *http.Request, userID, petID, sid string) (Session, error) {
		var req failedRequest
		if err := decodeBody(r, &req); err != nil {
			return Session{}, err
		}
		return svc.Fail(r.Context(), petID, userID, sid, req.Reason)
	})
}

func sessionAction(fn func(r *http.Request, userID, petID, sid string) (Session, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		sess, err := fn(r, userID, chi.URLParam(r, "petID"), chi.URLParam(r, "sessionID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

// decodeBody acepta body vacío.
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return errInvalidJSON
	}
	return nil
}

var errInvalidJSON = errors.New("invalid json")

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errInvalidJSON):
		http.Error(w, "invalid json", http.StatusBadRequest)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, pets.ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, pets.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, "pairing session not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidTransition):
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
