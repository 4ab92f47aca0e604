package nfc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-tag/internal/middleware"
)

func TestHandlers_PairingFlow(t *testing.T) {
	svc, _, p := newTestService(t)

	r := chi.NewRouter()
	r.Use(middleware.AuthContext(nil))
	RegisterRoutes(r, svc)

	do := func(method, path, body, user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("User-Agent", androidChrome)
		if user != "" {
			req.Header.Set("X-Debug-User-ID", user)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	base := "/pets/" + p.ID + "/nfc"

	rec := do(http.MethodGet, base, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(http.MethodGet, base, "", "owner-1")
	require.Equal(t, http.StatusOK, rec.Code)
	var st Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.True(t, st.Supported)

	rec = do(http.MethodPost, base+"/pairing", "", "owner-1")
	require.Equal(t, http.StatusCreated, rec.Code)
	var sess Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))

	rec = do(http.MethodPost, base+"/pairing/"+sess.ID+"/confirm", "", "owner-1")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(http.MethodPost, base+"/pairing/"+sess.ID+"/read", `{"serial_number":"sn-1","records":[{"record_type":"text","data":"aGk="}]}`, "owner-1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.Equal(t, StateConfirm, sess.State)

	rec = do(http.MethodPost, base+"/pairing/"+sess.ID+"/confirm", "", "owner-1")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(http.MethodPost, base+"/pairing/"+sess.ID+"/written", `{"serial_number":"sn-1"}`, "owner-1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.Equal(t, StateSuccess, sess.State)

	rec = do(http.MethodGet, base+"/pairing/missing", "", "owner-1")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(http.MethodPost, base+"/pairing/"+sess.ID+"/read", `{bad`, "owner-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodDelete, base, "", "owner-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"nfc_connected":false`)

	// Camino manual: sin sesión de pairing.
	rec = do(http.MethodPost, base+"/manual", `{"serial_number":"04:aa"}`, "intruder")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(http.MethodPost, base+"/manual", `{"serial_number":"04:aa"}`, "owner-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"nfc_connected":true`)
	assert.Contains(t, rec.Body.String(), `"tag_id":"04:aa"`)
}
