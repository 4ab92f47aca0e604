package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestClient(t *testing.T, userinfo string) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(userinfo))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewClient(Config{ClientID: "cid", ClientSecret: "secret", RedirectURL: "http://localhost/auth/callback"}, nil)
	c.oauth.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	c.userInfoURL = srv.URL + "/userinfo"
	return c
}

func TestClient_Exchange(t *testing.T) {
	c := newTestClient(t, `{"sub":"g-42","email":"Owner@Example.COM","email_verified":true}`)

	p, err := c.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "g-42", p.Subject)
	assert.Equal(t, "owner@example.com", p.Email)
	assert.True(t, p.EmailVerified)
}

func TestClient_Exchange_MissingSub(t *testing.T) {
	c := newTestClient(t, `{"email":"x@y.z"}`)

	_, err := c.Exchange(context.Background(), "the-code")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient(Config{}, nil)
	assert.False(t, c.IsConfigured())

	_, err := c.Exchange(context.Background(), "code")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_AuthCodeURL(t *testing.T) {
	c := NewClient(Config{ClientID: "cid", ClientSecret: "s", RedirectURL: "http://localhost/auth/callback"}, nil)

	u, err := url.Parse(c.AuthCodeURL("st-1"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "st-1", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "cid", q.Get("client_id"))
}
