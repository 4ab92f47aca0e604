package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"pet-tag/internal/platform/httpclient"
	"pet-tag/internal/ports/auth"
)

var _ auth.IdentityProvider = (*Client)(nil)

var (
	ErrNotConfigured = errors.New("google oauth not configured")
	ErrUpstream      = errors.New("google upstream error")
)

const userInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Client implementa el flujo authorization-code contra Google.
type Client struct {
	oauth       *oauth2.Config
	http        *httpclient.Client
	userInfoURL string
}

func NewClient(cfg Config, hc *httpclient.Client) *Client {
	if hc == nil {
		hc = httpclient.New(0)
	}
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     strings.TrimSpace(cfg.ClientID),
			ClientSecret: strings.TrimSpace(cfg.ClientSecret),
			RedirectURL:  strings.TrimSpace(cfg.RedirectURL),
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     googleoauth.Endpoint,
		},
		http:        hc,
		userInfoURL: userInfoURL,
	}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.oauth.ClientID != "" && c.oauth.ClientSecret != ""
}

// AuthCodeURL arma la URL de consentimiento (offline + prompt=consent).
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange canjea el code y trae el perfil del usuario.
func (c *Client) Exchange(ctx context.Context, code string) (auth.Identity, error) {
	if !c.IsConfigured() {
		return auth.Identity{}, ErrNotConfigured
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return auth.Identity{}, errors.New("code required")
	}

	// El cliente HTTP propio también lo usa oauth2 para el token endpoint.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http.HTTP)

	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return auth.Identity{}, fmt.Errorf("%w: exchange: %v", ErrUpstream, err)
	}

	var out struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := c.http.DoJSON(ctx, httpclient.Request{
		URL:    c.userInfoURL,
		Bearer: tok.AccessToken,
		Out:    &out,
	}); err != nil {
		return auth.Identity{}, fmt.Errorf("%w: userinfo: %v", ErrUpstream, err)
	}

	out.Sub = strings.TrimSpace(out.Sub)
	if out.Sub == "" {
		return auth.Identity{}, fmt.Errorf("%w: userinfo missing sub", ErrUpstream)
	}

	return auth.Identity{
		Subject:       out.Sub,
		Email:         strings.ToLower(strings.TrimSpace(out.Email)),
		EmailVerified: out.EmailVerified,
	}, nil
}
