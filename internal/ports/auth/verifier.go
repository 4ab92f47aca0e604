package auth

import (
	"context"
	"time"
)

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// SessionIssuer emite el token de sesión después de autenticar.
type SessionIssuer interface {
	Issue(userID, email string) (token string, expiresAt time.Time, err error)
}

// IdentityProvider es el flujo authorization-code de un proveedor OAuth.
type IdentityProvider interface {
	IsConfigured() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (Identity, error)
}
