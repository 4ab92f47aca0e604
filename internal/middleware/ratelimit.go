package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"pet-tag/internal/platform/logger"
)

// Limiter cuenta hits por clave en una ventana fija.
type Limiter interface {
	// Allow registra un hit y devuelve si está dentro del límite y cuántos quedan.
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Limit() int
	Window() time.Duration
}

// RateLimit limita por IP (r.RemoteAddr ya resuelto por chi RealIP).
// Si el limiter falla, se deja pasar (fail open).
func RateLimit(l Limiter, prefix string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := prefix + clientIP(r)

			allowed, remaining, err := l.Allow(r.Context(), key)
			if err != nil {
				log.Warn("rate limiter unavailable", map[string]any{"err": err})
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.Limit()))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(l.Window().Seconds())))
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
