package middleware

import (
	"net"
	"net/http"
	"strings"
)

// clientIP usa r.RemoteAddr (chi RealIP ya lo reescribe desde X-Forwarded-For).
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}
