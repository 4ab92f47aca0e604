package pets

import (
	"math/rand/v2"
	"strings"
	"unicode"
)

const (
	slugSuffixLen = 5
	base36        = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Slug arma "<nombre-normalizado>-<5 chars base36>".
func Slug(name string) string {
	return slugBase(name) + "-" + randomSuffix(slugSuffixLen)
}

func slugBase(name string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsSpace(r):
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		case r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevDash = r == '-'
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "pet"
	}
	return out
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = base36[rand.IntN(len(base36))]
	}
	return string(buf)
}
