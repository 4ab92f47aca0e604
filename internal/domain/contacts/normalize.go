package contacts

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Normalizer pasa teléfonos a E.164 usando la región por defecto
// cuando el número no trae prefijo internacional.
type Normalizer struct {
	region string
}

func NewNormalizer(defaultRegion string) Normalizer {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = "IT"
	}
	return Normalizer{region: region}
}

// Phone devuelve E.164 si el número es válido; si no, el valor sin espacios.
func (n Normalizer) Phone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	num, err := phonenumbers.Parse(raw, n.region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return strings.Join(strings.Fields(raw), "")
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

func (n Normalizer) Email(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Digits deja solo los dígitos (para links wa.me).
func Digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
