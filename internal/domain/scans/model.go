package scans

import (
	"fmt"
	"time"
)

// MaxUserAgent es el largo máximo guardado del user agent.
const MaxUserAgent = 512

// Scan es una lectura del tag (o visita al perfil público). Append-only.
type Scan struct {
	ID        string
	PetID     string
	CreatedAt time.Time

	// Ambos o ninguno.
	Lat *float64
	Lng *float64

	UserAgent string
}

func (s Scan) HasLocation() bool {
	return s.Lat != nil && s.Lng != nil
}

// MapsURL devuelve el link a Google Maps, o "" si no hay coordenadas.
func (s Scan) MapsURL() string {
	if !s.HasLocation() {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/maps?q=%v,%v", *s.Lat, *s.Lng)
}

// Entry es un scan listo para la página de logs.
type Entry struct {
	Scan
	PetName string
}
