package pets

import (
	"strings"
	"time"
)

// Gender es opcional: "" = no indicado.
// @Enum MALE, FEMALE
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderUnset  Gender = ""
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnset:
		return true
	}
	return false
}

// ParseGender acepta mayúsculas/minúsculas.
func ParseGender(s string) (Gender, bool) {
	g := Gender(strings.ToUpper(strings.TrimSpace(s)))
	return g, g.Valid()
}

// PhotoSlots es la cantidad de fotos por mascota (image_url, image_url_2, image_url_3).
const PhotoSlots = 3

// Pet es el perfil de la mascota asociado al tag NFC. Nunca se borra.
type Pet struct {
	ID          string
	OwnerUserID string

	Name     string
	Nickname string
	City     string
	Province string
	Region   string
	Gender   Gender

	BirthDate     *time.Time
	Microchip     bool
	MicrochipCode string

	Likes       string
	Fears       string
	HealthNotes string

	// slot 0..2; "" = vacío
	PhotoURLs [PhotoSlots]string

	NFCConnected bool
	TagID        string

	Slug string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FirstPhoto devuelve la primera foto cargada, o "".
func (p Pet) FirstPhoto() string {
	for _, u := range p.PhotoURLs {
		if u != "" {
			return u
		}
	}
	return ""
}

// Photos devuelve solo los slots cargados, en orden.
func (p Pet) Photos() []string {
	out := make([]string, 0, PhotoSlots)
	for _, u := range p.PhotoURLs {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}
