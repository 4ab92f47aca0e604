package contacts

import (
	"strings"
	"time"
)

// Contact es un familiar/dueño de contacto de una mascota (tabla family_members).
type Contact struct {
	ID    string
	PetID string

	Name  string
	Phone string // E.164 cuando se pudo parsear
	Email string // trim + lower

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key identifica al contacto entre mascotas del mismo dueño:
// email, si no teléfono, si no nombre.
func (c Contact) Key() string {
	switch {
	case c.Email != "":
		return c.Email
	case c.Phone != "":
		return "tel:" + c.Phone
	default:
		return "name:" + strings.ToLower(strings.TrimSpace(c.Name))
	}
}

// Input es una fila tal como llega del formulario.
type Input struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (in Input) Blank() bool {
	return strings.TrimSpace(in.Name) == "" &&
		strings.TrimSpace(in.Phone) == "" &&
		strings.TrimSpace(in.Email) == ""
}
