package profile

import (
	"net/url"

	"pet-tag/internal/domain/contacts"
	"pet-tag/internal/domain/pets"
)

// GeoTimeout es el timeout de geolocalización que usa la página (ms).
const GeoTimeout = 10_000

// View es la vista pública de la mascota: sin owner id ni código de microchip.
type View struct {
	ID          string          `json:"id"`
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Nickname    string          `json:"nickname,omitempty"`
	City        string          `json:"city,omitempty"`
	Province    string          `json:"province,omitempty"`
	Gender      pets.Gender     `json:"gender,omitempty"`
	Microchip   bool            `json:"microchip"`
	Likes       string          `json:"likes,omitempty"`
	Fears       string          `json:"fears,omitempty"`
	HealthNotes string          `json:"health_notes,omitempty"`
	Photos      []string        `json:"photos"`
	Contacts    []ContactAction `json:"contacts"`
}

// ContactAction son los links para contactar a un dueño.
type ContactAction struct {
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	TelURL      string `json:"tel_url,omitempty"`
	WhatsAppURL string `json:"whatsapp_url,omitempty"`
	MailURL     string `json:"mail_url,omitempty"`
}

func greeting(petName string) string {
	return "Ciao! Ho trovato il tuo cane " + petName + "!"
}

func newContactAction(c contacts.Contact, petName string) ContactAction {
	a := ContactAction{Name: c.Name, Phone: c.Phone, Email: c.Email}
	if c.Phone != "" {
		a.TelURL = "tel:" + c.Phone
		if d := contacts.Digits(c.Phone); d != "" {
			a.WhatsAppURL = "https://wa.me/" + d + "?text=" + url.QueryEscape(greeting(petName))
		}
	}
	if c.Email != "" {
		a.MailURL = "mailto:" + c.Email
	}
	return a
}

func newView(p pets.Pet, cs []contacts.Contact) View {
	v := View{
		ID:          p.ID,
		Slug:        p.Slug,
		Name:        p.Name,
		Nickname:    p.Nickname,
		City:        p.City,
		Province:    p.Province,
		Gender:      p.Gender,
		Microchip:   p.Microchip,
		Likes:       p.Likes,
		Fears:       p.Fears,
		HealthNotes: p.HealthNotes,
		Photos:      p.Photos(),
		Contacts:    make([]ContactAction, 0, len(cs)),
	}
	for _, c := range cs {
		v.Contacts = append(v.Contacts, newContactAction(c, p.Name))
	}
	return v
}
