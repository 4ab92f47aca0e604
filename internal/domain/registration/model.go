package registration

import (
	"time"

	"pet-tag/internal/domain/contacts"
)

// Step es el paso del wizard (lineal, sin ramas).
type Step int

const (
	StepIntro Step = iota
	StepContacts
	StepBaseInfo
	StepIdentity
	StepDetails
	StepPhotos
	StepSummary
)

var stepNames = [...]string{"intro", "contacts", "base_info", "identity", "details", "photos", "summary"}

func (s Step) String() string {
	if s < StepIntro || s > StepSummary {
		return "unknown"
	}
	return stepNames[s]
}

// PetFields son los datos de la mascota tal como los carga el wizard.
type PetFields struct {
	Name          string `json:"name"`
	Nickname      string `json:"nickname"`
	City          string `json:"city"`
	Province      string `json:"province"`
	Region        string `json:"region"`
	Gender        string `json:"gender"`
	BirthDate     string `json:"birth_date"` // YYYY-MM-DD
	Microchip     bool   `json:"microchip"`
	MicrochipCode string `json:"microchip_code"`
	Likes         string `json:"likes"`
	Fears         string `json:"fears"`
	HealthNotes   string `json:"health_notes"`
}

// Draft es el estado del wizard guardado en el servidor (TTL 24h).
type Draft struct {
	Step       Step             `json:"step"`
	Owners     []contacts.Input `json:"owners"`
	Pet        PetFields        `json:"pet"`
	PhotoCount int              `json:"photo_count"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func newDraft() Draft {
	// El formulario arranca con una fila de dueño vacía.
	return Draft{Step: StepIntro, Owners: []contacts.Input{{}}}
}

// DraftUpdate: nil = no tocar.
type DraftUpdate struct {
	Owners     *[]contacts.Input `json:"owners"`
	Pet        *PetFields        `json:"pet"`
	PhotoCount *int              `json:"photo_count"`
}

// Photo es un archivo recibido en el submit.
type Photo struct {
	ContentType string
	Data        []byte
}

// Submission es el payload final del wizard.
type Submission struct {
	Owners []contacts.Input `json:"owners"`
	Pet    PetFields        `json:"pet"`
	Photos []Photo          `json:"-"`
}
