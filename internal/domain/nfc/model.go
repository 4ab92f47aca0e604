package nfc

import (
	"time"

	"pet-tag/internal/ports/capabilities"
)

// State del pairing: idle → scanning → (confirm) → writing → success | error.
type State string

const (
	StateIdle     State = "idle"
	StateScanning State = "scanning"
	StateConfirm  State = "confirm"
	StateWriting  State = "writing"
	StateSuccess  State = "success"
	StateError    State = "error"
)

func (s State) Terminal() bool {
	return s == StateIdle || s == StateSuccess || s == StateError
}

// Session es una sesión de pairing guardada en el kv store (TTL 10 min).
type Session struct {
	ID              string                `json:"id"`
	PetID           string                `json:"pet_id"`
	OwnerUserID     string                `json:"owner_user_id"`
	State           State                 `json:"state"`
	Platform        capabilities.Platform `json:"platform"`
	TargetURL       string                `json:"target_url"`
	ExistingContent []string              `json:"existing_content,omitempty"`
	SerialNumber    string                `json:"serial_number,omitempty"`
	Reason          Reason                `json:"reason,omitempty"`
	Message         string                `json:"message,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	ExpiresAt       time.Time             `json:"expires_at"`
}

// Reason identifica la causa de un error de pairing.
type Reason string

const (
	ReasonNotAllowed          Reason = "not_allowed"
	ReasonNotSupported        Reason = "not_supported"
	ReasonNotReadable         Reason = "not_readable"
	ReasonNetwork             Reason = "network"
	ReasonAborted             Reason = "aborted"
	ReasonTimeout             Reason = "timeout"
	ReasonUnsupportedPlatform Reason = "unsupported_platform"
	ReasonGeneric             Reason = "generic"
)

var reasonMessages = map[Reason]string{
	ReasonNotAllowed:          "NFC permission was denied. Allow NFC for this site in the browser settings and try again.",
	ReasonNotSupported:        "This device cannot write NFC tags.",
	ReasonNotReadable:         "The tag could not be read. Hold the phone still on the tag and try again.",
	ReasonNetwork:             "The tag moved away while writing. Keep the phone on the tag until it finishes.",
	ReasonAborted:             "The operation was cancelled.",
	ReasonTimeout:             "No tag detected in time. Bring the tag closer and try again.",
	ReasonUnsupportedPlatform: "This browser cannot write NFC tags. Follow the manual instructions.",
	ReasonGeneric:             "Something went wrong while writing the tag. Try again.",
}

// ParseReason normaliza la razón que manda el cliente; lo desconocido es generic.
// Acepta también los nombres de DOMException de Web NFC.
func ParseReason(s string) Reason {
	switch s {
	case "not_allowed", "NotAllowedError":
		return ReasonNotAllowed
	case "not_supported", "NotSupportedError":
		return ReasonNotSupported
	case "not_readable", "NotReadableError":
		return ReasonNotReadable
	case "network", "NetworkError":
		return ReasonNetwork
	case "aborted", "AbortError":
		return ReasonAborted
	case "timeout", "TimeoutError":
		return ReasonTimeout
	default:
		return ReasonGeneric
	}
}

func (r Reason) Message() string {
	if m, ok := reasonMessages[r]; ok {
		return m
	}
	return reasonMessages[ReasonGeneric]
}

// TagRecord es un record tal como lo reporta el navegador al leer el tag.
// Data va en base64; para records "url" alcanza con URL.
type TagRecord struct {
	RecordType string `json:"record_type"`
	Data       []byte `json:"data,omitempty"`
	URL        string `json:"url,omitempty"`
}

// ReadInput es lo leído del tag antes de escribir.
type ReadInput struct {
	SerialNumber string
	Records      []TagRecord
	// Message es el mensaje NDEF crudo, alternativo a Records.
	Message []byte
}

// Status es la vista de la página de configuración NFC de una mascota.
type Status struct {
	PetID        string                `json:"pet_id"`
	PetName      string                `json:"pet_name"`
	URL          string                `json:"url"`
	NDEFMessage  []byte                `json:"ndef_message"`
	Platform     capabilities.Platform `json:"platform"`
	Supported    bool                  `json:"supported"`
	Instructions []string              `json:"instructions,omitempty"`
	NFCConnected bool                  `json:"nfc_connected"`
	TagID        string                `json:"tag_id,omitempty"`
}

// Instructions arma los pasos manuales cuando el navegador no puede escribir.
func Instructions(p capabilities.Platform, url string) []string {
	switch p {
	case capabilities.PlatformIOS:
		return []string{
			"Install an NFC writer app (for example NFC Tools) from the App Store.",
			"Choose Write, add a URL record and paste: " + url,
			"Hold the top of the iPhone over the tag until the write completes.",
			"Come back here and mark the tag as connected.",
		}
	case capabilities.PlatformAndroid:
		return []string{
			"Open this page in Chrome for Android to write the tag directly.",
			"Or use an NFC writer app and write a URL record with: " + url,
		}
	default:
		return []string{
			"Open this page on an Android phone with Chrome to write the tag.",
			"Or write a URL record with an NFC writer app on your phone: " + url,
		}
	}
}
