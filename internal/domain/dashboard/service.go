package dashboard

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"pet-tag/internal/domain/pets"
)

type PetLister interface {
	ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error)
}

type ScanCounter interface {
	CountByPet(ctx context.Context, petIDs []string) (map[string]int, error)
}

// Card es una mascota en el dashboard.
type Card struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Photo        string `json:"photo,omitempty"`
	NFCConnected bool   `json:"nfc_connected"`
	TagID        string `json:"tag_id,omitempty"`
	ScanCount    int    `json:"scan_count"`
	ManageURL    string `json:"manage_url"`
	NFCURL       string `json:"nfc_url"`
	PublicURL    string `json:"public_url"`
}

type Links struct {
	Logs     string `json:"logs"`
	Contacts string `json:"contacts"`
	Register string `json:"register"`
	Help     string `json:"help"`
}

type Dashboard struct {
	Pets  []Card `json:"pets"`
	Links Links  `json:"links"`
}

type Service struct {
	pets         PetLister
	scans        ScanCounter
	supportEmail string
}

func NewService(p PetLister, s ScanCounter, supportEmail string) *Service {
	return &Service{pets: p, scans: s, supportEmail: strings.TrimSpace(supportEmail)}
}

func (s *Service) Get(ctx context.Context, ownerUserID string) (Dashboard, error) {
	items, err := s.pets.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list pets: %w", err)
	}

	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	counts := map[string]int{}
	if len(ids) > 0 {
		if counts, err = s.scans.CountByPet(ctx, ids); err != nil {
			return Dashboard{}, fmt.Errorf("count scans: %w", err)
		}
	}

	out := Dashboard{Pets: make([]Card, 0, len(items)), Links: s.links()}
	for _, p := range items {
		out.Pets = append(out.Pets, Card{
			ID:           p.ID,
			Name:         p.Name,
			Photo:        p.FirstPhoto(),
			NFCConnected: p.NFCConnected,
			TagID:        p.TagID,
			ScanCount:    counts[p.ID],
			ManageURL:    "/pets/" + p.ID,
			NFCURL:       "/pets/" + p.ID + "/nfc",
			PublicURL:    "/p/" + p.ID,
		})
	}
	return out, nil
}

func (s *Service) links() Links {
	l := Links{Logs: "/scans", Contacts: "/contacts", Register: "/register"}
	if s.supportEmail != "" {
		l.Help = "mailto:" + s.supportEmail + "?subject=" + url.PathEscape("Aiuto Pet Tag")
	}
	return l
}
