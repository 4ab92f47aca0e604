package scans

import "context"

type Repository interface {
	Create(ctx context.Context, s Scan) error

	// SetLocation devuelve ErrScanNotFound si no hay scan con ese id para la
	// mascota, y ErrLocationSet si ya tenía coordenadas.
	SetLocation(ctx context.Context, petID, scanID string, lat, lng float64) error

	// ListByPets ordena por created_at desc.
	ListByPets(ctx context.Context, petIDs []string, limit int) ([]Scan, error)
	CountByPets(ctx context.Context, petIDs []string) (map[string]int, error)
}
