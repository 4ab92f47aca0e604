package pets

import "context"

// OwnerOf expone el ownerUserID de una mascota.
// Lo usan scans y nfc sin depender del modelo completo.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerUserID, nil
}

// GetOwned devuelve la mascota solo si pertenece a ownerUserID.
func (s *Service) GetOwned(ctx context.Context, petID, ownerUserID string) (Pet, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerUserID != ownerUserID {
		return Pet{}, ErrForbidden
	}
	return p, nil
}
