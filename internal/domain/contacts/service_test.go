package contacts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-tag/internal/domain/pets"
)

type fakePets struct {
	byOwner map[string][]pets.Pet
}

func (f fakePets) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	return f.byOwner[ownerUserID], nil
}

type fakeRepo struct {
	rows []Contact
}

func (r *fakeRepo) CreateMany(ctx context.Context, cs []Contact) error {
	r.rows = append(r.rows, cs...)
	return nil
}

func (r *fakeRepo) ListByPet(ctx context.Context, petID string) ([]Contact, error) {
	return r.ListByPets(ctx, []string{petID})
}

func (r *fakeRepo) ListByPets(ctx context.Context, petIDs []string) ([]Contact, error) {
	want := map[string]bool{}
	for _, id := range petIDs {
		want[id] = true
	}
	var out []Contact
	for _, c := range r.rows {
		if want[c.PetID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepo) ReplaceForPets(ctx context.Context, byPet map[string][]Contact) error {
	kept := r.rows[:0]
	for _, c := range r.rows {
		if _, replaced := byPet[c.PetID]; !replaced {
			kept = append(kept, c)
		}
	}
	r.rows = kept
	for _, cs := range byPet {
		r.rows = append(r.rows, cs...)
	}
	return nil
}

func TestNormalizer(t *testing.T) {
	n := NewNormalizer("it")

	assert.Equal(t, "+393471234567", n.Phone("347 123 4567"))
	assert.Equal(t, "+393471234567", n.Phone("+39 347-123-4567"))
	assert.Equal(t, "12", n.Phone(" 1 2 "))
	assert.Equal(t, "", n.Phone("  "))
	assert.Equal(t, "ana@example.com", n.Email("  Ana@Example.COM "))
	assert.Equal(t, "393471234567", Digits("+39 347-123-4567"))
}

func TestPrepare(t *testing.T) {
	svc := NewService(&fakeRepo{}, fakePets{}, "IT")

	cs, err := svc.Prepare("p1", []Input{
		{Name: "Ana", Email: "ANA@x.it"},
		{},
		{Name: "Ana bis", Email: "ana@x.it "},
		{Name: "Bob", Phone: "3471234567"},
	})
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, "Ana", cs[0].Name)
	assert.Equal(t, "+393471234567", cs[1].Phone)
	assert.True(t, cs[0].CreatedAt.Before(cs[1].CreatedAt))

	_, err = svc.Prepare("p1", []Input{{Name: "No contact"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Prepare("p1", []Input{{Email: "a@b.c"}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDedup_TieBreak(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	cs := []Contact{
		{ID: "c", PetID: "p1", Name: "Old", Email: "a@x.it", CreatedAt: t0, UpdatedAt: t0},
		{ID: "b", PetID: "p2", Name: "New", Email: "a@x.it", CreatedAt: t0.Add(time.Hour), UpdatedAt: t0.Add(2 * time.Hour)},
		{ID: "z", PetID: "p1", Name: "Tel later", Phone: "+391", CreatedAt: t0.Add(time.Minute), UpdatedAt: t0},
		{ID: "y", PetID: "p2", Name: "Tel first", Phone: "+391", CreatedAt: t0, UpdatedAt: t0},
		{ID: "2", PetID: "p1", Name: "Same", Email: "s@x.it", CreatedAt: t0, UpdatedAt: t0},
		{ID: "1", PetID: "p2", Name: "Same id1", Email: "s@x.it", CreatedAt: t0, UpdatedAt: t0},
	}

	got := Dedup(cs)
	require.Len(t, got, 3)

	byKey := map[string]Contact{}
	for _, c := range got {
		byKey[c.Key()] = c
	}
	assert.Equal(t, "New", byKey["a@x.it"].Name)
	assert.Equal(t, "Tel first", byKey["tel:+391"].Name)
	assert.Equal(t, "Same id1", byKey["s@x.it"].Name)

	// orden por created_at
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "y", got[1].ID)
	assert.Equal(t, "b", got[2].ID)
}

func TestReplaceForOwner(t *testing.T) {
	repo := &fakeRepo{}
	ps := fakePets{byOwner: map[string][]pets.Pet{
		"owner": {{ID: "p1", OwnerUserID: "owner"}, {ID: "p2", OwnerUserID: "owner"}},
	}}
	svc := NewService(repo, ps, "IT")
	ctx := context.Background()

	_, err := svc.ReplaceForOwner(ctx, "nobody", []Input{{Name: "A", Email: "a@x.it"}})
	assert.ErrorIs(t, err, ErrNoPets)

	_, err = svc.CreateForPet(ctx, "p1", []Input{{Name: "Old", Email: "old@x.it"}})
	require.NoError(t, err)

	out, err := svc.ReplaceForOwner(ctx, "owner", []Input{
		{Name: "Ana", Email: "ana@x.it"},
		{Name: "Bob", Phone: "3471234567"},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Len(t, repo.rows, 4)

	list, err := svc.ListForOwner(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana", list[0].Name)
	assert.Equal(t, "Bob", list[1].Name)

	onP2, err := svc.ListByPet(ctx, "p2")
	require.NoError(t, err)
	assert.Len(t, onP2, 2)
}
