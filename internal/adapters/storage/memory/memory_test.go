package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-tag/internal/domain/contacts"
	"pet-tag/internal/domain/pets"
	"pet-tag/internal/domain/scans"
	"pet-tag/internal/domain/users"
)

func TestPetRepo_SlugUnique(t *testing.T) {
	r := NewPetRepo()
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, pets.Pet{ID: "p1", OwnerUserID: "o", Slug: "luna-aaaaa"}))
	assert.ErrorIs(t, r.Create(ctx, pets.Pet{ID: "p2", OwnerUserID: "o", Slug: "luna-aaaaa"}), pets.ErrSlugTaken)

	got, err := r.GetBySlug(ctx, "luna-aaaaa")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)

	// El slug no cambia con Update.
	require.NoError(t, r.Update(ctx, pets.Pet{ID: "p1", OwnerUserID: "o", Name: "Luna", Slug: "other"}))
	got, _ = r.GetByID(ctx, "p1")
	assert.Equal(t, "luna-aaaaa", got.Slug)

	assert.ErrorIs(t, r.Update(ctx, pets.Pet{ID: "missing"}), pets.ErrNotFound)
}

func TestUserRepo_Unique(t *testing.T) {
	r := NewUserRepo()
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, users.User{ID: "u1", Email: "a@b.it"}))
	require.NoError(t, r.Create(ctx, users.User{ID: "u2", GoogleSub: "g"}))
	require.NoError(t, r.Create(ctx, users.User{ID: "u3", GoogleSub: "h"}))
	assert.ErrorIs(t, r.Create(ctx, users.User{ID: "u4", Email: "a@b.it"}), users.ErrConflict)

	_, err := r.GetByEmail(ctx, "")
	assert.ErrorIs(t, err, users.ErrNotFound)
}

func TestRegistrationWriter_RollsBack(t *testing.T) {
	pr, cr := NewPetRepo(), NewContactRepo()
	w := NewRegistrationWriter(pr, cr)
	ctx := context.Background()

	err := w.CreatePetWithContacts(ctx, pets.Pet{ID: "p1", Slug: "a-00000"}, []contacts.Contact{{ID: "", PetID: "p1"}})
	require.Error(t, err)
	_, err = pr.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, pets.ErrNotFound)

	require.NoError(t, w.CreatePetWithContacts(ctx, pets.Pet{ID: "p1", Slug: "a-00000"}, []contacts.Contact{{ID: "c1", PetID: "p1", Name: "Ana"}}))
	cs, _ := cr.ListByPet(ctx, "p1")
	assert.Len(t, cs, 1)
}

func TestScanRepo_NewestFirst(t *testing.T) {
	r := NewScanRepo()
	ctx := context.Background()
	t0 := time.Now()

	require.NoError(t, r.Create(ctx, scans.Scan{ID: "s1", PetID: "p1", CreatedAt: t0}))
	require.NoError(t, r.Create(ctx, scans.Scan{ID: "s2", PetID: "p1", CreatedAt: t0.Add(time.Second)}))
	require.NoError(t, r.Create(ctx, scans.Scan{ID: "s3", PetID: "p2", CreatedAt: t0.Add(2 * time.Second)}))

	got, err := r.ListByPets(ctx, []string{"p1"}, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s2", got[0].ID)

	counts, _ := r.CountByPets(ctx, []string{"p1", "p2", "p3"})
	assert.Equal(t, map[string]int{"p1": 2, "p2": 1}, counts)
}
