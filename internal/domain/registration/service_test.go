package registration

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kvmemory "pet-tag/internal/adapters/kv/memory"
	objmemory "pet-tag/internal/adapters/objects/memory"
	storememory "pet-tag/internal/adapters/storage/memory"
	"pet-tag/internal/domain/contacts"
	"pet-tag/internal/domain/pets"
)

// failingPhotos falla en el índice indicado y delega el resto a memoria.
type failingPhotos struct {
	*objmemory.Store
	failAt int
	calls  int
}

func (f *failingPhotos) Put(ctx context.Context, key, ct string, body io.Reader) (string, error) {
	f.calls++
	if f.calls-1 == f.failAt {
		return "", errors.New("upload failed")
	}
	return f.Store.Put(ctx, key, ct, body)
}

type failingWriter struct{}

func (failingWriter) CreatePetWithContacts(ctx context.Context, p pets.Pet, cs []contacts.Contact) error {
	return errors.New("db down")
}

type fixture struct {
	svc      *Service
	petRepo  *storememory.PetRepo
	contacts *storememory.ContactRepo
	photos   *failingPhotos
	drafts   *kvmemory.Store
}

func newFixture(t *testing.T, writer Writer) fixture {
	t.Helper()
	petRepo := storememory.NewPetRepo()
	contactRepo := storememory.NewContactRepo()
	petsSvc := pets.NewService(petRepo, nil)
	photos := &failingPhotos{Store: objmemory.NewStore(), failAt: -1}
	drafts := kvmemory.NewStore()

	if writer == nil {
		writer = storememory.NewRegistrationWriter(petRepo, contactRepo)
	}
	svc := NewService(Deps{
		Drafts:   drafts,
		Pets:     petsSvc,
		Contacts: contacts.NewService(contactRepo, petsSvc, "IT"),
		Writer:   writer,
		Photos:   photos,
	})
	return fixture{svc: svc, petRepo: petRepo, contacts: contactRepo, photos: photos, drafts: drafts}
}

func validSubmission() Submission {
	return Submission{
		Owners: []contacts.Input{{Name: "Ana", Phone: "347 123 4567"}, {}},
		Pet:    PetFields{Name: "Luna", Gender: "female", BirthDate: "2021-04-02", MicrochipCode: "380260"},
	}
}

func TestDraft_Lifecycle(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	d, err := f.svc.GetDraft(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, StepIntro, d.Step)
	assert.Len(t, d.Owners, 1)

	_, err = f.svc.Back(ctx, "u1")
	assert.ErrorIs(t, err, ErrBadState)

	owners := []contacts.Input{{Name: "Ana", Email: "ana@x.it"}}
	_, err = f.svc.UpdateDraft(ctx, "u1", DraftUpdate{Owners: &owners})
	require.NoError(t, err)

	for i := 0; i < int(StepSummary); i++ {
		d, err = f.svc.Next(ctx, "u1")
		require.NoError(t, err)
	}
	assert.Equal(t, StepSummary, d.Step)
	assert.Equal(t, "summary", d.Step.String())
	assert.Equal(t, "Ana", d.Owners[0].Name)

	_, err = f.svc.Next(ctx, "u1")
	assert.ErrorIs(t, err, ErrBadState)

	bad := 4
	_, err = f.svc.UpdateDraft(ctx, "u1", DraftUpdate{PhotoCount: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, f.svc.DiscardDraft(ctx, "u1"))
	d, _ = f.svc.GetDraft(ctx, "u1")
	assert.Equal(t, StepIntro, d.Step)
}

func TestSubmit_Success(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Next(ctx, "u1")
	require.NoError(t, err)

	sub := validSubmission()
	sub.Photos = []Photo{
		{ContentType: "image/jpeg", Data: []byte("a")},
		{ContentType: "image/png", Data: []byte("b")},
		{ContentType: "image/webp", Data: []byte("c")},
	}
	f.photos.failAt = 1

	res, err := f.svc.Submit(ctx, "u1", sub)
	require.NoError(t, err)
	assert.Equal(t, 1, res.SkippedPhotos)
	assert.Len(t, res.Pet.Photos(), 2)
	assert.True(t, res.Pet.Microchip)
	require.Len(t, res.Contacts, 1)
	assert.Equal(t, "+393471234567", res.Contacts[0].Phone)

	stored, err := f.petRepo.GetByID(ctx, res.Pet.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Pet.Slug, stored.Slug)

	cs, _ := f.contacts.ListByPet(ctx, res.Pet.ID)
	assert.Len(t, cs, 1)

	// El borrador se borra después del submit.
	d, _ := f.svc.GetDraft(ctx, "u1")
	assert.Equal(t, StepIntro, d.Step)
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	sub := validSubmission()
	sub.Pet.Name = " "
	_, err := f.svc.Submit(ctx, "u1", sub)
	assert.ErrorIs(t, err, ErrInvalidInput)

	sub = validSubmission()
	sub.Owners = []contacts.Input{{}}
	_, err = f.svc.Submit(ctx, "u1", sub)
	assert.ErrorIs(t, err, ErrInvalidInput)

	sub = validSubmission()
	sub.Owners = []contacts.Input{{Name: "No contact"}}
	_, err = f.svc.Submit(ctx, "u1", sub)
	assert.ErrorIs(t, err, ErrInvalidInput)

	sub = validSubmission()
	sub.Pet.BirthDate = "02/04/2021"
	_, err = f.svc.Submit(ctx, "u1", sub)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, 0, f.photos.Len())
}

func TestSubmit_WriteFailsCleansPhotos(t *testing.T) {
	f := newFixture(t, failingWriter{})
	ctx := context.Background()

	sub := validSubmission()
	sub.Photos = []Photo{{ContentType: "image/jpeg", Data: []byte("a")}}

	_, err := f.svc.Submit(ctx, "u1", sub)
	require.Error(t, err)
	assert.Equal(t, 1, f.photos.calls)
	assert.Equal(t, 0, f.photos.Len())
}
