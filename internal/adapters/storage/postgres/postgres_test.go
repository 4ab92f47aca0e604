package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-tag/internal/domain/contacts"
	"pet-tag/internal/domain/pets"
	"pet-tag/internal/domain/scans"
	"pet-tag/internal/domain/users"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var t0 = time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

func samplePet() pets.Pet {
	return pets.Pet{
		ID:          "11111111-1111-1111-1111-111111111111",
		OwnerUserID: "22222222-2222-2222-2222-222222222222",
		Name:        "Luna",
		Gender:      pets.GenderFemale,
		PhotoURLs:   [pets.PhotoSlots]string{"https://cdn/a.jpg"},
		Slug:        "luna-abcde",
		CreatedAt:   t0,
		UpdatedAt:   t0,
	}
}

func petRow(p pets.Pet) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "owner_user_id", "name", "nickname", "city", "province", "region", "gender",
		"birth_date", "microchip", "microchip_code", "likes", "fears", "health_notes",
		"image_url", "image_url_2", "image_url_3", "nfc_connected", "tag_id", "slug",
		"created_at", "updated_at",
	}).AddRow(
		p.ID, p.OwnerUserID, p.Name, "", "Roma", "RM", "Lazio", string(p.Gender),
		nil, true, "380", "", "", "",
		p.PhotoURLs[0], "", "", true, "04:aa", p.Slug,
		p.CreatedAt, p.UpdatedAt,
	)
}

func TestPetsRepo_CreateSlugConflict(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)

	mock.ExpectExec(`(?s)INSERT INTO pets`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "pets_slug_key"})

	err := repo.Create(context.Background(), samplePet())
	assert.ErrorIs(t, err, pets.ErrSlugTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPetsRepo_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)
	p := samplePet()

	mock.ExpectQuery(`(?s)SELECT .* FROM pets WHERE id = \$1`).
		WithArgs(p.ID).
		WillReturnRows(petRow(p))

	got, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Luna", got.Name)
	assert.Equal(t, pets.GenderFemale, got.Gender)
	assert.Equal(t, "https://cdn/a.jpg", got.PhotoURLs[0])
	assert.True(t, got.NFCConnected)
	assert.Nil(t, got.BirthDate)

	mock.ExpectQuery(`(?s)SELECT .* FROM pets WHERE slug = \$1`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, pets.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPetsRepo_UpdateNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)

	mock.ExpectExec(`(?s)UPDATE pets`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), samplePet())
	assert.ErrorIs(t, err, pets.ErrNotFound)
}

func TestUsersRepo(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsersRepo(db)
	ctx := context.Background()

	mock.ExpectExec(`(?s)INSERT INTO users`).
		WithArgs("u1", sql.NullString{}, sql.NullString{}, "g-1", t0, t0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Create(ctx, users.User{ID: "u1", GoogleSub: "g-1", CreatedAt: t0, UpdatedAt: t0}))

	mock.ExpectExec(`(?s)INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	assert.ErrorIs(t, repo.Create(ctx, users.User{ID: "u2", Email: "a@b.it"}), users.ErrConflict)

	mock.ExpectQuery(`(?s)FROM users\s+WHERE email = \$1`).
		WithArgs("a@b.it").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "google_sub", "created_at", "updated_at"}).
			AddRow("u3", "a@b.it", "$argon2id$x", nil, t0, t0))
	u, err := repo.GetByEmail(ctx, "a@b.it")
	require.NoError(t, err)
	assert.Equal(t, "u3", u.ID)
	assert.Equal(t, "", u.GoogleSub)

	_, err = repo.GetByGoogleSub(ctx, " ")
	assert.ErrorIs(t, err, users.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactsRepo_ReplaceRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContactsRepo(db)

	c := contacts.Contact{ID: "c1", PetID: "p1", Name: "Ana", Email: "ana@x.it", CreatedAt: t0, UpdatedAt: t0}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM family_members WHERE pet_id = \$1`).WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`(?s)INSERT INTO family_members`).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.ReplaceForPets(context.Background(), map[string][]contacts.Contact{"p1": {c}})
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationWriter_Commit(t *testing.T) {
	db, mock := newMock(t)
	w := NewRegistrationWriter(db)
	p := samplePet()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)INSERT INTO pets`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)INSERT INTO family_members`).
		WithArgs("c1", p.ID, "Ana", "+393471234567", "", t0, t0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := w.CreatePetWithContacts(context.Background(), p, []contacts.Contact{
		{ID: "c1", PetID: p.ID, Name: "Ana", Phone: "+393471234567", CreatedAt: t0, UpdatedAt: t0},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScansRepo_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewScansRepo(db)

	lat, lng := 41.9, 12.5
	mock.ExpectExec(`(?s)INSERT INTO scans`).
		WithArgs("s1", "p1", t0, sql.NullFloat64{Float64: lat, Valid: true}, sql.NullFloat64{Float64: lng, Valid: true}, "ua").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), scans.Scan{ID: "s1", PetID: "p1", CreatedAt: t0, Lat: &lat, Lng: &lng, UserAgent: "ua"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPetsRepo_MalformedIDIsNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)
	ctx := context.Background()

	// Ninguna query: un id que no es UUID no llega a Postgres.
	_, err := repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, pets.ErrNotFound)

	p := samplePet()
	p.ID = "abc"
	assert.ErrorIs(t, repo.Update(ctx, p), pets.ErrNotFound)

	items, err := repo.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = NewUsersRepo(db).GetByID(ctx, "u1")
	assert.ErrorIs(t, err, users.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScansRepo_SetLocation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewScansRepo(db)
	ctx := context.Background()

	petID := "11111111-1111-1111-1111-111111111111"
	scanID := "33333333-3333-3333-3333-333333333333"

	mock.ExpectExec(`(?s)UPDATE scans SET lat = \$3, lng = \$4\s+WHERE id = \$1 AND pet_id = \$2 AND lat IS NULL`).
		WithArgs(scanID, petID, 44.49, 11.34).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetLocation(ctx, petID, scanID, 44.49, 11.34))

	// Segunda vez: no actualiza y el scan existe.
	mock.ExpectExec(`(?s)UPDATE scans`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(scanID, petID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	assert.ErrorIs(t, repo.SetLocation(ctx, petID, scanID, 1, 2), scans.ErrLocationSet)

	mock.ExpectExec(`(?s)UPDATE scans`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	assert.ErrorIs(t, repo.SetLocation(ctx, petID, scanID, 1, 2), scans.ErrScanNotFound)

	assert.ErrorIs(t, repo.SetLocation(ctx, petID, "nope", 1, 2), scans.ErrScanNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
