package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-tag/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

// email y google_sub vacíos se guardan como NULL (unique admite varios NULL).
func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, google_sub, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		u.ID,
		nullString(u.Email),
		nullString(u.PasswordHash),
		nullString(u.GoogleSub),
		u.CreatedAt,
		u.UpdatedAt,
	)
	if isUniqueViolation(err, "") {
		return users.ErrConflict
	}
	return err
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email = $2, password_hash = $3, google_sub = $4, updated_at = $5
		WHERE id = $1
	`,
		u.ID,
		nullString(u.Email),
		nullString(u.PasswordHash),
		nullString(u.GoogleSub),
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return users.ErrConflict
		}
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UsersRepo) GetByGoogleSub(ctx context.Context, sub string) (users.User, error) {
	return r.getBy(ctx, "google_sub", sub)
}

// column viene siempre de las constantes de arriba, nunca del request.
func (r *UsersRepo) getBy(ctx context.Context, column, value string) (users.User, error) {
	value = strings.TrimSpace(value)
	if value == "" || (column == "id" && !isUUID(value)) {
		return users.User{}, users.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, google_sub, created_at, updated_at
		FROM users
		WHERE `+column+` = $1
	`, value)

	var u users.User
	var email, hash, sub sql.NullString
	if err := row.Scan(&u.ID, &email, &hash, &sub, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}
	u.Email = email.String
	u.PasswordHash = hash.String
	u.GoogleSub = sub.String
	return u, nil
}
