package rest

import (
	"context"

	"github.com/ccloudinthesky/journee/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

var errUserNotFound = errors.New("user not found")

const userColumns = `id, email, username, password_hash, google_id, auth_provider, created_at, updated_at`

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.GoogleID,
		&u.AuthProvider,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, errUserNotFound
	}
	return u, errors.Wrap(err, "scanning user")
}

func (api *API) CreateNewUserRepo(ctx context.Context, u *model.User) error {
	stmt := `
		INSERT INTO users (id, email, username, password_hash, google_id, auth_provider)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := api.Deps.DB.Pool().QueryRow(ctx, stmt,
		u.ID,
		u.Email,
		u.Username,
		u.PasswordHash,
		u.GoogleID,
		u.AuthProvider,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return ErrEmailTaken
		}
		return errors.Wrap(err, "creating user")
	}
	return nil
}

func (api *API) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	stmt := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(api.Deps.DB.Pool().QueryRow(ctx, stmt, email))
}

func (api *API) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	stmt := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(api.Deps.DB.Pool().QueryRow(ctx, stmt, id))
}

func (api *API) GetUserByGoogleID(ctx context.Context, googleID string) (model.User, error) {
	stmt := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	return scanUser(api.Deps.DB.Pool().QueryRow(ctx, stmt, googleID))
}

// LinkGoogleAccount attaches a Google identity to an existing email account.
func (api *API) LinkGoogleAccount(ctx context.Context, id uuid.UUID, googleID string) error {
	stmt := `UPDATE users SET google_id = $2, updated_at = NOW() WHERE id = $1`
	if _, err := api.Deps.DB.Pool().Exec(ctx, stmt, id, googleID); err != nil {
		if _, ok := uniqueViolation(err); ok {
			return ErrEmailTaken
		}
		return errors.Wrap(err, "linking google account")
	}
	return nil
}
