package repository

import (
	"context"
	"errors"
	"time"

	"prospectmap_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	db db.Querier
}

func New(q db.Querier) *Repository {
	return &Repository{db: q}
}

// Account is the credential view of a profile. Only the auth module reads
// password_hash.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	Active       bool
}

type NewAccount struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        *string
	Role         string
}

const accountColumns = `id, email, password_hash, role, actif`

func scanAccount(row pgx.Row) (Account, error) {
	var acc Account
	err := row.Scan(&acc.ID, &acc.Email, &acc.PasswordHash, &acc.Role, &acc.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	return acc, err
}

func (r *Repository) CreateAccount(ctx context.Context, in NewAccount) (Account, error) {
	return scanAccount(r.db.QueryRow(ctx, `
		INSERT INTO profiles (email, password_hash, prenom, nom, telephone, role, actif)
		VALUES ($1, $2, $3, $4, $5, $6, true)
		RETURNING `+accountColumns,
		in.Email, in.PasswordHash, in.FirstName, in.LastName, in.Phone, in.Role,
	))
}

func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	return scanAccount(r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM profiles WHERE lower(email) = lower($1)`, email))
}

func (r *Repository) GetAccountByID(ctx context.Context, id uuid.UUID) (Account, error) {
	return scanAccount(r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM profiles WHERE id = $1`, id))
}

func (r *Repository) CreateRefreshToken(ctx context.Context, profileID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO refresh_tokens (profile_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, profileID, tokenHash, expiresAt)
	return err
}

// ConsumeRefreshToken revokes a live token and returns its owner in one
// statement, so concurrent refreshes with the same token cannot both win.
// Unknown or already revoked tokens yield ErrNotFound.
func (r *Repository) ConsumeRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error) {
	var profileID uuid.UUID
	var expiresAt time.Time
	err := r.db.QueryRow(ctx, `
		UPDATE refresh_tokens SET revoked_at = now()
		WHERE token_hash = $1 AND revoked_at IS NULL
		RETURNING profile_id, expires_at
	`, tokenHash).Scan(&profileID, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.UUID{}, time.Time{}, ErrNotFound
	}
	return profileID, expiresAt, err
}

func (r *Repository) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = now()
		WHERE token_hash = $1 AND revoked_at IS NULL
	`, tokenHash)
	return err
}

func (r *Repository) RevokeAllRefreshTokens(ctx context.Context, profileID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = now()
		WHERE profile_id = $1 AND revoked_at IS NULL
	`, profileID)
	return err
}
