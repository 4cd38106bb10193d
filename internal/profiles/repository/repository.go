// Package repository reads and writes team profiles. The password hash
// column is never selected here.
package repository

import (
	"context"
	"errors"

	"prospectmap_backend/internal/profiles/domain"
	"prospectmap_backend/platform/apperr"
	"prospectmap_backend/platform/db"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const msgProfileNotFound = "profil introuvable"

const profileColumns = `id, email, prenom, nom, telephone, role, actif, created_at, updated_at`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Repository struct {
	db db.Querier
}

func New(q db.Querier) *Repository {
	return &Repository{db: q}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (domain.Profile, error) {
	var p domain.Profile
	var role string
	if err := row.Scan(&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Phone, &role, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Profile{}, err
	}
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return domain.Profile{}, err
	}
	p.Role = parsed
	return p, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	return p, db.MapError(err, msgProfileNotFound)
}

// Exists reports whether a profile with id exists, active or not.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// ListActive returns active profiles ordered by first name.
func (r *Repository) ListActive(ctx context.Context) ([]domain.Profile, error) {
	return r.list(ctx, `SELECT `+profileColumns+` FROM profiles WHERE actif ORDER BY prenom, nom`)
}

// ListAll returns every profile ordered by last name.
func (r *Repository) ListAll(ctx context.Context) ([]domain.Profile, error) {
	return r.list(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY nom, prenom`)
}

func (r *Repository) list(ctx context.Context, query string) ([]domain.Profile, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]domain.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// UpdateMe applies the self-editable fields that are set on req.
func (r *Repository) UpdateMe(ctx context.Context, id uuid.UUID, req domain.UpdateMe) (domain.Profile, error) {
	builder := psql.Update("profiles").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + profileColumns)

	if req.FirstName != nil {
		builder = builder.Set("prenom", *req.FirstName)
	}
	if req.LastName != nil {
		builder = builder.Set("nom", *req.LastName)
	}
	switch {
	case req.ClearPhone:
		builder = builder.Set("telephone", nil)
	case req.Phone != nil:
		builder = builder.Set("telephone", *req.Phone)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return domain.Profile{}, err
	}
	p, err := scanProfile(r.db.QueryRow(ctx, query, args...))
	return p, db.MapError(err, msgProfileNotFound)
}

// ToggleActive flips the active flag and nothing else.
func (r *Repository) ToggleActive(ctx context.Context, id uuid.UUID) (domain.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, `
		UPDATE profiles SET actif = NOT actif
		WHERE id = $1
		RETURNING `+profileColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, apperr.NotFound(msgProfileNotFound)
	}
	return p, err
}
