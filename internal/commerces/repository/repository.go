// Package repository persists commerces in Postgres. List filters and
// partial updates are built with squirrel.
package repository

import (
	"context"
	"strings"

	"prospectmap_backend/internal/commerces/domain"
	"prospectmap_backend/platform/apperr"
	"prospectmap_backend/platform/db"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const msgCommerceNotFound = "commerce introuvable"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var selectColumns = []string{
	"c.id", "c.nom", "c.type_commerce", "c.adresse", "c.telephone", "c.email",
	"c.site_web", "c.url_google_maps", "c.facebook", "c.instagram", "c.linkedin",
	"c.note", "c.nombre_avis", "c.panier_moyen", "c.scoring_ia",
	"c.statut", "c.priorite", "c.commercial_id", "c.notes_internes",
	"c.created_at", "c.updated_at", "p.prenom", "p.nom",
}

type Repository struct {
	db db.Querier
}

func New(q db.Querier) *Repository {
	return &Repository{db: q}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCommerce(row scanner) (domain.Commerce, error) {
	var (
		c                     domain.Commerce
		status, priority      string
		ownerFirst, ownerLast *string
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Type, &c.Address, &c.Phone, &c.Email,
		&c.Website, &c.GoogleMapsURL, &c.Facebook, &c.Instagram, &c.LinkedIn,
		&c.Rating, &c.ReviewCount, &c.AverageBasket, &c.AIScore,
		&status, &priority, &c.CommercialID, &c.InternalNotes,
		&c.CreatedAt, &c.UpdatedAt, &ownerFirst, &ownerLast,
	)
	if err != nil {
		return domain.Commerce{}, err
	}
	if c.Status, err = domain.ParseStatus(status); err != nil {
		return domain.Commerce{}, err
	}
	if c.Priority, err = domain.ParsePriority(priority); err != nil {
		return domain.Commerce{}, err
	}
	if c.CommercialID != nil && ownerFirst != nil {
		c.Commercial = &domain.Owner{ID: *c.CommercialID, FirstName: *ownerFirst, LastName: deref(ownerLast)}
	}
	return c, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func baseSelect() sq.SelectBuilder {
	return psql.Select(selectColumns...).
		From("commerces c").
		LeftJoin("profiles p ON p.id = c.commercial_id")
}

// applyFilter adds the WHERE predicates. Search is accent and case
// insensitive across name, address and email.
func applyFilter(b sq.SelectBuilder, f domain.Filter) sq.SelectBuilder {
	if f.Status != nil {
		b = b.Where(sq.Eq{"c.statut": f.Status.Label()})
	}
	if f.Type != nil {
		b = b.Where("lower(c.type_commerce) = lower(?)", *f.Type)
	}
	if f.Priority != nil {
		b = b.Where(sq.Eq{"c.priorite": f.Priority.Label()})
	}
	if f.CommercialID != nil {
		b = b.Where(sq.Eq{"c.commercial_id": *f.CommercialID})
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		b = b.Where(sq.Or{
			sq.Expr("unaccent(lower(c.nom)) LIKE unaccent(lower(?))", pattern),
			sq.Expr("unaccent(lower(c.adresse)) LIKE unaccent(lower(?))", pattern),
			sq.Expr("unaccent(lower(c.email)) LIKE unaccent(lower(?))", pattern),
		})
	}
	return b
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List returns commerces newest first. pageSize <= 0 returns every match.
func (r *Repository) List(ctx context.Context, f domain.Filter, page, pageSize int) (domain.ListResult, error) {
	countQuery, countArgs, err := applyFilter(psql.Select("count(*)").From("commerces c"), f).ToSql()
	if err != nil {
		return domain.ListResult{}, err
	}
	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return domain.ListResult{}, err
	}

	b := applyFilter(baseSelect(), f).OrderBy("c.created_at DESC", "c.id")
	if pageSize > 0 {
		if page < 1 {
			page = 1
		}
		b = b.Limit(uint64(pageSize)).Offset(uint64((page - 1) * pageSize))
	}

	items, err := r.query(ctx, b)
	if err != nil {
		return domain.ListResult{}, err
	}
	return domain.ListResult{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// Recent returns the limit most recently created commerces.
func (r *Repository) Recent(ctx context.Context, limit int) ([]domain.Commerce, error) {
	return r.query(ctx, baseSelect().OrderBy("c.created_at DESC").Limit(uint64(limit)))
}

func (r *Repository) query(ctx context.Context, b sq.SelectBuilder) ([]domain.Commerce, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Commerce, 0)
	for rows.Next() {
		c, err := scanCommerce(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Commerce, error) {
	query, args, err := baseSelect().Where(sq.Eq{"c.id": id}).ToSql()
	if err != nil {
		return domain.Commerce{}, err
	}
	c, err := scanCommerce(r.db.QueryRow(ctx, query, args...))
	return c, db.MapError(err, msgCommerceNotFound)
}

func (r *Repository) Create(ctx context.Context, in domain.Input) (domain.Commerce, error) {
	query, args, err := psql.Insert("commerces").
		Columns(
			"nom", "type_commerce", "adresse", "telephone", "email", "site_web",
			"url_google_maps", "facebook", "instagram", "linkedin", "note", "nombre_avis",
			"panier_moyen", "scoring_ia", "statut", "priorite", "commercial_id", "notes_internes",
		).
		Values(
			in.Name, in.Type, in.Address, in.Phone, in.Email, in.Website,
			in.GoogleMapsURL, in.Facebook, in.Instagram, in.LinkedIn, in.Rating, in.ReviewCount,
			in.AverageBasket, in.AIScore, in.Status.Label(), in.Priority.Label(), in.CommercialID, in.InternalNotes,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return domain.Commerce{}, err
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return domain.Commerce{}, db.MapError(err, msgCommerceNotFound)
	}
	return r.GetByID(ctx, id)
}

func setPatch[T any](b sq.UpdateBuilder, column string, p domain.Patch[T]) sq.UpdateBuilder {
	if !p.Set {
		return b
	}
	if p.Value == nil {
		return b.Set(column, nil)
	}
	return b.Set(column, *p.Value)
}

// Update writes only the fields present in u and bumps updated_at.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, u domain.Update) (domain.Commerce, error) {
	b := psql.Update("commerces").Set("updated_at", sq.Expr("now()"))
	if u.Name != nil {
		b = b.Set("nom", *u.Name)
	}
	b = setPatch(b, "type_commerce", u.Type)
	b = setPatch(b, "adresse", u.Address)
	b = setPatch(b, "telephone", u.Phone)
	b = setPatch(b, "email", u.Email)
	b = setPatch(b, "site_web", u.Website)
	b = setPatch(b, "url_google_maps", u.GoogleMapsURL)
	b = setPatch(b, "facebook", u.Facebook)
	b = setPatch(b, "instagram", u.Instagram)
	b = setPatch(b, "linkedin", u.LinkedIn)
	b = setPatch(b, "note", u.Rating)
	b = setPatch(b, "nombre_avis", u.ReviewCount)
	b = setPatch(b, "panier_moyen", u.AverageBasket)
	b = setPatch(b, "scoring_ia", u.AIScore)
	if u.Status != nil {
		b = b.Set("statut", u.Status.Label())
	}
	if u.Priority != nil {
		b = b.Set("priorite", u.Priority.Label())
	}
	b = setPatch(b, "commercial_id", u.CommercialID)
	b = setPatch(b, "notes_internes", u.InternalNotes)

	query, args, err := b.Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.Commerce{}, err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return domain.Commerce{}, db.MapError(err, msgCommerceNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.Commerce{}, apperr.NotFound(msgCommerceNotFound)
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM commerces WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(msgCommerceNotFound)
	}
	return nil
}

// ExistsByNameAddress is the duplicate check used by ingestion.
func (r *Repository) ExistsByNameAddress(ctx context.Context, name string, address *string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM commerces
			WHERE lower(nom) = lower($1) AND lower(coalesce(adresse, '')) = lower($2)
		)`, name, deref(address)).Scan(&exists)
	return exists, err
}
