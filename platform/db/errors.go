package db

import (
	"errors"

	"prospectmap_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// MapError translates pgx errors into domain errors. notFoundMsg is used for
// pgx.ErrNoRows. Unknown errors are returned unchanged so the service layer
// can classify them as load or save failures.
func MapError(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(notFoundMsg)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.Wrap(apperr.KindConflict, "enregistrement déjà existant", err)
		case pgForeignKeyViolation:
			return apperr.Wrap(apperr.KindValidation, "référence invalide", err)
		case pgCheckViolation:
			return apperr.Wrap(apperr.KindValidation, "valeur non autorisée", err)
		}
	}
	return err
}
