package db

import (
	"errors"
	"fmt"
	"testing"

	"prospectmap_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{"no rows", pgx.ErrNoRows, apperr.KindNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperr.KindNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, apperr.KindConflict},
		{"foreign key", &pgconn.PgError{Code: "23503"}, apperr.KindValidation},
		{"check", &pgconn.PgError{Code: "23514"}, apperr.KindValidation},
		{"other", errors.New("boom"), apperr.KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError(tc.err, "introuvable")
			if apperr.GetKind(got) != tc.want {
				t.Fatalf("expected kind %v, got %v (%v)", tc.want, apperr.GetKind(got), got)
			}
		})
	}

	if MapError(nil, "x") != nil {
		t.Fatal("expected nil passthrough")
	}
}
