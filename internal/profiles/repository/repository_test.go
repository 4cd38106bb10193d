package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"prospectmap_backend/internal/profiles/domain"
	"prospectmap_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"
)

var profileCols = []string{"id", "email", "prenom", "nom", "telephone", "role", "actif", "created_at", "updated_at"}

func TestToggleActiveOnlyTouchesActif(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("mock: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	now := time.Now()
	tel := "+33612345678"
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE profiles SET actif = NOT actif")).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(profileCols).
			AddRow(id, "a@example.com", "Ana", "Lopez", &tel, "commercial", false, now, now))

	p, err := New(mock).ToggleActive(context.Background(), id)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if p.Active || p.Role != domain.RoleCommercial || p.Phone == nil {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestToggleActiveMissingProfile(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("mock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("UPDATE profiles").WithArgs(pgxmock.AnyArg()).WillReturnError(pgx.ErrNoRows)

	if _, err := New(mock).ToggleActive(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateMeBuildsPartialUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("mock: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	now := time.Now()
	first := "Ana"
	mock.ExpectQuery(`UPDATE profiles SET updated_at = now\(\), prenom = \$1, telephone = \$2 WHERE id = \$3 RETURNING`).
		WithArgs(first, nil, id).
		WillReturnRows(pgxmock.NewRows(profileCols).
			AddRow(id, "a@example.com", first, "Lopez", (*string)(nil), "admin", true, now, now))

	p, err := New(mock).UpdateMe(context.Background(), id, domain.UpdateMe{FirstName: &first, ClearPhone: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.FirstName != first || p.Phone != nil || p.Role != domain.RoleAdmin {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
