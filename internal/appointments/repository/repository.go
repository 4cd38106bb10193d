package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"prospectmap_backend/internal/appointments/domain"
	"prospectmap_backend/platform/apperr"
	"prospectmap_backend/platform/db"

	"github.com/google/uuid"
)

const appointmentNotFoundMsg = "rendez-vous introuvable"

const selectColumns = `SELECT r.id, r.commerce_id, r.commercial_id, r.date_rdv, r.heure, r.duree,
		r.type_rdv, r.lieu, r.statut, r.notes, r.rappel_envoye, r.created_at, r.updated_at,
		c.nom, c.adresse, c.telephone, p.prenom, p.nom, p.email
	FROM rdv r
	JOIN commerces c ON c.id = r.commerce_id
	LEFT JOIN profiles p ON p.id = r.commercial_id`

// Repository provides database operations for appointments
type Repository struct {
	db db.Querier
}

// New creates a new appointments repository
func New(q db.Querier) *Repository {
	return &Repository{db: q}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row scanner) (domain.Appointment, error) {
	var (
		appt                              domain.Appointment
		date                              time.Time
		apptType, status                  string
		commerceName                      string
		commerceAddr, commercePhone       *string
		ownerFirst, ownerLast, ownerEmail *string
	)
	err := row.Scan(
		&appt.ID, &appt.CommerceID, &appt.CommercialID, &date, &appt.Time, &appt.DurationMinutes,
		&apptType, &appt.Location, &status, &appt.Notes, &appt.ReminderSent, &appt.CreatedAt, &appt.UpdatedAt,
		&commerceName, &commerceAddr, &commercePhone, &ownerFirst, &ownerLast, &ownerEmail,
	)
	if err != nil {
		return domain.Appointment{}, err
	}

	appt.Date = date.Format(domain.DateLayout)
	if appt.Type, err = domain.ParseType(apptType); err != nil {
		return domain.Appointment{}, err
	}
	if appt.Status, err = domain.ParseStatus(status); err != nil {
		return domain.Appointment{}, err
	}
	appt.Commerce = &domain.CommerceSummary{ID: appt.CommerceID, Name: commerceName, Address: commerceAddr, Phone: commercePhone}
	if appt.CommercialID != nil && ownerFirst != nil {
		appt.Commercial = &domain.Owner{
			ID:        *appt.CommercialID,
			FirstName: *ownerFirst,
			LastName:  derefString(ownerLast),
			Email:     derefString(ownerEmail),
		}
	}
	return appt, nil
}

// Create inserts a new appointment and returns it with its joins.
func (r *Repository) Create(ctx context.Context, in domain.Input) (domain.Appointment, error) {
	date, err := time.Parse(domain.DateLayout, in.Date)
	if err != nil {
		return domain.Appointment{}, apperr.Validation("date invalide")
	}

	query := `
		INSERT INTO rdv (commerce_id, commercial_id, date_rdv, heure, duree, type_rdv, lieu, statut, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var id uuid.UUID
	err = r.db.QueryRow(ctx, query,
		in.CommerceID, in.CommercialID, date, in.Time, in.DurationMinutes,
		string(in.Type), in.Location, string(in.Status), in.Notes,
	).Scan(&id)
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("failed to create appointment: %w", db.MapError(err, appointmentNotFoundMsg))
	}
	return r.GetByID(ctx, id)
}

// GetByID retrieves an appointment by its ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	appt, err := scanAppointment(r.db.QueryRow(ctx, selectColumns+` WHERE r.id = $1`, id))
	if err != nil {
		return domain.Appointment{}, db.MapError(err, appointmentNotFoundMsg)
	}
	return appt, nil
}

// Update writes the fields present in u and bumps updated_at. Moving the
// appointment in time resets the reminder flag.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, u domain.Update) (domain.Appointment, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	argIndex := 2

	addSet(&sets, &args, &argIndex, u.CommerceID != nil, "commerce_id = $%d", derefUUID(u.CommerceID))
	addSet(&sets, &args, &argIndex, u.CommercialID != nil, "commercial_id = $%d", derefUUID(u.CommercialID))
	if u.ClearCommercial && u.CommercialID == nil {
		sets = append(sets, "commercial_id = NULL")
	}
	if u.Date != nil {
		date, err := time.Parse(domain.DateLayout, *u.Date)
		if err != nil {
			return domain.Appointment{}, apperr.Validation("date invalide")
		}
		addSet(&sets, &args, &argIndex, true, "date_rdv = $%d", date)
	}
	addSet(&sets, &args, &argIndex, u.Time != nil, "heure = $%d", derefString(u.Time))
	addSet(&sets, &args, &argIndex, u.DurationMinutes != nil, "duree = $%d", derefInt(u.DurationMinutes))
	if u.Type != nil {
		addSet(&sets, &args, &argIndex, true, "type_rdv = $%d", string(*u.Type))
	}
	addSet(&sets, &args, &argIndex, u.Location != nil, "lieu = $%d", derefString(u.Location))
	if u.ClearLocation && u.Location == nil {
		sets = append(sets, "lieu = NULL")
	}
	if u.Status != nil {
		addSet(&sets, &args, &argIndex, true, "statut = $%d", string(*u.Status))
	}
	addSet(&sets, &args, &argIndex, u.Notes != nil, "notes = $%d", derefString(u.Notes))
	if u.ClearNotes && u.Notes == nil {
		sets = append(sets, "notes = NULL")
	}
	if u.Reschedules() {
		sets = append(sets, "rappel_envoye = FALSE")
	}

	query := "UPDATE rdv SET " + strings.Join(sets, ", ") + " WHERE id = $1"
	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("failed to update appointment: %w", db.MapError(err, appointmentNotFoundMsg))
	}
	if result.RowsAffected() == 0 {
		return domain.Appointment{}, apperr.NotFound(appointmentNotFoundMsg)
	}
	return r.GetByID(ctx, id)
}

// Delete removes an appointment
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM rdv WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(appointmentNotFoundMsg)
	}
	return nil
}

// MarkReminderSent flags the reminder as delivered.
func (r *Repository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `UPDATE rdv SET rappel_envoye = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(appointmentNotFoundMsg)
	}
	return nil
}

// List retrieves appointments ordered by date then time.
func (r *Repository) List(ctx context.Context, f domain.Filter) ([]domain.Appointment, error) {
	where := " WHERE 1=1"
	args := []any{}
	argIndex := 1

	from, err := parseBound(f.From)
	if err != nil {
		return nil, err
	}
	to, err := parseBound(f.To)
	if err != nil {
		return nil, err
	}

	addFilter(&where, &args, &argIndex, from != nil, " AND r.date_rdv >= $%d", derefTime(from))
	addFilter(&where, &args, &argIndex, to != nil, " AND r.date_rdv <= $%d", derefTime(to))
	addFilter(&where, &args, &argIndex, f.CommercialID != nil, " AND r.commercial_id = $%d", derefUUID(f.CommercialID))
	addFilter(&where, &args, &argIndex, f.CommerceID != nil, " AND r.commerce_id = $%d", derefUUID(f.CommerceID))
	if f.Status != nil {
		addFilter(&where, &args, &argIndex, true, " AND r.statut = $%d", string(*f.Status))
	}

	return r.query(ctx, selectColumns+where+" ORDER BY r.date_rdv ASC, r.heure ASC, r.id", args...)
}

// Upcoming returns the limit next non-cancelled appointments on or after from.
func (r *Repository) Upcoming(ctx context.Context, from time.Time, commercialID *uuid.UUID, limit int) ([]domain.Appointment, error) {
	where := " WHERE r.date_rdv >= $1 AND r.statut <> 'annule'"
	args := []any{from}
	argIndex := 2
	addFilter(&where, &args, &argIndex, commercialID != nil, " AND r.commercial_id = $%d", derefUUID(commercialID))
	query := fmt.Sprintf("%s%s ORDER BY r.date_rdv ASC, r.heure ASC LIMIT %d", selectColumns, where, limit)
	return r.query(ctx, query, args...)
}

// CountBetween counts non-cancelled appointments whose date is in [from, to].
func (r *Repository) CountBetween(ctx context.Context, from, to time.Time, commercialID *uuid.UUID) (int, error) {
	where := " WHERE date_rdv >= $1 AND date_rdv <= $2 AND statut <> 'annule'"
	args := []any{from, to}
	argIndex := 3
	addFilter(&where, &args, &argIndex, commercialID != nil, " AND commercial_id = $%d", derefUUID(commercialID))

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM rdv"+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return total, nil
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]domain.Appointment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		items = append(items, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appointments: %w", err)
	}
	return items, nil
}

func parseBound(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return nil, apperr.Validation("date invalide")
	}
	return &t, nil
}

func addFilter(baseQuery *string, args *[]any, argIndex *int, apply bool, clause string, value any) {
	if !apply {
		return
	}
	*baseQuery += fmt.Sprintf(clause, *argIndex)
	*args = append(*args, value)
	*argIndex++
}

func addSet(sets *[]string, args *[]any, argIndex *int, apply bool, clause string, value any) {
	if !apply {
		return
	}
	*sets = append(*sets, fmt.Sprintf(clause, *argIndex))
	*args = append(*args, value)
	*argIndex++
}

func derefUUID(value *uuid.UUID) uuid.UUID {
	if value == nil {
		return uuid.UUID{}
	}
	return *value
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func derefInt(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}

func derefTime(value *time.Time) time.Time {
	if value == nil {
		return time.Time{}
	}
	return *value
}
