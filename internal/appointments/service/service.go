// Package service implements the appointment use cases and reminder
// scheduling.
package service

import (
	"context"
	"time"

	"prospectmap_backend/internal/appointments/domain"
	"prospectmap_backend/internal/events"
	"prospectmap_backend/platform/apperr"
	"prospectmap_backend/platform/httpkit"
	"prospectmap_backend/platform/logger"
	"prospectmap_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgOwnFilterOnly      = "vous ne pouvez filtrer que sur vos propres rendez-vous"
	msgCommerceNotFound   = "commerce introuvable"
	msgCommercialNotFound = "commercial introuvable"
)

// Repository is the appointment storage used by the service.
type Repository interface {
	List(ctx context.Context, f domain.Filter) ([]domain.Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	Create(ctx context.Context, in domain.Input) (domain.Appointment, error)
	Update(ctx context.Context, id uuid.UUID, u domain.Update) (domain.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MarkReminderSent(ctx context.Context, id uuid.UUID) error
	Upcoming(ctx context.Context, from time.Time, commercialID *uuid.UUID, limit int) ([]domain.Appointment, error)
	CountBetween(ctx context.Context, from, to time.Time, commercialID *uuid.UUID) (int, error)
}

// CommerceChecker verifies that the referenced commerce exists.
type CommerceChecker interface {
	CommerceExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ProfileChecker verifies commercial references.
type ProfileChecker interface {
	ProfileExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ReminderScheduler enqueues a delayed reminder. startsAt identifies the
// schedule so a moved appointment gets a fresh task.
type ReminderScheduler interface {
	ScheduleAppointmentReminder(ctx context.Context, appointmentID uuid.UUID, startsAt string, runAt time.Time) error
}

// ReminderSender delivers the reminder to the owner.
type ReminderSender interface {
	SendAppointmentReminder(ctx context.Context, toEmail, recipientName, commerceName, startsAt, location string) error
}

// Config is the subset of settings the service reads.
type Config interface {
	GetLocation() *time.Location
	GetReminderLeadTime() time.Duration
}

type Service struct {
	repo      Repository
	commerces CommerceChecker
	profiles  ProfileChecker
	bus       events.Bus
	cfg       Config
	log       *logger.Logger
	scheduler ReminderScheduler
	sender    ReminderSender
	now       func() time.Time
}

func New(repo Repository, commerces CommerceChecker, profiles ProfileChecker, bus events.Bus, cfg Config, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		commerces: commerces,
		profiles:  profiles,
		bus:       bus,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// SetReminderScheduler enables reminder scheduling. Without one, appointments
// are saved without reminders.
func (s *Service) SetReminderScheduler(scheduler ReminderScheduler) {
	s.scheduler = scheduler
}

// SetReminderSender sets the email sender used by ProcessReminder.
func (s *Service) SetReminderSender(sender ReminderSender) {
	s.sender = sender
}

// CheckFilter enforces that non-admins only filter on their own commercial id.
func CheckFilter(actor httpkit.Identity, commercialID *uuid.UUID) error {
	if commercialID != nil && !actor.IsAdmin() && *commercialID != actor.UserID() {
		return apperr.Forbidden(msgOwnFilterOnly)
	}
	return nil
}

// List returns the appointments matching f ordered by date then time.
func (s *Service) List(ctx context.Context, actor httpkit.Identity, f domain.Filter) ([]domain.Appointment, error) {
	if err := CheckFilter(actor, f.CommercialID); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, f)
	return items, apperr.LoadFailed("appointments.List", err)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	return appt, apperr.LoadFailed("appointments.Get", err)
}

// Upcoming returns the next limit appointments from today.
func (s *Service) Upcoming(ctx context.Context, commercialID *uuid.UUID, limit int) ([]domain.Appointment, error) {
	items, err := s.repo.Upcoming(ctx, s.today(), commercialID, limit)
	return items, apperr.LoadFailed("appointments.Upcoming", err)
}

// CountNextDays counts appointments between today and today+days inclusive.
func (s *Service) CountNextDays(ctx context.Context, commercialID *uuid.UUID, days int) (int, error) {
	today := s.today()
	n, err := s.repo.CountBetween(ctx, today, today.AddDate(0, 0, days), commercialID)
	return n, apperr.LoadFailed("appointments.CountNextDays", err)
}

// Today is the current calendar date in the business timezone.
func (s *Service) Today() string {
	return s.today().Format(domain.DateLayout)
}

func (s *Service) today() time.Time {
	y, m, d := s.now().In(s.cfg.GetLocation()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Submit validates the draft and creates or updates the appointment. A
// draft with missing required fields never reaches the repository.
func (s *Service) Submit(ctx context.Context, actor httpkit.Identity, d *Draft) (domain.Appointment, error) {
	d.values.Location = sanitize.TextPtr(d.values.Location)
	d.values.Notes = sanitize.TextPtr(d.values.Notes)
	if missing := d.Validate(); len(missing) > 0 {
		return domain.Appointment{}, apperr.MissingFields(missing)
	}

	in := d.Values()
	if d.IsNew() || d.changed[domain.FieldCommerceID] {
		if err := s.checkCommerce(ctx, in.CommerceID); err != nil {
			return domain.Appointment{}, err
		}
	}
	if d.IsNew() || d.changed[fieldCommercial] {
		if err := s.checkCommercial(ctx, in.CommercialID); err != nil {
			return domain.Appointment{}, err
		}
	}

	if d.IsNew() {
		appt, err := s.repo.Create(ctx, in)
		if err != nil {
			return domain.Appointment{}, apperr.SaveFailed("appointments.Create", err)
		}
		actorID := actor.UserID()
		s.bus.Publish(ctx, events.AppointmentCreated{
			BaseEvent:     events.NewBaseEvent(),
			AppointmentID: appt.ID,
			CommerceID:    appt.CommerceID,
			CommercialID:  appt.CommercialID,
			ActorID:       actorID,
			Date:          appt.Date,
			Time:          appt.Time,
			Type:          string(appt.Type),
		})
		s.scheduleReminder(ctx, appt)
		return appt, nil
	}

	update := d.update(in)
	if update.IsEmpty() {
		return s.Get(ctx, *d.id)
	}
	appt, err := s.repo.Update(ctx, *d.id, update)
	if err != nil {
		return domain.Appointment{}, apperr.SaveFailed("appointments.Update", err)
	}
	s.bus.Publish(ctx, events.AppointmentUpdated{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		CommerceID:    appt.CommerceID,
		ActorID:       actor.UserID(),
		Status:        string(appt.Status),
	})
	if update.Reschedules() || update.Status != nil {
		s.scheduleReminder(ctx, appt)
	}
	return appt, nil
}

func (s *Service) Delete(ctx context.Context, actor httpkit.Identity, id uuid.UUID) error {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return apperr.LoadFailed("appointments.Delete", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.SaveFailed("appointments.Delete", err)
	}
	s.bus.Publish(ctx, events.AppointmentDeleted{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: id,
		CommerceID:    appt.CommerceID,
		ActorID:       actor.UserID(),
	})
	return nil
}

// scheduleReminder enqueues a reminder for a future, still active
// appointment. Failures are logged; the appointment itself is saved.
func (s *Service) scheduleReminder(ctx context.Context, appt domain.Appointment) {
	if s.scheduler == nil || appt.ReminderSent || !appt.Status.NeedsReminder() {
		return
	}
	start, err := appt.StartsAt(s.cfg.GetLocation())
	if err != nil {
		return
	}
	now := s.now()
	if !start.After(now) {
		return
	}
	runAt := start.Add(-s.cfg.GetReminderLeadTime())
	if runAt.Before(now) {
		runAt = now
	}
	if err := s.scheduler.ScheduleAppointmentReminder(ctx, appt.ID, startKey(appt), runAt); err != nil {
		s.log.Error("failed to schedule reminder", "appointmentId", appt.ID, "error", err)
	}
}

func startKey(appt domain.Appointment) string {
	return appt.Date + "T" + appt.Time
}

// ProcessReminder is run by the reminder worker. It is a no-op when the
// appointment is gone, already reminded, no longer active or was moved
// since the task was scheduled.
func (s *Service) ProcessReminder(ctx context.Context, appointmentID uuid.UUID, startsAt string) error {
	appt, err := s.repo.GetByID(ctx, appointmentID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil
	}
	if err != nil {
		return apperr.LoadFailed("appointments.ProcessReminder", err)
	}
	if appt.ReminderSent || !appt.Status.NeedsReminder() || (startsAt != "" && startsAt != startKey(appt)) {
		s.log.Debug("reminder skipped", "appointmentId", appt.ID, "status", appt.Status)
		return nil
	}

	recipient := ""
	if s.sender != nil && appt.Commercial != nil && appt.Commercial.Email != "" {
		location := ""
		if appt.Location != nil {
			location = *appt.Location
		} else if appt.Commerce != nil && appt.Commerce.Address != nil {
			location = *appt.Commerce.Address
		}
		commerceName := ""
		if appt.Commerce != nil {
			commerceName = appt.Commerce.Name
		}
		err := s.sender.SendAppointmentReminder(ctx, appt.Commercial.Email, appt.Commercial.FirstName,
			commerceName, appt.Date+" "+appt.Time, location)
		if err != nil {
			return apperr.Unavailable("envoi du rappel impossible", err)
		}
		recipient = appt.Commercial.Email
	}

	if err := s.repo.MarkReminderSent(ctx, appt.ID); err != nil {
		return apperr.SaveFailed("appointments.ProcessReminder", err)
	}
	s.bus.Publish(ctx, events.AppointmentReminderSent{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		CommerceID:    appt.CommerceID,
		Recipient:     recipient,
	})
	return nil
}

func (s *Service) checkCommerce(ctx context.Context, id uuid.UUID) error {
	ok, err := s.commerces.CommerceExists(ctx, id)
	if err != nil {
		return apperr.LoadFailed("appointments.checkCommerce", err)
	}
	if !ok {
		return apperr.Validation(msgCommerceNotFound).WithDetails(map[string]any{"field": domain.FieldCommerceID})
	}
	return nil
}

func (s *Service) checkCommercial(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	ok, err := s.profiles.ProfileExists(ctx, *id)
	if err != nil {
		return apperr.LoadFailed("appointments.checkCommercial", err)
	}
	if !ok {
		return apperr.Validation(msgCommercialNotFound).WithDetails(map[string]any{"field": fieldCommercial})
	}
	return nil
}
