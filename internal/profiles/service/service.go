package service

import (
	"context"

	"prospectmap_backend/internal/events"
	"prospectmap_backend/internal/profiles/domain"
	"prospectmap_backend/platform/apperr"
	"prospectmap_backend/platform/httpkit"
	"prospectmap_backend/platform/logger"
	"prospectmap_backend/platform/phone"
	"prospectmap_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgAdminOnly      = "réservé aux administrateurs"
	msgSelfDeactivate = "vous ne pouvez pas désactiver votre propre compte"
	msgNameRequired   = "le prénom et le nom ne peuvent pas être vides"
)

// Repository is the profile storage used by the service.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Profile, error)
	ListActive(ctx context.Context) ([]domain.Profile, error)
	ListAll(ctx context.Context) ([]domain.Profile, error)
	UpdateMe(ctx context.Context, id uuid.UUID, req domain.UpdateMe) (domain.Profile, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (domain.Profile, error)
}

// SessionRevoker ends every open session of a profile.
type SessionRevoker interface {
	EndSessions(ctx context.Context, profileID uuid.UUID) error
}

type Service struct {
	repo     Repository
	bus      events.Bus
	phones   *phone.Normalizer
	sessions SessionRevoker
	log      *logger.Logger
}

func New(repo Repository, bus events.Bus, phones *phone.Normalizer, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, phones: phones, log: log}
}

// SetSessionRevoker makes deactivation sign the profile out everywhere.
func (s *Service) SetSessionRevoker(sessions SessionRevoker) {
	s.sessions = sessions
}

// GetMe returns the caller's profile.
func (s *Service) GetMe(ctx context.Context, actor httpkit.Identity) (domain.Profile, error) {
	p, err := s.repo.GetByID(ctx, actor.UserID())
	return p, apperr.LoadFailed("profiles.GetMe", err)
}

// UpdateMe changes the caller's own name or phone.
func (s *Service) UpdateMe(ctx context.Context, actor httpkit.Identity, req domain.UpdateMe) (domain.Profile, error) {
	if req.FirstName != nil {
		clean := sanitize.Text(*req.FirstName)
		if clean == "" {
			return domain.Profile{}, apperr.Validation(msgNameRequired)
		}
		req.FirstName = &clean
	}
	if req.LastName != nil {
		clean := sanitize.Text(*req.LastName)
		if clean == "" {
			return domain.Profile{}, apperr.Validation(msgNameRequired)
		}
		req.LastName = &clean
	}
	if req.Phone != nil {
		req.Phone = s.phones.E164Ptr(sanitize.TextPtr(req.Phone))
		if req.Phone == nil {
			req.ClearPhone = true
		}
	}

	if req.IsEmpty() {
		return s.GetMe(ctx, actor)
	}

	p, err := s.repo.UpdateMe(ctx, actor.UserID(), req)
	if err != nil {
		return domain.Profile{}, apperr.SaveFailed("profiles.UpdateMe", err)
	}

	s.bus.Publish(ctx, events.ProfileUpdated{
		BaseEvent: events.NewBaseEvent(),
		ProfileID: p.ID,
		Fields:    req.FieldNames(),
	})
	return p, nil
}

// ListActive returns the profiles that can be assigned to commerces and appointments.
func (s *Service) ListActive(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := s.repo.ListActive(ctx)
	return profiles, apperr.LoadFailed("profiles.ListActive", err)
}

// ListAll returns the whole team, inactive profiles included.
func (s *Service) ListAll(ctx context.Context, actor httpkit.Identity) ([]domain.Profile, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden(msgAdminOnly)
	}
	profiles, err := s.repo.ListAll(ctx)
	return profiles, apperr.LoadFailed("profiles.ListAll", err)
}

// ToggleActive flips a profile's active flag. Profiles are never deleted.
func (s *Service) ToggleActive(ctx context.Context, actor httpkit.Identity, id uuid.UUID) (domain.Profile, error) {
	if !actor.IsAdmin() {
		return domain.Profile{}, apperr.Forbidden(msgAdminOnly)
	}
	if id == actor.UserID() {
		return domain.Profile{}, apperr.Forbidden(msgSelfDeactivate)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Profile{}, apperr.LoadFailed("profiles.ToggleActive", err)
	}
	// sessions end before the flag flips so a failure leaves the profile untouched
	if current.Active && s.sessions != nil {
		if err := s.sessions.EndSessions(ctx, id); err != nil {
			return domain.Profile{}, apperr.SaveFailed("profiles.ToggleActive", err)
		}
	}

	p, err := s.repo.ToggleActive(ctx, id)
	if err != nil {
		return domain.Profile{}, apperr.SaveFailed("profiles.ToggleActive", err)
	}

	s.log.Info("profile active flag toggled", "profileId", p.ID, "active", p.Active, "actorId", actor.UserID())
	s.bus.Publish(ctx, events.ProfileActiveToggled{
		BaseEvent: events.NewBaseEvent(),
		ProfileID: p.ID,
		ActorID:   actor.UserID(),
		Active:    p.Active,
	})
	return p, nil
}
