// Package service holds the commerce use cases: listing with owner rules,
// draft submission and deletion.
package service

import (
	"context"

	"prospectmap_backend/internal/commerces/domain"
	"prospectmap_backend/internal/events"
	"prospectmap_backend/platform/apperr"
	"prospectmap_backend/platform/httpkit"
	"prospectmap_backend/platform/logger"
	"prospectmap_backend/platform/phone"
	"prospectmap_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgOwnFilterOnly      = "vous ne pouvez filtrer que sur vos propres commerces"
	msgCommercialNotFound = "commercial introuvable"

	// SourceManual and SourceIngest tag CommerceCreated events.
	SourceManual = "manual"
	SourceIngest = "ingest"
)

// Repository is the commerce storage used by the service.
type Repository interface {
	List(ctx context.Context, f domain.Filter, page, pageSize int) (domain.ListResult, error)
	Recent(ctx context.Context, limit int) ([]domain.Commerce, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Commerce, error)
	Create(ctx context.Context, in domain.Input) (domain.Commerce, error)
	Update(ctx context.Context, id uuid.UUID, u domain.Update) (domain.Commerce, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByNameAddress(ctx context.Context, name string, address *string) (bool, error)
}

// ProfileChecker verifies commercial references.
type ProfileChecker interface {
	ProfileExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo     Repository
	profiles ProfileChecker
	bus      events.Bus
	phones   *phone.Normalizer
	log      *logger.Logger
}

func New(repo Repository, profiles ProfileChecker, bus events.Bus, phones *phone.Normalizer, log *logger.Logger) *Service {
	return &Service{repo: repo, profiles: profiles, bus: bus, phones: phones, log: log}
}

// CheckFilter enforces that non-admins only filter on their own commercial id.
func CheckFilter(actor httpkit.Identity, f domain.Filter) error {
	if f.CommercialID != nil && !actor.IsAdmin() && *f.CommercialID != actor.UserID() {
		return apperr.Forbidden(msgOwnFilterOnly)
	}
	return nil
}

// List returns one page of commerces matching f. pageSize <= 0 returns all.
func (s *Service) List(ctx context.Context, actor httpkit.Identity, f domain.Filter, page, pageSize int) (domain.ListResult, error) {
	if err := CheckFilter(actor, f); err != nil {
		return domain.ListResult{}, err
	}
	result, err := s.repo.List(ctx, f, page, pageSize)
	return result, apperr.LoadFailed("commerces.List", err)
}

// All returns every commerce. The dashboard aggregates over it.
func (s *Service) All(ctx context.Context) ([]domain.Commerce, error) {
	result, err := s.repo.List(ctx, domain.Filter{}, 0, 0)
	if err != nil {
		return nil, apperr.LoadFailed("commerces.All", err)
	}
	return result.Items, nil
}

// Recent returns the latest created commerces.
func (s *Service) Recent(ctx context.Context, limit int) ([]domain.Commerce, error) {
	items, err := s.repo.Recent(ctx, limit)
	return items, apperr.LoadFailed("commerces.Recent", err)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Commerce, error) {
	c, err := s.repo.GetByID(ctx, id)
	return c, apperr.LoadFailed("commerces.Get", err)
}

// Submit validates the draft and creates or updates the commerce. A draft
// with missing required fields never reaches the repository.
func (s *Service) Submit(ctx context.Context, actor httpkit.Identity, d *Draft) (domain.Commerce, error) {
	d.values = s.clean(d.values)
	if missing := d.Validate(); len(missing) > 0 {
		return domain.Commerce{}, apperr.MissingFields(missing)
	}

	in := d.Values()
	if d.changed[domain.FieldCommercialID] || d.IsNew() {
		if err := s.checkCommercial(ctx, in.CommercialID); err != nil {
			return domain.Commerce{}, err
		}
	}

	if d.IsNew() {
		c, err := s.repo.Create(ctx, in)
		if err != nil {
			return domain.Commerce{}, apperr.SaveFailed("commerces.Create", err)
		}
		actorID := actor.UserID()
		s.bus.Publish(ctx, events.CommerceCreated{
			BaseEvent:    events.NewBaseEvent(),
			CommerceID:   c.ID,
			Name:         c.Name,
			ActorID:      &actorID,
			CommercialID: c.CommercialID,
			Source:       SourceManual,
		})
		return c, nil
	}

	update := d.update(in)
	if update.IsEmpty() {
		return s.Get(ctx, *d.id)
	}
	c, err := s.repo.Update(ctx, *d.id, update)
	if err != nil {
		return domain.Commerce{}, apperr.SaveFailed("commerces.Update", err)
	}
	s.bus.Publish(ctx, events.CommerceUpdated{
		BaseEvent:  events.NewBaseEvent(),
		CommerceID: c.ID,
		Name:       c.Name,
		ActorID:    actor.UserID(),
		Fields:     update.FieldNames(),
		Status:     c.Status.Label(),
	})
	return c, nil
}

func (s *Service) Delete(ctx context.Context, actor httpkit.Identity, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.SaveFailed("commerces.Delete", err)
	}
	s.bus.Publish(ctx, events.CommerceDeleted{
		BaseEvent:  events.NewBaseEvent(),
		CommerceID: id,
		ActorID:    actor.UserID(),
	})
	return nil
}

// Ingest inserts a commerce produced by the search automation unless one
// with the same name and address exists. It reports whether a row was created.
func (s *Service) Ingest(ctx context.Context, in domain.Input) (bool, error) {
	d := NewDraft()
	d.values = s.clean(in)
	d.values.Status = domain.StatusToContact
	if !in.Priority.Valid() {
		d.values.Priority = domain.PriorityNormal
	}
	if missing := d.Validate(); len(missing) > 0 {
		return false, apperr.MissingFields(missing)
	}

	clean := d.Values()
	exists, err := s.repo.ExistsByNameAddress(ctx, clean.Name, clean.Address)
	if err != nil {
		return false, apperr.LoadFailed("commerces.Ingest", err)
	}
	if exists {
		return false, nil
	}
	if err := s.checkCommercial(ctx, clean.CommercialID); err != nil {
		clean.CommercialID = nil
	}

	c, err := s.repo.Create(ctx, clean)
	if err != nil {
		return false, apperr.SaveFailed("commerces.Ingest", err)
	}
	s.bus.Publish(ctx, events.CommerceCreated{
		BaseEvent:    events.NewBaseEvent(),
		CommerceID:   c.ID,
		Name:         c.Name,
		CommercialID: c.CommercialID,
		Source:       SourceIngest,
	})
	return true, nil
}

func (s *Service) checkCommercial(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	ok, err := s.profiles.ProfileExists(ctx, *id)
	if err != nil {
		return apperr.LoadFailed("commerces.checkCommercial", err)
	}
	if !ok {
		return apperr.Validation(msgCommercialNotFound).WithDetails(map[string]any{"field": domain.FieldCommercialID})
	}
	return nil
}

// clean strips markup from free text and normalises the phone number.
func (s *Service) clean(in domain.Input) domain.Input {
	in.Name = sanitize.Text(in.Name)
	in.Type = sanitize.TextPtr(in.Type)
	in.Address = sanitize.TextPtr(in.Address)
	in.Phone = s.phones.E164Ptr(sanitize.TextPtr(in.Phone))
	in.Email = sanitize.TextPtr(in.Email)
	in.Website = sanitize.TextPtr(in.Website)
	in.GoogleMapsURL = sanitize.TextPtr(in.GoogleMapsURL)
	in.Facebook = sanitize.TextPtr(in.Facebook)
	in.Instagram = sanitize.TextPtr(in.Instagram)
	in.LinkedIn = sanitize.TextPtr(in.LinkedIn)
	in.InternalNotes = sanitize.TextPtr(in.InternalNotes)
	return in
}
