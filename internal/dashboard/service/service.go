// Package service assembles the home dashboard and the statistics page.
package service

import (
	"context"
	"errors"
	"sync"

	"prospectmap_backend/internal/analytics"
	apptdomain "prospectmap_backend/internal/appointments/domain"
	"prospectmap_backend/internal/commerces/domain"
	"prospectmap_backend/internal/listing"
	profiledomain "prospectmap_backend/internal/profiles/domain"
	"prospectmap_backend/platform/apperr"
	"prospectmap_backend/platform/httpkit"
	"prospectmap_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	recentLimit   = 5
	upcomingLimit = 5
	weekDays      = 7

	msgOwnFilterOnly = "vous ne pouvez filtrer que sur vos propres commerces"
)

type CommerceSource interface {
	All(ctx context.Context) ([]domain.Commerce, error)
	Recent(ctx context.Context, limit int) ([]domain.Commerce, error)
}

type AppointmentSource interface {
	Upcoming(ctx context.Context, commercialID *uuid.UUID, limit int) ([]apptdomain.Appointment, error)
	CountNextDays(ctx context.Context, commercialID *uuid.UUID, days int) (int, error)
	Today() string
}

type ProfileSource interface {
	GetMe(ctx context.Context, actor httpkit.Identity) (profiledomain.Profile, error)
}

// Dashboard is the home page summary.
type Dashboard struct {
	Greeting             string
	TotalCommerces       int
	AppointmentsThisWeek int
	ConversionRate       int
	ToFollowUp           int
	RecentCommerces      []domain.Commerce
	NextAppointments     []apptdomain.Appointment
}

// Statistics is the pipeline breakdown of one commerce set.
type Statistics struct {
	Pipeline analytics.PipelineStats
	ByType   []analytics.TypeCount
}

type Service struct {
	commerces    CommerceSource
	appointments AppointmentSource
	profiles     ProfileSource
	log          *logger.Logger

	// one view per caller; a newer request supersedes that caller's older load
	views sync.Map
}

func New(commerces CommerceSource, appointments AppointmentSource, profiles ProfileSource, log *logger.Logger) *Service {
	return &Service{
		commerces:    commerces,
		appointments: appointments,
		profiles:     profiles,
		log:          log,
	}
}

// loadCommerces always reads the store. When the same caller issues a newer
// request before this load finishes, both requests get the newer result.
func (s *Service) loadCommerces(ctx context.Context, actor httpkit.Identity) ([]domain.Commerce, error) {
	v, _ := s.views.LoadOrStore(actor.UserID(), listing.New(s.commerces.All))
	view := v.(*listing.View[[]domain.Commerce])

	records, err := view.Reload(ctx)
	if errors.Is(err, listing.ErrSuperseded) {
		return view.Current(ctx)
	}
	return records, err
}

// Dashboard fans the independent queries out and waits for all of them.
func (s *Service) Dashboard(ctx context.Context, actor httpkit.Identity) (Dashboard, error) {
	var (
		out      Dashboard
		records  []domain.Commerce
		me       profiledomain.Profile
		upcoming []apptdomain.Appointment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.loadCommerces(gctx, actor)
		return err
	})
	g.Go(func() error {
		var err error
		out.RecentCommerces, err = s.commerces.Recent(gctx, recentLimit)
		return err
	})
	g.Go(func() error {
		var err error
		upcoming, err = s.appointments.Upcoming(gctx, nil, upcomingLimit)
		return err
	})
	g.Go(func() error {
		var err error
		out.AppointmentsThisWeek, err = s.appointments.CountNextDays(gctx, nil, weekDays)
		return err
	})
	g.Go(func() error {
		var err error
		me, err = s.profiles.GetMe(gctx, actor)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, apperr.LoadFailed("dashboard.Dashboard", err)
	}

	pipeline := analytics.Pipeline(records)
	out.Greeting = me.FirstName
	out.TotalCommerces = pipeline.Total
	out.ConversionRate = pipeline.ConversionRate
	out.ToFollowUp = pipeline.ToFollowUp
	out.NextAppointments = analytics.UpcomingWindow(upcoming, s.appointments.Today(), weekDays)
	return out, nil
}

// Statistics aggregates the current commerces, optionally restricted to one owner.
// Non-admins may only pass their own id.
func (s *Service) Statistics(ctx context.Context, actor httpkit.Identity, commercialID *uuid.UUID) (Statistics, error) {
	if commercialID != nil && !actor.IsAdmin() && *commercialID != actor.UserID() {
		return Statistics{}, apperr.Forbidden(msgOwnFilterOnly)
	}

	records, err := s.loadCommerces(ctx, actor)
	if err != nil {
		return Statistics{}, apperr.LoadFailed("dashboard.Statistics", err)
	}
	if commercialID != nil {
		records = analytics.FilterCommerces(records, domain.Filter{CommercialID: commercialID})
	}
	return Statistics{Pipeline: analytics.Pipeline(records), ByType: analytics.CountByType(records)}, nil
}
