// Package service triggers external commerce searches.
package service

import (
	"context"
	"strings"

	"prospectmap_backend/internal/events"
	"prospectmap_backend/internal/search/client"
	"prospectmap_backend/platform/apperr"
	"prospectmap_backend/platform/httpkit"
	"prospectmap_backend/platform/logger"
	"prospectmap_backend/platform/sanitize"
)

const (
	DefaultResultCount = 10
	MinResultCount     = 5
	MaxResultCount     = 50
	ResultCountStep    = 5

	msgSearchFailed   = "la recherche a échoué"
	msgSearchDisabled = "la recherche n'est pas configurée"
)

// Sender delivers the search request to the automation endpoint.
type Sender interface {
	Send(ctx context.Context, p client.Payload) error
}

// Request is a validated search.
type Request struct {
	Location          string
	EstablishmentType string
	ResultCount       int
}

// ValidResultCount reports whether n is a multiple of 5 in 5..50.
func ValidResultCount(n int) bool {
	return n >= MinResultCount && n <= MaxResultCount && n%ResultCountStep == 0
}

type Service struct {
	sender Sender
	bus    events.Bus
	log    *logger.Logger
}

// New creates the service. A nil sender disables searching.
func New(sender Sender, bus events.Bus, log *logger.Logger) *Service {
	return &Service{sender: sender, bus: bus, log: log}
}

// Search forwards the request on behalf of actor. Any failure of the
// webhook call is reported as an upstream error.
func (s *Service) Search(ctx context.Context, actor httpkit.Identity, req Request) error {
	req.Location = sanitize.Text(req.Location)
	req.EstablishmentType = sanitize.Text(req.EstablishmentType)

	var missing []string
	if strings.TrimSpace(req.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(req.EstablishmentType) == "" {
		missing = append(missing, "establishmentType")
	}
	if len(missing) > 0 {
		return apperr.MissingFields(missing)
	}
	if req.ResultCount == 0 {
		req.ResultCount = DefaultResultCount
	}
	if !ValidResultCount(req.ResultCount) {
		return apperr.Validation("resultCount doit être un multiple de 5 entre 5 et 50")
	}
	if s.sender == nil {
		return apperr.Unavailable(msgSearchDisabled, nil)
	}

	err := s.sender.Send(ctx, client.Payload{
		Location:          req.Location,
		EstablishmentType: req.EstablishmentType,
		ResultCount:       req.ResultCount,
		OwnerID:           actor.UserID(),
	})
	if err != nil {
		return apperr.Unavailable(msgSearchFailed, err)
	}

	s.bus.Publish(ctx, events.SearchRequested{
		BaseEvent:         events.NewBaseEvent(),
		ActorID:           actor.UserID(),
		Location:          req.Location,
		EstablishmentType: req.EstablishmentType,
		ResultCount:       req.ResultCount,
	})
	return nil
}
