package actionlog

import (
	"context"
	"fmt"

	"prospectmap_backend/internal/events"
	"prospectmap_backend/platform/logger"

	"github.com/google/uuid"
)

// Writer persists entries.
type Writer interface {
	Append(ctx context.Context, e Entry) error
}

// Subscriber turns domain events into action log entries.
type Subscriber struct {
	writer Writer
	log    *logger.Logger
}

func NewSubscriber(writer Writer, log *logger.Logger) *Subscriber {
	return &Subscriber{writer: writer, log: log}
}

// RegisterHandlers subscribes to every event that maps to an action.
func (s *Subscriber) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.CommerceCreated{}.EventName(), s)
	bus.Subscribe(events.CommerceUpdated{}.EventName(), s)
	bus.Subscribe(events.CommerceDeleted{}.EventName(), s)
	bus.Subscribe(events.AppointmentCreated{}.EventName(), s)
	bus.Subscribe(events.AppointmentUpdated{}.EventName(), s)
	bus.Subscribe(events.AppointmentDeleted{}.EventName(), s)
	bus.Subscribe(events.ProfileUpdated{}.EventName(), s)
	bus.Subscribe(events.ProfileActiveToggled{}.EventName(), s)
	bus.Subscribe(events.SearchRequested{}.EventName(), s)
	bus.Subscribe(events.ExportGenerated{}.EventName(), s)
}

// Handle writes the entry for event. Unknown events are ignored.
func (s *Subscriber) Handle(ctx context.Context, event events.Event) error {
	entry, ok := entryFor(event)
	if !ok {
		return nil
	}
	if err := s.writer.Append(ctx, entry); err != nil {
		s.log.Error("failed to append action log", "event", event.EventName(), "error", err)
		return err
	}
	return nil
}

func entryFor(event events.Event) (Entry, bool) {
	switch e := event.(type) {
	case events.CommerceCreated:
		return Entry{
			Type:        ActionCommerceCreated,
			CommerceID:  ptr(e.CommerceID),
			ProfileID:   e.ActorID,
			Description: fmt.Sprintf("Commerce créé : %s", e.Name),
			Metadata:    map[string]any{"source": e.Source},
		}, true
	case events.CommerceUpdated:
		return Entry{
			Type:        ActionCommerceUpdated,
			CommerceID:  ptr(e.CommerceID),
			ProfileID:   ptr(e.ActorID),
			Description: fmt.Sprintf("Commerce modifié : %s", e.Name),
			Metadata:    map[string]any{"fields": e.Fields, "status": e.Status},
		}, true
	case events.CommerceDeleted:
		return Entry{
			Type:        ActionCommerceDeleted,
			CommerceID:  ptr(e.CommerceID),
			ProfileID:   ptr(e.ActorID),
			Description: "Commerce supprimé",
		}, true
	case events.AppointmentCreated:
		return Entry{
			Type:        ActionAppointmentCreated,
			CommerceID:  ptr(e.CommerceID),
			ProfileID:   ptr(e.ActorID),
			Description: fmt.Sprintf("Rendez-vous planifié le %s à %s", e.Date, e.Time),
			Metadata:    map[string]any{"appointmentId": e.AppointmentID, "type": e.Type},
		}, true
	case events.AppointmentUpdated:
		return Entry{
			Type:        ActionAppointmentUpdated,
			CommerceID:  ptr(e.CommerceID),
			ProfileID:   ptr(e.ActorID),
			Description: "Rendez-vous modifié",
			Metadata:    map[string]any{"appointmentId": e.AppointmentID, "status": e.Status},
		}, true
	case events.AppointmentDeleted:
		return Entry{
			Type:        ActionAppointmentDeleted,
			CommerceID:  ptr(e.CommerceID),
			ProfileID:   ptr(e.ActorID),
			Description: "Rendez-vous supprimé",
			Metadata:    map[string]any{"appointmentId": e.AppointmentID},
		}, true
	case events.ProfileUpdated:
		return Entry{
			Type:        ActionProfileUpdated,
			ProfileID:   ptr(e.ProfileID),
			Description: "Profil modifié",
			Metadata:    map[string]any{"fields": e.Fields},
		}, true
	case events.ProfileActiveToggled:
		desc := "Profil désactivé"
		if e.Active {
			desc = "Profil activé"
		}
		return Entry{
			Type:        ActionProfileToggled,
			ProfileID:   ptr(e.ActorID),
			Description: desc,
			Metadata:    map[string]any{"targetProfileId": e.ProfileID, "active": e.Active},
		}, true
	case events.SearchRequested:
		return Entry{
			Type:        ActionSearch,
			ProfileID:   ptr(e.ActorID),
			Description: fmt.Sprintf("Recherche : %s à %s", e.EstablishmentType, e.Location),
			Metadata: map[string]any{
				"location":           e.Location,
				"establishment_type": e.EstablishmentType,
				"result_count":       e.ResultCount,
			},
		}, true
	case events.ExportGenerated:
		return Entry{
			Type:        ActionExport,
			ProfileID:   ptr(e.ActorID),
			Description: fmt.Sprintf("Export CSV : %s", e.Filename),
			Metadata:    map[string]any{"kind": e.Kind, "rows": e.Rows},
		}, true
	}
	return Entry{}, false
}

func ptr(id uuid.UUID) *uuid.UUID {
	return &id
}
