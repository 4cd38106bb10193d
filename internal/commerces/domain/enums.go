package domain

import (
	"fmt"
	"strings"
)

// Status is the pipeline position of a commerce. The zero value is invalid.
type Status uint8

const (
	StatusToContact Status = iota + 1
	StatusInProgress
	StatusAppointmentScheduled
	StatusConverted
	StatusLost
)

// Statuses lists every status in pipeline order.
var Statuses = []Status{
	StatusToContact,
	StatusInProgress,
	StatusAppointmentScheduled,
	StatusConverted,
	StatusLost,
}

// Label is the French name stored in the database and shown to users.
func (s Status) Label() string {
	switch s {
	case StatusToContact:
		return "À contacter"
	case StatusInProgress:
		return "En cours"
	case StatusAppointmentScheduled:
		return "RDV planifié"
	case StatusConverted:
		return "Converti"
	case StatusLost:
		return "Perdu"
	}
	return ""
}

// Code is the ASCII alias accepted on input.
func (s Status) Code() string {
	switch s {
	case StatusToContact:
		return "to_contact"
	case StatusInProgress:
		return "in_progress"
	case StatusAppointmentScheduled:
		return "appointment_scheduled"
	case StatusConverted:
		return "converted"
	case StatusLost:
		return "lost"
	}
	return ""
}

func (s Status) Valid() bool { return s.Label() != "" }

// Closed reports whether the commerce left the pipeline.
func (s Status) Closed() bool {
	switch s {
	case StatusConverted, StatusLost:
		return true
	case StatusToContact, StatusInProgress, StatusAppointmentScheduled:
		return false
	}
	return false
}

func (s Status) String() string { return s.Label() }

// ParseStatus accepts a label or a code, ignoring case and surrounding space.
func ParseStatus(value string) (Status, error) {
	v := strings.TrimSpace(value)
	for _, s := range Statuses {
		if strings.EqualFold(v, s.Label()) || strings.EqualFold(v, s.Code()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown commerce status %q", value)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid commerce status %d", s)
	}
	return []byte(s.Label()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Priority ranks commerces for follow-up. The zero value is invalid.
type Priority uint8

const (
	PriorityLow Priority = iota + 1
	PriorityNormal
	PriorityHigh
)

var Priorities = []Priority{PriorityLow, PriorityNormal, PriorityHigh}

func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Basse"
	case PriorityNormal:
		return "Normale"
	case PriorityHigh:
		return "Haute"
	}
	return ""
}

func (p Priority) Code() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	}
	return ""
}

func (p Priority) Valid() bool { return p.Label() != "" }

func (p Priority) String() string { return p.Label() }

func ParsePriority(value string) (Priority, error) {
	v := strings.TrimSpace(value)
	for _, p := range Priorities {
		if strings.EqualFold(v, p.Label()) || strings.EqualFold(v, p.Code()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown commerce priority %q", value)
}

func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid commerce priority %d", p)
	}
	return []byte(p.Label()), nil
}

func (p *Priority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
