package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func TestParseStatusAcceptsLabelAndCode(t *testing.T) {
	cases := map[string]Status{
		"À contacter":           StatusToContact,
		"à CONTACTER":           StatusToContact,
		"in_progress":           StatusInProgress,
		" RDV planifié ":        StatusAppointmentScheduled,
		"appointment_scheduled": StatusAppointmentScheduled,
		"Converti":              StatusConverted,
		"lost":                  StatusLost,
	}
	for input, want := range cases {
		got, err := ParseStatus(input)
		if err != nil || got != want {
			t.Errorf("ParseStatus(%q) = %v, %v; want %v", input, got, err, want)
		}
	}
	if _, err := ParseStatus("Gagné"); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestStatusJSONUsesLabel(t *testing.T) {
	out, err := json.Marshal(struct {
		S Status   `json:"s"`
		P Priority `json:"p"`
	}{StatusAppointmentScheduled, PriorityHigh})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"s":"RDV planifié","p":"Haute"}` {
		t.Fatalf("unexpected json %s", out)
	}

	var in struct {
		S Status `json:"s"`
	}
	if err := json.Unmarshal([]byte(`{"s":"converted"}`), &in); err != nil || in.S != StatusConverted {
		t.Fatalf("unmarshal: %v %v", in.S, err)
	}
	if err := json.Unmarshal([]byte(`{"s":"nope"}`), &in); err == nil {
		t.Fatal("expected error for unknown status")
	}

	var zero Status
	if _, err := json.Marshal(zero); err == nil {
		t.Fatal("expected zero status to fail marshalling")
	}
}

func TestEveryStatusHasLabelAndCode(t *testing.T) {
	for _, s := range Statuses {
		if s.Label() == "" || s.Code() == "" {
			t.Fatalf("status %d missing label or code", s)
		}
	}
	for _, p := range Priorities {
		if p.Label() == "" || p.Code() == "" {
			t.Fatalf("priority %d missing label or code", p)
		}
	}
}

func TestFilterMatches(t *testing.T) {
	owner := uuid.New()
	enCours := StatusInProgress
	haute := PriorityHigh
	boulangerie := "boulangerie"

	bakery := Commerce{
		Name:         "Boulangerie Élise",
		Type:         strPtr("Boulangerie"),
		Address:      strPtr("12 rue de l'Église, Lyon"),
		Status:       StatusInProgress,
		Priority:     PriorityHigh,
		CommercialID: &owner,
	}
	noAddress := Commerce{Name: "Garage Central", Status: StatusInProgress, Priority: PriorityHigh}

	cases := []struct {
		name   string
		filter Filter
		c      Commerce
		want   bool
	}{
		{"empty filter", Filter{}, bakery, true},
		{"status and priority", Filter{Status: &enCours, Priority: &haute}, bakery, true},
		{"type case insensitive", Filter{Type: &boulangerie}, bakery, true},
		{"type on nil field", Filter{Type: &boulangerie}, noAddress, false},
		{"owner mismatch", Filter{CommercialID: ptrUUID(uuid.New())}, bakery, false},
		{"owner on unassigned", Filter{CommercialID: &owner}, noAddress, false},
		{"search accent folded", Filter{Search: "eglise"}, bakery, true},
		{"search name", Filter{Search: "ELISE"}, bakery, true},
		{"search nil address", Filter{Search: "lyon"}, noAddress, false},
		{"search and status", Filter{Search: "garage", Status: &enCours}, noAddress, true},
	}
	for _, tc := range cases {
		if got := tc.filter.Matches(tc.c); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func ptrUUID(id uuid.UUID) *uuid.UUID { return &id }

func TestUpdateFieldNames(t *testing.T) {
	name := "Chez Paul"
	converted := StatusConverted
	u := Update{Name: &name, Status: &converted, CommercialID: Change[uuid.UUID](nil)}

	got := u.FieldNames()
	want := []string{FieldName, FieldStatus, FieldCommercialID}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if !(Update{}).IsEmpty() {
		t.Fatal("expected zero update to be empty")
	}
}
