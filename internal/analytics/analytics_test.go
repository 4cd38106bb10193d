package analytics

import (
	"testing"

	apptdomain "prospectmap_backend/internal/appointments/domain"
	"prospectmap_backend/internal/commerces/domain"

	"github.com/google/uuid"
)

func commerce(name string, status domain.Status, typ *string) domain.Commerce {
	return domain.Commerce{ID: uuid.New(), Name: name, Status: status, Priority: domain.PriorityNormal, Type: typ}
}

func strPtr(s string) *string { return &s }

func TestConversionRate(t *testing.T) {
	cases := []struct {
		converted, total, want int
	}{
		{2, 3, 67},
		{0, 0, 0},
		{1, 8, 13},
		{5, 5, 100},
	}
	for _, tc := range cases {
		if got := ConversionRate(tc.converted, tc.total); got != tc.want {
			t.Errorf("ConversionRate(%d, %d) = %d, want %d", tc.converted, tc.total, got, tc.want)
		}
	}
}

func TestPipeline(t *testing.T) {
	records := []domain.Commerce{
		commerce("A", domain.StatusConverted, nil),
		commerce("B", domain.StatusConverted, nil),
		commerce("C", domain.StatusLost, nil),
	}
	p := Pipeline(records)
	if p.Total != 3 || p.Converted != 2 || p.Lost != 1 || p.ConversionRate != 67 {
		t.Fatalf("unexpected pipeline: %+v", p)
	}

	empty := Pipeline(nil)
	if empty.Total != 0 || empty.ConversionRate != 0 {
		t.Fatalf("unexpected empty pipeline: %+v", empty)
	}
}

func TestPipelineFollowUp(t *testing.T) {
	p := Pipeline([]domain.Commerce{
		commerce("A", domain.StatusInProgress, nil),
		commerce("B", domain.StatusInProgress, nil),
		commerce("C", domain.StatusToContact, nil),
		commerce("D", domain.StatusAppointmentScheduled, nil),
	})
	if p.ToFollowUp != 2 || p.ToContact != 1 || p.Scheduled != 1 {
		t.Fatalf("unexpected pipeline: %+v", p)
	}
}

func TestCountByType(t *testing.T) {
	records := []domain.Commerce{
		commerce("A", domain.StatusToContact, strPtr("Restaurant")),
		commerce("B", domain.StatusToContact, strPtr("Boulangerie")),
		commerce("C", domain.StatusToContact, strPtr("Restaurant")),
		commerce("D", domain.StatusToContact, nil),
		commerce("E", domain.StatusToContact, strPtr("  ")),
		commerce("F", domain.StatusToContact, strPtr("Bar")),
	}
	got := CountByType(records)
	want := []TypeCount{{"Autre", 2}, {"Restaurant", 2}, {"Bar", 1}, {"Boulangerie", 1}}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestFilterCommerces(t *testing.T) {
	owner := uuid.New()
	a := commerce("Café Crème", domain.StatusInProgress, strPtr("Bar"))
	a.CommercialID = &owner
	b := commerce("Le Zinc", domain.StatusInProgress, nil)
	c := commerce("Cafe du Port", domain.StatusLost, strPtr("Bar"))

	status := domain.StatusInProgress
	got := FilterCommerces([]domain.Commerce{a, b, c}, domain.Filter{Status: &status, Search: "cafe"})
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("expected only %q, got %+v", a.Name, got)
	}

	typ := "bar"
	got = FilterCommerces([]domain.Commerce{a, b, c}, domain.Filter{Type: &typ})
	if len(got) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(got))
	}

	got = FilterCommerces([]domain.Commerce{a, b, c}, domain.Filter{CommercialID: &owner})
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("expected owner match only, got %+v", got)
	}
}

func TestGroupByDate(t *testing.T) {
	appts := []apptdomain.Appointment{
		{ID: uuid.New(), Date: "2025-06-02", Time: "14:00"},
		{ID: uuid.New(), Date: "2025-06-01", Time: "11:00"},
		{ID: uuid.New(), Date: "2025-06-01", Time: "09:00"},
		{ID: uuid.New(), Date: "2025-06-02", Time: "08:30"},
	}
	groups := GroupByDate(appts)
	if len(groups) != 2 || groups[0].Date != "2025-06-01" || groups[1].Date != "2025-06-02" {
		t.Fatalf("unexpected groups: %+v", groups)
	}
	if groups[0].Items[0].Time != "09:00" || groups[0].Items[1].Time != "11:00" {
		t.Fatalf("unexpected order in first day: %+v", groups[0].Items)
	}
	if groups[1].Items[0].Time != "08:30" {
		t.Fatalf("unexpected order in second day: %+v", groups[1].Items)
	}
	if appts[0].Date != "2025-06-02" {
		t.Fatal("input must not be reordered")
	}
}

func TestUpcomingWindow(t *testing.T) {
	appts := []apptdomain.Appointment{
		{Date: "2025-05-31"},
		{Date: "2025-06-01"},
		{Date: "2025-06-08"},
		{Date: "2025-06-09"},
	}
	got := UpcomingWindow(appts, "2025-06-01", 7)
	if len(got) != 2 || got[0].Date != "2025-06-01" || got[1].Date != "2025-06-08" {
		t.Fatalf("unexpected window: %+v", got)
	}
}
