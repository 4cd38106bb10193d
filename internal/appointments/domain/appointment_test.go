package domain

import (
	"testing"
	"time"
)

func TestParseTypeAndStatus(t *testing.T) {
	for _, typ := range Types {
		if got, err := ParseType(string(typ)); err != nil || got != typ {
			t.Fatalf("ParseType(%q) = %q, %v", typ, got, err)
		}
	}
	for _, st := range Statuses {
		if got, err := ParseStatus(string(st)); err != nil || got != st {
			t.Fatalf("ParseStatus(%q) = %q, %v", st, got, err)
		}
	}
	if _, err := ParseType("visite"); err == nil {
		t.Fatal("expected unknown type to be rejected")
	}
	if _, err := ParseStatus("pending"); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestNeedsReminder(t *testing.T) {
	want := map[Status]bool{StatusPending: true, StatusConfirmed: true, StatusCancelled: false, StatusDone: false}
	for st, expected := range want {
		if st.NeedsReminder() != expected {
			t.Errorf("%s: expected %v", st, expected)
		}
	}
}

func TestStartsAt(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	start, err := Appointment{Date: "2025-06-01", Time: "09:00"}.StartsAt(paris)
	if err != nil {
		t.Fatalf("starts at: %v", err)
	}
	if start.UTC().Hour() != 7 {
		t.Fatalf("expected 07:00 UTC in summer, got %v", start.UTC())
	}
}
