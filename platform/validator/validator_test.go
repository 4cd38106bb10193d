package validator

import "testing"

type sampleRequest struct {
	Date string `json:"date" validate:"required,isodate"`
	Time string `json:"time" validate:"required,hhmm"`
}

func TestDateAndTimeTags(t *testing.T) {
	val := New()

	if err := val.Struct(sampleRequest{Date: "2025-06-01", Time: "09:00"}); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	err := val.Struct(sampleRequest{Date: "01/06/2025", Time: "9h"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	fields := FieldErrors(err)
	if fields["date"] != "isodate" {
		t.Fatalf("expected isodate failure on date, got %v", fields)
	}
	if fields["time"] != "hhmm" {
		t.Fatalf("expected hhmm failure on time, got %v", fields)
	}
}

func TestIsHHMM(t *testing.T) {
	cases := map[string]bool{
		"00:00": true,
		"23:59": true,
		"24:00": false,
		"9:00":  false,
		"09:60": false,
		"":      false,
	}
	for input, want := range cases {
		if got := IsHHMM(input); got != want {
			t.Errorf("IsHHMM(%q) = %v, want %v", input, got, want)
		}
	}
}
