package domain

import "testing"

func TestParseRole(t *testing.T) {
	if r, err := ParseRole("admin"); err != nil || r != RoleAdmin {
		t.Fatalf("expected admin, got %q (%v)", r, err)
	}
	if _, err := ParseRole("standard"); err == nil {
		t.Fatal("expected unknown role to be rejected")
	}
}

func TestUpdateMeFieldNames(t *testing.T) {
	first := "Alice"
	req := UpdateMe{FirstName: &first, ClearPhone: true}
	got := req.FieldNames()
	if len(got) != 2 || got[0] != "firstName" || got[1] != "phone" {
		t.Fatalf("unexpected fields: %v", got)
	}
	if (UpdateMe{}).IsEmpty() != true {
		t.Fatal("expected zero request to be empty")
	}
}

func TestFullName(t *testing.T) {
	cases := map[string]Profile{
		"Alice Martin": {FirstName: "Alice", LastName: "Martin"},
		"Martin":       {LastName: "Martin"},
		"Alice":        {FirstName: "Alice"},
	}
	for want, p := range cases {
		if got := p.FullName(); got != want {
			t.Errorf("FullName() = %q, want %q", got, want)
		}
	}
}
