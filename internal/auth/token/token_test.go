package token

import "testing"

func TestNewRefresh(t *testing.T) {
	a, digest, err := NewRefresh()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, _, _ := NewRefresh()
	if a == b {
		t.Fatal("expected distinct tokens")
	}
	if digest != Digest(a) || len(digest) != 64 {
		t.Fatalf("unexpected digest %q", digest)
	}
}

func TestMatches(t *testing.T) {
	stored := Digest("ingest-key")
	if !Matches("ingest-key", stored) {
		t.Fatal("expected match")
	}
	if Matches("ingest-key ", stored) || Matches("", stored) {
		t.Fatal("expected mismatch")
	}
}
