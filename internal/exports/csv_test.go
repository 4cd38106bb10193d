package exports

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeCSVQuotesEveryCell(t *testing.T) {
	var buf bytes.Buffer
	err := encodeCSV(&buf, []string{"Nom", "Notes"}, [][]string{
		{"Le Bouchon", `dit "à rappeler"`},
		{"Café, Bar", ""},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, utf8BOM) {
		t.Fatal("expected BOM prefix")
	}
	want := "\"Nom\",\"Notes\"\r\n" +
		"\"Le Bouchon\",\"dit \"\"à rappeler\"\"\"\r\n" +
		"\"Café, Bar\",\"\"\r\n"
	if got := strings.TrimPrefix(out, utf8BOM); got != want {
		t.Fatalf("unexpected csv:\n%q\nwant\n%q", got, want)
	}
}

func TestEncodeCSVHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := encodeCSV(&buf, commerceHeader, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(buf.String(), utf8BOM), "\r\n"), "\r\n")
	if len(lines) != 1 {
		t.Fatalf("expected header only, got %d lines", len(lines))
	}
}
