package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestProductionLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithUserID(ctx, "user-1")
	log.WithContext(ctx).HTTPRequest("GET", "/api/v1/commerces", 200, 12, "127.0.0.1")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "http_request" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["request_id"] != "req-1" || entry["user_id"] != "user-1" {
		t.Fatalf("expected context attributes, got %v", entry)
	}
}

func TestDevelopmentLoggerIsText(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("development", &buf)
	log.Debug("hello")

	if !strings.Contains(buf.String(), "msg=hello") {
		t.Fatalf("expected text output at debug level, got %q", buf.String())
	}
}
