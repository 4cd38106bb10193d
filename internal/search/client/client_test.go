package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"prospectmap_backend/platform/logger"

	"github.com/google/uuid"
)

func TestSendPostsPayload(t *testing.T) {
	owner := uuid.New()
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, logger.Discard())
	err := c.Send(context.Background(), Payload{Location: "Lyon", EstablishmentType: "restaurant", ResultCount: 10, OwnerID: owner})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if got["location"] != "Lyon" || got["establishment_type"] != "restaurant" || got["result_count"] != float64(10) || got["ownerId"] != owner.String() {
		t.Fatalf("unexpected payload: %v", got)
	}
}

func TestSendNon2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New(srv.URL, time.Second, logger.Discard()).Send(context.Background(), Payload{})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestSendTimeoutFails(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	if err := New(srv.URL, 20*time.Millisecond, logger.Discard()).Send(context.Background(), Payload{}); err == nil {
		t.Fatal("expected timeout error")
	}
}
