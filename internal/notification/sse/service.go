// Package sse provides Server-Sent Events support for live list refreshes.
package sse

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"prospectmap_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventType is the closed set of change notifications pushed to browsers.
type EventType string

const (
	EventCommerceCreated    EventType = "commerce_created"
	EventCommerceUpdated    EventType = "commerce_updated"
	EventCommerceDeleted    EventType = "commerce_deleted"
	EventAppointmentChanged EventType = "appointment_changed"
)

const (
	clientBuffer      = 32
	heartbeatInterval = 25 * time.Second
)

// Event is an SSE payload. Clients refetch the affected list on receipt.
type Event struct {
	Type          EventType  `json:"type"`
	CommerceID    *uuid.UUID `json:"commerceId,omitempty"`
	AppointmentID *uuid.UUID `json:"appointmentId,omitempty"`
}

type client struct {
	userID uuid.UUID
	events chan Event
}

// Service manages SSE connections and broadcasting.
type Service struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
	log     *logger.Logger
}

func New(log *logger.Logger) *Service {
	return &Service{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

func (s *Service) addClient(c *client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.clients[c] = struct{}{}
	return true
}

func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.events)
}

// ClientCount returns the number of open connections.
func (s *Service) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Broadcast sends event to every connected client. Slow clients drop events.
func (s *Service) Broadcast(event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for c := range s.clients {
		select {
		case c.events <- event:
		default:
			s.log.Warn("sse buffer full", "user_id", c.userID, "event", event.Type)
		}
	}
	s.log.Debug("sse event broadcast", "event", event.Type, "clients", len(s.clients))
}

// Handler returns a Gin handler for SSE connections.
func (s *Service) Handler(getUserID func(*gin.Context) (uuid.UUID, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := &client{userID: userID, events: make(chan Event, clientBuffer)}
		if !s.addClient(cl) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "shutting down"})
			return
		}
		defer s.removeClient(cl)

		c.SSEvent("connected", gin.H{"userId": userID})
		c.Writer.Flush()

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				return
			case <-heartbeat.C:
				c.SSEvent("ping", "")
				c.Writer.Flush()
			case event, ok := <-cl.events:
				if !ok {
					return
				}
				data, _ := json.Marshal(event)
				c.SSEvent(string(event.Type), string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close disconnects every client and refuses new ones.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for c := range s.clients {
		close(c.events)
	}
	s.clients = make(map[*client]struct{})
}
