package events

import (
	"context"
	"sync/atomic"
	"testing"

	"prospectmap_backend/platform/logger"
)

type pingEvent struct {
	BaseEvent
}

func (pingEvent) EventName() string { return "test.ping" }

func TestPublishRunsAllHandlers(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var calls atomic.Int32

	for i := 0; i < 3; i++ {
		bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, event Event) error {
			calls.Add(1)
			return nil
		}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()

	if calls.Load() != 3 {
		t.Fatalf("expected 3 handler calls, got %d", calls.Load())
	}
}

func TestPublishRecoversFromPanics(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		panic("handler bug")
	}))

	bus.Publish(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()
}
