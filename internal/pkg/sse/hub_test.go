package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishIsScopedToTopic(t *testing.T) {
	hub := NewHub()

	a, cleanupA := hub.Subscribe("company-a")
	defer cleanupA()
	b, cleanupB := hub.Subscribe("company-b")
	defer cleanupB()

	hub.Publish("company-a", Event{Event: "schedule.collected", Data: "s-1"})

	select {
	case ev := <-a:
		assert.Equal(t, "company-a", ev.Topic)
		assert.Equal(t, "schedule.collected", ev.Event)
		assert.False(t, ev.At.IsZero())
	default:
		t.Fatal("expected an event for company-a")
	}

	select {
	case ev := <-b:
		t.Fatalf("company-b received %v", ev)
	default:
	}
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("company-a")
	require.Equal(t, 1, hub.SubscriberCount("company-a"))

	cleanup()
	cleanup()

	assert.Equal(t, 0, hub.SubscriberCount("company-a"))
	assert.Equal(t, 0, hub.TotalSubscribers())
	_, open := <-ch
	assert.False(t, open)
}

func TestHub_PublishDoesNotBlockOnFullBuffer(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe("company-a")
	defer cleanup()

	for i := 0; i < subscriberBuffer*3; i++ {
		hub.Publish("company-a", Event{Event: "tick"})
	}
	assert.Equal(t, 1, hub.SubscriberCount("company-a"))
}
