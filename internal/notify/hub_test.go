package notify

import (
	"testing"
	"time"

	"github.com/codelens-edu/codelens-gateway/internal/roles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversToSessionSubscribers(t *testing.T) {
	hub := NewHub()

	ch1, cancel1 := hub.Subscribe("s-1")
	defer cancel1()
	ch2, cancel2 := hub.Subscribe("s-1")
	defer cancel2()
	other, cancelOther := hub.Subscribe("s-2")
	defer cancelOther()

	hub.Publish(SessionEvent{Event: EventSessionInvalidated, SessionID: "s-1", Redirect: roles.RouteLogin})

	for _, ch := range []<-chan SessionEvent{ch1, ch2} {
		select {
		case evt := <-ch:
			assert.Equal(t, EventSessionInvalidated, evt.Event)
			assert.Equal(t, roles.RouteLogin, evt.Redirect)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}

	select {
	case <-other:
		t.Fatal("event leaked to another session's subscriber")
	default:
	}
}

func TestHubCancelRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	_, cancel := hub.Subscribe("s-1")
	require.Equal(t, 1, hub.SubscriberCount("s-1"))

	cancel()
	assert.Zero(t, hub.SubscriberCount("s-1"))

	// Publishing with no subscribers is a no-op.
	hub.Publish(SessionEvent{Event: EventLoggedOut, SessionID: "s-1"})
}

func TestHubDoesNotBlockOnSlowSubscriber(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe("s-1")
	defer cancel()

	// Fill the buffer and keep publishing; Publish must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 32; i++ {
			hub.Publish(SessionEvent{Event: EventLoggedOut, SessionID: "s-1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	assert.NotEmpty(t, ch)
}
