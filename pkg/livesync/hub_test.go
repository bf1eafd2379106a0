package livesync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case event := <-sub.Events():
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case event := <-sub.Events():
		t.Fatalf("unexpected event: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_PublishReachesAllMatchingScopes(t *testing.T) {
	hub := NewHub()

	all, err := hub.Subscribe(ScopeAll)
	require.NoError(t, err)
	defer all.Close()

	mine, err := hub.Subscribe(ScopeInfluencer(7))
	require.NoError(t, err)
	defer mine.Close()

	brand, err := hub.Subscribe(ScopeBrand("glow-cosmetics"))
	require.NoError(t, err)
	defer brand.Close()

	other, err := hub.Subscribe(ScopeInfluencer(99))
	require.NoError(t, err)
	defer other.Close()

	event := Event{Kind: Insert, Record: promo(1, "GLOW10")}
	hub.Publish(event)

	assert.Equal(t, event, receive(t, all))
	assert.Equal(t, event, receive(t, mine))
	assert.Equal(t, event, receive(t, brand))
	assertNoEvent(t, other)
}

func TestHub_CloseStopsDelivery(t *testing.T) {
	hub := NewHub()

	sub, err := hub.Subscribe(ScopeAll)
	require.NoError(t, err)

	hub.Publish(Event{Kind: Insert, Record: promo(1, "GLOW10")})
	receive(t, sub)

	sub.Close()
	sub.Close() // second close is safe

	hub.Publish(Event{Kind: Insert, Record: promo(2, "GLOW20")})
	assertNoEvent(t, sub)
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()

	sub, err := hub.Subscribe(ScopeAll)
	require.NoError(t, err)
	defer sub.Close()

	// Overfill the subscriber buffer; Publish must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < DefaultSubscriberBuffer*3; i++ {
			hub.Publish(Event{Kind: Insert, Record: promo(uint(i+1), "CODE")})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}
}

func TestHub_SubscribeValidatesScope(t *testing.T) {
	hub := NewHub()

	_, err := hub.Subscribe("  ")
	assert.Error(t, err)
}

func TestHub_IndependentScopesDoNotInterfere(t *testing.T) {
	hub := NewHub()

	brandA, err := hub.Subscribe(ScopeBrand("glow-cosmetics"))
	require.NoError(t, err)
	defer brandA.Close()

	brandB, err := hub.Subscribe(ScopeBrand("peak-fitness"))
	require.NoError(t, err)
	defer brandB.Close()

	hub.Publish(Event{Kind: Insert, Record: promo(1, "GLOW10")})

	receive(t, brandA)
	assertNoEvent(t, brandB)
}
