package livesync

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBridge(t *testing.T) (*Bridge, *Hub) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	hub := NewHub()
	bridge := NewBridge(rdb, hub)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go bridge.Run(ctx)

	// Give the pub/sub subscription a moment to establish.
	time.Sleep(50 * time.Millisecond)

	return bridge, hub
}

func TestBridge_RoundTripsEventsThroughRedis(t *testing.T) {
	bridge, hub := testBridge(t)

	sub, err := hub.Subscribe(ScopeAll)
	require.NoError(t, err)
	defer sub.Close()

	event := Event{Kind: Update, Record: promo(3, "GLOW30")}
	require.NoError(t, bridge.Publish(context.Background(), event))

	got := receive(t, sub)
	assert.Equal(t, Update, got.Kind)
	assert.Equal(t, uint(3), got.Record.ID)
	assert.Equal(t, "GLOW30", got.Record.Code)
}

func TestBridge_ScopedDeliveryAfterRoundTrip(t *testing.T) {
	bridge, hub := testBridge(t)

	mine, err := hub.Subscribe(ScopeInfluencer(7))
	require.NoError(t, err)
	defer mine.Close()

	other, err := hub.Subscribe(ScopeInfluencer(8))
	require.NoError(t, err)
	defer other.Close()

	require.NoError(t, bridge.Publish(context.Background(), Event{Kind: Insert, Record: promo(1, "GLOW10")}))

	got := receive(t, mine)
	assert.Equal(t, Insert, got.Kind)
	assertNoEvent(t, other)
}
