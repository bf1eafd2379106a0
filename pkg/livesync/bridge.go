package livesync

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// Channel is the redis pub/sub channel carrying promo-code change events
// between API instances.
const Channel = "promo_code_events"

// Bridge publishes local writes to redis and feeds remote (and local)
// events into the hub, so every instance's subscribers see every write.
type Bridge struct {
	rdb *redis.Client
	hub *Hub
}

func NewBridge(rdb *redis.Client, hub *Hub) *Bridge {
	return &Bridge{rdb: rdb, hub: hub}
}

// Publish sends one change event through redis. The local hub only sees it
// once it comes back over the channel, so ordering is the same everywhere.
func (b *Bridge) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, Channel, payload).Err()
}

// Run consumes the redis channel and fans events into the hub until the
// context is cancelled. go-redis re-establishes the subscription after
// connection loss; events missed in between are not replayed, so local
// lists can go stale until callers re-fetch.
func (b *Bridge) Run(ctx context.Context) {
	pubsub := b.rdb.Subscribe(ctx, Channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				log.Println("livesync: redis channel closed, live feeds are stale")
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("livesync: dropping malformed event: %v", err)
				continue
			}
			b.hub.Publish(event)
		}
	}
}
