package livesync

import (
	"errors"
	"strings"
	"sync"
)

const DefaultSubscriberBuffer = 16

// Hub fans promo-code change events out to scope-keyed subscribers.
// Subscribers that fall behind drop events rather than block the publisher;
// their local list goes stale until they re-fetch.
type Hub struct {
	mu               sync.RWMutex
	streams          map[string]*stream
	subscriberBuffer int
}

type stream struct {
	mu     sync.Mutex
	subs   map[uint64]chan Event
	nextID uint64
}

// Subscription is a standing watch on one scope. Callers own the teardown:
// a Subscription that is never closed keeps receiving events forever.
type Subscription struct {
	hub   *Hub
	scope string
	id    uint64
	ch    chan Event
	once  sync.Once
}

func NewHub() *Hub {
	return &Hub{
		streams:          make(map[string]*stream),
		subscriberBuffer: DefaultSubscriberBuffer,
	}
}

// Publish delivers the event to every scope it matches. Scopes with no
// subscribers are skipped.
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	for _, scope := range event.Scopes() {
		h.publishScope(scope, event)
	}
}

func (h *Hub) publishScope(scope string, event Event) {
	h.mu.RLock()
	stream := h.streams[scope]
	h.mu.RUnlock()
	if stream == nil {
		return
	}

	stream.mu.Lock()
	subs := make([]chan Event, 0, len(stream.subs))
	for _, ch := range stream.subs {
		subs = append(subs, ch)
	}
	stream.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe opens a watch on one scope key.
func (h *Hub) Subscribe(scope string) (*Subscription, error) {
	if h == nil {
		return nil, errors.New("hub unavailable")
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return nil, errors.New("invalid scope")
	}

	stream := h.ensureStream(scope)
	stream.mu.Lock()
	id := stream.nextID
	stream.nextID++
	ch := make(chan Event, h.subscriberBuffer)
	stream.subs[id] = ch
	stream.mu.Unlock()

	return &Subscription{
		hub:   h,
		scope: scope,
		id:    id,
		ch:    ch,
	}, nil
}

func (h *Hub) ensureStream(scope string) *stream {
	h.mu.RLock()
	current := h.streams[scope]
	h.mu.RUnlock()
	if current != nil {
		return current
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	current = h.streams[scope]
	if current == nil {
		current = &stream{subs: make(map[uint64]chan Event)}
		h.streams[scope] = current
	}
	return current
}

func (h *Hub) unsubscribe(scope string, id uint64) {
	h.mu.RLock()
	stream := h.streams[scope]
	h.mu.RUnlock()
	if stream == nil {
		return
	}

	stream.mu.Lock()
	delete(stream.subs, id)
	remaining := len(stream.subs)
	stream.mu.Unlock()
	if remaining != 0 {
		return
	}

	h.mu.Lock()
	current := h.streams[scope]
	if current == stream {
		stream.mu.Lock()
		empty := len(stream.subs) == 0
		stream.mu.Unlock()
		if empty {
			delete(h.streams, scope)
		}
	}
	h.mu.Unlock()
}

func (s *Subscription) Events() <-chan Event {
	if s == nil {
		return nil
	}
	return s.ch
}

func (s *Subscription) Close() {
	if s == nil || s.hub == nil {
		return
	}
	s.once.Do(func() {
		s.hub.unsubscribe(s.scope, s.id)
	})
}
