package realtime

import (
	"strings"
	"sync"
)

// Snapshot is one delivery to a subscriber: the complete current value at a
// path, never a diff. Consumers rebuild any derived index (unread counts,
// sort order) from each snapshot.
type Snapshot struct {
	Path  string
	Value interface{}
}

// Subscription receives full snapshots for one path. Pending deliveries are
// coalesced: if a subscriber is slow, intermediate snapshots are replaced by
// the newest one rather than queued, which full-snapshot semantics make safe.
type Subscription struct {
	C    <-chan Snapshot
	ch   chan Snapshot
	hub  *Hub
	path string
	once sync.Once
}

// Unsubscribe stops delivery and releases the subscriber slot. Safe to call
// multiple times and on every exit path of a view.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.remove(s.path, s)
		close(s.ch)
	})
}

// Hub is the in-process fan-out substrate. Writers publish the full current
// value at a path; every subscriber of that path and of each ancestor path
// receives the snapshot.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registers for snapshots of path, e.g. "notifications/u1".
func (h *Hub) Subscribe(path string) *Subscription {
	ch := make(chan Snapshot, 1)
	sub := &Subscription{C: ch, ch: ch, path: path}
	sub.hub = h

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[path] == nil {
		h.subs[path] = make(map[*Subscription]struct{})
	}
	h.subs[path][sub] = struct{}{}
	return sub
}

func (h *Hub) remove(path string, sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[path]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, path)
		}
	}
}

// Publish delivers the full current value at path to subscribers of the path
// and of every ancestor prefix ("notifications/u1/n9" also reaches
// "notifications/u1" and "notifications" subscribers).
func (h *Hub) Publish(path string, value interface{}) {
	snap := Snapshot{Path: path, Value: value}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, p := range prefixes(path) {
		for sub := range h.subs[p] {
			sub.deliver(snap)
		}
	}
}

// SubscriberCount reports active subscribers for an exact path.
func (h *Hub) SubscriberCount(path string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[path])
}

func (s *Subscription) deliver(snap Snapshot) {
	// Latest-wins: drain a stale pending snapshot, then send. The channel
	// has capacity 1, so this never blocks the publisher.
	for {
		select {
		case s.ch <- snap:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

func prefixes(path string) []string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	for i := 1; i <= len(parts); i++ {
		out = append(out, strings.Join(parts[:i], "/"))
	}
	return out
}
