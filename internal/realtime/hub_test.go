package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func recv(t *testing.T, sub *Subscription) Snapshot {
	t.Helper()
	select {
	case snap := <-sub.C:
		return snap
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
		return Snapshot{}
	}
}

func TestHub_DeliversFullSnapshot(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("notifications/u1")
	defer sub.Unsubscribe()

	hub.Publish("notifications/u1", []string{"a", "b"})

	snap := recv(t, sub)
	assert.Equal(t, "notifications/u1", snap.Path)
	assert.Equal(t, []string{"a", "b"}, snap.Value)
}

func TestHub_AncestorPathsReceiveWrites(t *testing.T) {
	hub := NewHub()
	parent := hub.Subscribe("notifications/u1")
	root := hub.Subscribe("notifications")
	other := hub.Subscribe("notifications/u2")
	defer parent.Unsubscribe()
	defer root.Unsubscribe()
	defer other.Unsubscribe()

	hub.Publish("notifications/u1/n9", "value")

	assert.Equal(t, "notifications/u1/n9", recv(t, parent).Path)
	assert.Equal(t, "notifications/u1/n9", recv(t, root).Path)

	select {
	case <-other.C:
		t.Fatal("unrelated subscriber received a snapshot")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_CoalescesToLatest(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("users/u1")
	defer sub.Unsubscribe()

	// Slow consumer: intermediate snapshots are replaced, not queued.
	hub.Publish("users/u1", 1)
	hub.Publish("users/u1", 2)
	hub.Publish("users/u1", 3)

	assert.Equal(t, 3, recv(t, sub).Value)

	select {
	case snap := <-sub.C:
		t.Fatalf("unexpected queued snapshot: %v", snap.Value)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnsubscribeIdempotent(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("tasks")

	sub.Unsubscribe()
	sub.Unsubscribe() // must be safe on every exit path

	assert.Equal(t, 0, hub.SubscriberCount("tasks"))

	// Publishing after unsubscribe must not panic or deliver
	hub.Publish("tasks", "x")
	if _, ok := <-sub.C; ok {
		t.Fatal("receive on closed subscription should report closed")
	}
}

func TestHub_IndependentSubscribers(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe("tasks")
	b := hub.Subscribe("tasks")
	defer b.Unsubscribe()

	a.Unsubscribe()
	hub.Publish("tasks", "v")

	assert.Equal(t, "v", recv(t, b).Value)
	assert.Equal(t, 1, hub.SubscriberCount("tasks"))
}
