package core

import (
	"context"
	"testing"
	"time"

	"github.com/meetpoint/meetpoint-server/internal/log"
	"github.com/meetpoint/meetpoint-server/internal/store"
	"github.com/meetpoint/meetpoint-server/internal/store/sqlite"
)

func newTestHub(t *testing.T, enforceAdminCheck bool) (*Hub, store.Store) {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	hub := NewHub(st, Options{EnforceAdminCheck: enforceAdminCheck}, log.Nop())
	return hub, st
}

// connect builds a client and registers it with the hub, like a completed
// handshake would.
func connect(hub *Hub, connID, userID, name string) *Client {
	c := NewClient(connID, userID, name)
	hub.Connect(c)
	return c
}

func createRoom(t *testing.T, st store.Store, roomID, adminID string) *store.Room {
	t.Helper()

	room, err := st.CreateRoom(context.Background(), roomID, adminID, "")
	if err != nil {
		t.Fatalf("failed to create room %s: %v", roomID, err)
	}
	return room
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("expected no event, got %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func mustErrorEvent(t *testing.T, ch <-chan *Event, code string) *Event {
	t.Helper()

	ev := mustEvent(t, ch, EventError)
	if ev.Error == nil || ev.Error.Code != code {
		t.Fatalf("expected error code %q, got %+v", code, ev)
	}
	return ev
}
