package core

import (
	"sync"
	"testing"
)

func TestPresenceLastConnectWins(t *testing.T) {
	p := NewPresence()

	first := NewClient("conn-1", "alice", "alice")
	second := NewClient("conn-2", "alice", "alice")

	p.Register(first)
	p.Register(second)

	got, ok := p.Lookup("alice")
	if !ok || got.ConnID != "conn-2" {
		t.Fatalf("expected conn-2 to win, got %+v ok=%v", got, ok)
	}
}

func TestPresenceGuardedRemove(t *testing.T) {
	p := NewPresence()

	first := NewClient("conn-1", "alice", "alice")
	second := NewClient("conn-2", "alice", "alice")

	p.Register(first)
	p.Register(second)

	// The first connection disconnects late: its removal must not evict the
	// entry now owned by the second connection.
	if removed := p.Remove("alice", first.ConnID); removed {
		t.Fatal("stale remove should be a no-op")
	}

	got, ok := p.Lookup("alice")
	if !ok || got.ConnID != "conn-2" {
		t.Fatalf("second connection's entry was lost: %+v ok=%v", got, ok)
	}

	if removed := p.Remove("alice", second.ConnID); !removed {
		t.Fatal("owning connection should be able to remove its entry")
	}
	if _, ok := p.Lookup("alice"); ok {
		t.Fatal("entry should be gone after guarded removal")
	}
}

func TestPresenceRemoveAbsentIsNoop(t *testing.T) {
	p := NewPresence()

	if removed := p.Remove("ghost", "conn-1"); removed {
		t.Fatal("removing an absent entry should report false")
	}
}

func TestPresenceLookupConn(t *testing.T) {
	p := NewPresence()

	alice := NewClient("conn-1", "alice", "alice")
	p.Register(alice)

	if got, ok := p.LookupConn("conn-1"); !ok || got != alice {
		t.Fatalf("LookupConn failed: %+v ok=%v", got, ok)
	}
	if _, ok := p.LookupConn("stale"); ok {
		t.Fatal("stale connection id should not resolve")
	}
	if _, ok := p.LookupConn(""); ok {
		t.Fatal("empty connection id should not resolve")
	}
}

func TestPresenceConcurrentAccess(t *testing.T) {
	p := NewPresence()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n%4))
			c := NewClient("conn-"+id, id, id)
			p.Register(c)
			p.Lookup(id)
			p.Remove(id, c.ConnID)
		}(i)
	}
	wg.Wait()
}
