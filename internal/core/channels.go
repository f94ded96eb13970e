package core

import "sync"

// Channels tracks which connections are subscribed to which broadcast
// channels. Room channels are keyed by room id. Personal notifications do
// not go through this table: they are delivered straight to the target's
// connection via the presence registry, so a personal event can never leak
// into a room broadcast.
type Channels struct {
	mu      sync.RWMutex
	members map[string]map[*Client]struct{}
	joined  map[*Client]map[string]struct{}
}

// NewChannels constructs an empty channel registry.
func NewChannels() *Channels {
	return &Channels{
		members: make(map[string]map[*Client]struct{}),
		joined:  make(map[*Client]map[string]struct{}),
	}
}

// Join subscribes a client to a channel. Joining twice is a no-op.
func (ch *Channels) Join(name string, c *Client) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.members[name] == nil {
		ch.members[name] = make(map[*Client]struct{})
	}
	ch.members[name][c] = struct{}{}

	if ch.joined[c] == nil {
		ch.joined[c] = make(map[string]struct{})
	}
	ch.joined[c][name] = struct{}{}
}

// Leave unsubscribes a client from a channel.
func (ch *Channels) Leave(name string, c *Client) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.leaveLocked(name, c)
}

// DropAll unsubscribes a client from every channel it joined. Called on
// disconnect.
func (ch *Channels) DropAll(c *Client) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	for name := range ch.joined[c] {
		ch.leaveLocked(name, c)
	}
}

func (ch *Channels) leaveLocked(name string, c *Client) {
	if set, ok := ch.members[name]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(ch.members, name)
		}
	}
	if set, ok := ch.joined[c]; ok {
		delete(set, name)
		if len(set) == 0 {
			delete(ch.joined, c)
		}
	}
}

// Broadcast delivers an event to every client subscribed to the channel.
// except, when non-nil, is skipped (used by typing relays where the actor
// already knows what it did).
func (ch *Channels) Broadcast(name string, ev *Event, except *Client) {
	ch.mu.RLock()
	targets := make([]*Client, 0, len(ch.members[name]))
	for c := range ch.members[name] {
		if c == except {
			continue
		}
		targets = append(targets, c)
	}
	ch.mu.RUnlock()

	for _, c := range targets {
		c.send(ev)
	}
}
