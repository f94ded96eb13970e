package core

import "sync"

// Presence is the concurrent-safe mapping from user id to the user's
// currently active connection. At most one connection per user id is tracked;
// a newer handshake for the same user overwrites the older entry
// (last-connect-wins).
type Presence struct {
	mu     sync.RWMutex
	byUser map[string]*Client
}

// NewPresence constructs an empty presence registry.
func NewPresence() *Presence {
	return &Presence{byUser: make(map[string]*Client)}
}

// Register stores the client as the active connection for its user id,
// replacing any prior entry.
func (p *Presence) Register(c *Client) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byUser[c.UserID] = c
}

// Lookup returns the active connection for a user id.
func (p *Presence) Lookup(userID string) (*Client, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.byUser[userID]
	return c, ok
}

// LookupConn returns the active connection with the given connection id.
// Connection-id addressing only ever targets live connections, so a linear
// scan over the active set is fine.
func (p *Presence) LookupConn(connID string) (*Client, bool) {
	if connID == "" {
		return nil, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, c := range p.byUser {
		if c.ConnID == connID {
			return c, true
		}
	}
	return nil, false
}

// Remove deletes the entry for userID only if it still points at connID.
// The guard keeps a stale disconnect from removing the entry written by a
// newer, still-live connection for the same user.
func (p *Presence) Remove(userID, connID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.byUser[userID]
	if !ok || c.ConnID != connID {
		return false
	}
	delete(p.byUser, userID)
	return true
}
