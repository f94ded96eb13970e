package core

// Client is one live connection as seen by the core layer. UserID and Name
// are set once at handshake time and never change for the connection's
// lifetime.
type Client struct {
	ConnID string
	UserID string
	Name   string
	Events chan *Event
}

// NewClient constructs a client for an authenticated connection.
func NewClient(connID, userID, name string) *Client {
	if name == "" {
		name = userID
	}
	return &Client{
		ConnID: connID,
		UserID: userID,
		Name:   name,
		Events: make(chan *Event, 16),
	}
}

// send delivers an event without blocking. Slow consumers lose events rather
// than stalling the sender's handler.
func (c *Client) send(ev *Event) {
	select {
	case c.Events <- ev:
	default:
	}
}

// sendError is a shorthand for delivering a domain error to the client.
func (c *Client) sendError(code, msg string) {
	c.send(&Event{Kind: EventError, Error: &CoreError{Code: code, Message: msg}})
}
