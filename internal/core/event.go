package core

import "encoding/json"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventConnected confirms a successful handshake.
	EventConnected EventKind = iota
	// EventJoinApproved tells a requester their room admission was approved.
	EventJoinApproved
	// EventJoinRejected tells a requester their room admission was rejected.
	EventJoinRejected
	// EventJoinRequest asks a room admin to approve or reject a requester.
	EventJoinRequest
	// EventUserJoined notifies room members that a user was admitted.
	EventUserJoined
	// EventUserLeave notifies room members that a user left.
	EventUserLeave
	// EventAdminLeave notifies room members that the admin left and the room closed.
	EventAdminLeave
	// EventOffer delivers a call offer payload to its target.
	EventOffer
	// EventAnswer delivers a call answer payload to its target.
	EventAnswer
	// EventICECandidate delivers an ICE candidate payload to its target.
	EventICECandidate
	// EventTyping notifies room members that a user started typing.
	EventTyping
	// EventStopTyping notifies room members that a user stopped typing.
	EventStopTyping
	// EventError notifies a client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
// Payload carries opaque signaling data the core never interprets; FromConnID
// tags relayed payloads with the sending connection so the receiver can
// answer by connection id.
type Event struct {
	Kind       EventKind
	Room       string
	User       string
	UserID     string
	FromConnID string
	Reason     string
	Payload    json.RawMessage
	Error      *CoreError
}
