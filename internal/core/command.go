package core

import "encoding/json"

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinRoomRequest asks for admission into a room.
	CommandJoinRoomRequest CommandKind = iota
	// CommandApproveUser is the admin's approval of a pending join request.
	CommandApproveUser
	// CommandRejectUser is the admin's rejection of a pending join request.
	CommandRejectUser
	// CommandLeaveRoom leaves a room the client was admitted to.
	CommandLeaveRoom
	// CommandOffer relays a call offer to a user id.
	CommandOffer
	// CommandAnswer relays a call answer to a connection id.
	CommandAnswer
	// CommandICECandidate relays an ICE candidate to a connection id.
	CommandICECandidate
	// CommandJoinChannel subscribes the connection to a broadcast channel.
	CommandJoinChannel
	// CommandTyping relays a typing indicator to a room.
	CommandTyping
	// CommandStopTyping relays a stop-typing indicator to a room.
	CommandStopTyping
)

// Command represents an action requested by a client.
type Command struct {
	Kind           CommandKind
	Room           string
	TargetUserID   string
	TargetUsername string
	TargetConnID   string
	Payload        json.RawMessage
}
