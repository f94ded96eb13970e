package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Inbound message types.
const (
	InboundTypeJoinRoomRequest = "join-room-request"
	InboundTypeApproveUser     = "admin:approve-user"
	InboundTypeRejectUser      = "admin:reject-user"
	InboundTypeOffer           = "offer"
	InboundTypeAnswer          = "answer"
	InboundTypeICECandidate    = "ice-candidate"
	InboundTypeLeaveRoom       = "leave-room"
	InboundTypeJoinChannel     = "join-chat"
	InboundTypeTyping          = "typing"
	InboundTypeStopTyping      = "stop-typing"
)

// Outbound event names.
const (
	EventConnectionConfirmed = "connection-confirmed"
	EventConnectionError     = "connection-error"
	EventJoinApproved        = "room:join:approved"
	EventJoinRejected        = "room:join:rejected"
	EventJoinRequest         = "admin:room-join-request"
	EventUserJoined          = "user:joined"
	EventUserLeave           = "user:leave"
	EventAdminLeave          = "admin:leave"
	EventOffer               = "offer"
	EventAnswer              = "answer"
	EventICECandidate        = "ice-candidate"
	EventTyping              = "typing"
	EventStopTyping          = "stop-typing"
)

// JoinRoomRequestData asks for admission into a room.
type JoinRoomRequestData struct {
	RoomID string `json:"roomId"`
}

// ApproveUserData is the admin's approval of a join request.
type ApproveUserData struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// RejectUserData is the admin's rejection of a join request.
type RejectUserData struct {
	UserID string `json:"userId"`
}

// OfferData relays a call offer to a user id. The offer itself is opaque.
type OfferData struct {
	Offer  json.RawMessage `json:"offer"`
	UserID string          `json:"userId"`
}

// AnswerData relays a call answer back to a connection id learned from a
// prior offer.
type AnswerData struct {
	Answer       json.RawMessage `json:"answer"`
	SenderConnID string          `json:"senderSocketId"`
}

// ICECandidateData relays an ICE candidate to a connection id.
type ICECandidateData struct {
	Candidate    json.RawMessage `json:"candidate"`
	TargetConnID string          `json:"targetSocketId"`
}

// LeaveRoomData leaves a room.
type LeaveRoomData struct {
	RoomID string `json:"roomId"`
}

// ChannelData subscribes to a broadcast channel, or relays a typing
// indicator to one.
type ChannelData struct {
	RoomID string `json:"roomId"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// ConnectionConfirmedData confirms a successful handshake and tells the
// client its connection id for later connection-id addressing.
type ConnectionConfirmedData struct {
	ConnID   string `json:"socketId"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// ConnectionErrorData explains a failed handshake before the socket closes.
type ConnectionErrorData struct {
	Message string `json:"message"`
}

// JoinApprovedData tells a requester their admission was approved.
type JoinApprovedData struct {
	RoomID string `json:"roomId"`
}

// JoinRejectedData tells a requester their admission was rejected.
type JoinRejectedData struct {
	Message string `json:"message"`
}

// JoinRequestData asks the room admin to decide on a requester.
type JoinRequestData struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// UserJoinedData notifies room members about an admitted user.
type UserJoinedData struct {
	Username string `json:"username"`
	UserID   string `json:"userId,omitempty"`
}

// UserLeaveData notifies room members about a departure.
type UserLeaveData struct {
	Username string `json:"username"`
}

// SignalData delivers a relayed payload tagged with the sender's
// connection id.
type SignalData struct {
	Payload      json.RawMessage `json:"payload"`
	SenderConnID string          `json:"senderSocketId"`
}

// TypingData notifies room members about typing activity.
type TypingData struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
