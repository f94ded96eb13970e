package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/meetpoint/meetpoint-server/internal/store"
)

// Hub coordinates presence, room admission and signaling relay. It owns no
// goroutine of its own: connection handlers call into it concurrently and the
// presence and channel registries provide the only critical sections, so a
// slow directory lookup on one connection never blocks another.
type Hub struct {
	presence *Presence
	channels *Channels
	rooms    store.RoomStore
	log      *zerolog.Logger

	// enforceAdminCheck requires approve/reject calls to come from the
	// room's stored admin. Off restores the legacy trust-the-caller
	// behavior.
	enforceAdminCheck bool
}

// Options configures hub behavior.
type Options struct {
	EnforceAdminCheck bool
}

// NewHub constructs a hub around the given room directory.
func NewHub(rooms store.RoomStore, opts Options, logger *zerolog.Logger) *Hub {
	return &Hub{
		presence:          NewPresence(),
		channels:          NewChannels(),
		rooms:             rooms,
		log:               logger,
		enforceAdminCheck: opts.EnforceAdminCheck,
	}
}

// Presence exposes the registry for transport-level lookups.
func (h *Hub) Presence() *Presence {
	return h.presence
}

// Connect registers an authenticated connection: the presence entry for the
// user now points here, replacing any previous connection's entry.
func (h *Hub) Connect(c *Client) {
	h.presence.Register(c)
	h.log.Info().Str("user_id", c.UserID).Str("conn_id", c.ConnID).Msg("user connected")
}

// Disconnect removes the connection from presence (guarded, so a stale
// disconnect never evicts a newer connection) and from every channel.
func (h *Hub) Disconnect(c *Client) {
	removed := h.presence.Remove(c.UserID, c.ConnID)
	h.channels.DropAll(c)
	h.log.Info().Str("user_id", c.UserID).Str("conn_id", c.ConnID).Bool("presence_removed", removed).Msg("user disconnected")
}

// Dispatch routes a client command to its handler. Errors never cross back
// to the transport: every failure is surfaced to the client as an error
// event.
func (h *Hub) Dispatch(ctx context.Context, c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandJoinRoomRequest:
		h.RequestJoin(ctx, c, cmd.Room)
	case CommandApproveUser:
		h.ApproveUser(ctx, c, cmd.Room, cmd.TargetUserID, cmd.TargetUsername)
	case CommandRejectUser:
		h.RejectUser(ctx, c, cmd.TargetUserID)
	case CommandLeaveRoom:
		h.LeaveRoom(ctx, c, cmd.Room)
	case CommandOffer:
		h.RelayOffer(c, cmd.TargetUserID, cmd.Payload)
	case CommandAnswer:
		h.RelayAnswer(c, cmd.TargetConnID, cmd.Payload)
	case CommandICECandidate:
		h.RelayICECandidate(c, cmd.TargetConnID, cmd.Payload)
	case CommandJoinChannel:
		h.JoinChannel(c, cmd.Room)
	case CommandTyping:
		h.Typing(c, cmd.Room, true)
	case CommandStopTyping:
		h.Typing(c, cmd.Room, false)
	default:
		c.sendError(ErrCodeInvalidRequest, "unknown command")
	}
}

// JoinChannel subscribes the connection to a broadcast channel. Clients call
// this after an approved admission to start receiving room events.
func (h *Hub) JoinChannel(c *Client, name string) {
	if name == "" {
		c.sendError(ErrCodeInvalidRequest, "channel name is required")
		return
	}
	h.channels.Join(name, c)
	h.log.Debug().Str("user_id", c.UserID).Str("channel", name).Msg("joined channel")
}

// RequestJoin starts the admission protocol for a room. Admins and existing
// participants are approved immediately; anyone else is referred to the
// room's admin. No pending state is stored: if the admin is not connected the
// request is simply undeliverable.
func (h *Hub) RequestJoin(ctx context.Context, c *Client, roomID string) {
	if roomID == "" {
		c.sendError(ErrCodeInvalidRequest, "room id is required")
		return
	}

	room, err := h.rooms.GetRoomByRoomID(ctx, roomID)
	if errors.Is(err, store.ErrNotFound) {
		c.sendError(ErrCodeRoomNotFound, "room not found")
		return
	}
	if err != nil {
		h.internalError(c, "fetch room", err)
		return
	}
	if !room.Active {
		c.sendError(ErrCodeRoomNotFound, "room is not active")
		return
	}

	// Idempotent re-join: admins and current participants skip the
	// approval round trip entirely.
	if c.UserID == room.AdminID || room.HasParticipant(c.UserID) {
		h.notifyUser(c.UserID, &Event{Kind: EventJoinApproved, Room: roomID})
		h.channels.Broadcast(roomID, &Event{
			Kind:   EventUserJoined,
			Room:   roomID,
			User:   c.Name,
			UserID: c.UserID,
		}, nil)
		return
	}

	delivered := h.notifyUser(room.AdminID, &Event{
		Kind:   EventJoinRequest,
		Room:   roomID,
		User:   c.Name,
		UserID: c.UserID,
	})
	if !delivered {
		h.log.Debug().Str("room_id", roomID).Str("admin_id", room.AdminID).Msg("admin not connected, join request dropped")
	}
}

// ApproveUser admits a user into a room: the participant set gains the user
// (set union, so re-approval is safe), the user is told, the room is told,
// and the user's connection joins the room channel.
func (h *Hub) ApproveUser(ctx context.Context, caller *Client, roomID, userID, username string) {
	if roomID == "" || userID == "" {
		caller.sendError(ErrCodeInvalidRequest, "room id and user id are required")
		return
	}

	target, ok := h.presence.Lookup(userID)
	if !ok {
		caller.sendError(ErrCodeUserNotConnected, "user is not connected")
		return
	}

	if h.enforceAdminCheck {
		room, err := h.rooms.GetRoomByRoomID(ctx, roomID)
		if errors.Is(err, store.ErrNotFound) {
			caller.sendError(ErrCodeRoomNotFound, "room not found")
			return
		}
		if err != nil {
			h.internalError(caller, "fetch room", err)
			return
		}
		if room.AdminID != caller.UserID {
			caller.sendError(ErrCodeNotRoomAdmin, "only the room admin can approve join requests")
			return
		}
	}

	err := h.rooms.AddParticipant(ctx, roomID, userID)
	if errors.Is(err, store.ErrNotFound) {
		caller.sendError(ErrCodeRoomNotFound, "room not found")
		return
	}
	if err != nil {
		h.internalError(caller, "add participant", err)
		return
	}

	// Directory write happens before the broadcast so an observer that sees
	// user:joined can rely on the stored membership.
	h.notifyUser(userID, &Event{Kind: EventJoinApproved, Room: roomID})
	h.channels.Broadcast(roomID, &Event{
		Kind:   EventUserJoined,
		Room:   roomID,
		User:   username,
		UserID: userID,
	}, nil)
	h.channels.Join(roomID, target)

	h.log.Info().Str("room_id", roomID).Str("user_id", userID).Msg("user approved into room")
}

// RejectUser tells a requester their admission was declined. Nothing is
// stored; the requester just gets the verdict on their personal channel.
func (h *Hub) RejectUser(_ context.Context, caller *Client, userID string) {
	if userID == "" {
		caller.sendError(ErrCodeInvalidRequest, "user id is required")
		return
	}

	_, ok := h.presence.Lookup(userID)
	if !ok {
		caller.sendError(ErrCodeUserNotConnected, "user is not connected")
		return
	}

	h.notifyUser(userID, &Event{
		Kind:   EventJoinRejected,
		Reason: "Your request to join the room was rejected by the admin.",
	})
}

// LeaveRoom removes the caller from a room. An admin leaving is terminal:
// the room deactivates and its participant set is cleared, so no later join
// can succeed. Notifications go out before the channel membership is dropped
// so the leaving client observes its own departure in order.
func (h *Hub) LeaveRoom(ctx context.Context, c *Client, roomID string) {
	if roomID == "" {
		c.sendError(ErrCodeInvalidRequest, "room id is required")
		return
	}

	room, err := h.rooms.GetRoomByRoomID(ctx, roomID)
	if errors.Is(err, store.ErrNotFound) {
		c.sendError(ErrCodeRoomNotFound, "room not found")
		return
	}
	if err != nil {
		h.internalError(c, "fetch room", err)
		return
	}

	conn, ok := h.presence.Lookup(c.UserID)
	if !ok {
		c.sendError(ErrCodeUserNotConnected, "user is not connected")
		return
	}

	if room.AdminID == c.UserID {
		h.channels.Broadcast(roomID, &Event{
			Kind: EventAdminLeave,
			Room: roomID,
			User: c.Name,
		}, nil)
		if err := h.rooms.DeactivateRoom(ctx, roomID); err != nil {
			h.internalError(c, "deactivate room", err)
			return
		}
		h.log.Info().Str("room_id", roomID).Msg("admin left, room deactivated")
	} else {
		h.channels.Broadcast(roomID, &Event{
			Kind: EventUserLeave,
			Room: roomID,
			User: c.Name,
		}, nil)
		if err := h.rooms.RemoveParticipant(ctx, roomID, c.UserID); err != nil {
			h.internalError(c, "remove participant", err)
			return
		}
	}

	h.channels.Leave(roomID, conn)
}

// RelayOffer forwards a call offer to the target user's active connection.
// Offers address by user id because the caller does not yet know the
// target's transient connection id; the delivered event is tagged with the
// sender's connection id so the target can answer by connection id from then
// on. An offer to a user with no presence entry is silently dropped.
func (h *Hub) RelayOffer(from *Client, targetUserID string, payload []byte) {
	target, ok := h.presence.Lookup(targetUserID)
	if !ok {
		h.log.Debug().Str("target_user_id", targetUserID).Msg("offer target not connected, dropped")
		return
	}

	target.send(&Event{
		Kind:       EventOffer,
		FromConnID: from.ConnID,
		Payload:    payload,
	})
}

// RelayAnswer forwards a call answer directly to a connection id learned
// from a prior offer. No existence check: delivery to a stale id is a no-op.
func (h *Hub) RelayAnswer(from *Client, targetConnID string, payload []byte) {
	h.relayByConnID(EventAnswer, from, targetConnID, payload)
}

// RelayICECandidate forwards an ICE candidate the same way an answer is
// forwarded: directly by connection id.
func (h *Hub) RelayICECandidate(from *Client, targetConnID string, payload []byte) {
	h.relayByConnID(EventICECandidate, from, targetConnID, payload)
}

func (h *Hub) relayByConnID(kind EventKind, from *Client, targetConnID string, payload []byte) {
	target, ok := h.lookupByConnID(targetConnID)
	if !ok {
		return
	}
	target.send(&Event{
		Kind:       kind,
		FromConnID: from.ConnID,
		Payload:    payload,
	})
}

// Typing relays a typing indicator to everyone else in the room channel.
func (h *Hub) Typing(c *Client, roomID string, started bool) {
	if roomID == "" {
		return
	}
	kind := EventStopTyping
	if started {
		kind = EventTyping
	}
	h.channels.Broadcast(roomID, &Event{Kind: kind, Room: roomID, User: c.Name}, c)
}

// notifyUser delivers an event on a user's personal channel. The personal
// channel is backed by the presence registry rather than the room-channel
// table, which keeps one-to-one notifications out of room broadcasts.
func (h *Hub) notifyUser(userID string, ev *Event) bool {
	c, ok := h.presence.Lookup(userID)
	if !ok {
		return false
	}
	c.send(ev)
	return true
}

func (h *Hub) lookupByConnID(connID string) (*Client, bool) {
	return h.presence.LookupConn(connID)
}

func (h *Hub) internalError(c *Client, op string, err error) {
	h.log.Error().Err(err).Str("op", op).Msg("storage operation failed")
	c.sendError(ErrCodeInternal, fmt.Sprintf("internal error while handling %s", op))
}
