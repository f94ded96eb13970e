package core

import (
	"context"
	"encoding/json"
	"testing"
)

func TestRequestJoinUnknownRoom(t *testing.T) {
	hub, _ := newTestHub(t, true)

	bob := connect(hub, "conn-b", "bob", "bob")
	hub.RequestJoin(context.Background(), bob, "ghost")

	mustErrorEvent(t, bob.Events, ErrCodeRoomNotFound)
}

func TestRequestJoinForwardsToAdmin(t *testing.T) {
	hub, st := newTestHub(t, true)
	createRoom(t, st, "room-1", "alice")

	alice := connect(hub, "conn-a", "alice", "alice")
	bob := connect(hub, "conn-b", "bob", "bob")

	hub.RequestJoin(context.Background(), bob, "room-1")

	req := mustEvent(t, alice.Events, EventJoinRequest)
	if req.UserID != "bob" || req.User != "bob" || req.Room != "room-1" {
		t.Fatalf("unexpected join request: %+v", req)
	}
	// The requester gets no resolution until the admin decides.
	mustNoEvent(t, bob.Events)
}

func TestRequestJoinAdminNotConnectedIsSilent(t *testing.T) {
	hub, st := newTestHub(t, true)
	createRoom(t, st, "room-1", "alice")

	bob := connect(hub, "conn-b", "bob", "bob")
	hub.RequestJoin(context.Background(), bob, "room-1")

	mustNoEvent(t, bob.Events)
}

func TestRequestJoinAutoApprovesAdmin(t *testing.T) {
	hub, st := newTestHub(t, true)
	createRoom(t, st, "room-1", "alice")

	alice := connect(hub, "conn-a", "alice", "alice")
	hub.JoinChannel(alice, "room-1")

	hub.RequestJoin(context.Background(), alice, "room-1")

	approve := mustEvent(t, alice.Events, EventJoinApproved)
	if approve.Room != "room-1" {
		t.Fatalf("unexpected approval: %+v", approve)
	}
	joined := mustEvent(t, alice.Events, EventUserJoined)
	if joined.User != "alice" {
		t.Fatalf("unexpected joined broadcast: %+v", joined)
	}
}

func TestRequestJoinIdempotentForParticipant(t *testing.T) {
	hub, st := newTestHub(t, true)
	createRoom(t, st, "room-1", "alice")
	ctx := context.Background()

	if err := st.AddParticipant(ctx, "room-1", "bob"); err != nil {
		t.Fatalf("seed participant: %v", err)
	}

	bob := connect(hub, "conn-b", "bob", "bob")
	hub.RequestJoin(ctx, bob, "room-1")

	mustEvent(t, bob.Events, EventJoinApproved)

	// The stored participant set is untouched by the re-join.
	room, err := st.GetRoomByRoomID(ctx, "room-1")
	if err != nil {
		t.Fatalf("fetch room: %v", err)
	}
	if len(room.Participants) != 2 {
		t.Fatalf("participants = %v, want [alice bob]", room.Participants)
	}
}

func TestApproveAdmitsUser(t *testing.T) {
	hub, st := newTestHub(t, true)
	createRoom(t, st, "room-1", "alice")
	ctx := context.Background()

	alice := connect(hub, "conn-a", "alice", "alice")
	bob := connect(hub, "conn-b", "bob", "bob")
	hub.JoinChannel(alice, "room-1")

	hub.RequestJoin(ctx, bob, "room-1")
	mustEvent(t, alice.Events, EventJoinRequest)

	hub.ApproveUser(ctx, alice, "room-1", "bob", "bob")

	approve := mustEvent(t, bob.Events, EventJoinApproved)
	if approve.Room != "room-1" {
		t.Fatalf("unexpected approval: %+v", approve)
	}
	joined := mustEvent(t, alice.Events, EventUserJoined)
	if joined.User != "bob" || joined.UserID != "bob" {
		t.Fatalf("unexpected joined broadcast: %+v", joined)
	}

	room, err := st.GetRoomByRoomID(ctx, "room-1")
	if err != nil {
		t.Fatalf("fetch room: %v", err)
	}
	if len(room.Participants) != 2 || !room.HasParticipant("bob") {
		t.Fatalf("participants = %v, want alice and bob", room.Participants)
	}

	// Approval joined bob to the room channel: he sees later broadcasts.
	hub.Typing(alice, "room-1", true)
	mustEvent(t, bob.Events, EventTyping)
}

func TestApproveIsIdempotent(t *testing.T) {
	hub, st := newTestHub(t, true)
	createRoom(t, st, "room-1", "alice")
	ctx := context.Background()

	alice := connect(hub, "conn-a", "alice", "alice")
	bob := connect(hub, "conn-b", "bob", "bob")

	hub.ApproveUser(ctx, alice, "room-1", "bob", "bob")
	mustEvent(t, bob.Events, EventJoinApproved)

	hub.ApproveUser(ctx, alice, "room-1", "bob", "bob")
	// Notifications fire both times; the set does not grow.
	mustEvent(t, bob.Events, EventJoinApproved)

	room, err := st.GetRoomByRoomID(ctx, "room-1")
	if err != nil {
		t.Fatalf("fetch room: %v", err)
	}
	if len(room.Participants) != 2 {
		t.Fatalf("participants = %v, want alice and bob exactly once", room.Participants)
	}
}

func TestApproveRequiresConnectedTarget(t *testing.T) {
	hub, st := newTestHub(t, true)
	createRoom(t, st, "room-1", "alice")

	alice := connect(hub, "conn-a", "alice", "alice")
	hub.ApproveUser(context.Background(), alice, "room-1", "bob", "bob")

	mustErrorEvent(t, alice.Events, ErrCodeUserNotConnected)
}

func TestApproveRejectsNonAdminCaller(t *testing.T) {
	hub, st := newTestHub(t, true)
	createRoom(t, st, "room-1", "alice")
	ctx := context.Background()

	mallory := connect(hub, "conn-m", "mallory", "mallory")
	bob := connect(hub, "conn-b", "bob", "bob")

	hub.ApproveUser(ctx, mallory, "room-1", "bob", "bob")
	mustErrorEvent(t, mallory.Events, ErrCodeNotRoomAdmin)
	mustNoEvent(t, bob.Events)

	room, err := st.GetRoomByRoomID(ctx, "room-1")
	if err != nil {
		t.Fatalf("fetch room: %v", err)
	}
	if room.HasParticipant("bob") {
		t.Fatal("bob should not have been admitted")
	}
}

func TestApproveTrustsCallerWhenCheckDisabled(t *testing.T) {
	hub, st := newTestHub(t, false)
	createRoom(t, st, "room-1", "alice")
	ctx := context.Background()

	mallory := connect(hub, "conn-m", "mallory", "mallory")
	bob := connect(hub, "conn-b", "bob", "bob")

	hub.ApproveUser(ctx, mallory, "room-1", "bob", "bob")
	mustEvent(t, bob.Events, EventJoinApproved)

	room, err := st.GetRoomByRoomID(ctx, "room-1")
	if err != nil {
		t.Fatalf("fetch room: %v", err)
	}
	if !room.HasParticipant("bob") {
		t.Fatal("legacy mode should admit without an admin check")
	}
}

func TestRejectNotifiesTarget(t *testing.T) {
	hub, _ := newTestHub(t, true)

	alice := connect(hub, "conn-a", "alice", "alice")
	bob := connect(hub, "conn-b", "bob", "bob")

	hub.RejectUser(context.Background(), alice, "bob")

	rejected := mustEvent(t, bob.Events, EventJoinRejected)
	if rejected.Reason == "" {
		t.Fatal("rejection should carry a reason")
	}
}

func TestRejectRequiresConnectedTarget(t *testing.T) {
	hub, _ := newTestHub(t, true)

	alice := connect(hub, "conn-a", "alice", "alice")
	hub.RejectUser(context.Background(), alice, "bob")

	mustErrorEvent(t, alice.Events, ErrCodeUserNotConnected)
}

func TestAdminLeaveIsTerminal(t *testing.T) {
	hub, st := newTestHub(t, true)
	createRoom(t, st, "room-1", "alice")
	ctx := context.Background()

	alice := connect(hub, "conn-a", "alice", "alice")
	bob := connect(hub, "conn-b", "bob", "bob")
	hub.JoinChannel(alice, "room-1")
	hub.ApproveUser(ctx, alice, "room-1", "bob", "bob")
	mustEvent(t, bob.Events, EventJoinApproved)

	hub.LeaveRoom(ctx, alice, "room-1")

	left := mustEvent(t, bob.Events, EventAdminLeave)
	if left.User != "alice" || left.Room != "room-1" {
		t.Fatalf("unexpected admin leave: %+v", left)
	}

	room, err := st.GetRoomByRoomID(ctx, "room-1")
	if err != nil {
		t.Fatalf("fetch room: %v", err)
	}
	if room.Active || len(room.Participants) != 0 {
		t.Fatalf("room should be inactive and empty, got active=%v participants=%v", room.Active, room.Participants)
	}

	// A join attempt after deactivation is rejected.
	carol := connect(hub, "conn-c", "carol", "carol")
	hub.RequestJoin(ctx, carol, "room-1")
	mustErrorEvent(t, carol.Events, ErrCodeRoomNotFound)
}

func TestUserLeaveRemovesParticipant(t *testing.T) {
	hub, st := newTestHub(t, true)
	createRoom(t, st, "room-1", "alice")
	ctx := context.Background()

	alice := connect(hub, "conn-a", "alice", "alice")
	bob := connect(hub, "conn-b", "bob", "bob")
	hub.JoinChannel(alice, "room-1")
	hub.ApproveUser(ctx, alice, "room-1", "bob", "bob")
	mustEvent(t, bob.Events, EventJoinApproved)

	hub.LeaveRoom(ctx, bob, "room-1")

	left := mustEvent(t, alice.Events, EventUserLeave)
	if left.User != "bob" {
		t.Fatalf("unexpected user leave: %+v", left)
	}

	room, err := st.GetRoomByRoomID(ctx, "room-1")
	if err != nil {
		t.Fatalf("fetch room: %v", err)
	}
	if !room.Active {
		t.Fatal("room should stay active when a non-admin leaves")
	}
	if room.HasParticipant("bob") {
		t.Fatalf("bob should be removed, participants = %v", room.Participants)
	}
}

func TestOfferSilentDropWhenTargetOffline(t *testing.T) {
	hub, _ := newTestHub(t, true)

	bob := connect(hub, "conn-b", "bob", "bob")
	hub.RelayOffer(bob, "alice", json.RawMessage(`{"sdp":"x"}`))

	// No delivery anywhere, and no error back to the sender.
	mustNoEvent(t, bob.Events)
}

func TestOfferAnswerRoundTrip(t *testing.T) {
	hub, _ := newTestHub(t, true)

	alice := connect(hub, "conn-a", "alice", "alice")
	bob := connect(hub, "conn-b", "bob", "bob")

	// Bob opens with an offer addressed by Alice's user id.
	hub.RelayOffer(bob, "alice", json.RawMessage(`{"sdp":"offer"}`))

	offer := mustEvent(t, alice.Events, EventOffer)
	if offer.FromConnID != bob.ConnID {
		t.Fatalf("offer should be tagged with the sender's connection id, got %q", offer.FromConnID)
	}
	if string(offer.Payload) != `{"sdp":"offer"}` {
		t.Fatalf("offer payload altered: %s", offer.Payload)
	}

	// Alice answers using the connection id learned from the offer.
	hub.RelayAnswer(alice, offer.FromConnID, json.RawMessage(`{"sdp":"answer"}`))

	answer := mustEvent(t, bob.Events, EventAnswer)
	if answer.FromConnID != alice.ConnID {
		t.Fatalf("answer should be tagged with the sender's connection id, got %q", answer.FromConnID)
	}
	if string(answer.Payload) != `{"sdp":"answer"}` {
		t.Fatalf("answer payload altered: %s", answer.Payload)
	}

	// ICE candidates flow over the same connection-id channel.
	hub.RelayICECandidate(bob, answer.FromConnID, json.RawMessage(`{"candidate":"c"}`))
	ice := mustEvent(t, alice.Events, EventICECandidate)
	if ice.FromConnID != bob.ConnID {
		t.Fatalf("ice candidate tag = %q, want %q", ice.FromConnID, bob.ConnID)
	}
}

func TestAnswerToStaleConnIDIsNoop(t *testing.T) {
	hub, _ := newTestHub(t, true)

	alice := connect(hub, "conn-a", "alice", "alice")
	hub.RelayAnswer(alice, "stale-conn", json.RawMessage(`{}`))
	mustNoEvent(t, alice.Events)
}

func TestTypingExcludesSender(t *testing.T) {
	hub, _ := newTestHub(t, true)

	alice := connect(hub, "conn-a", "alice", "alice")
	bob := connect(hub, "conn-b", "bob", "bob")
	hub.JoinChannel(alice, "room-1")
	hub.JoinChannel(bob, "room-1")

	hub.Typing(alice, "room-1", true)
	typing := mustEvent(t, bob.Events, EventTyping)
	if typing.User != "alice" {
		t.Fatalf("unexpected typing event: %+v", typing)
	}
	mustNoEvent(t, alice.Events)

	hub.Typing(alice, "room-1", false)
	mustEvent(t, bob.Events, EventStopTyping)
}

func TestDisconnectDropsChannelsAndPresence(t *testing.T) {
	hub, _ := newTestHub(t, true)

	alice := connect(hub, "conn-a", "alice", "alice")
	bob := connect(hub, "conn-b", "bob", "bob")
	hub.JoinChannel(alice, "room-1")
	hub.JoinChannel(bob, "room-1")

	hub.Disconnect(bob)

	if _, ok := hub.Presence().Lookup("bob"); ok {
		t.Fatal("presence entry should be gone after disconnect")
	}

	hub.Typing(alice, "room-1", true)
	mustNoEvent(t, bob.Events)
}

func TestDispatchUnknownCommand(t *testing.T) {
	hub, _ := newTestHub(t, true)

	alice := connect(hub, "conn-a", "alice", "alice")
	hub.Dispatch(context.Background(), alice, &Command{Kind: CommandKind(99)})

	mustErrorEvent(t, alice.Events, ErrCodeInvalidRequest)
}
