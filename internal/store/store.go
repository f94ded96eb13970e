package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// User represents a registered account.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Room represents a call room. RoomID is the public identifier and doubles
// as the broadcast channel name; the admin is always listed in Participants
// while the room is active.
type Room struct {
	RoomID       string
	AdminID      string
	Participants []string
	Active       bool
	PasswordHash string
	CreatedAt    time.Time
}

// HasParticipant reports whether the given user is listed in the room.
func (r *Room) HasParticipant(userID string) bool {
	for _, p := range r.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)

	// GetUserByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// GetUserByUsername retrieves a user by username. Returns ErrNotFound if absent.
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// RoomStore handles room persistence. Participant mutations are atomic per
// room id: concurrent AddParticipant calls for the same room must not lose
// updates, and re-adding an existing participant is a no-op.
type RoomStore interface {
	// CreateRoom creates a room with the admin as its first participant.
	// passwordHash may be empty for open rooms.
	CreateRoom(ctx context.Context, roomID, adminID, passwordHash string) (*Room, error)

	// GetRoomByRoomID retrieves a room with its participant set.
	// Returns ErrNotFound if absent.
	GetRoomByRoomID(ctx context.Context, roomID string) (*Room, error)

	// AddParticipant adds a user to the room's participant set (set union).
	// Returns ErrNotFound if the room does not exist.
	AddParticipant(ctx context.Context, roomID, userID string) error

	// RemoveParticipant removes a user from the participant set (set remove).
	// Removing an absent participant is a no-op.
	RemoveParticipant(ctx context.Context, roomID, userID string) error

	// DeactivateRoom marks the room inactive and clears its participant set
	// in a single transaction. The transition is terminal.
	DeactivateRoom(ctx context.Context, roomID string) error
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	RoomStore

	// Close closes the underlying database connection.
	Close() error
}
