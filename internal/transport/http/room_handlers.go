package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/meetpoint/meetpoint-server/internal/auth"
	"github.com/meetpoint/meetpoint-server/internal/store"
)

// roomIDLength trims the uuid down to a shareable invite-friendly id.
const roomIDLength = 12

// RoomHandlers provides HTTP handlers for room management endpoints.
type RoomHandlers struct {
	store store.RoomStore
	log   *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(st store.RoomStore, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		store: st,
		log:   logger,
	}
}

// CreateRoomRequest represents the create room request body.
type CreateRoomRequest struct {
	Password string `json:"password,omitempty" binding:"omitempty,min=4,max=64"`
}

// JoinRoomRequest represents the pre-join check request body. Either an
// invite link or a room id identifies the room; link joins skip the
// password check.
type JoinRoomRequest struct {
	RoomID   string `json:"roomId,omitempty"`
	Link     string `json:"link,omitempty"`
	Password string `json:"password,omitempty"`
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	RoomID       string   `json:"roomId"`
	AdminID      string   `json:"adminId"`
	Participants []string `json:"participants"`
	Active       bool     `json:"active"`
	HasPassword  bool     `json:"hasPassword"`
	CreatedAt    string   `json:"createdAt"`
}

func roomResponse(room *store.Room) RoomResponse {
	participants := room.Participants
	if participants == nil {
		participants = []string{}
	}
	return RoomResponse{
		RoomID:       room.RoomID,
		AdminID:      room.AdminID,
		Participants: participants,
		Active:       room.Active,
		HasPassword:  room.PasswordHash != "",
		CreatedAt:    room.CreatedAt.Format(time.RFC3339),
	}
}

// CreateRoom handles room creation: the caller becomes the admin and first
// participant.
// POST /api/rooms
func (h *RoomHandlers) CreateRoom(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create room request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	var passwordHash string
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			h.log.Error().Err(err).Msg("failed to hash room password")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			return
		}
		passwordHash = hash
	}

	roomID := uuid.NewString()[:roomIDLength]
	room, err := h.store.CreateRoom(c.Request.Context(), roomID, userID, passwordHash)
	if err != nil {
		h.log.Error().Err(err).Str("room_id", roomID).Msg("failed to create room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("room_id", room.RoomID).Str("admin_id", userID).Msg("room created")
	c.JSON(http.StatusCreated, roomResponse(room))
}

// JoinRoom handles the pre-join check: it verifies the room exists, is
// active, and the password matches before the client starts the socket-level
// admission protocol.
// POST /api/rooms/join
func (h *RoomHandlers) JoinRoom(c *gin.Context) {
	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid join room request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	roomID := req.RoomID
	viaLink := false
	if req.Link != "" {
		// The invite link carries the room id after its "=".
		_, value, found := strings.Cut(req.Link, "=")
		if !found || value == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid link"})
			return
		}
		roomID = value
		viaLink = true
	}
	if roomID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "roomId or link is required"})
		return
	}

	room, err := h.store.GetRoomByRoomID(c.Request.Context(), roomID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("room_id", roomID).Msg("failed to fetch room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	if !room.Active {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "room is not active"})
		return
	}

	// Holders of an invite link are trusted; everyone else needs the
	// password when the room has one.
	if !viaLink && room.PasswordHash != "" {
		if req.Password == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "password is required"})
			return
		}
		if err := auth.ComparePassword(room.PasswordHash, req.Password); err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid password"})
			return
		}
	}

	c.JSON(http.StatusOK, roomResponse(room))
}

// GetRoom handles room lookup by id.
// GET /api/rooms/:roomId
func (h *RoomHandlers) GetRoom(c *gin.Context) {
	roomID := c.Param("roomId")

	room, err := h.store.GetRoomByRoomID(c.Request.Context(), roomID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("room_id", roomID).Msg("failed to fetch room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, roomResponse(room))
}
