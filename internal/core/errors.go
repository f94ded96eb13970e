package core

// Error codes for domain errors.
const (
	ErrCodeUnauthenticated  = "unauthenticated"
	ErrCodeRoomNotFound     = "room_not_found"
	ErrCodeUserNotConnected = "user_not_connected"
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeNotRoomAdmin     = "not_room_admin"
	ErrCodeInternal         = "internal_error"
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}
