package room

// RoomError is a validation failure reported to the requesting caller.
// Its text is the reject reason sent on the wire.
type RoomError string

// Error implements the error interface
func (e RoomError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrRoomNotFound         RoomError = "Room does not exist"
	ErrNotMember            RoomError = "User is not a member of this room"
	ErrIdentityMismatch     RoomError = "Identity mismatch"
	ErrReadyStateNotFound   RoomError = "Ready state does not exist"
	ErrTicketNotFound       RoomError = "Ticket does not exist"
	ErrGameAlreadyStarted   RoomError = "Game already started"
	ErrGameNotStarted       RoomError = "Game has not started"
	ErrGameInProgress       RoomError = "Game already in progress"
	ErrRoundNotStarted      RoomError = "Round has not started"
	ErrPermissionDenied     RoomError = "Permission denied"
	ErrDevActionsDisabled   RoomError = "Dev actions are disabled"
	ErrInvalidRequest       RoomError = "Invalid request"
	ErrInternal             RoomError = "Internal server error"
	ErrNilConfig            RoomError = "config cannot be nil"
	ErrNilRepository        RoomError = "room repository cannot be nil"
	ErrNilBroadcaster       RoomError = "broadcaster cannot be nil"
	ErrNilClock             RoomError = "clock cannot be nil"
	ErrNilUUIDGenerator     RoomError = "UUID generator cannot be nil"
	ErrNilLogger            RoomError = "logger cannot be nil"
	ErrInvalidTicketCount   RoomError = "ticket count must be positive"
	ErrInvalidRoundDuration RoomError = "round durations must be positive"
)
