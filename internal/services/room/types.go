package room

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/minority/internal/broadcast"
	"github.com/KirkDiggler/minority/internal/common/clock"
	"github.com/KirkDiggler/minority/internal/common/uuid"
	"github.com/KirkDiggler/minority/internal/models"
	roomRepo "github.com/KirkDiggler/minority/internal/repositories/room"
)

// Policy decides whether a member may create or join a room
type Policy interface {
	CanCreateOrJoin(ctx context.Context, roomID string, member models.Member) bool
}

// PolicyFunc adapts a function to the Policy interface
type PolicyFunc func(ctx context.Context, roomID string, member models.Member) bool

// CanCreateOrJoin calls f
func (f PolicyFunc) CanCreateOrJoin(ctx context.Context, roomID string, member models.Member) bool {
	return f(ctx, roomID, member)
}

// AllowAll is the default policy
var AllowAll = PolicyFunc(func(context.Context, string, models.Member) bool { return true })

// Config holds configuration for the room service
type Config struct {
	// Tickets allocated to each member when the game starts
	TicketsPerMember int

	// How long a round stays active
	RoundLength time.Duration

	// Delay between a round being scheduled and becoming active
	InterimLength time.Duration

	// Enables DevDeleteRooms
	AllowDevActions bool

	// Best-effort persistence tuning
	PersistenceQueueSize int
	PersistenceTimeout   time.Duration

	// Repository dependencies
	Repository roomRepo.Repository

	// Service dependencies
	Broadcaster   broadcast.Broadcaster
	Policy        Policy
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
	Log           *slog.Logger
}

// CreateOrJoinRoomInput contains parameters for creating or joining a room
type CreateOrJoinRoomInput struct {
	CorrelationID string

	// RoomID identifies the room to create or join
	RoomID string

	// RoomName is used only when the room is created
	RoomName string

	// Member is the joining participant
	Member models.Member
}

// CreateOrJoinRoomOutput contains the room as seen by the caller
type CreateOrJoinRoomOutput struct {
	Room       *models.Room
	ReadyState *models.ReadyState

	// Created indicates the room did not exist before the call
	Created bool
}

// ToggleReadyInput contains parameters for both ready toggles
type ToggleReadyInput struct {
	CorrelationID string
	RoomID        string

	// Member is the member the caller claims to act as
	Member models.Member

	// SessionMemberID is the authenticated identity of the caller
	SessionMemberID string
}

// ToggleReadyOutput contains the result of a ready toggle
type ToggleReadyOutput struct {
	// Ready is the member's new flag
	Ready bool

	// GameStarted indicates this toggle started the game
	GameStarted bool

	// RoundResolved indicates this toggle forced the round to resolve
	RoundResolved bool
}

// SetVoteColorInput contains parameters for recoloring a ticket
type SetVoteColorInput struct {
	CorrelationID string
	RoomID        string

	// Ticket carries the ticket id and the new color
	Ticket models.Ticket
}

// SetVoteColorOutput contains the stored ticket
type SetVoteColorOutput struct {
	Ticket models.Ticket
}

// DevDeleteRoomsInput contains parameters for the administrative purge
type DevDeleteRoomsInput struct {
	CorrelationID string
}

// DevDeleteRoomsOutput reports what the purge removed
type DevDeleteRoomsOutput struct {
	RoomsDeleted  int
	ClocksStopped int
}

// GetRoomInput identifies the room to read
type GetRoomInput struct {
	RoomID string
}

// GetRoomOutput contains a snapshot of the room
type GetRoomOutput struct {
	Room       *models.Room
	ReadyState *models.ReadyState
}
