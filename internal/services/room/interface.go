package room

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/minority/internal/services/room Service

import "context"

// Service defines the member actions the room orchestrator accepts
type Service interface {
	// CreateOrJoinRoom creates a room on first use or seats a member in it
	CreateOrJoinRoom(ctx context.Context, input *CreateOrJoinRoomInput) (*CreateOrJoinRoomOutput, error)

	// ToggleReadyGameStart flips a member's readiness to start the game
	ToggleReadyGameStart(ctx context.Context, input *ToggleReadyInput) (*ToggleReadyOutput, error)

	// ToggleReadyRoundEnd flips a member's readiness to end the current round early
	ToggleReadyRoundEnd(ctx context.Context, input *ToggleReadyInput) (*ToggleReadyOutput, error)

	// SetVoteColor recolors a ticket of the room
	SetVoteColor(ctx context.Context, input *SetVoteColorInput) (*SetVoteColorOutput, error)

	// DevDeleteRooms stops every round clock and forgets every room
	DevDeleteRooms(ctx context.Context, input *DevDeleteRoomsInput) (*DevDeleteRoomsOutput, error)

	// GetRoom returns a snapshot of a room and its current gate
	GetRoom(ctx context.Context, input *GetRoomInput) (*GetRoomOutput, error)
}
