package room

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/minority/internal/repositories/room Repository

import (
	"context"
)

// Repository is the durable shadow of the in-memory room registry
type Repository interface {
	// CreateRoom persists a newly created room
	CreateRoom(ctx context.Context, input *CreateRoomInput) error

	// UpdateRoom overwrites the room header (name, members, start time)
	UpdateRoom(ctx context.Context, input *UpdateRoomInput) error

	// SaveRound upserts a round of a room by number
	SaveRound(ctx context.Context, input *SaveRoundInput) error

	// SaveTickets overwrites the ticket batch of a room
	SaveTickets(ctx context.Context, input *SaveTicketsInput) error

	// SaveReadyState records a member's ready flag for a gate
	SaveReadyState(ctx context.Context, input *SaveReadyStateInput) error

	// GetActiveRoomsWithDetails loads every stored room with rounds,
	// tickets and the ready state of its current gate
	GetActiveRoomsWithDetails(ctx context.Context, input *GetActiveRoomsWithDetailsInput) (*GetActiveRoomsWithDetailsOutput, error)
}
