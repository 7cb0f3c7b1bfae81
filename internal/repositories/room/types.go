package room

import (
	"errors"
	"sort"
	"time"

	"github.com/KirkDiggler/minority/internal/models"
)

var (
	// ErrRoomAlreadyExists is returned when creating a room that is already stored
	ErrRoomAlreadyExists = errors.New("room already exists")

	// ErrRoomNotFound is returned when updating a room that is not stored
	ErrRoomNotFound = errors.New("room not found")

	// ErrInvalidRoomID is returned for ids that would collide with other keys
	ErrInvalidRoomID = errors.New("invalid room id")

	errCorruptRecord = errors.New("corrupt record")
)

type CreateRoomInput struct {
	Room *models.Room
}

type UpdateRoomInput struct {
	Room *models.Room
}

type SaveRoundInput struct {
	RoomID string
	Round  *models.Round
}

type SaveTicketsInput struct {
	RoomID  string
	Tickets []models.Ticket
}

type SaveReadyStateInput struct {
	RoomID   string
	Round    int
	MemberID string
	Ready    bool
}

type GetActiveRoomsWithDetailsInput struct {
}

type GetActiveRoomsWithDetailsOutput struct {
	Rooms []*models.Room

	// ReadyStates holds the current gate of each room, keyed by room id
	ReadyStates map[string]*models.ReadyState

	// Skipped lists rooms whose records could not be decoded
	Skipped []string
}

// roomRecord is the stored room header; rounds and tickets live under
// their own keys so they can be written independently
type roomRecord struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Members   []models.Member `json:"members"`
	StartTime *time.Time      `json:"startTime"`
}

func toRecord(room *models.Room) roomRecord {
	return roomRecord{
		ID:        room.ID,
		Name:      room.Name,
		Members:   room.Members,
		StartTime: room.StartTime,
	}
}

func (r roomRecord) toRoom(rounds []*models.Round, tickets []models.Ticket) *models.Room {
	sort.Slice(rounds, func(i, j int) bool {
		return rounds[i].Number < rounds[j].Number
	})
	if tickets == nil {
		tickets = []models.Ticket{}
	}
	members := r.Members
	if members == nil {
		members = []models.Member{}
	}
	return &models.Room{
		ID:        r.ID,
		Name:      r.Name,
		Members:   members,
		Tickets:   tickets,
		StartTime: r.StartTime,
		Rounds:    rounds,
	}
}
