package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/KirkDiggler/minority/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	roomKeyPrefix  = "room:"
	activeRoomsKey = "active_rooms"
)

// Config holds configuration for the Redis room repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed room repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

func roomKey(roomID string) string {
	return roomKeyPrefix + roomID
}

func roundsKey(roomID string) string {
	return roomKeyPrefix + roomID + ":rounds"
}

func ticketsKey(roomID string) string {
	return roomKeyPrefix + roomID + ":tickets"
}

func readyKey(roomID string, round int) string {
	return fmt.Sprintf("%s%s:ready:%d", roomKeyPrefix, roomID, round)
}

// CreateRoom stores the room header and indexes it as active in one
// transaction
func (r *redisRepository) CreateRoom(ctx context.Context, input *CreateRoomInput) error {
	if input == nil || input.Room == nil {
		return errors.New("input and room cannot be nil")
	}

	if !models.ValidRoomID(input.Room.ID) {
		return ErrInvalidRoomID
	}

	roomJSON, err := json.Marshal(toRecord(input.Room))
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	// Indexing an existing room again is a no-op, so SAdd runs unconditionally
	var created *redis.BoolCmd
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		created = pipe.SetNX(ctx, roomKey(input.Room.ID), roomJSON, 0)
		pipe.SAdd(ctx, activeRoomsKey, input.Room.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	if !created.Val() {
		return ErrRoomAlreadyExists
	}

	return nil
}

// UpdateRoom overwrites the room header
func (r *redisRepository) UpdateRoom(ctx context.Context, input *UpdateRoomInput) error {
	if input == nil || input.Room == nil {
		return errors.New("input and room cannot be nil")
	}

	roomJSON, err := json.Marshal(toRecord(input.Room))
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	updated, err := r.client.SetXX(ctx, roomKey(input.Room.ID), roomJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	if !updated {
		return ErrRoomNotFound
	}

	return nil
}

// SaveRound upserts the round in the room's rounds hash
func (r *redisRepository) SaveRound(ctx context.Context, input *SaveRoundInput) error {
	if input == nil || input.Round == nil || input.RoomID == "" {
		return errors.New("input, room ID and round cannot be empty")
	}

	roundJSON, err := json.Marshal(input.Round)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %w", err)
	}

	field := strconv.Itoa(input.Round.Number)
	if err := r.client.HSet(ctx, roundsKey(input.RoomID), field, roundJSON).Err(); err != nil {
		return fmt.Errorf("failed to save round: %w", err)
	}

	return nil
}

// SaveTickets overwrites the ticket batch of the room
func (r *redisRepository) SaveTickets(ctx context.Context, input *SaveTicketsInput) error {
	if input == nil || input.RoomID == "" {
		return errors.New("input and room ID cannot be empty")
	}

	ticketsJSON, err := json.Marshal(input.Tickets)
	if err != nil {
		return fmt.Errorf("failed to marshal tickets: %w", err)
	}

	if err := r.client.Set(ctx, ticketsKey(input.RoomID), ticketsJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save tickets: %w", err)
	}

	return nil
}

// SaveReadyState adds or removes the member from the gate's ready set
func (r *redisRepository) SaveReadyState(ctx context.Context, input *SaveReadyStateInput) error {
	if input == nil || input.RoomID == "" || input.MemberID == "" {
		return errors.New("input, room ID and member ID cannot be empty")
	}

	key := readyKey(input.RoomID, input.Round)
	var err error
	if input.Ready {
		err = r.client.SAdd(ctx, key, input.MemberID).Err()
	} else {
		err = r.client.SRem(ctx, key, input.MemberID).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to save ready state: %w", err)
	}

	return nil
}

// GetActiveRoomsWithDetails loads every indexed room in one pipeline. Rooms
// whose records cannot be decoded are listed in Skipped.
func (r *redisRepository) GetActiveRoomsWithDetails(ctx context.Context, input *GetActiveRoomsWithDetailsInput) (*GetActiveRoomsWithDetailsOutput, error) {
	roomIDs, err := r.client.SMembers(ctx, activeRoomsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get active room IDs: %w", err)
	}

	output := &GetActiveRoomsWithDetailsOutput{
		Rooms:       []*models.Room{},
		ReadyStates: map[string]*models.ReadyState{},
	}
	if len(roomIDs) == 0 {
		return output, nil
	}

	pipe := r.client.Pipeline()
	roomCmds := make(map[string]*redis.StringCmd, len(roomIDs))
	roundCmds := make(map[string]*redis.MapStringStringCmd, len(roomIDs))
	ticketCmds := make(map[string]*redis.StringCmd, len(roomIDs))
	for _, roomID := range roomIDs {
		roomCmds[roomID] = pipe.Get(ctx, roomKey(roomID))
		roundCmds[roomID] = pipe.HGetAll(ctx, roundsKey(roomID))
		ticketCmds[roomID] = pipe.Get(ctx, ticketsKey(roomID))
	}

	// Server replies such as redis.Nil or WRONGTYPE belong to a single room
	// and are inspected below; anything else is a transport failure
	if _, err := pipe.Exec(ctx); err != nil && !isReplyError(err) {
		return nil, fmt.Errorf("failed to get active rooms: %w", err)
	}

	for _, roomID := range roomIDs {
		room, err := decodeRoom(roomCmds[roomID], roundCmds[roomID], ticketCmds[roomID])
		if errors.Is(err, redis.Nil) {
			// Room was removed between listing and fetching
			continue
		}
		if err != nil {
			output.Skipped = append(output.Skipped, roomID)
			continue
		}

		gate := room.GateRound()
		readyUsers, err := r.client.SMembers(ctx, readyKey(roomID, gate)).Result()
		if err != nil {
			if isReplyError(err) {
				output.Skipped = append(output.Skipped, roomID)
				continue
			}
			return nil, fmt.Errorf("failed to get ready state of room %s: %w", roomID, err)
		}
		state := models.NewReadyState(roomID, gate)
		for _, memberID := range readyUsers {
			if room.HasMember(memberID) {
				state.ReadyUsers = append(state.ReadyUsers, memberID)
			}
		}

		output.Rooms = append(output.Rooms, room)
		output.ReadyStates[roomID] = state
	}

	return output, nil
}

func isReplyError(err error) bool {
	var replyErr redis.Error
	return errors.As(err, &replyErr)
}

// decodeRoom assembles a room from its pipelined reads. A missing header is
// reported as redis.Nil.
func decodeRoom(roomCmd *redis.StringCmd, roundCmd *redis.MapStringStringCmd, ticketCmd *redis.StringCmd) (*models.Room, error) {
	roomJSON, err := roomCmd.Result()
	if err != nil {
		return nil, err
	}

	var record roomRecord
	if err := json.Unmarshal([]byte(roomJSON), &record); err != nil {
		return nil, fmt.Errorf("%w: room: %v", errCorruptRecord, err)
	}

	roundFields, err := roundCmd.Result()
	if err != nil {
		return nil, fmt.Errorf("%w: rounds: %v", errCorruptRecord, err)
	}
	rounds := make([]*models.Round, 0, len(roundFields))
	for _, roundJSON := range roundFields {
		var round models.Round
		if err := json.Unmarshal([]byte(roundJSON), &round); err != nil {
			return nil, fmt.Errorf("%w: round: %v", errCorruptRecord, err)
		}
		rounds = append(rounds, &round)
	}

	var tickets []models.Ticket
	ticketsJSON, err := ticketCmd.Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return nil, fmt.Errorf("%w: tickets: %v", errCorruptRecord, err)
	default:
		if err := json.Unmarshal([]byte(ticketsJSON), &tickets); err != nil {
			return nil, fmt.Errorf("%w: tickets: %v", errCorruptRecord, err)
		}
	}

	return record.toRoom(rounds, tickets), nil
}
