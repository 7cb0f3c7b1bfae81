package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/KirkDiggler/minority/internal/models"
	"github.com/dgraph-io/badger/v4"
)

// BadgerConfig holds configuration for the Badger room repository
type BadgerConfig struct {
	DB *badger.DB
}

// badgerRepository implements the Repository interface on an embedded
// Badger database. Keys:
//
//	room:{id}                      room header
//	round:{id}:{number}            one round, number zero padded
//	tickets:{id}                   ticket batch
//	ready:{id}:{round}:{member}     ready flag, present while ready
//
// Room ids never contain the separator, so every prefix ending in it
// matches a single room.
type badgerRepository struct {
	db *badger.DB
}

// NewBadger creates a new Badger-backed room repository
func NewBadger(cfg *BadgerConfig) (*badgerRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.DB == nil {
		return nil, errors.New("badger db cannot be nil")
	}

	return &badgerRepository{db: cfg.DB}, nil
}

const badgerRoomPrefix = "room:"

func badgerRoomKey(roomID string) []byte {
	return []byte(badgerRoomPrefix + roomID)
}

func badgerRoundPrefix(roomID string) string {
	return "round:" + roomID + ":"
}

func badgerRoundKey(roomID string, number int) []byte {
	return []byte(fmt.Sprintf("%s%010d", badgerRoundPrefix(roomID), number))
}

func badgerTicketsKey(roomID string) []byte {
	return []byte("tickets:" + roomID)
}

func badgerReadyPrefix(roomID string, round int) string {
	return fmt.Sprintf("ready:%s:%010d:", roomID, round)
}

// CreateRoom stores the room header, failing if it already exists
func (r *badgerRepository) CreateRoom(ctx context.Context, input *CreateRoomInput) error {
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

	return r.db.Update(func(txn *badger.Txn) error {
		key := badgerRoomKey(input.Room.ID)
		if _, err := txn.Get(key); err == nil {
			return ErrRoomAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to read room: %w", err)
		}
		return txn.Set(key, roomJSON)
	})
}

// UpdateRoom overwrites the room header of an existing room
func (r *badgerRepository) UpdateRoom(ctx context.Context, input *UpdateRoomInput) error {
	if input == nil || input.Room == nil {
		return errors.New("input and room cannot be nil")
	}

	roomJSON, err := json.Marshal(toRecord(input.Room))
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		key := badgerRoomKey(input.Room.ID)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrRoomNotFound
			}
			return fmt.Errorf("failed to read room: %w", err)
		}
		return txn.Set(key, roomJSON)
	})
}

// SaveRound upserts a round by number
func (r *badgerRepository) SaveRound(ctx context.Context, input *SaveRoundInput) error {
	if input == nil || input.Round == nil || input.RoomID == "" {
		return errors.New("input, room ID and round cannot be empty")
	}

	roundJSON, err := json.Marshal(input.Round)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerRoundKey(input.RoomID, input.Round.Number), roundJSON)
	})
}

// SaveTickets overwrites the ticket batch
func (r *badgerRepository) SaveTickets(ctx context.Context, input *SaveTicketsInput) error {
	if input == nil || input.RoomID == "" {
		return errors.New("input and room ID cannot be empty")
	}

	ticketsJSON, err := json.Marshal(input.Tickets)
	if err != nil {
		return fmt.Errorf("failed to marshal tickets: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerTicketsKey(input.RoomID), ticketsJSON)
	})
}

// SaveReadyState sets or clears the member's ready key
func (r *badgerRepository) SaveReadyState(ctx context.Context, input *SaveReadyStateInput) error {
	if input == nil || input.RoomID == "" || input.MemberID == "" {
		return errors.New("input, room ID and member ID cannot be empty")
	}

	key := []byte(badgerReadyPrefix(input.RoomID, input.Round) + input.MemberID)
	return r.db.Update(func(txn *badger.Txn) error {
		if input.Ready {
			return txn.Set(key, []byte{1})
		}
		return txn.Delete(key)
	})
}

// GetActiveRoomsWithDetails scans every room header and loads its details
// in the same read transaction. Rooms whose records cannot be decoded are
// listed in Skipped.
func (r *badgerRepository) GetActiveRoomsWithDetails(ctx context.Context, input *GetActiveRoomsWithDetailsInput) (*GetActiveRoomsWithDetailsOutput, error) {
	output := &GetActiveRoomsWithDetailsOutput{
		Rooms:       []*models.Room{},
		ReadyStates: map[string]*models.ReadyState{},
	}

	err := r.db.View(func(txn *badger.Txn) error {
		var records []roomRecord
		err := iteratePrefix(txn, badgerRoomPrefix, func(key string, value []byte) error {
			var record roomRecord
			if err := json.Unmarshal(value, &record); err != nil {
				output.Skipped = append(output.Skipped, strings.TrimPrefix(key, badgerRoomPrefix))
				return nil
			}
			records = append(records, record)
			return nil
		})
		if err != nil {
			return err
		}

		for _, record := range records {
			room, state, err := r.loadRoom(txn, record)
			if errors.Is(err, errCorruptRecord) {
				output.Skipped = append(output.Skipped, record.ID)
				continue
			}
			if err != nil {
				return err
			}
			output.Rooms = append(output.Rooms, room)
			output.ReadyStates[room.ID] = state
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *badgerRepository) loadRoom(txn *badger.Txn, record roomRecord) (*models.Room, *models.ReadyState, error) {
	rounds := make([]*models.Round, 0)
	err := iteratePrefix(txn, badgerRoundPrefix(record.ID), func(_ string, value []byte) error {
		var round models.Round
		if err := json.Unmarshal(value, &round); err != nil {
			return fmt.Errorf("%w: round of room %s: %v", errCorruptRecord, record.ID, err)
		}
		rounds = append(rounds, &round)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var tickets []models.Ticket
	item, err := txn.Get(badgerTicketsKey(record.ID))
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return nil, nil, fmt.Errorf("failed to get tickets of room %s: %w", record.ID, err)
	default:
		err = item.Value(func(value []byte) error {
			return json.Unmarshal(value, &tickets)
		})
		if err != nil {
			return nil, nil, fmt.Errorf("%w: tickets of room %s: %v", errCorruptRecord, record.ID, err)
		}
	}

	room := record.toRoom(rounds, tickets)

	gate := room.GateRound()
	state := models.NewReadyState(room.ID, gate)
	prefix := badgerReadyPrefix(room.ID, gate)
	err = iteratePrefix(txn, prefix, func(key string, _ []byte) error {
		memberID := strings.TrimPrefix(key, prefix)
		if room.HasMember(memberID) {
			state.ReadyUsers = append(state.ReadyUsers, memberID)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return room, state, nil
}

func iteratePrefix(txn *badger.Txn, prefix string, fn func(key string, value []byte) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		item := it.Item()
		key := string(item.KeyCopy(nil))
		err := item.Value(func(value []byte) error {
			return fn(key, value)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
