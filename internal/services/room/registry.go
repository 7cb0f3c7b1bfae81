package room

import "github.com/KirkDiggler/minority/internal/models"

// Registry is the authoritative in-memory store of rooms and their ready
// states. Values are replaced, never edited: callers clone before changing a
// room and store the clone, so a stored pointer is never mutated afterwards.
// Registry does no locking; the service serializes access.
type Registry struct {
	rooms       map[string]*models.Room
	readyStates map[string]*models.ReadyState
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		rooms:       make(map[string]*models.Room),
		readyStates: make(map[string]*models.ReadyState),
	}
}

// GetRoom returns the stored room; it must be treated as read-only
func (r *Registry) GetRoom(roomID string) (*models.Room, bool) {
	room, ok := r.rooms[roomID]
	return room, ok
}

// SetRoom replaces the stored room
func (r *Registry) SetRoom(room *models.Room) {
	r.rooms[room.ID] = room
}

// GetReadyState returns the stored ready state; it must be treated as read-only
func (r *Registry) GetReadyState(roomID string) (*models.ReadyState, bool) {
	state, ok := r.readyStates[roomID]
	return state, ok
}

// SetReadyState replaces the ready state of a room
func (r *Registry) SetReadyState(state *models.ReadyState) {
	r.readyStates[state.RoomID] = state
}

// DeleteRoom removes a room and its ready state
func (r *Registry) DeleteRoom(roomID string) {
	delete(r.rooms, roomID)
	delete(r.readyStates, roomID)
}

// Clear removes every room and returns how many were held
func (r *Registry) Clear() int {
	n := 0
	for roomID := range r.rooms {
		r.DeleteRoom(roomID)
		n++
	}
	clear(r.readyStates)
	return n
}

// Len returns the number of rooms held
func (r *Registry) Len() int {
	return len(r.rooms)
}
