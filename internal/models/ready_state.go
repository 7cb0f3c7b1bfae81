package models

import "github.com/samber/lo"

// ReadyState tracks which members opted in to the current gate of a room.
// Round 0 is the pre-start gate, round N is the round-end gate of round N.
type ReadyState struct {
	RoomID     string   `json:"roomId"`
	Round      int      `json:"round"`
	ReadyUsers []string `json:"readyUsers"`
}

// NewReadyState returns an empty gate for the given round
func NewReadyState(roomID string, round int) *ReadyState {
	return &ReadyState{
		RoomID:     roomID,
		Round:      round,
		ReadyUsers: []string{},
	}
}

// IsReady reports whether memberID has opted in
func (s *ReadyState) IsReady(memberID string) bool {
	return lo.Contains(s.ReadyUsers, memberID)
}

// Toggle returns a copy of the state with memberID flipped, and the new flag
func (s *ReadyState) Toggle(memberID string) (*ReadyState, bool) {
	out := s.Clone()
	if out.IsReady(memberID) {
		out.ReadyUsers = lo.Without(out.ReadyUsers, memberID)
		return out, false
	}
	out.ReadyUsers = append(out.ReadyUsers, memberID)
	return out, true
}

// Clone returns a deep copy of the state
func (s *ReadyState) Clone() *ReadyState {
	if s == nil {
		return nil
	}
	out := *s
	out.ReadyUsers = append([]string{}, s.ReadyUsers...)
	return &out
}
