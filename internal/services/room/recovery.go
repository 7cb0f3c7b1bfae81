package room

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/minority/internal/models"
	roomRepo "github.com/KirkDiggler/minority/internal/repositories/room"
)

// Recover loads every active room from the store into the registry and
// re-arms the clock of each started room from its persisted deadlines.
// Rooms already held in memory are left as they are, and rooms the store
// could not decode are logged and left out. A round that was running when
// the process stopped resumes with its votes intact.
func (s *service) Recover(ctx context.Context) error {
	output, err := s.repo.GetActiveRoomsWithDetails(ctx, &roomRepo.GetActiveRoomsWithDetailsInput{})
	if err != nil {
		return fmt.Errorf("failed to load active rooms: %w", err)
	}

	for _, roomID := range output.Skipped {
		s.log.Warn("skipping room with unreadable records", "room_id", roomID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recovered, rearmed := 0, 0
	for _, room := range output.Rooms {
		if room == nil {
			continue
		}
		if !models.ValidRoomID(room.ID) {
			s.log.Warn("skipping room with invalid id", "room_id", room.ID)
			continue
		}
		if _, ok := s.registry.GetRoom(room.ID); ok {
			continue
		}

		s.registry.SetRoom(room)

		state, ok := output.ReadyStates[room.ID]
		if !ok || state == nil || state.Round != room.GateRound() {
			state = models.NewReadyState(room.ID, room.GateRound())
		}
		s.registry.SetReadyState(state)
		recovered++

		if current := room.CurrentRound(); room.IsStarted() && current != nil {
			s.armClock(room.ID, current, room.MemberIDs(), true)
			rearmed++
		}
	}

	s.log.Info("rooms recovered", "rooms", recovered, "clocks", rearmed, "skipped", len(output.Skipped))

	return nil
}
