package room

import (
	"context"

	"github.com/KirkDiggler/minority/internal/models"
	roomRepo "github.com/KirkDiggler/minority/internal/repositories/room"
)

// The persist helpers hand registry snapshots to the writer. Registry values
// are never mutated once stored, so the worker may read them without the
// service lock.

func (s *service) persistCreateRoom(room *models.Room) {
	s.writer.Submit("create_room", room.ID, func(ctx context.Context) error {
		return s.repo.CreateRoom(ctx, &roomRepo.CreateRoomInput{Room: room})
	})
}

func (s *service) persistUpdateRoom(room *models.Room) {
	s.writer.Submit("update_room", room.ID, func(ctx context.Context) error {
		return s.repo.UpdateRoom(ctx, &roomRepo.UpdateRoomInput{Room: room})
	})
}

func (s *service) persistTickets(room *models.Room) {
	s.writer.Submit("save_tickets", room.ID, func(ctx context.Context) error {
		return s.repo.SaveTickets(ctx, &roomRepo.SaveTicketsInput{
			RoomID:  room.ID,
			Tickets: room.Tickets,
		})
	})
}

func (s *service) persistRound(roomID string, round *models.Round) {
	s.writer.Submit("save_round", roomID, func(ctx context.Context) error {
		return s.repo.SaveRound(ctx, &roomRepo.SaveRoundInput{
			RoomID: roomID,
			Round:  round,
		})
	})
}

func (s *service) persistReadyState(roomID string, round int, memberID string, ready bool) {
	s.writer.Submit("save_ready_state", roomID, func(ctx context.Context) error {
		return s.repo.SaveReadyState(ctx, &roomRepo.SaveReadyStateInput{
			RoomID:   roomID,
			Round:    round,
			MemberID: memberID,
			Ready:    ready,
		})
	})
}
