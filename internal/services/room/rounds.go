package room

import (
	"github.com/KirkDiggler/minority/internal/models"
	"github.com/KirkDiggler/minority/internal/resolution"
	"github.com/KirkDiggler/minority/internal/services/roundclock"
)

// startGame allocates the ticket batch, opens round 1 and arms its clock.
// Must be called with s.mu held.
func (s *service) startGame(existing *models.Room, correlationID string) {
	now := s.clock.Now()

	tickets := make([]models.Ticket, 0, len(existing.Members)*s.ticketsPerMember)
	for _, member := range existing.Members {
		for i := 0; i < s.ticketsPerMember; i++ {
			tickets = append(tickets, models.Ticket{
				ID:      s.uuidGenerator.NewUUID(),
				OwnerID: member.ID,
				Color:   models.ColorNone,
			})
		}
	}

	startTime := now.Add(s.interimLength)
	round := &models.Round{
		Number:    1,
		StartTime: startTime,
		EndTime:   startTime.Add(s.roundLength),
		Result: models.RoundResult{
			PreviousTickets: models.CloneTickets(existing.Tickets),
			NewTickets:      models.CloneTickets(tickets),
		},
	}

	room := existing.Clone()
	room.Tickets = tickets
	room.StartTime = &now
	room.Rounds = append(room.Rounds, round)
	s.registry.SetRoom(room)
	s.registry.SetReadyState(models.NewReadyState(room.ID, round.Number))

	s.armClock(room.ID, round, room.MemberIDs(), false)

	s.log.Info("game started",
		"room_id", room.ID,
		"members", len(room.Members),
		"tickets", len(tickets),
		"round_start", round.StartTime,
		"round_end", round.EndTime,
		"correlation_id", correlationID)

	s.broadcaster.Publish(room.MemberIDs(), &models.Event{
		Type:          models.EventGameStart,
		CorrelationID: correlationID,
		Data:          models.GameStartData{Room: room.Clone()},
	})

	s.persistUpdateRoom(room)
	s.persistTickets(room)
	s.persistRound(room.ID, round)
}

// armClock installs a round clock for round, replacing any previous clock of
// the room. recipients receive events for the room should it disappear
// before the clock fires. A resumed round that is already running keeps its
// ticket colors and is not announced again. Must be called with s.mu held.
func (s *service) armClock(roomID string, round *models.Round, recipients []string, resume bool) {
	number := round.Number
	var rc *roundclock.RoundClock
	rc = roundclock.New(s.clock, round.StartTime, round.EndTime, roundclock.Callbacks{
		OnStart: func() {
			s.onRoundStart(roomID, number, rc)
		},
		OnEnd: func() {
			s.onRoundEnd(roomID, number, recipients, rc)
		},
	})
	if resume {
		s.clocks.InstallResumed(roomID, rc)
		return
	}
	s.clocks.Install(roomID, rc)
}

// onRoundStart resets every ticket color and announces the round
func (s *service) onRoundStart(roomID string, number int, rc *roundclock.RoundClock) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.clocks.IsCurrent(roomID, rc) {
		s.log.Debug("ignoring stale round start", "room_id", roomID, "round", number)
		return
	}

	existing, ok := s.registry.GetRoom(roomID)
	if !ok {
		s.clocks.Stop(roomID)
		return
	}

	current := existing.CurrentRound()
	if current == nil || current.Number != number {
		s.log.Debug("ignoring round start for replaced round", "room_id", roomID, "round", number)
		return
	}

	room := existing.Clone()
	for i := range room.Tickets {
		room.Tickets[i].Color = models.ColorNone
	}
	s.registry.SetRoom(room)

	correlationID := s.uuidGenerator.NewUUID()
	s.log.Info("round started",
		"room_id", roomID,
		"round", number,
		"correlation_id", correlationID)

	s.broadcaster.Publish(room.MemberIDs(), &models.Event{
		Type:          models.EventRoundStart,
		CorrelationID: correlationID,
		Data: models.RoundStartData{
			RoomID: roomID,
			Round:  room.CurrentRound().Clone(),
		},
	})
	s.persistTickets(room)
}

// onRoundEnd resolves the round when its deadline passes
func (s *service) onRoundEnd(roomID string, number int, recipients []string, rc *roundclock.RoundClock) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.clocks.IsCurrent(roomID, rc) {
		s.log.Debug("ignoring stale round end", "room_id", roomID, "round", number)
		return
	}

	s.resolveRound(roomID, recipients, s.uuidGenerator.NewUUID())
}

// resolveRound closes the current round, splits its working set and opens
// the next round. A room that no longer exists is reported to recipients as
// an Error event. Must be called with s.mu held.
func (s *service) resolveRound(roomID string, recipients []string, correlationID string) {
	existing, ok := s.registry.GetRoom(roomID)
	if !ok || existing.CurrentRound() == nil {
		s.clocks.Stop(roomID)
		s.log.Warn("cannot resolve round, room does not exist",
			"room_id", roomID,
			"correlation_id", correlationID)
		s.broadcaster.Publish(recipients, &models.Event{
			Type:          models.EventError,
			CorrelationID: correlationID,
			Data: models.ErrorData{
				RoomID: roomID,
				Reason: ErrRoomNotFound.Error(),
			},
		})
		return
	}

	now := s.clock.Now()
	room := existing.Clone()
	previous := room.CurrentRound()
	previous.EndTime = now

	working := room.WorkingSet()
	result := resolution.Resolve(working)

	startTime := now.Add(s.interimLength)
	next := &models.Round{
		Number:    previous.Number + 1,
		StartTime: startTime,
		EndTime:   startTime.Add(s.roundLength),
		Result: models.RoundResult{
			PreviousTickets: working,
			NewTickets:      result.NewTickets,
		},
	}
	room.Rounds = append(room.Rounds, next)
	s.registry.SetRoom(room)
	s.registry.SetReadyState(models.NewReadyState(roomID, next.Number))

	s.armClock(roomID, next, room.MemberIDs(), false)

	s.log.Info("round resolved",
		"room_id", roomID,
		"round", previous.Number,
		"red", len(result.Split.Red),
		"blue", len(result.Split.Blue),
		"majority", result.MajorityColor,
		"survivors", len(result.NewTickets),
		"correlation_id", correlationID)

	s.broadcaster.Publish(room.MemberIDs(), &models.Event{
		Type:          models.EventRoundEnd,
		CorrelationID: correlationID,
		Data: models.RoundEndData{
			RoomID:        roomID,
			PreviousRound: previous.Clone(),
			Round:         next.Clone(),
			MajorityColor: result.MajorityColor,
			MinorityColor: result.MinorityColor,
		},
	})

	s.persistRound(roomID, previous)
	s.persistRound(roomID, next)
}
