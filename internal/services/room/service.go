package room

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/minority/internal/broadcast"
	"github.com/KirkDiggler/minority/internal/common/clock"
	"github.com/KirkDiggler/minority/internal/common/uuid"
	"github.com/KirkDiggler/minority/internal/models"
	roomRepo "github.com/KirkDiggler/minority/internal/repositories/room"
	"github.com/KirkDiggler/minority/internal/services/persistence"
	"github.com/KirkDiggler/minority/internal/services/roundclock"
)

// service implements the Service interface.
//
// A single mutex serializes every member action and every clock callback, so
// each action observes and leaves a consistent registry. Broadcasts are sent
// while the mutex is held, which keeps the event order identical for every
// recipient; the broadcaster must not block.
type service struct {
	ticketsPerMember int
	roundLength      time.Duration
	interimLength    time.Duration
	allowDevActions  bool

	repo          roomRepo.Repository
	broadcaster   broadcast.Broadcaster
	policy        Policy
	clock         clock.Clock
	uuidGenerator uuid.UUID
	log           *slog.Logger
	writer        *persistence.Writer

	mu       sync.Mutex
	registry *Registry
	clocks   *roundclock.Table
}

// New creates a new room service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Repository == nil {
		return nil, ErrNilRepository
	}

	if cfg.Broadcaster == nil {
		return nil, ErrNilBroadcaster
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	if cfg.Log == nil {
		return nil, ErrNilLogger
	}

	if cfg.TicketsPerMember <= 0 {
		return nil, ErrInvalidTicketCount
	}

	if cfg.RoundLength <= 0 || cfg.InterimLength < 0 {
		return nil, ErrInvalidRoundDuration
	}

	policy := cfg.Policy
	if policy == nil {
		policy = AllowAll
	}

	log := cfg.Log.With("component", "room")
	writer, err := persistence.NewWriter(&persistence.Config{
		Log:       log,
		QueueSize: cfg.PersistenceQueueSize,
		Timeout:   cfg.PersistenceTimeout,
	})
	if err != nil {
		return nil, err
	}

	return &service{
		ticketsPerMember: cfg.TicketsPerMember,
		roundLength:      cfg.RoundLength,
		interimLength:    cfg.InterimLength,
		allowDevActions:  cfg.AllowDevActions,
		repo:             cfg.Repository,
		broadcaster:      cfg.Broadcaster,
		policy:           policy,
		clock:            cfg.Clock,
		uuidGenerator:    cfg.UUIDGenerator,
		log:              log,
		writer:           writer,
		registry:         NewRegistry(),
		clocks:           roundclock.NewTable(),
	}, nil
}

// CreateOrJoinRoom creates the room on first use or seats the member in it.
// Joining again with a known member id is idempotent apart from the display
// name, which follows the latest join.
func (s *service) CreateOrJoinRoom(ctx context.Context, input *CreateOrJoinRoomInput) (*CreateOrJoinRoomOutput, error) {
	if input == nil || !models.ValidRoomID(input.RoomID) || input.Member.ID == "" {
		return nil, ErrInvalidRequest
	}

	if !s.policy.CanCreateOrJoin(ctx, input.RoomID, input.Member) {
		return nil, ErrPermissionDenied
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.registry.GetRoom(input.RoomID)
	if !ok {
		room := &models.Room{
			ID:      input.RoomID,
			Name:    input.RoomName,
			Members: []models.Member{input.Member},
			Tickets: []models.Ticket{},
			Rounds:  []*models.Round{},
		}
		state := models.NewReadyState(room.ID, 0)
		s.registry.SetRoom(room)
		s.registry.SetReadyState(state)

		s.log.Info("room created",
			"room_id", room.ID,
			"member_id", input.Member.ID,
			"correlation_id", input.CorrelationID)

		s.broadcaster.PublishExcept(input.Member.ID, &models.Event{
			Type:          models.EventRoomCreated,
			CorrelationID: input.CorrelationID,
			Data:          models.RoomCreatedData{Room: room.Clone()},
		})
		s.persistCreateRoom(room)

		return &CreateOrJoinRoomOutput{
			Room:       room.Clone(),
			ReadyState: state.Clone(),
			Created:    true,
		}, nil
	}

	if existing.IsStarted() && !existing.HasMember(input.Member.ID) {
		return nil, ErrGameInProgress
	}

	room := existing.Clone()
	room.UpsertMember(input.Member)
	s.registry.SetRoom(room)

	state, ok := s.registry.GetReadyState(room.ID)
	if !ok {
		state = models.NewReadyState(room.ID, room.GateRound())
		s.registry.SetReadyState(state)
	}

	s.log.Info("member joined room",
		"room_id", room.ID,
		"member_id", input.Member.ID,
		"correlation_id", input.CorrelationID)

	s.broadcaster.Publish(room.MemberIDs(), &models.Event{
		Type:          models.EventUserJoinedRoom,
		CorrelationID: input.CorrelationID,
		Data: models.UserJoinedRoomData{
			RoomID: room.ID,
			Member: input.Member,
		},
	})
	s.persistUpdateRoom(room)

	return &CreateOrJoinRoomOutput{
		Room:       room.Clone(),
		ReadyState: state.Clone(),
	}, nil
}

// ToggleReadyGameStart flips the member's readiness for the pre-start gate.
// When every member is ready the game starts.
func (s *service) ToggleReadyGameStart(ctx context.Context, input *ToggleReadyInput) (*ToggleReadyOutput, error) {
	if input == nil || input.RoomID == "" || input.Member.ID == "" {
		return nil, ErrInvalidRequest
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.validateToggle(input)
	if err != nil {
		return nil, err
	}

	if room.IsStarted() {
		return nil, ErrGameAlreadyStarted
	}

	state, ok := s.registry.GetReadyState(room.ID)
	if !ok || state.Round != 0 {
		return nil, ErrReadyStateNotFound
	}

	state, ready := state.Toggle(input.Member.ID)
	s.registry.SetReadyState(state)

	s.broadcaster.Publish(room.MemberIDs(), &models.Event{
		Type:          models.EventUserToggleReadyGameStart,
		CorrelationID: input.CorrelationID,
		Data: models.ReadyToggledData{
			RoomID:   room.ID,
			MemberID: input.Member.ID,
			Round:    state.Round,
			Ready:    ready,
		},
	})
	s.persistReadyState(room.ID, state.Round, input.Member.ID, ready)

	output := &ToggleReadyOutput{Ready: ready}
	if len(state.ReadyUsers) == len(room.Members) {
		s.startGame(room, input.CorrelationID)
		output.GameStarted = true
	}

	return output, nil
}

// ToggleReadyRoundEnd flips the member's readiness for the current round's
// end gate. When every member is ready the round resolves immediately.
func (s *service) ToggleReadyRoundEnd(ctx context.Context, input *ToggleReadyInput) (*ToggleReadyOutput, error) {
	if input == nil || input.RoomID == "" || input.Member.ID == "" {
		return nil, ErrInvalidRequest
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.validateToggle(input)
	if err != nil {
		return nil, err
	}

	current := room.CurrentRound()
	if !room.IsStarted() || current == nil {
		return nil, ErrGameNotStarted
	}

	// Colors still hold the previous round's votes until the round starts
	if s.clock.Now().Before(current.StartTime) {
		return nil, ErrRoundNotStarted
	}

	state, ok := s.registry.GetReadyState(room.ID)
	if !ok || state.Round != current.Number {
		return nil, ErrReadyStateNotFound
	}

	state, ready := state.Toggle(input.Member.ID)
	s.registry.SetReadyState(state)

	s.broadcaster.Publish(room.MemberIDs(), &models.Event{
		Type:          models.EventUserToggleReadyRoundEnd,
		CorrelationID: input.CorrelationID,
		Data: models.ReadyToggledData{
			RoomID:   room.ID,
			MemberID: input.Member.ID,
			Round:    state.Round,
			Ready:    ready,
		},
	})
	s.persistReadyState(room.ID, state.Round, input.Member.ID, ready)

	output := &ToggleReadyOutput{Ready: ready}
	if len(state.ReadyUsers) == len(room.Members) {
		s.log.Info("all members ready, forcing round end",
			"room_id", room.ID,
			"round", current.Number,
			"correlation_id", input.CorrelationID)
		s.resolveRound(room.ID, room.MemberIDs(), input.CorrelationID)
		output.RoundResolved = true
	}

	return output, nil
}

// validateToggle runs the checks shared by both ready gates. Must be called
// with s.mu held.
func (s *service) validateToggle(input *ToggleReadyInput) (*models.Room, error) {
	room, ok := s.registry.GetRoom(input.RoomID)
	if !ok {
		return nil, ErrRoomNotFound
	}

	if !room.HasMember(input.Member.ID) {
		return nil, ErrNotMember
	}

	if input.SessionMemberID != input.Member.ID {
		s.log.Warn("ready toggle identity mismatch",
			"room_id", room.ID,
			"member_id", input.Member.ID,
			"session_member_id", input.SessionMemberID,
			"correlation_id", input.CorrelationID)
		return nil, ErrIdentityMismatch
	}

	return room, nil
}

// SetVoteColor recolors a ticket. Any caller may recolor any ticket of the
// room; the color holds until the next round starts.
func (s *service) SetVoteColor(ctx context.Context, input *SetVoteColorInput) (*SetVoteColorOutput, error) {
	if input == nil || input.RoomID == "" || input.Ticket.ID == "" || !input.Ticket.Color.IsValid() {
		return nil, ErrInvalidRequest
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.registry.GetRoom(input.RoomID)
	if !ok {
		return nil, ErrRoomNotFound
	}

	idx := existing.FindTicket(input.Ticket.ID)
	if idx < 0 {
		return nil, ErrTicketNotFound
	}

	room := existing.Clone()
	room.Tickets[idx].Color = input.Ticket.Color
	s.registry.SetRoom(room)
	s.persistTickets(room)

	s.log.Debug("vote color set",
		"room_id", room.ID,
		"ticket_id", input.Ticket.ID,
		"color", input.Ticket.Color,
		"correlation_id", input.CorrelationID)

	return &SetVoteColorOutput{Ticket: room.Tickets[idx]}, nil
}

// DevDeleteRooms stops every round clock and clears the registry. The durable
// store is left untouched.
func (s *service) DevDeleteRooms(ctx context.Context, input *DevDeleteRoomsInput) (*DevDeleteRoomsOutput, error) {
	if !s.allowDevActions {
		return nil, ErrDevActionsDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	output := &DevDeleteRoomsOutput{ClocksStopped: s.clocks.Len()}
	s.clocks.StopAll()
	output.RoomsDeleted = s.registry.Clear()

	correlationID := ""
	if input != nil {
		correlationID = input.CorrelationID
	}
	s.log.Warn("all rooms deleted",
		"rooms", output.RoomsDeleted,
		"clocks", output.ClocksStopped,
		"correlation_id", correlationID)

	return output, nil
}

// GetRoom returns a snapshot of the room and its current ready gate
func (s *service) GetRoom(ctx context.Context, input *GetRoomInput) (*GetRoomOutput, error) {
	if input == nil || input.RoomID == "" {
		return nil, ErrInvalidRequest
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.registry.GetRoom(input.RoomID)
	if !ok {
		return nil, ErrRoomNotFound
	}

	state, _ := s.registry.GetReadyState(input.RoomID)

	return &GetRoomOutput{
		Room:       room.Clone(),
		ReadyState: state.Clone(),
	}, nil
}

// Close stops every round clock and drains pending writes
func (s *service) Close() {
	s.mu.Lock()
	s.clocks.StopAll()
	s.mu.Unlock()

	s.writer.Close()
}
