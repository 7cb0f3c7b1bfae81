package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	broadcastMocks "github.com/KirkDiggler/minority/internal/broadcast/mocks"
	"github.com/KirkDiggler/minority/internal/common/clock"
	uuidMocks "github.com/KirkDiggler/minority/internal/common/uuid/mocks"
	"github.com/KirkDiggler/minority/internal/models"
	roomRepo "github.com/KirkDiggler/minority/internal/repositories/room"
	roomMocks "github.com/KirkDiggler/minority/internal/repositories/room/mocks"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type published struct {
	memberIDs []string
	except    string
	event     *models.Event
}

type RoomServiceTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockRoomRepo    *roomMocks.MockRepository
	mockBroadcaster *broadcastMocks.MockBroadcaster
	mockUUID        *uuidMocks.MockUUID
	clock           *clock.Manual
	roomService     *service
	ctx             context.Context

	// Test data
	testTime     time.Time
	testRoomID   string
	testAlice    models.Member
	testBob      models.Member
	testCarol    models.Member
	roundLength  time.Duration
	interim      time.Duration
	uuidSequence int
	published    []published
}

func (s *RoomServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRoomRepo = roomMocks.NewMockRepository(s.mockCtrl)
	s.mockBroadcaster = broadcastMocks.NewMockBroadcaster(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.ctx = context.Background()

	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.clock = clock.NewManual(s.testTime)
	s.testRoomID = "test-room-id"
	s.testAlice = models.Member{ID: "alice", DisplayName: "Alice"}
	s.testBob = models.Member{ID: "bob", DisplayName: "Bob"}
	s.testCarol = models.Member{ID: "carol", DisplayName: "Carol"}
	s.roundLength = 30 * time.Second
	s.interim = 5 * time.Second
	s.uuidSequence = 0
	s.published = nil

	s.mockUUID.EXPECT().NewUUID().DoAndReturn(func() string {
		s.uuidSequence++
		return fmt.Sprintf("uuid-%d", s.uuidSequence)
	}).AnyTimes()

	s.mockBroadcaster.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(memberIDs []string, evt *models.Event) {
		s.published = append(s.published, published{memberIDs: memberIDs, event: evt})
	}).AnyTimes()
	s.mockBroadcaster.EXPECT().PublishExcept(gomock.Any(), gomock.Any()).Do(func(memberID string, evt *models.Event) {
		s.published = append(s.published, published{except: memberID, event: evt})
	}).AnyTimes()

	s.roomService = s.newService(s.newConfig(s.mockRoomRepo))
}

func TestRoomServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RoomServiceTestSuite))
}

func (s *RoomServiceTestSuite) newConfig(repo roomRepo.Repository) *Config {
	return &Config{
		TicketsPerMember: 2,
		RoundLength:      s.roundLength,
		InterimLength:    s.interim,
		AllowDevActions:  true,
		Repository:       repo,
		Broadcaster:      s.mockBroadcaster,
		Clock:            s.clock,
		UUIDGenerator:    s.mockUUID,
		Log:              logs.GetLoggerFromLevel(slog.LevelDebug),
	}
}

// newService builds a service that is closed before the mock controller
// checks its expectations
func (s *RoomServiceTestSuite) newService(cfg *Config) *service {
	svc, err := New(cfg)
	s.Require().NoError(err)
	s.T().Cleanup(svc.Close)
	return svc
}

// allowPersistence accepts any write to the mocked store
func (s *RoomServiceTestSuite) allowPersistence() {
	s.mockRoomRepo.EXPECT().CreateRoom(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.mockRoomRepo.EXPECT().UpdateRoom(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.mockRoomRepo.EXPECT().SaveRound(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.mockRoomRepo.EXPECT().SaveTickets(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.mockRoomRepo.EXPECT().SaveReadyState(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (s *RoomServiceTestSuite) join(member models.Member) *CreateOrJoinRoomOutput {
	output, err := s.roomService.CreateOrJoinRoom(s.ctx, &CreateOrJoinRoomInput{
		CorrelationID: "join-" + member.ID,
		RoomID:        s.testRoomID,
		RoomName:      "Test Room",
		Member:        member,
	})
	s.Require().NoError(err)
	return output
}

func (s *RoomServiceTestSuite) toggleGameStart(member models.Member) *ToggleReadyOutput {
	output, err := s.roomService.ToggleReadyGameStart(s.ctx, &ToggleReadyInput{
		CorrelationID:   "ready-" + member.ID,
		RoomID:          s.testRoomID,
		Member:          member,
		SessionMemberID: member.ID,
	})
	s.Require().NoError(err)
	return output
}

func (s *RoomServiceTestSuite) toggleRoundEnd(member models.Member) *ToggleReadyOutput {
	output, err := s.roomService.ToggleReadyRoundEnd(s.ctx, &ToggleReadyInput{
		CorrelationID:   "end-" + member.ID,
		RoomID:          s.testRoomID,
		Member:          member,
		SessionMemberID: member.ID,
	})
	s.Require().NoError(err)
	return output
}

func (s *RoomServiceTestSuite) setColor(ticketID string, color models.Color) {
	_, err := s.roomService.SetVoteColor(s.ctx, &SetVoteColorInput{
		RoomID: s.testRoomID,
		Ticket: models.Ticket{ID: ticketID, Color: color},
	})
	s.Require().NoError(err)
}

// startGame seats alice and bob and readies both. Tickets are uuid-1 and
// uuid-2 for alice, uuid-3 and uuid-4 for bob.
func (s *RoomServiceTestSuite) startGame() {
	s.join(s.testAlice)
	s.join(s.testBob)
	s.toggleGameStart(s.testAlice)
	output := s.toggleGameStart(s.testBob)
	s.Require().True(output.GameStarted)
}

func (s *RoomServiceTestSuite) getRoom() *GetRoomOutput {
	output, err := s.roomService.GetRoom(s.ctx, &GetRoomInput{RoomID: s.testRoomID})
	s.Require().NoError(err)
	return output
}

func (s *RoomServiceTestSuite) eventsOfType(eventType models.EventType) []*models.Event {
	var events []*models.Event
	for _, p := range s.published {
		if p.event.Type == eventType {
			events = append(events, p.event)
		}
	}
	return events
}

func (s *RoomServiceTestSuite) TestNew_RequiresDependencies() {
	testCases := []struct {
		name   string
		mutate func(cfg *Config)
		err    error
	}{
		{"nil repository", func(cfg *Config) { cfg.Repository = nil }, ErrNilRepository},
		{"nil broadcaster", func(cfg *Config) { cfg.Broadcaster = nil }, ErrNilBroadcaster},
		{"nil clock", func(cfg *Config) { cfg.Clock = nil }, ErrNilClock},
		{"nil uuid", func(cfg *Config) { cfg.UUIDGenerator = nil }, ErrNilUUIDGenerator},
		{"nil logger", func(cfg *Config) { cfg.Log = nil }, ErrNilLogger},
		{"no tickets", func(cfg *Config) { cfg.TicketsPerMember = 0 }, ErrInvalidTicketCount},
		{"no round length", func(cfg *Config) { cfg.RoundLength = 0 }, ErrInvalidRoundDuration},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			cfg := s.newConfig(s.mockRoomRepo)
			tc.mutate(cfg)
			svc, err := New(cfg)
			s.ErrorIs(err, tc.err)
			s.Nil(svc)
		})
	}

	svc, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)
	s.Nil(svc)
}

func (s *RoomServiceTestSuite) TestCreateOrJoinRoom_CreatesRoom() {
	s.allowPersistence()

	output := s.join(s.testAlice)

	s.True(output.Created)
	s.Equal(s.testRoomID, output.Room.ID)
	s.Equal("Test Room", output.Room.Name)
	s.Equal([]models.Member{s.testAlice}, output.Room.Members)
	s.Empty(output.Room.Tickets)
	s.Empty(output.Room.Rounds)
	s.Nil(output.Room.StartTime)
	s.Equal(0, output.ReadyState.Round)
	s.Empty(output.ReadyState.ReadyUsers)

	s.Require().Len(s.published, 1)
	s.Equal(models.EventRoomCreated, s.published[0].event.Type)
	s.Equal("alice", s.published[0].except)
	s.Equal("join-alice", s.published[0].event.CorrelationID)
}

func (s *RoomServiceTestSuite) TestCreateOrJoinRoom_JoinIsIdempotent() {
	s.allowPersistence()
	s.join(s.testAlice)
	s.join(s.testBob)

	renamed := models.Member{ID: "bob", DisplayName: "Robert"}
	output := s.join(renamed)

	s.False(output.Created)
	s.Equal([]models.Member{s.testAlice, renamed}, output.Room.Members)

	joins := 0
	for _, p := range s.published {
		if p.event.Type == models.EventUserJoinedRoom {
			joins++
			s.ElementsMatch([]string{"alice", "bob"}, p.memberIDs)
		}
	}
	s.Equal(2, joins)
}

func (s *RoomServiceTestSuite) TestCreateOrJoinRoom_RejectsNewMemberAfterStart() {
	s.allowPersistence()
	s.startGame()

	_, err := s.roomService.CreateOrJoinRoom(s.ctx, &CreateOrJoinRoomInput{
		RoomID: s.testRoomID,
		Member: s.testCarol,
	})
	s.ErrorIs(err, ErrGameInProgress)

	// Seated members may rejoin a running game
	output := s.join(s.testAlice)
	s.Equal(1, output.ReadyState.Round)
	s.Len(output.Room.Members, 2)
}

func (s *RoomServiceTestSuite) TestCreateOrJoinRoom_InvalidInput() {
	_, err := s.roomService.CreateOrJoinRoom(s.ctx, &CreateOrJoinRoomInput{RoomID: s.testRoomID})
	s.ErrorIs(err, ErrInvalidRequest)

	_, err = s.roomService.CreateOrJoinRoom(s.ctx, nil)
	s.ErrorIs(err, ErrInvalidRequest)

	// The key separator would let one room overwrite another's records
	_, err = s.roomService.CreateOrJoinRoom(s.ctx, &CreateOrJoinRoomInput{RoomID: "x:tickets", Member: s.testAlice})
	s.ErrorIs(err, ErrInvalidRequest)
	s.Empty(s.published)
}

func (s *RoomServiceTestSuite) TestCreateOrJoinRoom_PolicyDenies() {
	cfg := s.newConfig(s.mockRoomRepo)
	cfg.Policy = PolicyFunc(func(_ context.Context, _ string, member models.Member) bool {
		return member.ID != "carol"
	})
	svc := s.newService(cfg)

	_, err := svc.CreateOrJoinRoom(s.ctx, &CreateOrJoinRoomInput{
		RoomID: s.testRoomID,
		Member: s.testCarol,
	})
	s.ErrorIs(err, ErrPermissionDenied)
	s.Empty(s.published)
}

func (s *RoomServiceTestSuite) TestToggleReadyGameStart_StartsWhenAllReady() {
	s.allowPersistence()
	s.join(s.testAlice)
	s.join(s.testBob)

	output := s.toggleGameStart(s.testAlice)
	s.True(output.Ready)
	s.False(output.GameStarted)
	s.Equal([]string{"alice"}, s.getRoom().ReadyState.ReadyUsers)

	output = s.toggleGameStart(s.testBob)
	s.True(output.Ready)
	s.True(output.GameStarted)

	room := s.getRoom()
	s.Require().NotNil(room.Room.StartTime)
	s.Equal(s.testTime, *room.Room.StartTime)
	s.Len(room.Room.Tickets, 4)
	for i, ticket := range room.Room.Tickets {
		s.Equal(fmt.Sprintf("uuid-%d", i+1), ticket.ID)
		s.Equal(models.ColorNone, ticket.Color)
	}
	s.Equal("alice", room.Room.Tickets[0].OwnerID)
	s.Equal("bob", room.Room.Tickets[3].OwnerID)

	s.Require().Len(room.Room.Rounds, 1)
	round := room.Room.Rounds[0]
	s.Equal(1, round.Number)
	s.Equal(s.testTime.Add(s.interim), round.StartTime)
	s.Equal(s.testTime.Add(s.interim+s.roundLength), round.EndTime)
	s.Empty(round.Result.PreviousTickets)
	s.Equal(room.Room.Tickets, round.Result.NewTickets)

	s.Equal(1, room.ReadyState.Round)
	s.Empty(room.ReadyState.ReadyUsers)

	started := s.eventsOfType(models.EventGameStart)
	s.Require().Len(started, 1)
	s.Equal("ready-bob", started[0].CorrelationID)
}

func (s *RoomServiceTestSuite) TestToggleReadyGameStart_TogglesOff() {
	s.allowPersistence()
	s.join(s.testAlice)
	s.join(s.testBob)

	s.True(s.toggleGameStart(s.testAlice).Ready)
	s.False(s.toggleGameStart(s.testAlice).Ready)
	s.Empty(s.getRoom().ReadyState.ReadyUsers)

	toggles := s.eventsOfType(models.EventUserToggleReadyGameStart)
	s.Require().Len(toggles, 2)
	s.False(toggles[1].Data.(models.ReadyToggledData).Ready)
}

func (s *RoomServiceTestSuite) TestToggleReadyGameStart_StartsOnce() {
	s.allowPersistence()
	s.startGame()

	_, err := s.roomService.ToggleReadyGameStart(s.ctx, &ToggleReadyInput{
		RoomID:          s.testRoomID,
		Member:          s.testAlice,
		SessionMemberID: s.testAlice.ID,
	})
	s.ErrorIs(err, ErrGameAlreadyStarted)
	s.Len(s.eventsOfType(models.EventGameStart), 1)
}

func (s *RoomServiceTestSuite) TestToggleReadyGameStart_IdentityMismatch() {
	s.allowPersistence()
	s.join(s.testAlice)
	s.join(s.testCarol)
	before := len(s.published)

	_, err := s.roomService.ToggleReadyGameStart(s.ctx, &ToggleReadyInput{
		RoomID:          s.testRoomID,
		Member:          s.testAlice,
		SessionMemberID: s.testCarol.ID,
	})

	s.ErrorIs(err, ErrIdentityMismatch)
	s.Len(s.published, before)
	s.Empty(s.getRoom().ReadyState.ReadyUsers)
}

func (s *RoomServiceTestSuite) TestToggleReadyGameStart_Rejections() {
	s.allowPersistence()

	_, err := s.roomService.ToggleReadyGameStart(s.ctx, &ToggleReadyInput{
		RoomID:          s.testRoomID,
		Member:          s.testAlice,
		SessionMemberID: s.testAlice.ID,
	})
	s.ErrorIs(err, ErrRoomNotFound)

	s.join(s.testAlice)
	_, err = s.roomService.ToggleReadyGameStart(s.ctx, &ToggleReadyInput{
		RoomID:          s.testRoomID,
		Member:          s.testBob,
		SessionMemberID: s.testBob.ID,
	})
	s.ErrorIs(err, ErrNotMember)
}

func (s *RoomServiceTestSuite) TestToggleReadyRoundEnd_BeforeStart() {
	s.allowPersistence()
	s.join(s.testAlice)

	_, err := s.roomService.ToggleReadyRoundEnd(s.ctx, &ToggleReadyInput{
		RoomID:          s.testRoomID,
		Member:          s.testAlice,
		SessionMemberID: s.testAlice.ID,
	})
	s.ErrorIs(err, ErrGameNotStarted)
}

func (s *RoomServiceTestSuite) TestToggleReadyRoundEnd_IdentityMismatch() {
	s.allowPersistence()
	s.startGame()

	_, err := s.roomService.ToggleReadyRoundEnd(s.ctx, &ToggleReadyInput{
		RoomID:          s.testRoomID,
		Member:          s.testAlice,
		SessionMemberID: s.testBob.ID,
	})
	s.ErrorIs(err, ErrIdentityMismatch)
}

func (s *RoomServiceTestSuite) TestRoundLifecycle_TimerDriven() {
	s.allowPersistence()
	s.startGame()

	// Colors set during the interim are cleared when the round starts
	s.setColor("uuid-1", models.ColorBlue)
	s.clock.Advance(s.interim)

	roundStarts := s.eventsOfType(models.EventRoundStart)
	s.Require().Len(roundStarts, 1)
	s.Equal(1, roundStarts[0].Data.(models.RoundStartData).Round.Number)
	s.Equal(models.ColorNone, s.getRoom().Room.Tickets[0].Color)

	s.setColor("uuid-1", models.ColorRed)
	s.setColor("uuid-2", models.ColorRed)
	s.setColor("uuid-3", models.ColorBlue)

	s.clock.Advance(s.roundLength)

	roundEnds := s.eventsOfType(models.EventRoundEnd)
	s.Require().Len(roundEnds, 1)
	data := roundEnds[0].Data.(models.RoundEndData)
	s.Equal(models.ColorRed, data.MajorityColor)
	s.Equal(models.ColorBlue, data.MinorityColor)
	s.Equal(1, data.PreviousRound.Number)
	s.Equal(2, data.Round.Number)
	s.Require().Len(data.Round.Result.NewTickets, 1)
	s.Equal("uuid-3", data.Round.Result.NewTickets[0].ID)
	s.Len(data.Round.Result.PreviousTickets, 4)

	endTime := s.testTime.Add(s.interim + s.roundLength)
	room := s.getRoom()
	s.Require().Len(room.Room.Rounds, 2)
	s.Equal(endTime, room.Room.Rounds[0].EndTime)
	s.Equal(endTime.Add(s.interim), room.Room.Rounds[1].StartTime)
	s.Equal(endTime.Add(s.interim+s.roundLength), room.Room.Rounds[1].EndTime)
	s.Equal(2, room.ReadyState.Round)
	s.Empty(room.ReadyState.ReadyUsers)

	// Round 2 only counts the surviving ticket
	s.clock.Advance(s.interim)
	s.setColor("uuid-1", models.ColorBlue)
	s.setColor("uuid-2", models.ColorBlue)
	s.setColor("uuid-3", models.ColorRed)
	s.clock.Advance(s.roundLength)

	roundEnds = s.eventsOfType(models.EventRoundEnd)
	s.Require().Len(roundEnds, 2)
	data = roundEnds[1].Data.(models.RoundEndData)
	s.Equal(models.ColorRed, data.MajorityColor)
	s.Equal(models.ColorBlue, data.MinorityColor)
	s.Empty(data.Round.Result.NewTickets)
	s.Require().Len(data.Round.Result.PreviousTickets, 1)
	s.Equal("uuid-3", data.Round.Result.PreviousTickets[0].ID)
	s.Equal(3, data.Round.Number)
}

func (s *RoomServiceTestSuite) TestRoundLifecycle_ForcedByReadyMembers() {
	s.allowPersistence()
	s.startGame()
	s.clock.Advance(s.interim + time.Second)

	s.setColor("uuid-1", models.ColorBlue)
	s.setColor("uuid-2", models.ColorBlue)
	s.setColor("uuid-4", models.ColorRed)

	output := s.toggleRoundEnd(s.testAlice)
	s.False(output.RoundResolved)
	output = s.toggleRoundEnd(s.testBob)
	s.True(output.RoundResolved)

	roundEnds := s.eventsOfType(models.EventRoundEnd)
	s.Require().Len(roundEnds, 1)
	s.Equal("end-bob", roundEnds[0].CorrelationID)
	data := roundEnds[0].Data.(models.RoundEndData)
	s.Equal(models.ColorBlue, data.MajorityColor)
	s.Require().Len(data.Round.Result.NewTickets, 1)
	s.Equal("uuid-4", data.Round.Result.NewTickets[0].ID)
	s.Equal(s.testTime.Add(s.interim+time.Second), data.PreviousRound.EndTime)

	// The round 1 deadline passing must not resolve again
	s.clock.Advance(s.roundLength)
	s.Len(s.eventsOfType(models.EventRoundEnd), 1)
	s.Len(s.getRoom().Room.Rounds, 2)
}

func (s *RoomServiceTestSuite) TestToggleReadyRoundEnd_TracksCurrentRound() {
	s.allowPersistence()
	s.startGame()
	s.clock.Advance(s.interim + s.roundLength + s.interim)

	s.Equal(2, s.getRoom().ReadyState.Round)
	output := s.toggleRoundEnd(s.testAlice)
	s.True(output.Ready)
	s.Equal(2, s.eventsOfType(models.EventUserToggleReadyRoundEnd)[0].Data.(models.ReadyToggledData).Round)
}

func (s *RoomServiceTestSuite) TestToggleReadyRoundEnd_RejectedDuringInterim() {
	s.allowPersistence()
	s.startGame()

	_, err := s.roomService.ToggleReadyRoundEnd(s.ctx, &ToggleReadyInput{
		RoomID:          s.testRoomID,
		Member:          s.testAlice,
		SessionMemberID: s.testAlice.ID,
	})
	s.ErrorIs(err, ErrRoundNotStarted)

	s.clock.Advance(s.interim)
	s.setColor("uuid-1", models.ColorRed)
	s.setColor("uuid-2", models.ColorRed)
	s.setColor("uuid-3", models.ColorBlue)
	s.clock.Advance(s.roundLength)
	s.Require().Len(s.eventsOfType(models.EventRoundEnd), 1)

	// uuid-3 still carries its round 1 Blue until round 2 starts
	for _, member := range []models.Member{s.testAlice, s.testBob} {
		_, err = s.roomService.ToggleReadyRoundEnd(s.ctx, &ToggleReadyInput{
			RoomID:          s.testRoomID,
			Member:          member,
			SessionMemberID: member.ID,
		})
		s.ErrorIs(err, ErrRoundNotStarted)
	}
	s.Empty(s.eventsOfType(models.EventUserToggleReadyRoundEnd))
	s.Len(s.eventsOfType(models.EventRoundEnd), 1)
	s.Empty(s.getRoom().ReadyState.ReadyUsers)

	// Once round 2 is active the survivor is counted with its new vote
	s.clock.Advance(s.interim)
	s.setColor("uuid-3", models.ColorRed)
	s.toggleRoundEnd(s.testAlice)
	output := s.toggleRoundEnd(s.testBob)
	s.Require().True(output.RoundResolved)

	data := s.eventsOfType(models.EventRoundEnd)[1].Data.(models.RoundEndData)
	s.Equal(2, data.PreviousRound.Number)
	s.Equal(models.ColorRed, data.MajorityColor)
	s.Require().Len(data.Round.Result.PreviousTickets, 1)
	s.Equal(models.ColorRed, data.Round.Result.PreviousTickets[0].Color)
}

func (s *RoomServiceTestSuite) TestRoundLifecycle_AllNoneKeepsNothing() {
	s.allowPersistence()
	s.startGame()
	s.clock.Advance(s.interim + s.roundLength)

	data := s.eventsOfType(models.EventRoundEnd)[0].Data.(models.RoundEndData)
	s.Equal(models.ColorRed, data.MajorityColor)
	s.Equal(models.ColorBlue, data.MinorityColor)
	s.Empty(data.Round.Result.NewTickets)
}

func (s *RoomServiceTestSuite) TestSetVoteColor() {
	s.allowPersistence()

	_, err := s.roomService.SetVoteColor(s.ctx, &SetVoteColorInput{
		RoomID: s.testRoomID,
		Ticket: models.Ticket{ID: "uuid-1", Color: models.ColorRed},
	})
	s.ErrorIs(err, ErrRoomNotFound)

	s.startGame()

	_, err = s.roomService.SetVoteColor(s.ctx, &SetVoteColorInput{
		RoomID: s.testRoomID,
		Ticket: models.Ticket{ID: "missing", Color: models.ColorRed},
	})
	s.ErrorIs(err, ErrTicketNotFound)

	_, err = s.roomService.SetVoteColor(s.ctx, &SetVoteColorInput{
		RoomID: s.testRoomID,
		Ticket: models.Ticket{ID: "uuid-1", Color: "Green"},
	})
	s.ErrorIs(err, ErrInvalidRequest)

	// Any member may recolor any ticket
	output, err := s.roomService.SetVoteColor(s.ctx, &SetVoteColorInput{
		RoomID: s.testRoomID,
		Ticket: models.Ticket{ID: "uuid-3", Color: models.ColorRed},
	})
	s.Require().NoError(err)
	s.Equal(models.Ticket{ID: "uuid-3", OwnerID: "bob", Color: models.ColorRed}, output.Ticket)
	s.Equal(models.ColorRed, s.getRoom().Room.Tickets[2].Color)
}

func (s *RoomServiceTestSuite) TestGetRoom_ReturnsCopy() {
	s.allowPersistence()
	s.startGame()

	first := s.getRoom()
	first.Room.Tickets[0].Color = models.ColorRed
	first.Room.Members[0].DisplayName = "changed"

	second := s.getRoom()
	s.Equal(models.ColorNone, second.Room.Tickets[0].Color)
	s.Equal("Alice", second.Room.Members[0].DisplayName)
}

func (s *RoomServiceTestSuite) TestDevDeleteRooms() {
	s.allowPersistence()
	s.startGame()

	// A second running room with a single member
	_, err := s.roomService.CreateOrJoinRoom(s.ctx, &CreateOrJoinRoomInput{RoomID: "room-2", Member: s.testCarol})
	s.Require().NoError(err)
	toggled, err := s.roomService.ToggleReadyGameStart(s.ctx, &ToggleReadyInput{
		RoomID:          "room-2",
		Member:          s.testCarol,
		SessionMemberID: s.testCarol.ID,
	})
	s.Require().NoError(err)
	s.Require().True(toggled.GameStarted)

	output, err := s.roomService.DevDeleteRooms(s.ctx, &DevDeleteRoomsInput{})
	s.Require().NoError(err)
	s.Equal(2, output.RoomsDeleted)
	s.Equal(2, output.ClocksStopped)

	_, err = s.roomService.GetRoom(s.ctx, &GetRoomInput{RoomID: s.testRoomID})
	s.ErrorIs(err, ErrRoomNotFound)

	// Stopped clocks never fire
	before := len(s.published)
	s.clock.Advance(time.Hour)
	s.Len(s.published, before)
	s.Zero(s.clock.Pending())
}

func (s *RoomServiceTestSuite) TestDevDeleteRooms_Disabled() {
	cfg := s.newConfig(s.mockRoomRepo)
	cfg.AllowDevActions = false
	svc := s.newService(cfg)

	_, err := svc.DevDeleteRooms(s.ctx, &DevDeleteRoomsInput{})
	s.ErrorIs(err, ErrDevActionsDisabled)
}

func (s *RoomServiceTestSuite) TestResolveRound_MissingRoomReportsError() {
	s.roomService.mu.Lock()
	s.roomService.resolveRound("gone", []string{"alice"}, "corr")
	s.roomService.mu.Unlock()

	s.Require().Len(s.published, 1)
	p := s.published[0]
	s.Equal([]string{"alice"}, p.memberIDs)
	s.Equal(models.EventError, p.event.Type)
	s.Equal("corr", p.event.CorrelationID)
	s.Equal(models.ErrorData{RoomID: "gone", Reason: "Room does not exist"}, p.event.Data)
}

func (s *RoomServiceTestSuite) TestStaleClockCallbacksAreIgnored() {
	s.allowPersistence()
	s.startGame()
	before := len(s.published)

	s.roomService.onRoundStart(s.testRoomID, 1, nil)
	s.roomService.onRoundEnd(s.testRoomID, 1, []string{"alice"}, nil)

	s.Len(s.published, before)
	s.Len(s.getRoom().Room.Rounds, 1)
}

func (s *RoomServiceTestSuite) TestRecover_RearmsClocks() {
	startTime := s.testTime.Add(-time.Minute)
	started := &models.Room{
		ID:        "started",
		Members:   []models.Member{s.testAlice, s.testBob},
		Tickets:   []models.Ticket{{ID: "t1", OwnerID: "alice", Color: models.ColorRed}, {ID: "t2", OwnerID: "bob", Color: models.ColorBlue}, {ID: "t3", OwnerID: "bob", Color: models.ColorBlue}},
		StartTime: &startTime,
		Rounds: []*models.Round{{
			Number:    1,
			StartTime: startTime,
			EndTime:   s.testTime.Add(-time.Second),
			Result: models.RoundResult{
				PreviousTickets: []models.Ticket{},
				NewTickets:      []models.Ticket{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}},
			},
		}},
	}
	waiting := &models.Room{
		ID:      "waiting",
		Members: []models.Member{s.testCarol},
		Tickets: []models.Ticket{},
		Rounds:  []*models.Round{},
	}

	s.mockRoomRepo.EXPECT().
		GetActiveRoomsWithDetails(gomock.Any(), gomock.Any()).
		Return(&roomRepo.GetActiveRoomsWithDetailsOutput{
			Rooms: []*models.Room{started, waiting, {ID: "legacy:id", Members: []models.Member{s.testCarol}}},
			ReadyStates: map[string]*models.ReadyState{
				"started": {RoomID: "started", Round: 1, ReadyUsers: []string{"alice"}},
				"waiting": {RoomID: "waiting", Round: 0, ReadyUsers: []string{"carol"}},
			},
			Skipped: []string{"broken"},
		}, nil)
	s.mockRoomRepo.EXPECT().SaveRound(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	s.Require().NoError(s.roomService.Recover(s.ctx))

	waitingOutput, err := s.roomService.GetRoom(s.ctx, &GetRoomInput{RoomID: "waiting"})
	s.Require().NoError(err)
	s.Equal([]string{"carol"}, waitingOutput.ReadyState.ReadyUsers)

	_, err = s.roomService.GetRoom(s.ctx, &GetRoomInput{RoomID: "broken"})
	s.ErrorIs(err, ErrRoomNotFound)
	_, err = s.roomService.GetRoom(s.ctx, &GetRoomInput{RoomID: "legacy:id"})
	s.ErrorIs(err, ErrRoomNotFound)

	// The persisted deadline already passed, so the round resolves on the
	// next tick without a RoundStart
	s.clock.Advance(0)

	s.Empty(s.eventsOfType(models.EventRoundStart))
	roundEnds := s.eventsOfType(models.EventRoundEnd)
	s.Require().Len(roundEnds, 1)
	data := roundEnds[0].Data.(models.RoundEndData)
	s.Equal("started", data.RoomID)
	s.Equal(models.ColorBlue, data.MajorityColor)
	s.Require().Len(data.Round.Result.NewTickets, 1)
	s.Equal("t1", data.Round.Result.NewTickets[0].ID)

	startedOutput, err := s.roomService.GetRoom(s.ctx, &GetRoomInput{RoomID: "started"})
	s.Require().NoError(err)
	s.Equal(2, startedOutput.ReadyState.Round)
}

func (s *RoomServiceTestSuite) TestRecover_MidRound() {
	startTime := s.testTime.Add(-10 * time.Second)
	running := &models.Room{
		ID:        "running",
		Members:   []models.Member{s.testAlice, s.testBob},
		Tickets:   []models.Ticket{{ID: "t1", OwnerID: "alice", Color: models.ColorRed}, {ID: "t2", OwnerID: "bob", Color: models.ColorBlue}},
		StartTime: &startTime,
		Rounds: []*models.Round{{
			Number:    1,
			StartTime: startTime,
			EndTime:   s.testTime.Add(20 * time.Second),
			Result: models.RoundResult{
				PreviousTickets: []models.Ticket{},
				NewTickets:      []models.Ticket{{ID: "t1"}, {ID: "t2"}},
			},
		}},
	}

	s.mockRoomRepo.EXPECT().
		GetActiveRoomsWithDetails(gomock.Any(), gomock.Any()).
		Return(&roomRepo.GetActiveRoomsWithDetailsOutput{
			Rooms:       []*models.Room{running},
			ReadyStates: map[string]*models.ReadyState{},
		}, nil)
	// Only the resolution writes; resuming must not persist reset tickets
	s.mockRoomRepo.EXPECT().SaveRound(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	s.Require().NoError(s.roomService.Recover(s.ctx))
	s.clock.Advance(0)

	s.Empty(s.eventsOfType(models.EventRoundStart))
	output, err := s.roomService.GetRoom(s.ctx, &GetRoomInput{RoomID: "running"})
	s.Require().NoError(err)
	s.Equal(models.ColorRed, output.Room.Tickets[0].Color)
	s.Equal(models.ColorBlue, output.Room.Tickets[1].Color)

	s.clock.Advance(19 * time.Second)
	s.Empty(s.eventsOfType(models.EventRoundEnd))

	s.clock.Advance(time.Second)
	s.Empty(s.eventsOfType(models.EventRoundStart))
	roundEnds := s.eventsOfType(models.EventRoundEnd)
	s.Require().Len(roundEnds, 1)
	data := roundEnds[0].Data.(models.RoundEndData)
	s.Equal(models.ColorRed, data.MajorityColor)
	s.Require().Len(data.Round.Result.NewTickets, 1)
	s.Equal("t2", data.Round.Result.NewTickets[0].ID)
}

func (s *RoomServiceTestSuite) TestRecover_StoreError() {
	s.mockRoomRepo.EXPECT().
		GetActiveRoomsWithDetails(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	err := s.roomService.Recover(s.ctx)
	s.Error(err)
	s.Contains(err.Error(), "connection refused")
}

func (s *RoomServiceTestSuite) TestPersistence_WritesFollowStateChanges() {
	var created *models.Room
	var readyStates []*roomRepo.SaveReadyStateInput
	s.mockRoomRepo.EXPECT().CreateRoom(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, input *roomRepo.CreateRoomInput) {
			created = input.Room
		}).Return(nil)
	s.mockRoomRepo.EXPECT().UpdateRoom(gomock.Any(), gomock.Any()).Return(nil)
	s.mockRoomRepo.EXPECT().SaveReadyState(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, input *roomRepo.SaveReadyStateInput) {
			readyStates = append(readyStates, input)
		}).Return(nil)

	s.join(s.testAlice)
	s.join(s.testBob)
	s.toggleGameStart(s.testAlice)

	// Drain the writer before inspecting what reached the store
	s.roomService.Close()

	s.Require().NotNil(created)
	s.Equal(s.testRoomID, created.ID)
	s.Require().Len(readyStates, 1)
	s.Equal(&roomRepo.SaveReadyStateInput{
		RoomID:   s.testRoomID,
		Round:    0,
		MemberID: "alice",
		Ready:    true,
	}, readyStates[0])
}

func (s *RoomServiceTestSuite) TestPersistence_FailuresDoNotAffectCallers() {
	s.mockRoomRepo.EXPECT().CreateRoom(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	output := s.join(s.testAlice)

	s.True(output.Created)
	s.roomService.Close()
	s.Equal(s.testRoomID, s.getRoom().Room.ID)
}
