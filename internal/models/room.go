package models

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	// MaxRoomIDLength bounds client chosen room ids
	MaxRoomIDLength = 128

	// RoomIDSeparator delimits store keys and is not allowed in room ids
	RoomIDSeparator = ":"
)

// ValidRoomID reports whether id can be used as a room id
func ValidRoomID(id string) bool {
	return id != "" && len(id) <= MaxRoomIDLength && !strings.Contains(id, RoomIDSeparator)
}

// Room is a multiplayer session container.
// A nil StartTime marks the pre-start phase, any other value an active game.
type Room struct {
	// ID is the unique identifier for the room
	ID string `json:"id"`

	// Name is the display name of the room
	Name string `json:"name"`

	// Members are the seated participants, unique by ID
	Members []Member `json:"members"`

	// Tickets is the batch allocated when the game started
	Tickets []Ticket `json:"tickets"`

	// StartTime is when the game started
	StartTime *time.Time `json:"startTime"`

	// Rounds is the append-only round history ordered by number
	Rounds []*Round `json:"rounds"`
}

// IsStarted reports whether the room left the pre-start phase
func (r *Room) IsStarted() bool {
	return r.StartTime != nil
}

// HasMember reports whether memberID is seated in the room
func (r *Room) HasMember(memberID string) bool {
	return lo.ContainsBy(r.Members, func(m Member) bool {
		return m.ID == memberID
	})
}

// MemberIDs returns the ids of all seated members
func (r *Room) MemberIDs() []string {
	return lo.Map(r.Members, func(m Member, _ int) string {
		return m.ID
	})
}

// UpsertMember seats member, replacing the display name if already seated
func (r *Room) UpsertMember(member Member) {
	for i := range r.Members {
		if r.Members[i].ID == member.ID {
			r.Members[i].DisplayName = member.DisplayName
			return
		}
	}
	r.Members = append(r.Members, member)
}

// FindTicket returns the index of the ticket with the given id, or -1
func (r *Room) FindTicket(ticketID string) int {
	_, idx, ok := lo.FindIndexOf(r.Tickets, func(t Ticket) bool {
		return t.ID == ticketID
	})
	if !ok {
		return -1
	}
	return idx
}

// CurrentRound returns the most recent round, or nil before the game starts
func (r *Room) CurrentRound() *Round {
	if len(r.Rounds) == 0 {
		return nil
	}
	return r.Rounds[len(r.Rounds)-1]
}

// GateRound is the round whose ready state is live: 0 before the game
// starts, the current round number afterwards
func (r *Room) GateRound() int {
	if current := r.CurrentRound(); current != nil && r.IsStarted() {
		return current.Number
	}
	return 0
}

// WorkingSet returns the tickets taking part in the current round with their
// current colors. It is empty before the game starts.
func (r *Room) WorkingSet() []Ticket {
	current := r.CurrentRound()
	if current == nil {
		return []Ticket{}
	}
	ids := lo.SliceToMap(current.Result.NewTickets, func(t Ticket) (string, struct{}) {
		return t.ID, struct{}{}
	})
	return lo.Filter(r.Tickets, func(t Ticket, _ int) bool {
		_, ok := ids[t.ID]
		return ok
	})
}

// Clone returns a deep copy of the room
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	out := *r
	out.Members = append([]Member{}, r.Members...)
	out.Tickets = CloneTickets(r.Tickets)
	if r.StartTime != nil {
		start := *r.StartTime
		out.StartTime = &start
	}
	out.Rounds = lo.Map(r.Rounds, func(round *Round, _ int) *Round {
		return round.Clone()
	})
	return &out
}
