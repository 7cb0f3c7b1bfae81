package models

import "time"

// RoundResult records how the working set of a round was formed
type RoundResult struct {
	// PreviousTickets is the working set the resolution ran over
	PreviousTickets []Ticket `json:"previousTickets"`

	// NewTickets is the surviving subset, the working set of this round
	NewTickets []Ticket `json:"newTickets"`
}

// Round is one timed cycle of a game
type Round struct {
	// Number starts at 1 and increments by one per room
	Number int `json:"number"`

	// StartTime is when the round becomes active
	StartTime time.Time `json:"startTime"`

	// EndTime is the round deadline, overwritten with the actual
	// resolution time when the round is resolved
	EndTime time.Time `json:"endTime"`

	// Result is the outcome that produced this round's working set
	Result RoundResult `json:"result"`
}

// Clone returns a deep copy of the round
func (r *Round) Clone() *Round {
	if r == nil {
		return nil
	}
	out := *r
	out.Result = RoundResult{
		PreviousTickets: CloneTickets(r.Result.PreviousTickets),
		NewTickets:      CloneTickets(r.Result.NewTickets),
	}
	return &out
}
