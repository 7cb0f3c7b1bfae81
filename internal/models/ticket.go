package models

// Color is the vote a ticket carries in a round
type Color string

const (
	// ColorNone indicates the ticket has not voted this round
	ColorNone Color = "None"

	// ColorRed indicates a red vote
	ColorRed Color = "Red"

	// ColorBlue indicates a blue vote
	ColorBlue Color = "Blue"
)

// IsValid reports whether c is one of the known colors
func (c Color) IsValid() bool {
	return c == ColorNone || c == ColorRed || c == ColorBlue
}

// Ticket is a colorable token owned by one member for the lifetime of a room
type Ticket struct {
	// ID is the unique identifier for the ticket
	ID string `json:"id" validate:"required"`

	// OwnerID is the member that owns this ticket
	OwnerID string `json:"ownerId"`

	// Color is the current vote of the ticket
	Color Color `json:"color" validate:"oneof=None Red Blue"`
}

// CloneTickets returns a copy of tickets that shares no memory with the input
func CloneTickets(tickets []Ticket) []Ticket {
	if tickets == nil {
		return nil
	}
	out := make([]Ticket, len(tickets))
	copy(out, tickets)
	return out
}
