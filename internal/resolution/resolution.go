// Package resolution computes round outcomes from a set of tickets.
package resolution

import (
	"github.com/KirkDiggler/minority/internal/models"
	"github.com/samber/lo"
)

// Split holds the voting tickets partitioned by color. Tickets colored
// None are not part of either bucket.
type Split struct {
	Red  []models.Ticket
	Blue []models.Ticket
}

// Result is the outcome of a round
type Result struct {
	Split         Split
	MajorityColor models.Color
	MinorityColor models.Color

	// NewTickets are the tickets of the minority color, the survivors
	NewTickets []models.Ticket
}

// Resolve ranks Red and Blue by ticket count and keeps the minority.
// On equal counts Red is ranked as the majority, so Blue survives a tie.
func Resolve(tickets []models.Ticket) *Result {
	split := Split{
		Red:  lo.Filter(tickets, byColor(models.ColorRed)),
		Blue: lo.Filter(tickets, byColor(models.ColorBlue)),
	}

	majority, minority := models.ColorRed, models.ColorBlue
	survivors := split.Blue
	if len(split.Blue) > len(split.Red) {
		majority, minority = models.ColorBlue, models.ColorRed
		survivors = split.Red
	}

	return &Result{
		Split:         split,
		MajorityColor: majority,
		MinorityColor: minority,
		NewTickets:    models.CloneTickets(survivors),
	}
}

func byColor(color models.Color) func(models.Ticket, int) bool {
	return func(t models.Ticket, _ int) bool {
		return t.Color == color
	}
}
