package resolution

import (
	"fmt"
	"testing"

	"github.com/KirkDiggler/minority/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tickets(colors ...models.Color) []models.Ticket {
	out := make([]models.Ticket, len(colors))
	for i, c := range colors {
		out[i] = models.Ticket{ID: fmt.Sprintf("t%d", i+1), OwnerID: "owner", Color: c}
	}
	return out
}

func TestResolve_RedMajorityBlueSurvives(t *testing.T) {
	result := Resolve(tickets(models.ColorRed, models.ColorRed, models.ColorBlue, models.ColorNone))

	assert.Equal(t, models.ColorRed, result.MajorityColor)
	assert.Equal(t, models.ColorBlue, result.MinorityColor)
	require.Len(t, result.NewTickets, 1)
	assert.Equal(t, "t3", result.NewTickets[0].ID)
	assert.Len(t, result.Split.Red, 2)
	assert.Len(t, result.Split.Blue, 1)
}

func TestResolve_BlueMajorityRedSurvives(t *testing.T) {
	result := Resolve(tickets(models.ColorBlue, models.ColorRed, models.ColorBlue, models.ColorBlue))

	assert.Equal(t, models.ColorBlue, result.MajorityColor)
	assert.Equal(t, models.ColorRed, result.MinorityColor)
	require.Len(t, result.NewTickets, 1)
	assert.Equal(t, "t2", result.NewTickets[0].ID)
}

func TestResolve_OnlyAbstainers(t *testing.T) {
	result := Resolve(tickets(models.ColorNone, models.ColorNone, models.ColorNone))

	assert.Empty(t, result.Split.Red)
	assert.Empty(t, result.Split.Blue)
	assert.Empty(t, result.NewTickets)
}

func TestResolve_EmptyInput(t *testing.T) {
	result := Resolve(nil)

	assert.Empty(t, result.NewTickets)
	assert.NotEqual(t, result.MajorityColor, result.MinorityColor)
}

func TestResolve_TieRanksRedAsMajority(t *testing.T) {
	result := Resolve(tickets(models.ColorBlue, models.ColorRed, models.ColorRed, models.ColorBlue))

	assert.Equal(t, models.ColorRed, result.MajorityColor)
	assert.Equal(t, models.ColorBlue, result.MinorityColor)
	require.Len(t, result.NewTickets, 2)
	for _, ticket := range result.NewTickets {
		assert.Equal(t, models.ColorBlue, ticket.Color)
	}
}

func TestResolve_MinoritySurvivesForUnequalCounts(t *testing.T) {
	testCases := []struct {
		name  string
		red   int
		blue  int
		none  int
		color models.Color
	}{
		{name: "one red many blue", red: 1, blue: 5, none: 2, color: models.ColorRed},
		{name: "many red one blue", red: 7, blue: 1, none: 0, color: models.ColorBlue},
		{name: "no red some blue", red: 0, blue: 3, none: 1, color: models.ColorRed},
		{name: "some red no blue", red: 4, blue: 0, none: 4, color: models.ColorBlue},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var colors []models.Color
			for i := 0; i < tc.red; i++ {
				colors = append(colors, models.ColorRed)
			}
			for i := 0; i < tc.none; i++ {
				colors = append(colors, models.ColorNone)
			}
			for i := 0; i < tc.blue; i++ {
				colors = append(colors, models.ColorBlue)
			}

			result := Resolve(tickets(colors...))

			assert.Equal(t, tc.color, result.MinorityColor)
			expected := tc.red
			if tc.color == models.ColorBlue {
				expected = tc.blue
			}
			assert.Len(t, result.NewTickets, expected)
			for _, ticket := range result.NewTickets {
				assert.Equal(t, tc.color, ticket.Color)
			}
		})
	}
}

func TestResolve_DoesNotAliasInput(t *testing.T) {
	input := tickets(models.ColorRed, models.ColorRed, models.ColorBlue)

	result := Resolve(input)
	result.NewTickets[0].Color = models.ColorNone

	assert.Equal(t, models.ColorBlue, input[2].Color)
}
