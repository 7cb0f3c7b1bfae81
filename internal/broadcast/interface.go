// Package broadcast defines the realtime channel room events are pushed to.
package broadcast

//go:generate mockgen -package=mocks -destination=mocks/mock_broadcaster.go github.com/KirkDiggler/minority/internal/broadcast Broadcaster

import "github.com/KirkDiggler/minority/internal/models"

// Broadcaster pushes events to connected members. Implementations must not
// block: callers publish while holding the room lock.
type Broadcaster interface {
	// Publish delivers evt to every connection of the given members
	Publish(memberIDs []string, evt *models.Event)

	// PublishExcept delivers evt to every connected member except memberID
	PublishExcept(memberID string, evt *models.Event)
}
