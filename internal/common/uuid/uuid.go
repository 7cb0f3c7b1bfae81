package uuid

import "github.com/google/uuid"

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go github.com/KirkDiggler/minority/internal/common/uuid UUID

// UUID generates ticket ids and the correlation ids of clock-driven events
type UUID interface {
	NewUUID() string
}

// DefaultUUID generates random version 4 ids
type DefaultUUID struct{}

func New() *DefaultUUID {
	return &DefaultUUID{}
}

// NewUUID returns a new random UUID string
func (d *DefaultUUID) NewUUID() string {
	return uuid.NewString()
}
