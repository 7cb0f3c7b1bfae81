package models

// Member is a participant seated in a room
type Member struct {
	// ID is the stable identifier of the member
	ID string `json:"id" validate:"required"`

	// DisplayName is the name shown to other members
	DisplayName string `json:"displayName"`
}
