package models

// EventType identifies a broadcast event
type EventType string

const (
	EventRoomCreated              EventType = "RoomCreated"
	EventUserJoinedRoom           EventType = "UserJoinedRoom"
	EventUserToggleReadyGameStart EventType = "UserToggleReadyGameStart"
	EventUserToggleReadyRoundEnd  EventType = "UserToggleReadyRoundEnd"
	EventGameStart                EventType = "GameStart"
	EventRoundStart               EventType = "RoundStart"
	EventRoundEnd                 EventType = "RoundEnd"
	EventError                    EventType = "Error"
)

// Event is a state delta pushed to connected members
type Event struct {
	Type          EventType `json:"type"`
	CorrelationID string    `json:"correlationId"`
	Data          any       `json:"data"`
}

// RoomCreatedData is the payload of EventRoomCreated
type RoomCreatedData struct {
	Room *Room `json:"room"`
}

// UserJoinedRoomData is the payload of EventUserJoinedRoom
type UserJoinedRoomData struct {
	RoomID string `json:"roomId"`
	Member Member `json:"member"`
}

// ReadyToggledData is the payload of both ready-toggle events
type ReadyToggledData struct {
	RoomID   string `json:"roomId"`
	MemberID string `json:"memberId"`
	Round    int    `json:"round"`
	Ready    bool   `json:"ready"`
}

// GameStartData is the payload of EventGameStart
type GameStartData struct {
	Room *Room `json:"room"`
}

// RoundStartData is the payload of EventRoundStart
type RoundStartData struct {
	RoomID string `json:"roomId"`
	Round  *Round `json:"round"`
}

// RoundEndData is the payload of EventRoundEnd
type RoundEndData struct {
	RoomID        string `json:"roomId"`
	PreviousRound *Round `json:"previousRound"`
	Round         *Round `json:"round"`
	MajorityColor Color  `json:"majorityColor"`
	MinorityColor Color  `json:"minorityColor"`
}

// ErrorData is the payload of EventError
type ErrorData struct {
	RoomID string `json:"roomId"`
	Reason string `json:"reason"`
}
