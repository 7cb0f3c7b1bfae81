package ws

import (
	"encoding/json"

	"github.com/KirkDiggler/minority/internal/models"
)

// RequestType names an action a client can send
type RequestType string

const (
	RequestCreateOrJoinRoom     RequestType = "CreateOrJoinRoom"
	RequestToggleReadyGameStart RequestType = "ToggleReadyGameStart"
	RequestToggleReadyRoundEnd  RequestType = "ToggleReadyRoundEnd"
	RequestSetVoteColor         RequestType = "SetVoteColor"
	RequestDevDeleteRooms       RequestType = "Dev_DeleteRooms"
	RequestGetRoom              RequestType = "GetRoom"
)

// ResponseType is the outcome of a request
type ResponseType string

const (
	ResponseApprove ResponseType = "Approve"
	ResponseReject  ResponseType = "Reject"
)

// Request is the envelope of every client message
type Request struct {
	Type          RequestType     `json:"type"`
	CorrelationID string          `json:"correlationId"`
	Data          json.RawMessage `json:"data"`
}

// Response answers exactly one request
type Response struct {
	Type          ResponseType `json:"type"`
	CorrelationID string       `json:"correlationId"`
	Data          any          `json:"data,omitempty"`
}

// RejectData is the payload of a Reject response
type RejectData struct {
	Reason string `json:"reason"`
}

// CreateOrJoinRoomPayload is the data of a CreateOrJoinRoom request
type CreateOrJoinRoomPayload struct {
	RoomID   string        `json:"roomId" validate:"required,max=128,excludes=:"`
	RoomName string        `json:"roomName"`
	Member   models.Member `json:"member"`
}

// ToggleReadyPayload is the data of both ready toggles
type ToggleReadyPayload struct {
	RoomID string        `json:"roomId" validate:"required"`
	Member models.Member `json:"member"`
}

// SetVoteColorPayload is the data of a SetVoteColor request
type SetVoteColorPayload struct {
	RoomID string        `json:"roomId" validate:"required"`
	Ticket models.Ticket `json:"ticket"`
}

// GetRoomPayload is the data of a GetRoom request
type GetRoomPayload struct {
	RoomID string `json:"roomId" validate:"required"`
}

// RoomData is the approve payload of room reads and joins
type RoomData struct {
	Room       *models.Room       `json:"room"`
	ReadyState *models.ReadyState `json:"readyState"`
}

// ReadyData is the approve payload of the ready toggles
type ReadyData struct {
	Ready bool `json:"ready"`
}

// TicketData is the approve payload of SetVoteColor
type TicketData struct {
	Ticket models.Ticket `json:"ticket"`
}

func approve(correlationID string, data any) *Response {
	return &Response{
		Type:          ResponseApprove,
		CorrelationID: correlationID,
		Data:          data,
	}
}

func reject(correlationID, reason string) *Response {
	return &Response{
		Type:          ResponseReject,
		CorrelationID: correlationID,
		Data:          RejectData{Reason: reason},
	}
}
