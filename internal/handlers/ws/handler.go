package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/KirkDiggler/minority/internal/services/room"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
)

const defaultRequestTimeout = 5 * time.Second

// Config holds configuration for the websocket handler
type Config struct {
	RoomService    room.Service
	Hub            *Hub
	Authenticator  *Authenticator
	Log            *slog.Logger
	RequestTimeout time.Duration
}

// Handler upgrades authenticated connections and dispatches their requests
// to the room service
type Handler struct {
	roomService    room.Service
	hub            *Hub
	authenticator  *Authenticator
	validate       *validator.Validate
	log            *slog.Logger
	requestTimeout time.Duration
	upgrader       websocket.Upgrader
}

// New creates a new websocket handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RoomService == nil {
		return nil, errors.New("room service cannot be nil")
	}

	if cfg.Hub == nil {
		return nil, errors.New("hub cannot be nil")
	}

	if cfg.Authenticator == nil {
		return nil, errors.New("authenticator cannot be nil")
	}

	if cfg.Log == nil {
		return nil, errors.New("logger cannot be nil")
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &Handler{
		roomService:    cfg.RoomService,
		hub:            cfg.Hub,
		authenticator:  cfg.Authenticator,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		log:            cfg.Log.With("component", "ws"),
		requestTimeout: timeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}, nil
}

// ServeHTTP authenticates the client, upgrades the connection and serves it
// until it closes
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID, err := h.authenticator.Authenticate(r)
	if err != nil {
		h.log.Debug("rejected connection", "remote_addr", r.RemoteAddr, "error", err)
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "member_id", sessionID, "error", err)
		return
	}

	c := newClient(sessionID, conn)
	h.hub.register(c)
	defer h.hub.unregister(c)

	h.log.Info("client connected", "member_id", sessionID, "remote_addr", r.RemoteAddr)

	go c.writePump()
	c.readPump(func(data []byte) {
		response := h.Dispatch(r.Context(), sessionID, data)
		encoded, err := json.Marshal(response)
		if err != nil {
			h.log.Error("failed to encode response", "correlation_id", response.CorrelationID, "error", err)
			return
		}
		if !c.enqueue(encoded) {
			h.log.Warn("dropped response for slow connection",
				"member_id", sessionID,
				"correlation_id", response.CorrelationID)
		}
	})

	h.log.Info("client disconnected", "member_id", sessionID)
}

// Dispatch decodes one request, runs it against the room service and returns
// the response for the caller. It never panics.
func (h *Handler) Dispatch(ctx context.Context, sessionID string, raw []byte) (response *Response) {
	var request Request
	if err := json.Unmarshal(raw, &request); err != nil {
		return reject("", room.ErrInvalidRequest.Error())
	}

	defer func() {
		if p := recover(); p != nil {
			h.log.Error("request panicked",
				"type", request.Type,
				"member_id", sessionID,
				"correlation_id", request.CorrelationID,
				"panic", fmt.Sprint(p))
			response = reject(request.CorrelationID, room.ErrInternal.Error())
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, h.requestTimeout)
	defer cancel()

	data, err := h.route(ctx, sessionID, &request)
	if err != nil {
		return reject(request.CorrelationID, h.reason(&request, sessionID, err))
	}

	return approve(request.CorrelationID, data)
}

func (h *Handler) route(ctx context.Context, sessionID string, request *Request) (any, error) {
	switch request.Type {
	case RequestCreateOrJoinRoom:
		var payload CreateOrJoinRoomPayload
		if err := h.decode(request.Data, &payload); err != nil {
			return nil, err
		}
		output, err := h.roomService.CreateOrJoinRoom(ctx, &room.CreateOrJoinRoomInput{
			CorrelationID: request.CorrelationID,
			RoomID:        payload.RoomID,
			RoomName:      payload.RoomName,
			Member:        payload.Member,
		})
		if err != nil {
			return nil, err
		}
		return RoomData{Room: output.Room, ReadyState: output.ReadyState}, nil

	case RequestToggleReadyGameStart, RequestToggleReadyRoundEnd:
		var payload ToggleReadyPayload
		if err := h.decode(request.Data, &payload); err != nil {
			return nil, err
		}
		input := &room.ToggleReadyInput{
			CorrelationID:   request.CorrelationID,
			RoomID:          payload.RoomID,
			Member:          payload.Member,
			SessionMemberID: sessionID,
		}
		toggle := h.roomService.ToggleReadyGameStart
		if request.Type == RequestToggleReadyRoundEnd {
			toggle = h.roomService.ToggleReadyRoundEnd
		}
		output, err := toggle(ctx, input)
		if err != nil {
			return nil, err
		}
		return ReadyData{Ready: output.Ready}, nil

	case RequestSetVoteColor:
		var payload SetVoteColorPayload
		if err := h.decode(request.Data, &payload); err != nil {
			return nil, err
		}
		output, err := h.roomService.SetVoteColor(ctx, &room.SetVoteColorInput{
			CorrelationID: request.CorrelationID,
			RoomID:        payload.RoomID,
			Ticket:        payload.Ticket,
		})
		if err != nil {
			return nil, err
		}
		return TicketData{Ticket: output.Ticket}, nil

	case RequestDevDeleteRooms:
		_, err := h.roomService.DevDeleteRooms(ctx, &room.DevDeleteRoomsInput{
			CorrelationID: request.CorrelationID,
		})
		return nil, err

	case RequestGetRoom:
		var payload GetRoomPayload
		if err := h.decode(request.Data, &payload); err != nil {
			return nil, err
		}
		output, err := h.roomService.GetRoom(ctx, &room.GetRoomInput{RoomID: payload.RoomID})
		if err != nil {
			return nil, err
		}
		return RoomData{Room: output.Room, ReadyState: output.ReadyState}, nil

	default:
		return nil, fmt.Errorf("%w: unknown request type %q", room.ErrInvalidRequest, request.Type)
	}
}

// decode unmarshals and validates a request payload
func (h *Handler) decode(data json.RawMessage, payload any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing data", room.ErrInvalidRequest)
	}
	if err := json.Unmarshal(data, payload); err != nil {
		return fmt.Errorf("%w: %w", room.ErrInvalidRequest, err)
	}
	if err := h.validate.Struct(payload); err != nil {
		return fmt.Errorf("%w: %w", room.ErrInvalidRequest, err)
	}
	return nil
}

// reason maps err to the text sent to the caller. Only room errors carry
// their own text.
func (h *Handler) reason(request *Request, sessionID string, err error) string {
	var roomErr room.RoomError
	if errors.As(err, &roomErr) {
		h.log.Debug("request rejected",
			"type", request.Type,
			"member_id", sessionID,
			"correlation_id", request.CorrelationID,
			"reason", roomErr.Error(),
			"error", err)
		return roomErr.Error()
	}

	h.log.Error("request failed",
		"type", request.Type,
		"member_id", sessionID,
		"correlation_id", request.CorrelationID,
		"error", err)
	return room.ErrInternal.Error()
}
