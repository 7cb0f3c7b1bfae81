package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/minority/internal/models"
	"github.com/samber/lo"
)

// Hub tracks live connections by member id and fans events out to them.
// Publishing never blocks: a connection whose queue is full misses the event.
type Hub struct {
	log *slog.Logger

	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
}

// NewHub creates an empty hub
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:     log.With("component", "hub"),
		clients: make(map[string]map[*client]struct{}),
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.memberID] == nil {
		h.clients[c.memberID] = make(map[*client]struct{})
	}
	h.clients[c.memberID][c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.clients[c.memberID]
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.clients, c.memberID)
	}
}

// Connections returns the number of live connections
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return lo.SumBy(lo.Values(h.clients), func(conns map[*client]struct{}) int {
		return len(conns)
	})
}

// Publish delivers evt to every connection of the given members
func (h *Hub) Publish(memberIDs []string, evt *models.Event) {
	data, ok := h.encode(evt)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, memberID := range lo.Uniq(memberIDs) {
		for c := range h.clients[memberID] {
			h.deliver(c, evt, data)
		}
	}
}

// PublishExcept delivers evt to every connection not owned by memberID
func (h *Hub) PublishExcept(memberID string, evt *models.Event) {
	data, ok := h.encode(evt)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, conns := range h.clients {
		if id == memberID {
			continue
		}
		for c := range conns {
			h.deliver(c, evt, data)
		}
	}
}

func (h *Hub) encode(evt *models.Event) ([]byte, bool) {
	data, err := json.Marshal(evt)
	if err != nil {
		h.log.Error("failed to encode event", "type", evt.Type, "error", err)
		return nil, false
	}
	return data, true
}

func (h *Hub) deliver(c *client, evt *models.Event, data []byte) {
	if !c.enqueue(data) {
		h.log.Warn("dropped event for slow connection",
			"member_id", c.memberID,
			"type", evt.Type,
			"correlation_id", evt.CorrelationID)
	}
}
