package hub

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/loadsmile/AIchatbot/internal/config"
	"github.com/loadsmile/AIchatbot/internal/domain"
	"github.com/loadsmile/AIchatbot/pkg/log"
)

var (
	ErrClientNotFound = errors.New("client not connected")
	ErrSlowConsumer   = errors.New("client send buffer full")
	ErrHubClosed      = errors.New("hub closed")
)

// Hub owns the websocket connections and their room membership at the
// transport level. The registry remains the source of truth for
// participant metadata; the hub only knows which socket to write to.
type Hub struct {
	clients   map[string]*Client            // connID -> client
	rooms     map[string]map[string]*Client // roomID -> connID -> client
	broadcast chan *roomMessage
	mu        sync.RWMutex
	closed    bool
	config    config.WebSocketConfig
}

type roomMessage struct {
	RoomID  string
	Message []byte
}

func NewHub(cfg config.WebSocketConfig) *Hub {
	return &Hub{
		clients:   make(map[string]*Client),
		rooms:     make(map[string]map[string]*Client),
		broadcast: make(chan *roomMessage, 256),
		config:    cfg,
	}
}

func (h *Hub) Run() {
	for msg := range h.broadcast {
		h.mu.RLock()
		members := h.rooms[msg.RoomID]
		for _, client := range members {
			select {
			case client.Send <- msg.Message:
			default:
				go h.Unregister(client)
			}
		}
		h.mu.RUnlock()
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	l := log.L()
	l.Debug().Str(log.FieldConnID, client.ID).Msg("client registered")
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ID]; ok {
		for roomID, members := range h.rooms {
			delete(members, client.ID)
			if len(members) == 0 {
				delete(h.rooms, roomID)
			}
		}
		delete(h.clients, client.ID)
		close(client.Send)
	}
	h.mu.Unlock()

	l := log.L()
	l.Debug().Str(log.FieldConnID, client.ID).Msg("client unregistered")
}

// JoinRoom adds the connection to a room's transport-level member set.
func (h *Hub) JoinRoom(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[string]*Client)
	}
	h.rooms[roomID][connID] = client
}

func (h *Hub) LeaveRoom(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[roomID]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// Send delivers an enveloped event to a single connection. Unknown
// connections are reported but never fatal to the caller.
func (h *Hub) Send(connID, event string, data any) error {
	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()

	if !ok {
		return ErrClientNotFound
	}
	return client.SendEvent(event, data)
}

// Broadcast delivers one enveloped event to every member of a room.
// The lock ordering keeps the pump channel safe against a racing
// Close: the send happens under the read lock Close excludes.
func (h *Hub) Broadcast(roomID, event string, data any) error {
	payload, err := json.Marshal(domain.Envelope{Event: event, Data: data})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return ErrHubClosed
	}
	h.broadcast <- &roomMessage{RoomID: roomID, Message: payload}
	return nil
}

// Close stops the broadcast pump. Idempotent.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	close(h.broadcast)
}
