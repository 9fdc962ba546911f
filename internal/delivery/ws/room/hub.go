package ws_room

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/humanbelnik/kinoswap/rooms/internal/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EventLobbyUpdate    = "LOBBY_UPDATE"
	EventRoomClosed     = "ROOM_CLOSED"
	EventMatchesUpdated = "MATCHES_UPDATED"

	sendBuffer = 64
	writeWait  = 10 * time.Second
	notifyWait = 5 * time.Second
	readLimit  = 4096
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type LobbyPayload struct {
	RoomID         string `json:"room_id"`
	MembersCount   int    `json:"members_count"`
	ConnectedCount int    `json:"connected_count"`
	IsClosed       bool   `json:"is_closed"`
}

type RoomClosedPayload struct {
	RoomID string `json:"room_id"`
}

type MatchesPayload struct {
	RoomID  string `json:"room_id"`
	TmdbIDs []int  `json:"tmdb_ids"`
}

// RoomReader is the read side of the room service the hub needs.
type RoomReader interface {
	Get(ctx context.Context, roomID model.RoomID) (model.Room, error)
	ListMatches(ctx context.Context, roomID model.RoomID) ([]int, error)
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan Event
	userID string
	roomID model.RoomID
}

type roomEvent struct {
	roomID model.RoomID
	event  Event
}

// Hub fans room events out to websocket clients.
// The client maps are owned by the Run goroutine.
type Hub struct {
	rooms      RoomReader
	logger     zerolog.Logger
	clients    map[*Client]struct{}
	byRoom     map[model.RoomID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomEvent
	done       chan struct{}

	mu        sync.RWMutex
	connected map[model.RoomID]int
}

type HubOption func(*Hub)

func WithLogger(logger zerolog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

func NewHub(rooms RoomReader, opts ...HubOption) *Hub {
	h := &Hub{
		rooms:      rooms,
		logger:     log.With().Str("module", "delivery.ws.room").Logger(),
		clients:    make(map[*Client]struct{}),
		byRoom:     make(map[model.RoomID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomEvent),
		done:       make(chan struct{}),
		connected:  make(map[model.RoomID]int),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run serves hub traffic until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)

		case client := <-h.unregister:
			h.handleUnregister(client)

		case re := <-h.broadcast:
			h.broadcastToRoom(re.roomID, re.event)

		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			h.logger.Info().Msg("hub stopped")
			return
		}
	}
}

func (h *Hub) handleRegister(client *Client) {
	h.clients[client] = struct{}{}
	if _, exists := h.byRoom[client.roomID]; !exists {
		h.byRoom[client.roomID] = make(map[*Client]struct{})
	}
	h.byRoom[client.roomID][client] = struct{}{}
	h.setConnected(client.roomID, len(h.byRoom[client.roomID]))

	h.logger.Info().
		Str("user", client.userID).
		Str("room", string(client.roomID)).
		Msg("client registered")

	go h.NotifyLobby(client.roomID)
}

func (h *Hub) handleUnregister(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	h.drop(client)

	h.logger.Info().
		Str("user", client.userID).
		Str("room", string(client.roomID)).
		Msg("client unregistered")

	go h.NotifyLobby(client.roomID)
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)

	if roomClients, exists := h.byRoom[client.roomID]; exists {
		delete(roomClients, client)
		if len(roomClients) == 0 {
			delete(h.byRoom, client.roomID)
		}
		h.setConnected(client.roomID, len(roomClients))
	}
}

func (h *Hub) broadcastToRoom(roomID model.RoomID, event Event) {
	for client := range h.byRoom[roomID] {
		select {
		case client.send <- event:
		default:
			h.logger.Warn().Str("user", client.userID).Str("room", string(roomID)).Msg("slow client dropped")
			h.drop(client)
		}
	}
}

func (h *Hub) setConnected(roomID model.RoomID, n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n == 0 {
		delete(h.connected, roomID)
		return
	}
	h.connected[roomID] = n
}

func (h *Hub) Connected(roomID model.RoomID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.connected[roomID]
}

func (h *Hub) publish(roomID model.RoomID, event Event) {
	select {
	case h.broadcast <- roomEvent{roomID: roomID, event: event}:
	case <-h.done:
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) NotifyLobby(roomID model.RoomID) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyWait)
	defer cancel()

	room, err := h.rooms.Get(ctx, roomID)
	if err != nil {
		h.logger.Debug().Err(err).Str("room", string(roomID)).Msg("skip lobby update")
		return
	}

	h.publish(roomID, Event{
		Type: EventLobbyUpdate,
		Payload: LobbyPayload{
			RoomID:         string(roomID),
			MembersCount:   len(room.Members),
			ConnectedCount: h.Connected(roomID),
			IsClosed:       room.IsClosed,
		},
	})
}

func (h *Hub) NotifyClosed(roomID model.RoomID) {
	h.publish(roomID, Event{
		Type:    EventRoomClosed,
		Payload: RoomClosedPayload{RoomID: string(roomID)},
	})
}

func (h *Hub) NotifyMatches(roomID model.RoomID) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyWait)
	defer cancel()

	ids, err := h.rooms.ListMatches(ctx, roomID)
	if err != nil {
		h.logger.Debug().Err(err).Str("room", string(roomID)).Msg("skip matches update")
		return
	}

	h.publish(roomID, Event{
		Type:    EventMatchesUpdated,
		Payload: MatchesPayload{RoomID: string(roomID), TmdbIDs: ids},
	})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
