package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Frame types
const (
	FrameMessage = "message"
	FrameDeleted = "deleted"
)

// Frame is what travels over a club's discussion socket.
type Frame struct {
	// "message" or "deleted"
	Type       string    `json:"type"`
	ClubID     string    `json:"clubId"`
	ID         string    `json:"id,omitempty"`
	SenderID   string    `json:"senderId,omitempty"`
	SenderName string    `json:"senderName,omitempty"`
	Content    string    `json:"content,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Hub maintains the set of active clients per club and fans frames out to them.
type Hub struct {
	// Registered clients organized by club ID
	clients map[string]map[*Client]bool

	broadcast  chan *Frame
	register   chan *Client
	unregister chan *Client

	// Frames written by clients, waiting to be persisted
	inbound chan *Frame

	// closed when Run returns
	done chan struct{}

	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Frame, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan *Frame, 64),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case frame := <-h.broadcast:
			h.broadcastFrame(frame)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.clubID]; !ok {
		h.clients[client.clubID] = make(map[*Client]bool)
	}
	h.clients[client.clubID][client] = true

	h.logger.Info().
		Str("clubID", client.clubID).
		Str("userID", client.userID).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(client)
}

// dropLocked removes client; h.mu must be held for writing.
func (h *Hub) dropLocked(client *Client) {
	clients, ok := h.clients[client.clubID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.clubID)
	}

	h.logger.Info().
		Str("clubID", client.clubID).
		Str("userID", client.userID).
		Msg("Client unregistered")
}

// broadcastFrame sends frame to every client of its club. Clients whose
// buffer is full are dropped.
func (h *Hub) broadcastFrame(frame *Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error().Err(err).Str("clubID", frame.ClubID).Msg("Failed to marshal frame for broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[frame.ClubID]
	for client := range clients {
		select {
		case client.send <- data:
		default:
			h.logger.Warn().Str("clubID", frame.ClubID).Str("userID", client.userID).Msg("Dropping slow client")
			h.dropLocked(client)
		}
	}

	h.logger.Debug().
		Str("clubID", frame.ClubID).
		Str("type", frame.Type).
		Int("clientCount", len(clients)).
		Msg("Frame broadcasted to club")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.dropLocked(client)
		}
	}
}

// Broadcast queues frame for every subscriber of frame.ClubID. It never
// blocks the caller; a saturated hub drops the frame.
func (h *Hub) Broadcast(frame *Frame) {
	select {
	case h.broadcast <- frame:
	default:
		h.logger.Warn().Str("clubID", frame.ClubID).Msg("Broadcast queue full, frame dropped")
	}
}

// attach registers client unless the hub has stopped.
func (h *Hub) attach(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Inbound exposes frames written by clients.
func (h *Hub) Inbound() <-chan *Frame {
	return h.inbound
}

// ClientsCount returns the number of connected clients for a club.
func (h *Hub) ClientsCount(clubID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[clubID])
}
