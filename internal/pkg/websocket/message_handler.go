package websocket

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Poster persists a message written on a live socket. Implementations are
// expected to broadcast the stored message themselves.
type Poster interface {
	PostFromSocket(ctx context.Context, clubID, userID, content string) error
}

// MessageHandler drains the hub's inbound queue into the discussion board.
type MessageHandler struct {
	hub    *Hub
	poster Poster
	logger zerolog.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(hub *Hub, poster Poster, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		hub:    hub,
		poster: poster,
		logger: logger,
	}
}

// Start processes inbound frames until ctx is done.
func (h *MessageHandler) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case frame := <-h.hub.Inbound():
				h.process(ctx, frame)
			}
		}
	}()
}

func (h *MessageHandler) process(ctx context.Context, frame *Frame) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.poster.PostFromSocket(ctx, frame.ClubID, frame.SenderID, frame.Content); err != nil {
		h.logger.Warn().
			Err(err).
			Str("clubID", frame.ClubID).
			Str("senderID", frame.SenderID).
			Msg("Failed to save WebSocket message")
		return
	}
	h.logger.Debug().Str("clubID", frame.ClubID).Msg("WebSocket message saved")
}
