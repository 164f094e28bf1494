package websocket

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Discussion messages are capped at 2000 characters; leave room for the JSON envelope.
	maxMessageSize = 16 * 1024
)

// inboundFrame is what a client may send.
type inboundFrame struct {
	Content string `json:"content"`
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// Buffered channel of outbound frames
	send chan []byte

	userID string
	clubID string

	logger zerolog.Logger
}

// readPump forwards client writes to the hub's inbound queue. Sender and club
// are taken from the connection, never from the payload.
func (c *Client) readPump() {
	defer func() {
		c.hub.detach(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info().Str("userID", c.userID).Str("clubID", c.clubID).Msg("WebSocket closed normally")
			} else if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Str("userID", c.userID).Str("clubID", c.clubID).Msg("Unexpected WebSocket close")
			} else {
				c.logger.Debug().Err(err).Str("userID", c.userID).Str("clubID", c.clubID).Msg("WebSocket read error")
			}
			break
		}

		content := decodeInbound(raw)
		if content == "" {
			continue
		}

		frame := &Frame{
			Type:      FrameMessage,
			ClubID:    c.clubID,
			SenderID:  c.userID,
			Content:   content,
			Timestamp: time.Now(),
		}
		select {
		case c.hub.inbound <- frame:
		default:
			c.logger.Warn().Str("userID", c.userID).Str("clubID", c.clubID).Msg("Inbound queue full, message dropped")
		}
	}
}

// decodeInbound extracts the message text of a client write: either a
// {"content": ...} object or the raw text itself. Line breaks are kept.
func decodeInbound(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	var in inboundFrame
	if err := json.Unmarshal(raw, &in); err == nil {
		return in.Content
	}
	return string(raw)
}

// writePump pumps frames from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// one JSON frame per websocket message
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowedOrigins) == 0 {
				return true
			}
			for _, o := range allowedOrigins {
				if o == "*" || o == origin {
					return true
				}
			}
			return false
		},
	}
}
