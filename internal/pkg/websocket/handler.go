package websocket

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// ClubLookup tells whether a club exists.
type ClubLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Handler upgrades discussion board requests to websocket subscriptions.
type Handler struct {
	hub      *Hub
	clubs    ClubLookup
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, clubs ClubLookup, allowedOrigins []string, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		clubs:    clubs,
		upgrader: newUpgrader(allowedOrigins),
		logger:   logger,
	}
}

// HandleConnection godoc
// @Summary Subscribe to a club discussion board
// @Description Upgrades the connection to a websocket that streams new and deleted messages of the club. Text written by the client is posted to the board.
// @Tags discussions
// @Security BearerAuth
// @Param id path string true "Club ID"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Club not found"
// @Router /clubs/{id}/discussions/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	clubID := c.Param("id")

	userID := c.GetString("userID")
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
		return
	}

	exists, err := h.clubs.Exists(c.Request.Context(), clubID)
	if err != nil {
		h.logger.Error().Err(err).Str("clubID", clubID).Msg("Failed to look up club for websocket")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to open live feed"})
		return
	}
	if !exists {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "message": "Club not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("clubID", clubID).Str("userID", userID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
		clubID: clubID,
		logger: h.logger,
	}
	if !h.hub.attach(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("clubID", clubID).
		Str("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
