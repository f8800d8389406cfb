package websocket

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler upgrades /ws/fees requests and registers the subscriber with the hub.
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

// HandleConnection godoc
// @Summary Subscribe to fee transitions
// @Description Upgrades the connection to a WebSocket that receives every committed fee transition as JSON. Pass student_id to follow one student.
// @Tags fees, websocket
// @Param student_id query string false "Only events of this student"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Router /ws/fees [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	studentID := strings.TrimSpace(c.Query("student_id"))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.logger.Debug().Err(err).Str("studentID", studentID).Msg("Fee feed upgrade rejected")
		return
	}

	client := newClient(h.hub, conn, studentID, h.logger)
	if !h.hub.add(client) {
		// hub is shutting down
		conn.Close()
		return
	}

	go client.deliver()
	go client.listen()

	h.logger.Info().
		Str("studentID", studentID).
		Str("remoteAddr", client.remoteAddr()).
		Msg("Fee feed subscriber connected")
}
