package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	// pings go out before the peer's pong deadline passes
	pingInterval = pongTimeout * 9 / 10

	// the feed is server to client only; inbound frames are control traffic
	maxInboundBytes = 4 * 1024

	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origins are already restricted by the CORS configuration of the API
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one subscriber of the fee feed.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// encoded messages waiting to be written, closed by the hub on removal
	send chan []byte

	// student_id this client follows, "" for all
	studentID string

	logger zerolog.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, studentID string, logger zerolog.Logger) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		studentID: studentID,
		logger:    logger.With().Str("studentID", studentID).Logger(),
	}
}

func (c *Client) remoteAddr() string {
	if c.conn == nil {
		return ""
	}
	return c.conn.RemoteAddr().String()
}

// listen reads until the peer goes away so pong and close frames are processed,
// then unregisters the client.
func (c *Client) listen() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInboundBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err == nil {
			continue
		}
		switch {
		case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
			c.logger.Debug().Msg("Fee feed subscriber disconnected")
		case websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure):
			c.logger.Warn().Err(err).Msg("Fee feed subscriber closed unexpectedly")
		default:
			c.logger.Debug().Err(err).Msg("Fee feed read stopped")
		}
		return
	}
}

// deliver writes every queued message as its own text frame and keeps the
// connection alive with pings. It returns when the hub closes send or a write fails.
func (c *Client) deliver() {
	pings := time.NewTicker(pingInterval)
	defer func() {
		pings.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, open := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !open {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.logger.Debug().Err(err).Msg("Fee feed write failed")
				return
			}
		case <-pings.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
