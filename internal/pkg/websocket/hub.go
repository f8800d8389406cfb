package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/schooladmin/internal/app/models"
)

// MessageTypeFeeEvent is the type of messages carrying a fee transition.
const MessageTypeFeeEvent = "fee_event"

// allStudents is the subscription key of clients that receive every event.
const allStudents = ""

// Hub maintains the set of active clients and broadcasts fee events to them
type Hub struct {
	// Registered clients keyed by the student_id they follow, "" for all
	clients map[string]map[*Client]bool

	// Outbound messages
	broadcast chan *Message

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	logger zerolog.Logger
}

// Message represents a message sent over WebSocket
type Message struct {
	// Type of message, always "fee_event" for now
	Type string `json:"type"`

	// The committed transition
	Event *models.FeeEvent `json:"event"`

	// Timestamp when the message was sent
	Timestamp time.Time `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run handles client registrations and broadcasts until ctx is cancelled.
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

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// registerClient registers a new client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.studentID]; !ok {
		h.clients[client.studentID] = make(map[*Client]bool)
	}
	h.clients[client.studentID][client] = true

	h.logger.Info().
		Str("studentID", client.studentID).
		Str("addr", client.remoteAddr()).
		Msg("Client registered")
}

// unregisterClient unregisters a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.studentID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.studentID)
	}

	h.logger.Info().
		Str("studentID", client.studentID).
		Str("addr", client.remoteAddr()).
		Msg("Client unregistered")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// broadcastMessage sends a message to clients following every student and to
// clients following the event's student. Clients whose buffer is full are dropped.
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal message for broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	keys := []string{allStudents}
	if message.Event != nil && message.Event.StudentID != allStudents {
		keys = append(keys, message.Event.StudentID)
	}

	sent := 0
	for _, key := range keys {
		for client := range h.clients[key] {
			select {
			case client.send <- data:
				sent++
			default:
				h.logger.Warn().Str("addr", client.remoteAddr()).Msg("Dropping slow websocket client")
				h.removeLocked(client)
			}
		}
	}

	h.logger.Debug().Int("clientCount", sent).Msg("Fee event broadcasted")
}

func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// PublishFeeEvent queues a fee event for broadcast. It never blocks; when the
// queue is full the event is dropped.
func (h *Hub) PublishFeeEvent(event *models.FeeEvent) {
	msg := &Message{Type: MessageTypeFeeEvent, Event: event, Timestamp: time.Now()}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn().Str("studentID", event.StudentID).Msg("Broadcast queue full, dropping fee event")
	}
}

// GetClientsCount returns the number of clients following studentID, "" for
// clients following every student
func (h *Hub) GetClientsCount(studentID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[studentID])
}
