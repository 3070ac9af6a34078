package websocket

import (
	"encoding/json"
	"sync"

	"github.com/ranyal-tech/dispatch-frontend/pkg/logger"
)

// Hub maintains the connected console sessions and fans state-change
// messages out to them.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	logger     *logger.Logger
}

// Message represents a push message to console sessions
type Message struct {
	Type  string      `json:"type"`
	Topic string      `json:"topic,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// NewHub creates a new WebSocket hub
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     log,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("Console session connected",
				logger.String("client_id", client.ID),
			)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.logger.Info("Console session disconnected",
					logger.String("client_id", client.ID),
				)
			}
			h.mu.Unlock()
		}
	}
}

// Register registers a new session
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister unregisters a session
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast sends a message to every connected session regardless of topic
// subscriptions. Slow sessions miss the message rather than stall the hub.
func (h *Hub) Broadcast(message Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message", logger.Err(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Failed to send broadcast message to client",
				logger.String("client_id", client.ID),
			)
		}
	}
}

// BroadcastTopic sends a message to sessions interested in the topic.
func (h *Hub) BroadcastTopic(topic string, message Message) {
	message.Topic = topic
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal topic message", logger.Err(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if !client.WantsTopic(topic) {
			continue
		}
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Failed to send topic message to client",
				logger.String("topic", topic),
				logger.String("client_id", client.ID),
			)
		}
	}
}

// GetActiveConnections returns the number of active sessions
func (h *Hub) GetActiveConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
