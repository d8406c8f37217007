package push

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/avragame/aura-engine/internal/event"
)

// Message types
const (
	MessageTypeEffect       = "effect"
	MessageTypeNotification = "notification"
	MessageTypeLootboxSpawn = "lootbox_spawn"
	MessageTypeLevelUp      = "level_up"
	MessageTypeSubscribe    = "subscribe"
	MessageTypeUnsubscribe  = "unsubscribe"
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
	MessageTypeError        = "error"
)

// Message is a push frame sent to connected clients.
type Message struct {
	Type      string      `json:"type"`
	PlayerID  string      `json:"player_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub maintains the set of connected presentation clients and fans
// game events out to them. Player-scoped frames go only to clients
// subscribed to that player; world frames go to everyone.
type Hub struct {
	clients    map[string]map[*Client]bool
	allClients map[*Client]bool

	register    chan *Client
	unregister  chan *Client
	broadcast   chan *Message
	subscribe   chan *subscriptionRequest
	unsubscribe chan *subscriptionRequest

	mu     sync.RWMutex
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

type subscriptionRequest struct {
	client   *Client
	playerID string
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[string]map[*Client]bool),
		allClients:  make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *Message, 256),
		subscribe:   make(chan *subscriptionRequest, 64),
		unsubscribe: make(chan *subscriptionRequest, 64),
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// RegisterEvents subscribes the hub's fan-out handler to the
// presentation-relevant event types.
func (h *Hub) RegisterEvents(bus event.Bus) {
	for _, t := range []event.Type{
		event.EffectTriggered,
		event.NotificationAdded,
		event.LootboxSpawn,
		event.LootboxDespawn,
		event.LevelUp,
	} {
		bus.Subscribe(t, h.handleEvent)
	}
}

// handleEvent converts a game event into a push frame.
func (h *Hub) handleEvent(_ context.Context, evt event.Event) error {
	msg := &Message{Timestamp: time.Now(), Data: evt.Payload}

	switch evt.Type {
	case event.EffectTriggered:
		msg.Type = MessageTypeEffect
		if p, ok := evt.Payload.(event.EffectPayloadV1); ok {
			msg.PlayerID = p.PlayerID
		}
	case event.NotificationAdded:
		msg.Type = MessageTypeNotification
		if p, ok := evt.Payload.(event.NotificationPayloadV1); ok {
			msg.PlayerID = p.PlayerID
		}
	case event.LootboxSpawn, event.LootboxDespawn:
		// World-visible: everyone sees the box come and go.
		msg.Type = MessageTypeLootboxSpawn
		if evt.Type == event.LootboxDespawn {
			msg.Type = "lootbox_despawn"
		}
	case event.LevelUp:
		msg.Type = MessageTypeLevelUp
		if p, ok := evt.Payload.(event.LevelUpPayloadV1); ok {
			msg.PlayerID = p.PlayerID
		}
	default:
		return nil
	}

	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("broadcast channel full, dropping message", "type", msg.Type)
	}
	return nil
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	h.logger.Info("Push hub started")
	for {
		select {
		case <-h.ctx.Done():
			h.logger.Info("Push hub stopping")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.allClients[client] = true
			h.mu.Unlock()
			h.logger.Debug("client registered", "client_id", client.id)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.allClients[client]; ok {
				delete(h.allClients, client)
				for playerID, clients := range h.clients {
					if _, ok := clients[client]; ok {
						delete(clients, client)
						if len(clients) == 0 {
							delete(h.clients, playerID)
						}
					}
				}
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Debug("client unregistered", "client_id", client.id)

		case req := <-h.subscribe:
			h.mu.Lock()
			if _, ok := h.clients[req.playerID]; !ok {
				h.clients[req.playerID] = make(map[*Client]bool)
			}
			h.clients[req.playerID][req.client] = true
			h.mu.Unlock()
			h.logger.Debug("client subscribed", "client_id", req.client.id, "player_id", req.playerID)

		case req := <-h.unsubscribe:
			h.mu.Lock()
			if clients, ok := h.clients[req.playerID]; ok {
				delete(clients, req.client)
				if len(clients) == 0 {
					delete(h.clients, req.playerID)
				}
			}
			h.mu.Unlock()
			h.logger.Debug("client unsubscribed", "client_id", req.client.id, "player_id", req.playerID)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// Stop stops the hub.
func (h *Hub) Stop() {
	h.cancel()
}

// broadcastMessage sends a frame to its audience: the player's
// subscribers, or everyone for world frames.
func (h *Hub) broadcastMessage(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal message", "error", err)
		return
	}

	if message.PlayerID != "" {
		if clients, ok := h.clients[message.PlayerID]; ok {
			for client := range clients {
				select {
				case client.send <- data:
				default:
					h.logger.Warn("client buffer full, skipping", "client_id", client.id)
				}
			}
		}
		return
	}

	for client := range h.allClients {
		select {
		case client.send <- data:
		default:
			h.logger.Warn("client buffer full, skipping", "client_id", client.id)
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Subscribe binds a client to one player's private frames.
func (h *Hub) Subscribe(client *Client, playerID string) {
	h.subscribe <- &subscriptionRequest{client: client, playerID: playerID}
}

// Unsubscribe removes a client's player binding.
func (h *Hub) Unsubscribe(client *Client, playerID string) {
	h.unsubscribe <- &subscriptionRequest{client: client, playerID: playerID}
}
