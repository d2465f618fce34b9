package websockets

import (
	"context"
	"time"

	"estimator/internal/events"
	. "estimator/internal/models"
	"estimator/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	MESSAGE_TYPE_PING          = "ping"
	MESSAGE_TYPE_PONG          = "pong"
	MESSAGE_TYPE_BROADCAST     = "broadcast"
	MESSAGE_TYPE_INVALIDATE    = "invalidate"
	MESSAGE_TYPE_AUTH_REQUEST  = "auth_request"
	MESSAGE_TYPE_AUTH_RESPONSE = "auth_response"
	MESSAGE_TYPE_AUTH_SUCCESS  = "auth_success"
	MESSAGE_TYPE_AUTH_FAILURE  = "auth_failure"
	PING_INTERVAL              = 30 * time.Second
	PONG_TIMEOUT               = 60 * time.Second
	WRITE_TIMEOUT              = 10 * time.Second
	MAX_MESSAGE_SIZE           = 64 * 1024
	SEND_CHANNEL_SIZE          = 64

	SYSTEM_CHANNEL = "system"
	CACHE_CHANNEL  = "cache"
)

type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Action    string         `json:"action,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type Client struct {
	ID         string
	UserID     uuid.UUID
	Connection *websocket.Conn
	Manager    *Manager
	Status     int
	send       chan Message
}

type Subscriber interface {
	Subscribe(channel events.Channel, handler events.EventHandler)
}

type userLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

type Manager struct {
	hub      *Hub
	log      logger.Logger
	auth     services.TokenValidator
	users    userLookup
	eventBus Subscriber
}

func New(eventBus Subscriber, auth services.TokenValidator, users userLookup) *Manager {
	manager := newManager(eventBus, auth, users)

	manager.log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)

	manager.subscribeToBroadcastEvents()
	manager.subscribeToCacheInvalidationEvents()

	return manager
}

func newManager(eventBus Subscriber, auth services.TokenValidator, users userLookup) *Manager {
	return &Manager{
		hub: &Hub{
			broadcast:  make(chan Message, SEND_CHANNEL_SIZE),
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
		},
		log:      logger.New("websockets"),
		auth:     auth,
		users:    users,
		eventBus: eventBus,
	}
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	client := &Client{
		ID:         uuid.New().String(),
		UserID:     uuid.Nil,
		Connection: c,
		Manager:    m,
		Status:     STATUS_UNAUTHENTICATED,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}

	if err := client.sendAuthRequest(); err != nil {
		if err := c.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
		return
	}

	m.hub.register <- client
	client.startAuthTimeout()

	go client.readPump()
	client.writePump()

	log.Info("Client disconnected", "clientID", client.ID)
}

func (m *Manager) BroadcastMessage(message Message) {
	log := m.log.Function("BroadcastMessage")

	select {
	case m.hub.broadcast <- message:
		log.Debug("Message queued for broadcast", "messageID", message.ID)
	default:
		log.Warn("Broadcast channel is full, dropping message", "messageID", message.ID)
	}
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() {
		c.Manager.hub.unregister <- c
		_ = c.Connection.Close()
	}()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		return c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				log.Er("Unexpected close error", err, "clientID", c.ID)
			}
			return
		}

		message.ID = uuid.New().String()
		message.Timestamp = time.Now()

		c.routeMessage(message)
	}
}

func (c *Client) routeMessage(message Message) {
	log := c.Manager.log.Function("routeMessage")

	if message.Type == MESSAGE_TYPE_AUTH_RESPONSE {
		c.handleAuthResponse(message)
		return
	}

	if !c.Manager.isAuthenticated(c) {
		c.handleUnauthenticatedMessage(message)
		return
	}

	switch message.Type {
	case MESSAGE_TYPE_PING:
		c.trySend(Message{
			ID:        uuid.New().String(),
			Type:      MESSAGE_TYPE_PONG,
			Channel:   SYSTEM_CHANNEL,
			Timestamp: time.Now(),
		})
	default:
		log.Warn("Unknown message type", "type", message.Type, "clientID", c.ID)
	}
}

func (c *Client) trySend(message Message) {
	select {
	case c.send <- message:
	default:
		c.Manager.log.Function("trySend").
			Warn("Client send channel full, dropping message", "clientID", c.ID)
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("WebSocket write error", err, "clientID", c.ID)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (m *Manager) subscribeToBroadcastEvents() {
	m.eventBus.Subscribe(events.BROADCAST_CHANNEL, func(event events.Event) error {
		m.BroadcastMessage(Message{
			ID:        event.ID,
			Type:      MESSAGE_TYPE_BROADCAST,
			Channel:   SYSTEM_CHANNEL,
			Action:    "broadcast",
			Data:      event.Data,
			Timestamp: time.Now(),
		})
		return nil
	})
}

func (m *Manager) subscribeToCacheInvalidationEvents() {
	m.eventBus.Subscribe(events.INVALIDATION_CHANNEL, m.handleInvalidation)
}

// handleInvalidation forwards the client-facing keys of an invalidation. A
// user-scoped invalidation only reaches that user's connections.
func (m *Manager) handleInvalidation(event events.Event) error {
	log := m.log.Function("handleInvalidation")

	if event.Invalidation == nil || len(event.Invalidation.Targets) == 0 {
		log.Warn("Invalidation event without targets", "eventID", event.ID)
		return nil
	}

	message := Message{
		ID:        event.ID,
		Type:      MESSAGE_TYPE_INVALIDATE,
		Channel:   CACHE_CHANNEL,
		Action:    "invalidateQueries",
		Data:      map[string]any{"targets": event.Invalidation.Targets},
		Timestamp: time.Now(),
	}

	if userID := event.Invalidation.UserID; userID != nil {
		message.UserID = userID.String()
		m.SendMessageToUser(*userID, message)
		return nil
	}

	m.BroadcastMessage(message)
	return nil
}
