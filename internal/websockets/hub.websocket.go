package websockets

import (
	"sync"

	"github.com/google/uuid"
)

const (
	STATUS_UNAUTHENTICATED = iota
	STATUS_AUTHENTICATED
)

// Hub owns the client set. Client status is only read or written under mutex.
type Hub struct {
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			m.unregisterClient(client)

		case message := <-h.broadcast:
			m.sendToAuthenticatedClients(message)
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	m.hub.clients[client.ID] = client
	m.log.Function("registerClient").Info("Client registered", "clientID", client.ID)
}

// unregisterClient is idempotent; the send channel is closed once.
func (m *Manager) unregisterClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	if _, ok := m.hub.clients[client.ID]; !ok {
		return
	}

	delete(m.hub.clients, client.ID)
	close(client.send)

	m.log.Function("unregisterClient").
		Info("Client unregistered", "clientID", client.ID, "userID", client.UserID)
}

func (m *Manager) authenticateClient(client *Client, userID uuid.UUID) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	client.UserID = userID
	client.Status = STATUS_AUTHENTICATED
}

func (m *Manager) isAuthenticated(client *Client) bool {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	return client.Status == STATUS_AUTHENTICATED
}

func (m *Manager) sendToAuthenticatedClients(message Message) {
	log := m.log.Function("sendToAuthenticatedClients")

	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	sent := 0
	for _, client := range m.hub.clients {
		if client.Status != STATUS_AUTHENTICATED {
			continue
		}

		select {
		case client.send <- message:
			sent++
		default:
			log.Warn("Client send channel full, dropping message", "clientID", client.ID)
		}
	}

	log.Debug("Message sent to authenticated clients", "messageID", message.ID, "clientCount", sent)
}

func (m *Manager) SendMessageToUser(userID uuid.UUID, message Message) {
	log := m.log.Function("SendMessageToUser")

	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	sent := 0
	for _, client := range m.hub.clients {
		if client.Status != STATUS_AUTHENTICATED || client.UserID != userID {
			continue
		}

		select {
		case client.send <- message:
			sent++
		default:
			log.Warn("Client send channel full, dropping message", "clientID", client.ID)
		}
	}

	log.Debug("Message sent to user connections", "userID", userID, "messageID", message.ID, "sentTo", sent)
}
