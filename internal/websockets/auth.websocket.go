package websockets

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const AUTH_HANDSHAKE_TIMEOUT = 10 * time.Second

func (c *Client) startAuthTimeout() {
	log := c.Manager.log.Function("startAuthTimeout")

	time.AfterFunc(AUTH_HANDSHAKE_TIMEOUT, func() {
		if c.Manager.isAuthenticated(c) {
			return
		}

		log.Warn("Client failed to authenticate within timeout, disconnecting",
			"clientID", c.ID,
			"timeout", AUTH_HANDSHAKE_TIMEOUT)

		if err := c.Connection.Close(); err != nil {
			log.Er("failed to close connection after auth timeout", err, "clientID", c.ID)
		}
	})
}

// handleAuthResponse expects {"type":"auth_response","data":{"token":"..."}}
// carrying the same bearer token the REST API accepts.
func (c *Client) handleAuthResponse(message Message) {
	log := c.Manager.log.Function("handleAuthResponse")

	if c.Manager.isAuthenticated(c) {
		log.Warn("Auth response from already authenticated client", "clientID", c.ID)
		return
	}

	token, ok := message.Data["token"].(string)
	if !ok || token == "" {
		log.Warn("Invalid token in auth response", "clientID", c.ID)
		c.sendAuthFailure("Invalid token format")
		return
	}

	userID, err := c.Manager.auth.ValidateToken(token)
	if err != nil {
		log.Info("WebSocket token validation failed", "clientID", c.ID, "error", err.Error())
		c.sendAuthFailure("Authentication failed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := c.Manager.users.GetByID(ctx, userID)
	if err != nil {
		log.Info("WebSocket user not found", "clientID", c.ID, "userID", userID, "error", err.Error())
		c.sendAuthFailure("User not found")
		return
	}

	if !user.IsActive {
		log.Info("WebSocket user inactive", "clientID", c.ID, "userID", userID)
		c.sendAuthFailure("User is inactive")
		return
	}

	c.Manager.authenticateClient(c, user.ID)
	log.Info("WebSocket client authenticated", "clientID", c.ID, "userID", user.ID)

	c.trySend(Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_SUCCESS,
		Channel:   SYSTEM_CHANNEL,
		Action:    "authenticated",
		UserID:    user.ID.String(),
		Data:      map[string]any{"userId": user.ID.String()},
		Timestamp: time.Now(),
	})
}

func (c *Client) sendAuthFailure(reason string) {
	c.trySend(Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_FAILURE,
		Channel:   SYSTEM_CHANNEL,
		Action:    "authentication_failed",
		Data:      map[string]any{"reason": reason},
		Timestamp: time.Now(),
	})

	c.Manager.log.Function("sendAuthFailure").
		Info("Auth failure sent, closing connection", "clientID", c.ID, "reason", reason)

	time.AfterFunc(100*time.Millisecond, func() {
		if c.Connection != nil {
			_ = c.Connection.Close()
		}
	})
}

func (c *Client) sendAuthRequest() error {
	log := c.Manager.log.Function("sendAuthRequest")

	authRequest := Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_REQUEST,
		Channel:   SYSTEM_CHANNEL,
		Action:    "authenticate",
		Timestamp: time.Now(),
	}

	if err := c.Connection.WriteJSON(authRequest); err != nil {
		return log.Err("failed to send auth request", err, "clientID", c.ID)
	}

	return nil
}

func (c *Client) handleUnauthenticatedMessage(message Message) {
	c.Manager.log.Function("handleUnauthenticatedMessage").
		Warn("Blocking message from unauthenticated client", "clientID", c.ID, "type", message.Type)

	c.trySend(Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_FAILURE,
		Channel:   SYSTEM_CHANNEL,
		Action:    "authentication_required",
		Data:      map[string]any{"reason": "Authentication required"},
		Timestamp: time.Now(),
	})
}
