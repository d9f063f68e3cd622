package handlers

import (
	"log"
	"time"

	"github.com/edutorium/battle-server/models"
)

// handleLogin kicks off token verification. The verifier may hit the
// network, so it runs on its own goroutine and posts the result back into
// the hub loop; the loop itself never blocks on the identity provider.
func (h *Hub) handleLogin(c *Connection, msg *models.ClientMessage) {
	if msg.Token == "" {
		h.sendError(c, "Missing authentication token")
		return
	}

	token := msg.Token
	go func() {
		user, err := h.verifier.Verify(token)
		h.callbacks <- func() {
			h.finishLogin(c, user, err)
		}
	}()
}

func (h *Hub) finishLogin(c *Connection, user *models.UserInfo, err error) {
	// The client may have disconnected while the token was in flight.
	if !h.clients[c] {
		return
	}

	if err != nil {
		log.Printf("Token verification failed: %v", err)
		h.sendError(c, "Invalid authentication token")
		return
	}

	c.userID = user.ID
	c.username = user.Username
	c.avatar = user.Avatar
	c.state = stateAuthenticated

	// Last login wins: a prior connection bound to this identity is left
	// orphaned and will be reaped by the heartbeat sweep.
	h.users[user.ID] = c
	h.userDetails[user.ID] = *user

	log.Printf("User logged in: %s (%s)", c.username, c.userID)

	h.sendMessage(c, map[string]interface{}{
		"action": "login_success",
		"user": map[string]interface{}{
			"id":       user.ID,
			"username": user.Username,
			"avatar":   user.Avatar,
		},
	})
}

func (h *Hub) handlePing(c *Connection) {
	c.lastPing = time.Now()
	h.sendMessage(c, map[string]interface{}{"action": "pong"})
}

func (h *Hub) handlePong(c *Connection) {
	c.lastPing = time.Now()
}
