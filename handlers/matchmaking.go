package handlers

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/edutorium/battle-server/models"
)

func (h *Hub) handleFindMatch(c *Connection, msg *models.ClientMessage) {
	if c.userID == "" {
		h.sendError(c, "Not authenticated")
		return
	}

	var cfg models.BattleConfig
	if msg.Config != nil {
		cfg = *msg.Config
	}

	h.enqueueWaiting(c.userID, cfg)
	c.state = stateMatchmaking

	log.Printf("User %s started matchmaking (%d waiting)", c.username, len(h.waiting))

	h.sendMessage(c, map[string]interface{}{
		"action":  "matchmaking_started",
		"message": "Looking for opponents...",
	})

	h.tryMatchmaking()
}

func (h *Hub) handleCancelMatchmaking(c *Connection) {
	if c.userID == "" {
		return
	}

	if h.removeWaiting(c.userID) {
		c.state = stateAuthenticated
		log.Printf("User %s cancelled matchmaking", c.username)

		h.sendMessage(c, map[string]interface{}{
			"action":  "matchmaking_cancelled",
			"message": "Matchmaking cancelled",
		})
	}
}

// enqueueWaiting adds the identity to the queue. Re-enqueueing an already
// waiting identity replaces its config but keeps its position.
func (h *Hub) enqueueWaiting(userID string, cfg models.BattleConfig) {
	for _, entry := range h.waiting {
		if entry.UserID == userID {
			entry.Config = cfg
			return
		}
	}
	h.waiting = append(h.waiting, &models.WaitingEntry{
		UserID: userID,
		Config: cfg,
		Since:  time.Now(),
	})
}

func (h *Hub) removeWaiting(userID string) bool {
	for i, entry := range h.waiting {
		if entry.UserID == userID {
			h.waiting = append(h.waiting[:i], h.waiting[i+1:]...)
			return true
		}
	}
	return false
}

// tryMatchmaking pairs the two longest-waiting players. Configurations are
// not compared: any two waiting players match, and the battle runs with the
// earlier player's config. This mirrors the production behavior and is a
// documented limitation rather than a bug.
func (h *Hub) tryMatchmaking() {
	if len(h.waiting) < 2 {
		return
	}

	player1 := h.waiting[0]
	player2 := h.waiting[1]
	h.waiting = h.waiting[2:]

	battleID := "battle_" + uuid.New().String()

	battle := &models.Battle{
		ID:        battleID,
		Player1ID: player1.UserID,
		Player2ID: player2.UserID,
		Config:    player1.Config,
		Status:    models.BattleWaitingConfirmation,
		CreatedAt: time.Now(),
	}
	h.battles[battleID] = battle
	h.confirmations[battleID] = make(map[string]bool)

	p1Info := h.userDetails[player1.UserID]
	p2Info := h.userDetails[player2.UserID]

	h.sendToUser(player1.UserID, map[string]interface{}{
		"action":    "match_found",
		"battle_id": battleID,
		"opponent": map[string]interface{}{
			"username": p2Info.Username,
			"avatar":   p2Info.Avatar,
		},
	})
	h.sendToUser(player2.UserID, map[string]interface{}{
		"action":    "match_found",
		"battle_id": battleID,
		"opponent": map[string]interface{}{
			"username": p1Info.Username,
			"avatar":   p1Info.Avatar,
		},
	})

	log.Printf("Match found: %s vs %s (%s)", p1Info.Username, p2Info.Username, battleID)
}
