package handlers

import (
	"log"
	"time"

	"github.com/edutorium/battle-server/models"
)

// heartbeatTick runs inside the hub loop on every heartbeat interval. One
// tick does all periodic work on a single clock: pings every live
// connection, force-closes clients that stopped responding, and reaps
// paused battles whose rejoin window has passed.
func (h *Hub) heartbeatTick() {
	now := time.Now()

	for c := range h.clients {
		h.sendMessage(c, map[string]interface{}{"action": "ping"})

		if now.Sub(c.lastPing) > h.clientTimeout && c.ws != nil {
			log.Printf("Client %q timed out", c.userID)
			// Closing the socket makes the read pump exit, which funnels
			// the usual disconnect handling back through the loop.
			c.ws.Close()
		}
	}

	for battleID, battle := range h.battles {
		var expired bool
		switch battle.Status {
		case models.BattlePaused:
			pausedAt := battle.LastDisconnectedAt()
			expired = !pausedAt.IsZero() && now.Sub(pausedAt) > h.pausedBattleTTL
		case models.BattleWaitingConfirmation:
			// A player can vanish before confirming, which never reaches the
			// in-battle disconnect path; expire the handshake on the same
			// clock as paused battles.
			expired = now.Sub(battle.CreatedAt) > h.pausedBattleTTL
		}
		if !expired {
			continue
		}

		log.Printf("Cleaning up stale battle %s (%s) after %s", battleID, battle.Status, h.pausedBattleTTL)
		delete(h.battles, battleID)
		delete(h.rounds, battleID)
		delete(h.confirmations, battleID)
	}
}
