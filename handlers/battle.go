package handlers

import (
	"log"
	"time"

	"github.com/edutorium/battle-server/models"
)

func (h *Hub) handleConfirmMatch(c *Connection, msg *models.ClientMessage) {
	if c.userID == "" {
		return
	}

	battleID := msg.BattleID
	battle, ok := h.battles[battleID]
	if battleID == "" || !ok {
		h.sendError(c, "Invalid battle ID")
		return
	}
	if !battle.HasPlayer(c.userID) {
		h.sendError(c, "Not part of this battle")
		return
	}

	confirmed := h.confirmations[battleID]
	if confirmed == nil {
		confirmed = make(map[string]bool)
		h.confirmations[battleID] = confirmed
	}
	if confirmed[c.userID] {
		// Re-confirmation: no extra notifications and no second timer.
		return
	}
	confirmed[c.userID] = true

	log.Printf("User %s confirmed battle %s", c.username, battleID)

	opponentID := battle.OpponentOf(c.userID)
	if !confirmed[opponentID] {
		h.sendToUser(opponentID, map[string]interface{}{
			"type":   "opponentReady",
			"action": "opponent_ready",
		})
		return
	}

	bothReady := map[string]interface{}{
		"type":      "bothReady",
		"action":    "both_ready",
		"battle_id": battleID,
	}
	h.sendToUser(battle.Player1ID, bothReady)
	h.sendToUser(battle.Player2ID, bothReady)

	log.Printf("Both players ready for battle %s, starting in %s", battleID, h.countdown)

	// The timer is never cancelled; if the battle is gone by the time it
	// fires, the existence check turns it into a no-op.
	h.scheduler.After(h.countdown, func() {
		if _, ok := h.battles[battleID]; ok {
			h.startBattle(battleID)
		}
	})
}

// startBattle generates the question list, initializes round state and
// moves the battle to Active. Fired by the countdown timer.
func (h *Hub) startBattle(battleID string) {
	battle, ok := h.battles[battleID]
	if !ok {
		return
	}

	cfg := battle.Config.WithDefaults()
	questions, err := h.questions(cfg)
	if err != nil || len(questions) == 0 {
		log.Printf("Failed to source questions for battle %s: %v", battleID, err)
		h.sendToUser(battle.Player1ID, map[string]interface{}{"action": "error", "message": "Failed to prepare battle questions"})
		h.sendToUser(battle.Player2ID, map[string]interface{}{"action": "error", "message": "Failed to prepare battle questions"})
		delete(h.battles, battleID)
		delete(h.confirmations, battleID)
		return
	}

	state := models.NewRoundState(questions)
	h.rounds[battleID] = state

	for _, userID := range []string{battle.Player1ID, battle.Player2ID} {
		if conn := h.users[userID]; conn != nil {
			conn.inBattle = true
			conn.battleID = battleID
			conn.state = stateInBattle
		}
	}
	battle.Status = models.BattleActive
	battle.Player1Online = h.users[battle.Player1ID] != nil
	battle.Player2Online = h.users[battle.Player2ID] != nil

	start := map[string]interface{}{
		"action":        "battle_started",
		"battle_id":     battleID,
		"current_round": state.CurrentRound,
		"total_rounds":  state.TotalRounds,
		"question":      questions[0],
		"time_limit":    h.roundTimeLimit,
	}
	h.sendToUser(battle.Player1ID, start)
	h.sendToUser(battle.Player2ID, start)

	log.Printf("Battle %s started", battleID)
}

// handleSubmitAnswer records one player's answer for the current round. A
// second submission in the same round overwrites the first. When both
// players have answered, the round resolves immediately.
func (h *Hub) handleSubmitAnswer(c *Connection, msg *models.ClientMessage) {
	if c.userID == "" || !c.inBattle {
		return
	}

	state, ok := h.rounds[c.battleID]
	if !ok {
		return
	}

	state.Answers[c.userID] = models.Answer{
		Value:       msg.Answer,
		TimeSpent:   msg.TimeSpent,
		SubmittedAt: time.Now(),
	}

	log.Printf("User %s submitted answer for battle %s", c.username, c.battleID)

	if len(state.Answers) == 2 {
		h.processAnswers(c.battleID)
	}
}

// processAnswers scores the round that just completed. Correctness is exact
// string equality with the question's answer value; each correct player
// scores one point.
func (h *Hub) processAnswers(battleID string) {
	battle, ok := h.battles[battleID]
	if !ok {
		return
	}
	state, ok := h.rounds[battleID]
	if !ok {
		return
	}

	question, ok := state.CurrentQuestion()
	if !ok {
		return
	}

	answer1 := state.Answers[battle.Player1ID]
	answer2 := state.Answers[battle.Player2ID]

	player1Correct := answer1.Value == question.CorrectAnswer
	player2Correct := answer2.Value == question.CorrectAnswer

	if player1Correct {
		state.Player1Score++
	}
	if player2Correct {
		state.Player2Score++
	}

	results := map[string]interface{}{
		"action":         "round_results",
		"round":          state.CurrentRound,
		"correct_answer": question.CorrectAnswer,
		"player1": map[string]interface{}{
			"answer":     answer1.Value,
			"correct":    player1Correct,
			"time_spent": answer1.TimeSpent,
		},
		"player2": map[string]interface{}{
			"answer":     answer2.Value,
			"correct":    player2Correct,
			"time_spent": answer2.TimeSpent,
		},
		"scores": map[string]interface{}{
			"player1": state.Player1Score,
			"player2": state.Player2Score,
		},
	}
	h.sendToUser(battle.Player1ID, results)
	h.sendToUser(battle.Player2ID, results)

	state.Answers = make(map[string]models.Answer)
	state.ReadyPlayers = make(map[string]bool)

	if state.CurrentRound >= state.TotalRounds {
		h.endBattle(battleID)
	}
}

func (h *Hub) handleReadyForNextRound(c *Connection) {
	if c.userID == "" || !c.inBattle {
		return
	}

	state, ok := h.rounds[c.battleID]
	if !ok {
		return
	}

	state.ReadyPlayers[c.userID] = true

	if len(state.ReadyPlayers) == 2 {
		h.nextRound(c.battleID)
	}
}

func (h *Hub) nextRound(battleID string) {
	battle, ok := h.battles[battleID]
	if !ok {
		return
	}
	state, ok := h.rounds[battleID]
	if !ok {
		return
	}

	state.CurrentRound++
	state.ReadyPlayers = make(map[string]bool)

	question, ok := state.CurrentQuestion()
	if !ok {
		return
	}

	round := map[string]interface{}{
		"action":     "next_round",
		"round":      state.CurrentRound,
		"question":   question,
		"time_limit": h.roundTimeLimit,
	}
	h.sendToUser(battle.Player1ID, round)
	h.sendToUser(battle.Player2ID, round)
}

// handleJoinMatch serves both the initial entry into a started battle and a
// rejoin after a disconnect. The joining connection is synchronized with
// whatever state the battle is in.
func (h *Hub) handleJoinMatch(c *Connection, msg *models.ClientMessage) {
	if c.userID == "" {
		h.sendError(c, "Not logged in")
		return
	}

	matchID := msg.MatchID
	if matchID == "" {
		h.sendError(c, "Match ID is required")
		return
	}

	battle, ok := h.battles[matchID]
	if !ok {
		h.sendError(c, "Battle not found")
		return
	}
	if !battle.HasPlayer(c.userID) {
		h.sendError(c, "You are not authorized to join this battle")
		return
	}

	c.battleID = matchID
	c.inBattle = true
	c.state = stateInBattle

	if c.userID == battle.Player1ID {
		battle.Player1Online = true
	} else {
		battle.Player2Online = true
	}

	log.Printf("User %s joined battle %s", c.username, matchID)

	h.sendMessage(c, map[string]interface{}{
		"action":   "join_success",
		"type":     "joinMatchSuccess",
		"battleId": matchID,
	})

	state, ok := h.rounds[matchID]
	if !ok {
		// Battle has not started yet; nothing to synchronize.
		return
	}

	if battle.Status == models.BattlePaused && battle.Player1Online && battle.Player2Online {
		battle.Status = models.BattleActive
		log.Printf("Battle %s resumed - both players reconnected", matchID)
	}

	if battle.Status == models.BattleActive {
		if question, ok := state.CurrentQuestion(); ok {
			h.sendMessage(c, map[string]interface{}{
				"action":        "battle_started",
				"type":          "battleStart",
				"battle_id":     matchID,
				"current_round": state.CurrentRound,
				"total_rounds":  state.TotalRounds,
				"question":      question,
				"time_limit":    h.roundTimeLimit,
			})
		} else {
			// Rejoined after the final round resolved but before teardown.
			h.sendMessage(c, map[string]interface{}{
				"action": "battle_ended",
				"final_scores": map[string]interface{}{
					"player1": state.Player1Score,
					"player2": state.Player2Score,
				},
			})
		}
	} else {
		h.sendMessage(c, map[string]interface{}{
			"action":  "battle_paused",
			"message": "Waiting for opponent to reconnect...",
		})
	}
}

// pauseBattle handles one player's connection dropping mid-battle. The
// battle and its round state are kept for a possible rejoin.
func (h *Hub) pauseBattle(c *Connection) {
	battle, ok := h.battles[c.battleID]
	if !ok {
		return
	}

	now := time.Now()
	switch c.userID {
	case battle.Player1ID:
		battle.Player1Online = false
		battle.Player1DisconnectedAt = now
	case battle.Player2ID:
		battle.Player2Online = false
		battle.Player2DisconnectedAt = now
	default:
		return
	}
	battle.Status = models.BattlePaused

	h.sendToUser(battle.OpponentOf(c.userID), map[string]interface{}{
		"action":  "opponent_disconnected",
		"message": "Your opponent has disconnected",
	})

	log.Printf("Battle %s paused due to disconnection; awaiting possible rejoin", battle.ID)
}

// endBattle resolves the winner, notifies both players and removes the
// battle permanently.
func (h *Hub) endBattle(battleID string) {
	battle, ok := h.battles[battleID]
	if !ok {
		return
	}
	state, ok := h.rounds[battleID]
	if !ok {
		return
	}

	winnerID := ""
	if state.Player1Score > state.Player2Score {
		winnerID = battle.Player1ID
	} else if state.Player2Score > state.Player1Score {
		winnerID = battle.Player2ID
	}

	var winner interface{}
	if winnerID != "" {
		winner = winnerID
	}

	battle.Status = models.BattleEnded

	final := map[string]interface{}{
		"action": "battle_ended",
		"final_scores": map[string]interface{}{
			"player1": state.Player1Score,
			"player2": state.Player2Score,
		},
		"winner":  winner,
		"is_draw": winnerID == "",
	}
	h.sendToUser(battle.Player1ID, final)
	h.sendToUser(battle.Player2ID, final)

	for _, userID := range []string{battle.Player1ID, battle.Player2ID} {
		if conn := h.users[userID]; conn != nil {
			conn.inBattle = false
			conn.battleID = ""
			conn.state = stateAuthenticated
		}
	}

	delete(h.battles, battleID)
	delete(h.rounds, battleID)
	delete(h.confirmations, battleID)

	if winnerID != "" {
		log.Printf("Battle %s ended. Winner: %s", battleID, h.userDetails[winnerID].Username)
	} else {
		log.Printf("Battle %s ended. Draw", battleID)
	}
}
