package handlers

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutorium/battle-server/models"
)

// TestSingleRoundBattleScenario drives two clients through the whole
// protocol with raw frames: login, matchmaking, confirmation handshake,
// countdown, one round, and the end of the battle.
func TestSingleRoundBattleScenario(t *testing.T) {
	h, sched := newTestHub()

	conns := map[string]*Connection{
		"U1": addConn(h),
		"U2": addConn(h),
	}
	for _, id := range []string{"U1", "U2"} {
		c := conns[id]
		h.verifier = &stubVerifier{user: &models.UserInfo{ID: id, Username: "player-" + id}}
		h.processMessage(c, []byte(`{"action":"login","token":"tok-`+id+`"}`))
		select {
		case fn := <-h.callbacks:
			fn()
		case <-time.After(time.Second):
			t.Fatal("login verification never completed")
		}
		require.Equal(t, "login_success", nextMessage(t, c)["action"])
	}
	c1, c2 := conns["U1"], conns["U2"]

	// Both search with a one-question config.
	h.processMessage(c1, []byte(`{"action":"find_match","config":{"question_count":1}}`))
	h.processMessage(c2, []byte(`{"action":"find_match","config":{"question_count":1}}`))

	require.Equal(t, "matchmaking_started", nextMessage(t, c1)["action"])
	require.Equal(t, "matchmaking_started", nextMessage(t, c2)["action"])

	found1 := nextMessage(t, c1)
	found2 := nextMessage(t, c2)
	require.Equal(t, "match_found", found1["action"])
	require.Equal(t, "match_found", found2["action"])
	battleID := found1["battle_id"].(string)
	require.Equal(t, battleID, found2["battle_id"])

	// Confirmation handshake.
	h.processMessage(c1, []byte(fmt.Sprintf(`{"action":"confirm_match","battle_id":%q}`, battleID)))
	require.Equal(t, "opponent_ready", nextMessage(t, c2)["action"])
	h.processMessage(c2, []byte(fmt.Sprintf(`{"action":"confirm_match","battle_id":%q}`, battleID)))
	require.Equal(t, "both_ready", nextMessage(t, c1)["action"])
	require.Equal(t, "both_ready", nextMessage(t, c2)["action"])

	// The scheduled countdown fires.
	require.Len(t, sched.afters, 1)
	require.Equal(t, 4*time.Second, sched.afters[0].delay)
	sched.afters[0].fn()

	start1 := nextMessage(t, c1)
	start2 := nextMessage(t, c2)
	require.Equal(t, "battle_started", start1["action"])
	require.Equal(t, "battle_started", start2["action"])
	assert.EqualValues(t, 1, start1["current_round"])
	assert.EqualValues(t, 1, start1["total_rounds"])

	// U1 answers correctly, U2 does not (sample answer key is "A").
	h.processMessage(c1, []byte(`{"action":"submit_answer","answer":"A","time_spent":4200}`))
	h.processMessage(c2, []byte(`{"action":"submit_answer","answer":"B","time_spent":5100}`))

	for _, c := range []*Connection{c1, c2} {
		results := nextMessage(t, c)
		require.Equal(t, "round_results", results["action"])
		assert.Equal(t, true, results["player1"].(map[string]interface{})["correct"])
		assert.Equal(t, false, results["player2"].(map[string]interface{})["correct"])
		scores := results["scores"].(map[string]interface{})
		assert.EqualValues(t, 1, scores["player1"])
		assert.EqualValues(t, 0, scores["player2"])

		final := nextMessage(t, c)
		require.Equal(t, "battle_ended", final["action"])
		assert.Equal(t, "U1", final["winner"])
		assert.Equal(t, false, final["is_draw"])
	}

	assert.Empty(t, h.battles)
	assert.Empty(t, h.rounds)
}
