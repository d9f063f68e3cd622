package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/edutorium/battle-server/models"
)

func TestBattleConfigWithDefaults(t *testing.T) {
	cfg := models.BattleConfig{}.WithDefaults()
	assert.Equal(t, 5, cfg.QuestionCount)
	assert.Equal(t, []string{"Math", "Science"}, cfg.Subjects)
	assert.Equal(t, "medium", cfg.Difficulty)

	custom := models.BattleConfig{QuestionCount: 2, Subjects: []string{"Art"}, Difficulty: "easy"}.WithDefaults()
	assert.Equal(t, 2, custom.QuestionCount)
	assert.Equal(t, []string{"Art"}, custom.Subjects)
	assert.Equal(t, "easy", custom.Difficulty)
}

func TestBattlePlayers(t *testing.T) {
	b := &models.Battle{Player1ID: "u1", Player2ID: "u2"}

	assert.True(t, b.HasPlayer("u1"))
	assert.True(t, b.HasPlayer("u2"))
	assert.False(t, b.HasPlayer("u3"))
	assert.Equal(t, "u2", b.OpponentOf("u1"))
	assert.Equal(t, "u1", b.OpponentOf("u2"))
}

func TestBattleLastDisconnectedAt(t *testing.T) {
	earlier := time.Now().Add(-time.Minute)
	later := time.Now()

	b := &models.Battle{Player1DisconnectedAt: earlier, Player2DisconnectedAt: later}
	assert.Equal(t, later, b.LastDisconnectedAt())

	b = &models.Battle{Player1DisconnectedAt: later, Player2DisconnectedAt: earlier}
	assert.Equal(t, later, b.LastDisconnectedAt())

	assert.True(t, (&models.Battle{}).LastDisconnectedAt().IsZero())
}

func TestRoundStateCurrentQuestion(t *testing.T) {
	state := models.NewRoundState([]models.Question{{ID: 1}, {ID: 2}})

	q, ok := state.CurrentQuestion()
	assert.True(t, ok)
	assert.Equal(t, 1, q.ID)

	state.CurrentRound = 2
	q, ok = state.CurrentQuestion()
	assert.True(t, ok)
	assert.Equal(t, 2, q.ID)

	state.CurrentRound = 3
	_, ok = state.CurrentQuestion()
	assert.False(t, ok)
}
