package models

import "time"

type BattleStatus string

const (
	BattleWaitingConfirmation BattleStatus = "waiting_confirmation"
	BattleActive              BattleStatus = "active"
	BattlePaused              BattleStatus = "paused"
	BattleEnded               BattleStatus = "ended"
)

// Battle is a matched two-player session. Connection liveness is tracked per
// player so a paused battle can be resumed when both players are back.
type Battle struct {
	ID        string
	Player1ID string
	Player2ID string
	Config    BattleConfig
	Status    BattleStatus
	CreatedAt time.Time

	Player1Online bool
	Player2Online bool

	// Zero value means the player never disconnected.
	Player1DisconnectedAt time.Time
	Player2DisconnectedAt time.Time
}

func (b *Battle) HasPlayer(userID string) bool {
	return userID == b.Player1ID || userID == b.Player2ID
}

func (b *Battle) OpponentOf(userID string) string {
	if userID == b.Player1ID {
		return b.Player2ID
	}
	return b.Player1ID
}

// LastDisconnectedAt returns the later of the two disconnect timestamps.
func (b *Battle) LastDisconnectedAt() time.Time {
	if b.Player2DisconnectedAt.After(b.Player1DisconnectedAt) {
		return b.Player2DisconnectedAt
	}
	return b.Player1DisconnectedAt
}

// BattleConfig is the matchmaking request carried into the battle. The first
// matched player's config wins, so defaults are applied at battle start.
type BattleConfig struct {
	QuestionCount int      `json:"question_count"`
	Subjects      []string `json:"subjects"`
	Difficulty    string   `json:"difficulty"`
}

func (c BattleConfig) WithDefaults() BattleConfig {
	if c.QuestionCount <= 0 {
		c.QuestionCount = 5
	}
	if len(c.Subjects) == 0 {
		c.Subjects = []string{"Math", "Science"}
	}
	if c.Difficulty == "" {
		c.Difficulty = "medium"
	}
	return c
}

// WaitingEntry is a queued matchmaking request.
type WaitingEntry struct {
	UserID string
	Config BattleConfig
	Since  time.Time
}
