package models

// ClientMessage is the decoded shape of every inbound websocket frame. All
// actions share one envelope; unused fields stay at their zero value.
type ClientMessage struct {
	Action    string        `json:"action"`
	Token     string        `json:"token,omitempty"`
	Config    *BattleConfig `json:"config,omitempty"`
	BattleID  string        `json:"battle_id,omitempty"`
	MatchID   string        `json:"matchId,omitempty"`
	Answer    string        `json:"answer,omitempty"`
	TimeSpent int64         `json:"time_spent,omitempty"`
}
