package models

import "time"

// RoundState tracks a battle's progress through its question rounds. It is
// created when the battle starts and removed together with the battle.
type RoundState struct {
	CurrentRound int
	TotalRounds  int
	Player1Score int
	Player2Score int
	Questions    []Question

	// Cleared at the end of every round.
	Answers      map[string]Answer
	ReadyPlayers map[string]bool
}

func NewRoundState(questions []Question) *RoundState {
	return &RoundState{
		CurrentRound: 1,
		TotalRounds:  len(questions),
		Questions:    questions,
		Answers:      make(map[string]Answer),
		ReadyPlayers: make(map[string]bool),
	}
}

// CurrentQuestion returns the question for the round in progress, or false
// when the current round index has moved past the question list.
func (r *RoundState) CurrentQuestion() (Question, bool) {
	idx := r.CurrentRound - 1
	if idx < 0 || idx >= len(r.Questions) {
		return Question{}, false
	}
	return r.Questions[idx], true
}

// Answer is one player's submission for a single round.
type Answer struct {
	Value       string    `json:"answer"`
	TimeSpent   int64     `json:"time_spent"`
	SubmittedAt time.Time `json:"submitted_at"`
}
