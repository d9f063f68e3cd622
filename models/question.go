package models

// Question is immutable once generated for a battle. The full record,
// including the correct answer, is sent to clients with each round.
type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Subject       string   `json:"subject"`
	Difficulty    string   `json:"difficulty"`
}
