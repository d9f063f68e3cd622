package repository

import (
	"database/sql"
	"fmt"
	"log"
	"math/rand"

	"github.com/lib/pq"

	"github.com/edutorium/battle-server/models"
)

// QuestionSource produces the ordered question list for one battle. The
// returned slice is non-empty and exactly config.QuestionCount long (after
// defaults are applied).
type QuestionSource func(config models.BattleConfig) ([]models.Question, error)

// SampleQuestions generates placeholder questions without touching a
// database. Every generated question's correct answer is "A".
func SampleQuestions(config models.BattleConfig) ([]models.Question, error) {
	cfg := config.WithDefaults()

	questions := make([]models.Question, 0, cfg.QuestionCount)
	for i := 0; i < cfg.QuestionCount; i++ {
		questions = append(questions, models.Question{
			ID:            i + 1,
			Question:      fmt.Sprintf("Sample question %d?", i+1),
			Options:       []string{"Option A", "Option B", "Option C", "Option D"},
			CorrectAnswer: "A",
			Subject:       cfg.Subjects[rand.Intn(len(cfg.Subjects))],
			Difficulty:    cfg.Difficulty,
		})
	}
	return questions, nil
}

// QuestionStore fetches battle questions from PostgreSQL, topping up with
// sample questions when the database has fewer matching rows than requested.
type QuestionStore struct {
	DB *sql.DB
}

func NewQuestionStore(db *sql.DB) *QuestionStore {
	return &QuestionStore{DB: db}
}

func (s *QuestionStore) Questions(config models.BattleConfig) ([]models.Question, error) {
	cfg := config.WithDefaults()

	rows, err := s.DB.Query(
		`SELECT id, question, options, correct_answer, subject, difficulty
		 FROM questions
		 WHERE subject = ANY($1) AND difficulty = $2
		 ORDER BY random()
		 LIMIT $3`,
		pq.Array(cfg.Subjects), cfg.Difficulty, cfg.QuestionCount)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Question, pq.Array(&q.Options), &q.CorrectAnswer, &q.Subject, &q.Difficulty); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(questions) < cfg.QuestionCount {
		log.Printf("Only %d of %d questions found for %v/%s, filling with samples",
			len(questions), cfg.QuestionCount, cfg.Subjects, cfg.Difficulty)
		fill, _ := SampleQuestions(cfg)
		questions = append(questions, fill[len(questions):]...)
	}

	return questions[:cfg.QuestionCount], nil
}
