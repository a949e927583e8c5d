package postgres

import (
	"context"
	"fmt"

	"roit-learning-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// maxPoolSize caps how many questions one category/class pool may load.
const maxPoolSize = 500

// QuestionLoader loads MCQ pools from Postgres and stores admin-authored questions.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context, category domain.Category, class int) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, category, class, subject, chapter, question,
		       option_a, option_b, option_c, option_d, correct_answer,
		       COALESCE(explanation, ''), COALESCE(difficulty, ''), COALESCE(created_by, ''), created_at
		FROM mcq_questions
		WHERE category = $1 AND class = $2
		ORDER BY created_at
		LIMIT $3`, string(category), class, maxPoolSize)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0)
	for rows.Next() {
		var (
			q                 domain.Question
			cat, correct, dif string
		)
		if err := rows.Scan(&q.ID, &cat, &q.Class, &q.Subject, &q.Chapter, &q.Prompt,
			&q.Options[0], &q.Options[1], &q.Options[2], &q.Options[3], &correct,
			&q.Explanation, &dif, &q.CreatedBy, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Category = domain.Category(cat)
		q.CorrectAnswer = domain.OptionLabel(correct)
		q.Difficulty = domain.Difficulty(dif)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	return questions, nil
}

// CreateQuestions inserts all questions in one transaction.
func (l *QuestionLoader) CreateQuestions(ctx context.Context, questions []domain.Question) ([]domain.Question, error) {
	created := make([]domain.Question, 0, len(questions))
	err := l.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, q := range questions {
			if q.ID == "" {
				q.ID = uuid.NewString()
			}
			batch.Queue(`
				INSERT INTO mcq_questions (id, category, class, subject, chapter, question,
					option_a, option_b, option_c, option_d, correct_answer, explanation, difficulty, created_by, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), NULLIF($13, ''), $14, $15)`,
				q.ID, string(q.Category), q.Class, q.Subject, q.Chapter, q.Prompt,
				q.Options[0], q.Options[1], q.Options[2], q.Options[3], string(q.CorrectAnswer),
				q.Explanation, string(q.Difficulty), q.CreatedBy, q.CreatedAt)
			created = append(created, q)
		}
		results := tx.SendBatch(ctx, batch)
		for range questions {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return err
			}
		}
		return results.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("create questions: %w", err)
	}
	return created, nil
}
