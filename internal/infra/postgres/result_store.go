package postgres

import (
	"context"
	"fmt"

	"roit-learning-service/internal/domain"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ResultStore persists test results with bun.
type ResultStore struct {
	db *bun.DB
}

func NewResultStore(db *bun.DB) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) SaveResult(ctx context.Context, record domain.ResultRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	answers := record.Answers
	if answers == nil {
		answers = map[string]string{}
	}
	row := resultRow{
		ID:             record.ID,
		UserID:         record.UserID,
		Category:       string(record.Category),
		Class:          record.Class,
		Subject:        record.Subject,
		Chapter:        record.Chapter,
		Score:          record.Score,
		TotalQuestions: record.TotalQuestions,
		CorrectAnswers: record.CorrectAnswers,
		TimeTaken:      record.TimeTaken,
		Answers:        answers,
		CreatedAt:      record.CreatedAt,
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (s *ResultStore) History(ctx context.Context, userID string) ([]domain.ResultRecord, error) {
	var rows []resultRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return toRecords(rows), nil
}

func (s *ResultStore) AllResults(ctx context.Context) ([]domain.ResultRecord, error) {
	var rows []resultRow
	if err := s.db.NewSelect().Model(&rows).Order("score DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	return toRecords(rows), nil
}

func toRecords(rows []resultRow) []domain.ResultRecord {
	out := make([]domain.ResultRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}
