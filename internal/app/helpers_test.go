package app_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"roit-learning-service/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// staticBank returns its questions in order, truncated to the limit.
type staticBank struct {
	questions []domain.Question
	err       error
	calls     int
}

func (b *staticBank) FetchQuestions(_ context.Context, _ domain.Category, _ int, limit int) ([]domain.Question, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	out := b.questions
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type recordingSaver struct {
	mu      sync.Mutex
	records []domain.ResultRecord
	err     error
}

func (s *recordingSaver) SaveResult(_ context.Context, record domain.ResultRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return s.err
}

func (s *recordingSaver) saved() []domain.ResultRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ResultRecord, len(s.records))
	copy(out, s.records)
	return out
}

var errDatabaseDown = errors.New("database unavailable")

// questions builds n questions whose correct answer is always B.
func questions(n int) []domain.Question {
	out := make([]domain.Question, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.Question{
			ID:            fmt.Sprintf("q%d", i),
			Category:      domain.CategoryMCQTests,
			Class:         10,
			Prompt:        fmt.Sprintf("Question %d", i),
			Options:       [4]string{"w", "right", "x", "y"},
			CorrectAnswer: domain.OptionB,
		})
	}
	return out
}

func config(count, limit int) domain.SessionConfig {
	return domain.SessionConfig{
		Category:      domain.CategoryMCQTests,
		Class:         10,
		QuestionCount: count,
		TimeLimit:     limit,
	}
}
