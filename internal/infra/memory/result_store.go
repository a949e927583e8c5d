package memory

import (
	"context"
	"sync"

	"roit-learning-service/internal/domain"

	"github.com/google/uuid"
)

// ResultStore keeps saved test results in memory.
type ResultStore struct {
	mu      sync.RWMutex
	results []domain.ResultRecord
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

func (s *ResultStore) SaveResult(_ context.Context, record domain.ResultRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	answers := make(map[string]string, len(record.Answers))
	for k, v := range record.Answers {
		answers[k] = v
	}
	record.Answers = answers

	s.mu.Lock()
	s.results = append(s.results, record)
	s.mu.Unlock()
	return nil
}

func (s *ResultStore) History(_ context.Context, userID string) ([]domain.ResultRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ResultRecord, 0)
	for _, r := range s.results {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *ResultStore) AllResults(_ context.Context) ([]domain.ResultRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ResultRecord, len(s.results))
	copy(out, s.results)
	return out, nil
}
