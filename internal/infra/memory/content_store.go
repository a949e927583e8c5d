package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"roit-learning-service/internal/domain"

	"github.com/google/uuid"
)

// ContentStore is the in-memory catalog used in dev mode and tests.
type ContentStore struct {
	mu        sync.RWMutex
	items     map[string]domain.Content
	views     map[string]map[string]time.Time // user -> content -> last viewed
	downloads map[string][]domain.ContentActivity
}

func NewContentStore(seed ...domain.Content) *ContentStore {
	s := &ContentStore{
		items:     make(map[string]domain.Content),
		views:     make(map[string]map[string]time.Time),
		downloads: make(map[string][]domain.ContentActivity),
	}
	for _, c := range seed {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		s.items[c.ID] = c
	}
	return s
}

func (s *ContentStore) ListContent(_ context.Context, filter domain.ContentFilter) ([]domain.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]domain.Content, 0)
	for _, c := range s.items {
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		if filter.Class != 0 && c.Class != filter.Class {
			continue
		}
		if filter.Subject != "" && c.Subject != filter.Subject {
			continue
		}
		if filter.Chapter != "" && c.Chapter != filter.Chapter {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Title), search) &&
			!strings.Contains(strings.ToLower(c.Description), search) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *ContentStore) GetContent(_ context.Context, id string) (domain.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.items[id]
	if !ok {
		return domain.Content{}, domain.ErrContentNotFound
	}
	return c, nil
}

func (s *ContentStore) CreateContent(_ context.Context, content domain.Content) (domain.Content, error) {
	if content.ID == "" {
		content.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.items[content.ID] = content
	s.mu.Unlock()
	return content, nil
}

func (s *ContentStore) DeleteContent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domain.ErrContentNotFound
	}
	delete(s.items, id)
	for _, viewed := range s.views {
		delete(viewed, id)
	}
	return nil
}

func (s *ContentStore) RecordView(_ context.Context, userID, contentID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	viewed, ok := s.views[userID]
	if !ok {
		viewed = make(map[string]time.Time)
		s.views[userID] = viewed
	}
	viewed[contentID] = at
	return nil
}

func (s *ContentStore) RecordDownload(_ context.Context, userID, contentID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloads[userID] = append(s.downloads[userID], domain.ContentActivity{ContentID: contentID, At: at})
	return nil
}

func (s *ContentStore) RecentlyViewed(_ context.Context, userID string, limit int) ([]domain.ContentActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ContentActivity, 0, len(s.views[userID]))
	for id, at := range s.views[userID] {
		out = append(out, domain.ContentActivity{ContentID: id, At: at})
	}
	return s.attachLocked(out, limit), nil
}

func (s *ContentStore) Downloads(_ context.Context, userID string, limit int) ([]domain.ContentActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ContentActivity, len(s.downloads[userID]))
	copy(out, s.downloads[userID])
	return s.attachLocked(out, limit), nil
}

// attachLocked orders activity newest first, joins content and drops deleted items.
func (s *ContentStore) attachLocked(activity []domain.ContentActivity, limit int) []domain.ContentActivity {
	sort.SliceStable(activity, func(i, j int) bool { return activity[i].At.After(activity[j].At) })
	out := make([]domain.ContentActivity, 0, len(activity))
	for _, a := range activity {
		c, ok := s.items[a.ContentID]
		if !ok {
			continue
		}
		a.Content = &c
		out = append(out, a)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
