package memory

import (
	"context"
	"sort"
	"sync"

	"roit-learning-service/internal/domain"

	"github.com/google/uuid"
)

// NotificationStore keeps notifications and per-user delivery rows.
type NotificationStore struct {
	mu            sync.RWMutex
	notifications map[string]domain.Notification
	deliveries    map[string]map[string]bool // user -> notification -> read
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{
		notifications: make(map[string]domain.Notification),
		deliveries:    make(map[string]map[string]bool),
	}
}

func (s *NotificationStore) CreateNotification(_ context.Context, n domain.Notification, recipients []string) (domain.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.ID] = n
	for _, userID := range recipients {
		inbox, ok := s.deliveries[userID]
		if !ok {
			inbox = make(map[string]bool)
			s.deliveries[userID] = inbox
		}
		inbox[n.ID] = false
	}
	return n, nil
}

func (s *NotificationStore) ListForUser(_ context.Context, userID string) ([]domain.UserNotification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.UserNotification, 0, len(s.deliveries[userID]))
	for id, read := range s.deliveries[userID] {
		n := s.notifications[id]
		out = append(out, domain.UserNotification{
			NotificationID: id,
			Read:           read,
			CreatedAt:      n.CreatedAt,
			Notification:   n,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *NotificationStore) MarkRead(_ context.Context, userID, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inbox, ok := s.deliveries[userID]
	if !ok {
		return domain.ErrNotificationNotFound
	}
	if _, ok := inbox[notificationID]; !ok {
		return domain.ErrNotificationNotFound
	}
	inbox[notificationID] = true
	return nil
}
