package redis

import (
	"context"
	"sync"
	"time"

	"roit-learning-service/internal/app"

	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Sessions stay in a local map; their tick drivers run in this process.
//   - Redis holds a liveness marker per session carrying the owner id, so other
//     instances and operators can see which tests are in progress.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.TestSession
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.TestSession),
	}
}

func (s *SessionStore) Put(session *app.TestSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
	// best-effort liveness marker; a session outlives its limit by the ttl at most
	ttl := s.ttl + time.Duration(session.Config().TimeLimit)*time.Second
	_ = s.client.Set(context.Background(), s.key(session.ID()), session.Owner().ID, ttl).Err()
}

func (s *SessionStore) Get(id string) (*app.TestSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return
	}
	delete(s.sessions, id)
	_ = s.client.Del(context.Background(), s.key(id)).Err()
}

func (s *SessionStore) key(id string) string {
	return "test:session:" + id
}
