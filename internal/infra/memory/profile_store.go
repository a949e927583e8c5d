package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"roit-learning-service/internal/domain"
)

// ProfileStore keeps profiles keyed by user id.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile
}

func NewProfileStore(seed ...domain.Profile) *ProfileStore {
	s := &ProfileStore{profiles: make(map[string]domain.Profile)}
	for _, p := range seed {
		if p.Role == "" {
			p.Role = domain.RoleUser
		}
		s.profiles[p.ID] = p
	}
	return s
}

func (s *ProfileStore) EnsureProfile(_ context.Context, user domain.User, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[user.ID]; ok {
		return nil
	}
	s.profiles[user.ID] = domain.Profile{
		ID:        user.ID,
		Email:     user.Email,
		Role:      domain.RoleUser,
		CreatedAt: at,
		UpdatedAt: at,
	}
	return nil
}

func (s *ProfileStore) GetProfile(_ context.Context, id string) (domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	return p, nil
}

func (s *ProfileStore) ListProfiles(_ context.Context) ([]domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *ProfileStore) UpdateProfile(_ context.Context, id string, update domain.ProfileUpdate, at time.Time) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	p.FullName = update.FullName
	p.Phone = update.Phone
	p.ProfilePhotoURL = update.ProfilePhotoURL
	p.StudentClass = update.StudentClass
	p.SchoolName = update.SchoolName
	p.City = update.City
	p.Pincode = update.Pincode
	p.UpdatedAt = at
	s.profiles[id] = p
	return p, nil
}

func (s *ProfileStore) SetRole(_ context.Context, id string, role domain.UserRole, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return domain.ErrProfileNotFound
	}
	p.Role = role
	p.UpdatedAt = at
	s.profiles[id] = p
	return nil
}
