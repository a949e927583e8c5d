package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"roit-learning-service/internal/domain"
)

// ProfileRepository stores user profiles.
type ProfileRepository interface {
	EnsureProfile(ctx context.Context, user domain.User, at time.Time) error
	GetProfile(ctx context.Context, id string) (domain.Profile, error)
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate, at time.Time) (domain.Profile, error)
	SetRole(ctx context.Context, id string, role domain.UserRole, at time.Time) error
}

// QuestionRepository persists questions authored by admins.
type QuestionRepository interface {
	CreateQuestions(ctx context.Context, questions []domain.Question) ([]domain.Question, error)
}

// PoolInvalidator drops cached question pools so new questions reach the next session.
type PoolInvalidator interface {
	Invalidate(ctx context.Context, category domain.Category, class int) error
}

// NotificationRepository stores notifications and their per-user delivery rows.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n domain.Notification, recipients []string) (domain.Notification, error)
	ListForUser(ctx context.Context, userID string) ([]domain.UserNotification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}

// NewQuestion is the admin payload for one MCQ.
type NewQuestion struct {
	Category      domain.Category   `json:"category" validate:"required"`
	Class         int               `json:"class" validate:"required,min=1,max=12"`
	Subject       string            `json:"subject" validate:"required"`
	Chapter       string            `json:"chapter" validate:"required"`
	Question      string            `json:"question" validate:"required"`
	OptionA       string            `json:"optionA" validate:"required"`
	OptionB       string            `json:"optionB" validate:"required"`
	OptionC       string            `json:"optionC" validate:"required"`
	OptionD       string            `json:"optionD" validate:"required"`
	CorrectAnswer string            `json:"correctAnswer" validate:"required,oneof=A B C D"`
	Explanation   string            `json:"explanation"`
	Difficulty    domain.Difficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

// AdminService covers profile, question and notification management.
type AdminService struct {
	profiles      ProfileRepository
	questions     QuestionRepository
	pools         PoolInvalidator
	notifications NotificationRepository
	now           func() time.Time
}

// NewAdminService wires the admin stores. pools may be nil when questions are not cached.
func NewAdminService(profiles ProfileRepository, questions QuestionRepository, pools PoolInvalidator, notifications NotificationRepository) *AdminService {
	return &AdminService{profiles: profiles, questions: questions, pools: pools, notifications: notifications, now: time.Now}
}

// IsAdmin reports whether user's profile carries the admin role.
func (s *AdminService) IsAdmin(ctx context.Context, user domain.User) (bool, error) {
	profile, err := s.profiles.GetProfile(ctx, user.ID)
	if err != nil {
		return false, err
	}
	return profile.Role == domain.RoleAdmin, nil
}

// EnsureProfile creates a default profile the first time a user is seen.
func (s *AdminService) EnsureProfile(ctx context.Context, user domain.User) error {
	return s.profiles.EnsureProfile(ctx, user, s.now())
}

func (s *AdminService) Profile(ctx context.Context, user domain.User) (domain.Profile, error) {
	return s.profiles.GetProfile(ctx, user.ID)
}

// UpdateProfile edits the caller's own profile fields.
func (s *AdminService) UpdateProfile(ctx context.Context, user domain.User, update domain.ProfileUpdate) (domain.Profile, error) {
	if err := validate.Struct(update); err != nil {
		return domain.Profile{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return s.profiles.UpdateProfile(ctx, user.ID, update, s.now())
}

func (s *AdminService) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	return s.profiles.ListProfiles(ctx)
}

// SetRole promotes or demotes a user.
func (s *AdminService) SetRole(ctx context.Context, userID string, role domain.UserRole) error {
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	return s.profiles.SetRole(ctx, userID, role, s.now())
}

// CreateQuestions validates every payload before writing any of them.
func (s *AdminService) CreateQuestions(ctx context.Context, admin domain.User, payloads []NewQuestion) ([]domain.Question, error) {
	if len(payloads) == 0 {
		return nil, fmt.Errorf("%w: no questions supplied", domain.ErrInvalidInput)
	}
	now := s.now()
	questions := make([]domain.Question, 0, len(payloads))
	for i, p := range payloads {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", domain.ErrInvalidInput, i+1, err)
		}
		// IIT-JEE questions always carry a worked explanation and count as hard.
		if p.Category == domain.CategoryIITJEEQuestions {
			if strings.TrimSpace(p.Explanation) == "" {
				return nil, fmt.Errorf("%w: question %d: explanation is required for %s", domain.ErrInvalidInput, i+1, p.Category)
			}
			p.Difficulty = domain.DifficultyHard
		}
		questions = append(questions, domain.Question{
			Category:      p.Category,
			Class:         p.Class,
			Subject:       strings.TrimSpace(p.Subject),
			Chapter:       strings.TrimSpace(p.Chapter),
			Prompt:        strings.TrimSpace(p.Question),
			Options:       [4]string{p.OptionA, p.OptionB, p.OptionC, p.OptionD},
			CorrectAnswer: domain.OptionLabel(p.CorrectAnswer),
			Explanation:   p.Explanation,
			Difficulty:    p.Difficulty,
			CreatedBy:     admin.ID,
			CreatedAt:     now,
		})
	}
	created, err := s.questions.CreateQuestions(ctx, questions)
	if err != nil {
		return nil, err
	}
	s.invalidatePools(ctx, created)
	return created, nil
}

// invalidatePools drops every cached pool the batch touched. A failure only
// delays visibility until the cache entry expires, so it is logged.
func (s *AdminService) invalidatePools(ctx context.Context, questions []domain.Question) {
	if s.pools == nil {
		return
	}
	type poolKey struct {
		category domain.Category
		class    int
	}
	seen := make(map[poolKey]struct{})
	for _, q := range questions {
		key := poolKey{q.Category, q.Class}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if err := s.pools.Invalidate(ctx, q.Category, q.Class); err != nil {
			log.Printf("invalidate question pool %s/%d: %v", q.Category, q.Class, err)
		}
	}
}

// Notify creates a notification and delivers it to every profile.
func (s *AdminService) Notify(ctx context.Context, admin domain.User, n domain.Notification) (domain.Notification, error) {
	if err := validate.Struct(n); err != nil {
		return domain.Notification{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	profiles, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return domain.Notification{}, err
	}
	recipients := make([]string, 0, len(profiles))
	for _, p := range profiles {
		recipients = append(recipients, p.ID)
	}
	n.SentBy = admin.ID
	n.CreatedAt = s.now()
	return s.notifications.CreateNotification(ctx, n, recipients)
}

// Notifications lists the caller's notifications, newest first.
func (s *AdminService) Notifications(ctx context.Context, user domain.User) ([]domain.UserNotification, error) {
	return s.notifications.ListForUser(ctx, user.ID)
}

func (s *AdminService) MarkNotificationRead(ctx context.Context, user domain.User, notificationID string) error {
	return s.notifications.MarkRead(ctx, user.ID, notificationID)
}
