package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"roit-learning-service/internal/domain"
)

// ContentRepository is the study-material store.
type ContentRepository interface {
	ListContent(ctx context.Context, filter domain.ContentFilter) ([]domain.Content, error)
	GetContent(ctx context.Context, id string) (domain.Content, error)
	CreateContent(ctx context.Context, content domain.Content) (domain.Content, error)
	DeleteContent(ctx context.Context, id string) error
	RecordView(ctx context.Context, userID, contentID string, at time.Time) error
	RecordDownload(ctx context.Context, userID, contentID string, at time.Time) error
	RecentlyViewed(ctx context.Context, userID string, limit int) ([]domain.ContentActivity, error)
	Downloads(ctx context.Context, userID string, limit int) ([]domain.ContentActivity, error)
}

const defaultActivityLimit = 20

// CatalogService implements the category → class → subject → chapter browse path.
type CatalogService struct {
	content ContentRepository
	now     func() time.Time
}

func NewCatalogService(content ContentRepository) *CatalogService {
	return &CatalogService{content: content, now: time.Now}
}

func (s *CatalogService) List(ctx context.Context, filter domain.ContentFilter) ([]domain.Content, error) {
	return s.content.ListContent(ctx, filter)
}

func (s *CatalogService) Get(ctx context.Context, id string) (domain.Content, error) {
	return s.content.GetContent(ctx, id)
}

// Subjects returns the distinct subjects available for a category and class.
func (s *CatalogService) Subjects(ctx context.Context, category domain.Category, class int) ([]string, error) {
	items, err := s.content.ListContent(ctx, domain.ContentFilter{Category: category, Class: class})
	if err != nil {
		return nil, err
	}
	return distinct(items, func(c domain.Content) string { return c.Subject }), nil
}

// Chapters returns the distinct chapters of a subject.
func (s *CatalogService) Chapters(ctx context.Context, category domain.Category, class int, subject string) ([]string, error) {
	items, err := s.content.ListContent(ctx, domain.ContentFilter{Category: category, Class: class, Subject: subject})
	if err != nil {
		return nil, err
	}
	return distinct(items, func(c domain.Content) string { return c.Chapter }), nil
}

// RecordView marks content as recently viewed by user.
func (s *CatalogService) RecordView(ctx context.Context, user domain.User, contentID string) error {
	if _, err := s.content.GetContent(ctx, contentID); err != nil {
		return err
	}
	return s.content.RecordView(ctx, user.ID, contentID, s.now())
}

// RecordDownload logs a download of content by user.
func (s *CatalogService) RecordDownload(ctx context.Context, user domain.User, contentID string) error {
	if _, err := s.content.GetContent(ctx, contentID); err != nil {
		return err
	}
	return s.content.RecordDownload(ctx, user.ID, contentID, s.now())
}

func (s *CatalogService) RecentlyViewed(ctx context.Context, user domain.User) ([]domain.ContentActivity, error) {
	return s.content.RecentlyViewed(ctx, user.ID, defaultActivityLimit)
}

func (s *CatalogService) Downloads(ctx context.Context, user domain.User) ([]domain.ContentActivity, error) {
	return s.content.Downloads(ctx, user.ID, defaultActivityLimit)
}

// Create stores new content metadata uploaded by an admin.
func (s *CatalogService) Create(ctx context.Context, admin domain.User, content domain.Content) (domain.Content, error) {
	if err := validate.Struct(content); err != nil {
		return domain.Content{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	now := s.now()
	content.UploadedBy = admin.ID
	content.CreatedAt = now
	content.UpdatedAt = now
	return s.content.CreateContent(ctx, content)
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	return s.content.DeleteContent(ctx, id)
}

func distinct(items []domain.Content, key func(domain.Content) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, item := range items {
		k := key(item)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
