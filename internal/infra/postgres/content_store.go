package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"roit-learning-service/internal/domain"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ContentStore serves the catalog and per-user activity from Postgres.
type ContentStore struct {
	db *bun.DB
}

func NewContentStore(db *bun.DB) *ContentStore {
	return &ContentStore{db: db}
}

func (s *ContentStore) ListContent(ctx context.Context, filter domain.ContentFilter) ([]domain.Content, error) {
	var rows []contentRow
	q := s.db.NewSelect().Model(&rows)
	if filter.Category != "" {
		q = q.Where("category = ?", string(filter.Category))
	}
	if filter.Class != 0 {
		q = q.Where("class = ?", filter.Class)
	}
	if filter.Subject != "" {
		q = q.Where("subject = ?", filter.Subject)
	}
	if filter.Chapter != "" {
		q = q.Where("chapter = ?", filter.Chapter)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("title ILIKE ?", pattern).WhereOr("description ILIKE ?", pattern)
		})
	}
	if err := q.Order("created_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	out := make([]domain.Content, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *ContentStore) GetContent(ctx context.Context, id string) (domain.Content, error) {
	var row contentRow
	err := s.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Content{}, domain.ErrContentNotFound
	}
	if err != nil {
		return domain.Content{}, fmt.Errorf("get content: %w", err)
	}
	return row.toDomain(), nil
}

func (s *ContentStore) CreateContent(ctx context.Context, content domain.Content) (domain.Content, error) {
	if content.ID == "" {
		content.ID = uuid.NewString()
	}
	row := newContentRow(content)
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return domain.Content{}, fmt.Errorf("create content: %w", err)
	}
	return content, nil
}

func (s *ContentStore) DeleteContent(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().Model((*contentRow)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrContentNotFound
	}
	return nil
}

func (s *ContentStore) RecordView(ctx context.Context, userID, contentID string, at time.Time) error {
	row := viewRow{ID: uuid.NewString(), UserID: userID, ContentID: contentID, ViewedAt: at}
	_, err := s.db.NewInsert().
		Model(&row).
		On("CONFLICT (user_id, content_id) DO UPDATE").
		Set("viewed_at = EXCLUDED.viewed_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	return nil
}

func (s *ContentStore) RecordDownload(ctx context.Context, userID, contentID string, at time.Time) error {
	row := downloadRow{ID: uuid.NewString(), UserID: userID, ContentID: contentID, DownloadedAt: at}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("record download: %w", err)
	}
	return nil
}

func (s *ContentStore) RecentlyViewed(ctx context.Context, userID string, limit int) ([]domain.ContentActivity, error) {
	var rows []viewRow
	err := s.db.NewSelect().
		Model(&rows).
		Relation("Content").
		Where("v.user_id = ?", userID).
		Order("v.viewed_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("recently viewed: %w", err)
	}
	out := make([]domain.ContentActivity, 0, len(rows))
	for _, r := range rows {
		out = append(out, activity(r.ContentID, r.ViewedAt, r.Content))
	}
	return out, nil
}

func (s *ContentStore) Downloads(ctx context.Context, userID string, limit int) ([]domain.ContentActivity, error) {
	var rows []downloadRow
	err := s.db.NewSelect().
		Model(&rows).
		Relation("Content").
		Where("d.user_id = ?", userID).
		Order("d.downloaded_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("downloads: %w", err)
	}
	out := make([]domain.ContentActivity, 0, len(rows))
	for _, r := range rows {
		out = append(out, activity(r.ContentID, r.DownloadedAt, r.Content))
	}
	return out, nil
}

func activity(contentID string, at time.Time, row *contentRow) domain.ContentActivity {
	a := domain.ContentActivity{ContentID: contentID, At: at}
	if row != nil {
		c := row.toDomain()
		a.Content = &c
	}
	return a
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes search match literally inside an ILIKE pattern, the same
// way the in-memory store does a plain substring match.
func escapeLike(search string) string {
	return likeEscaper.Replace(search)
}
