package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roit-learning-service/internal/domain"

	"github.com/uptrace/bun"
)

// ProfileStore reads and edits the profiles table.
type ProfileStore struct {
	db *bun.DB
}

func NewProfileStore(db *bun.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) EnsureProfile(ctx context.Context, user domain.User, at time.Time) error {
	row := profileRow{
		ID:        user.ID,
		Email:     user.Email,
		Role:      string(domain.RoleUser),
		CreatedAt: at,
		UpdatedAt: at,
	}
	if _, err := s.db.NewInsert().Model(&row).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
		return fmt.Errorf("ensure profile: %w", err)
	}
	return nil
}

func (s *ProfileStore) GetProfile(ctx context.Context, id string) (domain.Profile, error) {
	var row profileRow
	err := s.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return row.toDomain(), nil
}

func (s *ProfileStore) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	var rows []profileRow
	if err := s.db.NewSelect().Model(&rows).Order("created_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	out := make([]domain.Profile, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *ProfileStore) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate, at time.Time) (domain.Profile, error) {
	row := profileRow{
		ID:              id,
		FullName:        update.FullName,
		Phone:           update.Phone,
		ProfilePhotoURL: update.ProfilePhotoURL,
		StudentClass:    update.StudentClass,
		SchoolName:      update.SchoolName,
		City:            update.City,
		Pincode:         update.Pincode,
		UpdatedAt:       at,
	}
	res, err := s.db.NewUpdate().
		Model(&row).
		Column("full_name", "phone", "profile_photo_url", "student_class", "school_name", "city", "pincode", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	return s.GetProfile(ctx, id)
}

func (s *ProfileStore) SetRole(ctx context.Context, id string, role domain.UserRole, at time.Time) error {
	res, err := s.db.NewUpdate().
		Model((*profileRow)(nil)).
		Set("role = ?", string(role)).
		Set("updated_at = ?", at).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
