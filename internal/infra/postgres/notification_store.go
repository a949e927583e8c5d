package postgres

import (
	"context"
	"fmt"

	"roit-learning-service/internal/domain"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NotificationStore writes notifications and fans them out to user inboxes.
type NotificationStore struct {
	db *bun.DB
}

func NewNotificationStore(db *bun.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) CreateNotification(ctx context.Context, n domain.Notification, recipients []string) (domain.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	row := notificationRow{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		Metadata:  n.Metadata,
		SentBy:    n.SentBy,
		CreatedAt: n.CreatedAt,
	}
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return err
		}
		if len(recipients) == 0 {
			return nil
		}
		inbox := make([]userNotificationRow, 0, len(recipients))
		for _, userID := range recipients {
			inbox = append(inbox, userNotificationRow{
				ID:             uuid.NewString(),
				UserID:         userID,
				NotificationID: n.ID,
				CreatedAt:      n.CreatedAt,
			})
		}
		_, err := tx.NewInsert().Model(&inbox).On("CONFLICT (user_id, notification_id) DO NOTHING").Exec(ctx)
		return err
	})
	if err != nil {
		return domain.Notification{}, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

func (s *NotificationStore) ListForUser(ctx context.Context, userID string) ([]domain.UserNotification, error) {
	var rows []userNotificationRow
	err := s.db.NewSelect().
		Model(&rows).
		Relation("Notification").
		Where("un.user_id = ?", userID).
		Order("un.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	out := make([]domain.UserNotification, 0, len(rows))
	for _, r := range rows {
		item := domain.UserNotification{
			NotificationID: r.NotificationID,
			Read:           r.Read,
			CreatedAt:      r.CreatedAt,
		}
		if r.Notification != nil {
			item.Notification = r.Notification.toDomain()
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *NotificationStore) MarkRead(ctx context.Context, userID, notificationID string) error {
	res, err := s.db.NewUpdate().
		Model((*userNotificationRow)(nil)).
		Set("read = TRUE").
		Where("user_id = ?", userID).
		Where("notification_id = ?", notificationID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}
