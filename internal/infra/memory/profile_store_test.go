package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"roit-learning-service/internal/domain"
)

func TestProfileStoreEnsureUpdateAndRole(t *testing.T) {
	store := NewProfileStore()
	ctx := context.Background()
	at := time.Date(2024, 11, 22, 8, 0, 0, 0, time.UTC)
	user := domain.User{ID: "u1", Email: "u1@example.com"}

	if err := store.EnsureProfile(ctx, user, at); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if _, err := store.UpdateProfile(ctx, "u1", domain.ProfileUpdate{FullName: "Asha", Pincode: "110001"}, at.Add(time.Hour)); err != nil {
		t.Fatalf("update: %v", err)
	}
	// a second ensure must not reset the profile
	if err := store.EnsureProfile(ctx, user, at.Add(2*time.Hour)); err != nil {
		t.Fatalf("ensure again: %v", err)
	}

	p, err := store.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.FullName != "Asha" || p.Role != domain.RoleUser || !p.CreatedAt.Equal(at) {
		t.Fatalf("unexpected profile %+v", p)
	}

	if err := store.SetRole(ctx, "u1", domain.RoleAdmin, at); err != nil {
		t.Fatalf("set role: %v", err)
	}
	if p, _ := store.GetProfile(ctx, "u1"); p.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", p.Role)
	}
	if err := store.SetRole(ctx, "ghost", domain.RoleAdmin, at); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestNotificationStoreDeliversAndMarksRead(t *testing.T) {
	store := NewNotificationStore()
	ctx := context.Background()

	n, err := store.CreateNotification(ctx, domain.Notification{Title: "New notes", Message: "Physics", Type: domain.NotificationNewContent}, []string{"u1", "u2"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n.ID == "" {
		t.Fatalf("expected id to be assigned")
	}

	inbox, _ := store.ListForUser(ctx, "u2")
	if len(inbox) != 1 || inbox[0].Read {
		t.Fatalf("expected one unread notification, got %+v", inbox)
	}
	if err := store.MarkRead(ctx, "u2", n.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	inbox, _ = store.ListForUser(ctx, "u2")
	if !inbox[0].Read {
		t.Fatalf("expected read flag")
	}
	if other, _ := store.ListForUser(ctx, "u1"); other[0].Read {
		t.Fatalf("read flag must be per user")
	}
	if err := store.MarkRead(ctx, "u3", n.ID); !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
}
