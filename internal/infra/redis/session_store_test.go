package redis

import (
	"testing"
	"time"

	"roit-learning-service/internal/app"
	"roit-learning-service/internal/domain"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	cfg := domain.SessionConfig{Category: domain.CategoryMCQTests, Class: 10, QuestionCount: 5, TimeLimit: 300}
	session := app.NewTestSession("s-1", domain.User{ID: "u1"}, cfg, nil)
	store.Put(session)

	if !mr.Exists("test:session:s-1") {
		t.Fatalf("expected redis key to be set")
	}
	if owner, _ := mr.Get("test:session:s-1"); owner != "u1" {
		t.Fatalf("expected owner marker u1, got %q", owner)
	}
	if ttl := mr.TTL("test:session:s-1"); ttl != time.Minute+300*time.Second {
		t.Fatalf("expected ttl to cover the time limit, got %v", ttl)
	}
	if got, ok := store.Get("s-1"); !ok || got != session {
		t.Fatalf("expected to get the stored session back")
	}

	store.Delete("s-1")
	if mr.Exists("test:session:s-1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get("s-1"); ok {
		t.Fatalf("expected session to be gone")
	}
}
