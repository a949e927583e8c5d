package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"roit-learning-service/internal/app"
	"roit-learning-service/internal/domain"
	"roit-learning-service/internal/infra/memory"
)

func newTestService(t *testing.T, bank app.QuestionBank, saver app.ResultSaver, clock *fakeClock) (*app.TestService, *memory.SessionStore) {
	t.Helper()
	store := memory.NewSessionStore()
	service := app.NewTestServiceWithClock(store, bank, saver, app.TestOptions{Retention: time.Hour}, clock.Now)
	t.Cleanup(service.Close)
	return service, store
}

func TestStartValidatesConfiguration(t *testing.T) {
	bank := &staticBank{questions: questions(5)}
	service, store := newTestService(t, bank, &recordingSaver{}, newFakeClock())

	cases := []domain.SessionConfig{
		{Class: 10},
		{Category: domain.CategoryMCQTests},
		{Category: "astrology", Class: 10},
		{Category: domain.CategoryMCQTests, Class: 13},
	}
	for _, cfg := range cases {
		if _, err := service.Start(context.Background(), student, cfg); !errors.Is(err, domain.ErrInvalidConfig) {
			t.Fatalf("config %+v: expected ErrInvalidConfig, got %v", cfg, err)
		}
	}
	if bank.calls != 0 {
		t.Fatalf("invalid configs must not reach the question bank, got %d calls", bank.calls)
	}
	if store.Len() != 0 {
		t.Fatalf("no session should be stored")
	}
}

func TestStartAppliesDefaults(t *testing.T) {
	service, store := newTestService(t, &staticBank{questions: questions(15)}, &recordingSaver{}, newFakeClock())

	view, err := service.Start(context.Background(), student, domain.SessionConfig{Category: domain.CategoryMCQTests, Class: 10})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if view.Config.QuestionCount != 10 || view.Config.TimeLimit != 600 {
		t.Fatalf("expected defaults 10/600, got %+v", view.Config)
	}
	if view.TotalQuestions != 10 || view.RemainingSeconds != 600 {
		t.Fatalf("unexpected view %+v", view)
	}
	if store.Len() != 1 {
		t.Fatalf("expected session to be stored")
	}
}

func TestStartWithNoQuestionsIsNotStored(t *testing.T) {
	service, store := newTestService(t, &staticBank{}, &recordingSaver{}, newFakeClock())

	view, err := service.Start(context.Background(), student, config(10, 600))
	if !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
	if view.State != domain.StateTerminated || view.Outcome != domain.OutcomeNoQuestions {
		t.Fatalf("expected terminated/no_questions view, got %+v", view)
	}
	if store.Len() != 0 {
		t.Fatalf("terminated-on-load sessions must not be stored")
	}
}

func TestServiceFlowAndOwnership(t *testing.T) {
	clock := newFakeClock()
	saver := &recordingSaver{}
	service, _ := newTestService(t, &staticBank{questions: questions(3)}, saver, clock)
	ctx := context.Background()

	view, err := service.Start(ctx, student, config(3, 120))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.View(domain.User{ID: "someone-else"}, view.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("other users must not see the session, got %v", err)
	}

	if _, err := service.SelectAnswer(student, view.ID, domain.OptionB); err != nil {
		t.Fatalf("select: %v", err)
	}
	view, err = service.Navigate(student, view.ID, app.NavJump, 2)
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if view.CurrentIndex != 2 {
		t.Fatalf("expected index 2, got %d", view.CurrentIndex)
	}
	if _, err := service.Navigate(student, view.ID, "sideways", 0); err == nil {
		t.Fatalf("expected unsupported navigation error")
	}

	clock.Advance(20 * time.Second)
	sub, view, err := service.Submit(ctx, student, view.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.Result.Score != 4 || sub.Result.TimeTaken != 20 {
		t.Fatalf("unexpected result %+v", sub.Result)
	}
	if view.Result == nil || *view.Result != sub.Result {
		t.Fatalf("view should carry the result")
	}

	again, _, err := service.Submit(ctx, student, view.ID)
	if !errors.Is(err, domain.ErrSessionNotActive) {
		t.Fatalf("second submit should fail, got %v", err)
	}
	if again.Result != sub.Result {
		t.Fatalf("second submit should report the original result")
	}
	if len(saver.saved()) != 1 {
		t.Fatalf("expected one save, got %d", len(saver.saved()))
	}
}

func TestAbandonForgetsSession(t *testing.T) {
	service, store := newTestService(t, &staticBank{questions: questions(3)}, &recordingSaver{}, newFakeClock())

	view, err := service.Start(context.Background(), student, config(3, 120))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := service.Abandon(student, view.ID); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("abandoned session should be removed")
	}
	if _, err := service.View(student, view.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestTerminatedSessionsAreEvictedAfterRetention(t *testing.T) {
	store := memory.NewSessionStore()
	saver := &recordingSaver{}
	service := app.NewTestService(store, &staticBank{questions: questions(1)}, saver, app.TestOptions{
		TickInterval: 10 * time.Millisecond,
		Retention:    50 * time.Millisecond,
	})
	defer service.Close()

	view, err := service.Start(context.Background(), student, config(1, 1))
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for store.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("session %s was not evicted", view.ID)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(saver.saved()) != 1 {
		t.Fatalf("expected the clock to auto submit before eviction")
	}
}
