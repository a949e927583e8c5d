package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"roit-learning-service/internal/app"
	"roit-learning-service/internal/domain"
	"roit-learning-service/internal/infra/memory"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// contextSaver fails the write when its context is already cancelled.
type contextSaver struct {
	calls int
}

func (s *contextSaver) SaveResult(ctx context.Context, _ domain.ResultRecord) error {
	s.calls++
	return ctx.Err()
}

func TestNavigateRejectsUnknownAction(t *testing.T) {
	env := newTestEnv(t)
	var view domain.SessionView
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/tests", "u1", map[string]any{"category": "mcq_tests", "class": 10}, &view))

	var body errorBody
	status := env.do(t, http.MethodPost, "/api/tests/"+view.ID+"/navigate", "u1", map[string]any{"action": "sideways"}, &body)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "invalid_input", body.Error)
}

func TestAdminQuestionsReachTheNextSession(t *testing.T) {
	env := newTestEnv(t)
	cfg := map[string]any{"category": "mcq_tests", "class": 10, "questionCount": 50}

	var first domain.SessionView
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/tests", "u1", cfg, &first))
	require.Equal(t, 5, first.TotalQuestions)

	questions := make([]map[string]any, 0, 3)
	for i := 1; i <= 3; i++ {
		questions = append(questions, map[string]any{
			"category": "mcq_tests", "class": 10, "subject": "Physics", "chapter": "Motion",
			"question": fmt.Sprintf("New question %d?", i),
			"optionA": "a", "optionB": "b", "optionC": "c", "optionD": "d",
			"correctAnswer": "A",
		})
	}
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/admin/questions", "admin-1", map[string]any{"questions": questions}, nil))

	var second domain.SessionView
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/tests", "u1", cfg, &second))
	require.Equal(t, 8, second.TotalQuestions)
}

func TestSubmitSavesAfterClientDisconnects(t *testing.T) {
	saver := &contextSaver{}
	bank := memory.NewQuestionBank(memory.NewStaticQuestionLoader(sampleQuestions(2)), time.Minute)
	tests := app.NewTestService(memory.NewSessionStore(), bank, saver, app.TestOptions{})
	t.Cleanup(tests.Close)

	user := domain.User{ID: "u1"}
	view, err := tests.Start(context.Background(), user, domain.SessionConfig{Category: domain.CategoryMCQTests, Class: 10, QuestionCount: 2, TimeLimit: 60})
	require.NoError(t, err)

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", view.ID)
	ctx := context.WithValue(context.Background(), ctxKey{}, user)
	ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	ctx, cancel := context.WithCancel(ctx)
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/api/tests/"+view.ID+"/submit", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	NewTestHandler(tests).Submit(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body submitResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Empty(t, body.SaveError)
	require.Equal(t, 1, saver.calls)
}
