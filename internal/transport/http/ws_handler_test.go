package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"roit-learning-service/internal/domain"

	"github.com/gorilla/websocket"
)

func TestWebSocketAnswerAndSubmitFlow(t *testing.T) {
	env := newTestEnv(t)
	user := domain.User{ID: "u1", Email: "u1@example.com"}

	view, err := env.tests.Start(context.Background(), user, domain.SessionConfig{
		Category:      domain.CategoryMCQTests,
		Class:         10,
		QuestionCount: 3,
		TimeLimit:     120,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	u := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/api/tests/" + view.ID + "/ws?access_token=" + env.token(t, user.ID)
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect the current state first.
	typ, payload := readNext(conn, t, "state")
	var state domain.SessionView
	decode(t, payload, &state)
	if state.State != domain.StateActive || state.Question == nil {
		t.Fatalf("expected active state with a question, got %+v", state)
	}
	firstID := state.Question.ID

	send(t, conn, map[string]any{"type": "answer", "payload": map[string]any{"option": "A"}})
	answered := false
	for i := 0; i < 5 && !answered; i++ {
		typ, payload = readNext(conn, t, "")
		if typ != "state" {
			continue
		}
		decode(t, payload, &state)
		answered = state.Answers[firstID] == domain.OptionA
	}
	if !answered {
		t.Fatalf("answer for %s never appeared in pushed state", firstID)
	}

	send(t, conn, map[string]any{"type": "answer", "payload": map[string]any{"option": "Z"}})
	sawError := false
	for i := 0; i < 5 && !sawError; i++ {
		typ, _ = readNext(conn, t, "")
		sawError = typ == "error"
	}
	if !sawError {
		t.Fatalf("expected an error for an invalid option")
	}

	send(t, conn, map[string]any{"type": "submit"})
	var result submitResponse
	gotResult := false
	for i := 0; i < 10 && !gotResult; i++ {
		typ, payload = readNext(conn, t, "")
		if typ == "result" {
			decode(t, payload, &result)
			gotResult = true
		}
	}
	if !gotResult {
		t.Fatalf("expected a result message after submit")
	}
	if result.Result == nil || result.Result.Score != 4 || result.Result.TotalMarks != 12 {
		t.Fatalf("unexpected result %+v", result.Result)
	}
	if result.Session.State != domain.StateTerminated || result.Session.Outcome != domain.OutcomeSubmitted {
		t.Fatalf("expected terminated/submitted, got %s/%s", result.Session.State, result.Session.Outcome)
	}
}

func TestWebSocketRejectsForeignSession(t *testing.T) {
	env := newTestEnv(t)
	view, err := env.tests.Start(context.Background(), domain.User{ID: "owner"}, domain.SessionConfig{Category: domain.CategoryMCQTests, Class: 10})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	u := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/api/tests/" + view.ID + "/ws?access_token=" + env.token(t, "intruder")
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", resp)
	}
}

func send(t *testing.T, conn *websocket.Conn, msg any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, json.RawMessage) {
	t.Helper()
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

func decode(t *testing.T, raw json.RawMessage, v any) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
}
