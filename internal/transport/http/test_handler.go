package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"roit-learning-service/internal/app"
	"roit-learning-service/internal/domain"

	"github.com/go-chi/chi/v5"
)

const saveTimeout = 10 * time.Second

// TestHandler exposes the MCQ test session over REST.
type TestHandler struct {
	service *app.TestService
}

func NewTestHandler(service *app.TestService) *TestHandler {
	return &TestHandler{service: service}
}

type answerRequest struct {
	Option domain.OptionLabel `json:"option"`
}

type navigateRequest struct {
	Action app.NavAction `json:"action"`
	Index  int           `json:"index"`
}

type submitResponse struct {
	Error     string                `json:"error,omitempty"`
	Result    *domain.ResultSummary `json:"result"`
	SaveError string                `json:"saveError,omitempty"`
	Session   domain.SessionView    `json:"session"`
}

func (h *TestHandler) Start(w http.ResponseWriter, r *http.Request) {
	var cfg domain.SessionConfig
	if err := decodeJSON(r, &cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "configuration_required", Message: err.Error()})
		return
	}
	view, err := h.service.Start(r.Context(), mustUser(r), cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *TestHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(mustUser(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *TestHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.service.SelectAnswer(mustUser(r), chi.URLParam(r, "id"), req.Option)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *TestHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.service.Navigate(mustUser(r), chi.URLParam(r, "id"), req.Action, req.Index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Submit returns the summary even when persisting it failed; saveError
// carries the failure so the client can show a notice.
func (h *TestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := saveContext(r)
	defer cancel()
	submission, view, err := h.service.Submit(ctx, mustUser(r), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrSessionNotActive) && view.Result != nil {
		writeJSON(w, http.StatusConflict, newSubmitResponse(submission, view, "session_not_active"))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSubmitResponse(submission, view, ""))
}

func (h *TestHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Abandon(mustUser(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// saveContext outlives the request, so a client that disconnects while
// submitting cannot cancel the result write.
func saveContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), saveTimeout)
}

func newSubmitResponse(sub app.Submission, view domain.SessionView, code string) submitResponse {
	result := sub.Result
	resp := submitResponse{Error: code, Result: &result, Session: view}
	if sub.SaveError != nil {
		resp.SaveError = sub.SaveError.Error()
	}
	return resp
}
