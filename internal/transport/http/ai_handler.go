package http

import (
	"net/http"

	"roit-learning-service/internal/domain"
)

type chatResponse struct {
	Response string `json:"response"`
	Success  bool   `json:"success"`
}

// ChatHandler relays a conversation to the AI helper. Nothing is stored.
func ChatHandler(ai Chatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ai == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "ai_unavailable", Message: "AI helper is not configured"})
			return
		}
		var req struct {
			Messages []domain.ChatMessage `json:"messages"`
		}
		if err := decodeJSON(r, &req); err != nil || req.Messages == nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_input", Message: "messages are required"})
			return
		}
		reply, err := ai.Chat(r.Context(), req.Messages)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, chatResponse{Response: reply, Success: true})
	}
}
