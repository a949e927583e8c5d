package http

import (
	"net/http"

	"roit-learning-service/internal/app"
	"roit-learning-service/internal/domain"

	"github.com/go-chi/chi/v5"
)

// CreateQuestionsHandler accepts {"questions":[...]} and stores them all or none.
func CreateQuestionsHandler(admin *app.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Questions []app.NewQuestion `json:"questions"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		created, err := admin.CreateQuestions(r.Context(), mustUser(r), req.Questions)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"created": len(created), "questions": created})
	}
}

func ListProfilesHandler(admin *app.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := admin.ListProfiles(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profiles)
	}
}

func SetRoleHandler(admin *app.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Role domain.UserRole `json:"role"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		userID := chi.URLParam(r, "id")
		if err := admin.SetRole(r.Context(), userID, req.Role); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user_id": userID, "role": req.Role})
	}
}

func NotifyHandler(admin *app.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var n domain.Notification
		if err := decodeJSON(r, &n); err != nil {
			writeError(w, err)
			return
		}
		created, err := admin.Notify(r.Context(), mustUser(r), n)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}
