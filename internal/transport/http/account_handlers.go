package http

import (
	"net/http"

	"roit-learning-service/internal/app"
	"roit-learning-service/internal/domain"

	"github.com/go-chi/chi/v5"
)

func HistoryHandler(results *app.ResultService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := results.History(r.Context(), mustUser(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func LeaderboardHandler(results *app.ResultService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lb, err := results.Leaderboard(r.Context(), mustUser(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lb)
	}
}

func GetProfileHandler(admin *app.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := admin.Profile(r.Context(), mustUser(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func UpdateProfileHandler(admin *app.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update domain.ProfileUpdate
		if err := decodeJSON(r, &update); err != nil {
			writeError(w, err)
			return
		}
		profile, err := admin.UpdateProfile(r.Context(), mustUser(r), update)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func NotificationsHandler(admin *app.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := admin.Notifications(r.Context(), mustUser(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func MarkReadHandler(admin *app.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := admin.MarkNotificationRead(r.Context(), mustUser(r), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
