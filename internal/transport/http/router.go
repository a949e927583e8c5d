package http

import (
	"context"
	"net/http"

	"roit-learning-service/internal/app"
	"roit-learning-service/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Chatter answers AI helper conversations.
type Chatter interface {
	Chat(ctx context.Context, messages []domain.ChatMessage) (string, error)
}

// Services bundles the use cases exposed over HTTP. AI may be nil when no
// endpoint is configured.
type Services struct {
	Tests   *app.TestService
	Results *app.ResultService
	Catalog *app.CatalogService
	Admin   *app.AdminService
	AI      Chatter
}

type RouterConfig struct {
	AllowedOrigins []string
}

// NewRouter mounts every route behind request logging, CORS and bearer auth.
func NewRouter(svc Services, auth *Authenticator, cfg RouterConfig) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Client-Info", "Apikey"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	tests := NewTestHandler(svc.Tests)
	ws := NewWSHandler(svc.Tests)

	r.Route("/api", func(api chi.Router) {
		api.Use(auth.Middleware)

		api.Route("/tests", func(tr chi.Router) {
			tr.Post("/", tests.Start)
			tr.Get("/{id}", tests.Get)
			tr.Delete("/{id}", tests.Abandon)
			tr.Post("/{id}/answer", tests.Answer)
			tr.Post("/{id}/navigate", tests.Navigate)
			tr.Post("/{id}/submit", tests.Submit)
			tr.Get("/{id}/ws", ws.ServeWS)
		})

		api.Get("/results", HistoryHandler(svc.Results))
		api.Get("/leaderboard", LeaderboardHandler(svc.Results))

		api.Get("/content", ListContentHandler(svc.Catalog))
		api.Get("/content/{id}", GetContentHandler(svc.Catalog))
		api.Post("/content/{id}/view", RecordViewHandler(svc.Catalog))
		api.Post("/content/{id}/download", RecordDownloadHandler(svc.Catalog))
		api.Get("/catalog/subjects", SubjectsHandler(svc.Catalog))
		api.Get("/catalog/chapters", ChaptersHandler(svc.Catalog))

		api.Get("/me/profile", GetProfileHandler(svc.Admin))
		api.Put("/me/profile", UpdateProfileHandler(svc.Admin))
		api.Get("/me/recently-viewed", RecentlyViewedHandler(svc.Catalog))
		api.Get("/me/downloads", DownloadsHandler(svc.Catalog))

		api.Get("/notifications", NotificationsHandler(svc.Admin))
		api.Post("/notifications/{id}/read", MarkReadHandler(svc.Admin))

		api.Post("/ai/chat", ChatHandler(svc.AI))

		api.Route("/admin", func(ar chi.Router) {
			ar.Use(RequireAdmin(svc.Admin))
			ar.Post("/questions", CreateQuestionsHandler(svc.Admin))
			ar.Post("/content", CreateContentHandler(svc.Catalog))
			ar.Delete("/content/{id}", DeleteContentHandler(svc.Catalog))
			ar.Get("/profiles", ListProfilesHandler(svc.Admin))
			ar.Put("/profiles/{id}/role", SetRoleHandler(svc.Admin))
			ar.Post("/notifications", NotifyHandler(svc.Admin))
		})
	})
	return r
}

func mustUser(r *http.Request) domain.User {
	user, _ := UserFrom(r.Context())
	return user
}
