package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roit-learning-service/internal/aihelper"
	"roit-learning-service/internal/app"
	"roit-learning-service/internal/config"
	"roit-learning-service/internal/infra/memory"
	"roit-learning-service/internal/infra/postgres"
	redisstore "roit-learning-service/internal/infra/redis"
	transport "roit-learning-service/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
)

const devJWTSecret = "roit-dev-secret"

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the learning service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// stores groups the persistence adapters chosen at startup.
type stores struct {
	results       app.ResultRepository
	content       app.ContentRepository
	profiles      app.ProfileRepository
	notifications app.NotificationRepository
	questions     app.QuestionRepository
	loader        memory.QuestionLoader
}

func memoryStores() stores {
	loader := memory.NewStaticQuestionLoader(sampleQuestions())
	return stores{
		results:       memory.NewResultStore(),
		content:       memory.NewContentStore(sampleContent()...),
		profiles:      memory.NewProfileStore(),
		notifications: memory.NewNotificationStore(),
		questions:     loader,
		loader:        loader,
	}
}

func postgresStores(db *bun.DB, pool *pgxpool.Pool) stores {
	loader := postgres.NewQuestionLoader(pool)
	return stores{
		results:       postgres.NewResultStore(db),
		content:       postgres.NewContentStore(db),
		profiles:      postgres.NewProfileStore(db),
		notifications: postgres.NewNotificationStore(db),
		questions:     loader,
		loader:        loader,
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	st := memoryStores()
	if cfg.Postgres.URL != "" {
		db := postgres.OpenBun(cfg.Postgres.URL)
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		st = postgresStores(db, pool)
	} else {
		log.Printf("postgres not configured, using in-memory stores with sample data")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)

	var bank interface {
		app.QuestionBank
		app.PoolInvalidator
	}
	var sessions app.SessionRepository
	if redisClient != nil {
		bank = redisstore.NewQuestionBank(redisClient, st.loader, questionTTL)
		sessions = redisstore.NewSessionStore(redisClient, redisTTL)
	} else {
		bank = memory.NewQuestionBank(st.loader, questionTTL)
		sessions = memory.NewSessionStore()
	}

	tests := app.NewTestService(sessions, bank, st.results, app.TestOptions{
		TickInterval:         config.TTLDuration(cfg.Tests.Tick, time.Second),
		Retention:            config.TTLDuration(cfg.Tests.Retention, 10*time.Minute),
		DefaultQuestionCount: cfg.Tests.DefaultQuestionCount,
		DefaultTimeLimit:     cfg.Tests.DefaultTimeLimit,
	})
	defer tests.Close()

	admin := app.NewAdminService(st.profiles, st.questions, bank, st.notifications)
	services := transport.Services{
		Tests:   tests,
		Results: app.NewResultService(st.results, st.profiles),
		Catalog: app.NewCatalogService(st.content),
		Admin:   admin,
	}
	if cfg.AI.Endpoint != "" {
		services.AI = aihelper.NewClient(cfg.AI.Endpoint, cfg.AI.APIKey, cfg.AI.SystemPrompt, nil)
	}

	auth := transport.NewAuthenticator(jwtSecret(cfg), admin)
	handler := transport.NewRouter(services, auth, transport.RouterConfig{AllowedOrigins: cfg.CORS.AllowedOrigins})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("starting learning service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func jwtSecret(cfg config.Config) string {
	if cfg.Auth.JWTSecret != "" {
		return cfg.Auth.JWTSecret
	}
	log.Printf("auth.jwt_secret not set, using the development secret")
	return devJWTSecret
}
