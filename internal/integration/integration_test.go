package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"roit-learning-service/internal/app"
	"roit-learning-service/internal/domain"
	"roit-learning-service/internal/infra/postgres"
	infraredis "roit-learning-service/internal/infra/redis"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMCQSessionEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	db := postgres.OpenBun(pgURL)
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	loader := postgres.NewQuestionLoader(pool)
	profiles := postgres.NewProfileStore(db)
	results := postgres.NewResultStore(db)

	admin := domain.User{ID: "11111111-1111-1111-1111-111111111111", Email: "admin@example.com"}
	student := domain.User{ID: "22222222-2222-2222-2222-222222222222", Email: "student@example.com"}

	bank := infraredis.NewQuestionBank(redisClient, loader, 5*time.Minute)
	adminService := app.NewAdminService(profiles, loader, bank, postgres.NewNotificationStore(db))
	for _, u := range []domain.User{admin, student} {
		if err := adminService.EnsureProfile(ctx, u); err != nil {
			t.Fatalf("ensure profile %s: %v", u.ID, err)
		}
	}
	if _, err := adminService.CreateQuestions(ctx, admin, sampleQuestions(3)); err != nil {
		t.Fatalf("create questions: %v", err)
	}

	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	service := app.NewTestService(sessions, bank, results, app.TestOptions{})
	defer service.Close()

	view, err := service.Start(ctx, student, domain.SessionConfig{
		Category:      domain.CategoryMCQTests,
		Class:         10,
		QuestionCount: 5,
		TimeLimit:     300,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if view.TotalQuestions != 3 {
		t.Fatalf("expected the whole pool of 3 questions, got %d", view.TotalQuestions)
	}

	for i := 0; i < view.TotalQuestions; i++ {
		if _, err := service.SelectAnswer(student, view.ID, domain.OptionB); err != nil {
			t.Fatalf("select %d: %v", i, err)
		}
		if i < view.TotalQuestions-1 {
			if _, err := service.Navigate(student, view.ID, app.NavNext, 0); err != nil {
				t.Fatalf("next %d: %v", i, err)
			}
		}
	}

	sub, _, err := service.Submit(ctx, student, view.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.SaveError != nil {
		t.Fatalf("save: %v", sub.SaveError)
	}
	if sub.Result.Score != 12 || sub.Result.Percentage != 100 {
		t.Fatalf("expected full marks, got %+v", sub.Result)
	}

	history, err := results.History(ctx, student.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Score != 12 || history[0].Subject != domain.DefaultSubject {
		t.Fatalf("unexpected history %+v", history)
	}

	lb, err := app.NewResultService(results, profiles).Leaderboard(ctx, student)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if lb.CurrentRank != 1 || len(lb.Entries) != 1 {
		t.Fatalf("expected student ranked first, got %+v", lb)
	}

	if _, err := adminService.CreateQuestions(ctx, admin, sampleQuestions(2)); err != nil {
		t.Fatalf("create more questions: %v", err)
	}
	again, err := service.Start(ctx, student, domain.SessionConfig{Category: domain.CategoryMCQTests, Class: 10, QuestionCount: 10, TimeLimit: 300})
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if again.TotalQuestions != 5 {
		t.Fatalf("expected the cached pool to pick up new questions, got %d", again.TotalQuestions)
	}
}

func sampleQuestions(n int) []app.NewQuestion {
	out := make([]app.NewQuestion, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, app.NewQuestion{
			Category:      domain.CategoryMCQTests,
			Class:         10,
			Subject:       "Mathematics",
			Chapter:       "Real Numbers",
			Question:      fmt.Sprintf("What is %d + %d?", i, i),
			OptionA:       fmt.Sprint(2*i - 1),
			OptionB:       fmt.Sprint(2 * i),
			OptionC:       fmt.Sprint(2*i + 1),
			OptionD:       fmt.Sprint(2*i + 2),
			CorrectAnswer: "B",
		})
	}
	return out
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "roit", "POSTGRES_PASSWORD": "roitpass", "POSTGRES_DB": "roitdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://roit:roitpass@%s:%s/roitdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
