package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"roit-learning-service/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches the full question pool for a category and class from a backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, category domain.Category, class int) ([]domain.Question, error)
}

// QuestionBank caches question pools with TTL and deals a shuffled subset per test.
type QuestionBank struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedPool
}

type cachedPool struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionBank(loader QuestionLoader, ttl time.Duration) *QuestionBank {
	return &QuestionBank{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedPool),
	}
}

// FetchQuestions returns up to limit questions in random order. A missing pool is an empty result.
func (b *QuestionBank) FetchQuestions(ctx context.Context, category domain.Category, class, limit int) ([]domain.Question, error) {
	pool, err := b.pool(ctx, category, class)
	if err != nil {
		return nil, err
	}
	return Deal(pool, limit, b.shuffle), nil
}

func (b *QuestionBank) pool(ctx context.Context, category domain.Category, class int) ([]domain.Question, error) {
	key := PoolKey(category, class)
	now := b.clock()

	b.mu.RLock()
	if entry, ok := b.cache[key]; ok && entry.expiresAt.After(now) {
		b.mu.RUnlock()
		return entry.questions, nil
	}
	b.mu.RUnlock()

	result, err, _ := b.sf.Do(key, func() (interface{}, error) {
		now := b.clock()
		b.mu.RLock()
		if entry, ok := b.cache[key]; ok && entry.expiresAt.After(now) {
			b.mu.RUnlock()
			return entry.questions, nil
		}
		b.mu.RUnlock()

		questions, err := b.loader.LoadQuestions(ctx, category, class)
		if err != nil {
			return nil, err
		}

		if len(questions) == 0 {
			// not cached so newly authored questions show up at once
			return questions, nil
		}
		b.mu.Lock()
		b.cache[key] = cachedPool{
			questions: questions,
			expiresAt: now.Add(b.ttlWithJitter()),
		}
		b.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Invalidate drops a cached pool after admins add questions to it.
func (b *QuestionBank) Invalidate(_ context.Context, category domain.Category, class int) error {
	b.mu.Lock()
	delete(b.cache, PoolKey(category, class))
	b.mu.Unlock()
	return nil
}

func (b *QuestionBank) shuffle(n int, swap func(i, j int)) {
	b.rndMu.Lock()
	b.rnd.Shuffle(n, swap)
	b.rndMu.Unlock()
}

func (b *QuestionBank) ttlWithJitter() time.Duration {
	if b.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(b.ttl) / 10
	b.rndMu.Lock()
	defer b.rndMu.Unlock()
	return b.ttl + time.Duration(b.rnd.Int63n(jitterMax+1))
}

// PoolKey names the cache slot for a category and class.
func PoolKey(category domain.Category, class int) string {
	return string(category) + ":" + strconv.Itoa(class)
}

// Deal copies pool, shuffles the copy and truncates it to limit (all when limit <= 0).
func Deal(pool []domain.Question, limit int, shuffle func(n int, swap func(i, j int))) []domain.Question {
	out := make([]domain.Question, len(pool))
	copy(out, pool)
	if shuffle != nil {
		shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// StaticQuestionLoader serves questions from memory; it doubles as the dev-mode question store.
type StaticQuestionLoader struct {
	mu        sync.RWMutex
	questions []domain.Question
}

func NewStaticQuestionLoader(questions []domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{questions: questions}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context, category domain.Category, class int) ([]domain.Question, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Question, 0)
	for _, q := range l.questions {
		if q.Category == category && q.Class == class {
			out = append(out, q)
		}
	}
	return out, nil
}

// CreateQuestions assigns ids and appends to the pool.
func (l *StaticQuestionLoader) CreateQuestions(_ context.Context, questions []domain.Question) ([]domain.Question, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	created := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		l.questions = append(l.questions, q)
		created = append(created, q)
	}
	return created, nil
}
