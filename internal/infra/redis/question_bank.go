package redis

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"roit-learning-service/internal/domain"
	"roit-learning-service/internal/infra/memory"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionBank caches question pools in Redis and falls back to a loader on a miss.
// Pools are stored as JSON: SET questions:{category}:{class} [...]
type QuestionBank struct {
	client *redis.Client
	loader memory.QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionBank(client *redis.Client, loader memory.QuestionLoader, ttl time.Duration) *QuestionBank {
	return &QuestionBank{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (b *QuestionBank) FetchQuestions(ctx context.Context, category domain.Category, class, limit int) ([]domain.Question, error) {
	key := b.poolKey(category, class)

	if pool, ok := b.cached(ctx, key); ok {
		return memory.Deal(pool, limit, b.shuffle), nil
	}

	result, err, _ := b.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if pool, ok := b.cached(ctx, key); ok {
			return pool, nil
		}

		pool, err := b.loader.LoadQuestions(ctx, category, class)
		if err != nil {
			return nil, err
		}
		// empty pools are not cached so newly added questions show up immediately
		if len(pool) > 0 {
			if data, err := json.Marshal(pool); err == nil {
				if err := b.client.Set(ctx, key, data, b.ttlWithJitter()).Err(); err != nil {
					log.Printf("cache question pool %s: %v", key, err)
				}
			}
		}
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return memory.Deal(result.([]domain.Question), limit, b.shuffle), nil
}

// Invalidate drops the cached pool for a category and class.
func (b *QuestionBank) Invalidate(ctx context.Context, category domain.Category, class int) error {
	return b.client.Del(ctx, b.poolKey(category, class)).Err()
}

func (b *QuestionBank) cached(ctx context.Context, key string) ([]domain.Question, bool) {
	data, err := b.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var pool []domain.Question
	if err := json.Unmarshal(data, &pool); err != nil || len(pool) == 0 {
		return nil, false
	}
	return pool, true
}

func (b *QuestionBank) poolKey(category domain.Category, class int) string {
	return "questions:" + string(category) + ":" + strconv.Itoa(class)
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
	jitterMax := int64(b.ttl) / 10
	b.rndMu.Lock()
	defer b.rndMu.Unlock()
	return b.ttl + time.Duration(b.rnd.Int63n(jitterMax+1))
}
