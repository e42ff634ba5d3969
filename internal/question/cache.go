package question

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gokatarajesh/hotseat-trivia/internal/game"
)

const defaultCacheTTL = 30 * time.Minute

// BankCache stores a normalized bank keyed by source name.
type BankCache interface {
	Get(ctx context.Context, source string) ([]game.Question, bool, error)
	Set(ctx context.Context, source string, questions []game.Question) error
	Invalidate(ctx context.Context, source string) error
}

// Cache keeps the normalized bank in Redis so restarts skip the source.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ BankCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(source string) string {
	return "questionbank:" + source
}

func (c *Cache) Get(ctx context.Context, source string) ([]game.Question, bool, error) {
	data, err := c.client.Get(ctx, c.key(source)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var questions []game.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, false, err
	}
	return questions, true, nil
}

func (c *Cache) Set(ctx context.Context, source string, questions []game.Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(source), data, c.ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context, source string) error {
	return c.client.Del(ctx, c.key(source)).Err()
}
