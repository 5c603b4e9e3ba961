package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/taskhub-io/taskhub/pkg/observability"
)

// TodoCache is the Redis-backed read cache for per-user todo listings.
// The cache fails open: any Redis error is reported to the caller, who
// treats it as a miss and falls through to the database.
type TodoCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *observability.Metrics
}

const todoCacheName = "todos"

// NewRedisClient connects to Redis with the configured options
func NewRedisClient(cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	if cfg.RedisDB >= 0 {
		opts.DB = cfg.RedisDB
	}
	if cfg.RedisMaxRetries > 0 {
		opts.MaxRetries = cfg.RedisMaxRetries
	}
	if cfg.RedisPoolSize > 0 {
		opts.PoolSize = cfg.RedisPoolSize
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolTimeout = 4 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// NewTodoCache wraps a Redis client as a todo-listing cache. Metrics may
// be nil.
func NewTodoCache(client *redis.Client, ttl time.Duration, metrics *observability.Metrics) *TodoCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TodoCache{
		client:  client,
		ttl:     ttl,
		metrics: metrics,
	}
}

func todoListKey(userID int64) string {
	return fmt.Sprintf("todos:user:%d", userID)
}

// GetUserTodos retrieves a cached listing, returning (nil, nil) on a
// miss. A corrupt cached payload is deleted and treated as a miss.
func (c *TodoCache) GetUserTodos(ctx context.Context, userID int64) ([]*Todo, error) {
	key := todoListKey(userID)

	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		c.recordMiss()
		return nil, nil
	} else if err != nil {
		c.recordMiss()
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var todos []*Todo
	if err := json.Unmarshal([]byte(data), &todos); err != nil {
		c.client.Del(ctx, key)
		c.recordMiss()
		return nil, fmt.Errorf("failed to unmarshal cached todos: %w", err)
	}

	c.recordHit()
	return todos, nil
}

// SetUserTodos stores the listing with the configured TTL
func (c *TodoCache) SetUserTodos(ctx context.Context, userID int64, todos []*Todo) error {
	data, err := json.Marshal(todos)
	if err != nil {
		return fmt.Errorf("failed to marshal todos: %w", err)
	}
	return c.client.Set(ctx, todoListKey(userID), data, c.ttl).Err()
}

// InvalidateUserTodos drops the cached listing; called on every todo
// mutation for the user.
func (c *TodoCache) InvalidateUserTodos(ctx context.Context, userID int64) error {
	return c.client.Del(ctx, todoListKey(userID)).Err()
}

// Close closes the underlying Redis client
func (c *TodoCache) Close() error {
	return c.client.Close()
}

func (c *TodoCache) recordHit() {
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.WithLabelValues(todoCacheName).Inc()
	}
}

func (c *TodoCache) recordMiss() {
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.WithLabelValues(todoCacheName).Inc()
	}
}
