package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "checkout:"

// releaseScript deletes the lock only while it still holds our token, so an
// expired holder cannot free a lock taken over by someone else.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisGuard struct {
	client *redis.Client
}

func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{client: client}
}

// NewRedisClient connects and pings, failing fast on a bad address.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func (g *RedisGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error) {
	token := uuid.NewString()
	k := keyPrefix + key

	ok, err := g.client.SetNX(ctx, k, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to set checkout lock in redis: %w", err)
	}
	if !ok {
		return nil, common.ErrCheckoutInProgress
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, g.client, []string{k}, token).Err(); err != nil {
			return fmt.Errorf("failed to release checkout lock in redis: %w", err)
		}
		return nil
	}, nil
}
