package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dkhamitov/order-service/internal/domain"
)

// Redis stores serialized order lists in a shared Redis instance. All errors
// are reported as a miss (reads) or a no-op (writes): the cache is best-effort
// and must never surface a failure to the request.
type Redis struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedis(client *redis.Client, logger *zap.Logger) *Redis {
	return &Redis{client: client, logger: logger}
}

func (r *Redis) Get(ctx context.Context, key string) ([]domain.Order, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var orders []domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		r.logger.Warn("cache entry malformed, dropping", zap.String("key", key), zap.Error(err))
		r.client.Del(ctx, key)
		return nil, false
	}
	return orders, true
}

func (r *Redis) Set(ctx context.Context, key string, orders []domain.Order) {
	data, err := json.Marshal(orders)
	if err != nil {
		r.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, key, data, TTL).Err(); err != nil {
		r.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
