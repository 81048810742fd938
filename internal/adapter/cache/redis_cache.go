package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	"github.com/swapvault/escrow-engine/internal/domain"
	"github.com/swapvault/escrow-engine/internal/port"
)

// EventChannel is the pub/sub channel lifecycle events are published on.
const EventChannel = "escrow.events"

// RedisCache caches order details by slot and doubles as the event
// publisher over Redis pub/sub.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var (
	_ port.Cache     = (*RedisCache)(nil)
	_ port.Publisher = (*RedisCache)(nil)
)

func NewRedisCache(addr string, password string, db int, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{
		client: rdb,
		ttl:    ttl,
	}
}

func key(maker common.Address, nonce uint64) string {
	return fmt.Sprintf("order:%s:%d", maker.Hex(), nonce)
}

func (c *RedisCache) SetOrder(ctx context.Context, o *domain.Order) error {
	b, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(o.Maker, o.Nonce), b, c.ttl).Err()
}

func (c *RedisCache) GetOrder(ctx context.Context, maker common.Address, nonce uint64) (*domain.Order, error) {
	b, err := c.client.Get(ctx, key(maker, nonce)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var o domain.Order
	if err := json.Unmarshal(b, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *RedisCache) Invalidate(ctx context.Context, maker common.Address, nonce uint64) error {
	return c.client.Del(ctx, key(maker, nonce)).Err()
}

func (c *RedisCache) Publish(ctx context.Context, ev domain.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, EventChannel, b).Err()
}
