package in_memory

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/swapvault/escrow-engine/internal/domain"
	"github.com/swapvault/escrow-engine/internal/port"
)

type Cache struct {
	mu    sync.Mutex
	store map[slot]*domain.Order
}

var _ port.Cache = (*Cache)(nil)

func NewCache() *Cache {
	return &Cache{store: make(map[slot]*domain.Order)}
}

func (c *Cache) SetOrder(ctx context.Context, o *domain.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[slot{o.Maker, o.Nonce}] = o.Clone()
	return nil
}

func (c *Cache) GetOrder(ctx context.Context, maker common.Address, nonce uint64) (*domain.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.store[slot{maker, nonce}]
	if !ok {
		return nil, nil
	}
	return o.Clone(), nil
}

func (c *Cache) Invalidate(ctx context.Context, maker common.Address, nonce uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, slot{maker, nonce})
	return nil
}
