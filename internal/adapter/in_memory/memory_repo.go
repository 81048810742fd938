package in_memory

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/swapvault/escrow-engine/internal/domain"
	"github.com/swapvault/escrow-engine/internal/port"
)

type slot struct {
	maker common.Address
	nonce uint64
}

// MemoryRepo holds orders in a map keyed by (maker, nonce).
type MemoryRepo struct {
	mu     sync.Mutex
	orders map[slot]*domain.Order
}

var _ port.Repository = (*MemoryRepo)(nil)

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{orders: make(map[slot]*domain.Order)}
}

func (r *MemoryRepo) SaveOrder(ctx context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[slot{o.Maker, o.Nonce}] = o.Clone()
	return nil
}

func (r *MemoryRepo) GetOrder(ctx context.Context, maker common.Address, nonce uint64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[slot{maker, nonce}]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o.Clone(), nil
}

func (r *MemoryRepo) ListOrdersByMaker(ctx context.Context, maker common.Address) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*domain.Order
	for k, o := range r.orders {
		if k.maker == maker {
			res = append(res, o.Clone())
		}
	}
	return res, nil
}
