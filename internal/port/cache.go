package port

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/swapvault/escrow-engine/internal/domain"
)

// Cache is a read-side cache of order details. A nil, nil return means a
// miss; the engine falls back to the repository.
type Cache interface {
	SetOrder(ctx context.Context, o *domain.Order) error
	GetOrder(ctx context.Context, maker common.Address, nonce uint64) (*domain.Order, error)
	Invalidate(ctx context.Context, maker common.Address, nonce uint64) error
}
