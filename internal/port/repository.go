package port

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/swapvault/escrow-engine/internal/domain"
)

// Repository is the order store: a keyed mapping from (maker, nonce) to
// one Order, mutated only by the escrow engine.
type Repository interface {
	// SaveOrder inserts or overwrites the order's slot.
	SaveOrder(ctx context.Context, o *domain.Order) error
	// GetOrder returns domain.ErrOrderNotFound for an empty slot.
	GetOrder(ctx context.Context, maker common.Address, nonce uint64) (*domain.Order, error)
	ListOrdersByMaker(ctx context.Context, maker common.Address) ([]*domain.Order, error)
}
