package asset

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/swapvault/escrow-engine/internal/domain"
)

// MemoryNative tracks native-currency balances.
type MemoryNative struct {
	mu       sync.Mutex
	balances map[common.Address]decimal.Decimal
}

var _ Native = (*MemoryNative)(nil)

func NewMemoryNative() *MemoryNative {
	return &MemoryNative{balances: make(map[common.Address]decimal.Decimal)}
}

func (n *MemoryNative) Mint(owner common.Address, amount decimal.Decimal) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.balances[owner] = n.balances[owner].Add(amount)
}

func (n *MemoryNative) BalanceOf(ctx context.Context, owner common.Address) (decimal.Decimal, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.balances[owner], nil
}

func (n *MemoryNative) Transfer(ctx context.Context, from, to common.Address, amount decimal.Decimal) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	bal := n.balances[from]
	if bal.LessThan(amount) {
		return fmt.Errorf("%w: native balance %s < %s", domain.ErrInsufficientBalance, bal, amount)
	}
	n.balances[from] = bal.Sub(amount)
	n.balances[to] = n.balances[to].Add(amount)
	return nil
}
