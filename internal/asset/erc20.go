package asset

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/swapvault/escrow-engine/internal/domain"
)

// MemoryERC20 is an in-process fungible ledger with standard allowance
// semantics.
type MemoryERC20 struct {
	mu         sync.Mutex
	balances   map[common.Address]decimal.Decimal
	allowances map[common.Address]map[common.Address]decimal.Decimal
}

var _ ERC20 = (*MemoryERC20)(nil)

func NewMemoryERC20() *MemoryERC20 {
	return &MemoryERC20{
		balances:   make(map[common.Address]decimal.Decimal),
		allowances: make(map[common.Address]map[common.Address]decimal.Decimal),
	}
}

func (t *MemoryERC20) Mint(owner common.Address, amount decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.balances[owner] = t.balances[owner].Add(amount)
}

func (t *MemoryERC20) Approve(owner, spender common.Address, amount decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.allowances[owner]
	if !ok {
		m = make(map[common.Address]decimal.Decimal)
		t.allowances[owner] = m
	}
	m[spender] = amount
}

func (t *MemoryERC20) BalanceOf(ctx context.Context, owner common.Address) (decimal.Decimal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balances[owner], nil
}

func (t *MemoryERC20) Allowance(ctx context.Context, owner, spender common.Address) (decimal.Decimal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allowances[owner][spender], nil
}

func (t *MemoryERC20) TransferFrom(ctx context.Context, operator, from, to common.Address, amount decimal.Decimal) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if operator != from {
		allowed := t.allowances[from][operator]
		if allowed.LessThan(amount) {
			return fmt.Errorf("%w: allowance %s < %s", domain.ErrInsufficientAllowance, allowed, amount)
		}
		t.allowances[from][operator] = allowed.Sub(amount)
	}
	bal := t.balances[from]
	if bal.LessThan(amount) {
		return fmt.Errorf("%w: balance %s < %s", domain.ErrInsufficientBalance, bal, amount)
	}
	t.balances[from] = bal.Sub(amount)
	t.balances[to] = t.balances[to].Add(amount)
	return nil
}
