package asset

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/swapvault/escrow-engine/internal/domain"
)

// MemoryERC1155 is an in-process multi-token ledger. Transfers require
// operator approval unless the operator is the holder.
type MemoryERC1155 struct {
	mu        sync.Mutex
	balances  map[uint64]map[common.Address]decimal.Decimal
	operators map[common.Address]map[common.Address]bool
}

var _ ERC1155 = (*MemoryERC1155)(nil)

func NewMemoryERC1155() *MemoryERC1155 {
	return &MemoryERC1155{
		balances:  make(map[uint64]map[common.Address]decimal.Decimal),
		operators: make(map[common.Address]map[common.Address]bool),
	}
}

func (t *MemoryERC1155) Mint(owner common.Address, id uint64, amount decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.balances[id]
	if !ok {
		m = make(map[common.Address]decimal.Decimal)
		t.balances[id] = m
	}
	m[owner] = m[owner].Add(amount)
}

func (t *MemoryERC1155) SetApprovalForAll(owner, operator common.Address, approved bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.operators[owner]
	if !ok {
		m = make(map[common.Address]bool)
		t.operators[owner] = m
	}
	m[operator] = approved
}

func (t *MemoryERC1155) BalanceOf(ctx context.Context, owner common.Address, id uint64) (decimal.Decimal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balances[id][owner], nil
}

func (t *MemoryERC1155) ApprovedForAll(ctx context.Context, owner, operator common.Address) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.operators[owner][operator], nil
}

func (t *MemoryERC1155) TransferFrom(ctx context.Context, operator, from, to common.Address, id uint64, amount decimal.Decimal) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if operator != from && !t.operators[from][operator] {
		return fmt.Errorf("%w: %s may not move id %d for %s", domain.ErrNotOwnerNorApproved, operator, id, from)
	}
	m, ok := t.balances[id]
	if !ok {
		m = make(map[common.Address]decimal.Decimal)
		t.balances[id] = m
	}
	bal := m[from]
	if bal.LessThan(amount) {
		return fmt.Errorf("%w: id %d balance %s < %s", domain.ErrInsufficientBalance, id, bal, amount)
	}
	m[from] = bal.Sub(amount)
	m[to] = m[to].Add(amount)
	return nil
}
