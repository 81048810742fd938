package asset

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/swapvault/escrow-engine/internal/domain"
)

// MemoryERC721 is an in-process unique-token ledger. Per-id approvals are
// cleared on transfer, operator approvals persist.
type MemoryERC721 struct {
	mu        sync.Mutex
	owners    map[uint64]common.Address
	approved  map[uint64]common.Address
	operators map[common.Address]map[common.Address]bool
}

var _ ERC721 = (*MemoryERC721)(nil)

func NewMemoryERC721() *MemoryERC721 {
	return &MemoryERC721{
		owners:    make(map[uint64]common.Address),
		approved:  make(map[uint64]common.Address),
		operators: make(map[common.Address]map[common.Address]bool),
	}
}

func (t *MemoryERC721) Mint(owner common.Address, id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.owners[id] = owner
}

func (t *MemoryERC721) Approve(owner, operator common.Address, id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.owners[id] == owner {
		t.approved[id] = operator
	}
}

func (t *MemoryERC721) SetApprovalForAll(owner, operator common.Address, approved bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.operators[owner]
	if !ok {
		m = make(map[common.Address]bool)
		t.operators[owner] = m
	}
	m[operator] = approved
}

func (t *MemoryERC721) OwnerOf(ctx context.Context, id uint64) (common.Address, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	owner, ok := t.owners[id]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: id %d not minted", domain.ErrNotOwnerNorApproved, id)
	}
	return owner, nil
}

func (t *MemoryERC721) Authorized(ctx context.Context, operator common.Address, id uint64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	owner, ok := t.owners[id]
	if !ok {
		return false, nil
	}
	return operator == owner || t.approved[id] == operator || t.operators[owner][operator], nil
}

func (t *MemoryERC721) TransferFrom(ctx context.Context, operator, from, to common.Address, id uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	owner, ok := t.owners[id]
	if !ok || owner != from {
		return fmt.Errorf("%w: id %d not held by %s", domain.ErrNotOwnerNorApproved, id, from)
	}
	if operator != owner && t.approved[id] != operator && !t.operators[owner][operator] {
		return fmt.Errorf("%w: %s may not move id %d", domain.ErrNotOwnerNorApproved, operator, id)
	}
	delete(t.approved, id)
	t.owners[id] = to
	return nil
}
