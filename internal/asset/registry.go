package asset

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/swapvault/escrow-engine/internal/domain"
)

// MemoryRegistry maps token contract addresses to in-process ledgers.
type MemoryRegistry struct {
	mu      sync.Mutex
	erc20   map[common.Address]ERC20
	erc721  map[common.Address]ERC721
	erc1155 map[common.Address]ERC1155
	native  Native
}

var _ Registry = (*MemoryRegistry)(nil)

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		erc20:   make(map[common.Address]ERC20),
		erc721:  make(map[common.Address]ERC721),
		erc1155: make(map[common.Address]ERC1155),
		native:  NewMemoryNative(),
	}
}

func (r *MemoryRegistry) RegisterERC20(addr common.Address, t ERC20) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.erc20[addr] = t
}

func (r *MemoryRegistry) RegisterERC721(addr common.Address, t ERC721) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.erc721[addr] = t
}

func (r *MemoryRegistry) RegisterERC1155(addr common.Address, t ERC1155) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.erc1155[addr] = t
}

func (r *MemoryRegistry) ERC20(addr common.Address) (ERC20, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.erc20[addr]
	if !ok {
		return nil, fmt.Errorf("%w: erc20 %s", domain.ErrUnknownToken, addr)
	}
	return t, nil
}

func (r *MemoryRegistry) ERC721(addr common.Address) (ERC721, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.erc721[addr]
	if !ok {
		return nil, fmt.Errorf("%w: erc721 %s", domain.ErrUnknownToken, addr)
	}
	return t, nil
}

func (r *MemoryRegistry) ERC1155(addr common.Address) (ERC1155, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.erc1155[addr]
	if !ok {
		return nil, fmt.Errorf("%w: erc1155 %s", domain.ErrUnknownToken, addr)
	}
	return t, nil
}

func (r *MemoryRegistry) Native() Native {
	return r.native
}
