// Package asset models the external token contracts an escrowed bundle
// references: fungible (ERC20-style), unique (ERC721-style), multi-token
// (ERC1155-style) ledgers and the native currency. The escrow only ever
// talks to these interfaces; in-memory implementations back tests and the
// dev server.
package asset

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// ERC20 is a fungible ledger. TransferFrom spends the operator's allowance
// when the operator is not the holder.
type ERC20 interface {
	BalanceOf(ctx context.Context, owner common.Address) (decimal.Decimal, error)
	Allowance(ctx context.Context, owner, spender common.Address) (decimal.Decimal, error)
	TransferFrom(ctx context.Context, operator, from, to common.Address, amount decimal.Decimal) error
}

// ERC721 is a unique-token ledger. A transfer requires the operator to be
// the owner, approved for the id, or an approved operator of the owner.
type ERC721 interface {
	OwnerOf(ctx context.Context, id uint64) (common.Address, error)
	Authorized(ctx context.Context, operator common.Address, id uint64) (bool, error)
	TransferFrom(ctx context.Context, operator, from, to common.Address, id uint64) error
}

// ERC1155 is a multi-token ledger keyed by id.
type ERC1155 interface {
	BalanceOf(ctx context.Context, owner common.Address, id uint64) (decimal.Decimal, error)
	ApprovedForAll(ctx context.Context, owner, operator common.Address) (bool, error)
	TransferFrom(ctx context.Context, operator, from, to common.Address, id uint64, amount decimal.Decimal) error
}

// Native is the chain's native currency ledger.
type Native interface {
	BalanceOf(ctx context.Context, owner common.Address) (decimal.Decimal, error)
	Transfer(ctx context.Context, from, to common.Address, amount decimal.Decimal) error
}

// Registry resolves token contract addresses to their ledgers.
type Registry interface {
	ERC20(addr common.Address) (ERC20, error)
	ERC721(addr common.Address) (ERC721, error)
	ERC1155(addr common.Address) (ERC1155, error)
	Native() Native
}
