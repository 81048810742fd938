package domain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// ERC20Details lists fungible transfers as index-aligned parallel arrays.
// A token address may repeat; entries are processed in order, no dedup.
type ERC20Details struct {
	TokenAddresses []common.Address  `json:"token_addresses"`
	Amounts        []decimal.Decimal `json:"amounts"`
}

// ERC721Details holds unique token ids under a single contract.
type ERC721Details struct {
	TokenAddress common.Address `json:"token_address"`
	IDs          []uint64       `json:"ids"`
}

// ERC1155Details holds multi-token id/amount pairs under a single contract,
// index-aligned.
type ERC1155Details struct {
	TokenAddress common.Address    `json:"token_address"`
	IDs          []uint64          `json:"ids"`
	Amounts      []decimal.Decimal `json:"amounts"`
}

// AssetBundle describes a set of assets moved together as one custody unit.
type AssetBundle struct {
	ERC20   ERC20Details    `json:"erc20"`
	ERC721  ERC721Details   `json:"erc721"`
	ERC1155 ERC1155Details  `json:"erc1155"`
	Value   decimal.Decimal `json:"value"`
}

// Validate checks bundle shape before any transfer is attempted.
func (b *AssetBundle) Validate() error {
	if len(b.ERC20.TokenAddresses) != len(b.ERC20.Amounts) {
		return ErrMalformedBundle
	}
	if len(b.ERC1155.IDs) != len(b.ERC1155.Amounts) {
		return ErrMalformedBundle
	}
	for _, a := range b.ERC20.Amounts {
		if a.IsNegative() {
			return ErrMalformedBundle
		}
	}
	for _, a := range b.ERC1155.Amounts {
		if a.IsNegative() {
			return ErrMalformedBundle
		}
	}
	if b.Value.IsNegative() {
		return ErrMalformedBundle
	}
	return nil
}
