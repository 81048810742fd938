package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Addresses travel as 0x-prefixed hex strings and are validated at the
// HTTP boundary.

type ERC20Details struct {
	TokenAddresses []string          `json:"token_addresses"`
	Amounts        []decimal.Decimal `json:"amounts"`
}

type ERC721Details struct {
	TokenAddress string   `json:"token_address,omitempty"`
	IDs          []uint64 `json:"ids"`
}

type ERC1155Details struct {
	TokenAddress string            `json:"token_address,omitempty"`
	IDs          []uint64          `json:"ids"`
	Amounts      []decimal.Decimal `json:"amounts"`
}

type Bundle struct {
	ERC20   ERC20Details    `json:"erc20"`
	ERC721  ERC721Details   `json:"erc721"`
	ERC1155 ERC1155Details  `json:"erc1155"`
	Value   decimal.Decimal `json:"value"`
}

type MakeRequest struct {
	Caller       string    `json:"caller" binding:"required"`
	Taker        string    `json:"taker,omitempty"` // empty or zero address: anyone may take
	Nonce        uint64    `json:"nonce"`
	Expiration   time.Time `json:"expiration" binding:"required"`
	MakerDetails Bundle    `json:"maker_details"`
	TakerDetails Bundle    `json:"taker_details"`
}

type CancelRequest struct {
	Caller string `json:"caller" binding:"required"`
	Maker  string `json:"maker" binding:"required"`
	Nonce  uint64 `json:"nonce"`
}

type TakingRequest struct {
	Caller string          `json:"caller" binding:"required"`
	Maker  string          `json:"maker" binding:"required"`
	Nonce  uint64          `json:"nonce"`
	Value  decimal.Decimal `json:"value"` // native currency sent with the call
}

type TakeRequest struct {
	Caller string `json:"caller" binding:"required"`
	Maker  string `json:"maker" binding:"required"`
	Nonce  uint64 `json:"nonce"`
}

type RecoverRequest struct {
	Caller string `json:"caller" binding:"required"`
	Maker  string `json:"maker" binding:"required"`
	Nonce  uint64 `json:"nonce"`
}

type OrderResponse struct {
	Maker          string    `json:"maker"`
	Taker          string    `json:"taker"`
	Nonce          uint64    `json:"nonce"`
	Expiration     time.Time `json:"expiration"`
	State          string    `json:"state"`
	MakerDetails   Bundle    `json:"maker_details"`
	TakerDetails   Bundle    `json:"taker_details"`
	MakerRecovered string    `json:"maker_recovered,omitempty"`
	TakerRecovered string    `json:"taker_recovered,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type MutationResponse struct {
	Maker string `json:"maker"`
	Nonce uint64 `json:"nonce"`
	State string `json:"state"`
}

type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

type StatusResponse struct {
	Open  bool   `json:"open"`
	Owner string `json:"owner"`
}
