package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type OrderState string

const (
	Made      OrderState = "MADE"
	Cancelled OrderState = "CANCELLED"
	Taking    OrderState = "TAKING"
	Taken     OrderState = "TAKEN"
)

// Terminal reports whether the state admits no further transitions.
// A terminal slot may be reused by a fresh make.
func (s OrderState) Terminal() bool {
	return s == Cancelled || s == Taken
}

// RecoveryDetails records which parties reclaimed their side after
// expiration. The zero address means not yet recovered; each side is
// settable exactly once.
type RecoveryDetails struct {
	Maker common.Address `json:"maker"`
	Taker common.Address `json:"taker"`
}

// Order is one escrowed swap, keyed by (Maker, Nonce).
type Order struct {
	Maker common.Address `json:"maker"`
	// Taker is the required counterparty, or the zero address if anyone
	// may take. Taking binds it to the actual caller.
	Taker        common.Address  `json:"taker"`
	Nonce        uint64          `json:"nonce"`
	Expiration   time.Time       `json:"expiration"`
	State        OrderState      `json:"state"`
	MakerDetails AssetBundle     `json:"maker_details"`
	TakerDetails AssetBundle     `json:"taker_details"`
	Recovery     RecoveryDetails `json:"recovery"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// OpenTaker reports whether the order may be taken by anyone.
func (o *Order) OpenTaker() bool {
	return o.Taker == (common.Address{})
}

func (o *Order) Clone() *Order {
	cpy := *o
	return &cpy
}
