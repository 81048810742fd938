package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type EventType string

const (
	EventOrderMade      EventType = "order-made"
	EventOrderCancelled EventType = "order-cancelled"
	EventOrderTaking    EventType = "order-taking"
	EventOrderTaken     EventType = "order-taken"
	EventOrderRecovered EventType = "order-recovered"
)

// RecoverySide tags which half of an order a recovery event released.
type RecoverySide string

const (
	MakerSide RecoverySide = "maker"
	TakerSide RecoverySide = "taker"
)

// Event is emitted once per successful state transition. It carries the
// slot identity so an observer can reconstruct order state without
// re-reading storage.
type Event struct {
	ID    string         `json:"id"`
	Type  EventType      `json:"type"`
	Maker common.Address `json:"maker"`
	Nonce uint64         `json:"nonce"`
	Taker common.Address `json:"taker,omitempty"`
	Side  RecoverySide   `json:"side,omitempty"`
	At    time.Time      `json:"at"`
}
