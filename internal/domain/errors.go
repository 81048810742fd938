package domain

import "errors"

var (
	// ErrNotOwnerNorApproved means the escrow lacks permission to move a
	// unique token out of its current holder.
	ErrNotOwnerNorApproved = errors.New("not owner nor approved")

	// ErrInsufficientBalance means the holder's tracked quantity is less
	// than requested.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientAllowance means the fungible allowance granted to the
	// escrow is less than requested.
	ErrInsufficientAllowance = errors.New("insufficient allowance")

	// ErrMalformedBundle means mismatched parallel arrays or a negative
	// amount in a bundle, rejected before any transfer.
	ErrMalformedBundle = errors.New("malformed asset bundle")

	// ErrUnknownToken means a bundle references a token contract the asset
	// registry cannot resolve.
	ErrUnknownToken = errors.New("unknown token contract")

	ErrOrderNotFound = errors.New("order not found")

	// ErrSlotOccupied means make targeted a (maker, nonce) slot whose
	// current order has not reached a terminal state.
	ErrSlotOccupied = errors.New("order slot occupied")

	// ErrInvalidState means the operation was invoked on a slot not in the
	// required state.
	ErrInvalidState = errors.New("invalid order state")

	ErrNotMaker = errors.New("caller is not the maker")
	ErrNotTaker = errors.New("caller is not the designated taker")

	// ErrNotParty means the caller is neither maker nor bound taker of the
	// order it tried to recover.
	ErrNotParty = errors.New("caller is not a party to this order")

	ErrOrderExpired = errors.New("order expired")
	ErrNotExpired   = errors.New("order not expired yet")

	// ErrAlreadyRecovered means the caller's side of the order was already
	// reclaimed.
	ErrAlreadyRecovered = errors.New("side already recovered")

	// ErrValueMismatch means the sent native value does not equal the
	// bundle's declared native amount.
	ErrValueMismatch = errors.New("native value mismatch")

	// ErrClosed means the escrow is not accepting new orders.
	ErrClosed = errors.New("escrow closed for new orders")

	ErrNotOwner = errors.New("caller is not the owner")
)
