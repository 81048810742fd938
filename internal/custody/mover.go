// Package custody implements the asset-bundle transfer primitive. A Mover
// moves every asset listed in a bundle between two holders, or none of
// them. It keeps no state of its own; single-owner wrapper vaults share
// the same primitive.
package custody

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/swapvault/escrow-engine/internal/asset"
	"github.com/swapvault/escrow-engine/internal/domain"
)

// Leg is one bundle movement. All legs passed to a single Move call form
// one failure unit.
type Leg struct {
	Bundle domain.AssetBundle
	From   common.Address
	To     common.Address
}

// Mover executes bundle movements against an asset registry, acting as
// the given operator (the escrow's custody account).
type Mover struct {
	assets   asset.Registry
	operator common.Address
}

func NewMover(assets asset.Registry, operator common.Address) *Mover {
	return &Mover{assets: assets, operator: operator}
}

// Operator returns the custody account transfers are authorized against.
func (m *Mover) Operator() common.Address {
	return m.operator
}

// Move transfers every asset of every leg, in leg order and, within a
// bundle, native value first, then fungibles, unique ids, multi-tokens.
// Every movement is validated against a scratch view that accounts for
// earlier movements in the same call before anything is applied, so a
// failing asset anywhere leaves all ledgers untouched. A duplicated
// unique id fails on its second occurrence, as it would on-chain.
func (m *Mover) Move(ctx context.Context, legs ...Leg) error {
	for i := range legs {
		if err := legs[i].Bundle.Validate(); err != nil {
			return err
		}
	}
	s := newScratch()
	for i := range legs {
		if err := m.validateLeg(ctx, s, &legs[i]); err != nil {
			return err
		}
	}
	for i := range legs {
		if err := m.applyLeg(ctx, &legs[i]); err != nil {
			// Ledgers mutated outside the escrow's serialized
			// operations between validation and apply.
			return fmt.Errorf("custody inconsistency: %w", err)
		}
	}
	return nil
}

type tokenHolder struct {
	token  common.Address
	holder common.Address
}

type tokenID struct {
	token common.Address
	id    uint64
}

type tokenIDHolder struct {
	token  common.Address
	id     uint64
	holder common.Address
}

// scratch tracks the hypothetical ledger deltas of movements already
// validated within one Move call.
type scratch struct {
	native     map[common.Address]decimal.Decimal
	erc20Bal   map[tokenHolder]decimal.Decimal
	erc20Allow map[tokenHolder]decimal.Decimal
	erc721     map[tokenID]common.Address
	erc1155    map[tokenIDHolder]decimal.Decimal
}

func newScratch() *scratch {
	return &scratch{
		native:     make(map[common.Address]decimal.Decimal),
		erc20Bal:   make(map[tokenHolder]decimal.Decimal),
		erc20Allow: make(map[tokenHolder]decimal.Decimal),
		erc721:     make(map[tokenID]common.Address),
		erc1155:    make(map[tokenIDHolder]decimal.Decimal),
	}
}

func (m *Mover) validateLeg(ctx context.Context, s *scratch, leg *Leg) error {
	if err := m.validateNative(ctx, s, leg); err != nil {
		return err
	}
	if err := m.validateERC20(ctx, s, leg); err != nil {
		return err
	}
	if err := m.validateERC721(ctx, s, leg); err != nil {
		return err
	}
	return m.validateERC1155(ctx, s, leg)
}

func (m *Mover) validateNative(ctx context.Context, s *scratch, leg *Leg) error {
	if !leg.Bundle.Value.IsPositive() {
		return nil
	}
	bal, ok := s.native[leg.From]
	if !ok {
		real, err := m.assets.Native().BalanceOf(ctx, leg.From)
		if err != nil {
			return err
		}
		bal = real
	}
	if bal.LessThan(leg.Bundle.Value) {
		return fmt.Errorf("%w: native balance %s < %s", domain.ErrInsufficientBalance, bal, leg.Bundle.Value)
	}
	s.native[leg.From] = bal.Sub(leg.Bundle.Value)
	to, ok := s.native[leg.To]
	if !ok {
		real, err := m.assets.Native().BalanceOf(ctx, leg.To)
		if err != nil {
			return err
		}
		to = real
	}
	s.native[leg.To] = to.Add(leg.Bundle.Value)
	return nil
}

func (m *Mover) validateERC20(ctx context.Context, s *scratch, leg *Leg) error {
	for i, addr := range leg.Bundle.ERC20.TokenAddresses {
		amount := leg.Bundle.ERC20.Amounts[i]
		token, err := m.assets.ERC20(addr)
		if err != nil {
			return err
		}
		fromKey := tokenHolder{addr, leg.From}
		bal, ok := s.erc20Bal[fromKey]
		if !ok {
			if bal, err = token.BalanceOf(ctx, leg.From); err != nil {
				return err
			}
		}
		if bal.LessThan(amount) {
			return fmt.Errorf("%w: %s balance %s < %s", domain.ErrInsufficientBalance, addr, bal, amount)
		}
		if leg.From != m.operator {
			allowed, ok := s.erc20Allow[fromKey]
			if !ok {
				if allowed, err = token.Allowance(ctx, leg.From, m.operator); err != nil {
					return err
				}
			}
			if allowed.LessThan(amount) {
				return fmt.Errorf("%w: %s allowance %s < %s", domain.ErrInsufficientAllowance, addr, allowed, amount)
			}
			s.erc20Allow[fromKey] = allowed.Sub(amount)
		}
		s.erc20Bal[fromKey] = bal.Sub(amount)
		toKey := tokenHolder{addr, leg.To}
		to, ok := s.erc20Bal[toKey]
		if !ok {
			if to, err = token.BalanceOf(ctx, leg.To); err != nil {
				return err
			}
		}
		s.erc20Bal[toKey] = to.Add(amount)
	}
	return nil
}

func (m *Mover) validateERC721(ctx context.Context, s *scratch, leg *Leg) error {
	if len(leg.Bundle.ERC721.IDs) == 0 {
		return nil
	}
	addr := leg.Bundle.ERC721.TokenAddress
	token, err := m.assets.ERC721(addr)
	if err != nil {
		return err
	}
	for _, id := range leg.Bundle.ERC721.IDs {
		key := tokenID{addr, id}
		owner, touched := s.erc721[key]
		if !touched {
			if owner, err = token.OwnerOf(ctx, id); err != nil {
				return err
			}
		}
		if owner != leg.From {
			return fmt.Errorf("%w: id %d not held by %s", domain.ErrNotOwnerNorApproved, id, leg.From)
		}
		if leg.From != m.operator {
			if touched {
				// A transfer earlier in this call cleared any
				// per-id approval the operator held.
				return fmt.Errorf("%w: %s may not move id %d", domain.ErrNotOwnerNorApproved, m.operator, id)
			}
			ok, err := token.Authorized(ctx, m.operator, id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s may not move id %d", domain.ErrNotOwnerNorApproved, m.operator, id)
			}
		}
		s.erc721[key] = leg.To
	}
	return nil
}

func (m *Mover) validateERC1155(ctx context.Context, s *scratch, leg *Leg) error {
	if len(leg.Bundle.ERC1155.IDs) == 0 {
		return nil
	}
	addr := leg.Bundle.ERC1155.TokenAddress
	token, err := m.assets.ERC1155(addr)
	if err != nil {
		return err
	}
	if leg.From != m.operator {
		ok, err := token.ApprovedForAll(ctx, leg.From, m.operator)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s is not an operator for %s", domain.ErrNotOwnerNorApproved, m.operator, leg.From)
		}
	}
	for i, id := range leg.Bundle.ERC1155.IDs {
		amount := leg.Bundle.ERC1155.Amounts[i]
		fromKey := tokenIDHolder{addr, id, leg.From}
		bal, ok := s.erc1155[fromKey]
		if !ok {
			if bal, err = token.BalanceOf(ctx, leg.From, id); err != nil {
				return err
			}
		}
		if bal.LessThan(amount) {
			return fmt.Errorf("%w: id %d balance %s < %s", domain.ErrInsufficientBalance, id, bal, amount)
		}
		s.erc1155[fromKey] = bal.Sub(amount)
		toKey := tokenIDHolder{addr, id, leg.To}
		to, ok := s.erc1155[toKey]
		if !ok {
			if to, err = token.BalanceOf(ctx, leg.To, id); err != nil {
				return err
			}
		}
		s.erc1155[toKey] = to.Add(amount)
	}
	return nil
}

func (m *Mover) applyLeg(ctx context.Context, leg *Leg) error {
	if leg.Bundle.Value.IsPositive() {
		if err := m.assets.Native().Transfer(ctx, leg.From, leg.To, leg.Bundle.Value); err != nil {
			return err
		}
	}
	for i, addr := range leg.Bundle.ERC20.TokenAddresses {
		token, err := m.assets.ERC20(addr)
		if err != nil {
			return err
		}
		if err := token.TransferFrom(ctx, m.operator, leg.From, leg.To, leg.Bundle.ERC20.Amounts[i]); err != nil {
			return err
		}
	}
	if len(leg.Bundle.ERC721.IDs) > 0 {
		token, err := m.assets.ERC721(leg.Bundle.ERC721.TokenAddress)
		if err != nil {
			return err
		}
		for _, id := range leg.Bundle.ERC721.IDs {
			if err := token.TransferFrom(ctx, m.operator, leg.From, leg.To, id); err != nil {
				return err
			}
		}
	}
	if len(leg.Bundle.ERC1155.IDs) > 0 {
		token, err := m.assets.ERC1155(leg.Bundle.ERC1155.TokenAddress)
		if err != nil {
			return err
		}
		for i, id := range leg.Bundle.ERC1155.IDs {
			if err := token.TransferFrom(ctx, m.operator, leg.From, leg.To, id, leg.Bundle.ERC1155.Amounts[i]); err != nil {
				return err
			}
		}
	}
	return nil
}
