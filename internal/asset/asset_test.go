package asset

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapvault/escrow-engine/internal/domain"
)

var (
	alice    = common.HexToAddress("0xa11ce00000000000000000000000000000000001")
	bob      = common.HexToAddress("0xb0b0000000000000000000000000000000000002")
	operator = common.HexToAddress("0x00000000000000000000000000000000000e5c0a")
)

func TestERC20AllowanceSpend(t *testing.T) {
	ctx := context.Background()
	token := NewMemoryERC20()
	token.Mint(alice, decimal.NewFromInt(100))
	token.Approve(alice, operator, decimal.NewFromInt(60))

	require.NoError(t, token.TransferFrom(ctx, operator, alice, bob, decimal.NewFromInt(40)))

	bal, err := token.BalanceOf(ctx, bob)
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.NewFromInt(40)))

	remaining, err := token.Allowance(ctx, alice, operator)
	require.NoError(t, err)
	assert.True(t, remaining.Equal(decimal.NewFromInt(20)))

	err = token.TransferFrom(ctx, operator, alice, bob, decimal.NewFromInt(30))
	assert.ErrorIs(t, err, domain.ErrInsufficientAllowance)
}

func TestERC20SelfTransferNeedsNoAllowance(t *testing.T) {
	ctx := context.Background()
	token := NewMemoryERC20()
	token.Mint(alice, decimal.NewFromInt(10))

	require.NoError(t, token.TransferFrom(ctx, alice, alice, bob, decimal.NewFromInt(10)))

	err := token.TransferFrom(ctx, alice, alice, bob, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestERC721TransferClearsApproval(t *testing.T) {
	ctx := context.Background()
	token := NewMemoryERC721()
	token.Mint(alice, 7)
	token.Approve(alice, operator, 7)

	require.NoError(t, token.TransferFrom(ctx, operator, alice, bob, 7))

	owner, err := token.OwnerOf(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, bob, owner)

	// approval does not travel with the token
	err = token.TransferFrom(ctx, operator, bob, alice, 7)
	assert.ErrorIs(t, err, domain.ErrNotOwnerNorApproved)
}

func TestERC721WrongHolder(t *testing.T) {
	ctx := context.Background()
	token := NewMemoryERC721()
	token.Mint(alice, 1)
	token.SetApprovalForAll(alice, operator, true)

	err := token.TransferFrom(ctx, operator, bob, alice, 1)
	assert.ErrorIs(t, err, domain.ErrNotOwnerNorApproved)

	_, err = token.OwnerOf(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotOwnerNorApproved)
}

func TestERC1155OperatorAndBalance(t *testing.T) {
	ctx := context.Background()
	token := NewMemoryERC1155()
	token.Mint(alice, 3, decimal.NewFromInt(5))

	err := token.TransferFrom(ctx, operator, alice, bob, 3, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrNotOwnerNorApproved)

	token.SetApprovalForAll(alice, operator, true)
	require.NoError(t, token.TransferFrom(ctx, operator, alice, bob, 3, decimal.NewFromInt(4)))

	err = token.TransferFrom(ctx, operator, alice, bob, 3, decimal.NewFromInt(2))
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	bal, err := token.BalanceOf(ctx, bob, 3)
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.NewFromInt(4)))
}

func TestNativeTransfer(t *testing.T) {
	ctx := context.Background()
	n := NewMemoryNative()
	n.Mint(alice, decimal.NewFromInt(100))

	require.NoError(t, n.Transfer(ctx, alice, bob, decimal.NewFromInt(100)))
	err := n.Transfer(ctx, alice, bob, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestRegistryUnknownToken(t *testing.T) {
	r := NewMemoryRegistry()
	_, err := r.ERC20(alice)
	assert.ErrorIs(t, err, domain.ErrUnknownToken)
	_, err = r.ERC721(alice)
	assert.ErrorIs(t, err, domain.ErrUnknownToken)
	_, err = r.ERC1155(alice)
	assert.ErrorIs(t, err, domain.ErrUnknownToken)
}
