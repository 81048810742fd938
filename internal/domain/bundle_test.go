package domain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBundleValidate(t *testing.T) {
	token := common.HexToAddress("0x4000000000000000000000000000000000000020")

	tests := []struct {
		name    string
		bundle  AssetBundle
		wantErr bool
	}{
		{
			name:   "empty bundle",
			bundle: AssetBundle{},
		},
		{
			name: "aligned arrays",
			bundle: AssetBundle{
				ERC20: ERC20Details{
					TokenAddresses: []common.Address{token, token},
					Amounts:        []decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(2)},
				},
				ERC1155: ERC1155Details{
					TokenAddress: token,
					IDs:          []uint64{1, 2},
					Amounts:      []decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(1)},
				},
			},
		},
		{
			name: "erc20 length mismatch",
			bundle: AssetBundle{
				ERC20: ERC20Details{
					TokenAddresses: []common.Address{token},
					Amounts:        []decimal.Decimal{},
				},
			},
			wantErr: true,
		},
		{
			name: "erc1155 length mismatch",
			bundle: AssetBundle{
				ERC1155: ERC1155Details{
					TokenAddress: token,
					IDs:          []uint64{1, 2, 3, 4, 5},
					Amounts: []decimal.Decimal{
						decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.NewFromInt(1),
					},
				},
			},
			wantErr: true,
		},
		{
			name:    "negative native value",
			bundle:  AssetBundle{Value: decimal.NewFromInt(-1)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bundle.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedBundle)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOrderStateTerminal(t *testing.T) {
	assert.False(t, Made.Terminal())
	assert.False(t, Taking.Terminal())
	assert.True(t, Cancelled.Terminal())
	assert.True(t, Taken.Terminal())
}

func TestOpenTaker(t *testing.T) {
	o := Order{}
	assert.True(t, o.OpenTaker())
	o.Taker = common.HexToAddress("0x2000000000000000000000000000000000000002")
	assert.False(t, o.OpenTaker())
}
