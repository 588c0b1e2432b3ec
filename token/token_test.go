package token_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/zachyo/compliant-asset-vault/token"
	"github.com/zachyo/compliant-asset-vault/types"
)

func TestMintAndTransfer(t *testing.T) {
	tok := token.New(zerolog.Nop())
	a := types.NewAccount().Address
	b := types.NewAccount().Address

	require.True(t, tok.BalanceOf(a).IsZero())

	tok.Mint(a, uint256.NewInt(1000))
	require.Equal(t, uint256.NewInt(1000), tok.BalanceOf(a))

	require.NoError(t, tok.Transfer(a, b, uint256.NewInt(400)))
	require.Equal(t, uint256.NewInt(600), tok.BalanceOf(a))
	require.Equal(t, uint256.NewInt(400), tok.BalanceOf(b))
}

func TestTransferInsufficient(t *testing.T) {
	tok := token.New(zerolog.Nop())
	a := types.NewAccount().Address
	b := types.NewAccount().Address

	tok.Mint(a, uint256.NewInt(10))
	err := tok.Transfer(a, b, uint256.NewInt(11))
	require.ErrorIs(t, err, types.ErrInsufficientBalance)

	// no partial effects
	require.Equal(t, uint256.NewInt(10), tok.BalanceOf(a))
	require.True(t, tok.BalanceOf(b).IsZero())

	// unseen account has no balance at all
	require.ErrorIs(t, tok.Transfer(b, a, uint256.NewInt(1)), types.ErrInsufficientBalance)
}

func TestBalanceOfReturnsCopy(t *testing.T) {
	tok := token.New(zerolog.Nop())
	a := types.NewAccount().Address

	tok.Mint(a, uint256.NewInt(7))
	bal := tok.BalanceOf(a)
	bal.SetUint64(0)
	require.Equal(t, uint256.NewInt(7), tok.BalanceOf(a))
}
