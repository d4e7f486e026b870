package pumpfun

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveFeeAccount(t *testing.T) {
	mint, creator := newKey(), newKey()

	got, err := DeriveFeeAccount(mint, creator)
	require.NoError(t, err)

	want, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("fee_account"), mint.Bytes(), creator.Bytes()},
		ProgramID,
	)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Порядок seeds важен
	swapped, err := DeriveFeeAccount(creator, mint)
	require.NoError(t, err)
	assert.NotEqual(t, got, swapped)
}

func TestDeriveCreatorVaultAndBondingCurve(t *testing.T) {
	key := newKey()

	vault, err := DeriveCreatorVault(key)
	require.NoError(t, err)
	curve, err := DeriveBondingCurve(key)
	require.NoError(t, err)

	assert.NotEqual(t, vault, curve)
	assert.False(t, vault.IsOnCurve())
	assert.False(t, curve.IsOnCurve())
}

func TestParseWallet(t *testing.T) {
	key := newKey()
	parsed, err := ParseWallet(key.String())
	require.NoError(t, err)
	assert.Equal(t, key, parsed)

	for _, bad := range []string{"", "not-a-wallet", "0OIl"} {
		_, err := ParseWallet(bad)
		assert.ErrorIs(t, err, ErrInvalidWallet, bad)
	}
}

func TestLamportsToSOL(t *testing.T) {
	assert.Equal(t, 1.5, LamportsToSOL(1_500_000_000))
	assert.Equal(t, 0.000000001, LamportsToSOL(1))
	assert.Equal(t, 0.0, LamportsToSOL(0))
}
