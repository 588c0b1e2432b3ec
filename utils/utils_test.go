package utils

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

func TestHashersDeterministic(t *testing.T) {
	in := []byte("compliant-asset-vault")

	require.Equal(t, MiMCHash(in), MiMCHash(in))
	require.Equal(t, Poseidon2Hash(in), Poseidon2Hash(in))
	require.NotEqual(t, Poseidon2Hash(in), Poseidon2Hash(append(in, 0x01)))

	require.Len(t, MiMCHash(in), fr.Bytes)
	require.Len(t, Poseidon2Hash(in), fr.Bytes)
}

func TestFr2Bytes(t *testing.T) {
	bz := Fr2Bytes(big.NewInt(7))
	require.Len(t, bz, fr.Bytes)
	require.Equal(t, byte(7), bz[fr.Bytes-1])

	// values beyond the modulus are reduced
	over := new(big.Int).Add(fr.Modulus(), big.NewInt(7))
	require.Equal(t, bz, Fr2Bytes(over))
}
