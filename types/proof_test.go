package types

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func randProof() *Proof {
	p := &Proof{}
	p.A[0] = new(big.Int).SetBytes(RandBytes(31))
	p.A[1] = new(big.Int).SetBytes(RandBytes(31))
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			p.B[i][j] = new(big.Int).SetBytes(RandBytes(31))
		}
	}
	p.C[0] = new(big.Int).SetBytes(RandBytes(31))
	p.C[1] = new(big.Int).SetBytes(RandBytes(31))
	p.Input[0] = new(big.Int).SetBytes(RandBytes(31))
	return p
}

func TestProofJSONRoundTrip(t *testing.T) {
	p := randProof()

	bz, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded Proof
	require.NoError(t, json.Unmarshal(bz, &decoded))
	require.Equal(t, p, &decoded)
}

func TestProofClone(t *testing.T) {
	p := randProof()
	cp := p.Clone()
	require.Equal(t, p, cp)

	cp.A[0].Add(cp.A[0], big.NewInt(1))
	require.NotEqual(t, p.A[0], cp.A[0])
}

func TestProofScalarsOrder(t *testing.T) {
	p := randProof()
	s := p.Scalars()
	require.Len(t, s, 9)
	require.Same(t, p.A[0], s[0])
	require.Same(t, p.B[0][0], s[2])
	require.Same(t, p.C[1], s[7])
	require.Same(t, p.Input[0], s[8])
}
