package types

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Proof is a Groth16 proof flattened into the eight scalars a verifier
// contract consumes: a (G1), b (G2), c (G1) plus the single public input (the
// identity commitment). B follows the usual calldata ordering, i.e.
// B[0] = [X.A1, X.A0] and B[1] = [Y.A1, Y.A0].
type Proof struct {
	A     [2]*big.Int
	B     [2][2]*big.Int
	C     [2]*big.Int
	Input [1]*big.Int
}

// Scalars returns all eight proof scalars plus the public input in calldata
// order; index layout is [a0 a1 b00 b01 b10 b11 c0 c1 input0].
func (p *Proof) Scalars() []*big.Int {
	return []*big.Int{
		p.A[0], p.A[1],
		p.B[0][0], p.B[0][1],
		p.B[1][0], p.B[1][1],
		p.C[0], p.C[1],
		p.Input[0],
	}
}

func (p *Proof) Clone() *Proof {
	cp := &Proof{}
	cp.A[0] = new(big.Int).Set(p.A[0])
	cp.A[1] = new(big.Int).Set(p.A[1])
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			cp.B[i][j] = new(big.Int).Set(p.B[i][j])
		}
	}
	cp.C[0] = new(big.Int).Set(p.C[0])
	cp.C[1] = new(big.Int).Set(p.C[1])
	cp.Input[0] = new(big.Int).Set(p.Input[0])
	return cp
}

type proofJSON struct {
	A     [2]string    `json:"a"`
	B     [2][2]string `json:"b"`
	C     [2]string    `json:"c"`
	Input [1]string    `json:"input"`
}

func (p *Proof) MarshalJSON() ([]byte, error) {
	var pj proofJSON
	pj.A[0] = hexutil.EncodeBig(p.A[0])
	pj.A[1] = hexutil.EncodeBig(p.A[1])
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			pj.B[i][j] = hexutil.EncodeBig(p.B[i][j])
		}
	}
	pj.C[0] = hexutil.EncodeBig(p.C[0])
	pj.C[1] = hexutil.EncodeBig(p.C[1])
	pj.Input[0] = hexutil.EncodeBig(p.Input[0])
	return json.Marshal(&pj)
}

func (p *Proof) UnmarshalJSON(bz []byte) error {
	var pj proofJSON
	if err := json.Unmarshal(bz, &pj); err != nil {
		return err
	}

	var err error
	if p.A[0], err = hexutil.DecodeBig(pj.A[0]); err != nil {
		return err
	}
	if p.A[1], err = hexutil.DecodeBig(pj.A[1]); err != nil {
		return err
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if p.B[i][j], err = hexutil.DecodeBig(pj.B[i][j]); err != nil {
				return err
			}
		}
	}
	if p.C[0], err = hexutil.DecodeBig(pj.C[0]); err != nil {
		return err
	}
	if p.C[1], err = hexutil.DecodeBig(pj.C[1]); err != nil {
		return err
	}
	if p.Input[0], err = hexutil.DecodeBig(pj.Input[0]); err != nil {
		return err
	}
	return nil
}
