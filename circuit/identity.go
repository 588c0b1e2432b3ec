package circuit

import (
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/std/hash/mimc"
)

// IdentityCircuit proves knowledge of the private identity secret behind a
// public commitment:
//
//	Commitment == MiMC(Secret)
//
// The secret never leaves the prover; the commitment is the single public
// input carried in the verifier calldata.
type IdentityCircuit struct {
	Secret     frontend.Variable
	Commitment frontend.Variable `gnark:",public"`
}

func (cc *IdentityCircuit) Define(api frontend.API) error {
	hasher, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}

	hasher.Write(cc.Secret)
	api.AssertIsEqual(hasher.Sum(), cc.Commitment)

	return nil
}

// Compile builds the constraint system and runs the Groth16 setup.
func Compile() (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey, error) {
	var cc IdentityCircuit

	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &cc)
	if err != nil {
		return nil, nil, nil, err
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, nil, nil, err
	}
	return ccs, pk, vk, nil
}
