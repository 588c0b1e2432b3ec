package prover

import (
	"fmt"
	"math/big"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/backend/groth16"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/constraint/solver"
	"github.com/consensys/gnark/frontend"
	"github.com/rs/zerolog"
	"github.com/zachyo/compliant-asset-vault/circuit"
	"github.com/zachyo/compliant-asset-vault/types"
	"github.com/zachyo/compliant-asset-vault/utils"
)

// IdentityCommitment derives the public commitment of a private identity
// secret. It must agree with the in-circuit hasher, so the secret is reduced
// to its canonical field form before hashing.
func IdentityCommitment(secret *big.Int) *big.Int {
	h := utils.MiMCHash(utils.Fr2Bytes(secret))
	return new(big.Int).SetBytes(h)
}

// ProveIdentity runs the Groth16 prover for the identity circuit and flattens
// the result into the eight verifier-calldata scalars. The secret itself is
// only used to build the witness and is never part of the output.
func ProveIdentity(
	secret *big.Int,
	provingKey groth16.ProvingKey, ccs constraint.ConstraintSystem,
) (*types.Proof, error) {

	commitment := IdentityCommitment(secret)

	assignment := circuit.IdentityCircuit{
		Secret:     secret,
		Commitment: commitment,
	}
	wtn, err := frontend.NewWitness(&assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, err
	}

	proof, err := groth16.Prove(
		ccs,
		provingKey,
		wtn,
		backend.WithSolverOptions(
			solver.WithLogger(gnarkLogger),
		),
	)
	if err != nil {
		return nil, err
	}

	bnProof, ok := proof.(*groth16_bn254.Proof)
	if !ok {
		return nil, fmt.Errorf("unexpected proof type %T", proof)
	}

	out := &types.Proof{}
	out.A[0] = bnProof.Ar.X.BigInt(new(big.Int))
	out.A[1] = bnProof.Ar.Y.BigInt(new(big.Int))
	// G2 coordinates go out in calldata order: imaginary limb first.
	out.B[0][0] = bnProof.Bs.X.A1.BigInt(new(big.Int))
	out.B[0][1] = bnProof.Bs.X.A0.BigInt(new(big.Int))
	out.B[1][0] = bnProof.Bs.Y.A1.BigInt(new(big.Int))
	out.B[1][1] = bnProof.Bs.Y.A0.BigInt(new(big.Int))
	out.C[0] = bnProof.Krs.X.BigInt(new(big.Int))
	out.C[1] = bnProof.Krs.Y.BigInt(new(big.Int))
	out.Input[0] = commitment

	return out, nil
}

var gnarkLogger = zerolog.New(os.Stdout).Level(zerolog.ErrorLevel).With().Timestamp().Logger()
