package issuer

import (
	"fmt"
	"sync"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/frontend"
	"github.com/rs/zerolog"
	"github.com/zachyo/compliant-asset-vault/circuit"
	"github.com/zachyo/compliant-asset-vault/types"
)

// CredentialIssued is appended for every accepted proof so off-chain indexers
// can follow issuance without replaying state.
type CredentialIssued struct {
	Account    types.Address
	Commitment string
	IssuedAt   int64
}

// Issuer validates identity proofs and keeps the compliance-credential
// ledger. A credential is a per-account marker: at most one per account,
// never transferable, never burned.
type Issuer struct {
	mtx    sync.Mutex
	vk     groth16.VerifyingKey
	creds  map[types.Address]bool
	events []CredentialIssued
	logger zerolog.Logger
}

func New(vk groth16.VerifyingKey, logger zerolog.Logger) *Issuer {
	return &Issuer{
		vk:     vk,
		creds:  make(map[types.Address]bool),
		logger: logger.With().Str("module", "issuer").Logger(),
	}
}

// Verify checks the caller's proof against the identity circuit and, on
// acceptance, records the caller as holding a credential. Re-submission by an
// already-verified account fails without re-minting.
func (s *Issuer) Verify(caller types.Address, proof *types.Proof) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.creds[caller] {
		return fmt.Errorf("%w: %s", types.ErrAlreadyVerified, caller)
	}

	bnProof, err := rebuildProof(proof)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidProof, err)
	}

	assignment := circuit.IdentityCircuit{
		Commitment: proof.Input[0],
	}
	pubWtn, err := frontend.NewWitness(&assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidProof, err)
	}
	if err := groth16.Verify(bnProof, s.vk, pubWtn); err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidProof, err)
	}

	s.creds[caller] = true
	s.events = append(s.events, CredentialIssued{
		Account:    caller,
		Commitment: proof.Input[0].String(),
		IssuedAt:   time.Now().Unix(),
	})
	s.logger.Info().Str("account", string(caller)).Msg("credential issued")
	return nil
}

func (s *Issuer) IsVerified(account types.Address) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.creds[account]
}

// Transfer always fails: the credential is soulbound, including for its
// holder.
func (s *Issuer) Transfer(from, to types.Address) error {
	return fmt.Errorf("%w: %s -> %s", types.ErrNonTransferable, from, to)
}

func (s *Issuer) Events() []CredentialIssued {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	ret := make([]CredentialIssued, len(s.events))
	copy(ret, s.events)
	return ret
}

// rebuildProof reassembles the bn254 proof points from the eight calldata
// scalars, rejecting anything that is not a valid curve point.
func rebuildProof(p *types.Proof) (*groth16_bn254.Proof, error) {
	for _, s := range p.Scalars() {
		if s == nil {
			return nil, fmt.Errorf("nil proof scalar")
		}
	}

	var bnProof groth16_bn254.Proof
	bnProof.Ar.X.SetBigInt(p.A[0])
	bnProof.Ar.Y.SetBigInt(p.A[1])
	bnProof.Bs.X.A1.SetBigInt(p.B[0][0])
	bnProof.Bs.X.A0.SetBigInt(p.B[0][1])
	bnProof.Bs.Y.A1.SetBigInt(p.B[1][0])
	bnProof.Bs.Y.A0.SetBigInt(p.B[1][1])
	bnProof.Krs.X.SetBigInt(p.C[0])
	bnProof.Krs.Y.SetBigInt(p.C[1])

	if !bnProof.Ar.IsOnCurve() || !bnProof.Ar.IsInSubGroup() {
		return nil, fmt.Errorf("proof point a is not on the curve")
	}
	if !bnProof.Bs.IsOnCurve() || !bnProof.Bs.IsInSubGroup() {
		return nil, fmt.Errorf("proof point b is not on the curve")
	}
	if !bnProof.Krs.IsOnCurve() || !bnProof.Krs.IsInSubGroup() {
		return nil, fmt.Errorf("proof point c is not on the curve")
	}

	return &bnProof, nil
}
