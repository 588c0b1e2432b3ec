package types

import "errors"

// Failure taxonomy of the protocol. Every state-changing operation either
// fully commits or fails with exactly one of these reasons and no partial
// effects; callers branch with errors.Is.
var (
	ErrInvalidProof             = errors.New("invalid proof")
	ErrAlreadyVerified          = errors.New("account already verified")
	ErrNonTransferable          = errors.New("credential is not transferable")
	ErrUnauthorized             = errors.New("unauthorized minter")
	ErrNotFound                 = errors.New("asset not found")
	ErrNotVerified              = errors.New("account not verified")
	ErrNotOwner                 = errors.New("not the asset owner")
	ErrNotApproved              = errors.New("transfer not approved")
	ErrNotStaked                = errors.New("asset not staked")
	ErrNotStaker                = errors.New("not the staking account")
	ErrNothingToClaim           = errors.New("nothing to claim")
	ErrInsufficientVaultBalance = errors.New("insufficient vault reward balance")
	ErrInsufficientBalance      = errors.New("insufficient balance")
)
