package registry

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
	"github.com/zachyo/compliant-asset-vault/types"
)

// Registry is the tokenized-asset ledger: metadata, custody and transfer
// approvals keyed by asset id. Ids are assigned sequentially from zero with
// no reuse and no gaps; minting is restricted to the designated minter
// account and assets are never burned.
type Registry struct {
	mtx       sync.Mutex
	minter    types.Address
	nextID    uint64
	assets    map[uint64]*types.AssetRecord
	approvals map[uint64]types.Address
	logger    zerolog.Logger
}

func New(minter types.Address, logger zerolog.Logger) *Registry {
	return &Registry{
		minter:    minter,
		assets:    make(map[uint64]*types.AssetRecord),
		approvals: make(map[uint64]types.Address),
		logger:    logger.With().Str("module", "registry").Logger(),
	}
}

// Mint registers a new tokenized asset and returns its id. Category and
// declared value are trusted as asserted by the minter.
func (r *Registry) Mint(
	caller, owner types.Address,
	contentURI string, regulated bool, category string,
	declaredValue *uint256.Int, metadata []byte,
) (uint64, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if caller != r.minter {
		return 0, fmt.Errorf("%w: %s", types.ErrUnauthorized, caller)
	}

	id := r.nextID
	r.nextID++
	r.assets[id] = &types.AssetRecord{
		ID:            id,
		Owner:         owner,
		ContentURI:    contentURI,
		Regulated:     regulated,
		Category:      category,
		DeclaredValue: new(uint256.Int).Set(declaredValue),
		Metadata:      append([]byte(nil), metadata...),
	}

	r.logger.Info().
		Uint64("id", id).
		Str("owner", string(owner)).
		Str("category", category).
		Str("value", declaredValue.Dec()).
		Msg("asset minted")
	return id, nil
}

func (r *Registry) GetAsset(id uint64) (*types.AssetRecord, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	rec, ok := r.assets[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", types.ErrNotFound, id)
	}
	return rec.Clone(), nil
}

func (r *Registry) OwnerOf(id uint64) (types.Address, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	rec, ok := r.assets[id]
	if !ok {
		return "", fmt.Errorf("%w: id %d", types.ErrNotFound, id)
	}
	return rec.Owner, nil
}

func (r *Registry) DeclaredValue(id uint64) (*uint256.Int, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	rec, ok := r.assets[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", types.ErrNotFound, id)
	}
	return new(uint256.Int).Set(rec.DeclaredValue), nil
}

func (r *Registry) TokenURI(id uint64) (string, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	rec, ok := r.assets[id]
	if !ok {
		return "", fmt.Errorf("%w: id %d", types.ErrNotFound, id)
	}
	return rec.ContentURI, nil
}

func (r *Registry) IsRegulated(id uint64) (bool, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	rec, ok := r.assets[id]
	if !ok {
		return false, fmt.Errorf("%w: id %d", types.ErrNotFound, id)
	}
	return rec.Regulated, nil
}

// Approve authorizes `spender` to take custody of the asset once. Only the
// current owner may approve.
func (r *Registry) Approve(caller, spender types.Address, id uint64) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	rec, ok := r.assets[id]
	if !ok {
		return fmt.Errorf("%w: id %d", types.ErrNotFound, id)
	}
	if caller != rec.Owner {
		return fmt.Errorf("%w: %s is not the owner of %d", types.ErrNotOwner, caller, id)
	}
	r.approvals[id] = spender
	return nil
}

func (r *Registry) GetApproved(id uint64) (types.Address, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.assets[id]; !ok {
		return "", fmt.Errorf("%w: id %d", types.ErrNotFound, id)
	}
	return r.approvals[id], nil
}

// TransferFrom moves custody of an asset. The caller must be the current
// owner or hold a prior approval; any approval is consumed by the transfer.
func (r *Registry) TransferFrom(caller, from, to types.Address, id uint64) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	rec, ok := r.assets[id]
	if !ok {
		return fmt.Errorf("%w: id %d", types.ErrNotFound, id)
	}
	if rec.Owner != from {
		return fmt.Errorf("%w: %s is not the owner of %d", types.ErrNotOwner, from, id)
	}
	if caller != rec.Owner && r.approvals[id] != caller {
		return fmt.Errorf("%w: %s may not move asset %d", types.ErrNotApproved, caller, id)
	}

	rec.Owner = to
	delete(r.approvals, id)

	r.logger.Debug().
		Uint64("id", id).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("custody transferred")
	return nil
}

// Count returns the number of minted assets (also the next id).
func (r *Registry) Count() uint64 {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.nextID
}
