package vault

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
	"github.com/zachyo/compliant-asset-vault/oracle"
	"github.com/zachyo/compliant-asset-vault/token"
	"github.com/zachyo/compliant-asset-vault/types"
)

// DefaultYieldRate is the reward accrual rate in reward units per second per
// unit of declared value, scaled by RateScale. The default works out to
// roughly 10% of declared value per year.
var (
	DefaultYieldRate = uint256.NewInt(3170979198)
	RateScale        = uint256.MustFromDecimal("1000000000000000000")
)

// AssetLedger is the custody capability the vault consumes. Transfers on
// behalf of an owner require a prior approval on the ledger.
type AssetLedger interface {
	OwnerOf(id uint64) (types.Address, error)
	DeclaredValue(id uint64) (*uint256.Int, error)
	TransferFrom(caller, from, to types.Address, id uint64) error
}

// CredentialChecker gates deposits on the compliance credential.
type CredentialChecker interface {
	IsVerified(account types.Address) bool
}

// stakeRecord exists iff the asset's custodian is currently the vault.
type stakeRecord struct {
	ledger     AssetLedger
	assetID    uint64
	staker     types.Address
	value      *uint256.Int
	checkpoint time.Time
}

// Vault escrows tokenized assets from credential holders and accrues linear
// yield on their declared value while staked. All bookkeeping happens before
// any external transfer call; failed transfers roll the operation back so
// every state transition is all-or-nothing.
type Vault struct {
	mtx     sync.Mutex
	addr    types.Address
	creds   CredentialChecker
	rewards *token.Ledger
	reserve *oracle.Adapter
	rate    *uint256.Int
	stakes  map[uint64]*stakeRecord
	yields  map[types.Address]*uint256.Int
	now     func() time.Time
	logger  zerolog.Logger
}

func New(
	creds CredentialChecker,
	rewards *token.Ledger,
	reserve *oracle.Adapter,
	rate *uint256.Int,
	logger zerolog.Logger,
) *Vault {
	return &Vault{
		addr:    types.NewAccount().Address,
		creds:   creds,
		rewards: rewards,
		reserve: reserve,
		rate:    new(uint256.Int).Set(rate),
		stakes:  make(map[uint64]*stakeRecord),
		yields:  make(map[types.Address]*uint256.Int),
		now:     time.Now,
		logger:  logger.With().Str("module", "vault").Logger(),
	}
}

// Address is the vault's own ledger address, the custodian of record for
// staked assets and the source of reward payouts.
func (v *Vault) Address() types.Address {
	return v.addr
}

// SetClock overrides the vault's time source. Test hook.
func (v *Vault) SetClock(now func() time.Time) {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.now = now
}

// Deposit escrows the caller's asset and starts yield accrual. The caller
// must hold a compliance credential, own the asset and have approved the
// vault on the asset ledger.
func (v *Vault) Deposit(caller types.Address, assets AssetLedger, id uint64) error {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	if !v.creds.IsVerified(caller) {
		return fmt.Errorf("%w: %s", types.ErrNotVerified, caller)
	}

	owner, err := assets.OwnerOf(id)
	if err != nil {
		return err
	}
	if owner != caller {
		return fmt.Errorf("%w: %s does not custody asset %d", types.ErrNotOwner, caller, id)
	}

	value, err := assets.DeclaredValue(id)
	if err != nil {
		return err
	}

	v.stakes[id] = &stakeRecord{
		ledger:     assets,
		assetID:    id,
		staker:     caller,
		value:      value,
		checkpoint: v.now(),
	}

	if err := assets.TransferFrom(v.addr, caller, v.addr, id); err != nil {
		delete(v.stakes, id)
		return err
	}

	v.logger.Info().
		Uint64("asset", id).
		Str("staker", string(caller)).
		Str("value", value.Dec()).
		Msg("asset deposited")
	return nil
}

// Withdraw returns the asset to its staking account. Yield accrued since the
// last checkpoint is credited to the account's yield balance before the
// stake record is deleted.
func (v *Vault) Withdraw(caller types.Address, assets AssetLedger, id uint64) error {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	rec, ok := v.stakes[id]
	if !ok || rec.ledger != assets {
		return fmt.Errorf("%w: asset %d", types.ErrNotStaked, id)
	}
	if rec.staker != caller {
		return fmt.Errorf("%w: asset %d belongs to %s", types.ErrNotStaker, id, rec.staker)
	}

	accrued := v.accrued(rec, v.now())
	v.creditYield(caller, accrued)
	delete(v.stakes, id)

	if err := assets.TransferFrom(v.addr, v.addr, caller, id); err != nil {
		// roll back: the operation must not leave partial effects
		v.debitYield(caller, accrued)
		v.stakes[id] = rec
		return err
	}

	v.logger.Info().
		Uint64("asset", id).
		Str("staker", string(caller)).
		Str("accrued", accrued.Dec()).
		Msg("asset withdrawn")
	return nil
}

// PendingYield is the account's unclaimed yield: the checkpointed balance
// plus accrual-to-now over all of its active stakes. Monotone between claims.
func (v *Vault) PendingYield(account types.Address) *uint256.Int {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	return v.pendingYield(account, v.now())
}

// ClaimYield pays out the caller's pending yield from the vault's reward
// balance and resets the balance and every active checkpoint, so overlapping
// stakes are never double-counted.
func (v *Vault) ClaimYield(caller types.Address) error {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	now := v.now()
	pending := v.pendingYield(caller, now)
	if pending.IsZero() {
		return fmt.Errorf("%w: %s", types.ErrNothingToClaim, caller)
	}

	// checkpoint before the external transfer
	prevBalance, hadBalance := v.yields[caller]
	prevCheckpoints := make(map[uint64]time.Time)
	v.yields[caller] = uint256.NewInt(0)
	for id, rec := range v.stakes {
		if rec.staker == caller {
			prevCheckpoints[id] = rec.checkpoint
			rec.checkpoint = now
		}
	}

	if err := v.rewards.Transfer(v.addr, caller, pending); err != nil {
		// roll back: the vault must be topped up out-of-band, nothing
		// accrued may be lost in the meantime
		if hadBalance {
			v.yields[caller] = prevBalance
		} else {
			delete(v.yields, caller)
		}
		for id, cp := range prevCheckpoints {
			v.stakes[id].checkpoint = cp
		}
		return fmt.Errorf("%w: %v", types.ErrInsufficientVaultBalance, err)
	}

	v.logger.Info().
		Str("account", string(caller)).
		Str("amount", pending.Dec()).
		Msg("yield claimed")
	return nil
}

// TotalValueLocked is the derived sum of declared values over all active
// stakes.
func (v *Vault) TotalValueLocked() *uint256.Int {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	tvl := uint256.NewInt(0)
	for _, rec := range v.stakes {
		tvl.Add(tvl, rec.value)
	}
	return tvl
}

// IsVerified reports whether the account holds a compliance credential.
func (v *Vault) IsVerified(account types.Address) bool {
	return v.creds.IsVerified(account)
}

// StakedAssets lists the ids of the account's active stakes, ascending.
func (v *Vault) StakedAssets(account types.Address) []uint64 {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	var ids []uint64
	for id, rec := range v.stakes {
		if rec.staker == account {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Reserve returns the advisory proof-of-reserve reading.
func (v *Vault) Reserve() (*uint256.Int, int64) {
	return v.reserve.GetLatestReserve()
}

func (v *Vault) pendingYield(account types.Address, now time.Time) *uint256.Int {
	pending := uint256.NewInt(0)
	if bal, ok := v.yields[account]; ok {
		pending.Set(bal)
	}
	for _, rec := range v.stakes {
		if rec.staker == account {
			pending.Add(pending, v.accrued(rec, now))
		}
	}
	return pending
}

// accrued computes value * rate * elapsed / RateScale since the record's
// checkpoint. Linear, no compounding; negative elapsed never occurs because
// checkpoints are only ever set from the vault's own clock. The product
// saturates instead of wrapping when the declared value is absurdly large.
func (v *Vault) accrued(rec *stakeRecord, now time.Time) *uint256.Int {
	elapsed := now.Unix() - rec.checkpoint.Unix()
	if elapsed <= 0 {
		return uint256.NewInt(0)
	}

	amt := new(uint256.Int)
	_, overflow := amt.MulOverflow(rec.value, v.rate)
	if !overflow {
		_, overflow = amt.MulOverflow(amt, uint256.NewInt(uint64(elapsed)))
	}
	if overflow {
		amt.SetAllOne()
	}
	amt.Div(amt, RateScale)
	return amt
}

func (v *Vault) creditYield(account types.Address, amount *uint256.Int) {
	if bal, ok := v.yields[account]; ok {
		bal.Add(bal, amount)
		return
	}
	v.yields[account] = new(uint256.Int).Set(amount)
}

func (v *Vault) debitYield(account types.Address, amount *uint256.Int) {
	if bal, ok := v.yields[account]; ok {
		bal.Sub(bal, amount)
	}
}
