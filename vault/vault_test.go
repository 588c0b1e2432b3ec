package vault_test

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/zachyo/compliant-asset-vault/oracle"
	"github.com/zachyo/compliant-asset-vault/registry"
	"github.com/zachyo/compliant-asset-vault/token"
	"github.com/zachyo/compliant-asset-vault/types"
	"github.com/zachyo/compliant-asset-vault/vault"
)

type stubCreds map[types.Address]bool

func (s stubCreds) IsVerified(a types.Address) bool { return s[a] }

type fixture struct {
	vault   *vault.Vault
	reg     *registry.Registry
	rewards *token.Ledger
	creds   stubCreds
	minter  types.Address
	user    *types.Account
	clock   *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	minter := types.NewAccount().Address
	reg := registry.New(minter, zerolog.Nop())
	rewards := token.New(zerolog.Nop())
	feed := oracle.NewStaticFeed(uint256.NewInt(100000000), 1700000000)
	creds := stubCreds{}

	v := vault.New(creds, rewards, oracle.NewAdapter(feed), vault.DefaultYieldRate, zerolog.Nop())

	now := time.Unix(1700000000, 0)
	v.SetClock(func() time.Time { return now })

	return &fixture{
		vault:   v,
		reg:     reg,
		rewards: rewards,
		creds:   creds,
		minter:  minter,
		user:    types.NewAccount(),
		clock:   &now,
	}
}

func (f *fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func (f *fixture) mintAsset(t *testing.T, owner types.Address, value *uint256.Int, category string) uint64 {
	t.Helper()
	id, err := f.reg.Mint(f.minter, owner, "ipfs://test", true, category, value, []byte("{}"))
	require.NoError(t, err)
	return id
}

func TestDepositRequiresCredential(t *testing.T) {
	f := newFixture(t)
	user := f.user.Address

	id := f.mintAsset(t, user, uint256.NewInt(100000), "RealEstate")
	require.NoError(t, f.reg.Approve(user, f.vault.Address(), id))

	err := f.vault.Deposit(user, f.reg, id)
	require.ErrorIs(t, err, types.ErrNotVerified)

	// asset untouched
	owner, err := f.reg.OwnerOf(id)
	require.NoError(t, err)
	require.Equal(t, user, owner)
	require.True(t, f.vault.TotalValueLocked().IsZero())
}

func TestDepositRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	user := f.user.Address
	other := types.NewAccount().Address
	f.creds[user] = true
	f.creds[other] = true

	id := f.mintAsset(t, user, uint256.NewInt(100000), "RealEstate")

	err := f.vault.Deposit(other, f.reg, id)
	require.ErrorIs(t, err, types.ErrNotOwner)
}

func TestDepositRequiresApproval(t *testing.T) {
	f := newFixture(t)
	user := f.user.Address
	f.creds[user] = true

	id := f.mintAsset(t, user, uint256.NewInt(100000), "RealEstate")

	err := f.vault.Deposit(user, f.reg, id)
	require.ErrorIs(t, err, types.ErrNotApproved)

	// the failed deposit left no stake behind
	require.True(t, f.vault.TotalValueLocked().IsZero())
	require.Empty(t, f.vault.StakedAssets(user))
	require.ErrorIs(t, f.vault.Withdraw(user, f.reg, id), types.ErrNotStaked)
}

func TestCustodyConservation(t *testing.T) {
	f := newFixture(t)
	user := f.user.Address
	f.creds[user] = true

	id := f.mintAsset(t, user, uint256.NewInt(100000), "RealEstate")
	require.NoError(t, f.reg.Approve(user, f.vault.Address(), id))
	require.NoError(t, f.vault.Deposit(user, f.reg, id))

	owner, err := f.reg.OwnerOf(id)
	require.NoError(t, err)
	require.Equal(t, f.vault.Address(), owner)
	require.Equal(t, []uint64{id}, f.vault.StakedAssets(user))

	// a second deposit of the same asset cannot succeed
	require.ErrorIs(t, f.vault.Deposit(user, f.reg, id), types.ErrNotOwner)

	require.NoError(t, f.vault.Withdraw(user, f.reg, id))
	owner, err = f.reg.OwnerOf(id)
	require.NoError(t, err)
	require.Equal(t, user, owner)
	require.Empty(t, f.vault.StakedAssets(user))
}

func TestWithdrawGuards(t *testing.T) {
	f := newFixture(t)
	user := f.user.Address
	other := types.NewAccount().Address
	f.creds[user] = true

	id := f.mintAsset(t, user, uint256.NewInt(100000), "RealEstate")
	require.NoError(t, f.reg.Approve(user, f.vault.Address(), id))

	require.ErrorIs(t, f.vault.Withdraw(user, f.reg, id), types.ErrNotStaked)

	require.NoError(t, f.vault.Deposit(user, f.reg, id))
	require.ErrorIs(t, f.vault.Withdraw(other, f.reg, id), types.ErrNotStaker)

	// the guard left the stake in place
	require.Equal(t, []uint64{id}, f.vault.StakedAssets(user))
}

func TestYieldMonotonicity(t *testing.T) {
	f := newFixture(t)
	user := f.user.Address
	f.creds[user] = true

	value := uint256.MustFromDecimal("100000000000000000000000")
	id := f.mintAsset(t, user, value, "RealEstate")
	require.NoError(t, f.reg.Approve(user, f.vault.Address(), id))
	require.NoError(t, f.vault.Deposit(user, f.reg, id))

	require.True(t, f.vault.PendingYield(user).IsZero())

	prev := uint256.NewInt(0)
	for i := 0; i < 10; i++ {
		f.advance(7 * time.Minute)
		cur := f.vault.PendingYield(user)
		require.True(t, cur.Cmp(prev) >= 0, "pending yield decreased: %s < %s", cur.Dec(), prev.Dec())
		prev = cur
	}
	require.True(t, prev.Sign() > 0)
}

func TestTotalValueLocked(t *testing.T) {
	f := newFixture(t)
	user := f.user.Address
	f.creds[user] = true

	v1 := uint256.NewInt(60000)
	v2 := uint256.NewInt(40000)
	id1 := f.mintAsset(t, user, v1, "RealEstate")
	id2 := f.mintAsset(t, user, v2, "Invoice")
	require.NoError(t, f.reg.Approve(user, f.vault.Address(), id1))
	require.NoError(t, f.reg.Approve(user, f.vault.Address(), id2))

	require.NoError(t, f.vault.Deposit(user, f.reg, id1))
	require.Equal(t, v1, f.vault.TotalValueLocked())

	require.NoError(t, f.vault.Deposit(user, f.reg, id2))
	require.Equal(t, uint256.NewInt(100000), f.vault.TotalValueLocked())

	require.NoError(t, f.vault.Withdraw(user, f.reg, id1))
	require.Equal(t, v2, f.vault.TotalValueLocked())

	require.NoError(t, f.vault.Withdraw(user, f.reg, id2))
	require.True(t, f.vault.TotalValueLocked().IsZero())
}

func TestClaimYieldGuards(t *testing.T) {
	f := newFixture(t)
	user := f.user.Address
	f.creds[user] = true

	require.ErrorIs(t, f.vault.ClaimYield(user), types.ErrNothingToClaim)

	value := uint256.MustFromDecimal("100000000000000000000000")
	id := f.mintAsset(t, user, value, "RealEstate")
	require.NoError(t, f.reg.Approve(user, f.vault.Address(), id))
	require.NoError(t, f.vault.Deposit(user, f.reg, id))
	f.advance(time.Hour)

	// vault reward pool was never funded
	pending := f.vault.PendingYield(user)
	require.True(t, pending.Sign() > 0)
	require.ErrorIs(t, f.vault.ClaimYield(user), types.ErrInsufficientVaultBalance)

	// the failed claim changed nothing
	require.Equal(t, pending, f.vault.PendingYield(user))
	require.True(t, f.rewards.BalanceOf(user).IsZero())

	// once topped up, the preserved accrual pays out in full
	f.rewards.Mint(f.vault.Address(), uint256.MustFromDecimal("1000000000000000000000"))
	require.NoError(t, f.vault.ClaimYield(user))
	require.Equal(t, pending, f.rewards.BalanceOf(user))
	require.True(t, f.vault.PendingYield(user).IsZero())
}

func TestYieldSaturatesOnHugeValue(t *testing.T) {
	f := newFixture(t)
	user := f.user.Address
	f.creds[user] = true

	value := new(uint256.Int).SetAllOne()
	id := f.mintAsset(t, user, value, "RealEstate")
	require.NoError(t, f.reg.Approve(user, f.vault.Address(), id))
	require.NoError(t, f.vault.Deposit(user, f.reg, id))

	f.advance(time.Hour)
	want := new(uint256.Int).Div(new(uint256.Int).SetAllOne(), vault.RateScale)
	require.Equal(t, want, f.vault.PendingYield(user))

	// saturated accrual never wraps back down
	f.advance(24 * time.Hour)
	require.Equal(t, want, f.vault.PendingYield(user))
}

func TestClaimResetsOverlappingStakes(t *testing.T) {
	f := newFixture(t)
	user := f.user.Address
	f.creds[user] = true
	f.rewards.Mint(f.vault.Address(), uint256.MustFromDecimal("1000000000000000000000"))

	value := uint256.MustFromDecimal("50000000000000000000000")
	id1 := f.mintAsset(t, user, value, "RealEstate")
	id2 := f.mintAsset(t, user, value, "Invoice")
	require.NoError(t, f.reg.Approve(user, f.vault.Address(), id1))
	require.NoError(t, f.reg.Approve(user, f.vault.Address(), id2))
	require.NoError(t, f.vault.Deposit(user, f.reg, id1))
	f.advance(30 * time.Minute)
	require.NoError(t, f.vault.Deposit(user, f.reg, id2))
	f.advance(30 * time.Minute)

	pending := f.vault.PendingYield(user)
	require.True(t, pending.Sign() > 0)

	require.NoError(t, f.vault.ClaimYield(user))
	require.Equal(t, pending, f.rewards.BalanceOf(user))

	// both checkpoints were reset: nothing accrues at the claim instant
	require.True(t, f.vault.PendingYield(user).IsZero())

	// and both stakes accrue again afterwards
	f.advance(time.Hour)
	require.True(t, f.vault.PendingYield(user).Sign() > 0)
}

// Full protocol round trip mirroring the reference scenario: verify, mint,
// deposit, accrue for an hour, withdraw, claim.
func TestRoundTripScenario(t *testing.T) {
	f := newFixture(t)
	user := f.user.Address
	f.creds[user] = true
	f.rewards.Mint(f.vault.Address(), uint256.MustFromDecimal("1000000000000000000000"))

	value := uint256.MustFromDecimal("100000000000000000000000") // 100000 units
	id := f.mintAsset(t, user, value, "RealEstate")
	require.Equal(t, uint64(0), id)

	require.NoError(t, f.reg.Approve(user, f.vault.Address(), id))
	require.NoError(t, f.vault.Deposit(user, f.reg, id))
	require.Equal(t, value, f.vault.TotalValueLocked())

	f.advance(3600 * time.Second)

	pending := f.vault.PendingYield(user)
	require.True(t, pending.Sign() > 0)

	require.NoError(t, f.vault.Withdraw(user, f.reg, id))
	owner, err := f.reg.OwnerOf(id)
	require.NoError(t, err)
	require.Equal(t, user, owner)

	// withdrawing checkpoints the accrual; the balance is still claimable
	require.Equal(t, pending, f.vault.PendingYield(user))

	balBefore := f.rewards.BalanceOf(user)
	require.NoError(t, f.vault.ClaimYield(user))
	balAfter := f.rewards.BalanceOf(user)

	paid := new(uint256.Int).Sub(balAfter, balBefore)
	require.Equal(t, pending, paid)
	require.True(t, f.vault.PendingYield(user).IsZero())
}

func TestReserveReading(t *testing.T) {
	f := newFixture(t)

	reserve, at := f.vault.Reserve()
	require.Equal(t, uint256.NewInt(100000000), reserve)
	require.Equal(t, int64(1700000000), at)
}
