package token

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
	"github.com/zachyo/compliant-asset-vault/types"
)

// Ledger is the fungible reward-token balance ledger.
type Ledger struct {
	mtx      sync.Mutex
	balances map[types.Address]*uint256.Int
	logger   zerolog.Logger
}

func New(logger zerolog.Logger) *Ledger {
	return &Ledger{
		balances: make(map[types.Address]*uint256.Int),
		logger:   logger.With().Str("module", "token").Logger(),
	}
}

// Mint credits freshly created tokens to `to`. Used to fund the vault's
// reward pool out-of-band.
func (l *Ledger) Mint(to types.Address, amount *uint256.Int) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.credit(to, amount)
	l.logger.Debug().Str("to", string(to)).Str("amount", amount.Dec()).Msg("minted")
}

func (l *Ledger) Transfer(from, to types.Address, amount *uint256.Int) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	bal := l.balances[from]
	if bal == nil || bal.Cmp(amount) < 0 {
		return fmt.Errorf("%w: account %s", types.ErrInsufficientBalance, from)
	}
	bal.Sub(bal, amount)
	l.credit(to, amount)
	return nil
}

func (l *Ledger) BalanceOf(account types.Address) *uint256.Int {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if bal, ok := l.balances[account]; ok {
		return new(uint256.Int).Set(bal)
	}
	return uint256.NewInt(0)
}

func (l *Ledger) credit(to types.Address, amount *uint256.Int) {
	if bal, ok := l.balances[to]; ok {
		bal.Add(bal, amount)
		return
	}
	l.balances[to] = new(uint256.Int).Set(amount)
}
