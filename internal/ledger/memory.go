package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/FightFi/Sportsbook/internal/domain"
)

// EscrowAccount is the reserved account name holding escrowed funds in the
// in-memory ledger.
const EscrowAccount = "escrow"

// MemoryLedger is an in-memory Ledger for tests and dev mode. It models just
// enough transfer policy (denylist, pause switch) to exercise
// dependency-failure propagation in callers.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]map[string]int64 // asset -> account -> balance
	denied   map[string]bool
	paused   bool
}

// NewMemoryLedger creates an empty in-memory ledger
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[string]map[string]int64),
		denied:   make(map[string]bool),
	}
}

// Mint adds units to an account, creating it if needed. Test/dev helper.
func (l *MemoryLedger) Mint(account, asset string, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.assetBalances(asset)[account] += amount
}

// SetPaused toggles the pause switch; all transfers fail while paused.
func (l *MemoryLedger) SetPaused(paused bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paused = paused
}

// Deny blocks an account from transferring.
func (l *MemoryLedger) Deny(account string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.denied[account] = true
}

// BalanceOf reports an account balance
func (l *MemoryLedger) BalanceOf(_ context.Context, account, asset string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.assetBalances(asset)[account], nil
}

// Debit moves amount from account into escrow
func (l *MemoryLedger) Debit(_ context.Context, account, asset string, amount int64) error {
	return l.transfer(account, EscrowAccount, asset, amount)
}

// Credit moves amount from escrow to account
func (l *MemoryLedger) Credit(_ context.Context, account, asset string, amount int64) error {
	return l.transfer(EscrowAccount, account, asset, amount)
}

func (l *MemoryLedger) transfer(from, to, asset string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: non-positive transfer amount %d", domain.ErrInvalidInput, amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.paused {
		return fmt.Errorf("%w: ledger paused", domain.ErrTransferDenied)
	}
	if l.denied[from] || l.denied[to] {
		return domain.ErrTransferDenied
	}

	balances := l.assetBalances(asset)
	if balances[from] < amount {
		return fmt.Errorf("%w: account %s has %d, needs %d", domain.ErrInsufficientFunds, from, balances[from], amount)
	}

	balances[from] -= amount
	balances[to] += amount
	return nil
}

// assetBalances returns the balance map for an asset, creating it if needed.
// Callers must hold l.mu.
func (l *MemoryLedger) assetBalances(asset string) map[string]int64 {
	m, ok := l.balances[asset]
	if !ok {
		m = make(map[string]int64)
		l.balances[asset] = m
	}
	return m
}
