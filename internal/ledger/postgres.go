package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FightFi/Sportsbook/internal/domain"
)

// PostgresLedger is a Ledger backed by a ledger_balances table. Each transfer
// runs in one transaction so a debit or credit either fully applies or leaves
// no trace.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger creates a ledger over the given pool
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// BalanceOf reports an account balance
func (l *PostgresLedger) BalanceOf(ctx context.Context, account, asset string) (int64, error) {
	query := `
		SELECT balance FROM ledger_balances
		WHERE asset = $1 AND account = $2
	`

	var balance int64
	err := l.db.QueryRow(ctx, query, asset, account).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

// Debit moves amount from account into escrow
func (l *PostgresLedger) Debit(ctx context.Context, account, asset string, amount int64) error {
	return l.transfer(ctx, account, EscrowAccount, asset, amount)
}

// Credit moves amount from escrow to account
func (l *PostgresLedger) Credit(ctx context.Context, account, asset string, amount int64) error {
	return l.transfer(ctx, EscrowAccount, account, asset, amount)
}

func (l *PostgresLedger) transfer(ctx context.Context, from, to, asset string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: non-positive transfer amount %d", domain.ErrInvalidInput, amount)
	}

	tx, err := l.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transfer: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			return
		}
	}()

	debit := `
		UPDATE ledger_balances
		SET balance = balance - $3
		WHERE asset = $1 AND account = $2 AND balance >= $3
	`
	result, err := tx.Exec(ctx, debit, asset, from, amount)
	if err != nil {
		return fmt.Errorf("failed to debit %s: %w", from, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s needs %d", domain.ErrInsufficientFunds, from, amount)
	}

	credit := `
		INSERT INTO ledger_balances (asset, account, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (asset, account) DO UPDATE SET balance = ledger_balances.balance + $3
	`
	if _, err := tx.Exec(ctx, credit, asset, to, amount); err != nil {
		return fmt.Errorf("failed to credit %s: %w", to, err)
	}

	return tx.Commit(ctx)
}
