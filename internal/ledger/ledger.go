// Package ledger defines the escrow ledger the sportsbook settles against.
// The ledger is an external collaborator: it owns balances, transfer policy
// and pausing. The sportsbook only ever debits stakes and seeds into its
// escrow account and credits payouts back out, and both operations are
// atomic - they either fully apply or return an error with no effect.
package ledger

import "context"

// Ledger is the value-transfer collaborator consumed by the sportsbook.
// Amounts are whole integer units; implementations must reject zero and
// negative amounts.
type Ledger interface {
	// BalanceOf reports the balance of an account for one asset.
	BalanceOf(ctx context.Context, account, asset string) (int64, error)

	// Debit pulls amount units of asset from the account into escrow.
	// Returns domain.ErrInsufficientFunds or domain.ErrTransferDenied on
	// policy rejection, with no partial effect.
	Debit(ctx context.Context, account, asset string, amount int64) error

	// Credit pushes amount units of asset from escrow to the account.
	Credit(ctx context.Context, account, asset string, amount int64) error
}
