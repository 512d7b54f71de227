package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Season registry errors
	ErrMsgSeasonNotFound      = "season not found"
	ErrMsgSeasonAlreadyExists = "season already exists"
	ErrMsgSeasonResolved      = "season already resolved"
	ErrMsgSeasonNotResolved   = "season not resolved"
	ErrMsgSeasonClosed        = "season past cut-off"
	ErrMsgFightNotFound       = "fight not found"

	// Prediction errors
	ErrMsgInvalidOutcome  = "invalid outcome"
	ErrMsgDuplicateFight  = "duplicate fight in batch"
	ErrMsgStakeOutOfRange = "stake outside fight bounds"
	ErrMsgPositionExists  = "position already exists"

	// Resolution errors
	ErrMsgNoPossibleWinner = "no possible winner for fight"

	// Claim errors
	ErrMsgClaimWindowClosed = "claim window closed"
	ErrMsgNothingToClaim    = "nothing to claim"

	// Sweep errors
	ErrMsgClaimWindowStillOpen = "claim window still open"
	ErrMsgNothingToSweep       = "no residual escrow to sweep"

	// Ledger errors
	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgTransferDenied    = "transfer denied by policy"
	ErrMsgAccountNotFound   = "account not found"

	// Input errors
	ErrMsgInvalidInput = "invalid input"

	// Database/System errors
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Season registry errors
	ErrSeasonNotFound      = errors.New(ErrMsgSeasonNotFound)
	ErrSeasonAlreadyExists = errors.New(ErrMsgSeasonAlreadyExists)
	ErrSeasonResolved      = errors.New(ErrMsgSeasonResolved)
	ErrSeasonNotResolved   = errors.New(ErrMsgSeasonNotResolved)
	ErrSeasonClosed        = errors.New(ErrMsgSeasonClosed)
	ErrFightNotFound       = errors.New(ErrMsgFightNotFound)

	// Prediction errors
	ErrInvalidOutcome  = errors.New(ErrMsgInvalidOutcome)
	ErrDuplicateFight  = errors.New(ErrMsgDuplicateFight)
	ErrStakeOutOfRange = errors.New(ErrMsgStakeOutOfRange)
	ErrPositionExists  = errors.New(ErrMsgPositionExists)

	// Resolution errors
	ErrNoPossibleWinner = errors.New(ErrMsgNoPossibleWinner)

	// Claim errors
	ErrClaimWindowClosed = errors.New(ErrMsgClaimWindowClosed)
	ErrNothingToClaim    = errors.New(ErrMsgNothingToClaim)

	// Sweep errors
	ErrClaimWindowStillOpen = errors.New(ErrMsgClaimWindowStillOpen)
	ErrNothingToSweep       = errors.New(ErrMsgNothingToSweep)

	// Ledger errors
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrTransferDenied    = errors.New(ErrMsgTransferDenied)
	ErrAccountNotFound   = errors.New(ErrMsgAccountNotFound)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
