package sportsbook

import "time"

// ============================================================================
// Share Weights
// ============================================================================

// ExactMatchShares is the per-stake-unit share weight for a position whose
// outcome matches the winning side and method exactly.
const ExactMatchShares = 4

// SideMatchShares is the per-stake-unit share weight for a position that
// backed the winning side but a different method.
const SideMatchShares = 3

// ============================================================================
// Season Limits
// ============================================================================

// MaxFightsPerSeason bounds a season's fight list. The duplicate-fight check
// in a lock batch uses a fixed bitset sized to this limit.
const MaxFightsPerSeason = 256

// MinOutcomeCount is the smallest legal outcome range for a fight.
const MinOutcomeCount = 2

// MaxOutcomeCount is the largest legal outcome range: one bit of side and
// two bits of method give raw values 0..7.
const MaxOutcomeCount = 8

// ============================================================================
// Claim Window
// ============================================================================

// DefaultClaimWindow is how long after settlement winners may claim.
const DefaultClaimWindow = 72 * time.Hour

// ============================================================================
// Config Cache
// ============================================================================

// ConfigCacheSize bounds the number of seasons whose immutable fight configs
// are kept in memory.
const ConfigCacheSize = 128

// ConfigCacheTTL expires cached fight configs; they are immutable, so the
// TTL only bounds memory for dead seasons.
const ConfigCacheTTL = 30 * time.Minute

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgCreateSeasonCalled    = "CreateSeason called"
	LogMsgLockPredictionsCalled = "LockPredictions called"
	LogMsgResolveCalled         = "Resolve called"
	LogMsgClaimCalled           = "Claim called"
	LogMsgSeedCalled            = "SeedPrizePool called"
	LogMsgSeedAllCalled         = "SeedAllFights called"
	LogMsgSweepCalled           = "RecoverResidual called"

	LogMsgCompensatingCredit     = "Transaction failed after debit, issuing compensating credit"
	LogMsgCompensationFailed     = "Compensating credit failed, escrow holds orphaned funds"
	LogMsgCommitAfterPayoutError = "Commit failed after payout credit, claim marks rolled back"
)

// ============================================================================
// Error Contexts
// ============================================================================

const (
	ErrContextFailedToGetSeason    = "failed to get season"
	ErrContextFailedToGetConfigs   = "failed to get fight configs"
	ErrContextFailedToGetStates    = "failed to get fight states"
	ErrContextFailedToGetPools     = "failed to get pools"
	ErrContextFailedToGetPosition  = "failed to get position"
	ErrContextFailedToGetPositions = "failed to get positions"
	ErrContextFailedToBeginTx      = "failed to begin transaction"
	ErrContextFailedToCommitTx     = "failed to commit transaction"
	ErrContextFailedToDebit        = "failed to debit escrow"
	ErrContextFailedToCredit       = "failed to credit from escrow"
)
