package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidQueryParam = "Invalid %s query parameter"

	// Operation failure log messages
	ErrMsgCreateSeasonFailed    = "Failed to create season"
	ErrMsgGetSeasonFailed       = "Failed to get season"
	ErrMsgLockPredictionsFailed = "Failed to lock predictions"
	ErrMsgResolveFailed         = "Failed to resolve season"
	ErrMsgClaimFailed           = "Failed to claim winnings"
	ErrMsgPositionPayoutFailed  = "Failed to get position payout"
	ErrMsgRequiredSeedFailed    = "Failed to compute required seed"
	ErrMsgSeedFailed            = "Failed to seed prize pool"
	ErrMsgRecoverFailed         = "Failed to recover residual"
	ErrMsgGetEventsFailed       = "Failed to get events"
)

// Success messages for API responses
const (
	MsgSeasonResolvedSuccess = "Season resolved"
	MsgPrizePoolSeeded       = "Prize pool seeded"
)
