package domain

// Event types published by the sportsbook service
const (
	EventTypeSeasonCreated     = "season.created"
	EventTypePredictionsLocked = "predictions.locked"
	EventTypeSeasonResolved    = "season.resolved"
	EventTypePrizePoolSeeded   = "prizepool.seeded"
	EventTypeWinningsClaimed   = "winnings.claimed"
	EventTypeResidualRecovered = "residual.recovered"
)

// SeasonCreatedPayloadV1 is the typed payload for season creation events
type SeasonCreatedPayloadV1 struct {
	SeasonID    int64  `json:"season_id"`
	EscrowAsset string `json:"escrow_asset"`
	FightCount  int    `json:"fight_count"`
	CutOffTime  int64  `json:"cut_off_time"`
	TotalSeed   int64  `json:"total_seed"`
	Timestamp   int64  `json:"timestamp"`
}

// PredictionsLockedPayloadV1 is the typed payload for prediction lock events.
// One event is published per fight in a lock batch.
type PredictionsLockedPayloadV1 struct {
	Account   string `json:"account"`
	SeasonID  int64  `json:"season_id"`
	FightIdx  int    `json:"fight_idx"`
	Outcome   uint8  `json:"outcome"`
	Stake     int64  `json:"stake"`
	Timestamp int64  `json:"timestamp"`
}

// FightResolutionV1 is the per-fight settlement summary inside a season
// resolution event
type FightResolutionV1 struct {
	FightIdx          int   `json:"fight_idx"`
	WinningOutcome    uint8 `json:"winning_outcome"`
	TotalWinningsPool int64 `json:"total_winnings_pool"`
	WinningShareTotal int64 `json:"winning_share_total"`
}

// SeasonResolvedPayloadV1 is the typed payload for season resolution events
type SeasonResolvedPayloadV1 struct {
	SeasonID       int64               `json:"season_id"`
	SettlementTime int64               `json:"settlement_time"`
	Fights         []FightResolutionV1 `json:"fights"`
}

// PrizePoolSeededPayloadV1 is the typed payload for prize pool seeding events
type PrizePoolSeededPayloadV1 struct {
	Operator  string `json:"operator"`
	SeasonID  int64  `json:"season_id"`
	FightIdx  int    `json:"fight_idx"`
	Amount    int64  `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// WinningsClaimedPayloadV1 is the typed payload for claim events
type WinningsClaimedPayloadV1 struct {
	Account       string `json:"account"`
	SeasonID      int64  `json:"season_id"`
	TotalPayout   int64  `json:"total_payout"`
	FightsClaimed []int  `json:"fights_claimed"`
	Timestamp     int64  `json:"timestamp"`
}

// ResidualRecoveredPayloadV1 is the typed payload for residual sweep events
type ResidualRecoveredPayloadV1 struct {
	SeasonID  int64  `json:"season_id"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}
