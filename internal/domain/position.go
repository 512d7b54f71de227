package domain

import "time"

// Position is a user's single stake-and-prediction record for one fight.
// Created once; only Claimed ever changes, flipping false to true exactly
// once during a successful claim.
type Position struct {
	Account   string    `json:"account"`
	SeasonID  int64     `json:"season_id"`
	FightIdx  int       `json:"fight_idx"`
	Outcome   uint8     `json:"outcome"`
	Stake     int64     `json:"stake"`
	Claimed   bool      `json:"claimed"`
	CreatedAt time.Time `json:"created_at"`
}

// PredictionEntry is one fight prediction inside a lock batch.
type PredictionEntry struct {
	FightIdx int   `json:"fight_idx"`
	Outcome  uint8 `json:"outcome"`
	Stake    int64 `json:"stake"`
}

// LockReceipt summarizes one prediction lock batch: the positions created
// and the single aggregate debit taken for them.
type LockReceipt struct {
	Account     string     `json:"account"`
	SeasonID    int64      `json:"season_id"`
	TotalStaked int64      `json:"total_staked"`
	Positions   []Position `json:"positions"`
}

// PositionPayout reports what a position is worth without mutating anything.
type PositionPayout struct {
	HasPosition bool  `json:"has_position"`
	Eligible    bool  `json:"eligible"`
	Claimed     bool  `json:"claimed"`
	Outcome     uint8 `json:"outcome"`
	Stake       int64 `json:"stake"`
	Points      int64 `json:"points"`
	UserShares  int64 `json:"user_shares"`
	Winnings    int64 `json:"winnings"`
	Payout      int64 `json:"payout"`
}

// ClaimResult summarizes one claim call: the fights that paid out this call
// and the single aggregate credit issued for them.
type ClaimResult struct {
	Account       string `json:"account"`
	SeasonID      int64  `json:"season_id"`
	TotalPayout   int64  `json:"total_payout"`
	FightsClaimed []int  `json:"fights_claimed"`
}

// SeedRequirement is the per-fight shortfall report from the seeding
// calculator. The snapshot fields record the stake distribution the
// requirement was computed against; predictions locked afterwards can make
// the guarantee stale.
type SeedRequirement struct {
	FightIdx             int   `json:"fight_idx"`
	WeightedShares       int64 `json:"weighted_shares"`
	MinSharesPerStake    int64 `json:"min_shares_per_stake"`
	LoserStakes          int64 `json:"loser_stakes"`
	CurrentPrizePool     int64 `json:"current_prize_pool"`
	RequiredWinningsPool int64 `json:"required_winnings_pool"`
	AdditionalSeedNeeded int64 `json:"additional_seed_needed"`
	// NoWinners marks a fight where the hypothetical outcome has no backers;
	// seeding cannot create a winner, so the fight cannot resolve as given.
	NoWinners bool `json:"no_winners"`
}

// SeedPlan is the batched seeding report across all fights of a season.
type SeedPlan struct {
	SeasonID     int64             `json:"season_id"`
	Requirements []SeedRequirement `json:"requirements"`
	TotalSeed    int64             `json:"total_seed"`
	Applied      bool              `json:"applied"`
}

// SweepResult reports a residual recovery.
type SweepResult struct {
	SeasonID  int64  `json:"season_id"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}
