package domain

import "time"

// Season is a batch of fights settled together against one escrow asset.
// CutOffTime and FightCount are immutable after creation; Resolved and
// SettlementTime are set exactly once, atomically for all fights.
type Season struct {
	ID             int64      `json:"id"`
	CutOffTime     time.Time  `json:"cut_off_time"`
	EscrowAsset    string     `json:"escrow_asset"`
	FightCount     int        `json:"fight_count"`
	Resolved       bool       `json:"resolved"`
	SettlementTime *time.Time `json:"settlement_time,omitempty"`
	// EscrowBalance tracks the units this season currently holds in escrow:
	// stakes plus prize seeds in, claim payouts and the residual sweep out.
	EscrowBalance int64     `json:"escrow_balance"`
	CreatedAt     time.Time `json:"created_at"`
}

// FightConfig is the immutable per-fight betting configuration.
type FightConfig struct {
	SeasonID     int64 `json:"season_id"`
	FightIdx     int   `json:"fight_idx"`
	MinStake     int64 `json:"min_stake"`
	MaxStake     int64 `json:"max_stake"`
	OutcomeCount uint8 `json:"outcome_count"`
}

// FightState is the mutable per-fight accounting. PrizePool grows through
// pre-resolution seeding; the side aggregates grow as predictions lock.
// WinningOutcome, TotalWinningsPool and WinningShareTotal are write-once,
// set during resolution, and stored undivided: claims compute
// (TotalWinningsPool * userShares) / WinningShareTotal so truncation happens
// once per user rather than once at resolution.
type FightState struct {
	SeasonID          int64  `json:"season_id"`
	FightIdx          int    `json:"fight_idx"`
	PrizePool         int64  `json:"prize_pool"`
	SideAStaked       int64  `json:"side_a_staked"`
	SideBStaked       int64  `json:"side_b_staked"`
	SideAUsers        int64  `json:"side_a_users"`
	SideBUsers        int64  `json:"side_b_users"`
	WinningOutcome    *uint8 `json:"winning_outcome,omitempty"`
	TotalWinningsPool int64  `json:"total_winnings_pool"`
	WinningShareTotal int64  `json:"winning_share_total"`
}

// SideStaked returns the aggregate stake for the given side
func (f *FightState) SideStaked(s Side) int64 {
	if s == SideA {
		return f.SideAStaked
	}
	return f.SideBStaked
}

// IsResolved reports whether resolution data has been frozen for this fight.
// WinningShareTotal can legitimately be zero when nobody backed the winner.
func (f *FightState) IsResolved() bool {
	return f.WinningOutcome != nil
}

// Pool is the aggregate stake on one exact outcome value of one fight.
type Pool struct {
	SeasonID    int64 `json:"season_id"`
	FightIdx    int   `json:"fight_idx"`
	Outcome     uint8 `json:"outcome"`
	TotalStaked int64 `json:"total_staked"`
}

// FightDetail bundles a fight's config, state and outcome pools for views.
type FightDetail struct {
	Config FightConfig `json:"config"`
	State  FightState  `json:"state"`
	Pools  []Pool      `json:"pools"`
}

// SeasonDetail is the full registry view of a season.
type SeasonDetail struct {
	Season Season        `json:"season"`
	Fights []FightDetail `json:"fights"`
}
