package repository

import (
	"context"
	"time"

	"github.com/FightFi/Sportsbook/internal/domain"
)

// Sportsbook defines the interface for data access required by the
// sportsbook service. Read methods return (nil, nil) when the record does
// not exist.
type Sportsbook interface {
	// CreateSeason registers a season together with its fight configs and
	// zeroed fight state, atomically. Returns domain.ErrSeasonAlreadyExists
	// if the season id is taken.
	CreateSeason(ctx context.Context, season *domain.Season, fights []domain.FightConfig) error

	GetSeason(ctx context.Context, seasonID int64) (*domain.Season, error)
	GetFightConfigs(ctx context.Context, seasonID int64) ([]domain.FightConfig, error)
	GetFightStates(ctx context.Context, seasonID int64) ([]domain.FightState, error)
	GetPools(ctx context.Context, seasonID int64, fightIdx int) ([]domain.Pool, error)
	GetPosition(ctx context.Context, account string, seasonID int64, fightIdx int) (*domain.Position, error)
	GetPositions(ctx context.Context, account string, seasonID int64) ([]domain.Position, error)

	// Transaction support
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx groups the state mutations of one settlement operation so they commit
// or roll back together.
type Tx interface {
	// CreatePosition inserts a new position. Returns domain.ErrPositionExists
	// if the (account, season, fight) key is taken.
	CreatePosition(ctx context.Context, pos *domain.Position) error

	// ApplyStake adds a locked stake to the outcome pool and the side
	// aggregates of a fight.
	ApplyStake(ctx context.Context, seasonID int64, fightIdx int, outcome uint8, side domain.Side, amount int64) error

	// AddPrizePool grows a fight's prize pool by a seeding top-up.
	AddPrizePool(ctx context.Context, seasonID int64, fightIdx int, amount int64) error

	// AddEscrow adjusts the season's tracked escrow balance (positive for
	// inflows, negative for payouts).
	AddEscrow(ctx context.Context, seasonID int64, delta int64) error

	// SetFightResolution freezes the write-once settlement numbers of a fight.
	SetFightResolution(ctx context.Context, seasonID int64, fightIdx int, winningOutcome uint8, totalWinningsPool, winningShareTotal int64) error

	// MarkSeasonResolved sets resolved and the settlement time, exactly once.
	MarkSeasonResolved(ctx context.Context, seasonID int64, settlementTime time.Time) error

	// MarkClaimed flips a position's claimed flag.
	MarkClaimed(ctx context.Context, account string, seasonID int64, fightIdx int) error

	// DrainEscrow zeroes the season's escrow balance and returns the amount
	// that was held.
	DrainEscrow(ctx context.Context, seasonID int64) (int64, error)

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
