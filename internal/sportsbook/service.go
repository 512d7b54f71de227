package sportsbook

import (
	"context"
	"math/bits"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/FightFi/Sportsbook/internal/concurrency"
	"github.com/FightFi/Sportsbook/internal/domain"
	"github.com/FightFi/Sportsbook/internal/event"
	"github.com/FightFi/Sportsbook/internal/ledger"
	"github.com/FightFi/Sportsbook/internal/repository"
)

// Service defines the interface for sportsbook settlement operations
type Service interface {
	// CreateSeason registers a season with its fight list and debits the
	// operator for the aggregate prize seed.
	CreateSeason(ctx context.Context, seasonID int64, cutOffTime time.Time, escrowAsset string, fights []FightSpec) (*domain.Season, error)

	// GetSeason returns the full registry view of a season.
	GetSeason(ctx context.Context, seasonID int64) (*domain.SeasonDetail, error)

	// LockPredictions creates one position per entry and debits the account
	// once for the whole batch.
	LockPredictions(ctx context.Context, account string, seasonID int64, entries []domain.PredictionEntry) (*domain.LockReceipt, error)

	// Resolve freezes the settlement numbers of every fight atomically.
	Resolve(ctx context.Context, seasonID int64, winningOutcomes []uint8) error

	// Claim pays an account everything it is owed across a season's fights
	// in one credit.
	Claim(ctx context.Context, account string, seasonID int64) (*domain.ClaimResult, error)

	// GetPositionPayout reports a position's worth without mutating state.
	GetPositionPayout(ctx context.Context, account string, seasonID int64, fightIdx int) (*domain.PositionPayout, error)

	// RequiredSeed computes the per-fight prize top-up that guarantees every
	// hypothetical winner a non-zero payout, without mutating state.
	RequiredSeed(ctx context.Context, seasonID int64, hypotheticalOutcomes []uint8) (*domain.SeedPlan, error)

	// SeedPrizePool tops up one fight's prize pool from the operator account.
	SeedPrizePool(ctx context.Context, seasonID int64, fightIdx int, amount int64) error

	// SeedAllFights computes the seed plan and, when autoApply is set, debits
	// the operator once for the aggregate shortfall and distributes it.
	SeedAllFights(ctx context.Context, seasonID int64, hypotheticalOutcomes []uint8, autoApply bool) (*domain.SeedPlan, error)

	// RecoverResidual sweeps a season's remaining escrow to a recipient after
	// the claim window has closed.
	RecoverResidual(ctx context.Context, seasonID int64, recipient string) (*domain.SweepResult, error)
}

type service struct {
	repo        repository.Sportsbook
	ledger      ledger.Ledger
	eventBus    event.Bus
	locks       *concurrency.LockManager
	configCache *expirable.LRU[int64, []domain.FightConfig]
	operator    string
	claimWindow time.Duration
	now         func() time.Time
}

// NewService creates a new sportsbook service. The operator account funds
// prize seeds and receives nothing automatically; residual sweeps name their
// recipient explicitly.
func NewService(repo repository.Sportsbook, ledg ledger.Ledger, eventBus event.Bus, operator string, claimWindow time.Duration) Service {
	if claimWindow <= 0 {
		claimWindow = DefaultClaimWindow
	}
	return &service{
		repo:        repo,
		ledger:      ledg,
		eventBus:    eventBus,
		locks:       concurrency.NewLockManager(),
		configCache: expirable.NewLRU[int64, []domain.FightConfig](ConfigCacheSize, nil, ConfigCacheTTL),
		operator:    operator,
		claimWindow: claimWindow,
		now:         time.Now,
	}
}

// getFightConfigs reads a season's fight configs through the LRU cache.
// Configs are immutable after creation, so cached entries never go stale.
func (s *service) getFightConfigs(ctx context.Context, seasonID int64) ([]domain.FightConfig, error) {
	if configs, ok := s.configCache.Get(seasonID); ok {
		return configs, nil
	}

	configs, err := s.repo.GetFightConfigs(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if configs != nil {
		s.configCache.Add(seasonID, configs)
	}
	return configs, nil
}

// publish sends an event without letting a bus failure abort the settled
// operation; the resilient publisher retries in the background.
func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.eventBus == nil {
		return
	}
	_ = s.eventBus.Publish(ctx, evt)
}

// sharesFor returns the per-stake-unit share weight a backed outcome earns
// against the winning outcome: exact side+method matches earn 4, side-only
// matches earn 3, losing-side outcomes earn nothing.
func sharesFor(backed, winning domain.Outcome) int64 {
	if backed.Side != winning.Side {
		return 0
	}
	if backed.Method == winning.Method {
		return ExactMatchShares
	}
	return SideMatchShares
}

// mulDiv computes (a*b)/d with an intermediate 128-bit product so the
// multiplication cannot overflow. All inputs are non-negative and d > 0.
func mulDiv(a, b, d int64) int64 {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi == 0 {
		return int64(lo / uint64(d))
	}
	if hi >= uint64(d) {
		// Quotient would exceed 64 bits; impossible for balances that fit
		// the ledger, but don't panic on garbage input.
		return int64(^uint64(0) >> 1)
	}
	quo, _ := bits.Div64(hi, lo, uint64(d))
	return int64(quo)
}

// ceilDiv computes ceil(a/b) for positive b.
func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
