package sportsbook

import (
	"context"
	"fmt"
	"time"

	"github.com/FightFi/Sportsbook/internal/concurrency"
	"github.com/FightFi/Sportsbook/internal/domain"
	"github.com/FightFi/Sportsbook/internal/event"
	"github.com/FightFi/Sportsbook/internal/logger"
	"github.com/FightFi/Sportsbook/internal/repository"
)

// FightSpec is the creation-time description of one fight in a season.
type FightSpec struct {
	MinStake     int64
	MaxStake     int64
	OutcomeCount uint8
	PrizeSeed    int64
}

func (s *service) CreateSeason(ctx context.Context, seasonID int64, cutOffTime time.Time, escrowAsset string, fights []FightSpec) (*domain.Season, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCreateSeasonCalled, "season_id", seasonID, "fight_count", len(fights))

	if seasonID <= 0 {
		return nil, fmt.Errorf("%w: season id must be positive", domain.ErrInvalidInput)
	}
	if escrowAsset == "" {
		return nil, fmt.Errorf("%w: escrow asset required", domain.ErrInvalidInput)
	}
	if len(fights) == 0 {
		return nil, fmt.Errorf("%w: season needs at least one fight", domain.ErrInvalidInput)
	}
	if len(fights) > MaxFightsPerSeason {
		return nil, fmt.Errorf("%w: at most %d fights per season", domain.ErrInvalidInput, MaxFightsPerSeason)
	}
	if !cutOffTime.After(s.now()) {
		return nil, fmt.Errorf("%w: cut-off time must be in the future", domain.ErrInvalidInput)
	}

	var totalSeed int64
	for i, f := range fights {
		if f.OutcomeCount < MinOutcomeCount || f.OutcomeCount > MaxOutcomeCount {
			return nil, fmt.Errorf("%w: fight %d outcome count %d outside [%d,%d]",
				domain.ErrInvalidInput, i, f.OutcomeCount, MinOutcomeCount, MaxOutcomeCount)
		}
		if f.MinStake <= 0 || f.MaxStake < f.MinStake {
			return nil, fmt.Errorf("%w: fight %d stake bounds [%d,%d] invalid",
				domain.ErrInvalidInput, i, f.MinStake, f.MaxStake)
		}
		if f.PrizeSeed < 0 {
			return nil, fmt.Errorf("%w: fight %d prize seed negative", domain.ErrInvalidInput, i)
		}
		totalSeed += f.PrizeSeed
	}

	var season *domain.Season
	err := s.locks.WithLock(concurrency.SeasonKey(seasonID), func() error {
		existing, err := s.repo.GetSeason(ctx, seasonID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToGetSeason, err)
		}
		if existing != nil {
			return domain.ErrSeasonAlreadyExists
		}

		season = &domain.Season{
			ID:          seasonID,
			CutOffTime:  cutOffTime,
			EscrowAsset: escrowAsset,
			FightCount:  len(fights),
			CreatedAt:   s.now(),
		}
		configs := make([]domain.FightConfig, len(fights))
		for i, f := range fights {
			configs[i] = domain.FightConfig{
				SeasonID:     seasonID,
				FightIdx:     i,
				MinStake:     f.MinStake,
				MaxStake:     f.MaxStake,
				OutcomeCount: f.OutcomeCount,
			}
		}

		// Pull the aggregate prize seed from the operator before any state
		// exists; a rejected debit leaves nothing to unwind.
		if totalSeed > 0 {
			if err := s.ledger.Debit(ctx, s.operator, escrowAsset, totalSeed); err != nil {
				return fmt.Errorf("%s: %w", ErrContextFailedToDebit, err)
			}
		}

		if err := s.createSeasonState(ctx, season, configs, fights, totalSeed); err != nil {
			if totalSeed > 0 {
				s.compensate(ctx, s.operator, escrowAsset, totalSeed)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.NewSeasonCreatedEvent(seasonID, escrowAsset, len(fights), cutOffTime, totalSeed))
	return season, nil
}

// createSeasonState persists the season row, configs, zeroed states and any
// initial prize seeds in one transaction.
func (s *service) createSeasonState(ctx context.Context, season *domain.Season, configs []domain.FightConfig, fights []FightSpec, totalSeed int64) error {
	if err := s.repo.CreateSeason(ctx, season, configs); err != nil {
		return err
	}
	if totalSeed == 0 {
		return nil
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	for i, f := range fights {
		if f.PrizeSeed == 0 {
			continue
		}
		if err := tx.AddPrizePool(ctx, season.ID, i, f.PrizeSeed); err != nil {
			return err
		}
	}
	if err := tx.AddEscrow(ctx, season.ID, totalSeed); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}
	season.EscrowBalance = totalSeed
	return nil
}

// compensate returns a debited amount to its source after a failed state
// write. A failed compensation strands funds in escrow and is logged loudly;
// the escrow accumulator was never adjusted, so a later sweep reconciles it.
func (s *service) compensate(ctx context.Context, account, asset string, amount int64) {
	log := logger.FromContext(ctx)
	log.Warn(LogMsgCompensatingCredit, "account", account, "asset", asset, "amount", amount)
	if err := s.ledger.Credit(ctx, account, asset, amount); err != nil {
		log.Error(LogMsgCompensationFailed, "account", account, "asset", asset, "amount", amount, "error", err)
	}
}

func (s *service) GetSeason(ctx context.Context, seasonID int64) (*domain.SeasonDetail, error) {
	season, err := s.repo.GetSeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetSeason, err)
	}
	if season == nil {
		return nil, domain.ErrSeasonNotFound
	}

	configs, err := s.getFightConfigs(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetConfigs, err)
	}
	states, err := s.repo.GetFightStates(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetStates, err)
	}

	detail := &domain.SeasonDetail{
		Season: *season,
		Fights: make([]domain.FightDetail, len(configs)),
	}
	for i := range configs {
		pools, err := s.repo.GetPools(ctx, seasonID, i)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetPools, err)
		}
		detail.Fights[i] = domain.FightDetail{
			Config: configs[i],
			State:  states[i],
			Pools:  pools,
		}
	}
	return detail, nil
}
