package sportsbook

import (
	"context"
	"fmt"

	"github.com/FightFi/Sportsbook/internal/concurrency"
	"github.com/FightFi/Sportsbook/internal/domain"
	"github.com/FightFi/Sportsbook/internal/event"
	"github.com/FightFi/Sportsbook/internal/logger"
	"github.com/FightFi/Sportsbook/internal/repository"
)

func (s *service) RequiredSeed(ctx context.Context, seasonID int64, hypotheticalOutcomes []uint8) (*domain.SeedPlan, error) {
	season, err := s.repo.GetSeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetSeason, err)
	}
	if season == nil {
		return nil, domain.ErrSeasonNotFound
	}
	if season.Resolved {
		return nil, domain.ErrSeasonResolved
	}
	return s.seedPlan(ctx, season, hypotheticalOutcomes)
}

// seedPlan computes, per fight, the prize top-up that would guarantee every
// winner of the hypothetical outcome a payout of at least one unit per stake
// unit. The plan is a snapshot: predictions locked after it is computed can
// dilute the guarantee.
func (s *service) seedPlan(ctx context.Context, season *domain.Season, hypotheticalOutcomes []uint8) (*domain.SeedPlan, error) {
	if len(hypotheticalOutcomes) != season.FightCount {
		return nil, fmt.Errorf("%w: expected %d outcomes, got %d",
			domain.ErrInvalidInput, season.FightCount, len(hypotheticalOutcomes))
	}

	configs, err := s.getFightConfigs(ctx, season.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetConfigs, err)
	}
	states, err := s.repo.GetFightStates(ctx, season.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetStates, err)
	}

	plan := &domain.SeedPlan{
		SeasonID:     season.ID,
		Requirements: make([]domain.SeedRequirement, season.FightCount),
	}
	for i, raw := range hypotheticalOutcomes {
		winning, err := domain.DecodeOutcome(raw)
		if err != nil {
			return nil, fmt.Errorf("fight %d: %w", i, err)
		}
		if raw >= configs[i].OutcomeCount {
			return nil, fmt.Errorf("%w: fight %d raw value %d outside range of %d",
				domain.ErrInvalidOutcome, i, raw, configs[i].OutcomeCount)
		}

		pools, err := s.repo.GetPools(ctx, season.ID, i)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetPools, err)
		}
		st := settleNumbers(winning, &states[i], pools)

		req := domain.SeedRequirement{
			FightIdx:          i,
			WeightedShares:    st.winningShareTotal,
			MinSharesPerStake: st.minSharesPerStake,
			LoserStakes:       st.loserStakes,
			CurrentPrizePool:  states[i].PrizePool,
		}
		if st.winningShareTotal == 0 {
			// No backers on the hypothetical winner; no amount of seeding
			// can produce a winner, so this fight cannot resolve as given.
			req.NoWinners = true
		} else {
			// The smallest winner holds minSharesPerStake shares per stake
			// unit; a winnings pool of ceil(shareTotal/minShares) guarantees
			// floor(pool*shares/shareTotal) >= 1 for every winner.
			req.RequiredWinningsPool = ceilDiv(st.winningShareTotal, st.minSharesPerStake)
			shortfall := req.RequiredWinningsPool - st.loserStakes - states[i].PrizePool
			if shortfall > 0 {
				req.AdditionalSeedNeeded = shortfall
			}
		}
		plan.Requirements[i] = req
		plan.TotalSeed += req.AdditionalSeedNeeded
	}
	return plan, nil
}

func (s *service) SeedPrizePool(ctx context.Context, seasonID int64, fightIdx int, amount int64) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSeedCalled, "season_id", seasonID, "fight_idx", fightIdx, "amount", amount)

	if amount <= 0 {
		return fmt.Errorf("%w: seed amount must be positive", domain.ErrInvalidInput)
	}

	return s.locks.WithLock(concurrency.SeasonKey(seasonID), func() error {
		season, err := s.repo.GetSeason(ctx, seasonID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToGetSeason, err)
		}
		if season == nil {
			return domain.ErrSeasonNotFound
		}
		if season.Resolved {
			return domain.ErrSeasonResolved
		}
		if fightIdx < 0 || fightIdx >= season.FightCount {
			return fmt.Errorf("%w: fight index %d", domain.ErrFightNotFound, fightIdx)
		}

		if err := s.ledger.Debit(ctx, s.operator, season.EscrowAsset, amount); err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToDebit, err)
		}
		if err := s.applySeeds(ctx, seasonID, map[int]int64{fightIdx: amount}, amount); err != nil {
			s.compensate(ctx, s.operator, season.EscrowAsset, amount)
			return err
		}

		s.publish(ctx, event.NewPrizePoolSeededEvent(s.operator, seasonID, fightIdx, amount))
		return nil
	})
}

func (s *service) SeedAllFights(ctx context.Context, seasonID int64, hypotheticalOutcomes []uint8, autoApply bool) (*domain.SeedPlan, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSeedAllCalled, "season_id", seasonID, "auto_apply", autoApply)

	var plan *domain.SeedPlan
	err := s.locks.WithLock(concurrency.SeasonKey(seasonID), func() error {
		season, err := s.repo.GetSeason(ctx, seasonID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToGetSeason, err)
		}
		if season == nil {
			return domain.ErrSeasonNotFound
		}
		if season.Resolved {
			return domain.ErrSeasonResolved
		}

		plan, err = s.seedPlan(ctx, season, hypotheticalOutcomes)
		if err != nil {
			return err
		}
		if !autoApply || plan.TotalSeed == 0 {
			return nil
		}

		seeds := make(map[int]int64, len(plan.Requirements))
		for _, req := range plan.Requirements {
			if req.AdditionalSeedNeeded > 0 {
				seeds[req.FightIdx] = req.AdditionalSeedNeeded
			}
		}

		if err := s.ledger.Debit(ctx, s.operator, season.EscrowAsset, plan.TotalSeed); err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToDebit, err)
		}
		if err := s.applySeeds(ctx, seasonID, seeds, plan.TotalSeed); err != nil {
			s.compensate(ctx, s.operator, season.EscrowAsset, plan.TotalSeed)
			return err
		}
		plan.Applied = true

		for _, req := range plan.Requirements {
			if req.AdditionalSeedNeeded > 0 {
				s.publish(ctx, event.NewPrizePoolSeededEvent(s.operator, seasonID, req.FightIdx, req.AdditionalSeedNeeded))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// applySeeds writes prize pool top-ups and the matching escrow inflow in one
// transaction. The ledger debit has already happened; the caller compensates
// on failure.
func (s *service) applySeeds(ctx context.Context, seasonID int64, seeds map[int]int64, total int64) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	for fightIdx, amount := range seeds {
		if err := tx.AddPrizePool(ctx, seasonID, fightIdx, amount); err != nil {
			return err
		}
	}
	if err := tx.AddEscrow(ctx, seasonID, total); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}
	return nil
}
