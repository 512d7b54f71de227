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

// settlement holds the numbers frozen for one fight at resolution time.
// TotalWinningsPool and WinningShareTotal are stored undivided; claims divide
// per user so truncation dust stays in escrow instead of vanishing here.
type settlement struct {
	winning           domain.Outcome
	loserStakes       int64
	totalWinningsPool int64
	winningShareTotal int64
	minSharesPerStake int64
}

// settleNumbers computes a fight's settlement from its outcome pools and side
// aggregates. Pool weights: 4 per stake unit on the exact winning outcome,
// 3 per unit on same-side pools, 0 across the cage.
func settleNumbers(winning domain.Outcome, state *domain.FightState, pools []domain.Pool) settlement {
	st := settlement{
		winning:           winning,
		loserStakes:       state.SideStaked(winning.Side.Other()),
		minSharesPerStake: ExactMatchShares,
	}
	for _, p := range pools {
		if p.TotalStaked == 0 {
			continue
		}
		backed, err := domain.DecodeOutcome(p.Outcome)
		if err != nil {
			// Pools only ever hold validated outcomes; skip anything else.
			continue
		}
		shares := sharesFor(backed, winning)
		if shares == 0 {
			continue
		}
		st.winningShareTotal += shares * p.TotalStaked
		if shares == SideMatchShares {
			st.minSharesPerStake = SideMatchShares
		}
	}
	st.totalWinningsPool = st.loserStakes + state.PrizePool
	return st
}

func (s *service) Resolve(ctx context.Context, seasonID int64, winningOutcomes []uint8) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgResolveCalled, "season_id", seasonID)

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
		if len(winningOutcomes) != season.FightCount {
			return fmt.Errorf("%w: expected %d outcomes, got %d",
				domain.ErrInvalidInput, season.FightCount, len(winningOutcomes))
		}

		configs, err := s.getFightConfigs(ctx, seasonID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToGetConfigs, err)
		}
		states, err := s.repo.GetFightStates(ctx, seasonID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToGetStates, err)
		}

		// Compute every fight before writing anything: a single fight with
		// no backed winner fails the entire season, so no fight may freeze.
		settlements := make([]settlement, season.FightCount)
		for i, raw := range winningOutcomes {
			winning, err := domain.DecodeOutcome(raw)
			if err != nil {
				return fmt.Errorf("fight %d: %w", i, err)
			}
			if raw >= configs[i].OutcomeCount {
				return fmt.Errorf("%w: fight %d raw value %d outside range of %d",
					domain.ErrInvalidOutcome, i, raw, configs[i].OutcomeCount)
			}

			pools, err := s.repo.GetPools(ctx, seasonID, i)
			if err != nil {
				return fmt.Errorf("%s: %w", ErrContextFailedToGetPools, err)
			}
			st := settleNumbers(winning, &states[i], pools)
			if st.winningShareTotal == 0 {
				return fmt.Errorf("%w: fight %d outcome %s has no backers",
					domain.ErrNoPossibleWinner, i, winning)
			}
			settlements[i] = st
		}

		settlementTime := s.now()
		tx, err := s.repo.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
		}
		defer repository.SafeRollback(ctx, tx)

		fights := make([]domain.FightResolutionV1, season.FightCount)
		for i, st := range settlements {
			raw := st.winning.Encode()
			if err := tx.SetFightResolution(ctx, seasonID, i, raw, st.totalWinningsPool, st.winningShareTotal); err != nil {
				return err
			}
			fights[i] = domain.FightResolutionV1{
				FightIdx:          i,
				WinningOutcome:    raw,
				TotalWinningsPool: st.totalWinningsPool,
				WinningShareTotal: st.winningShareTotal,
			}
		}
		if err := tx.MarkSeasonResolved(ctx, seasonID, settlementTime); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
		}

		s.publish(ctx, event.NewSeasonResolvedEvent(seasonID, settlementTime, fights))
		return nil
	})
}
