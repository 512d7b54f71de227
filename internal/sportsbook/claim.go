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

func (s *service) Claim(ctx context.Context, account string, seasonID int64) (*domain.ClaimResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgClaimCalled, "account", account, "season_id", seasonID)

	account, err := domain.NormalizeAccount(account)
	if err != nil {
		return nil, err
	}

	var result *domain.ClaimResult
	err = s.locks.WithLock(concurrency.SeasonKey(seasonID), func() error {
		season, err := s.repo.GetSeason(ctx, seasonID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToGetSeason, err)
		}
		if season == nil {
			return domain.ErrSeasonNotFound
		}
		if !season.Resolved || season.SettlementTime == nil {
			return domain.ErrSeasonNotResolved
		}
		if s.now().After(season.SettlementTime.Add(s.claimWindow)) {
			return domain.ErrClaimWindowClosed
		}

		states, err := s.repo.GetFightStates(ctx, seasonID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToGetStates, err)
		}
		positions, err := s.repo.GetPositions(ctx, account, seasonID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToGetPositions, err)
		}

		var totalPayout int64
		var fightsClaimed []int
		for _, pos := range positions {
			if pos.Claimed {
				continue
			}
			state := &states[pos.FightIdx]
			payout, winner := positionPayout(&pos, state)
			if !winner {
				// Losing positions stay unclaimed; there is nothing to pay
				// and nothing to protect against double payment.
				continue
			}
			totalPayout += payout
			fightsClaimed = append(fightsClaimed, pos.FightIdx)
		}

		if totalPayout == 0 {
			return domain.ErrNothingToClaim
		}

		tx, err := s.repo.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
		}
		defer repository.SafeRollback(ctx, tx)

		for _, fightIdx := range fightsClaimed {
			if err := tx.MarkClaimed(ctx, account, seasonID, fightIdx); err != nil {
				return err
			}
		}
		if err := tx.AddEscrow(ctx, seasonID, -totalPayout); err != nil {
			return err
		}

		// Credit before commit: a failed credit rolls the claim marks back,
		// a failed commit after a successful credit would double-pay, so the
		// credit is the last fallible step before the marks become durable.
		if err := s.ledger.Credit(ctx, account, season.EscrowAsset, totalPayout); err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToCredit, err)
		}
		if err := tx.Commit(ctx); err != nil {
			log.Error(LogMsgCommitAfterPayoutError, "account", account, "amount", totalPayout, "error", err)
			return fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
		}

		result = &domain.ClaimResult{
			Account:       account,
			SeasonID:      seasonID,
			TotalPayout:   totalPayout,
			FightsClaimed: fightsClaimed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.NewWinningsClaimedEvent(account, seasonID, result.TotalPayout, result.FightsClaimed))
	return result, nil
}

// positionPayout computes what one position on a resolved fight pays.
// Winners get their stake back plus floor(pool * shares / shareTotal);
// the second return reports whether the position backed the winning side.
func positionPayout(pos *domain.Position, state *domain.FightState) (int64, bool) {
	if !state.IsResolved() {
		return 0, false
	}
	winning, err := domain.DecodeOutcome(*state.WinningOutcome)
	if err != nil {
		return 0, false
	}
	backed, err := domain.DecodeOutcome(pos.Outcome)
	if err != nil {
		return 0, false
	}
	shares := sharesFor(backed, winning)
	if shares == 0 {
		return 0, false
	}
	userShares := shares * pos.Stake
	winnings := mulDiv(state.TotalWinningsPool, userShares, state.WinningShareTotal)
	return pos.Stake + winnings, true
}

func (s *service) GetPositionPayout(ctx context.Context, account string, seasonID int64, fightIdx int) (*domain.PositionPayout, error) {
	account, err := domain.NormalizeAccount(account)
	if err != nil {
		return nil, err
	}

	season, err := s.repo.GetSeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetSeason, err)
	}
	if season == nil {
		return nil, domain.ErrSeasonNotFound
	}
	if fightIdx < 0 || fightIdx >= season.FightCount {
		return nil, fmt.Errorf("%w: fight index %d", domain.ErrFightNotFound, fightIdx)
	}

	pos, err := s.repo.GetPosition(ctx, account, seasonID, fightIdx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetPosition, err)
	}
	if pos == nil {
		return &domain.PositionPayout{}, nil
	}

	payout := &domain.PositionPayout{
		HasPosition: true,
		Claimed:     pos.Claimed,
		Outcome:     pos.Outcome,
		Stake:       pos.Stake,
	}
	if !season.Resolved {
		return payout, nil
	}

	states, err := s.repo.GetFightStates(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetStates, err)
	}
	state := &states[fightIdx]
	if !state.IsResolved() {
		return payout, nil
	}

	winning, err := domain.DecodeOutcome(*state.WinningOutcome)
	if err != nil {
		return nil, err
	}
	backed, err := domain.DecodeOutcome(pos.Outcome)
	if err != nil {
		return nil, err
	}
	points := sharesFor(backed, winning)
	if points == 0 {
		return payout, nil
	}

	payout.Eligible = true
	payout.Points = points
	payout.UserShares = points * pos.Stake
	payout.Winnings = mulDiv(state.TotalWinningsPool, payout.UserShares, state.WinningShareTotal)
	payout.Payout = pos.Stake + payout.Winnings
	return payout, nil
}
