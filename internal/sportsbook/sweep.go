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

func (s *service) RecoverResidual(ctx context.Context, seasonID int64, recipient string) (*domain.SweepResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSweepCalled, "season_id", seasonID)

	recipient, err := domain.NormalizeAccount(recipient)
	if err != nil {
		return nil, err
	}

	var result *domain.SweepResult
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
		if !s.now().After(season.SettlementTime.Add(s.claimWindow)) {
			return domain.ErrClaimWindowStillOpen
		}

		tx, err := s.repo.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
		}
		defer repository.SafeRollback(ctx, tx)

		amount, err := tx.DrainEscrow(ctx, seasonID)
		if err != nil {
			return err
		}
		if amount <= 0 {
			return domain.ErrNothingToSweep
		}

		// Same ordering as claims: credit before commit so a failed credit
		// leaves the escrow balance untouched.
		if err := s.ledger.Credit(ctx, recipient, season.EscrowAsset, amount); err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToCredit, err)
		}
		if err := tx.Commit(ctx); err != nil {
			log.Error(LogMsgCommitAfterPayoutError, "recipient", recipient, "amount", amount, "error", err)
			return fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
		}

		result = &domain.SweepResult{
			SeasonID:  seasonID,
			Recipient: recipient,
			Amount:    amount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.NewResidualRecoveredEvent(seasonID, result.Recipient, result.Amount))
	return result, nil
}
