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

func (s *service) LockPredictions(ctx context.Context, account string, seasonID int64, entries []domain.PredictionEntry) (*domain.LockReceipt, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgLockPredictionsCalled, "account", account, "season_id", seasonID, "entries", len(entries))

	account, err := domain.NormalizeAccount(account)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: empty prediction batch", domain.ErrInvalidInput)
	}

	var receipt *domain.LockReceipt
	err = s.locks.WithLock(concurrency.SeasonKey(seasonID), func() error {
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
		if !s.now().Before(season.CutOffTime) {
			return domain.ErrSeasonClosed
		}

		configs, err := s.getFightConfigs(ctx, seasonID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToGetConfigs, err)
		}

		totalStake, positions, err := s.validateEntries(ctx, account, season, configs, entries)
		if err != nil {
			return err
		}

		if err := s.ledger.Debit(ctx, account, season.EscrowAsset, totalStake); err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToDebit, err)
		}

		if err := s.lockState(ctx, seasonID, positions, totalStake); err != nil {
			s.compensate(ctx, account, season.EscrowAsset, totalStake)
			return err
		}

		receipt = &domain.LockReceipt{
			Account:     account,
			SeasonID:    seasonID,
			TotalStaked: totalStake,
			Positions:   positions,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, pos := range receipt.Positions {
		s.publish(ctx, event.NewPredictionsLockedEvent(account, seasonID, pos.FightIdx, pos.Outcome, pos.Stake))
	}
	return receipt, nil
}

// validateEntries checks every entry of a lock batch against the fight
// configs and existing positions, and materializes the positions to create.
// The batch is all-or-nothing: the first bad entry fails the whole call.
func (s *service) validateEntries(ctx context.Context, account string, season *domain.Season, configs []domain.FightConfig, entries []domain.PredictionEntry) (int64, []domain.Position, error) {
	var seen [MaxFightsPerSeason / 64]uint64
	var totalStake int64
	positions := make([]domain.Position, 0, len(entries))
	createdAt := s.now()

	for _, e := range entries {
		if e.FightIdx < 0 || e.FightIdx >= season.FightCount {
			return 0, nil, fmt.Errorf("%w: fight index %d", domain.ErrFightNotFound, e.FightIdx)
		}
		if seen[e.FightIdx/64]&(1<<(uint(e.FightIdx)%64)) != 0 {
			return 0, nil, fmt.Errorf("%w: fight %d appears twice", domain.ErrDuplicateFight, e.FightIdx)
		}
		seen[e.FightIdx/64] |= 1 << (uint(e.FightIdx) % 64)

		cfg := configs[e.FightIdx]
		if _, err := domain.DecodeOutcome(e.Outcome); err != nil {
			return 0, nil, err
		}
		if e.Outcome >= cfg.OutcomeCount {
			return 0, nil, fmt.Errorf("%w: raw value %d outside fight %d range of %d",
				domain.ErrInvalidOutcome, e.Outcome, e.FightIdx, cfg.OutcomeCount)
		}
		if e.Stake < cfg.MinStake || e.Stake > cfg.MaxStake {
			return 0, nil, fmt.Errorf("%w: stake %d outside [%d,%d] for fight %d",
				domain.ErrStakeOutOfRange, e.Stake, cfg.MinStake, cfg.MaxStake, e.FightIdx)
		}

		existing, err := s.repo.GetPosition(ctx, account, season.ID, e.FightIdx)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: %w", ErrContextFailedToGetPosition, err)
		}
		if existing != nil {
			return 0, nil, fmt.Errorf("%w: fight %d", domain.ErrPositionExists, e.FightIdx)
		}

		totalStake += e.Stake
		positions = append(positions, domain.Position{
			Account:   account,
			SeasonID:  season.ID,
			FightIdx:  e.FightIdx,
			Outcome:   e.Outcome,
			Stake:     e.Stake,
			CreatedAt: createdAt,
		})
	}
	return totalStake, positions, nil
}

// lockState writes a validated lock batch: positions, pool and side
// aggregates, and the season escrow accumulator, in one transaction.
func (s *service) lockState(ctx context.Context, seasonID int64, positions []domain.Position, totalStake int64) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	for i := range positions {
		pos := &positions[i]
		if err := tx.CreatePosition(ctx, pos); err != nil {
			return err
		}
		outcome, err := domain.DecodeOutcome(pos.Outcome)
		if err != nil {
			return err
		}
		if err := tx.ApplyStake(ctx, seasonID, pos.FightIdx, pos.Outcome, outcome.Side, pos.Stake); err != nil {
			return err
		}
	}
	if err := tx.AddEscrow(ctx, seasonID, totalStake); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}
	return nil
}
