package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FightFi/Sportsbook/internal/domain"
	"github.com/FightFi/Sportsbook/internal/repository"
)

// SportsbookRepository implements the sportsbook repository for PostgreSQL
type SportsbookRepository struct {
	db *pgxpool.Pool
}

// NewSportsbookRepository creates a new SportsbookRepository
func NewSportsbookRepository(db *pgxpool.Pool) *SportsbookRepository {
	return &SportsbookRepository{db: db}
}

// CreateSeason inserts a season with its fight configs and zeroed fight state
func (r *SportsbookRepository) CreateSeason(ctx context.Context, season *domain.Season, fights []domain.FightConfig) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx for season create: %w", err)
	}
	defer SafeRollback(ctx, tx)

	query := `
		INSERT INTO seasons (season_id, cut_off_time, escrow_asset, fight_count, escrow_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.Exec(ctx, query,
		season.ID, season.CutOffTime, season.EscrowAsset, season.FightCount,
		season.EscrowBalance, season.CreatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == PgErrorCodeUniqueViolation {
			return domain.ErrSeasonAlreadyExists
		}
		return fmt.Errorf("failed to insert season: %w", err)
	}

	for _, fc := range fights {
		_, err = tx.Exec(ctx, `
			INSERT INTO fight_configs (season_id, fight_idx, min_stake, max_stake, outcome_count)
			VALUES ($1, $2, $3, $4, $5)
		`, fc.SeasonID, fc.FightIdx, fc.MinStake, fc.MaxStake, fc.OutcomeCount)
		if err != nil {
			return fmt.Errorf("failed to insert fight config: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO fight_states (season_id, fight_idx)
			VALUES ($1, $2)
		`, fc.SeasonID, fc.FightIdx)
		if err != nil {
			return fmt.Errorf("failed to insert fight state: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetSeason retrieves a season by ID, or (nil, nil) if absent
func (r *SportsbookRepository) GetSeason(ctx context.Context, seasonID int64) (*domain.Season, error) {
	query := `
		SELECT season_id, cut_off_time, escrow_asset, fight_count, resolved, settlement_time, escrow_balance, created_at
		FROM seasons
		WHERE season_id = $1
	`

	var s domain.Season
	err := r.db.QueryRow(ctx, query, seasonID).Scan(
		&s.ID, &s.CutOffTime, &s.EscrowAsset, &s.FightCount,
		&s.Resolved, &s.SettlementTime, &s.EscrowBalance, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get season: %w", err)
	}

	return &s, nil
}

// GetFightConfigs retrieves all fight configs of a season ordered by index
func (r *SportsbookRepository) GetFightConfigs(ctx context.Context, seasonID int64) ([]domain.FightConfig, error) {
	query := `
		SELECT season_id, fight_idx, min_stake, max_stake, outcome_count
		FROM fight_configs
		WHERE season_id = $1
		ORDER BY fight_idx
	`

	rows, err := r.db.Query(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fight configs: %w", err)
	}
	defer rows.Close()

	var configs []domain.FightConfig
	for rows.Next() {
		var fc domain.FightConfig
		if err := rows.Scan(&fc.SeasonID, &fc.FightIdx, &fc.MinStake, &fc.MaxStake, &fc.OutcomeCount); err != nil {
			return nil, fmt.Errorf("failed to scan fight config: %w", err)
		}
		configs = append(configs, fc)
	}

	return configs, rows.Err()
}

// GetFightStates retrieves all fight states of a season ordered by index
func (r *SportsbookRepository) GetFightStates(ctx context.Context, seasonID int64) ([]domain.FightState, error) {
	query := `
		SELECT season_id, fight_idx, prize_pool, side_a_staked, side_b_staked,
		       side_a_users, side_b_users, winning_outcome, total_winnings_pool, winning_share_total
		FROM fight_states
		WHERE season_id = $1
		ORDER BY fight_idx
	`

	rows, err := r.db.Query(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fight states: %w", err)
	}
	defer rows.Close()

	var states []domain.FightState
	for rows.Next() {
		var fs domain.FightState
		if err := rows.Scan(&fs.SeasonID, &fs.FightIdx, &fs.PrizePool,
			&fs.SideAStaked, &fs.SideBStaked, &fs.SideAUsers, &fs.SideBUsers,
			&fs.WinningOutcome, &fs.TotalWinningsPool, &fs.WinningShareTotal); err != nil {
			return nil, fmt.Errorf("failed to scan fight state: %w", err)
		}
		states = append(states, fs)
	}

	return states, rows.Err()
}

// GetPools retrieves the per-outcome stake pools of a fight
func (r *SportsbookRepository) GetPools(ctx context.Context, seasonID int64, fightIdx int) ([]domain.Pool, error) {
	query := `
		SELECT season_id, fight_idx, outcome, total_staked
		FROM outcome_pools
		WHERE season_id = $1 AND fight_idx = $2
		ORDER BY outcome
	`

	rows, err := r.db.Query(ctx, query, seasonID, fightIdx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pools: %w", err)
	}
	defer rows.Close()

	var pools []domain.Pool
	for rows.Next() {
		var p domain.Pool
		if err := rows.Scan(&p.SeasonID, &p.FightIdx, &p.Outcome, &p.TotalStaked); err != nil {
			return nil, fmt.Errorf("failed to scan pool: %w", err)
		}
		pools = append(pools, p)
	}

	return pools, rows.Err()
}

// GetPosition retrieves one position, or (nil, nil) if absent
func (r *SportsbookRepository) GetPosition(ctx context.Context, account string, seasonID int64, fightIdx int) (*domain.Position, error) {
	query := `
		SELECT account, season_id, fight_idx, outcome, stake, claimed, created_at
		FROM positions
		WHERE account = $1 AND season_id = $2 AND fight_idx = $3
	`

	var p domain.Position
	err := r.db.QueryRow(ctx, query, account, seasonID, fightIdx).Scan(
		&p.Account, &p.SeasonID, &p.FightIdx, &p.Outcome, &p.Stake, &p.Claimed, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get position: %w", err)
	}

	return &p, nil
}

// GetPositions retrieves all of an account's positions in a season
func (r *SportsbookRepository) GetPositions(ctx context.Context, account string, seasonID int64) ([]domain.Position, error) {
	query := `
		SELECT account, season_id, fight_idx, outcome, stake, claimed, created_at
		FROM positions
		WHERE account = $1 AND season_id = $2
		ORDER BY fight_idx
	`

	rows, err := r.db.Query(ctx, query, account, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}
	defer rows.Close()

	var positions []domain.Position
	for rows.Next() {
		var p domain.Position
		if err := rows.Scan(&p.Account, &p.SeasonID, &p.FightIdx, &p.Outcome, &p.Stake, &p.Claimed, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}

	return positions, rows.Err()
}

// BeginTx starts a transaction for sportsbook mutations
func (r *SportsbookRepository) BeginTx(ctx context.Context) (repository.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin sportsbook transaction: %w", err)
	}
	return &sportsbookTx{tx: tx}, nil
}

// sportsbookTx implements repository.Tx
type sportsbookTx struct {
	tx pgx.Tx
}

// Commit commits the transaction
func (t *sportsbookTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *sportsbookTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// CreatePosition inserts a new position within the transaction
func (t *sportsbookTx) CreatePosition(ctx context.Context, pos *domain.Position) error {
	query := `
		INSERT INTO positions (account, season_id, fight_idx, outcome, stake, claimed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := t.tx.Exec(ctx, query,
		pos.Account, pos.SeasonID, pos.FightIdx, pos.Outcome, pos.Stake, pos.Claimed, pos.CreatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == PgErrorCodeUniqueViolation {
			return domain.ErrPositionExists
		}
		return fmt.Errorf("failed to insert position: %w", err)
	}
	return nil
}

// ApplyStake adds a locked stake to the outcome pool and side aggregates
func (t *sportsbookTx) ApplyStake(ctx context.Context, seasonID int64, fightIdx int, outcome uint8, side domain.Side, amount int64) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO outcome_pools (season_id, fight_idx, outcome, total_staked)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (season_id, fight_idx, outcome)
		DO UPDATE SET total_staked = outcome_pools.total_staked + EXCLUDED.total_staked
	`, seasonID, fightIdx, outcome, amount)
	if err != nil {
		return fmt.Errorf("failed to upsert outcome pool: %w", err)
	}

	var query string
	if side == domain.SideA {
		query = `
			UPDATE fight_states
			SET side_a_staked = side_a_staked + $3, side_a_users = side_a_users + 1
			WHERE season_id = $1 AND fight_idx = $2
		`
	} else {
		query = `
			UPDATE fight_states
			SET side_b_staked = side_b_staked + $3, side_b_users = side_b_users + 1
			WHERE season_id = $1 AND fight_idx = $2
		`
	}

	result, err := t.tx.Exec(ctx, query, seasonID, fightIdx, amount)
	if err != nil {
		return fmt.Errorf("failed to update side aggregates: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrFightNotFound
	}
	return nil
}

// AddPrizePool grows a fight's prize pool by a seeding top-up
func (t *sportsbookTx) AddPrizePool(ctx context.Context, seasonID int64, fightIdx int, amount int64) error {
	result, err := t.tx.Exec(ctx, `
		UPDATE fight_states
		SET prize_pool = prize_pool + $3
		WHERE season_id = $1 AND fight_idx = $2
	`, seasonID, fightIdx, amount)
	if err != nil {
		return fmt.Errorf("failed to add prize pool: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrFightNotFound
	}
	return nil
}

// AddEscrow adjusts the season's tracked escrow balance
func (t *sportsbookTx) AddEscrow(ctx context.Context, seasonID int64, delta int64) error {
	result, err := t.tx.Exec(ctx, `
		UPDATE seasons
		SET escrow_balance = escrow_balance + $2
		WHERE season_id = $1
	`, seasonID, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust escrow balance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrSeasonNotFound
	}
	return nil
}

// SetFightResolution freezes the write-once settlement numbers of a fight
func (t *sportsbookTx) SetFightResolution(ctx context.Context, seasonID int64, fightIdx int, winningOutcome uint8, totalWinningsPool, winningShareTotal int64) error {
	result, err := t.tx.Exec(ctx, `
		UPDATE fight_states
		SET winning_outcome = $3, total_winnings_pool = $4, winning_share_total = $5
		WHERE season_id = $1 AND fight_idx = $2 AND winning_outcome IS NULL
	`, seasonID, fightIdx, winningOutcome, totalWinningsPool, winningShareTotal)
	if err != nil {
		return fmt.Errorf("failed to set fight resolution: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrSeasonResolved
	}
	return nil
}

// MarkSeasonResolved sets resolved and the settlement time, exactly once
func (t *sportsbookTx) MarkSeasonResolved(ctx context.Context, seasonID int64, settlementTime time.Time) error {
	result, err := t.tx.Exec(ctx, `
		UPDATE seasons
		SET resolved = TRUE, settlement_time = $2
		WHERE season_id = $1 AND resolved = FALSE
	`, seasonID, settlementTime)
	if err != nil {
		return fmt.Errorf("failed to mark season resolved: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrSeasonResolved
	}
	return nil
}

// MarkClaimed flips a position's claimed flag
func (t *sportsbookTx) MarkClaimed(ctx context.Context, account string, seasonID int64, fightIdx int) error {
	result, err := t.tx.Exec(ctx, `
		UPDATE positions
		SET claimed = TRUE
		WHERE account = $1 AND season_id = $2 AND fight_idx = $3
	`, account, seasonID, fightIdx)
	if err != nil {
		return fmt.Errorf("failed to mark position claimed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrFightNotFound
	}
	return nil
}

// DrainEscrow zeroes the season's escrow balance and returns what was held
func (t *sportsbookTx) DrainEscrow(ctx context.Context, seasonID int64) (int64, error) {
	var held int64
	err := t.tx.QueryRow(ctx, `
		SELECT escrow_balance FROM seasons WHERE season_id = $1 FOR UPDATE
	`, seasonID).Scan(&held)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrSeasonNotFound
		}
		return 0, fmt.Errorf("failed to read escrow balance: %w", err)
	}

	_, err = t.tx.Exec(ctx, `
		UPDATE seasons SET escrow_balance = 0 WHERE season_id = $1
	`, seasonID)
	if err != nil {
		return 0, fmt.Errorf("failed to drain escrow: %w", err)
	}

	return held, nil
}
