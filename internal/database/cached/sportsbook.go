// Package cached wraps a primary sportsbook repository with a Redis
// read-through cache. Reads of season metadata and fight state check Redis
// first and fall back to the primary; transactional writes invalidate every
// season they touched once the transaction commits.
package cached

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/FightFi/Sportsbook/internal/domain"
	"github.com/FightFi/Sportsbook/internal/logger"
	"github.com/FightFi/Sportsbook/internal/repository"
)

// LogMsgCacheInvalidationFailed is logged when a committed transaction cannot
// drop the cache entries of a season it wrote; the stale entries live until
// the TTL expires.
const LogMsgCacheInvalidationFailed = "Failed to invalidate season cache after commit"

// SportsbookRepository is the caching decorator around repository.Sportsbook
type SportsbookRepository struct {
	primary repository.Sportsbook
	rdb     *redis.Client
	ttl     time.Duration
}

// NewSportsbookRepository creates a cached wrapper around a primary repository
func NewSportsbookRepository(primary repository.Sportsbook, rdb *redis.Client, ttl time.Duration) *SportsbookRepository {
	return &SportsbookRepository{
		primary: primary,
		rdb:     rdb,
		ttl:     ttl,
	}
}

// --- Write-through (write to primary, invalidate cache) ---

// CreateSeason delegates to the primary and primes the season cache
func (r *SportsbookRepository) CreateSeason(ctx context.Context, season *domain.Season, fights []domain.FightConfig) error {
	if err := r.primary.CreateSeason(ctx, season, fights); err != nil {
		return err
	}
	r.cacheSeason(ctx, season)
	if data, err := json.Marshal(fights); err == nil {
		r.rdb.Set(ctx, configsKey(season.ID), data, r.ttl)
	}
	return nil
}

// --- Read-through (check cache first) ---

// GetSeason reads the season from Redis, falling back to the primary
func (r *SportsbookRepository) GetSeason(ctx context.Context, seasonID int64) (*domain.Season, error) {
	data, err := r.rdb.Get(ctx, seasonKey(seasonID)).Bytes()
	if err == nil {
		var s domain.Season
		if json.Unmarshal(data, &s) == nil {
			return &s, nil
		}
	}

	s, err := r.primary.GetSeason(ctx, seasonID)
	if err != nil || s == nil {
		return s, err
	}

	r.cacheSeason(ctx, s)
	return s, nil
}

// GetFightConfigs reads the immutable fight configs through the cache.
// Configs never change after creation, so a stale entry is impossible.
func (r *SportsbookRepository) GetFightConfigs(ctx context.Context, seasonID int64) ([]domain.FightConfig, error) {
	data, err := r.rdb.Get(ctx, configsKey(seasonID)).Bytes()
	if err == nil {
		var configs []domain.FightConfig
		if json.Unmarshal(data, &configs) == nil {
			return configs, nil
		}
	}

	configs, err := r.primary.GetFightConfigs(ctx, seasonID)
	if err != nil || configs == nil {
		return configs, err
	}

	if data, err := json.Marshal(configs); err == nil {
		r.rdb.Set(ctx, configsKey(seasonID), data, r.ttl)
	}
	return configs, nil
}

// GetFightStates reads fight states through the cache
func (r *SportsbookRepository) GetFightStates(ctx context.Context, seasonID int64) ([]domain.FightState, error) {
	data, err := r.rdb.Get(ctx, statesKey(seasonID)).Bytes()
	if err == nil {
		var states []domain.FightState
		if json.Unmarshal(data, &states) == nil {
			return states, nil
		}
	}

	states, err := r.primary.GetFightStates(ctx, seasonID)
	if err != nil || states == nil {
		return states, err
	}

	if data, err := json.Marshal(states); err == nil {
		r.rdb.Set(ctx, statesKey(seasonID), data, r.ttl)
	}
	return states, nil
}

// --- Passthrough (not cached) ---

// GetPools is not cached: pools only matter during resolution and seeding,
// which read through a fresh transaction anyway.
func (r *SportsbookRepository) GetPools(ctx context.Context, seasonID int64, fightIdx int) ([]domain.Pool, error) {
	return r.primary.GetPools(ctx, seasonID, fightIdx)
}

// GetPosition is not cached; claim idempotency depends on reading the
// committed claimed flag.
func (r *SportsbookRepository) GetPosition(ctx context.Context, account string, seasonID int64, fightIdx int) (*domain.Position, error) {
	return r.primary.GetPosition(ctx, account, seasonID, fightIdx)
}

// GetPositions is not cached for the same reason as GetPosition
func (r *SportsbookRepository) GetPositions(ctx context.Context, account string, seasonID int64) ([]domain.Position, error) {
	return r.primary.GetPositions(ctx, account, seasonID)
}

// BeginTx wraps the primary transaction so commits invalidate touched seasons
func (r *SportsbookRepository) BeginTx(ctx context.Context) (repository.Tx, error) {
	tx, err := r.primary.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return &cachedTx{Tx: tx, repo: r, touched: make(map[int64]struct{})}, nil
}

// cachedTx records every season a transaction writes to and drops their
// cache entries after a successful commit.
type cachedTx struct {
	repository.Tx
	repo    *SportsbookRepository
	touched map[int64]struct{}
}

func (t *cachedTx) CreatePosition(ctx context.Context, pos *domain.Position) error {
	t.touched[pos.SeasonID] = struct{}{}
	return t.Tx.CreatePosition(ctx, pos)
}

func (t *cachedTx) ApplyStake(ctx context.Context, seasonID int64, fightIdx int, outcome uint8, side domain.Side, amount int64) error {
	t.touched[seasonID] = struct{}{}
	return t.Tx.ApplyStake(ctx, seasonID, fightIdx, outcome, side, amount)
}

func (t *cachedTx) AddPrizePool(ctx context.Context, seasonID int64, fightIdx int, amount int64) error {
	t.touched[seasonID] = struct{}{}
	return t.Tx.AddPrizePool(ctx, seasonID, fightIdx, amount)
}

func (t *cachedTx) AddEscrow(ctx context.Context, seasonID int64, delta int64) error {
	t.touched[seasonID] = struct{}{}
	return t.Tx.AddEscrow(ctx, seasonID, delta)
}

func (t *cachedTx) SetFightResolution(ctx context.Context, seasonID int64, fightIdx int, winningOutcome uint8, totalWinningsPool, winningShareTotal int64) error {
	t.touched[seasonID] = struct{}{}
	return t.Tx.SetFightResolution(ctx, seasonID, fightIdx, winningOutcome, totalWinningsPool, winningShareTotal)
}

func (t *cachedTx) MarkSeasonResolved(ctx context.Context, seasonID int64, settlementTime time.Time) error {
	t.touched[seasonID] = struct{}{}
	return t.Tx.MarkSeasonResolved(ctx, seasonID, settlementTime)
}

func (t *cachedTx) MarkClaimed(ctx context.Context, account string, seasonID int64, fightIdx int) error {
	t.touched[seasonID] = struct{}{}
	return t.Tx.MarkClaimed(ctx, account, seasonID, fightIdx)
}

func (t *cachedTx) DrainEscrow(ctx context.Context, seasonID int64) (int64, error) {
	t.touched[seasonID] = struct{}{}
	return t.Tx.DrainEscrow(ctx, seasonID)
}

func (t *cachedTx) Commit(ctx context.Context) error {
	if err := t.Tx.Commit(ctx); err != nil {
		return err
	}
	for seasonID := range t.touched {
		if err := t.repo.rdb.Del(ctx, seasonKey(seasonID), statesKey(seasonID)).Err(); err != nil {
			logger.FromContext(ctx).Warn(LogMsgCacheInvalidationFailed,
				"season_id", seasonID, "error", err)
		}
	}
	return nil
}

// --- Cache helpers ---

func (r *SportsbookRepository) cacheSeason(ctx context.Context, s *domain.Season) {
	if data, err := json.Marshal(s); err == nil {
		r.rdb.Set(ctx, seasonKey(s.ID), data, r.ttl)
	}
}

func seasonKey(id int64) string  { return fmt.Sprintf("season:%d", id) }
func configsKey(id int64) string { return fmt.Sprintf("season:%d:configs", id) }
func statesKey(id int64) string  { return fmt.Sprintf("season:%d:states", id) }
