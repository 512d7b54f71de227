// Package memory provides an in-memory sportsbook repository used by tests
// and dev mode. Transactions snapshot the touched season on first write and
// restore it on rollback, which matches the commit/rollback semantics the
// service relies on without a real database.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/FightFi/Sportsbook/internal/domain"
	"github.com/FightFi/Sportsbook/internal/repository"
)

type poolKey struct {
	fightIdx int
	outcome  uint8
}

type positionKey struct {
	account  string
	fightIdx int
}

// seasonState holds all mutable data of one season.
type seasonState struct {
	season    domain.Season
	configs   []domain.FightConfig
	states    []domain.FightState
	pools     map[poolKey]int64
	positions map[positionKey]domain.Position
}

func (s *seasonState) clone() *seasonState {
	cp := &seasonState{
		season:    s.season,
		configs:   append([]domain.FightConfig(nil), s.configs...),
		states:    make([]domain.FightState, len(s.states)),
		pools:     make(map[poolKey]int64, len(s.pools)),
		positions: make(map[positionKey]domain.Position, len(s.positions)),
	}
	if s.season.SettlementTime != nil {
		t := *s.season.SettlementTime
		cp.season.SettlementTime = &t
	}
	for i, fs := range s.states {
		cp.states[i] = fs
		if fs.WinningOutcome != nil {
			w := *fs.WinningOutcome
			cp.states[i].WinningOutcome = &w
		}
	}
	for k, v := range s.pools {
		cp.pools[k] = v
	}
	for k, v := range s.positions {
		cp.positions[k] = v
	}
	return cp
}

// SportsbookRepository is the in-memory implementation of repository.Sportsbook
type SportsbookRepository struct {
	mu      sync.RWMutex
	seasons map[int64]*seasonState
}

// NewSportsbookRepository creates an empty in-memory repository
func NewSportsbookRepository() *SportsbookRepository {
	return &SportsbookRepository{
		seasons: make(map[int64]*seasonState),
	}
}

// CreateSeason registers a season with its fight configs and zeroed state
func (r *SportsbookRepository) CreateSeason(ctx context.Context, season *domain.Season, fights []domain.FightConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.seasons[season.ID]; exists {
		return domain.ErrSeasonAlreadyExists
	}

	st := &seasonState{
		season:    *season,
		configs:   append([]domain.FightConfig(nil), fights...),
		states:    make([]domain.FightState, len(fights)),
		pools:     make(map[poolKey]int64),
		positions: make(map[positionKey]domain.Position),
	}
	for i, fc := range fights {
		st.states[i] = domain.FightState{SeasonID: fc.SeasonID, FightIdx: fc.FightIdx}
	}

	r.seasons[season.ID] = st
	return nil
}

// GetSeason returns a copy of the season, or (nil, nil) if absent
func (r *SportsbookRepository) GetSeason(ctx context.Context, seasonID int64) (*domain.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.seasons[seasonID]
	if !ok {
		return nil, nil
	}
	s := st.season
	if st.season.SettlementTime != nil {
		t := *st.season.SettlementTime
		s.SettlementTime = &t
	}
	return &s, nil
}

// GetFightConfigs returns the season's fight configs ordered by index
func (r *SportsbookRepository) GetFightConfigs(ctx context.Context, seasonID int64) ([]domain.FightConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.seasons[seasonID]
	if !ok {
		return nil, nil
	}
	return append([]domain.FightConfig(nil), st.configs...), nil
}

// GetFightStates returns the season's fight states ordered by index
func (r *SportsbookRepository) GetFightStates(ctx context.Context, seasonID int64) ([]domain.FightState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.seasons[seasonID]
	if !ok {
		return nil, nil
	}

	out := make([]domain.FightState, len(st.states))
	for i, fs := range st.states {
		out[i] = fs
		if fs.WinningOutcome != nil {
			w := *fs.WinningOutcome
			out[i].WinningOutcome = &w
		}
	}
	return out, nil
}

// GetPools returns the backed outcome pools of a fight ordered by outcome
func (r *SportsbookRepository) GetPools(ctx context.Context, seasonID int64, fightIdx int) ([]domain.Pool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.seasons[seasonID]
	if !ok {
		return nil, nil
	}

	var pools []domain.Pool
	for outcome := 0; outcome < 256; outcome++ {
		k := poolKey{fightIdx: fightIdx, outcome: uint8(outcome)}
		if staked, backed := st.pools[k]; backed {
			pools = append(pools, domain.Pool{
				SeasonID:    seasonID,
				FightIdx:    fightIdx,
				Outcome:     uint8(outcome),
				TotalStaked: staked,
			})
		}
	}
	return pools, nil
}

// GetPosition returns one position, or (nil, nil) if absent
func (r *SportsbookRepository) GetPosition(ctx context.Context, account string, seasonID int64, fightIdx int) (*domain.Position, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.seasons[seasonID]
	if !ok {
		return nil, nil
	}
	pos, ok := st.positions[positionKey{account: account, fightIdx: fightIdx}]
	if !ok {
		return nil, nil
	}
	return &pos, nil
}

// GetPositions returns all of an account's positions in a season, by fight index
func (r *SportsbookRepository) GetPositions(ctx context.Context, account string, seasonID int64) ([]domain.Position, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.seasons[seasonID]
	if !ok {
		return nil, nil
	}

	var positions []domain.Position
	for i := 0; i < st.season.FightCount; i++ {
		if pos, ok := st.positions[positionKey{account: account, fightIdx: i}]; ok {
			positions = append(positions, pos)
		}
	}
	return positions, nil
}

// BeginTx starts a snapshot-based transaction
func (r *SportsbookRepository) BeginTx(ctx context.Context) (repository.Tx, error) {
	return &memoryTx{repo: r, snapshots: make(map[int64]*seasonState)}, nil
}

// memoryTx applies mutations directly and keeps a pre-image of each touched
// season so Rollback can restore it. The service serializes writers per
// season, so two transactions never race on the same snapshot.
type memoryTx struct {
	repo      *SportsbookRepository
	snapshots map[int64]*seasonState
	closed    bool
}

func (t *memoryTx) touch(seasonID int64) (*seasonState, error) {
	st, ok := t.repo.seasons[seasonID]
	if !ok {
		return nil, domain.ErrSeasonNotFound
	}
	if _, snapped := t.snapshots[seasonID]; !snapped {
		t.snapshots[seasonID] = st.clone()
	}
	return st, nil
}

func (t *memoryTx) CreatePosition(ctx context.Context, pos *domain.Position) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	st, err := t.touch(pos.SeasonID)
	if err != nil {
		return err
	}

	k := positionKey{account: pos.Account, fightIdx: pos.FightIdx}
	if _, exists := st.positions[k]; exists {
		return domain.ErrPositionExists
	}
	st.positions[k] = *pos
	return nil
}

func (t *memoryTx) ApplyStake(ctx context.Context, seasonID int64, fightIdx int, outcome uint8, side domain.Side, amount int64) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	st, err := t.touch(seasonID)
	if err != nil {
		return err
	}
	if fightIdx < 0 || fightIdx >= len(st.states) {
		return domain.ErrFightNotFound
	}

	st.pools[poolKey{fightIdx: fightIdx, outcome: outcome}] += amount

	fs := &st.states[fightIdx]
	if side == domain.SideA {
		fs.SideAStaked += amount
		fs.SideAUsers++
	} else {
		fs.SideBStaked += amount
		fs.SideBUsers++
	}
	return nil
}

func (t *memoryTx) AddPrizePool(ctx context.Context, seasonID int64, fightIdx int, amount int64) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	st, err := t.touch(seasonID)
	if err != nil {
		return err
	}
	if fightIdx < 0 || fightIdx >= len(st.states) {
		return domain.ErrFightNotFound
	}
	st.states[fightIdx].PrizePool += amount
	return nil
}

func (t *memoryTx) AddEscrow(ctx context.Context, seasonID int64, delta int64) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	st, err := t.touch(seasonID)
	if err != nil {
		return err
	}
	st.season.EscrowBalance += delta
	return nil
}

func (t *memoryTx) SetFightResolution(ctx context.Context, seasonID int64, fightIdx int, winningOutcome uint8, totalWinningsPool, winningShareTotal int64) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	st, err := t.touch(seasonID)
	if err != nil {
		return err
	}
	if fightIdx < 0 || fightIdx >= len(st.states) {
		return domain.ErrFightNotFound
	}

	fs := &st.states[fightIdx]
	if fs.WinningOutcome != nil {
		return domain.ErrSeasonResolved
	}
	w := winningOutcome
	fs.WinningOutcome = &w
	fs.TotalWinningsPool = totalWinningsPool
	fs.WinningShareTotal = winningShareTotal
	return nil
}

func (t *memoryTx) MarkSeasonResolved(ctx context.Context, seasonID int64, settlementTime time.Time) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	st, err := t.touch(seasonID)
	if err != nil {
		return err
	}
	if st.season.Resolved {
		return domain.ErrSeasonResolved
	}
	st.season.Resolved = true
	ts := settlementTime
	st.season.SettlementTime = &ts
	return nil
}

func (t *memoryTx) MarkClaimed(ctx context.Context, account string, seasonID int64, fightIdx int) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	st, err := t.touch(seasonID)
	if err != nil {
		return err
	}

	k := positionKey{account: account, fightIdx: fightIdx}
	pos, ok := st.positions[k]
	if !ok {
		return domain.ErrFightNotFound
	}
	pos.Claimed = true
	st.positions[k] = pos
	return nil
}

func (t *memoryTx) DrainEscrow(ctx context.Context, seasonID int64) (int64, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	st, err := t.touch(seasonID)
	if err != nil {
		return 0, err
	}
	held := st.season.EscrowBalance
	st.season.EscrowBalance = 0
	return held, nil
}

func (t *memoryTx) Commit(ctx context.Context) error {
	if t.closed {
		return fmt.Errorf("%s", domain.ErrMsgTxClosed)
	}
	t.closed = true
	t.snapshots = nil
	return nil
}

func (t *memoryTx) Rollback(ctx context.Context) error {
	if t.closed {
		return fmt.Errorf("%s", domain.ErrMsgTxClosed)
	}
	t.closed = true

	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	for seasonID, snap := range t.snapshots {
		t.repo.seasons[seasonID] = snap
	}
	t.snapshots = nil
	return nil
}
