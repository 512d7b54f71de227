package sportsbook

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FightFi/Sportsbook/internal/domain"
)

func TestRequiredSeed(t *testing.T) {
	svc, ledg, clock := newTestService(t)
	ctx := context.Background()
	accounts := fundedAccounts(ledg, 10)

	_, err := svc.CreateSeason(ctx, 1, clock.t.Add(time.Hour), testAsset, []FightSpec{
		{MinStake: 1, MaxStake: 100, OutcomeCount: 8}, // ten exact backers, empty pool
		{MinStake: 1, MaxStake: 100, OutcomeCount: 8}, // one side-only backer
		{MinStake: 1, MaxStake: 100, OutcomeCount: 8}, // side A only, hypothetical B win
	})
	require.NoError(t, err)

	for _, account := range accounts {
		lockOne(t, svc, account, 1, 0, 0, 1)
	}
	lockOne(t, svc, accounts[0], 1, 1, 1, 1) // decision when submission wins
	lockOne(t, svc, accounts[0], 1, 2, 0, 5)

	plan, err := svc.RequiredSeed(ctx, 1, []uint8{0, 0, 4})
	require.NoError(t, err)
	assert.Equal(t, int64(1), plan.SeasonID)
	require.Len(t, plan.Requirements, 3)

	// Fight 0: ten exact winners, 40 shares at a 4-share floor. A winnings
	// pool of ceil(40/4)=10 gives every winner at least one unit.
	req := plan.Requirements[0]
	assert.Equal(t, int64(40), req.WeightedShares)
	assert.Equal(t, int64(ExactMatchShares), req.MinSharesPerStake)
	assert.Equal(t, int64(0), req.LoserStakes)
	assert.Equal(t, int64(10), req.RequiredWinningsPool)
	assert.Equal(t, int64(10), req.AdditionalSeedNeeded)
	assert.False(t, req.NoWinners)

	// Fight 1: the only backer matched side but not method, so the floor is
	// the 3-share weight.
	req = plan.Requirements[1]
	assert.Equal(t, int64(3), req.WeightedShares)
	assert.Equal(t, int64(SideMatchShares), req.MinSharesPerStake)
	assert.Equal(t, int64(1), req.RequiredWinningsPool)
	assert.Equal(t, int64(1), req.AdditionalSeedNeeded)

	// Fight 2: nobody backed side B; seeding cannot conjure a winner.
	req = plan.Requirements[2]
	assert.True(t, req.NoWinners)
	assert.Equal(t, int64(0), req.WeightedShares)
	assert.Equal(t, int64(0), req.AdditionalSeedNeeded)
	assert.Equal(t, int64(5), req.LoserStakes)

	assert.Equal(t, int64(11), plan.TotalSeed)
	assert.False(t, plan.Applied)
}

func TestRequiredSeedCoveredByLoserStakes(t *testing.T) {
	svc, ledg, clock := newTestService(t)
	ctx := context.Background()
	accounts := fundedAccounts(ledg, 2)
	oneFightSeason(t, svc, clock, 1, 0)

	lockOne(t, svc, accounts[0], 1, 0, 0, 10) // side A
	lockOne(t, svc, accounts[1], 1, 0, 4, 50) // side B

	// 40 shares need a pool of 10; the 50 loser stake already covers it.
	plan, err := svc.RequiredSeed(ctx, 1, []uint8{0})
	require.NoError(t, err)
	assert.Equal(t, int64(0), plan.Requirements[0].AdditionalSeedNeeded)
	assert.Equal(t, int64(0), plan.TotalSeed)
}

func TestRequiredSeedValidation(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()
	oneFightSeason(t, svc, clock, 1, 0)

	_, err := svc.RequiredSeed(ctx, 42, []uint8{0})
	assert.ErrorIs(t, err, domain.ErrSeasonNotFound)

	_, err = svc.RequiredSeed(ctx, 1, []uint8{0, 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.RequiredSeed(ctx, 1, []uint8{3})
	assert.ErrorIs(t, err, domain.ErrInvalidOutcome)
}

func TestSeedPrizePool(t *testing.T) {
	svc, ledg, clock := newTestService(t)
	ctx := context.Background()
	oneFightSeason(t, svc, clock, 1, 0)

	require.NoError(t, svc.SeedPrizePool(ctx, 1, 0, 250))

	detail, err := svc.GetSeason(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(250), detail.Fights[0].State.PrizePool)
	assert.Equal(t, int64(250), detail.Season.EscrowBalance)

	balance, err := ledg.BalanceOf(ctx, testOperator, testAsset)
	require.NoError(t, err)
	assert.Equal(t, initialFunds-250, balance)

	assert.ErrorIs(t, svc.SeedPrizePool(ctx, 1, 0, 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.SeedPrizePool(ctx, 1, 5, 10), domain.ErrFightNotFound)
	assert.ErrorIs(t, svc.SeedPrizePool(ctx, 42, 0, 10), domain.ErrSeasonNotFound)
}

func TestSeedAfterResolutionRejected(t *testing.T) {
	svc, ledg, clock := newTestService(t)
	ctx := context.Background()
	accounts := fundedAccounts(ledg, 1)
	oneFightSeason(t, svc, clock, 1, 10)
	lockOne(t, svc, accounts[0], 1, 0, 0, 10)

	clock.t = clock.t.Add(2 * time.Hour)
	require.NoError(t, svc.Resolve(ctx, 1, []uint8{0}))

	assert.ErrorIs(t, svc.SeedPrizePool(ctx, 1, 0, 10), domain.ErrSeasonResolved)
	_, err := svc.RequiredSeed(ctx, 1, []uint8{0})
	assert.ErrorIs(t, err, domain.ErrSeasonResolved)
	_, err = svc.SeedAllFights(ctx, 1, []uint8{0}, true)
	assert.ErrorIs(t, err, domain.ErrSeasonResolved)
}

func TestSeedAllFightsAutoApply(t *testing.T) {
	svc, ledg, clock := newTestService(t)
	ctx := context.Background()
	accounts := fundedAccounts(ledg, 10)

	_, err := svc.CreateSeason(ctx, 1, clock.t.Add(time.Hour), testAsset, []FightSpec{
		{MinStake: 1, MaxStake: 100, OutcomeCount: 8},
		{MinStake: 1, MaxStake: 100, OutcomeCount: 8},
	})
	require.NoError(t, err)

	for _, account := range accounts {
		lockOne(t, svc, account, 1, 0, 0, 1)
	}
	lockOne(t, svc, accounts[0], 1, 1, 1, 2)

	hypothetical := []uint8{0, 0}
	plan, err := svc.SeedAllFights(ctx, 1, hypothetical, true)
	require.NoError(t, err)
	assert.True(t, plan.Applied)
	assert.Equal(t, int64(10+2), plan.TotalSeed)

	balance, err := ledg.BalanceOf(ctx, testOperator, testAsset)
	require.NoError(t, err)
	assert.Equal(t, initialFunds-plan.TotalSeed, balance)

	// Recomputing against the same hypothetical finds no remaining shortfall.
	recheck, err := svc.RequiredSeed(ctx, 1, hypothetical)
	require.NoError(t, err)
	for _, req := range recheck.Requirements {
		assert.Equal(t, int64(0), req.AdditionalSeedNeeded, "fight %d", req.FightIdx)
	}

	// Every seeded winner now clears the truncation floor.
	clock.t = clock.t.Add(2 * time.Hour)
	require.NoError(t, svc.Resolve(ctx, 1, hypothetical))
	for _, account := range accounts {
		result, err := svc.Claim(ctx, account, 1)
		require.NoError(t, err)
		assert.Greater(t, result.TotalPayout, int64(0))
	}
}

func TestSeedAllFightsDryRun(t *testing.T) {
	svc, ledg, clock := newTestService(t)
	ctx := context.Background()
	accounts := fundedAccounts(ledg, 1)
	oneFightSeason(t, svc, clock, 1, 0)
	lockOne(t, svc, accounts[0], 1, 0, 0, 1)

	plan, err := svc.SeedAllFights(ctx, 1, []uint8{0}, false)
	require.NoError(t, err)
	assert.False(t, plan.Applied)
	assert.Equal(t, int64(1), plan.TotalSeed)

	// Dry run moves nothing.
	balance, err := ledg.BalanceOf(ctx, testOperator, testAsset)
	require.NoError(t, err)
	assert.Equal(t, initialFunds, balance)

	detail, err := svc.GetSeason(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), detail.Fights[0].State.PrizePool)
}

func TestSeedDebitFailureLeavesStateUntouched(t *testing.T) {
	svc, ledg, clock := newTestService(t)
	ctx := context.Background()
	oneFightSeason(t, svc, clock, 1, 0)

	ledg.SetPaused(true)
	err := svc.SeedPrizePool(ctx, 1, 0, 100)
	assert.ErrorIs(t, err, domain.ErrTransferDenied)
	ledg.SetPaused(false)

	detail, err := svc.GetSeason(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), detail.Fights[0].State.PrizePool)
	assert.Equal(t, int64(0), detail.Season.EscrowBalance)
}
