package sportsbook

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FightFi/Sportsbook/internal/domain"
	"github.com/FightFi/Sportsbook/internal/ledger"
)

// settlementFixture drives one fight from creation through claims. Every
// bettor backs the winning side so totalWinningsPool equals the prize seed.
type settlementFixture struct {
	name         string
	prizeSeed    int64
	stakes       []int64
	outcomes     []uint8 // backed outcome per bettor; winning outcome is 0
	wantShares   int64
	wantWinnings []int64
}

func runFixture(t *testing.T, fx settlementFixture) {
	t.Helper()
	svc, ledg, clock := newTestService(t)
	ctx := context.Background()
	accounts := fundedAccounts(ledg, len(fx.stakes))
	oneFightSeason(t, svc, clock, 1, fx.prizeSeed)

	for i, account := range accounts {
		lockOne(t, svc, account, 1, 0, fx.outcomes[i], fx.stakes[i])
	}

	clock.t = clock.t.Add(2 * time.Hour)
	require.NoError(t, svc.Resolve(ctx, 1, []uint8{0}))

	detail, err := svc.GetSeason(ctx, 1)
	require.NoError(t, err)
	state := detail.Fights[0].State
	assert.Equal(t, fx.wantShares, state.WinningShareTotal)
	assert.Equal(t, fx.prizeSeed, state.TotalWinningsPool)

	var totalWinnings int64
	for i, account := range accounts {
		result, err := svc.Claim(ctx, account, 1)
		require.NoError(t, err, "bettor %d", i)
		assert.Equal(t, fx.stakes[i]+fx.wantWinnings[i], result.TotalPayout, "bettor %d", i)
		assert.Equal(t, []int{0}, result.FightsClaimed, "bettor %d", i)

		// Net of stake out and payout in, the account moved by exactly its
		// winnings.
		balance, err := ledg.BalanceOf(ctx, account, testAsset)
		require.NoError(t, err)
		assert.Equal(t, initialFunds+fx.wantWinnings[i], balance, "bettor %d", i)
		totalWinnings += fx.wantWinnings[i]
	}

	// Truncation dust stays in season escrow for the residual sweep.
	detail, err = svc.GetSeason(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, fx.prizeSeed-totalWinnings, detail.Season.EscrowBalance)
	assert.GreaterOrEqual(t, fx.prizeSeed-totalWinnings, int64(0))
}

func TestClaimSettlementFixtures(t *testing.T) {
	fixtures := []settlementFixture{
		{
			// Two exact backers and one side-only backer split a pure prize
			// pool weighted 4:3:4 per stake unit, floor-divided per claim.
			name:         "mixed exact and side-only",
			prizeSeed:    100,
			stakes:       []int64{20, 30, 25},
			outcomes:     []uint8{0, 1, 0},
			wantShares:   270,
			wantWinnings: []int64{29, 33, 37},
		},
		{
			// Small stakes truncate to zero winnings while the large stake
			// still collects; the pre-divided-rate design would zero everyone.
			name:         "small stakers rounded out",
			prizeSeed:    10,
			stakes:       []int64{1, 1, 1, 1, 100},
			outcomes:     []uint8{0, 0, 0, 0, 0},
			wantShares:   416,
			wantWinnings: []int64{0, 0, 0, 0, 9},
		},
		{
			name:         "even split without truncation",
			prizeSeed:    20,
			stakes:       []int64{1, 1, 1, 1, 1},
			outcomes:     []uint8{0, 0, 0, 0, 0},
			wantShares:   20,
			wantWinnings: []int64{4, 4, 4, 4, 4},
		},
		{
			name:         "sole winner takes the whole pool",
			prizeSeed:    1000,
			stakes:       []int64{1},
			outcomes:     []uint8{0},
			wantShares:   4,
			wantWinnings: []int64{1000},
		},
		{
			// Pool too small for anyone: every winner gets stake back only,
			// and the order of claiming cannot change any amount.
			name:         "pool below truncation floor",
			prizeSeed:    1,
			stakes:       []int64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
			outcomes:     []uint8{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			wantShares:   40,
			wantWinnings: []int64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
	}

	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			runFixture(t, fx)
		})
	}
}

func TestClaimWithLosers(t *testing.T) {
	svc, ledg, clock := newTestService(t)
	ctx := context.Background()
	accounts := fundedAccounts(ledg, 2)
	oneFightSeason(t, svc, clock, 1, 50)

	lockOne(t, svc, accounts[0], 1, 0, 0, 20) // side A exact, wins
	lockOne(t, svc, accounts[1], 1, 0, 4, 30) // side B, loses

	clock.t = clock.t.Add(2 * time.Hour)
	require.NoError(t, svc.Resolve(ctx, 1, []uint8{0}))

	// Winner: shares 80 of 80, pool = 30 loser stake + 50 prize.
	result, err := svc.Claim(ctx, accounts[0], 1)
	require.NoError(t, err)
	assert.Equal(t, int64(20+80), result.TotalPayout)

	// Loser has nothing; the call fails and the position stays unclaimed.
	_, err = svc.Claim(ctx, accounts[1], 1)
	assert.ErrorIs(t, err, domain.ErrNothingToClaim)

	pos, err := svc.repo.GetPosition(ctx, accounts[1], 1, 0)
	require.NoError(t, err)
	assert.False(t, pos.Claimed)
}

func TestClaimIdempotent(t *testing.T) {
	svc, ledg, clock := newTestService(t)
	ctx := context.Background()
	accounts := fundedAccounts(ledg, 1)
	oneFightSeason(t, svc, clock, 1, 100)
	lockOne(t, svc, accounts[0], 1, 0, 0, 10)

	clock.t = clock.t.Add(2 * time.Hour)
	require.NoError(t, svc.Resolve(ctx, 1, []uint8{0}))

	_, err := svc.Claim(ctx, accounts[0], 1)
	require.NoError(t, err)

	// The second claim finds every eligible fight already claimed.
	_, err = svc.Claim(ctx, accounts[0], 1)
	assert.ErrorIs(t, err, domain.ErrNothingToClaim)

	balance, err := ledg.BalanceOf(ctx, accounts[0], testAsset)
	require.NoError(t, err)
	assert.Equal(t, initialFunds+100, balance)
}

func TestClaimAcrossMultipleFights(t *testing.T) {
	svc, ledg, clock := newTestService(t)
	ctx := context.Background()
	accounts := fundedAccounts(ledg, 2)

	_, err := svc.CreateSeason(ctx, 1, clock.t.Add(time.Hour), testAsset, []FightSpec{
		{MinStake: 1, MaxStake: 100, OutcomeCount: 8, PrizeSeed: 40},
		{MinStake: 1, MaxStake: 100, OutcomeCount: 8, PrizeSeed: 40},
		{MinStake: 1, MaxStake: 100, OutcomeCount: 8},
	})
	require.NoError(t, err)

	// accounts[0] wins fights 0 and 1, loses fight 2.
	_, err = svc.LockPredictions(ctx, accounts[0], 1, []domain.PredictionEntry{
		{FightIdx: 0, Outcome: 0, Stake: 10},
		{FightIdx: 1, Outcome: 1, Stake: 10},
		{FightIdx: 2, Outcome: 4, Stake: 10},
	})
	require.NoError(t, err)
	_, err = svc.LockPredictions(ctx, accounts[1], 1, []domain.PredictionEntry{
		{FightIdx: 2, Outcome: 0, Stake: 10},
	})
	require.NoError(t, err)

	clock.t = clock.t.Add(2 * time.Hour)
	require.NoError(t, svc.Resolve(ctx, 1, []uint8{0, 0, 0}))

	// Fight 0: exact, 40 shares of 40, pool 40 -> winnings 40.
	// Fight 1: side-only, 30 shares of 30, pool 40 -> winnings 40.
	// Fight 2: lost, skipped without failing the call.
	result, err := svc.Claim(ctx, accounts[0], 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10+40+10+40), result.TotalPayout)
	assert.Equal(t, []int{0, 1}, result.FightsClaimed)

	balance, err := ledg.BalanceOf(ctx, accounts[0], testAsset)
	require.NoError(t, err)
	assert.Equal(t, initialFunds-30+100, balance)
}

func TestClaimWindow(t *testing.T) {
	svc, ledg, clock := newTestService(t)
	ctx := context.Background()
	accounts := fundedAccounts(ledg, 1)
	oneFightSeason(t, svc, clock, 1, 100)
	lockOne(t, svc, accounts[0], 1, 0, 0, 10)

	_, err := svc.Claim(ctx, accounts[0], 1)
	assert.ErrorIs(t, err, domain.ErrSeasonNotResolved)

	clock.t = clock.t.Add(2 * time.Hour)
	require.NoError(t, svc.Resolve(ctx, 1, []uint8{0}))
	settlement := clock.t

	// The window boundary itself is still claimable.
	clock.t = settlement.Add(DefaultClaimWindow)
	_, err = svc.Claim(ctx, accounts[0], 1)
	require.NoError(t, err)

	// One step past the boundary is not.
	svc2, ledg2, clock2 := newTestService(t)
	accounts2 := fundedAccounts(ledg2, 1)
	oneFightSeason(t, svc2, clock2, 1, 100)
	lockOne(t, svc2, accounts2[0], 1, 0, 0, 10)
	clock2.t = clock2.t.Add(2 * time.Hour)
	require.NoError(t, svc2.Resolve(ctx, 1, []uint8{0}))
	clock2.t = clock2.t.Add(DefaultClaimWindow + time.Second)
	_, err = svc2.Claim(ctx, accounts2[0], 1)
	assert.ErrorIs(t, err, domain.ErrClaimWindowClosed)
}

func TestClaimCreditFailureRollsBack(t *testing.T) {
	svc, ledg, clock := newTestService(t)
	ctx := context.Background()
	accounts := fundedAccounts(ledg, 1)
	oneFightSeason(t, svc, clock, 1, 100)
	lockOne(t, svc, accounts[0], 1, 0, 0, 10)

	clock.t = clock.t.Add(2 * time.Hour)
	require.NoError(t, svc.Resolve(ctx, 1, []uint8{0}))

	ledg.Deny(accounts[0])
	_, err := svc.Claim(ctx, accounts[0], 1)
	assert.ErrorIs(t, err, domain.ErrTransferDenied)

	// The claim mark rolled back with the credit, so a retry succeeds once
	// the policy clears.
	pos, err := svc.repo.GetPosition(ctx, accounts[0], 1, 0)
	require.NoError(t, err)
	assert.False(t, pos.Claimed)
}

func TestGetPositionPayout(t *testing.T) {
	svc, ledg, clock := newTestService(t)
	ctx := context.Background()
	accounts := fundedAccounts(ledg, 2)
	oneFightSeason(t, svc, clock, 1, 100)

	lockOne(t, svc, accounts[0], 1, 0, 1, 25) // side A decision
	lockOne(t, svc, accounts[1], 1, 0, 4, 30) // side B

	// Before resolution: position visible, nothing computable yet.
	payout, err := svc.GetPositionPayout(ctx, accounts[0], 1, 0)
	require.NoError(t, err)
	assert.True(t, payout.HasPosition)
	assert.False(t, payout.Eligible)
	assert.Equal(t, int64(25), payout.Stake)

	// No position at all.
	payout, err = svc.GetPositionPayout(ctx, testAccount(10), 1, 0)
	require.NoError(t, err)
	assert.False(t, payout.HasPosition)

	clock.t = clock.t.Add(2 * time.Hour)
	require.NoError(t, svc.Resolve(ctx, 1, []uint8{0}))

	// Side-only winner: 3 points, 75 shares of 75, pool 30+100.
	payout, err = svc.GetPositionPayout(ctx, accounts[0], 1, 0)
	require.NoError(t, err)
	assert.True(t, payout.Eligible)
	assert.Equal(t, int64(3), payout.Points)
	assert.Equal(t, int64(75), payout.UserShares)
	assert.Equal(t, int64(130), payout.Winnings)
	assert.Equal(t, int64(155), payout.Payout)
	assert.False(t, payout.Claimed)

	// Pure view: calling again returns the identical report.
	again, err := svc.GetPositionPayout(ctx, accounts[0], 1, 0)
	require.NoError(t, err)
	assert.Equal(t, payout, again)

	// Loser: present but ineligible.
	payout, err = svc.GetPositionPayout(ctx, accounts[1], 1, 0)
	require.NoError(t, err)
	assert.True(t, payout.HasPosition)
	assert.False(t, payout.Eligible)
	assert.Equal(t, int64(0), payout.Payout)

	// After claiming the report flips Claimed and nothing else.
	_, err = svc.Claim(ctx, accounts[0], 1)
	require.NoError(t, err)
	payout, err = svc.GetPositionPayout(ctx, accounts[0], 1, 0)
	require.NoError(t, err)
	assert.True(t, payout.Claimed)
	assert.Equal(t, int64(155), payout.Payout)
}

func TestRecoverResidual(t *testing.T) {
	svc, ledg, clock := newTestService(t)
	ctx := context.Background()
	accounts := fundedAccounts(ledg, 10)
	oneFightSeason(t, svc, clock, 1, 1)
	for _, account := range accounts {
		lockOne(t, svc, account, 1, 0, 0, 1)
	}

	clock.t = clock.t.Add(2 * time.Hour)
	require.NoError(t, svc.Resolve(ctx, 1, []uint8{0}))
	settlement := clock.t

	recipient := testAccount(20)

	_, err := svc.RecoverResidual(ctx, 1, recipient)
	assert.ErrorIs(t, err, domain.ErrClaimWindowStillOpen)

	for _, account := range accounts {
		_, err := svc.Claim(ctx, account, 1)
		require.NoError(t, err)
	}

	// All ten winners truncated to zero winnings; the unpaid prize unit is
	// the only escrow left.
	clock.t = settlement.Add(DefaultClaimWindow + time.Second)
	result, err := svc.RecoverResidual(ctx, 1, recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Amount)

	balance, err := ledg.BalanceOf(ctx, recipient, testAsset)
	require.NoError(t, err)
	assert.Equal(t, int64(1), balance)

	// Escrow account fully reconciled: everything that went in came out.
	escrow, err := ledg.BalanceOf(ctx, ledger.EscrowAccount, testAsset)
	require.NoError(t, err)
	assert.Equal(t, int64(0), escrow)

	// Nothing left for a second sweep.
	_, err = svc.RecoverResidual(ctx, 1, recipient)
	assert.ErrorIs(t, err, domain.ErrNothingToSweep)
}

func TestRecoverResidualRequiresResolution(t *testing.T) {
	svc, _, clock := newTestService(t)
	oneFightSeason(t, svc, clock, 1, 100)

	_, err := svc.RecoverResidual(context.Background(), 1, testAccount(20))
	assert.ErrorIs(t, err, domain.ErrSeasonNotResolved)
}

func TestConservation(t *testing.T) {
	svc, ledg, clock := newTestService(t)
	ctx := context.Background()
	accounts := fundedAccounts(ledg, 6)
	oneFightSeason(t, svc, clock, 1, 997) // awkward prime pool forces dust

	stakes := []int64{7, 13, 29, 41, 3, 17}
	outcomes := []uint8{0, 1, 2, 0, 4, 5} // mixed winners and losers
	for i, account := range accounts {
		lockOne(t, svc, account, 1, 0, outcomes[i], stakes[i])
	}

	clock.t = clock.t.Add(2 * time.Hour)
	require.NoError(t, svc.Resolve(ctx, 1, []uint8{0}))

	detail, err := svc.GetSeason(ctx, 1)
	require.NoError(t, err)
	state := detail.Fights[0].State

	// Recompute the share total from individual positions.
	var sumShares int64
	winning := domain.Outcome{Side: domain.SideA, Method: domain.MethodSubmission}
	for i := range accounts {
		backed, err := domain.DecodeOutcome(outcomes[i])
		require.NoError(t, err)
		sumShares += sharesFor(backed, winning) * stakes[i]
	}
	assert.Equal(t, sumShares, state.WinningShareTotal)

	var totalWinnings int64
	for i, account := range accounts {
		backed, _ := domain.DecodeOutcome(outcomes[i])
		if sharesFor(backed, winning) == 0 {
			continue
		}
		result, err := svc.Claim(ctx, account, 1)
		require.NoError(t, err)
		totalWinnings += result.TotalPayout - stakes[i]
	}

	// Winners never collect more than the pool; the shortfall is floor dust.
	assert.LessOrEqual(t, totalWinnings, state.TotalWinningsPool)

	// Winner stakes went out with the claims, so what remains in escrow is
	// exactly the undistributed slice of the winnings pool.
	after, err := svc.GetSeason(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, state.TotalWinningsPool-totalWinnings, after.Season.EscrowBalance)
}
