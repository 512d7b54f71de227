package event

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FightFi/Sportsbook/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()

	var received atomic.Int32
	bus.Subscribe(WinningsClaimed, func(ctx context.Context, e Event) error {
		received.Add(1)
		payload, ok := e.Payload.(domain.WinningsClaimedPayloadV1)
		require.True(t, ok)
		assert.Equal(t, int64(42), payload.SeasonID)
		return nil
	})

	err := bus.Publish(context.Background(), NewWinningsClaimedEvent("0xAb", 42, 700, []int{0, 2}))
	require.NoError(t, err)
	assert.Equal(t, int32(1), received.Load())
}

func TestMemoryBus_NoSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	err := bus.Publish(context.Background(), NewResidualRecoveredEvent(1, "0xOp", 5))
	assert.NoError(t, err)
}

func TestMemoryBus_HandlerErrorAggregated(t *testing.T) {
	bus := NewMemoryBus()
	bus.Subscribe(SeasonResolved, func(ctx context.Context, e Event) error {
		return errors.New("boom")
	})
	bus.Subscribe(SeasonResolved, func(ctx context.Context, e Event) error {
		return nil
	})

	err := bus.Publish(context.Background(), NewSeasonResolvedEvent(1, time.Now(), nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestCalculateRetryDelay(t *testing.T) {
	base := 2 * time.Second
	assert.Equal(t, 2*time.Second, CalculateRetryDelay(base, 1))
	assert.Equal(t, 4*time.Second, CalculateRetryDelay(base, 2))
	assert.Equal(t, 32*time.Second, CalculateRetryDelay(base, 5))
}

func TestNewSeasonCreatedEvent(t *testing.T) {
	cutOff := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	e := NewSeasonCreatedEvent(7, "usdc", 12, cutOff, 3000)

	assert.Equal(t, EventSchemaVersion, e.Version)
	assert.Equal(t, SeasonCreated, e.Type)

	payload, ok := e.Payload.(domain.SeasonCreatedPayloadV1)
	require.True(t, ok)
	assert.Equal(t, int64(7), payload.SeasonID)
	assert.Equal(t, "usdc", payload.EscrowAsset)
	assert.Equal(t, 12, payload.FightCount)
	assert.Equal(t, cutOff.Unix(), payload.CutOffTime)
	assert.Equal(t, int64(3000), payload.TotalSeed)
}
