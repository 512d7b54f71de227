package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/FightFi/Sportsbook/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}

	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}

	return nil
}

// Common event types
const (
	SeasonCreated     Type = Type(domain.EventTypeSeasonCreated)
	PredictionsLocked Type = Type(domain.EventTypePredictionsLocked)
	SeasonResolved    Type = Type(domain.EventTypeSeasonResolved)
	PrizePoolSeeded   Type = Type(domain.EventTypePrizePoolSeeded)
	WinningsClaimed   Type = Type(domain.EventTypeWinningsClaimed)
	ResidualRecovered Type = Type(domain.EventTypeResidualRecovered)
)

// Type-safe event constructors

// NewSeasonCreatedEvent creates a new season created event
func NewSeasonCreatedEvent(seasonID int64, escrowAsset string, fightCount int, cutOffTime time.Time, totalSeed int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SeasonCreated,
		Payload: domain.SeasonCreatedPayloadV1{
			SeasonID:    seasonID,
			EscrowAsset: escrowAsset,
			FightCount:  fightCount,
			CutOffTime:  cutOffTime.Unix(),
			TotalSeed:   totalSeed,
			Timestamp:   time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewPredictionsLockedEvent creates a new predictions locked event for one fight
func NewPredictionsLockedEvent(account string, seasonID int64, fightIdx int, outcome uint8, stake int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    PredictionsLocked,
		Payload: domain.PredictionsLockedPayloadV1{
			Account:   account,
			SeasonID:  seasonID,
			FightIdx:  fightIdx,
			Outcome:   outcome,
			Stake:     stake,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewSeasonResolvedEvent creates a new season resolved event
func NewSeasonResolvedEvent(seasonID int64, settlementTime time.Time, fights []domain.FightResolutionV1) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SeasonResolved,
		Payload: domain.SeasonResolvedPayloadV1{
			SeasonID:       seasonID,
			SettlementTime: settlementTime.Unix(),
			Fights:         fights,
		},
		Metadata: nil,
	}
}

// NewPrizePoolSeededEvent creates a new prize pool seeded event
func NewPrizePoolSeededEvent(operator string, seasonID int64, fightIdx int, amount int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    PrizePoolSeeded,
		Payload: domain.PrizePoolSeededPayloadV1{
			Operator:  operator,
			SeasonID:  seasonID,
			FightIdx:  fightIdx,
			Amount:    amount,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewWinningsClaimedEvent creates a new winnings claimed event
func NewWinningsClaimedEvent(account string, seasonID int64, totalPayout int64, fightsClaimed []int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    WinningsClaimed,
		Payload: domain.WinningsClaimedPayloadV1{
			Account:       account,
			SeasonID:      seasonID,
			TotalPayout:   totalPayout,
			FightsClaimed: fightsClaimed,
			Timestamp:     time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewResidualRecoveredEvent creates a new residual recovered event
func NewResidualRecoveredEvent(seasonID int64, recipient string, amount int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ResidualRecovered,
		Payload: domain.ResidualRecoveredPayloadV1{
			SeasonID:  seasonID,
			Recipient: recipient,
			Amount:    amount,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	// Handlers run synchronously; callers that need decoupling wrap the bus
	// in a ResilientPublisher.
	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
