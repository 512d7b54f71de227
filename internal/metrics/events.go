package metrics

import (
	"context"

	"github.com/FightFi/Sportsbook/internal/domain"
	"github.com/FightFi/Sportsbook/internal/event"
	"github.com/FightFi/Sportsbook/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.SeasonCreated,
		event.PredictionsLocked,
		event.SeasonResolved,
		event.PrizePoolSeeded,
		event.WinningsClaimed,
		event.ResidualRecovered,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	// Payloads are typed structs published in-process, so a type switch
	// is enough to pick out the business figures.
	switch payload := evt.Payload.(type) {
	case domain.SeasonCreatedPayloadV1:
		SeasonsCreated.Inc()
		if payload.TotalSeed > 0 {
			PrizePoolSeeded.Add(float64(payload.TotalSeed))
		}

	case domain.PredictionsLockedPayloadV1:
		PredictionsLocked.Inc()
		StakeVolume.Add(float64(payload.Stake))

	case domain.SeasonResolvedPayloadV1:
		SeasonsResolved.Inc()

	case domain.PrizePoolSeededPayloadV1:
		PrizePoolSeeded.Add(float64(payload.Amount))

	case domain.WinningsClaimedPayloadV1:
		ClaimsProcessed.Inc()
		WinningsPaid.Add(float64(payload.TotalPayout))

	case domain.ResidualRecoveredPayloadV1:
		ResidualSwept.Add(float64(payload.Amount))
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
