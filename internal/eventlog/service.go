package eventlog

import (
	"context"
	"encoding/json"

	"github.com/FightFi/Sportsbook/internal/event"
	"github.com/FightFi/Sportsbook/internal/logger"
)

// Service handles event logging business logic
type Service interface {
	// Subscribe registers the event logger to listen to all events
	Subscribe(bus event.Bus) error

	// GetEvents retrieves the audit trail based on filter criteria
	GetEvents(ctx context.Context, filter EventFilter) ([]Event, error)

	// CleanupOldEvents removes events older than retention period
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}

type service struct {
	repo Repository
}

// NewService creates a new event logging service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Subscribe registers event handlers for all event types
func (s *service) Subscribe(bus event.Bus) error {
	eventTypes := []event.Type{
		event.SeasonCreated,
		event.PredictionsLocked,
		event.SeasonResolved,
		event.PrizePoolSeeded,
		event.WinningsClaimed,
		event.ResidualRecovered,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, s.handleEvent)
	}

	return nil
}

// handleEvent processes and logs events to the database
func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := payloadToMap(evt.Payload)
	if err != nil {
		log.Debug(LogMsgPayloadNotSerializable, LogFieldType, evt.Type)
		return nil
	}

	account := extractAccount(payload)

	if err := s.repo.LogEvent(ctx, string(evt.Type), account, payload, evt.Metadata); err != nil {
		log.Error(LogMsgFailedToLogEvent, LogFieldError, err, LogFieldType, evt.Type)
		return err
	}

	log.Debug(LogMsgEventLogged, LogFieldType, evt.Type, LogFieldAccount, account)
	return nil
}

// GetEvents retrieves the audit trail based on filter criteria
func (s *service) GetEvents(ctx context.Context, filter EventFilter) ([]Event, error) {
	return s.repo.GetEvents(ctx, filter)
}

// CleanupOldEvents removes events older than the retention period
func (s *service) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	return s.repo.CleanupOldEvents(ctx, retentionDays)
}

// payloadToMap converts a typed event payload to a generic map via JSON
// round-trip so the repository can store it as JSONB.
func payloadToMap(payload interface{}) (map[string]interface{}, error) {
	if m, ok := payload.(map[string]interface{}); ok {
		return m, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// extractAccount pulls the acting account out of a payload, if present.
func extractAccount(payload map[string]interface{}) *string {
	for _, key := range []string{PayloadKeyAccount, PayloadKeyOperator, PayloadKeyRecipient} {
		if acct, ok := payload[key].(string); ok && acct != "" {
			return &acct
		}
	}
	return nil
}
