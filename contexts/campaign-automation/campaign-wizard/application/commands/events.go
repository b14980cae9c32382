package commands

import (
	"encoding/json"
	"time"

	"adpilot/contexts/campaign-automation/campaign-wizard/ports"
)

func newTaskEnvelope(
	eventID string,
	eventType string,
	userID string,
	taskID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		SourceService: "campaign-wizard",
		OccurredAt:    occurredAt.UTC(),
		UserID:        userID,
		PartitionKey:  taskID,
		SchemaVersion: 1,
		Data:          payload,
	}, nil
}
