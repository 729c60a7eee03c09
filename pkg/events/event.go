package events

import "time"

// Event types emitted by the pipeline.
const (
	TypeContributionProcessed = "CONTRIBUTION_PROCESSED"
	TypeSynthesisCreated      = "SYNTHESIS_CREATED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SYNTHESIS_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used by the pipeline.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// ContributionProcessed is emitted after a pipeline run finishes, whatever
// the triage outcome was.
func ContributionProcessed(forgeId, contributionId, action string) Event {
	return BaseEvent{
		Type: TypeContributionProcessed,
		Data: map[string]interface{}{
			"forgeId":        forgeId,
			"contributionId": contributionId,
			"action":         action,
		},
		OccurredAt: time.Now().UTC(),
	}
}

// SynthesisCreated is emitted when a new synthesis lands in a forge document.
func SynthesisCreated(forgeId, synthesisId string, briefingCount int) Event {
	return BaseEvent{
		Type: TypeSynthesisCreated,
		Data: map[string]interface{}{
			"forgeId":       forgeId,
			"synthesisId":   synthesisId,
			"briefingCount": briefingCount,
		},
		OccurredAt: time.Now().UTC(),
	}
}
