// internal/analytics/recorder.go
package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"cravebakery/pkg/eventstore"

	"github.com/google/uuid"
)

// Recorder appends storefront analytics events to the shared event log.
// Every call writes a fresh single-event aggregate; callers that treat
// recording as best-effort are free to discard the returned error.
type Recorder struct {
	eventStore *eventstore.EventStore
}

func NewRecorder(es *eventstore.EventStore) *Recorder {
	return &Recorder{eventStore: es}
}

func (r *Recorder) Record(ctx context.Context, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	id := uuid.New()
	record := eventstore.Event{
		AggregateID:   id,
		AggregateType: "analytics",
		EventType:     event,
		EventData:     data,
		Version:       1,
	}
	if err := r.eventStore.AppendEvents(ctx, id, "analytics", 0, []eventstore.Event{record}); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}
