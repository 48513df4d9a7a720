package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// SchemaVersion is the envelope version written by NewEvent. Consumers reject
// envelopes from a newer schema than they understand.
const SchemaVersion = 1

// Header keys set on every published message.
const (
	HeaderEventType     = "event_type"
	HeaderSource        = "source"
	HeaderSchemaVersion = "schema_version"
	HeaderCorrelationID = "correlation_id"
	HeaderSessionID     = "session_id"
)

// ErrInvalidEvent reports an envelope that is missing required fields or was
// written by an unsupported schema version.
var ErrInvalidEvent = errors.New("invalid event")

// Event is the envelope of every storefront message. EventType is the short
// name such as "cart.updated"; the topic is derived from it.
type Event struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	AggregateID   string            `json:"aggregate_id"`
	AggregateType string            `json:"aggregate_type"`
	SchemaVersion int               `json:"schema_version"`
	OccurredAt    time.Time         `json:"occurred_at"`
	Source        string            `json:"source"`
	SessionID     string            `json:"session_id,omitempty"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Data          json.RawMessage   `json:"data"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NewEvent creates an event with a generated ID and the current time.
func NewEvent(eventType, aggregateID, aggregateType, source string, data any) (*Event, error) {
	if eventType == "" || aggregateID == "" {
		return nil, fmt.Errorf("%w: event type and aggregate id are required", ErrInvalidEvent)
	}

	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return &Event{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		SchemaVersion: SchemaVersion,
		OccurredAt:    time.Now().UTC(),
		Source:        source,
		Data:          dataBytes,
	}, nil
}

// Topic returns the topic the event is published to.
func (e *Event) Topic() string {
	return Topic(e.EventType)
}

// Key returns the partition key. Events of one aggregate land on the same
// partition, so a session's cart updates are consumed in order.
func (e *Event) Key() []byte {
	return []byte(e.AggregateID)
}

// Headers returns the message headers describing the envelope, so consumers
// can route without decoding the body.
func (e *Event) Headers() []kafka.Header {
	headers := []kafka.Header{
		{Key: HeaderEventType, Value: []byte(e.EventType)},
		{Key: HeaderSource, Value: []byte(e.Source)},
		{Key: HeaderSchemaVersion, Value: []byte(strconv.Itoa(e.SchemaVersion))},
	}
	if e.CorrelationID != "" {
		headers = append(headers, kafka.Header{Key: HeaderCorrelationID, Value: []byte(e.CorrelationID)})
	}
	if e.SessionID != "" {
		headers = append(headers, kafka.Header{Key: HeaderSessionID, Value: []byte(e.SessionID)})
	}
	return headers
}

// WithCorrelationID sets the correlation ID on the event.
func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

// WithSessionID records the session that caused the event. It matters for
// events keyed by something else, such as product views.
func (e *Event) WithSessionID(id string) *Event {
	e.SessionID = id
	return e
}

// WithMetadata adds a key-value pair to the event metadata.
func (e *Event) WithMetadata(key, value string) *Event {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

// Marshal serializes the event to JSON bytes.
func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalEvent decodes an envelope and checks that it can be handled.
func UnmarshalEvent(data []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	switch {
	case event.EventID == "" || event.EventType == "":
		return nil, fmt.Errorf("%w: missing event id or type", ErrInvalidEvent)
	case event.SchemaVersion > SchemaVersion:
		return nil, fmt.Errorf("%w: schema version %d is newer than %d", ErrInvalidEvent, event.SchemaVersion, SchemaVersion)
	}
	return &event, nil
}

// UnmarshalData deserializes the event data payload into the given target.
func (e *Event) UnmarshalData(target any) error {
	if err := json.Unmarshal(e.Data, target); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.EventType, err)
	}
	return nil
}
