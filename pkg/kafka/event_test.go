package kafka

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartPayload struct {
	SessionID string `json:"session_id"`
	Total     int64  `json:"total"`
}

func headerMap(headers []kafka.Header) map[string]string {
	m := make(map[string]string, len(headers))
	for _, h := range headers {
		m[h.Key] = string(h.Value)
	}
	return m
}

func TestNewEvent_Fields(t *testing.T) {
	data := cartPayload{SessionID: "sess-1", Total: 249900}
	event, err := NewEvent("cart.updated", "sess-1", "cart", "storefront-service", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "cart.updated", event.EventType)
	assert.Equal(t, "sess-1", event.AggregateID)
	assert.Equal(t, "cart", event.AggregateType)
	assert.Equal(t, "storefront-service", event.Source)
	assert.Equal(t, SchemaVersion, event.SchemaVersion)
	assert.WithinDuration(t, time.Now().UTC(), event.OccurredAt, 2*time.Second)
	assert.Nil(t, event.Metadata)

	var got cartPayload
	require.NoError(t, event.UnmarshalData(&got))
	assert.Equal(t, data, got)
}

func TestNewEvent_UniqueIDs(t *testing.T) {
	a, err := NewEvent("cart.cleared", "sess-1", "cart", "storefront-service", nil)
	require.NoError(t, err)
	b, err := NewEvent("cart.cleared", "sess-1", "cart", "storefront-service", nil)
	require.NoError(t, err)

	assert.NotEqual(t, a.EventID, b.EventID)
}

func TestNewEvent_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		eventType   string
		aggregateID string
		data        any
		wantInvalid bool
	}{
		{name: "missing type", aggregateID: "sess-1", wantInvalid: true},
		{name: "missing aggregate", eventType: "cart.updated", wantInvalid: true},
		{name: "unencodable payload", eventType: "cart.updated", aggregateID: "sess-1", data: make(chan int)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEvent(tt.eventType, tt.aggregateID, "cart", "storefront-service", tt.data)
			require.Error(t, err)
			assert.Equal(t, tt.wantInvalid, errors.Is(err, ErrInvalidEvent))
		})
	}
}

func TestEvent_TopicAndKey(t *testing.T) {
	event, err := NewEvent("product.viewed", "PRD-1001", "product", "storefront-service", nil)
	require.NoError(t, err)

	assert.Equal(t, "forique.product.viewed", event.Topic())
	assert.Equal(t, Topic(event.EventType), event.Topic())
	assert.Equal(t, []byte("PRD-1001"), event.Key())
}

func TestEvent_Headers(t *testing.T) {
	event, err := NewEvent("product.viewed", "PRD-1001", "product", "storefront-service", nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		HeaderEventType:     "product.viewed",
		HeaderSource:        "storefront-service",
		HeaderSchemaVersion: "1",
	}, headerMap(event.Headers()))

	event.WithCorrelationID("corr-abc").WithSessionID("sess-7")
	headers := headerMap(event.Headers())
	assert.Equal(t, "corr-abc", headers[HeaderCorrelationID])
	assert.Equal(t, "sess-7", headers[HeaderSessionID])
}

func TestEvent_MarshalRestoresEnvelope(t *testing.T) {
	original, err := NewEvent("product.viewed", "PRD-1001", "product", "storefront-service", map[string]string{"name": "Solitaire Diamond Ring"})
	require.NoError(t, err)
	original.WithCorrelationID("corr-abc").WithSessionID("sess-1").WithMetadata("channel", "web")

	raw, err := original.Marshal()
	require.NoError(t, err)

	restored, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, original.EventID, restored.EventID)
	assert.Equal(t, "corr-abc", restored.CorrelationID)
	assert.Equal(t, "sess-1", restored.SessionID)
	assert.Equal(t, "web", restored.Metadata["channel"])
	assert.True(t, original.OccurredAt.Equal(restored.OccurredAt))
	assert.JSONEq(t, string(original.Data), string(restored.Data))
}

func TestEvent_WithMetadata_NilMetadataMap(t *testing.T) {
	event := &Event{EventID: "evt-1"}

	result := event.WithMetadata("key", "value")

	assert.Same(t, event, result)
	assert.Equal(t, "value", event.Metadata["key"])
}

func TestEvent_UnmarshalData_Invalid(t *testing.T) {
	event := &Event{EventType: "cart.updated", Data: json.RawMessage(`not valid json`)}
	var target map[string]string

	err := event.UnmarshalData(&target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode cart.updated payload")
}

func TestUnmarshalEvent_Rejects(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantInvalid bool
	}{
		{name: "broken json", raw: `{broken json`},
		{name: "empty", raw: ``},
		{name: "missing id", raw: `{"event_type":"cart.updated","schema_version":1}`, wantInvalid: true},
		{name: "missing type", raw: `{"event_id":"evt-1","schema_version":1}`, wantInvalid: true},
		{name: "newer schema", raw: `{"event_id":"evt-1","event_type":"cart.updated","schema_version":2}`, wantInvalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalEvent([]byte(tt.raw))
			require.Error(t, err)
			assert.Equal(t, tt.wantInvalid, errors.Is(err, ErrInvalidEvent))
		})
	}
}
