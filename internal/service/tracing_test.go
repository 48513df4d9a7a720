package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "github.com/softmatrices/forique-sub000/pkg/errors"
)

func recordSpans(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return exporter
}

func spanInt(attrs []attribute.KeyValue, key string) (int64, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value.AsInt64(), true
		}
	}
	return 0, false
}

func TestMutate_SpanRecordsRetries(t *testing.T) {
	exporter := recordSpans(t)
	repo := new(mockSessionRepository)
	svc := newMockedService(t, repo)

	repo.On("Get", mock.Anything, "sess-1").Return(storedSession(1), nil).Once()
	repo.On("Get", mock.Anything, "sess-1").Return(storedSession(2), nil).Once()
	repo.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.Session"), 1).Return(false, nil).Once()
	repo.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.Session"), 2).Return(true, nil).Once()

	_, err := svc.AddItem(context.Background(), "sess-1", ringInput(1))
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "SessionService.mutate", span.Name)
	assert.Equal(t, codes.Unset, span.Status.Code)

	attempts, ok := spanInt(span.Attributes, "storefront.save_attempts")
	require.True(t, ok)
	assert.Equal(t, int64(2), attempts)

	require.Len(t, span.Events, 1)
	assert.Equal(t, "version conflict", span.Events[0].Name)
}

func TestMutate_SpanLeavesClientErrorsUnset(t *testing.T) {
	exporter := recordSpans(t)
	svc, _ := newTestService(t)

	_, err := svc.MoveToCart(context.Background(), "sess-1", "PRD-1001", MoveToCartInput{})
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}

func TestMutate_SpanMarksStoreFailures(t *testing.T) {
	exporter := recordSpans(t)
	repo := new(mockSessionRepository)
	svc := newMockedService(t, repo)

	repo.On("Get", mock.Anything, "sess-1").Return(storedSession(1), nil)
	repo.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.Session"), 1).Return(false, assert.AnError)

	_, err := svc.ClearCart(context.Background(), "sess-1")
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
}
