package otel_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"gamasa/infras/otel"
	"gamasa/shared/failure"
)

func record(t *testing.T, fn func(scope otel.Scope)) trace.ReadOnlySpan {
	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))

	_, scope := otel.FromProvider(provider).NewScope(context.Background(), "service", "service.Test")
	fn(scope)
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	return spans[0]
}

func TestScope_TraceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus codes.Code
		wantEvent  string
	}{
		{name: "nil", err: nil, wantStatus: codes.Unset},
		{name: "client failure", err: failure.NotFound("property not found"), wantStatus: codes.Unset, wantEvent: "client_error"},
		{name: "server failure", err: failure.InternalError(errors.New("db down")), wantStatus: codes.Error, wantEvent: "exception"},
		{name: "plain error", err: errors.New("db down"), wantStatus: codes.Error, wantEvent: "exception"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span := record(t, func(scope otel.Scope) {
				scope.TraceError(tt.err)
			})

			assert.Equal(t, tt.wantStatus, span.Status().Code)

			if tt.wantEvent == "" {
				assert.Empty(t, span.Events())

				return
			}

			require.Len(t, span.Events(), 1)
			assert.Equal(t, tt.wantEvent, span.Events()[0].Name)
		})
	}
}

func TestScope_SetAttributes(t *testing.T) {
	span := record(t, func(scope otel.Scope) {
		scope.SetAttributes(map[string]any{
			"http.status_code": 201,
			"kafka.offset":     int64(42),
			"booking.total":    1500.5,
			"allowed_roles":    []string{"admin"},
			"unlocked":         true,
		})
		scope.SetAttribute("property.id", "p-1")
	})

	attributes := attribute.NewSet(span.Attributes()...)

	status, _ := attributes.Value("http.status_code")
	assert.Equal(t, int64(201), status.AsInt64())

	offset, _ := attributes.Value("kafka.offset")
	assert.Equal(t, int64(42), offset.AsInt64())

	total, _ := attributes.Value("booking.total")
	assert.InDelta(t, 1500.5, total.AsFloat64(), 0.001)

	roles, _ := attributes.Value("allowed_roles")
	assert.Equal(t, []string{"admin"}, roles.AsStringSlice())

	unlocked, _ := attributes.Value("unlocked")
	assert.True(t, unlocked.AsBool())

	id, _ := attributes.Value("property.id")
	assert.Equal(t, "p-1", id.AsString())
}

func TestScope_TraceIfError(t *testing.T) {
	run := func(scope otel.Scope, fail bool) (err error) {
		defer scope.TraceIfError(&err)

		if fail {
			err = errors.New("db down")
		}

		return err
	}

	failed := record(t, func(scope otel.Scope) {
		_ = run(scope, true)
	})
	assert.Equal(t, codes.Error, failed.Status().Code)

	passed := record(t, func(scope otel.Scope) {
		_ = run(scope, false)
	})
	assert.Equal(t, codes.Unset, passed.Status().Code)
}
