package response_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"gamasa/infras/otel"
	"gamasa/shared/failure"
	"gamasa/transport/http/response"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "client failure", err: failure.PaymentRequired("unlock required"), wantCode: http.StatusPaymentRequired, wantMsg: "unlock required"},
		{name: "internal error is hidden", err: errors.New("pq: relation does not exist"), wantCode: http.StatusInternalServerError, wantMsg: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantMsg, decode(t, rec)["error"])
		})
	}
}

func TestWithTracedError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus codes.Code
	}{
		{name: "client error leaves span ok", err: failure.Conflict("dates overlap"), wantCode: http.StatusConflict, wantStatus: codes.Unset},
		{name: "server error fails span", err: errors.New("connection reset"), wantCode: http.StatusInternalServerError, wantStatus: codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := tracetest.NewSpanRecorder()
			provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))
			_, scope := otel.FromProvider(provider).NewScope(context.Background(), "handler", "handler.Test")

			rec := httptest.NewRecorder()

			response.WithTracedError(rec, scope, tt.err, "failed to do the thing")
			scope.End()

			assert.Equal(t, tt.wantCode, rec.Code)

			spans := recorder.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, tt.wantStatus, spans[0].Status().Code)
		})
	}
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusCreated, map[string]string{"id": "p-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, map[string]any{"id": "p-1"}, decode(t, rec)["data"])
}

func TestWithRequestLimitExceeded(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithRequestLimitExceeded(rec)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["message"])
}
