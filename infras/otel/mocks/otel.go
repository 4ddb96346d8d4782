// Package mocks provides an Otel backed by the no-op tracer for tests.
package mocks

import (
	"gamasa/infras/otel"

	"go.opentelemetry.io/otel/trace/noop"
)

func NewOtel() otel.Otel {
	return otel.FromProvider(noop.NewTracerProvider())
}
