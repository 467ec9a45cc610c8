// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package trace exports OpenTelemetry spans of client calls.
package trace

import (
	"context"
	"errors"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	tracerExportTimeout   = 10 * time.Second
	tracerShutdownTimeout = 15 * time.Second
)

var errInvalidSampleRate = errors.New("trace sample rate must be in [0, 1]")

type Config struct {
	ExporterConfig `json:"exporterConfig"`

	// If false, use a no-op tracer. All tracing configs are ignored.
	Enabled bool `json:"enabled"`

	// The fraction of traces to sample.
	// If >= 1 always samples.
	// If <= 0 never samples.
	TraceSampleRate float64 `json:"traceSampleRate"`

	AppName string `json:"appName"`
	Version string `json:"version"`
}

// Tracer starts spans and flushes them when closed.
type Tracer interface {
	oteltrace.Tracer
	io.Closer
}

type tracer struct {
	oteltrace.Tracer

	tp *sdktrace.TracerProvider
}

func (t *tracer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), tracerShutdownTimeout)
	defer cancel()
	return t.tp.Shutdown(ctx)
}

// New returns Noop if tracing is disabled and otherwise a tracer exporting
// to [config.Endpoint].
func New(config Config) (Tracer, error) {
	if !config.Enabled {
		return Noop, nil
	}
	if config.TraceSampleRate < 0 || config.TraceSampleRate > 1 {
		return nil, errInvalidSampleRate
	}

	exporter, err := newExporter(config.ExporterConfig)
	if err != nil {
		return nil, err
	}
	return newTracer(config, sdktrace.WithBatcher(exporter, sdktrace.WithExportTimeout(tracerExportTimeout))), nil
}

// newTracer returns a tracer whose spans are handed to [processor].
func newTracer(config Config, processor sdktrace.TracerProviderOption) *tracer {
	attrs := []attribute.KeyValue{
		semconv.ServiceNameKey.String(config.AppName),
	}
	if config.Version != "" {
		attrs = append(attrs, semconv.ServiceVersionKey.String(config.Version))
	}
	tp := sdktrace.NewTracerProvider(
		processor,
		sdktrace.WithResource(resource.NewWithAttributes(semconv.SchemaURL, attrs...)),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.TraceSampleRate)),
	)
	return &tracer{
		Tracer: tp.Tracer(config.AppName),
		tp:     tp,
	}
}
