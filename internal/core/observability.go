package core

import (
	"context"
	"time"
)

// Logger is the minimal structured logging contract the service emits
// against. Key/value pairs alternate in keyvals.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// MetricsRecorder receives one observation per service operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

type noopMetricsRecorder struct{}

func (noopMetricsRecorder) Observe(context.Context, string, bool, time.Duration) {}

// Tracer opens a span per service operation.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan finishes a span opened by a Tracer.
type TraceSpan interface {
	End(err error)
}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithLogger attaches a structured logger. Nil restores the noop logger.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger == nil {
			logger = noopLogger{}
		}
		s.logger = logger
	}
}

// WithMetricsRecorder attaches a metrics sink. Nil restores the noop recorder.
func WithMetricsRecorder(recorder MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if recorder == nil {
			recorder = noopMetricsRecorder{}
		}
		s.metrics = recorder
	}
}

// WithTracer attaches a tracer. Nil restores the noop tracer.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) {
		if tracer == nil {
			tracer = noopTracer{}
		}
		s.tracer = tracer
	}
}

// WithArchive attaches a payload archive used by ImportCatalog.
func WithArchive(archive PayloadArchive) ServiceOption {
	return func(s *Service) {
		s.archive = archive
	}
}

// PayloadArchive persists raw import payloads for audit and re-ingestion.
// internal/blob provides the production implementation.
type PayloadArchive interface {
	Archive(ctx context.Context, name string, payload []byte) (string, error)
}
