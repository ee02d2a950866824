//go:build no_otel

package otel

import "context"

// NoopTracer satisfies the subset of the otel tracer surface this module
// uses, so callers do not need build tags of their own.
type NoopTracer struct{}

type NoopSpan struct{}

func Tracer(name string) NoopTracer {
	return NoopTracer{}
}

func (t NoopTracer) Start(ctx context.Context, _ string) (context.Context, NoopSpan) {
	return ctx, NoopSpan{}
}

func (s NoopSpan) End() {}
