//go:build !no_otel

// Package otel indirects the OpenTelemetry tracer so binaries built with the
// no_otel tag carry no otel dependency.
package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
