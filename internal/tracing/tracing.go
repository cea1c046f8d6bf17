// Package tracing wires an in-process OpenTelemetry TracerProvider
// with an in-memory span recorder — no network exporter is attached,
// so tracing instruments the Evaluator without adding a network
// surface.
package tracing

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Recorder captures finished spans in memory for tests and debugging
// to inspect; `sexprt metrics` does not print them.
type Recorder struct {
	mu    sync.Mutex
	spans []sdktrace.ReadOnlySpan
}

func (r *Recorder) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spans = append(r.spans, spans...)
	return nil
}

func (r *Recorder) Shutdown(context.Context) error { return nil }

// Spans returns the names of every span recorded so far, in order.
func (r *Recorder) Spans() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.spans))
	for i, s := range r.spans {
		names[i] = s.Name()
	}
	return names
}

// Provider bundles a TracerProvider with its in-memory Recorder.
type Provider struct {
	TP       *sdktrace.TracerProvider
	Recorder *Recorder
}

// NewProvider builds an in-process tracer provider. Call Shutdown when
// the runtime exits to flush the simple span processor.
func NewProvider() *Provider {
	rec := &Recorder{}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(rec))
	return &Provider{TP: tp, Recorder: rec}
}

// Tracer returns a named tracer from the provider.
func (p *Provider) Tracer(name string) oteltrace.Tracer {
	return p.TP.Tracer(name)
}

// Shutdown flushes and releases the tracer provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.TP.Shutdown(ctx)
}

// Noop is a tracer that records nothing, used when tracing isn't
// configured (e.g. unit tests of unrelated packages).
func Noop() oteltrace.Tracer {
	return otel.Tracer("sexprt/noop")
}
