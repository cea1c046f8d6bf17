package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecorderCapturesSpans(t *testing.T) {
	p := NewProvider()
	defer func() { require.NoError(t, p.Shutdown(context.Background())) }()

	tracer := p.Tracer("test")
	_, span := tracer.Start(context.Background(), "task.execute")
	span.End()
	_, span = tracer.Start(context.Background(), "tool.invoke")
	span.End()

	require.Equal(t, []string{"task.execute", "tool.invoke"}, p.Recorder.Spans())
}

func TestNoopTracerIsSafe(t *testing.T) {
	tracer := Noop()
	_, span := tracer.Start(context.Background(), "anything")
	span.End()
}
