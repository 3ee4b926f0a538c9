package trace

import "context"

type ctxKey int

const (
	tracerKey ctxKey = iota
	spanKey
)

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if t, ok := ctx.Value(tracerKey).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx; a nil t attaches Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey, t)
}

// SpanContext identifies the innermost recorded span of a context.
type SpanContext struct {
	SpanID uint64
	GID    uint64
}

// CurrentSpan is the zero SpanContext outside any recorded span.
func CurrentSpan(ctx context.Context) SpanContext {
	sc, _ := ctx.Value(spanKey).(SpanContext)
	return sc
}

// Start begins a span under the span recorded in ctx and returns a context
// carrying the new span. Filtered scopes keep the parent, so nested spans at
// enabled scopes still attach to the nearest recorded ancestor.
func Start(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	span := Begin(FromContext(ctx), scope, name, CurrentSpan(ctx).SpanID)
	if span.ID() == 0 {
		return span, ctx
	}
	return span, context.WithValue(ctx, spanKey, SpanContext{SpanID: span.ID(), GID: span.begin.GID})
}

// Mark emits an instant event under the span recorded in ctx.
func Mark(ctx context.Context, scope Scope, name, detail string) {
	Point(FromContext(ctx), scope, name, detail, CurrentSpan(ctx).SpanID)
}
