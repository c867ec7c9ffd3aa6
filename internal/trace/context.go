package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
)

// FromContext returns the run's tracer, or Nop when none is attached.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t for the rest of the run. A nil t disables tracing.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// CurrentSpan returns the ID of the innermost open span (the run span for a
// unit, the unit span for a step), or 0 at the top.
func CurrentSpan(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey{}).(uint64)
	return id
}

// WithSpan makes span the parent of spans started from ctx. Disabled spans
// leave ctx unchanged.
func WithSpan(ctx context.Context, span *Span) context.Context {
	if span.ID() == 0 {
		return ctx
	}
	return context.WithValue(ctx, spanKey{}, span.ID())
}

// StartSpan begins a span under the current one using the context's tracer
// and returns a context in which it is the parent.
//
//	ctx, span := trace.StartSpan(ctx, trace.ScopeUnit, "unit:t1")
//	defer span.End("passed")
func StartSpan(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	span := Begin(FromContext(ctx), scope, name, CurrentSpan(ctx))
	return WithSpan(ctx, span), span
}
