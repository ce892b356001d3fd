package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/navstack-dev/navstack/pkg/navstack"
	"github.com/navstack-dev/navstack/pkg/route"
)

// InstrumentedStack wraps a navigation stack with Prometheus metrics and
// OpenTelemetry spans. All operations delegate to the underlying stack
// unchanged; the wrapper only observes.
type InstrumentedStack struct {
	stack   *navstack.Stack
	metrics *metrics
	tracer  trace.Tracer
}

// Instrument wraps s. The depth gauge tracks the stack through its own
// change subscription, so mutations made directly on s are observed too.
func Instrument(s *navstack.Stack, opts ...Option) *InstrumentedStack {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	w := &InstrumentedStack{
		stack:   s,
		metrics: initMetrics(config),
		tracer:  otel.Tracer(config.TracerName),
	}
	s.Subscribe(func() {
		w.metrics.depth.Set(float64(s.Len()))
	})
	w.metrics.depth.Set(float64(s.Len()))
	return w
}

// Stack returns the wrapped stack.
func (w *InstrumentedStack) Stack() *navstack.Stack { return w.stack }

// DebugLabel returns the wrapped stack's label.
func (w *InstrumentedStack) DebugLabel() string { return w.stack.DebugLabel() }

// Len returns the wrapped stack's length.
func (w *InstrumentedStack) Len() int { return w.stack.Len() }

// Entries returns a snapshot of the wrapped stack's sequence.
func (w *InstrumentedStack) Entries() []route.Entry { return w.stack.Entries() }

// ActiveEntry returns the wrapped stack's top entry.
func (w *InstrumentedStack) ActiveEntry() route.Entry { return w.stack.ActiveEntry() }

// Subscribe registers a change subscriber on the wrapped stack.
func (w *InstrumentedStack) Subscribe(fn func()) func() { return w.stack.Subscribe(fn) }

// Push delegates to the stack, recording a span and counters.
func (w *InstrumentedStack) Push(ctx context.Context, e route.Entry) (*route.Result, error) {
	ctx, span := w.tracer.Start(ctx, "navstack.push",
		trace.WithAttributes(attribute.String("nav.route", e.RouteName())))
	defer span.End()

	res, err := w.stack.Push(ctx, e)
	if err != nil {
		w.metrics.pushErrors.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	w.metrics.pushesTotal.Inc()
	return res, nil
}

// PushOrMoveToTop delegates to the stack, recording a span and counters.
func (w *InstrumentedStack) PushOrMoveToTop(ctx context.Context, e route.Entry) (*route.Result, error) {
	ctx, span := w.tracer.Start(ctx, "navstack.push_or_move_to_top",
		trace.WithAttributes(attribute.String("nav.route", e.RouteName())))
	defer span.End()

	res, err := w.stack.PushOrMoveToTop(ctx, e)
	if err != nil {
		w.metrics.pushErrors.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	w.metrics.movesTotal.Inc()
	return res, nil
}

// Insert delegates to the stack, recording a span and counters.
func (w *InstrumentedStack) Insert(ctx context.Context, index int, e route.Entry) (*route.Result, error) {
	ctx, span := w.tracer.Start(ctx, "navstack.insert",
		trace.WithAttributes(
			attribute.String("nav.route", e.RouteName()),
			attribute.Int("nav.index", index),
		))
	defer span.End()

	res, err := w.stack.Insert(ctx, index, e)
	if err != nil {
		w.metrics.pushErrors.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	w.metrics.pushesTotal.Inc()
	return res, nil
}

// Pop delegates to the stack, recording the outcome.
func (w *InstrumentedStack) Pop(ctx context.Context, result any) navstack.PopOutcome {
	ctx, span := w.tracer.Start(ctx, "navstack.pop")
	defer span.End()

	outcome := w.stack.Pop(ctx, result)
	span.SetAttributes(attribute.String("nav.outcome", outcome.String()))
	w.metrics.popsTotal.WithLabelValues(outcome.String()).Inc()
	return outcome
}

// Remove delegates to the stack, counting actual removals.
func (w *InstrumentedStack) Remove(e route.Entry) bool {
	removed := w.stack.Remove(e)
	if removed {
		w.metrics.removesTotal.Inc()
	}
	return removed
}

// Reset delegates to the stack.
func (w *InstrumentedStack) Reset() {
	w.stack.Reset()
	w.metrics.resetsTotal.Inc()
}
