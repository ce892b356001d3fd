// Package middleware provides observability wrappers for navigation
// stacks: Prometheus metrics and OpenTelemetry tracing around every
// mutating operation.
//
// Instrument wraps a navstack.Stack without changing its semantics:
//
//	stack := middleware.Instrument(navstack.NewStack(),
//	    middleware.WithNamespace("myapp"),
//	    middleware.WithTracerName("myapp-nav"),
//	)
//	res, err := stack.Push(ctx, route)
//
// The tracer is resolved from the global OpenTelemetry tracer provider;
// configure it in main() before constructing the wrapper.
package middleware
