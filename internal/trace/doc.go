// Package trace records spans for the phpflow driver and its analysis passes.
//
// Enable tracing from the command line:
//
//	phpflow check --trace=- --trace-level=detail testdata/*.json
//
// Tracers:
//
//   - Nop: used when tracing is off
//   - StreamTracer: writes every event as it happens
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans out to several tracers
//
// Levels map onto scopes: phase records driver and file spans, detail adds
// one span per analysis unit, and debug adds every pass (decode, cfg.build,
// undefined, dom, ssa, deadcode).
//
// Tracers travel through the pipeline on the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopePass, "ssa")
//	defer span.End("")
package trace
