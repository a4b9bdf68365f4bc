// Package builder generates graphs for benchmarks, the command-line harness
// and tests. It emits edges into any EdgeSink, typically a *graph.Graph.
//
// The package offers:
//
//   - Generate(ctx, sink, layout, rank, bopts, cons...) - resolves options and
//     runs constructors in order, returning how many edges were emitted.
//   - Constructors:
//     – RandomConnected(pct): random spanning tree over the span plus
//     (k²/2)·pct/100 extra random edges, k = span size.
//     – CrossLinks(n):        n random edges from the span to other ranks.
//     – Bridge():             one edge from the span's first vertex to the
//     first vertex of the next non-empty rank.
//     – Path(), Cycle():      fixed shapes over the span.
//   - Edge weights (WeightFn): Sequential (the default: 1, 2, 3, ...),
//     Constant, Uniform, Normal, Exponential.
//
// The span is the rank's own vertex range, or the whole graph with
// WithWholeGraph. Whole-graph generation from a single rank reproduces the
// classic harness; per-rank spans plus Bridge let every rank insert edges
// concurrently and still yield a connected graph.
//
// Determinism: the same layout, rank, options, seed and constructor order
// give the same edge sequence.
package builder
