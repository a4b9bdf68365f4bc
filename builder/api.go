// SPDX-License-Identifier: MIT
// Package: pgasgraph/builder
//
// api.go - public entry point and constructor type.
//
// Design contract:
//   - One orchestrator: Generate(ctx, sink, layout, rank, bopts, cons...).
//   - Functional options resolve into an immutable builderConfig.
//   - Determinism: same inputs, options, seed and constructor order give the
//     same edge sequence.

package builder

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/pgasgraph/core"
)

// EdgeSink receives generated edges. *graph.Graph satisfies it.
type EdgeSink interface {
	AddEdge(ctx context.Context, u, v core.VertexID, weight int64) error
}

// Constructor emits edges into sink using the resolved configuration and
// returns how many it emitted. Constructors validate parameters early and
// return sentinel errors; they never panic.
type Constructor func(ctx context.Context, sink EdgeSink, cfg builderConfig) (int, error)

// Generate resolves bopts, fixes the span (the rank's own vertices, or all of
// them under WithWholeGraph) and applies every constructor in order. It
// returns the total number of edges emitted. Panics if rank is outside the
// layout.
//
// Errors:
//   - ErrConstructFailed for a nil constructor.
//   - Any constructor error, wrapped with "Generate: %w".
func Generate(ctx context.Context, sink EdgeSink, layout core.Layout, rank core.Rank,
	bopts []BuilderOption, cons ...Constructor) (int, error) {
	cfg := newBuilderConfig(bopts...)
	cfg.layout, cfg.rank = layout, rank
	cfg.lo, cfg.hi = layout.Span(rank)
	if cfg.whole {
		cfg.lo, cfg.hi = 0, core.VertexID(layout.Total())
	}

	total := 0
	for i, fn := range cons {
		if fn == nil {
			return total, fmt.Errorf("Generate: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		n, err := fn(ctx, sink, cfg)
		total += n
		if err != nil {
			return total, fmt.Errorf("Generate: %w", err)
		}
	}

	cfg.log.WithFields(logrus.Fields{
		"lo":    int64(cfg.lo),
		"hi":    int64(cfg.hi),
		"edges": total,
	}).Debug("generation finished")

	return total, nil
}

// emit adds one edge and wraps a sink failure with the method tag.
func emit(ctx context.Context, sink EdgeSink, method string, u, v core.VertexID, w int64) error {
	if err := sink.AddEdge(ctx, u, v, w); err != nil {
		return fmt.Errorf("%s: AddEdge(%d,%d,%d): %w", method, u, v, w, err)
	}

	return nil
}
