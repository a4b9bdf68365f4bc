// SPDX-License-Identifier: MIT
// Package: pgasgraph/builder
//
// impl_shapes.go - Path and Cycle over the span.
//
// Contract:
//   - Path: span ≥ 2 (else ErrTooFewVertices); edges (i-1, i) in increasing i.
//   - Cycle: span ≥ 3 (else ErrTooFewVertices); Path edges plus (last, first).
//   - Weights come from cfg.weightFn in emission order.

package builder

import (
	"context"
	"fmt"
)

const (
	methodPath    = "Path"
	methodCycle   = "Cycle"
	minPathNodes  = 2
	minCycleNodes = 3
)

// Path returns a Constructor that builds a simple path over the span.
func Path() Constructor {
	return func(ctx context.Context, sink EdgeSink, cfg builderConfig) (int, error) {
		if cfg.size() < minPathNodes {
			return 0, fmt.Errorf("%s: n=%d < min=%d: %w", methodPath, cfg.size(), minPathNodes, ErrTooFewVertices)
		}

		edges := 0
		for v := cfg.lo + 1; v < cfg.hi; v++ {
			if err := emit(ctx, sink, methodPath, v-1, v, cfg.weight()); err != nil {
				return edges, err
			}
			edges++
		}

		return edges, nil
	}
}

// Cycle returns a Constructor that builds a simple cycle over the span.
func Cycle() Constructor {
	return func(ctx context.Context, sink EdgeSink, cfg builderConfig) (int, error) {
		if cfg.size() < minCycleNodes {
			return 0, fmt.Errorf("%s: n=%d < min=%d: %w", methodCycle, cfg.size(), minCycleNodes, ErrTooFewVertices)
		}

		edges, err := Path()(ctx, sink, cfg)
		if err != nil {
			return edges, err
		}
		if err := emit(ctx, sink, methodCycle, cfg.hi-1, cfg.lo, cfg.weight()); err != nil {
			return edges, err
		}

		return edges + 1, nil
	}
}
