// SPDX-License-Identifier: MIT
// Package: pgasgraph/builder
//
// impl_cross.go - constructors linking the span to the rest of the graph.
//
// Contract:
//   - CrossLinks(n): n ≥ 0; rng required; each edge joins a random vertex of
//     the span to a random vertex outside it. No-op when either side is
//     empty.
//   - Bridge(): one edge from the span's first vertex to the first vertex of
//     the next non-empty rank. Run on every rank it chains all non-empty
//     ranks together, so per-rank connected spans become one component.

package builder

import (
	"context"
	"fmt"

	"github.com/katalvlaran/pgasgraph/core"
)

const (
	methodCrossLinks = "CrossLinks"
	methodBridge     = "Bridge"
)

// CrossLinks returns a Constructor that adds n random edges leaving the span.
func CrossLinks(n int) Constructor {
	return func(ctx context.Context, sink EdgeSink, cfg builderConfig) (int, error) {
		if n < 0 {
			return 0, fmt.Errorf("%s: n=%d: %w", methodCrossLinks, n, ErrInvalidCount)
		}
		if n == 0 {
			return 0, nil
		}
		if cfg.rng == nil {
			return 0, fmt.Errorf("%s: %w", methodCrossLinks, ErrNeedRandSource)
		}

		k := cfg.size()
		outside := cfg.layout.Total() - k
		if k == 0 || outside == 0 {
			return 0, nil
		}

		for i := 0; i < n; i++ {
			u := cfg.lo + core.VertexID(cfg.rng.Int63n(k))
			// pick among the ids outside [lo, hi) without rejection
			v := core.VertexID(cfg.rng.Int63n(outside))
			if v >= cfg.lo {
				v += core.VertexID(k)
			}
			if err := emit(ctx, sink, methodCrossLinks, u, v, cfg.weight()); err != nil {
				return i, err
			}
		}

		return n, nil
	}
}

// Bridge returns a Constructor that links this span to the next non-empty
// rank.
func Bridge() Constructor {
	return func(ctx context.Context, sink EdgeSink, cfg builderConfig) (int, error) {
		if cfg.size() == 0 {
			return 0, nil
		}
		for r := cfg.rank + 1; int(r) < cfg.layout.Ranks(); r++ {
			lo, hi := cfg.layout.Span(r)
			if hi == lo || lo < cfg.hi {
				continue
			}
			if err := emit(ctx, sink, methodBridge, cfg.lo, lo, cfg.weight()); err != nil {
				return 0, err
			}

			return 1, nil
		}

		return 0, nil
	}
}
