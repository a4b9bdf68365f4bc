// SPDX-License-Identifier: MIT
// Package: pgasgraph/builder
//
// impl_random_connected.go - RandomConnected(pct) constructor.
//
// Contract:
//   - 0 ≤ pct ≤ 100 (else ErrInvalidPercentage); rng required.
//   - Phase 1 grows a random spanning tree: each step joins a random
//     not-yet-connected vertex to a random connected one.
//   - Phase 2 adds floor((k*k/2) * pct/100) extra edges between random
//     distinct vertices of the span (k = span size). Parallel edges are
//     possible.
//   - Never emits self-loops.
//
// Complexity: O(k + extra) edges, O(k) extra space.

package builder

import (
	"context"
	"fmt"

	"github.com/katalvlaran/pgasgraph/core"
)

const methodRandomConnected = "RandomConnected"

// RandomConnected returns a Constructor that builds a connected random graph
// over the span.
func RandomConnected(pct float64) Constructor {
	return func(ctx context.Context, sink EdgeSink, cfg builderConfig) (int, error) {
		if pct < 0 || pct > 100 {
			return 0, fmt.Errorf("%s: pct=%g: %w", methodRandomConnected, pct, ErrInvalidPercentage)
		}
		if cfg.rng == nil {
			return 0, fmt.Errorf("%s: %w", methodRandomConnected, ErrNeedRandSource)
		}

		k := cfg.size()
		if k == 0 {
			return 0, nil
		}

		// Phase 1: spanning tree.
		connected := make([]core.VertexID, 0, k)
		connected = append(connected, cfg.lo)
		unconnected := make([]core.VertexID, 0, k-1)
		for id := cfg.lo + 1; id < cfg.hi; id++ {
			unconnected = append(unconnected, id)
		}

		edges := 0
		for len(unconnected) > 0 {
			u := connected[cfg.rng.Intn(len(connected))]
			i := cfg.rng.Intn(len(unconnected))
			v := unconnected[i]
			unconnected[i] = unconnected[len(unconnected)-1]
			unconnected = unconnected[:len(unconnected)-1]

			if err := emit(ctx, sink, methodRandomConnected, u, v, cfg.weight()); err != nil {
				return edges, err
			}
			edges++
			connected = append(connected, v)
		}

		// Phase 2: extra edges.
		if k < 2 {
			return edges, nil
		}
		extra := int64(float64(k*k/2) * (pct / 100.0))
		for extra > 0 {
			u := cfg.lo + core.VertexID(cfg.rng.Int63n(k))
			v := cfg.lo + core.VertexID(cfg.rng.Int63n(k))
			if u == v {
				continue
			}
			if err := emit(ctx, sink, methodRandomConnected, u, v, cfg.weight()); err != nil {
				return edges, err
			}
			edges++
			extra--
		}

		return edges, nil
	}
}
