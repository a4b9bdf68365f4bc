// SPDX-License-Identifier: MIT

package boruvka_test

import (
	"math/rand"

	"github.com/katalvlaran/pgasgraph/core"
)

// randomConnected returns a random spanning chain over n vertices plus up to
// extra random edges, weights in [1, maxW].
func randomConnected(r *rand.Rand, n, extra int, maxW int64) []core.Edge {
	perm := r.Perm(n)
	edges := make([]core.Edge, 0, n-1+extra)
	for i := 1; i < n; i++ {
		edges = append(edges, core.Edge{
			U:      core.VertexID(perm[i-1]),
			V:      core.VertexID(perm[i]),
			Weight: 1 + r.Int63n(maxW),
		})
	}
	for i := 0; i < extra; i++ {
		u, v := r.Intn(n), r.Intn(n)
		if u == v {
			continue
		}
		edges = append(edges, core.Edge{U: core.VertexID(u), V: core.VertexID(v), Weight: 1 + r.Int63n(maxW)})
	}

	return edges
}

// sortedSet returns the canonical edges sorted by core.Less.
func sortedSet(edges []core.Edge) []core.Edge {
	out := make([]core.Edge, len(edges))
	for i, e := range edges {
		out[i] = core.NewEdge(e.U, e.V, e.Weight)
	}
	core.SortEdges(out)

	return out
}
