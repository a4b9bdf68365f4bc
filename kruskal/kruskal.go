// SPDX-License-Identifier: MIT

package kruskal

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/pgasgraph/core"
)

// ErrDisconnected indicates that no spanning tree covers every vertex.
var ErrDisconnected = errors.New("kruskal: graph is disconnected")

// ErrInvalidGraph indicates a negative vertex count or an edge naming a
// vertex outside [0, n).
var ErrInvalidGraph = errors.New("kruskal: invalid graph")

// Kruskal returns the minimum spanning tree of the graph with vertices
// 0..n-1 and the given edges, together with its total weight. Self-loops are
// skipped. Edges come back canonical (U < V) in acceptance order.
//
// Errors:
//   - ErrInvalidGraph  : n < 0 or an endpoint outside [0, n).
//   - ErrDisconnected  : n == 0, or more than one component.
func Kruskal(n int64, edges []core.Edge) ([]core.Edge, int64, error) {
	if n == 0 {
		return nil, 0, ErrDisconnected
	}

	mst, total, components, err := Forest(n, edges)
	if err != nil {
		return nil, 0, err
	}
	if components > 1 {
		return nil, 0, fmt.Errorf("%d components: %w", components, ErrDisconnected)
	}

	return mst, total, nil
}

// Forest returns a minimum spanning forest, its total weight and the number
// of connected components.
//
// Steps:
//  1. Canonicalise and sort the edges by core.Less.
//  2. Start with every vertex as its own set.
//  3. Take edges in order; keep an edge when its endpoints are in different
//     sets and merge the sets.
//  4. Stop early once a single set remains.
func Forest(n int64, edges []core.Edge) ([]core.Edge, int64, int64, error) {
	if n < 0 {
		return nil, 0, 0, fmt.Errorf("n=%d: %w", n, ErrInvalidGraph)
	}

	// 1. Canonical copy, self-loops dropped.
	sorted := make([]core.Edge, 0, len(edges))
	for _, e := range edges {
		if e.U < 0 || e.U >= core.VertexID(n) || e.V < 0 || e.V >= core.VertexID(n) {
			return nil, 0, 0, fmt.Errorf("edge %s with n=%d: %w", e, n, ErrInvalidGraph)
		}
		if e.U == e.V {
			continue
		}
		sorted = append(sorted, core.NewEdge(e.U, e.V, e.Weight))
	}
	core.SortEdges(sorted)

	// 2. Disjoint sets with union by rank.
	d := newDSU(n)

	// 3. Greedy scan.
	var (
		forest []core.Edge
		total  int64
	)
	components := n
	for _, e := range sorted {
		if !d.union(int64(e.U), int64(e.V)) {
			continue
		}
		forest = append(forest, e)
		total += e.Weight
		components--

		// 4. Spanning tree complete.
		if components == 1 {
			break
		}
	}

	return forest, total, components, nil
}

type dsu struct {
	parent []int64
	rank   []uint8
}

func newDSU(n int64) *dsu {
	d := &dsu{parent: make([]int64, n), rank: make([]uint8, n)}
	for i := range d.parent {
		d.parent[i] = int64(i)
	}

	return d
}

// find walks to the root, halving the path on the way.
func (d *dsu) find(u int64) int64 {
	for d.parent[u] != u {
		d.parent[u] = d.parent[d.parent[u]]
		u = d.parent[u]
	}

	return u
}

// union merges the sets of u and v and reports whether they were distinct.
func (d *dsu) union(u, v int64) bool {
	ru, rv := d.find(u), d.find(v)
	if ru == rv {
		return false
	}
	if d.rank[ru] < d.rank[rv] {
		ru, rv = rv, ru
	}
	d.parent[rv] = ru
	if d.rank[ru] == d.rank[rv] {
		d.rank[ru]++
	}

	return true
}
