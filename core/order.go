// SPDX-License-Identifier: MIT

package core

import "sort"

// Less is the total order used to pick minimum edges: weight first, then the
// smaller endpoint, then the larger endpoint. Two different canonical edges
// never compare equal, so every minimum is unique and MST results are
// reproducible regardless of insertion order.
func Less(a, b Edge) bool {
	a, b = NewEdge(a.U, a.V, a.Weight), NewEdge(b.U, b.V, b.Weight)
	if a.Weight != b.Weight {
		return a.Weight < b.Weight
	}
	if a.U != b.U {
		return a.U < b.U
	}

	return a.V < b.V
}

// SortEdges sorts edges in place by Less.
func SortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool { return Less(edges[i], edges[j]) })
}

// SortNeighbors sorts an adjacency list by (peer, weight, edge id), the stable
// order used for export.
func SortNeighbors(adj []Neighbor) {
	sort.Slice(adj, func(i, j int) bool {
		if adj[i].Peer != adj[j].Peer {
			return adj[i].Peer < adj[j].Peer
		}
		if adj[i].Weight != adj[j].Weight {
			return adj[i].Weight < adj[j].Weight
		}

		return adj[i].Edge < adj[j].Edge
	})
}
