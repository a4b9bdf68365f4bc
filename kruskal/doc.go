// Package kruskal computes minimum spanning trees of an in-memory edge list
// with Kruskal's algorithm.
//
// It is the sequential reference the distributed engine is checked against:
// the same tie-break order (core.Less) is used, so for any input both produce
// exactly the same edge set, not just the same total weight.
//
//   - Kruskal(n, edges) - spanning tree over vertices 0..n-1, or
//     ErrDisconnected.
//   - Forest(n, edges)  - minimum spanning forest of any graph, plus the
//     number of components.
//
// Complexity: O(E log E + α(V)·E). Memory: O(V + E).
package kruskal
