// Package core defines the vertex-space partitioning and the per-rank vertex
// store that the distributed graph is built on.
//
// A graph of N vertices is spread over R ranks. The Layout (partition map)
// assigns every VertexID to exactly one rank:
//
//	perRank = ceil(N / R)
//	owner   = id / perRank
//	offset  = id % perRank
//
// Each rank keeps a Partition: an ordered table of the Vertex records it owns.
// A Vertex carries its adjacency list of (peer, weight, edge id) entries and a
// union-find node (parent, height). Edges are stored on both endpoints, so any
// rank can compare the weights of every edge touching its vertices without a
// remote read.
//
// Example: 6 vertices on 2 ranks
//
//	rank 0: 0 1 2
//	rank 1: 3 4 5
//
// Edge ordering for minimum selection is fixed by Less: (weight, min, max).
//
// Errors:
//
//	ErrInvalidLayout    - non-positive sizes or a stride that cannot hold N.
//	ErrNotOwned         - local access to a vertex of another rank.
//	ErrSelfLoop         - an edge from a vertex to itself.
//	ErrVertexOutOfRange - panic value for ids outside [0, N).
//	ErrRankOutOfRange   - panic value for ranks outside [0, R).
//
// Partition is not safe for concurrent use. Package fabric provides the
// per-rank executor that serialises all access to it.
package core
