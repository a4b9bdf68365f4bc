// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Shared identifiers, edge/adjacency records, the Vertex record and
// sentinel errors used by every other package.
// Policy:
//   - Identifiers are plain integers; a VertexID never encodes its owner, the
//     Layout derives ownership.
//   - Contract violations (out-of-range ids) panic; runtime conditions are
//     returned as sentinel errors wrapped with %w.

package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for core operations.
var (
	// ErrInvalidLayout indicates non-positive vertex or rank counts, or a
	// stride too small to cover every vertex.
	ErrInvalidLayout = errors.New("core: invalid layout")

	// ErrNotOwned indicates a local operation on a vertex owned by another rank.
	ErrNotOwned = errors.New("core: vertex not owned by this rank")

	// ErrSelfLoop indicates an edge whose endpoints are the same vertex.
	ErrSelfLoop = errors.New("core: self-loop not allowed")

	// ErrVertexOutOfRange is the panic value for ids outside [0, total).
	ErrVertexOutOfRange = errors.New("core: vertex id out of range")

	// ErrRankOutOfRange is the panic value for ranks outside [0, ranks).
	ErrRankOutOfRange = errors.New("core: rank out of range")
)

// VertexID is a dense, zero-based, globally unique vertex identifier.
type VertexID int64

// Rank identifies one participant of the distributed computation.
type Rank int

// EdgeID tags one logical edge insertion. The high bits carry the rank that
// issued the insertion, the low bits a per-rank monotonically increasing
// sequence, so ids issued by different ranks never collide.
type EdgeID uint64

// edgeSeqBits is the width of the per-rank sequence inside an EdgeID.
const edgeSeqBits = 40

// MakeEdgeID packs an origin rank and a sequence number into an EdgeID.
func MakeEdgeID(origin Rank, seq uint64) EdgeID {
	return EdgeID(uint64(origin)<<edgeSeqBits | seq&(1<<edgeSeqBits-1))
}

// Origin returns the rank that issued the edge.
func (e EdgeID) Origin() Rank { return Rank(uint64(e) >> edgeSeqBits) }

// Seq returns the per-origin sequence number.
func (e EdgeID) Seq() uint64 { return uint64(e) & (1<<edgeSeqBits - 1) }

// Edge is an undirected weighted edge between two distinct vertices.
type Edge struct {
	// U and V are the endpoints. Canonical edges keep U < V.
	U, V VertexID

	// Weight is the edge cost.
	Weight int64
}

// NewEdge returns the canonical form of (u, v, w): endpoints ordered so U < V.
func NewEdge(u, v VertexID, w int64) Edge {
	if u > v {
		u, v = v, u
	}

	return Edge{U: u, V: v, Weight: w}
}

// String renders the edge as "(u,v,w)".
func (e Edge) String() string {
	return fmt.Sprintf("(%d,%d,%d)", e.U, e.V, e.Weight)
}

// Neighbor is one adjacency entry of a vertex: the peer vertex, the weight of
// the connecting edge and the tag of the insertion that produced it.
type Neighbor struct {
	Peer   VertexID
	Weight int64
	Edge   EdgeID
}

// Vertex is the local record of an owned vertex: its adjacency and its
// union-find node.
//
// Height is the union-by-rank bound on the subtree height. It is called Height
// rather than rank to keep it apart from process ranks.
type Vertex struct {
	ID        VertexID
	Adjacency []Neighbor

	Parent VertexID
	Height int
}

// IsRoot reports whether the vertex is the root of its union-find tree.
func (v *Vertex) IsRoot() bool { return v.Parent == v.ID }

// Adjacency is a detached copy of one vertex's adjacency list, as exported,
// snapshotted or shipped between ranks.
type Adjacency struct {
	ID        VertexID
	Neighbors []Neighbor
}
