// SPDX-License-Identifier: MIT
//
// File: partition.go
// Role: Distributed Vertex Store. Per-rank table of owned vertices with their
// adjacency lists and union-find nodes.
// Policy:
//   - A Partition is owned by exactly one rank and is not safe for concurrent
//     use; the fabric serialises every access through the rank's executor.
//   - Allocated once at construction and never resized.

package core

import (
	"fmt"
	"iter"
)

// Partition holds the vertices owned by one rank.
type Partition struct {
	layout Layout
	rank   Rank
	lo     VertexID

	vertices []Vertex

	// applied remembers which (vertex, edge) insertions were already applied
	// so a replayed append is a no-op.
	applied map[appliedKey]struct{}
	entries int
}

type appliedKey struct {
	vertex VertexID
	edge   EdgeID
}

// NewPartition allocates the local records for every vertex owned by rank.
// Each vertex starts as its own union-find root with Height 0.
// Panics if rank is outside the layout.
//
// Complexity: O(LocalCount(rank)).
func NewPartition(layout Layout, rank Rank) *Partition {
	lo, hi := layout.Span(rank)

	p := &Partition{
		layout:   layout,
		rank:     rank,
		lo:       lo,
		vertices: make([]Vertex, int(hi-lo)),
		applied:  make(map[appliedKey]struct{}),
	}
	for i := range p.vertices {
		id := lo + VertexID(i)
		p.vertices[i] = Vertex{ID: id, Parent: id}
	}

	return p
}

// Layout returns the layout the partition was built from.
func (p *Partition) Layout() Layout { return p.layout }

// Rank returns the owning rank.
func (p *Partition) Rank() Rank { return p.rank }

// Len returns the number of locally owned vertices.
func (p *Partition) Len() int { return len(p.vertices) }

// Entries returns the number of adjacency entries stored locally.
func (p *Partition) Entries() int { return p.entries }

// Owns reports whether id is owned by this partition. Unlike Layout.Owner it
// never panics.
func (p *Partition) Owns(id VertexID) bool {
	return id >= p.lo && id < p.lo+VertexID(len(p.vertices))
}

// LocalVertex returns the record for id.
//
// Errors:
//   - ErrNotOwned if id belongs to another rank (or to no rank at all).
func (p *Partition) LocalVertex(id VertexID) (*Vertex, error) {
	if !p.Owns(id) {
		return nil, fmt.Errorf("LocalVertex(%d) on rank %d: %w", id, p.rank, ErrNotOwned)
	}

	return &p.vertices[id-p.lo], nil
}

// Vertices returns a lazy sequence over the owned vertices in ascending id
// order. The sequence is finite and may be ranged over any number of times.
func (p *Partition) Vertices() iter.Seq[*Vertex] {
	return func(yield func(*Vertex) bool) {
		for i := range p.vertices {
			if !yield(&p.vertices[i]) {
				return
			}
		}
	}
}

// ForEach calls fn for each owned vertex in ascending id order until fn
// returns false.
func (p *Partition) ForEach(fn func(*Vertex) bool) {
	for v := range p.Vertices() {
		if !fn(v) {
			return
		}
	}
}

// AppendNeighbor adds nb to the adjacency of id unless the same edge was
// already applied to id. It reports whether the entry was added.
//
// Errors:
//   - ErrNotOwned if id is not owned here.
//   - ErrSelfLoop if nb.Peer == id.
func (p *Partition) AppendNeighbor(id VertexID, nb Neighbor) (bool, error) {
	v, err := p.LocalVertex(id)
	if err != nil {
		return false, err
	}
	if nb.Peer == id {
		return false, fmt.Errorf("AppendNeighbor(%d): %w", id, ErrSelfLoop)
	}

	key := appliedKey{vertex: id, edge: nb.Edge}
	if _, seen := p.applied[key]; seen {
		return false, nil
	}
	p.applied[key] = struct{}{}
	v.Adjacency = append(v.Adjacency, nb)
	p.entries++

	return true, nil
}

// Load replaces the adjacency of id with a copy of adj, as when restoring a
// snapshot. Union-find state is reset to a singleton.
//
// Errors:
//   - ErrNotOwned if id is not owned here.
func (p *Partition) Load(id VertexID, adj []Neighbor) error {
	v, err := p.LocalVertex(id)
	if err != nil {
		return err
	}

	for _, nb := range v.Adjacency {
		delete(p.applied, appliedKey{vertex: id, edge: nb.Edge})
	}
	p.entries -= len(v.Adjacency)

	v.Adjacency = append([]Neighbor(nil), adj...)
	for _, nb := range v.Adjacency {
		p.applied[appliedKey{vertex: id, edge: nb.Edge}] = struct{}{}
	}
	p.entries += len(v.Adjacency)
	v.Parent, v.Height = id, 0

	return nil
}
