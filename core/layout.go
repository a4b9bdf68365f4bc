// SPDX-License-Identifier: MIT
//
// File: layout.go
// Role: Partition Map. Pure, stateless mapping VertexID <-> (Rank, offset).
// Policy:
//   - Layout is a value type; copies are interchangeable.
//   - Out-of-range inputs panic: they are caller bugs, not runtime conditions.

package core

import "fmt"

// Layout describes how a fixed vertex space is split across ranks.
//
// owner(id)  = id / PerRank
// offset(id) = id % PerRank
//
// PerRank is fixed for the lifetime of the graph. The trailing ranks may own
// fewer than PerRank vertices, or none at all, when Total is not evenly
// divisible.
type Layout struct {
	total   int64
	perRank int64
	ranks   int
}

// NewLayout derives PerRank as ceil(total / ranks).
//
// Errors:
//   - ErrInvalidLayout if total <= 0 or ranks <= 0.
//
// Complexity: O(1).
func NewLayout(total int64, ranks int) (Layout, error) {
	if total <= 0 || ranks <= 0 {
		return Layout{}, fmt.Errorf("NewLayout(total=%d, ranks=%d): %w", total, ranks, ErrInvalidLayout)
	}

	perRank := (total + int64(ranks) - 1) / int64(ranks)

	return Layout{total: total, perRank: perRank, ranks: ranks}, nil
}

// NewLayoutWithStride builds a Layout with an explicit vertices-per-rank value,
// as supplied by a harness that already computed it.
//
// Errors:
//   - ErrInvalidLayout if any argument is non-positive or perRank*ranks < total.
func NewLayoutWithStride(total, perRank int64, ranks int) (Layout, error) {
	if total <= 0 || perRank <= 0 || ranks <= 0 {
		return Layout{}, fmt.Errorf("NewLayoutWithStride(total=%d, perRank=%d, ranks=%d): %w",
			total, perRank, ranks, ErrInvalidLayout)
	}
	if perRank*int64(ranks) < total {
		return Layout{}, fmt.Errorf("NewLayoutWithStride: %d ranks x %d vertices cannot hold %d vertices: %w",
			ranks, perRank, total, ErrInvalidLayout)
	}

	return Layout{total: total, perRank: perRank, ranks: ranks}, nil
}

// Total returns the number of vertices in the whole graph.
func (l Layout) Total() int64 { return l.total }

// PerRank returns the fixed stride of vertices per rank.
func (l Layout) PerRank() int64 { return l.perRank }

// Ranks returns the number of ranks.
func (l Layout) Ranks() int { return l.ranks }

// Contains reports whether id lies in [0, Total).
func (l Layout) Contains(id VertexID) bool {
	return id >= 0 && int64(id) < l.total
}

// Owner returns the rank owning id. Panics if id is out of range.
func (l Layout) Owner(id VertexID) Rank {
	l.mustContain(id)

	return Rank(int64(id) / l.perRank)
}

// Offset returns the position of id inside its owner's partition.
// Panics if id is out of range.
func (l Layout) Offset(id VertexID) int64 {
	l.mustContain(id)

	return int64(id) % l.perRank
}

// Global is the inverse of (Owner, Offset). Panics if the rank is out of range
// or the offset does not name a vertex owned by that rank.
func (l Layout) Global(r Rank, offset int64) VertexID {
	l.mustRank(r)
	if offset < 0 || offset >= l.LocalCount(r) {
		panic(fmt.Errorf("Global(rank=%d, offset=%d): %w", r, offset, ErrVertexOutOfRange))
	}

	return VertexID(int64(r)*l.perRank + offset)
}

// Span returns the half-open id interval [lo, hi) owned by r. The interval is
// empty (lo == hi) for ranks past the end of the vertex space.
func (l Layout) Span(r Rank) (lo, hi VertexID) {
	l.mustRank(r)

	start := int64(r) * l.perRank
	end := start + l.perRank
	if start > l.total {
		start = l.total
	}
	if end > l.total {
		end = l.total
	}

	return VertexID(start), VertexID(end)
}

// LocalCount returns how many vertices r owns.
func (l Layout) LocalCount(r Rank) int64 {
	lo, hi := l.Span(r)

	return int64(hi - lo)
}

func (l Layout) mustContain(id VertexID) {
	if !l.Contains(id) {
		panic(fmt.Errorf("vertex %d not in [0,%d): %w", id, l.total, ErrVertexOutOfRange))
	}
}

func (l Layout) mustRank(r Rank) {
	if r < 0 || int(r) >= l.ranks {
		panic(fmt.Errorf("rank %d not in [0,%d): %w", r, l.ranks, ErrRankOutOfRange))
	}
}
