// SPDX-License-Identifier: MIT

package graph_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pgasgraph/core"
	"github.com/katalvlaran/pgasgraph/fabric"
	"github.com/katalvlaran/pgasgraph/graph"
)

func TestUnion_ChainAcrossRanks(t *testing.T) {
	const total = 8
	c := cluster{ranks: 4, total: total}

	err := c.run(t, func(ctx context.Context, g *graph.Graph) error {
		comps, err := g.Components(ctx)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(total), comps)

		// every rank joins its own pair and the pair to the next rank, all
		// at the same time
		a := core.VertexID(2 * int(g.Rank()))
		merged, err := g.Union(ctx, a, a+1)
		if err != nil {
			return err
		}
		assert.True(t, merged)
		if a+2 < total {
			if _, err := g.Union(ctx, a+1, a+2); err != nil {
				return err
			}
		}
		if err := g.Endpoint().Barrier(ctx); err != nil {
			return err
		}

		root, err := g.FindRoot(ctx, 0)
		if err != nil {
			return err
		}
		for id := core.VertexID(0); id < total; id++ {
			r, err := g.FindRoot(ctx, id)
			if err != nil {
				return err
			}
			assert.Equal(t, root, r, "vertex %d", id)

			p, err := g.VertexParent(ctx, id)
			if err != nil {
				return err
			}
			assert.Equal(t, root, p)
		}

		ok, err := g.Connected(ctx, 0, total-1)
		if err != nil {
			return err
		}
		assert.True(t, ok)

		merged, err = g.Union(ctx, 7, 0)
		if err != nil {
			return err
		}
		assert.False(t, merged, "already joined")

		// every rank agrees on the root
		all, err := g.Endpoint().AllReduceInt64(ctx, int64(root), fabric.OpMax)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(root), all)

		comps, err = g.Components(ctx)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(1), comps)

		return nil
	})
	require.NoError(t, err)
}

func TestFindRoot_Singletons(t *testing.T) {
	c := cluster{ranks: 3, total: 7}

	err := c.run(t, func(ctx context.Context, g *graph.Graph) error {
		for id := core.VertexID(0); id < 7; id++ {
			r, err := g.FindRoot(ctx, id)
			if err != nil {
				return err
			}
			assert.Equal(t, id, r)
		}
		ok, err := g.Connected(ctx, 0, 6)
		if err != nil {
			return err
		}
		assert.False(t, ok)
		assert.Panics(t, func() { _, _ = g.FindRoot(ctx, 7) })

		return nil
	})
	require.NoError(t, err)
}

// seqDSU is the sequential reference the distributed union-find is checked
// against.
type seqDSU []int

func newSeqDSU(n int) seqDSU {
	d := make(seqDSU, n)
	for i := range d {
		d[i] = i
	}

	return d
}

func (d seqDSU) find(x int) int {
	for d[x] != x {
		d[x] = d[d[x]]
		x = d[x]
	}

	return x
}

func (d seqDSU) union(a, b int) bool {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return false
	}
	d[ra] = rb

	return true
}

// Random unions issued concurrently from every rank produce the same
// partition as the sequential reference, and exactly n-components of them
// report a merge.
func TestUnion_ConcurrentMatchesSequential(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 4, 5} {
		const (
			ranks = 4
			total = 64
			pairs = 40
		)
		r := rand.New(rand.NewSource(seed))
		work := make([][][2]core.VertexID, ranks)
		ref := newSeqDSU(total)
		for i := 0; i < ranks*pairs; i++ {
			a, b := r.Intn(total), r.Intn(total)
			ref.union(a, b)
			work[i%ranks] = append(work[i%ranks], [2]core.VertexID{core.VertexID(a), core.VertexID(b)})
		}
		components := 0
		for i := 0; i < total; i++ {
			if ref.find(i) == i {
				components++
			}
		}

		c := cluster{
			ranks: ranks,
			total: total,
			fopts: []fabric.Option{fabric.WithTransientFaults(0.2, seed, graph.ReplaySafeKinds()...)},
			gopts: []graph.Option{graph.WithMaxRetries(64)},
		}
		err := c.run(t, func(ctx context.Context, g *graph.Graph) error {
			var merges int64
			for _, p := range work[g.Rank()] {
				ok, err := g.Union(ctx, p[0], p[1])
				if err != nil {
					return err
				}
				if ok {
					merges++
				}
			}
			if err := g.Endpoint().Barrier(ctx); err != nil {
				return err
			}

			sum, err := g.Endpoint().AllReduceInt64(ctx, merges, fabric.OpSum)
			if err != nil {
				return err
			}
			assert.Equal(t, int64(total-components), sum, "seed %d", seed)

			if g.Rank() != 0 {
				return nil
			}
			for a := 0; a < total; a++ {
				for _, b := range []int{(a + 1) % total, (a * 7) % total} {
					ok, err := g.Connected(ctx, core.VertexID(a), core.VertexID(b))
					if err != nil {
						return err
					}
					assert.Equal(t, ref.find(a) == ref.find(b), ok, "seed %d: %d~%d", seed, a, b)
				}
			}

			return nil
		})
		require.NoError(t, err, "seed %d", seed)
	}
}
