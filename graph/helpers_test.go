// SPDX-License-Identifier: MIT

package graph_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pgasgraph/core"
	"github.com/katalvlaran/pgasgraph/fabric"
	"github.com/katalvlaran/pgasgraph/graph"
)

// cluster describes one test run.
type cluster struct {
	ranks int
	total int64
	fopts []fabric.Option
	gopts []graph.Option
}

// run builds a graph on every rank and calls fn with it.
func (c cluster) run(t *testing.T, fn func(ctx context.Context, g *graph.Graph) error) error {
	t.Helper()
	f, err := fabric.New(c.ranks, c.fopts...)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	return f.Run(ctx, func(ctx context.Context, ep *fabric.Endpoint) error {
		g, err := graph.New(ctx, ep, c.total, 0, c.gopts...)
		if err != nil {
			return err
		}

		return fn(ctx, g)
	})
}

// sixCycle is the 0-1-2-3-4-5-0 ring used across the tests.
var sixCycle = []core.Edge{
	{U: 0, V: 1, Weight: 1},
	{U: 1, V: 2, Weight: 5},
	{U: 2, V: 3, Weight: 2},
	{U: 3, V: 4, Weight: 7},
	{U: 4, V: 5, Weight: 4},
	{U: 5, V: 0, Weight: 9},
}

// addShare adds the edges whose index maps to this rank, so every rank
// inserts concurrently.
func addShare(ctx context.Context, g *graph.Graph, edges []core.Edge) error {
	for i, e := range edges {
		if i%g.Endpoint().Size() != int(g.Rank()) {
			continue
		}
		if err := g.AddEdge(ctx, e.U, e.V, e.Weight); err != nil {
			return err
		}
	}

	return g.Endpoint().Barrier(ctx)
}

// peers strips an adjacency list down to its (peer, weight) pairs.
func peers(adj []core.Neighbor) []core.Neighbor {
	out := make([]core.Neighbor, len(adj))
	for i, nb := range adj {
		out[i] = core.Neighbor{Peer: nb.Peer, Weight: nb.Weight}
	}

	return out
}
