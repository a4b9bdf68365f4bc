// SPDX-License-Identifier: MIT

package boruvka_test

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/katalvlaran/pgasgraph/boruvka"
	"github.com/katalvlaran/pgasgraph/core"
	"github.com/katalvlaran/pgasgraph/fabric"
	"github.com/katalvlaran/pgasgraph/graph"
	"github.com/katalvlaran/pgasgraph/kruskal"
)

// sixCycle is the ring 0-1-2-3-4-5-0. Its MST drops only (0,5,9).
var sixCycle = []core.Edge{
	{U: 0, V: 1, Weight: 1},
	{U: 1, V: 2, Weight: 5},
	{U: 2, V: 3, Weight: 2},
	{U: 3, V: 4, Weight: 7},
	{U: 4, V: 5, Weight: 4},
	{U: 5, V: 0, Weight: 9},
}

// outcome is what every rank reported after MST.
type outcome struct {
	results []*boruvka.Result
	errs    []error
}

// coordinator returns the result of the rank that ran the merges.
func (o outcome) coordinator(t testing.TB) *boruvka.Result {
	t.Helper()
	for _, r := range o.results {
		if r != nil && r.Coordinator {
			return r
		}
	}
	t.Fatal("no coordinator result")

	return nil
}

// mst spreads edges over ranks (edge i is inserted by rank i % ranks), runs
// MST on every rank and collects the results.
func mst(t testing.TB, ranks int, total int64, edges []core.Edge, opts ...boruvka.Option) outcome {
	t.Helper()
	f, err := fabric.New(ranks)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	out := outcome{results: make([]*boruvka.Result, ranks), errs: make([]error, ranks)}
	var mu sync.Mutex
	err = f.Run(ctx, func(ctx context.Context, ep *fabric.Endpoint) error {
		g, err := graph.New(ctx, ep, total, 0)
		if err != nil {
			return err
		}
		for i, e := range edges {
			if i%ranks != int(ep.Rank()) {
				continue
			}
			if err := g.AddEdge(ctx, e.U, e.V, e.Weight); err != nil {
				return err
			}
		}

		res, err := boruvka.MST(ctx, g, opts...)
		mu.Lock()
		out.results[ep.Rank()], out.errs[ep.Rank()] = res, err
		mu.Unlock()

		return nil
	})
	require.NoError(t, err)

	return out
}

func TestMST_SixCycle(t *testing.T) {
	for ranks := 1; ranks <= 4; ranks++ {
		out := mst(t, ranks, 6, sixCycle)
		for r, err := range out.errs {
			require.NoError(t, err, "ranks=%d rank=%d", ranks, r)
			assert.Equal(t, int64(19), out.results[r].TotalWeight)
			assert.Equal(t, 5, out.results[r].EdgeCount)
			assert.True(t, out.results[r].Complete)
			assert.Equal(t, int64(1), out.results[r].Components)
		}

		res := out.coordinator(t)
		assert.Len(t, res.Edges, 5)
		assert.NotContains(t, res.Edges, core.Edge{U: 0, V: 5, Weight: 9})
		for r, other := range out.results {
			if !other.Coordinator {
				assert.Nil(t, other.Edges, "rank %d", r)
			}
		}
	}
}

// TestMST_RingOverTwoRanks inserts a weighted ring in listed order from the
// rank owning vertices 0-2; vertices 3-5 live on the other rank.
func TestMST_RingOverTwoRanks(t *testing.T) {
	ring := []core.Edge{
		{U: 0, V: 1, Weight: 5},
		{U: 1, V: 2, Weight: 3},
		{U: 2, V: 3, Weight: 8},
		{U: 3, V: 4, Weight: 1},
		{U: 4, V: 5, Weight: 2},
		{U: 0, V: 5, Weight: 9},
	}
	f, err := fabric.New(2)
	require.NoError(t, err)

	results := make([]*boruvka.Result, 2)
	err = f.Run(context.Background(), func(ctx context.Context, ep *fabric.Endpoint) error {
		g, err := graph.New(ctx, ep, 6, 3)
		if err != nil {
			return err
		}
		if ep.Rank() == 0 {
			for _, e := range ring {
				if err := g.AddEdge(ctx, e.U, e.V, e.Weight); err != nil {
					return err
				}
			}
		}
		res, err := boruvka.MST(ctx, g)
		if err != nil {
			return err
		}
		results[ep.Rank()] = res

		return nil
	})
	require.NoError(t, err)

	for _, res := range results {
		assert.Equal(t, int64(19), res.TotalWeight)
		assert.Equal(t, 5, res.EdgeCount)
		assert.True(t, res.Complete)
	}
	assert.ElementsMatch(t, []core.Edge{
		{U: 3, V: 4, Weight: 1},
		{U: 4, V: 5, Weight: 2},
		{U: 1, V: 2, Weight: 3},
		{U: 0, V: 1, Weight: 5},
		{U: 2, V: 3, Weight: 8},
	}, results[0].Edges)
	assert.Nil(t, results[1].Edges)

	want, cost, err := kruskal.Kruskal(6, ring)
	require.NoError(t, err)
	assert.Equal(t, int64(19), cost)
	assert.Equal(t, sortedSet(want), sortedSet(results[0].Edges))
}

func TestMST_InsertionOrderDoesNotMatter(t *testing.T) {
	// many equal weights so the tie-break decides
	r := rand.New(rand.NewSource(9))
	edges := randomConnected(r, 30, 60, 3)
	want := sortedSet(mst(t, 3, 30, edges).coordinator(t).Edges)

	for i := 0; i < 3; i++ {
		r.Shuffle(len(edges), func(i, j int) { edges[i], edges[j] = edges[j], edges[i] })
		for j := range edges {
			if r.Intn(2) == 0 {
				edges[j].U, edges[j].V = edges[j].V, edges[j].U
			}
		}
		got := sortedSet(mst(t, 1+i, 30, edges).coordinator(t).Edges)
		assert.Equal(t, want, got)
	}
}

func TestMST_MatchesKruskal(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 24).Draw(rt, "n")
		ranks := rapid.IntRange(1, 5).Draw(rt, "ranks")
		extra := rapid.IntRange(0, 40).Draw(rt, "extra")
		maxW := rapid.Int64Range(1, 10).Draw(rt, "maxW")
		r := rand.New(rand.NewSource(rapid.Int64().Draw(rt, "seed")))
		edges := randomConnected(r, n, extra, maxW)

		want, total, err := kruskal.Kruskal(int64(n), edges)
		if err != nil {
			rt.Fatalf("Kruskal: %v", err)
		}

		out := mst(t, ranks, int64(n), edges)
		for i, err := range out.errs {
			if err != nil {
				rt.Fatalf("rank %d: %v", i, err)
			}
		}
		res := out.coordinator(t)
		if res.TotalWeight != total {
			rt.Fatalf("weight %d, Kruskal %d", res.TotalWeight, total)
		}
		got, exp := sortedSet(res.Edges), sortedSet(want)
		if len(got) != len(exp) {
			rt.Fatalf("%d edges, Kruskal %d", len(got), len(exp))
		}
		for i := range got {
			if got[i] != exp[i] {
				rt.Fatalf("edge %d: %s, Kruskal %s", i, got[i], exp[i])
			}
		}
	})
}

func TestMST_Disconnected(t *testing.T) {
	edges := []core.Edge{
		{U: 0, V: 1, Weight: 3},
		{U: 1, V: 2, Weight: 1},
		{U: 0, V: 2, Weight: 2},
		{U: 3, V: 4, Weight: 8},
	}
	forest, weight, comps, err := kruskal.Forest(6, edges)
	require.NoError(t, err)

	out := mst(t, 2, 6, edges)
	for _, err := range out.errs {
		assert.ErrorIs(t, err, boruvka.ErrNotConnected)
	}
	res := out.coordinator(t)
	assert.False(t, res.Complete)
	assert.Equal(t, weight, res.TotalWeight)
	assert.Equal(t, comps, res.Components)
	assert.Equal(t, sortedSet(forest), sortedSet(res.Edges))
}

func TestMST_SingleVertex(t *testing.T) {
	out := mst(t, 2, 1, nil)
	for _, err := range out.errs {
		require.NoError(t, err)
	}
	res := out.coordinator(t)
	assert.True(t, res.Complete)
	assert.Empty(t, res.Edges)
	assert.Zero(t, res.Rounds)
}

// 7 vertices on 3 ranks leaves the last rank short.
func TestMST_UnevenPartition(t *testing.T) {
	edges := []core.Edge{
		{U: 0, V: 6, Weight: 4},
		{U: 1, V: 5, Weight: 4},
		{U: 2, V: 3, Weight: 1},
		{U: 3, V: 6, Weight: 2},
		{U: 4, V: 5, Weight: 2},
		{U: 5, V: 6, Weight: 3},
		{U: 0, V: 1, Weight: 9},
	}
	_, total, err := kruskal.Kruskal(7, edges)
	require.NoError(t, err)

	out := mst(t, 3, 7, edges)
	for _, err := range out.errs {
		require.NoError(t, err)
	}
	assert.Equal(t, total, out.coordinator(t).TotalWeight)
	assert.Equal(t, 6, out.coordinator(t).EdgeCount)
}

func TestMST_CoordinatorAndHook(t *testing.T) {
	var (
		mu     sync.Mutex
		rounds []boruvka.RoundStats
	)
	hook := func(rs boruvka.RoundStats) {
		mu.Lock()
		rounds = append(rounds, rs)
		mu.Unlock()
	}

	out := mst(t, 3, 6, sixCycle, boruvka.WithCoordinator(2), boruvka.WithRoundHook(hook))
	for _, err := range out.errs {
		require.NoError(t, err)
	}
	assert.True(t, out.results[2].Coordinator)
	assert.Len(t, out.results[2].Edges, 5)
	assert.False(t, out.results[0].Coordinator)

	// every rank saw every round
	require.Len(t, rounds, 3*out.results[0].Rounds)
	last := rounds[len(rounds)-1]
	assert.Equal(t, boruvka.StateConnected, last.State)
	assert.Equal(t, int64(1), last.Components)
	var merged int
	for _, rs := range rounds {
		merged += rs.Merged
	}
	assert.Equal(t, 3*5, merged)
}

func TestMST_BadCoordinator(t *testing.T) {
	out := mst(t, 2, 4, nil, boruvka.WithCoordinator(5))
	for _, err := range out.errs {
		assert.ErrorIs(t, err, fabric.ErrRankOutOfRange)
	}
}

func TestMST_FreezesGraph(t *testing.T) {
	f, err := fabric.New(2)
	require.NoError(t, err)

	err = f.Run(context.Background(), func(ctx context.Context, ep *fabric.Endpoint) error {
		g, err := graph.New(ctx, ep, 4, 0)
		if err != nil {
			return err
		}
		if ep.Rank() == 0 {
			for _, e := range []core.Edge{{U: 0, V: 1, Weight: 1}, {U: 1, V: 2, Weight: 1}, {U: 2, V: 3, Weight: 1}} {
				if err := g.AddEdge(ctx, e.U, e.V, e.Weight); err != nil {
					return err
				}
			}
		}
		if _, err := boruvka.MST(ctx, g); err != nil {
			return err
		}
		assert.Equal(t, graph.PhaseSpanning, g.Phase())
		assert.ErrorIs(t, g.AddEdge(ctx, 0, 3, 1), graph.ErrFrozen)

		// the forest is already merged; a rerun is refused on every rank
		res, err := boruvka.MST(ctx, g)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, boruvka.ErrAlreadySpanned)

		return nil
	})
	require.NoError(t, err)
}

func TestMST_CountsEarlierUnions(t *testing.T) {
	f, err := fabric.New(2)
	require.NoError(t, err)

	results := make([]*boruvka.Result, 2)
	err = f.Run(context.Background(), func(ctx context.Context, ep *fabric.Endpoint) error {
		g, err := graph.New(ctx, ep, 4, 0)
		if err != nil {
			return err
		}
		if ep.Rank() == 0 {
			for _, e := range []core.Edge{{U: 0, V: 1, Weight: 1}, {U: 1, V: 2, Weight: 2}, {U: 2, V: 3, Weight: 3}} {
				if err := g.AddEdge(ctx, e.U, e.V, e.Weight); err != nil {
					return err
				}
			}
			if _, err := g.Union(ctx, 1, 2); err != nil {
				return err
			}
		}
		if err := ep.Barrier(ctx); err != nil {
			return err
		}
		comps, err := g.Components(ctx)
		if err != nil {
			return err
		}
		if comps != 3 {
			return fmt.Errorf("rank %d: %d components before MST, want 3", ep.Rank(), comps)
		}

		res, err := boruvka.MST(ctx, g)
		if err != nil {
			return err
		}
		results[ep.Rank()] = res

		return nil
	})
	require.NoError(t, err)

	for _, res := range results {
		assert.True(t, res.Complete)
		assert.Equal(t, int64(1), res.Components)
		// (1,2) was merged by hand and is not part of the result
		assert.Equal(t, 2, res.EdgeCount)
		assert.Equal(t, int64(4), res.TotalWeight)
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unconnected", boruvka.StateUnconnected.String())
	assert.Equal(t, "connected", boruvka.StateConnected.String())
	assert.Equal(t, "disconnected", boruvka.StateDisconnected.String())
	assert.Equal(t, "State(9)", boruvka.State(9).String())
}

func BenchmarkMST(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	edges := randomConnected(r, 512, 2048, 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mst(b, 4, 512, edges)
	}
}
