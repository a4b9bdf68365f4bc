package builder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pgasgraph/builder"
	"github.com/katalvlaran/pgasgraph/core"
	"github.com/katalvlaran/pgasgraph/kruskal"
)

// recorder is an in-memory EdgeSink.
type recorder struct {
	edges []core.Edge
	fail  error
}

func (r *recorder) AddEdge(_ context.Context, u, v core.VertexID, w int64) error {
	if r.fail != nil {
		return r.fail
	}
	r.edges = append(r.edges, core.Edge{U: u, V: v, Weight: w})

	return nil
}

func mustLayout(t *testing.T, total int64, ranks int) core.Layout {
	t.Helper()
	l, err := core.NewLayout(total, ranks)
	require.NoError(t, err)

	return l
}

func TestRandomConnected_WholeGraph(t *testing.T) {
	l := mustLayout(t, 64, 4)
	var rec recorder

	n, err := builder.Generate(context.Background(), &rec, l, 0,
		[]builder.BuilderOption{builder.WithSeed(7), builder.WithWholeGraph()},
		builder.RandomConnected(5))
	require.NoError(t, err)

	// 63 tree edges + floor(64*64/2 * 0.05) = 102 extra
	assert.Equal(t, 63+102, n)
	assert.Len(t, rec.edges, n)

	for i, e := range rec.edges {
		assert.NotEqual(t, e.U, e.V, "self-loop at %d", i)
		assert.Equal(t, int64(i+1), e.Weight, "sequential weights")
	}

	_, _, err = kruskal.Kruskal(64, rec.edges)
	assert.NoError(t, err, "generated graph must be connected")
}

func TestRandomConnected_Deterministic(t *testing.T) {
	l := mustLayout(t, 40, 2)
	run := func() []core.Edge {
		var rec recorder
		_, err := builder.Generate(context.Background(), &rec, l, 1,
			[]builder.BuilderOption{builder.WithSeed(99)}, builder.RandomConnected(10))
		require.NoError(t, err)

		return rec.edges
	}
	assert.Equal(t, run(), run())
}

func TestRandomConnected_StaysInSpan(t *testing.T) {
	l := mustLayout(t, 30, 3)
	var rec recorder
	_, err := builder.Generate(context.Background(), &rec, l, 1,
		[]builder.BuilderOption{builder.WithSeed(1)}, builder.RandomConnected(20))
	require.NoError(t, err)

	lo, hi := l.Span(1)
	for _, e := range rec.edges {
		assert.True(t, e.U >= lo && e.U < hi && e.V >= lo && e.V < hi, "edge %s outside [%d,%d)", e, lo, hi)
	}
}

func TestRandomConnected_Errors(t *testing.T) {
	l := mustLayout(t, 10, 1)
	var rec recorder

	_, err := builder.Generate(context.Background(), &rec, l, 0, nil, builder.RandomConnected(5))
	assert.ErrorIs(t, err, builder.ErrNeedRandSource)

	_, err = builder.Generate(context.Background(), &rec, l, 0,
		[]builder.BuilderOption{builder.WithSeed(1)}, builder.RandomConnected(101))
	assert.ErrorIs(t, err, builder.ErrInvalidPercentage)

	_, err = builder.Generate(context.Background(), &rec, l, 0, nil, nil)
	assert.ErrorIs(t, err, builder.ErrConstructFailed)

	boom := errors.New("boom")
	_, err = builder.Generate(context.Background(), &recorder{fail: boom}, l, 0,
		[]builder.BuilderOption{builder.WithSeed(1)}, builder.RandomConnected(0))
	assert.ErrorIs(t, err, boom)
}

// TestPerRankWithBridge generates every rank's span separately and checks
// that Bridge joins them into one component, including with an empty
// trailing rank.
func TestPerRankWithBridge(t *testing.T) {
	l := mustLayout(t, 5, 4) // spans 2,2,1,0
	var rec recorder
	for r := 0; r < l.Ranks(); r++ {
		_, err := builder.Generate(context.Background(), &rec, l, core.Rank(r),
			[]builder.BuilderOption{builder.WithSeed(int64(r))},
			builder.RandomConnected(0), builder.Bridge())
		require.NoError(t, err)
	}

	_, _, err := kruskal.Kruskal(5, rec.edges)
	assert.NoError(t, err)
}

func TestCrossLinks(t *testing.T) {
	l := mustLayout(t, 20, 4)
	var rec recorder
	n, err := builder.Generate(context.Background(), &rec, l, 2,
		[]builder.BuilderOption{builder.WithSeed(3)}, builder.CrossLinks(50))
	require.NoError(t, err)
	assert.Equal(t, 50, n)

	lo, hi := l.Span(2)
	for _, e := range rec.edges {
		assert.True(t, e.U >= lo && e.U < hi, "source %d outside span", e.U)
		assert.True(t, e.V < lo || e.V >= hi, "target %d inside span", e.V)
		assert.True(t, l.Contains(e.V))
	}

	n, err = builder.Generate(context.Background(), &rec, l, 0,
		[]builder.BuilderOption{builder.WithWholeGraph(), builder.WithSeed(3)}, builder.CrossLinks(5))
	require.NoError(t, err)
	assert.Zero(t, n, "nothing lies outside the whole graph")

	_, err = builder.Generate(context.Background(), &rec, l, 1,
		[]builder.BuilderOption{builder.WithSeed(3)}, builder.CrossLinks(-1))
	assert.ErrorIs(t, err, builder.ErrInvalidCount)
	assert.NotErrorIs(t, err, builder.ErrTooFewVertices)
}

func TestShapes(t *testing.T) {
	l := mustLayout(t, 4, 1)

	var path recorder
	_, err := builder.Generate(context.Background(), &path, l, 0, nil, builder.Path())
	require.NoError(t, err)
	assert.Equal(t, []core.Edge{{U: 0, V: 1, Weight: 1}, {U: 1, V: 2, Weight: 2}, {U: 2, V: 3, Weight: 3}}, path.edges)

	var cyc recorder
	_, err = builder.Generate(context.Background(), &cyc, l, 0,
		[]builder.BuilderOption{builder.WithConstantWeight(7)}, builder.Cycle())
	require.NoError(t, err)
	require.Len(t, cyc.edges, 4)
	assert.Equal(t, core.Edge{U: 3, V: 0, Weight: 7}, cyc.edges[3])

	small := mustLayout(t, 2, 1)
	_, err = builder.Generate(context.Background(), &cyc, small, 0, nil, builder.Cycle())
	assert.ErrorIs(t, err, builder.ErrTooFewVertices)
}
