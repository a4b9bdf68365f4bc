// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Errors, options, round states and the result of the distributed MST.

package boruvka

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/pgasgraph/core"
	"github.com/katalvlaran/pgasgraph/logging"
)

// Sentinel errors for MST.
var (
	// ErrNotConnected indicates a graph with more than one component. The
	// accompanying Result holds the spanning forest found so far.
	ErrNotConnected = errors.New("boruvka: graph is not connected")

	// ErrNoProgress indicates a round that merged nothing although proposals
	// existed, or a run exceeding the round bound. Either means an
	// inconsistent tie-break and is fatal.
	ErrNoProgress = errors.New("boruvka: no progress")

	// ErrAlreadySpanned indicates MST called on a graph that a previous run
	// has already merged.
	ErrAlreadySpanned = errors.New("boruvka: graph already spanned")
)

// State is the component state of the graph between rounds.
type State uint8

const (
	// StateUnconnected means more than one component remains.
	StateUnconnected State = iota
	// StateConnected means a single component remains; the tree is complete.
	StateConnected
	// StateDisconnected means components remain but no edge joins any two.
	StateDisconnected
)

// String renders the state name.
func (s State) String() string {
	switch s {
	case StateUnconnected:
		return "unconnected"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// RoundStats describes one finished round. Every rank sees the same values.
type RoundStats struct {
	Round      int
	Proposals  int   // distinct candidate edges after per-component reduction
	Merged     int   // edges accepted this round
	Components int64 // components left after the round
	State      State
	Elapsed    time.Duration
}

// Result is the outcome of MST on one rank.
type Result struct {
	// Edges holds the accepted edges in acceptance order, canonical (U < V).
	// Only the coordinator has them; other ranks get nil.
	Edges []core.Edge

	// TotalWeight and EdgeCount are known on every rank.
	TotalWeight int64
	EdgeCount   int

	Rounds     int
	Components int64

	// Complete is true when the edges span the whole graph.
	Complete bool

	// Coordinator is true on the rank that ran the merge phase.
	Coordinator bool
}

// Option customizes MST.
type Option func(*options)

type options struct {
	coordinator core.Rank
	hook        func(RoundStats)
	log         logrus.FieldLogger
}

func newOptions(opts ...Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logging.Discard()
	}

	return o
}

// WithCoordinator selects the rank that gathers proposals and applies the
// merges. Default 0. Every rank must pass the same value.
func WithCoordinator(r core.Rank) Option {
	return func(o *options) { o.coordinator = r }
}

// WithRoundHook registers fn to be called on every rank after each round.
func WithRoundHook(fn func(RoundStats)) Option {
	return func(o *options) { o.hook = fn }
}

// WithLogger sets the logger. Panics on nil.
func WithLogger(l logrus.FieldLogger) Option {
	if l == nil {
		panic("boruvka: WithLogger(nil)")
	}

	return func(o *options) { o.log = l }
}
