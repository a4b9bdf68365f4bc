// SPDX-License-Identifier: MIT
// Package: pgasgraph/builder
//
// options.go: functional options for the builder package.
//
// Contract:
//   • Option constructors validate and panic on meaningless inputs.
//   • Determinism is explicit: seeding is done via WithSeed or WithRand.

package builder

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// BuilderOption customizes generation by mutating the builderConfig before
// any constructor runs.
type BuilderOption func(*builderConfig)

// WithRand provides an explicit RNG. Panics on nil.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}

	return func(c *builderConfig) { c.rng = r }
}

// WithSeed creates a new *rand.Rand with the given seed.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithWeightFn overrides the per-edge weight generator. Panics on nil.
func WithWeightFn(fn WeightFn) BuilderOption {
	if fn == nil {
		panic("builder: WithWeightFn(nil)")
	}

	return func(c *builderConfig) { c.weightFn = fn }
}

// WithWholeGraph makes constructors span every vertex instead of the rank's
// own range. Use it when a single rank generates the whole graph.
func WithWholeGraph() BuilderOption {
	return func(c *builderConfig) { c.whole = true }
}

// WithLogger sets the logger. Panics on nil.
func WithLogger(l logrus.FieldLogger) BuilderOption {
	if l == nil {
		panic("builder: WithLogger(nil)")
	}

	return func(c *builderConfig) { c.log = l }
}
