// SPDX-License-Identifier: MIT
// Package: pgasgraph/builder
//
// config.go: internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   • rng       = nil                  (stochastic constructors fail fast)
//   • weightFn  = Sequential from 1    (weights 1, 2, 3, ... per Generate call)
//   • span      = the rank's own range (WithWholeGraph widens it)
//   • log       = discard

package builder

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/pgasgraph/core"
	"github.com/katalvlaran/pgasgraph/logging"
)

// builderConfig aggregates every knob constructors read.
type builderConfig struct {
	rng      *rand.Rand
	weightFn WeightFn
	log      logrus.FieldLogger

	layout core.Layout
	rank   core.Rank
	whole  bool

	// lo, hi bound the span constructors work on, resolved at Generate time.
	lo, hi core.VertexID
}

// newBuilderConfig applies options in order over the defaults; later options
// override earlier ones.
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.weightFn == nil {
		cfg.weightFn = SequentialWeightFn(1)
	}
	if cfg.log == nil {
		cfg.log = logging.Discard()
	}

	return cfg
}

// size returns the number of vertices in the span.
func (c builderConfig) size() int64 { return int64(c.hi - c.lo) }

// weight draws the next edge weight.
func (c builderConfig) weight() int64 { return c.weightFn(c.rng) }
