// SPDX-License-Identifier: MIT
// Package: pgasgraph/builder
//
// errors.go: sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Constructors attach context with %w; they never panic at runtime.
//   • Panics are confined to option constructors (WithX...).

package builder

import "errors"

// ErrTooFewVertices indicates a span too small for the requested shape
// (e.g. Cycle on fewer than three vertices).
var ErrTooFewVertices = errors.New("builder: parameter too small")

// ErrInvalidCount indicates a negative edge count (e.g. CrossLinks(-1)).
var ErrInvalidCount = errors.New("builder: edge count out of range")

// ErrInvalidPercentage indicates an extra-edge percentage outside [0,100].
var ErrInvalidPercentage = errors.New("builder: percentage out of range")

// ErrNeedRandSource indicates a stochastic constructor without an RNG
// (WithSeed or WithRand must be set).
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrConstructFailed indicates a nil constructor or a rejected edge.
var ErrConstructFailed = errors.New("builder: construction failed")
