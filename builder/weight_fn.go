// SPDX-License-Identifier: MIT

package builder

import (
	"fmt"
	"math"
	"math/rand"
)

// DefaultEdgeWeight is what stochastic WeightFns yield without an RNG.
const DefaultEdgeWeight int64 = 1

// WeightFn produces an edge weight given an optional *rand.Rand source.
// It must be deterministic for a given RNG seed.
type WeightFn func(rng *rand.Rand) int64

// SequentialWeightFn yields start, start+1, start+2, ... Distinct weights
// make the minimum spanning tree unique without relying on tie-breaks.
// The returned function is stateful and must not be shared between
// generators running concurrently.
func SequentialWeightFn(start int64) WeightFn {
	next := start

	return func(_ *rand.Rand) int64 {
		w := next
		next++

		return w
	}
}

// ConstantWeightFn always yields value. Panics if value < 0.
func ConstantWeightFn(value int64) WeightFn {
	if value < 0 {
		panic(fmt.Sprintf("ConstantWeightFn: value must be ≥ 0, got %d", value))
	}

	return func(_ *rand.Rand) int64 { return value }
}

// UniformWeightFn samples uniformly in [min, max] inclusive.
// Panics if min < 0 or max < min. Without an RNG it yields DefaultEdgeWeight.
func UniformWeightFn(min, max int64) WeightFn {
	if min < 0 || max < min {
		panic(fmt.Sprintf("UniformWeightFn: require 0 ≤ min ≤ max, got min=%d, max=%d", min, max))
	}

	return func(rng *rand.Rand) int64 {
		if rng == nil {
			return DefaultEdgeWeight
		}
		if max == min {
			return min
		}

		return min + rng.Int63n(max-min+1)
	}
}

// NormalWeightFn samples N(mean, stddev), rounded and clipped to
// [0, MaxInt64]. Panics if stddev < 0. Without an RNG it yields
// DefaultEdgeWeight.
func NormalWeightFn(mean, stddev float64) WeightFn {
	if stddev < 0 {
		panic(fmt.Sprintf("NormalWeightFn: stddev must be ≥ 0, got %f", stddev))
	}

	return func(rng *rand.Rand) int64 {
		if rng == nil {
			return DefaultEdgeWeight
		}
		sample := math.Round(rng.NormFloat64()*stddev + mean)
		if sample < 0 {
			return 0
		}
		if sample >= math.MaxInt64 {
			return math.MaxInt64
		}

		return int64(sample)
	}
}

// ExponentialWeightFn samples Exp(rate), rounded. Panics if rate ≤ 0.
// Without an RNG it yields DefaultEdgeWeight.
func ExponentialWeightFn(rate float64) WeightFn {
	if rate <= 0 {
		panic(fmt.Sprintf("ExponentialWeightFn: rate must be > 0, got %f", rate))
	}

	return func(rng *rand.Rand) int64 {
		if rng == nil {
			return DefaultEdgeWeight
		}

		return int64(math.Round(rng.ExpFloat64() / rate))
	}
}

// WithConstantWeight sets a fixed edge weight.
func WithConstantWeight(w int64) BuilderOption { return WithWeightFn(ConstantWeightFn(w)) }

// WithUniformWeight sets weights ∼ U[min,max].
func WithUniformWeight(min, max int64) BuilderOption { return WithWeightFn(UniformWeightFn(min, max)) }

// WithSequentialWeight sets weights start, start+1, ...
func WithSequentialWeight(start int64) BuilderOption {
	return WithWeightFn(SequentialWeightFn(start))
}
