// SPDX-License-Identifier: MIT

package fabric

import (
	"math/rand"
	"sync"
)

type faultMode uint8

const (
	faultNone faultMode = iota
	faultDrop
	faultLoseAck
)

// faultInjector decides, per call, whether a transient failure is simulated.
type faultInjector struct {
	mu    sync.Mutex
	rng   *rand.Rand
	rate  float64
	kinds map[Kind]struct{} // nil means every kind
}

func (f *faultInjector) roll(k Kind) faultMode {
	if f == nil || f.rate == 0 {
		return faultNone
	}
	if f.kinds != nil {
		if _, ok := f.kinds[k]; !ok {
			return faultNone
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.rng.Float64() >= f.rate {
		return faultNone
	}
	if f.rng.Intn(2) == 0 {
		return faultDrop
	}

	return faultLoseAck
}
