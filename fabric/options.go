// SPDX-License-Identifier: MIT

package fabric

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/pgasgraph/logging"
)

// Option configures a Fabric before it starts.
type Option func(*config)

type config struct {
	log         logrus.FieldLogger
	callTimeout time.Duration
	faults      *faultInjector
}

func newConfig(opts ...Option) config {
	cfg := config{log: logging.Discard()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithLogger sets the logger every endpoint derives its "rank" logger from.
// Panics on nil.
func WithLogger(l logrus.FieldLogger) Option {
	if l == nil {
		panic("fabric: WithLogger(nil)")
	}

	return func(c *config) { c.log = l }
}

// WithCallTimeout bounds every Call. Zero disables the bound.
func WithCallTimeout(d time.Duration) Option {
	if d < 0 {
		panic(fmt.Sprintf("fabric: WithCallTimeout(%s) must not be negative", d))
	}

	return func(c *config) { c.callTimeout = d }
}

// WithTransientFaults makes calls of the listed kinds fail with ErrTransient
// at the given rate. Half of the injected faults drop the request before
// delivery, the other half deliver it and lose the acknowledgment. With no
// kinds listed every kind is affected. The seed makes the sequence of rolls
// reproducible for a fixed call order.
func WithTransientFaults(rate float64, seed int64, kinds ...Kind) Option {
	if rate < 0 || rate > 1 {
		panic(fmt.Sprintf("fabric: WithTransientFaults rate %g not in [0,1]", rate))
	}

	return func(c *config) {
		fi := &faultInjector{rate: rate, rng: rand.New(rand.NewSource(seed))}
		if len(kinds) > 0 {
			fi.kinds = make(map[Kind]struct{}, len(kinds))
			for _, k := range kinds {
				fi.kinds[k] = struct{}{}
			}
		}
		c.faults = fi
	}
}
