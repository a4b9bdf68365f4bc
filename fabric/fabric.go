// SPDX-License-Identifier: MIT
//
// File: fabric.go
// Role: Fabric construction and the Run entry point that starts one driver
// and one executor goroutine per rank.

package fabric

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/katalvlaran/pgasgraph/core"
)

// RankFunc is the per-rank program. It runs on the rank's driver goroutine
// and may block on calls and collectives.
type RankFunc func(ctx context.Context, ep *Endpoint) error

// Fabric connects a fixed number of ranks living in one process.
type Fabric struct {
	cfg       config
	endpoints []*Endpoint
	barrier   *Barrier
	coll      *collective

	mu      sync.Mutex
	started bool
	stop    chan struct{}
}

// New creates a fabric of size ranks.
//
// Errors:
//   - ErrRankOutOfRange if ranks < 1.
func New(ranks int, opts ...Option) (*Fabric, error) {
	if ranks < 1 {
		return nil, fmt.Errorf("fabric.New(%d): %w", ranks, ErrRankOutOfRange)
	}

	f := &Fabric{
		cfg:     newConfig(opts...),
		barrier: NewBarrier(ranks),
		stop:    make(chan struct{}),
	}
	f.coll = newCollective(f.barrier, ranks)
	f.endpoints = make([]*Endpoint, ranks)
	for r := range f.endpoints {
		f.endpoints[r] = newEndpoint(f, core.Rank(r))
	}

	return f, nil
}

// Size returns the number of ranks.
func (f *Fabric) Size() int { return len(f.endpoints) }

// Run executes fn once per rank, each on its own goroutine, while every rank's
// executor serves incoming calls. It returns after every fn returned.
//
// When a rank fails, the shared barrier is broken so the other ranks observe
// ErrAborted at their next collective instead of waiting forever. The result
// joins every rank's error, each prefixed with its rank.
//
// A Fabric runs once; a second Run returns ErrStopped.
func (f *Fabric) Run(ctx context.Context, fn RankFunc) error {
	f.mu.Lock()
	if f.started {
		f.mu.Unlock()

		return ErrStopped
	}
	f.started = true
	f.mu.Unlock()

	var served sync.WaitGroup
	served.Add(len(f.endpoints))
	for _, ep := range f.endpoints {
		go func(ep *Endpoint) {
			defer served.Done()
			ep.serve(f.stop)
		}(ep)
	}

	errs := make([]error, len(f.endpoints))
	var drivers sync.WaitGroup
	drivers.Add(len(f.endpoints))
	for i, ep := range f.endpoints {
		go func(i int, ep *Endpoint) {
			defer drivers.Done()
			if err := fn(ctx, ep); err != nil {
				errs[i] = fmt.Errorf("rank %d: %w", i, err)
				if !errors.Is(err, ErrAborted) {
					ep.log.WithError(err).Error("rank failed, aborting run")
				}
				f.barrier.Break(err)
			}
		}(i, ep)
	}
	drivers.Wait()

	close(f.stop)
	served.Wait()

	return errors.Join(errs...)
}

func (f *Fabric) endpoint(r core.Rank) (*Endpoint, error) {
	if r < 0 || int(r) >= len(f.endpoints) {
		return nil, fmt.Errorf("rank %d of %d: %w", r, len(f.endpoints), ErrRankOutOfRange)
	}

	return f.endpoints[r], nil
}
