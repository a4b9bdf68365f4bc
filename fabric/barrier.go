// SPDX-License-Identifier: MIT

package fabric

import (
	"context"
	"fmt"
	"sync"
)

// Barrier is a reusable counting rendezvous for a fixed number of parties.
// Every party must call Wait before any of them returns. Once broken, every
// current and future Wait returns the break cause.
type Barrier struct {
	mu      sync.Mutex
	parties int
	arrived int
	gen     uint64
	release chan struct{}
	broken  chan struct{}
	cause   error
}

// NewBarrier returns a barrier for n parties. Panics if n < 1.
func NewBarrier(n int) *Barrier {
	if n < 1 {
		panic(fmt.Sprintf("fabric: NewBarrier(%d)", n))
	}

	return &Barrier{
		parties: n,
		release: make(chan struct{}),
		broken:  make(chan struct{}),
	}
}

// Wait blocks until all parties arrived, the barrier is broken or ctx ends.
// A cancelled ctx breaks the barrier for everybody.
func (b *Barrier) Wait(ctx context.Context) error {
	b.mu.Lock()
	if b.cause != nil {
		err := b.cause
		b.mu.Unlock()

		return err
	}

	release := b.release
	b.arrived++
	if b.arrived == b.parties {
		b.arrived = 0
		b.gen++
		b.release = make(chan struct{})
		close(release)
		b.mu.Unlock()

		return nil
	}
	b.mu.Unlock()

	select {
	case <-release:
		return nil
	case <-b.broken:
		return b.Err()
	case <-ctx.Done():
		b.Break(ctx.Err())

		return b.Err()
	}
}

// Break marks the barrier broken with cause wrapped in ErrAborted and wakes
// every waiter. Only the first cause is kept.
func (b *Barrier) Break(cause error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cause != nil {
		return
	}
	b.cause = fmt.Errorf("%w: %w", ErrAborted, cause)
	close(b.broken)
}

// Err returns the break cause, or nil while the barrier is intact.
func (b *Barrier) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.cause
}

// Generation returns how many times the barrier has released.
func (b *Barrier) Generation() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.gen
}
