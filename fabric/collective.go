// SPDX-License-Identifier: MIT
//
// File: collective.go
// Role: Collective operations built on the shared barrier: plain barrier,
// all-gather exchange, gather, broadcast and integer all-reduce.
// Policy:
//   - Every rank must issue the same collectives in the same order.
//   - Payloads are copied in and out; no rank sees another rank's memory.

package fabric

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/katalvlaran/pgasgraph/core"
)

// ReduceOp folds two int64 values.
type ReduceOp func(a, b int64) int64

// Reduction operators for AllReduceInt64.
var (
	OpSum ReduceOp = func(a, b int64) int64 { return a + b }
	OpMax ReduceOp = func(a, b int64) int64 { return max(a, b) }
	OpMin ReduceOp = func(a, b int64) int64 { return min(a, b) }
)

type collective struct {
	barrier *Barrier

	mu    sync.Mutex
	slots [][]byte
}

func newCollective(b *Barrier, n int) *collective {
	return &collective{barrier: b, slots: make([][]byte, n)}
}

// exchange deposits payload in slot r, waits for everybody, copies all slots
// and waits again so no slot is overwritten before every rank has read it.
func (c *collective) exchange(ctx context.Context, r core.Rank, payload []byte) ([][]byte, error) {
	c.mu.Lock()
	c.slots[r] = clone(payload)
	c.mu.Unlock()

	if err := c.barrier.Wait(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	out := make([][]byte, len(c.slots))
	for i, s := range c.slots {
		out[i] = clone(s)
	}
	c.mu.Unlock()

	if err := c.barrier.Wait(ctx); err != nil {
		return nil, err
	}

	return out, nil
}

// Barrier blocks until every rank reached the same barrier.
func (ep *Endpoint) Barrier(ctx context.Context) error {
	return ep.fabric.barrier.Wait(ctx)
}

// Exchange is an all-gather: every rank contributes payload and receives the
// contributions of all ranks, indexed by rank.
func (ep *Endpoint) Exchange(ctx context.Context, payload []byte) ([][]byte, error) {
	return ep.fabric.coll.exchange(ctx, ep.rank, payload)
}

// Gather collects every rank's payload at root. Non-root ranks get nil.
func (ep *Endpoint) Gather(ctx context.Context, root core.Rank, payload []byte) ([][]byte, error) {
	if _, err := ep.fabric.endpoint(root); err != nil {
		return nil, err
	}

	all, err := ep.Exchange(ctx, payload)
	if err != nil || ep.rank != root {
		return nil, err
	}

	return all, nil
}

// Broadcast delivers root's payload to every rank. The payload argument of
// non-root ranks is ignored.
func (ep *Endpoint) Broadcast(ctx context.Context, root core.Rank, payload []byte) ([]byte, error) {
	if _, err := ep.fabric.endpoint(root); err != nil {
		return nil, err
	}
	if ep.rank != root {
		payload = nil
	}

	all, err := ep.Exchange(ctx, payload)
	if err != nil {
		return nil, err
	}

	return all[root], nil
}

// AllReduceInt64 folds v across all ranks with op in rank order and returns
// the result on every rank.
func (ep *Endpoint) AllReduceInt64(ctx context.Context, v int64, op ReduceOp) (int64, error) {
	buf := protowire.AppendVarint(nil, protowire.EncodeZigZag(v))

	all, err := ep.Exchange(ctx, buf)
	if err != nil {
		return 0, err
	}

	var acc int64
	for r, b := range all {
		x, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return 0, fmt.Errorf("AllReduceInt64: rank %d: %w", r, protowire.ParseError(n))
		}
		if r == 0 {
			acc = protowire.DecodeZigZag(x)

			continue
		}
		acc = op(acc, protowire.DecodeZigZag(x))
	}

	return acc, nil
}
