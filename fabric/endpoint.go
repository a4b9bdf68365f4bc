// SPDX-License-Identifier: MIT
//
// File: endpoint.go
// Role: Per-rank view of the fabric: handler registry, executor loop,
// point-to-point calls and local execution.
// Policy:
//   - Handlers and Exec closures of one rank run one at a time, to completion,
//     on that rank's executor goroutine. State touched only from there needs
//     no locks.
//   - Handlers never block on calls. A handler that needs another rank hands
//     the request over with Call.Forward.

package fabric

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/pgasgraph/core"
)

// Kind identifies a message type; each kind has one handler per rank.
type Kind uint16

// Handler processes one incoming call on the target rank's executor. It must
// finish the call exactly once with Reply, Fail or Forward.
type Handler func(c *Call)

type reply struct {
	payload []byte
	err     error
}

type envelope struct {
	kind    Kind
	from    core.Rank
	payload []byte
	exec    func()
	reply   chan reply
	loseAck bool
}

// Endpoint is one rank's attachment to the fabric.
type Endpoint struct {
	fabric *Fabric
	rank   core.Rank
	box    *mailbox
	log    logrus.FieldLogger

	mu       sync.RWMutex
	handlers map[Kind]Handler
}

func newEndpoint(f *Fabric, r core.Rank) *Endpoint {
	return &Endpoint{
		fabric:   f,
		rank:     r,
		box:      newMailbox(),
		log:      f.cfg.log.WithField("rank", int(r)),
		handlers: make(map[Kind]Handler),
	}
}

// Rank returns this endpoint's rank.
func (ep *Endpoint) Rank() core.Rank { return ep.rank }

// Size returns the number of ranks in the fabric.
func (ep *Endpoint) Size() int { return ep.fabric.Size() }

// Logger returns a logger carrying this endpoint's rank field.
func (ep *Endpoint) Logger() logrus.FieldLogger { return ep.log }

// Handle registers h for kind on this rank, replacing any previous handler.
// Register before the first collective that makes the rank reachable.
func (ep *Endpoint) Handle(kind Kind, h Handler) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.handlers[kind] = h
}

func (ep *Endpoint) handler(kind Kind) Handler {
	ep.mu.RLock()
	defer ep.mu.RUnlock()

	return ep.handlers[kind]
}

// Call sends payload to rank to and waits for the reply.
//
// Errors:
//   - ErrRankOutOfRange for a bad target.
//   - ErrTransient for an injected delivery failure.
//   - ErrNoHandler when the target has no handler for kind.
//   - ErrCallTimeout, ErrStopped or the ctx error when the wait is cut short.
//   - Any error the handler failed the call with.
func (ep *Endpoint) Call(ctx context.Context, to core.Rank, kind Kind, payload []byte) ([]byte, error) {
	target, err := ep.fabric.endpoint(to)
	if err != nil {
		return nil, err
	}

	env := envelope{
		kind:    kind,
		from:    ep.rank,
		payload: clone(payload),
		reply:   make(chan reply, 1),
	}
	switch ep.fabric.cfg.faults.roll(kind) {
	case faultDrop:
		return nil, fmt.Errorf("call kind %d to rank %d: dropped: %w", kind, to, ErrTransient)
	case faultLoseAck:
		env.loseAck = true
	}
	target.box.put(env)

	return ep.await(ctx, env.reply)
}

// Exec runs fn on this rank's executor and waits for it to finish. It is the
// only way for the driver to touch state that handlers also touch.
func (ep *Endpoint) Exec(ctx context.Context, fn func()) error {
	env := envelope{from: ep.rank, exec: fn, reply: make(chan reply, 1)}
	ep.box.put(env)

	_, err := ep.await(ctx, env.reply)

	return err
}

func (ep *Endpoint) await(ctx context.Context, ch <-chan reply) ([]byte, error) {
	var timeout <-chan time.Time
	if d := ep.fabric.cfg.callTimeout; d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case r := <-ch:
		return r.payload, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-ep.fabric.stop:
		return nil, ErrStopped
	case <-timeout:
		return nil, fmt.Errorf("after %s: %w", ep.fabric.cfg.callTimeout, ErrCallTimeout)
	}
}

// serve is the executor loop. It returns when stop is closed.
func (ep *Endpoint) serve(stop <-chan struct{}) {
	for {
		env, ok := ep.box.take(stop)
		if !ok {
			return
		}
		ep.dispatch(env)
	}
}

func (ep *Endpoint) dispatch(env envelope) {
	if env.exec != nil {
		env.exec()
		env.reply <- reply{}

		return
	}

	h := ep.handler(env.kind)
	if h == nil {
		env.reply <- reply{err: fmt.Errorf("kind %d on rank %d: %w", env.kind, ep.rank, ErrNoHandler)}

		return
	}

	c := &Call{ep: ep, env: env}
	h(c)
	if !c.done {
		c.finish(reply{err: fmt.Errorf("kind %d on rank %d: %w", env.kind, ep.rank, ErrNoReply)})
	}
}

// Call is one incoming request as seen by a handler.
type Call struct {
	ep   *Endpoint
	env  envelope
	done bool
}

// Kind returns the message kind.
func (c *Call) Kind() Kind { return c.env.kind }

// From returns the rank that originally issued the request. Forwarding keeps
// the original sender.
func (c *Call) From() core.Rank { return c.env.from }

// Payload returns the request payload.
func (c *Call) Payload() []byte { return c.env.payload }

// Reply completes the call successfully.
func (c *Call) Reply(payload []byte) { c.finish(reply{payload: clone(payload)}) }

// Fail completes the call with err.
func (c *Call) Fail(err error) { c.finish(reply{err: err}) }

// Forward hands the request, with a new payload, to rank to. The reply from
// that rank goes straight back to the original caller; the current handler
// returns immediately.
func (c *Call) Forward(to core.Rank, payload []byte) {
	if c.done {
		return
	}
	target, err := c.ep.fabric.endpoint(to)
	if err != nil {
		c.Fail(err)

		return
	}

	c.done = true
	env := c.env
	env.payload = clone(payload)
	target.box.put(env)
}

func (c *Call) finish(r reply) {
	if c.done {
		return
	}
	c.done = true
	if c.env.loseAck {
		r = reply{err: fmt.Errorf("kind %d: acknowledgment lost: %w", c.env.kind, ErrTransient)}
	}
	c.env.reply <- r
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}

	return append([]byte(nil), b...)
}
