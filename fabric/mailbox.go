// SPDX-License-Identifier: MIT

package fabric

import "sync"

// mailbox is an unbounded FIFO. put never blocks, so an executor forwarding
// a request to another rank can never deadlock against that rank.
type mailbox struct {
	mu     sync.Mutex
	queue  []envelope
	notify chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{notify: make(chan struct{}, 1)}
}

func (m *mailbox) put(env envelope) {
	m.mu.Lock()
	m.queue = append(m.queue, env)
	m.mu.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// take blocks until an envelope is available or stop is closed.
func (m *mailbox) take(stop <-chan struct{}) (envelope, bool) {
	for {
		m.mu.Lock()
		if len(m.queue) > 0 {
			env := m.queue[0]
			m.queue[0] = envelope{}
			m.queue = m.queue[1:]
			m.mu.Unlock()

			return env, true
		}
		m.mu.Unlock()

		select {
		case <-m.notify:
		case <-stop:
			return envelope{}, false
		}
	}
}
