// SPDX-License-Identifier: MIT

package telemetry

import (
	"sync"
	"time"
)

// Lap is one named interval.
type Lap struct {
	Name    string
	Elapsed time.Duration
}

// Stopwatch records named, consecutive laps. It is safe for concurrent use.
type Stopwatch struct {
	now func() time.Time

	mu    sync.Mutex
	start time.Time
	laps  []Lap
}

// NewStopwatch starts a stopwatch.
func NewStopwatch() *Stopwatch {
	return newStopwatch(time.Now)
}

func newStopwatch(now func() time.Time) *Stopwatch {
	return &Stopwatch{now: now, start: now()}
}

// Lap closes the current interval under name, starts the next one and
// returns the closed interval's length.
func (s *Stopwatch) Lap(name string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.now()
	d := t.Sub(s.start)
	s.start = t
	s.laps = append(s.laps, Lap{Name: name, Elapsed: d})

	return d
}

// Reset restarts the current interval without recording it.
func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.start = s.now()
}

// Laps returns a copy of the recorded laps in order.
func (s *Stopwatch) Laps() []Lap {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Lap(nil), s.laps...)
}
