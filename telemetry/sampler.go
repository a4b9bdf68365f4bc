// SPDX-License-Identifier: MIT
//
// File: sampler.go
// Role: Background sampling of the process's resident set size.

package telemetry

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/process"
)

// DefaultInterval is the sampling period used when NewSampler gets zero.
const DefaultInterval = 50 * time.Millisecond

// Sampler polls the resident set size of the current process and keeps the
// peak. Start and Stop may each be called once.
type Sampler struct {
	proc     *process.Process
	interval time.Duration

	mu   sync.Mutex
	peak uint64
	last uint64

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSampler returns a sampler for the current process.
func NewSampler(interval time.Duration) (*Sampler, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("telemetry: process: %w", err)
	}

	return &Sampler{proc: p, interval: interval}, nil
}

// Sample reads the current RSS once and folds it into the peak.
func (s *Sampler) Sample() (uint64, error) {
	mi, err := s.proc.MemoryInfo()
	if err != nil {
		return 0, fmt.Errorf("telemetry: memory info: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = mi.RSS
	s.peak = max(s.peak, mi.RSS)

	return mi.RSS, nil
}

// Start samples in the background until Stop or ctx ends.
func (s *Sampler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		t := time.NewTicker(s.interval)
		defer t.Stop()

		_, _ = s.Sample()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				_, _ = s.Sample()
			}
		}
	}()
}

// Stop ends background sampling, takes a final sample and returns the peak.
func (s *Sampler) Stop() uint64 {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	_, _ = s.Sample()

	return s.Peak()
}

// Peak returns the highest RSS observed so far, in bytes.
func (s *Sampler) Peak() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.peak
}
