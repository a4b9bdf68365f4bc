package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostname(t *testing.T) {
	name, err := Hostname()
	require.NoError(t, err)
	assert.NotEmpty(t, name)
}

func TestSampler_Peak(t *testing.T) {
	s, err := NewSampler(time.Millisecond)
	require.NoError(t, err)

	s.Start(context.Background())
	buf := make([]byte, 8<<20)
	for i := range buf {
		buf[i] = byte(i)
	}
	time.Sleep(5 * time.Millisecond)
	peak := s.Stop()

	assert.Positive(t, peak)
	assert.Equal(t, peak, s.Peak())
}

func TestStopwatch(t *testing.T) {
	base := time.Unix(0, 0)
	ticks := []time.Duration{0, 2 * time.Second, 5 * time.Second, 6 * time.Second}
	i := 0
	sw := newStopwatch(func() time.Time {
		d := ticks[i]
		i++

		return base.Add(d)
	})

	assert.Equal(t, 2*time.Second, sw.Lap("generate"))
	assert.Equal(t, 3*time.Second, sw.Lap("mst"))
	sw.Reset()
	assert.Equal(t, []Lap{{"generate", 2 * time.Second}, {"mst", 3 * time.Second}}, sw.Laps())
}

func TestMiB(t *testing.T) {
	assert.InDelta(t, 1.5, MiB(3<<19), 1e-9)
}
