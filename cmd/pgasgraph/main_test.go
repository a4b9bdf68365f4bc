// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pgasgraph/config"
	"github.com/katalvlaran/pgasgraph/serialize"
)

func TestParseFlags_Defaults(t *testing.T) {
	cfg, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestParseFlags_FileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vertexCount: 64\nranks: 2\nseed: 9\n"), 0o644))

	cfg, err := parseFlags([]string{"--config", path, "--ranks", "3", "--verify", "--call-timeout", "2s"})
	require.NoError(t, err)
	assert.Equal(t, int64(64), cfg.VertexCount) // from the file
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, 3, cfg.Ranks) // flag wins
	assert.True(t, cfg.Verify)
	assert.Equal(t, 2*time.Second, cfg.CallTimeout)
	assert.Equal(t, config.Default().Percentage, cfg.Percentage)
}

func TestParseFlags_Invalid(t *testing.T) {
	_, err := parseFlags([]string{"--ranks", "0"})
	assert.ErrorIs(t, err, config.ErrInvalid)

	_, err = parseFlags([]string{"--no-such-flag"})
	assert.Error(t, err)
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.VertexCount = 48
	cfg.Ranks = 3
	cfg.Percentage = 10
	cfg.Verify = true
	cfg.Export = filepath.Join(t.TempDir(), "graph.txt"+serialize.CompressedSuffix)

	return cfg
}

func TestRun_GlobalGenerator(t *testing.T) {
	cfg := testConfig(t)
	log, hook := test.NewNullLogger()

	require.NoError(t, run(context.Background(), cfg, uuid.New(), log))

	adjs, err := serialize.ReadFile(cfg.Export)
	require.NoError(t, err)
	assert.Len(t, adjs, int(cfg.VertexCount))

	var cost, verified bool
	for _, e := range hook.AllEntries() {
		switch {
		case e.Level == logrus.InfoLevel && len(e.Message) > 9 && e.Message[:9] == "MST cost:":
			cost = true
		case e.Message == "MST verified against Kruskal":
			verified = true
		}
	}
	assert.True(t, cost)
	assert.True(t, verified)
}

func TestRun_PartitionedWithFaults(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generator = config.GeneratorPartitioned
	cfg.FaultRate = 0.1
	cfg.MaxRetries = 64
	log, _ := test.NewNullLogger()

	require.NoError(t, run(context.Background(), cfg, uuid.New(), log))
}

func TestRun_SnapshotRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	cfg.SnapshotDir = t.TempDir()
	log, _ := test.NewNullLogger()

	require.NoError(t, run(context.Background(), cfg, uuid.New(), log))
	first, err := serialize.ReadFile(cfg.Export)
	require.NoError(t, err)

	cfg.LoadSnapshot = true
	cfg.Seed = 12345 // ignored: the graph comes from the snapshot
	require.NoError(t, run(context.Background(), cfg, uuid.New(), log))
	second, err := serialize.ReadFile(cfg.Export)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
