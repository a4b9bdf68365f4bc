// SPDX-License-Identifier: MIT
//
// File: store.go
// Role: Badger-backed store for per-rank partition snapshots.
// Policy:
//   - One Store per process, shared by every rank; badger serialises access.
//   - Save and Load are collective over the graph's ranks.

package snapshot

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/katalvlaran/pgasgraph/core"
	"github.com/katalvlaran/pgasgraph/graph"
	"github.com/katalvlaran/pgasgraph/logging"
	"github.com/katalvlaran/pgasgraph/serialize"
)

var (
	// ErrLayoutMismatch indicates a snapshot taken with other dimensions than
	// the graph it is loaded into.
	ErrLayoutMismatch = errors.New("snapshot: layout mismatch")

	// ErrNoSnapshot indicates a store without a saved snapshot.
	ErrNoSnapshot = errors.New("snapshot: no snapshot in store")

	// ErrNoPath indicates a Config without a path for an on-disk store.
	ErrNoPath = errors.New("snapshot: no path provided")
)

var metaKey = []byte("meta")

// Meta describes a saved snapshot.
type Meta struct {
	RunID   string `yaml:"run_id"`
	Total   int64  `yaml:"total"`
	PerRank int64  `yaml:"per_rank"`
	Ranks   int    `yaml:"ranks"`
	SavedAt string `yaml:"saved_at"`
}

// Matches reports whether the snapshot was taken with layout's dimensions.
func (m Meta) Matches(l core.Layout) bool {
	return m.Total == l.Total() && m.PerRank == l.PerRank() && m.Ranks == l.Ranks()
}

// Config configures a Store.
type Config struct {
	// Path is the badger directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps everything in memory; useful for tests.
	InMemory bool
	// SyncWrites makes every write durable before it returns.
	SyncWrites bool
	Logger     logrus.FieldLogger
}

// Store holds graph snapshots.
type Store struct {
	db  *badger.DB
	log logrus.FieldLogger
}

// Open opens or creates the store described by cfg.
func Open(cfg Config) (*Store, error) {
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if !cfg.InMemory && cfg.Path == "" {
		return nil, ErrNoPath
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil
	opts.SyncWrites = cfg.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %q: %w", cfg.Path, err)
	}

	return &Store{db: db, log: cfg.Logger}, nil
}

// Close releases the store.
func (s *Store) Close() error { return s.db.Close() }

func rankPrefix(r core.Rank) []byte {
	return []byte("p/" + strconv.Itoa(int(r)) + "/")
}

func vertexKey(r core.Rank, id core.VertexID) []byte {
	return binary.BigEndian.AppendUint64(rankPrefix(r), uint64(id))
}

// Meta returns the metadata of the saved snapshot.
//
// Errors:
//   - ErrNoSnapshot if nothing was saved yet.
func (s *Store) Meta() (Meta, error) {
	var m Meta
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoSnapshot
		}
		if err != nil {
			return err
		}

		return item.Value(func(v []byte) error { return yaml.Unmarshal(v, &m) })
	})
	if err != nil {
		return Meta{}, fmt.Errorf("snapshot: meta: %w", err)
	}
	if _, err := uuid.Parse(m.RunID); err != nil {
		return Meta{}, fmt.Errorf("snapshot: meta run id %q: %w", m.RunID, err)
	}

	return m, nil
}

// Save writes every rank's partition of g under runID. It is collective:
// rank 0 clears the previous snapshot and writes the metadata, then every
// rank writes its own vertices.
func (s *Store) Save(ctx context.Context, g *graph.Graph, runID uuid.UUID) error {
	ep := g.Endpoint()
	if ep.Rank() == 0 {
		if err := s.reset(g.Layout(), runID); err != nil {
			return err
		}
	}
	if err := ep.Barrier(ctx); err != nil {
		return fmt.Errorf("snapshot: save: %w", err)
	}

	adjs, err := g.LocalEdges(ctx)
	if err != nil {
		return fmt.Errorf("snapshot: save: %w", err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, adj := range adjs {
		if err := wb.Set(vertexKey(ep.Rank(), adj.ID), serialize.EncodeAdjacency(adj)); err != nil {
			return fmt.Errorf("snapshot: save vertex %d: %w", adj.ID, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("snapshot: save: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"rank":     int(ep.Rank()),
		"vertices": len(adjs),
	}).Debug("partition saved")

	if err := ep.Barrier(ctx); err != nil {
		return fmt.Errorf("snapshot: save: %w", err)
	}

	return nil
}

func (s *Store) reset(l core.Layout, runID uuid.UUID) error {
	if err := s.db.DropPrefix([]byte("p/")); err != nil {
		return fmt.Errorf("snapshot: clear: %w", err)
	}

	m := Meta{
		RunID:   runID.String(),
		Total:   l.Total(),
		PerRank: l.PerRank(),
		Ranks:   l.Ranks(),
		SavedAt: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("snapshot: meta: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error { return txn.Set(metaKey, b) })
}

// ReadPartition returns the stored adjacency of rank r in ascending vertex
// order.
func (s *Store) ReadPartition(r core.Rank) ([]core.Adjacency, error) {
	prefix := rankPrefix(r)
	var out []core.Adjacency
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(v []byte) error {
				adj, err := serialize.DecodeAdjacency(v)
				if err != nil {
					return err
				}
				out = append(out, adj)

				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: read rank %d: %w", r, err)
	}

	return out, nil
}

// Load restores g from the saved snapshot. g must be freshly built with the
// dimensions the snapshot was taken with. It is collective.
//
// Errors:
//   - ErrNoSnapshot if nothing was saved.
//   - ErrLayoutMismatch if the dimensions differ.
func (s *Store) Load(ctx context.Context, g *graph.Graph) (Meta, error) {
	m, err := s.Meta()
	if err != nil {
		return Meta{}, err
	}
	if !m.Matches(g.Layout()) {
		return Meta{}, fmt.Errorf("snapshot: saved %d/%d/%d, graph %d/%d/%d: %w",
			m.Total, m.PerRank, m.Ranks,
			g.Layout().Total(), g.Layout().PerRank(), g.Layout().Ranks(), ErrLayoutMismatch)
	}

	adjs, err := s.ReadPartition(g.Rank())
	if err != nil {
		return Meta{}, err
	}
	if err := g.Restore(ctx, adjs); err != nil {
		return Meta{}, fmt.Errorf("snapshot: load: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"rank":     int(g.Rank()),
		"vertices": len(adjs),
		"run_id":   m.RunID,
	}).Debug("partition loaded")

	return m, nil
}
