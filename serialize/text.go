// SPDX-License-Identifier: MIT
//
// File: text.go
// Role: The line-oriented text format: formatting, parsing and writing whole
// partitions to plain or zstd-compressed files.

package serialize

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/katalvlaran/pgasgraph/core"
)

// ErrMalformedLine indicates a text line that does not follow the format.
var ErrMalformedLine = errors.New("serialize: malformed line")

// CompressedSuffix marks file names written as zstd frames.
const CompressedSuffix = ".zst"

// AppendLine appends the text line of adj, newline included, to b.
func AppendLine(b []byte, adj core.Adjacency) []byte {
	b = strconv.AppendInt(b, int64(adj.ID), 10)
	for _, nb := range adj.Neighbors {
		b = append(b, ' ')
		b = strconv.AppendInt(b, int64(nb.Peer), 10)
		b = append(b, ':')
		b = strconv.AppendInt(b, nb.Weight, 10)
	}

	return append(b, '\n')
}

// FormatLine returns the text line of adj without the trailing newline.
func FormatLine(adj core.Adjacency) string {
	b := AppendLine(nil, adj)

	return string(b[:len(b)-1])
}

// ParseLine parses one text line. Edge ids are not part of the format and
// come back as zero.
func ParseLine(line string) (core.Adjacency, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return core.Adjacency{}, fmt.Errorf("empty line: %w", ErrMalformedLine)
	}

	id, err := strconv.ParseInt(tokens[0], 10, 64)
	if err != nil {
		return core.Adjacency{}, fmt.Errorf("vertex %q: %w", tokens[0], ErrMalformedLine)
	}

	adj := core.Adjacency{ID: core.VertexID(id)}
	if len(tokens) > 1 {
		adj.Neighbors = make([]core.Neighbor, 0, len(tokens)-1)
	}
	for _, tok := range tokens[1:] {
		peer, weight, ok := strings.Cut(tok, ":")
		if !ok {
			return core.Adjacency{}, fmt.Errorf("entry %q: %w", tok, ErrMalformedLine)
		}
		p, err := strconv.ParseInt(peer, 10, 64)
		if err != nil {
			return core.Adjacency{}, fmt.Errorf("peer %q: %w", peer, ErrMalformedLine)
		}
		w, err := strconv.ParseInt(weight, 10, 64)
		if err != nil {
			return core.Adjacency{}, fmt.Errorf("weight %q: %w", weight, ErrMalformedLine)
		}
		adj.Neighbors = append(adj.Neighbors, core.Neighbor{Peer: core.VertexID(p), Weight: w})
	}

	return adj, nil
}

// WriteLines writes one line per adjacency to w.
func WriteLines(w io.Writer, adjs []core.Adjacency) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for _, adj := range adjs {
		buf = AppendLine(buf[:0], adj)
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteFile writes adjs to path. With truncate the file is created or
// emptied first, otherwise the lines are appended. A path ending in
// CompressedSuffix receives one zstd frame per call.
func WriteFile(path string, truncate bool, adjs []core.Adjacency) (err error) {
	flags := os.O_WRONLY | os.O_CREATE
	if truncate {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("serialize: open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("serialize: close %s: %w", path, cerr)
		}
	}()

	if !strings.HasSuffix(path, CompressedSuffix) {
		return WriteLines(f, adjs)
	}

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("serialize: zstd %s: %w", path, err)
	}
	if err := WriteLines(enc, adjs); err != nil {
		_ = enc.Close()

		return err
	}

	return enc.Close()
}

// Read parses every non-blank line from r.
func Read(r io.Reader) ([]core.Adjacency, error) {
	var out []core.Adjacency

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		adj, err := ParseLine(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, adj)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// ReadFile reads a file written by WriteFile, decompressing it when the name
// ends in CompressedSuffix.
func ReadFile(path string) ([]core.Adjacency, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("serialize: open %s: %w", path, err)
	}
	defer f.Close()

	if !strings.HasSuffix(path, CompressedSuffix) {
		return Read(f)
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("serialize: zstd %s: %w", path, err)
	}
	defer dec.Close()

	return Read(dec)
}

// Edges flattens adjacency lists into canonical undirected edges. Every edge
// appears once from each endpoint; only the entry seen from the smaller
// endpoint is kept.
func Edges(adjs []core.Adjacency) []core.Edge {
	var out []core.Edge
	for _, adj := range adjs {
		for _, nb := range adj.Neighbors {
			if adj.ID < nb.Peer {
				out = append(out, core.NewEdge(adj.ID, nb.Peer, nb.Weight))
			}
		}
	}

	return out
}
