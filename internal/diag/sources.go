// Package diag owns source bytes, line maps, and the causal-chain error
// taxonomy used across the lexer, parser, and checker.
package diag

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// SourceID is a stable index into a Sources registry.
type SourceID int

// Location is a (source, byte-range) span.
type Location struct {
	Source SourceID
	Start  int
	End    int
}

func (l Location) Range() (int, int) { return l.Start, l.End }

type entry struct {
	path  string
	bytes []byte
	lines []int // byte offset of the start of each line
}

// Sources owns source bytes by path and assigns stable ids. Entries are
// added once and never reassigned; there is a single logical writer at
// any time (the active parse), matching the concurrency model of the
// front-end as a whole.
type Sources struct {
	entries []entry
	byPath  map[string]SourceID
}

// NewSources returns an empty registry.
func NewSources() *Sources {
	return &Sources{byPath: make(map[string]SourceID)}
}

// AddBytes registers in-memory bytes under name, without deduplication.
func (s *Sources) AddBytes(name string, b []byte) SourceID {
	id := SourceID(len(s.entries))
	s.entries = append(s.entries, entry{path: name, bytes: b, lines: lineMap(b)})
	return id
}

// AddInline registers an inline script body (e.g. from the `run`
// subcommand) under a synthetic, collision-free path.
func (s *Sources) AddInline(b []byte) SourceID {
	name := "<inline-" + uuid.New().String() + ">"
	return s.AddBytes(name, b)
}

// AddFile loads and registers a file by path, deduplicating on the
// canonicalized path.
func (s *Sources) AddFile(path string) (SourceID, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, err
	}
	if id, ok := s.byPath[abs]; ok {
		return id, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	id := s.AddBytes(path, b)
	s.byPath[abs] = id
	return id, nil
}

func (s *Sources) Path(id SourceID) string  { return s.entries[id].path }
func (s *Sources) Bytes(id SourceID) []byte { return s.entries[id].bytes }

// LineCol converts a byte offset into a 1-based (line, col) pair.
func (s *Sources) LineCol(id SourceID, at int) (line, col int) {
	lines := s.entries[id].lines
	lo, hi := 0, len(lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lines[mid] <= at {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, at - lines[lo] + 1
}

// Line returns the raw bytes of the given 1-based line number, without
// the trailing newline.
func (s *Sources) Line(id SourceID, line int) []byte {
	e := s.entries[id]
	start := e.lines[line-1]
	end := len(e.bytes)
	if line < len(e.lines) {
		end = e.lines[line] - 1
	}
	if end > 0 && end <= len(e.bytes) && e.bytes[end-1] == '\n' {
		// already excluded above when line < len(lines); nothing to do
	}
	if end > len(e.bytes) {
		end = len(e.bytes)
	}
	return trimNewline(e.bytes[start:end])
}

func trimNewline(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
	}
	if n := len(b); n > 0 && b[n-1] == '\r' {
		b = b[:n-1]
	}
	return b
}

func lineMap(b []byte) []int {
	lines := []int{0}
	for i, c := range b {
		if c == '\n' {
			lines = append(lines, i+1)
		}
	}
	return lines
}
