package hazardlog

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
)

// Source hands out the current hazard log snapshot and swaps in a new one
// on reload. Readers never see a partially loaded log.
type Source struct {
	path    string
	current atomic.Pointer[Store]
}

// NewSource loads path once. Load failures are returned but the source is
// still usable and serves an empty snapshot.
func NewSource(path string) (*Source, error) {
	src := &Source{path: path}
	s, err := Load(path)
	src.current.Store(s)
	return src, err
}

// StaticSource wraps a fixed snapshot. Reload is a no-op.
func StaticSource(s *Store) *Source {
	src := &Source{}
	if s == nil {
		s = Empty()
	}
	src.current.Store(s)
	return src
}

func (src *Source) Path() string {
	return src.path
}

// Snapshot returns the snapshot a request should use for all of its reads.
func (src *Source) Snapshot() *Store {
	return src.current.Load()
}

// Changed reports whether the file on disk differs from the loaded snapshot.
func (src *Source) Changed() (bool, error) {
	if src.path == "" {
		return false, nil
	}
	info, err := os.Stat(src.path)
	if errors.Is(err, os.ErrNotExist) {
		return src.Snapshot().Len() > 0, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking hazard log: %w", err)
	}
	return !info.ModTime().Equal(src.Snapshot().ModTime()), nil
}

// Reload re-reads the file wholesale and returns the previous and new
// snapshots. On failure the previous snapshot stays in place.
func (src *Source) Reload() (prev, next *Store, err error) {
	prev = src.Snapshot()
	if src.path == "" {
		return prev, prev, nil
	}

	next, err = Load(src.path)
	if err != nil {
		return prev, prev, err
	}
	src.current.Store(next)
	return prev, next, nil
}
