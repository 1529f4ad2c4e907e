// Package fixture loads the immutable JSON documents benchmark cases run
// against. Each document is read once per Store and shared read-only.
package fixture

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"jsonbench/fixtures"
)

// Well-known fixture identifiers.
const (
	Small = "small"
	Large = "large"
)

// ErrFixtureUnavailable is returned when a fixture cannot be read. It is fatal
// to a benchmark run.
var ErrFixtureUnavailable = errors.New("fixture unavailable")

// SizeClass buckets fixtures by byte size.
type SizeClass string

const (
	SizeSmall SizeClass = "small"
	SizeLarge SizeClass = "large"
)

// largeThreshold is the size at which a document counts as large.
const largeThreshold = 64 << 10

// ClassOf returns the size class for n bytes.
func ClassOf(n int) SizeClass {
	if n >= largeThreshold {
		return SizeLarge
	}
	return SizeSmall
}

// Fixture is a loaded document. Data must not be modified.
type Fixture struct {
	ID   string
	Data []byte
	Size SizeClass
}

// Len returns the document size in bytes.
func (f *Fixture) Len() int {
	return len(f.Data)
}

// Source reads the raw bytes behind a fixture identifier.
type Source interface {
	Read(id string) ([]byte, error)
}

// FSSource reads "<id>.json" from a file system.
type FSSource struct {
	FS fs.FS
}

func (s FSSource) Read(id string) ([]byte, error) {
	return fs.ReadFile(s.FS, id+".json")
}

// Embedded returns a source backed by the fixtures compiled into the binary.
func Embedded() Source {
	return FSSource{FS: fixtures.FS}
}

// DirSource reads "<dir>/<id>.json" from disk.
type DirSource struct {
	Dir string
}

func (s DirSource) Read(id string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.Dir, id+".json"))
}

// Store caches fixtures by identifier. The first Load of an id reads the
// source; later loads return the cached fixture.
type Store struct {
	src Source

	mu    sync.Mutex
	cache map[string]*Fixture
}

// NewStore creates a store over src.
func NewStore(src Source) *Store {
	return &Store{
		src:   src,
		cache: make(map[string]*Fixture),
	}
}

// Load returns the fixture for id, reading it on first use.
func (s *Store) Load(id string) (*Fixture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.cache[id]; ok {
		return f, nil
	}

	data, err := s.src.Read(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFixtureUnavailable, id, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s: empty document", ErrFixtureUnavailable, id)
	}

	f := &Fixture{ID: id, Data: data, Size: ClassOf(len(data))}
	s.cache[id] = f
	return f, nil
}

// Preload loads every id, stopping at the first failure.
func (s *Store) Preload(ids ...string) error {
	for _, id := range ids {
		if _, err := s.Load(id); err != nil {
			return err
		}
	}
	return nil
}

// Loaded reports the ids currently cached.
func (s *Store) Loaded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.cache))
	for id := range s.cache {
		ids = append(ids, id)
	}
	return ids
}
