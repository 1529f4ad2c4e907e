// Package adapter defines the capability contract every JSON parsing engine
// implements to be benchmarked, and ships one adapter per supported engine.
package adapter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"jsonbench/internal/jsonpath"
)

var (
	// ErrUnsupportedMode is returned by operations an adapter does not implement.
	ErrUnsupportedMode = errors.New("unsupported mode")
	// ErrNotFound is returned when a target path does not exist in a document.
	ErrNotFound = errors.New("path not found")
	// ErrKind is returned when the value at a path cannot be read as the
	// requested kind.
	ErrKind = errors.New("value has wrong kind")
)

// Mode is a way of exercising an engine.
type Mode int

const (
	// ModeParseAll builds a full in-memory representation of the document.
	ModeParseAll Mode = iota
	// ModeNavigate parses the document and then walks to the target path.
	ModeNavigate
	// ModeExtract reads only the value at the target path.
	ModeExtract
)

var modeNames = map[Mode]string{
	ModeParseAll: "parse-all",
	ModeNavigate: "navigate",
	ModeExtract:  "extract",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Modes lists every mode in scheduling order.
func Modes() []Mode {
	return []Mode{ModeParseAll, ModeNavigate, ModeExtract}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Setup describes whether an engine's parser state can be amortized.
type Setup int

const (
	// SetupStateless engines pay all setup on every call.
	SetupStateless Setup = iota
	// SetupReusable engines keep parser state that later calls reuse.
	SetupReusable
)

func (s Setup) String() string {
	if s == SetupReusable {
		return "stateful"
	}
	return "stateless"
}

// Target is a path together with the numeric kind read at its end.
type Target struct {
	Path jsonpath.Path
	Kind Kind
}

func (t Target) String() string {
	return fmt.Sprintf("%s (%s)", t.Path, t.Kind)
}

// Descriptor is the static description of an adapter.
type Descriptor struct {
	// Name identifies the adapter in cases and reports.
	Name string
	// Module is the Go module path of the wrapped engine.
	Module string
	Modes  []Mode
	Setup  Setup
	// Lossy engines are documented to drift when converting floating point
	// values; their cases declare the drifted literal explicitly.
	Lossy bool
	// Unsupported explains why a mode is missing.
	Unsupported map[Mode]string
}

// Document is a parsed, in-memory representation of a JSON text.
type Document interface {
	Lookup(t Target) (Scalar, error)
}

// Adapter wraps one parsing engine.
type Adapter interface {
	Descriptor() Descriptor
	// Supports reports whether mode can be scheduled. The runner checks this
	// before every case.
	Supports(mode Mode) bool
	// ParseAll builds a full document. Navigate cases time ParseAll followed
	// by Document.Lookup.
	ParseAll(text []byte) (Document, error)
	// Extract returns only the value at t.
	Extract(text []byte, t Target) (Scalar, error)
}

// Reusable adapters can hand out instances that own parser state which is
// reused across calls. An instance must not be shared between goroutines.
type Reusable interface {
	Adapter
	Instance() Adapter
}

// Reason returns why a does not support mode.
func Reason(a Adapter, mode Mode) string {
	d := a.Descriptor()
	if r, ok := d.Unsupported[mode]; ok && r != "" {
		return r
	}
	return fmt.Sprintf("%s does not implement %s", d.Name, mode)
}

// base provides the descriptor plumbing and unsupported defaults.
type base struct {
	desc Descriptor
}

func (b *base) Descriptor() Descriptor {
	return b.desc
}

func (b *base) Supports(mode Mode) bool {
	for _, m := range b.desc.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

func (b *base) ParseAll([]byte) (Document, error) {
	return nil, b.unsupported(ModeParseAll)
}

func (b *base) Extract([]byte, Target) (Scalar, error) {
	return Scalar{}, b.unsupported(ModeExtract)
}

func (b *base) unsupported(mode Mode) error {
	return fmt.Errorf("%w: %s: %s", ErrUnsupportedMode, b.desc.Name, mode)
}

// Registry holds adapters by name.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates a registry holding adapters. Later duplicates replace
// earlier ones.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds a.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Descriptor().Name] = a
}

// Get returns the adapter called name.
func (r *Registry) Get(name string) (Adapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}

// All returns adapters sorted by name.
func (r *Registry) All() []Adapter {
	out := make([]Adapter, 0, len(r.adapters))
	for _, a := range r.adapters {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Descriptor().Name < out[j].Descriptor().Name
	})
	return out
}

// Default returns a registry with every built-in engine.
func Default() *Registry {
	return NewRegistry(
		NewStdlib(),
		NewJsoniter(),
		NewGoJSON(),
		NewSonic(),
		NewGJSON(),
		NewGJSONFloat32(),
		NewJSONParser(),
		NewFastJSON(),
		NewSimdJSON(),
		NewGojq(),
		NewJStream(),
	)
}
