package adapter

import (
	"bytes"
	"fmt"

	"github.com/bcicen/jstream"
)

// JStream wraps bcicen/jstream. Extract streams the root's direct children
// at emit depth 1: every child is decoded in full, and all but the one on the
// target path are discarded.
type JStream struct {
	base
}

func NewJStream() *JStream {
	reason := "jstream emits values while streaming and never holds the whole document"
	return &JStream{base{Descriptor{
		Name:   "jstream",
		Module: "github.com/bcicen/jstream",
		Modes:  []Mode{ModeExtract},
		Setup:  SetupStateless,
		Unsupported: map[Mode]string{
			ModeParseAll: reason,
			ModeNavigate: reason,
		},
	}}}
}

func (a *JStream) Extract(text []byte, t Target) (Scalar, error) {
	if len(t.Path) == 0 {
		return Scalar{}, fmt.Errorf("%w: empty path", ErrNotFound)
	}
	first := t.Path[0]

	dec := jstream.NewDecoder(bytes.NewReader(text), 1).EmitKV()
	var (
		found bool
		value interface{}
		index int
	)
	// The decoder goroutine only exits once the stream is drained.
	for mv := range dec.Stream() {
		if found {
			continue
		}
		if kv, ok := mv.Value.(jstream.KV); ok {
			if !first.IsIndex && kv.Key == first.Field {
				found, value = true, kv.Value
			}
			continue
		}
		if first.IsIndex && index == first.Index {
			found, value = true, mv.Value
		}
		index++
	}
	if err := dec.Err(); err != nil {
		return Scalar{}, err
	}
	if !found {
		return Scalar{}, fmt.Errorf("%w: %s", ErrNotFound, t.Path[:1])
	}

	v, err := walk(value, t.Path[1:])
	if err != nil {
		return Scalar{}, err
	}
	return toScalar(v, t)
}
