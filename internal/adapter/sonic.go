package adapter

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Sonic wraps bytedance/sonic. Extract uses the ast searcher, which skips
// unrelated values without decoding them.
type Sonic struct {
	base
}

func NewSonic() *Sonic {
	return &Sonic{base{Descriptor{
		Name:   "sonic",
		Module: "github.com/bytedance/sonic",
		Modes:  []Mode{ModeParseAll, ModeNavigate, ModeExtract},
		Setup:  SetupStateless,
	}}}
}

func (a *Sonic) ParseAll(text []byte) (Document, error) {
	var v interface{}
	if err := sonic.Unmarshal(text, &v); err != nil {
		return nil, err
	}
	return tree{root: v}, nil
}

func (a *Sonic) Extract(text []byte, t Target) (Scalar, error) {
	node, err := sonic.Get(text, t.Path.Interfaces()...)
	if err != nil {
		return Scalar{}, fmt.Errorf("%w: %s: %v", ErrNotFound, t.Path, err)
	}
	raw, err := node.Raw()
	if err != nil {
		return Scalar{}, err
	}
	if t.Kind == KindInt {
		if !isIntegerToken(raw) {
			return Scalar{}, kindError(t, "a non-integral number")
		}
		v, err := node.Int64()
		if err != nil {
			return Scalar{}, err
		}
		return Int(v), nil
	}
	v, err := node.Float64()
	if err != nil {
		return Scalar{}, err
	}
	return Float(v), nil
}
