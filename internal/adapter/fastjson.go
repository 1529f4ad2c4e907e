package adapter

import (
	"fmt"

	"github.com/valyala/fastjson"
)

// FastJSON wraps valyala/fastjson. The stateless path uses the package level
// parser functions; instances own a fastjson.Parser whose buffers are reused
// between calls.
type FastJSON struct {
	base
	parser *fastjson.Parser
}

func NewFastJSON() *FastJSON {
	return &FastJSON{base: base{Descriptor{
		Name:   "fastjson",
		Module: "github.com/valyala/fastjson",
		Modes:  []Mode{ModeParseAll, ModeNavigate},
		Setup:  SetupReusable,
		Unsupported: map[Mode]string{
			ModeExtract: "fastjson always builds the full value tree before lookups",
		},
	}}}
}

// Instance returns an adapter owning one fastjson.Parser. Documents it returns
// are invalidated by its next ParseAll.
func (a *FastJSON) Instance() Adapter {
	return &FastJSON{base: a.base, parser: new(fastjson.Parser)}
}

func (a *FastJSON) ParseAll(text []byte) (Document, error) {
	var (
		v   *fastjson.Value
		err error
	)
	if a.parser != nil {
		v, err = a.parser.ParseBytes(text)
	} else {
		v, err = fastjson.ParseBytes(text)
	}
	if err != nil {
		return nil, err
	}
	return fastjsonDoc{v: v}, nil
}

type fastjsonDoc struct {
	v *fastjson.Value
}

func (d fastjsonDoc) Lookup(t Target) (Scalar, error) {
	v := d.v.Get(t.Path.Keys()...)
	if v == nil {
		return Scalar{}, fmt.Errorf("%w: %s", ErrNotFound, t.Path)
	}
	if v.Type() != fastjson.TypeNumber {
		return Scalar{}, kindError(t, v.Type().String())
	}
	if t.Kind == KindInt {
		n, err := v.Int64()
		if err != nil {
			return Scalar{}, kindError(t, "a non-integral number")
		}
		return Int(n), nil
	}
	f, err := v.Float64()
	if err != nil {
		return Scalar{}, err
	}
	return Float(f), nil
}
