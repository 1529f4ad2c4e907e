package adapter

import (
	"fmt"

	simdjson "github.com/minio/simdjson-go"
)

const simdUnsupportedCPU = "simdjson-go requires a CPU with AVX2 and CLMUL"

// SimdJSON wraps minio/simdjson-go. Instances reuse the tape and string
// buffers of the previous parse.
type SimdJSON struct {
	base
	reuse     bool
	pj        *simdjson.ParsedJson
	supported bool
}

func NewSimdJSON() *SimdJSON {
	a := &SimdJSON{
		base: base{Descriptor{
			Name:   "simdjson",
			Module: "github.com/minio/simdjson-go",
			Modes:  []Mode{ModeParseAll, ModeNavigate},
			Setup:  SetupReusable,
			Unsupported: map[Mode]string{
				ModeExtract: "simdjson-go always builds the full tape before lookups",
			},
		}},
		supported: simdjson.SupportedCPU(),
	}
	if !a.supported {
		a.desc.Unsupported = map[Mode]string{
			ModeParseAll: simdUnsupportedCPU,
			ModeNavigate: simdUnsupportedCPU,
			ModeExtract:  simdUnsupportedCPU,
		}
	}
	return a
}

func (a *SimdJSON) Supports(mode Mode) bool {
	return a.supported && a.base.Supports(mode)
}

func (a *SimdJSON) Instance() Adapter {
	return &SimdJSON{base: a.base, reuse: true, supported: a.supported}
}

func (a *SimdJSON) ParseAll(text []byte) (Document, error) {
	if !a.supported {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMode, simdUnsupportedCPU)
	}
	var reuse *simdjson.ParsedJson
	if a.reuse {
		reuse = a.pj
	}
	pj, err := simdjson.Parse(text, reuse)
	if err != nil {
		return nil, err
	}
	if a.reuse {
		a.pj = pj
	}
	return simdDoc{pj: pj}, nil
}

type simdDoc struct {
	pj *simdjson.ParsedJson
}

func (d simdDoc) Lookup(t Target) (Scalar, error) {
	iter := d.pj.Iter()
	if typ := iter.Advance(); typ != simdjson.TypeRoot {
		return Scalar{}, fmt.Errorf("unexpected tape start %v", typ)
	}
	_, cur, err := iter.Root(nil)
	if err != nil {
		return Scalar{}, err
	}

	for i, step := range t.Path {
		if step.IsIndex {
			arr, err := cur.Array(nil)
			if err != nil {
				return Scalar{}, fmt.Errorf("%w: %s is not an array", ErrNotFound, t.Path[:i])
			}
			elems := arr.Iter()
			for n := 0; n <= step.Index; n++ {
				if elems.Advance() == simdjson.TypeNone {
					return Scalar{}, fmt.Errorf("%w: %s", ErrNotFound, t.Path[:i+1])
				}
			}
			cur = &elems
			continue
		}
		obj, err := cur.Object(nil)
		if err != nil {
			return Scalar{}, fmt.Errorf("%w: %s is not an object", ErrNotFound, t.Path[:i])
		}
		elem := obj.FindKey(step.Field, nil)
		if elem == nil {
			return Scalar{}, fmt.Errorf("%w: %s", ErrNotFound, t.Path[:i+1])
		}
		cur = &elem.Iter
	}

	switch typ := cur.Type(); typ {
	case simdjson.TypeInt:
		v, err := cur.Int()
		if err != nil {
			return Scalar{}, err
		}
		return intScalar(v, t), nil
	case simdjson.TypeUint:
		v, err := cur.Uint()
		if err != nil {
			return Scalar{}, err
		}
		return toScalar(v, t)
	case simdjson.TypeFloat:
		if t.Kind == KindInt {
			return Scalar{}, kindError(t, "a non-integral number")
		}
		v, err := cur.Float()
		if err != nil {
			return Scalar{}, err
		}
		return Float(v), nil
	default:
		return Scalar{}, kindError(t, fmt.Sprintf("tape type %v", typ))
	}
}
