package adapter

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var jsoniterAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Jsoniter wraps json-iterator. Extract uses the lazy Any API, which skips
// over everything outside the requested path.
type Jsoniter struct {
	base
}

func NewJsoniter() *Jsoniter {
	return &Jsoniter{base{Descriptor{
		Name:   "jsoniter",
		Module: "github.com/json-iterator/go",
		Modes:  []Mode{ModeParseAll, ModeNavigate, ModeExtract},
		Setup:  SetupStateless,
	}}}
}

func (a *Jsoniter) ParseAll(text []byte) (Document, error) {
	var v interface{}
	if err := jsoniterAPI.Unmarshal(text, &v); err != nil {
		return nil, err
	}
	return tree{root: v}, nil
}

func (a *Jsoniter) Extract(text []byte, t Target) (Scalar, error) {
	v := jsoniterAPI.Get(text, t.Path.Interfaces()...)
	if err := v.LastError(); err != nil {
		return Scalar{}, fmt.Errorf("%w: %s: %v", ErrNotFound, t.Path, err)
	}
	if v.ValueType() != jsoniter.NumberValue {
		return Scalar{}, kindError(t, "not a number")
	}
	if t.Kind == KindInt {
		if !isIntegerToken(v.ToString()) {
			return Scalar{}, kindError(t, "a non-integral number")
		}
		return Int(v.ToInt64()), nil
	}
	return Float(v.ToFloat64()), nil
}
