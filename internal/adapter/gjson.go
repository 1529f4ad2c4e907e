package adapter

import (
	"fmt"

	"github.com/tidwall/gjson"
)

const gjsonLazyReason = "gjson defers all parsing until a path is queried, so a parse-all timing is not meaningful"

// GJSON wraps tidwall/gjson path queries.
type GJSON struct {
	base
	float32 bool
}

func NewGJSON() *GJSON {
	return &GJSON{base: base{Descriptor{
		Name:   "gjson",
		Module: "github.com/tidwall/gjson",
		Modes:  []Mode{ModeExtract},
		Setup:  SetupStateless,
		Unsupported: map[Mode]string{
			ModeParseAll: gjsonLazyReason,
			ModeNavigate: gjsonLazyReason,
		},
	}}}
}

// NewGJSONFloat32 reads floats through a float32 accessor. Values that are
// not representable in float32 drift, so its float cases declare the drifted
// literal.
func NewGJSONFloat32() *GJSON {
	a := NewGJSON()
	a.desc.Name = "gjson-f32"
	a.desc.Lossy = true
	a.float32 = true
	return a
}

func (a *GJSON) Extract(text []byte, t Target) (Scalar, error) {
	r := gjson.GetBytes(text, t.Path.GJSON())
	if !r.Exists() {
		return Scalar{}, fmt.Errorf("%w: %s", ErrNotFound, t.Path)
	}
	if r.Type != gjson.Number {
		return Scalar{}, kindError(t, r.Type.String())
	}
	if t.Kind == KindInt {
		if !isIntegerToken(r.Raw) {
			return Scalar{}, kindError(t, "a non-integral number")
		}
		return Int(r.Int()), nil
	}
	if a.float32 {
		return Float(float64(float32(r.Float()))), nil
	}
	return Float(r.Float()), nil
}
