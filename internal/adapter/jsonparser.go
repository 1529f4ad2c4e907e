package adapter

import (
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

// JSONParser wraps buger/jsonparser, which scans for keys without building
// any document.
type JSONParser struct {
	base
}

func NewJSONParser() *JSONParser {
	reason := "jsonparser has no document representation; it only scans for requested keys"
	return &JSONParser{base{Descriptor{
		Name:   "jsonparser",
		Module: "github.com/buger/jsonparser",
		Modes:  []Mode{ModeExtract},
		Setup:  SetupStateless,
		Unsupported: map[Mode]string{
			ModeParseAll: reason,
			ModeNavigate: reason,
		},
	}}}
}

func (a *JSONParser) Extract(text []byte, t Target) (Scalar, error) {
	raw, typ, _, err := jsonparser.Get(text, t.Path.BracketKeys()...)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return Scalar{}, fmt.Errorf("%w: %s", ErrNotFound, t.Path)
	}
	if err != nil {
		return Scalar{}, err
	}
	if typ != jsonparser.Number {
		return Scalar{}, kindError(t, typ.String())
	}
	if t.Kind == KindInt {
		if !isIntegerToken(string(raw)) {
			return Scalar{}, kindError(t, "a non-integral number")
		}
		v, err := jsonparser.ParseInt(raw)
		if err != nil {
			return Scalar{}, err
		}
		return Int(v), nil
	}
	v, err := jsonparser.ParseFloat(raw)
	if err != nil {
		return Scalar{}, err
	}
	return Float(v), nil
}
