package adapter

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"
)

// Gojq evaluates jq queries over documents decoded by encoding/json. The
// stateless path parses and compiles the query on every lookup; instances
// compile each query once.
type Gojq struct {
	base
	compiled map[string]*gojq.Code
}

func NewGojq() *Gojq {
	return &Gojq{base: base{Descriptor{
		Name:   "gojq",
		Module: "github.com/itchyny/gojq",
		Modes:  []Mode{ModeNavigate},
		Setup:  SetupReusable,
		Unsupported: map[Mode]string{
			ModeParseAll: "gojq queries values decoded by encoding/json; parse-all would time encoding/json",
			ModeExtract:  "gojq needs a decoded document to run queries against",
		},
	}}}
}

func (a *Gojq) Instance() Adapter {
	return &Gojq{base: a.base, compiled: make(map[string]*gojq.Code)}
}

// ParseAll decodes the document that navigate cases query.
func (a *Gojq) ParseAll(text []byte) (Document, error) {
	var v interface{}
	if err := json.Unmarshal(text, &v); err != nil {
		return nil, err
	}
	return gojqDoc{root: v, adapter: a}, nil
}

func (a *Gojq) code(query string) (*gojq.Code, error) {
	if code, ok := a.compiled[query]; ok {
		return code, nil
	}
	q, err := gojq.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("parse query %s: %w", query, err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("compile query %s: %w", query, err)
	}
	if a.compiled != nil {
		a.compiled[query] = code
	}
	return code, nil
}

type gojqDoc struct {
	root    interface{}
	adapter *Gojq
}

func (d gojqDoc) Lookup(t Target) (Scalar, error) {
	code, err := d.adapter.code(t.Path.JQ())
	if err != nil {
		return Scalar{}, err
	}
	out, ok := code.Run(d.root).Next()
	if !ok {
		return Scalar{}, fmt.Errorf("%w: %s", ErrNotFound, t.Path)
	}
	if err, isErr := out.(error); isErr {
		return Scalar{}, fmt.Errorf("%w: %s: %v", ErrNotFound, t.Path, err)
	}
	if out == nil {
		// jq yields null for missing keys as well as for null values.
		v, err := walk(d.root, t.Path)
		if err != nil {
			return Scalar{}, err
		}
		return toScalar(v, t)
	}
	return toScalar(out, t)
}
