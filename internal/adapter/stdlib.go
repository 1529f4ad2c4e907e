package adapter

import "encoding/json"

// Stdlib wraps encoding/json as the baseline every engine is compared to.
type Stdlib struct {
	base
}

func NewStdlib() *Stdlib {
	return &Stdlib{base{Descriptor{
		Name:   "encoding-json",
		Module: "encoding/json",
		Modes:  []Mode{ModeParseAll, ModeNavigate},
		Setup:  SetupStateless,
		Unsupported: map[Mode]string{
			ModeExtract: "encoding/json has no path query API; it always decodes the whole document",
		},
	}}}
}

func (a *Stdlib) ParseAll(text []byte) (Document, error) {
	var v interface{}
	if err := json.Unmarshal(text, &v); err != nil {
		return nil, err
	}
	return tree{root: v}, nil
}
