package adapter

import gojson "github.com/goccy/go-json"

// GoJSON wraps goccy/go-json.
type GoJSON struct {
	base
}

func NewGoJSON() *GoJSON {
	return &GoJSON{base{Descriptor{
		Name:   "go-json",
		Module: "github.com/goccy/go-json",
		Modes:  []Mode{ModeParseAll, ModeNavigate},
		Setup:  SetupStateless,
		Unsupported: map[Mode]string{
			ModeExtract: "go-json only decodes whole documents",
		},
	}}}
}

func (a *GoJSON) ParseAll(text []byte) (Document, error) {
	var v interface{}
	if err := gojson.Unmarshal(text, &v); err != nil {
		return nil, err
	}
	return tree{root: v}, nil
}
