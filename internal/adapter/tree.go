package adapter

import (
	"fmt"

	"jsonbench/internal/jsonpath"
)

// tree is a document decoded into map[string]interface{} and []interface{},
// the shape produced by encoding/json compatible decoders.
type tree struct {
	root interface{}
}

func (d tree) Lookup(t Target) (Scalar, error) {
	v, err := walk(d.root, t.Path)
	if err != nil {
		return Scalar{}, err
	}
	return toScalar(v, t)
}

func walk(v interface{}, p jsonpath.Path) (interface{}, error) {
	for i, step := range p {
		if step.IsIndex {
			arr, ok := v.([]interface{})
			if !ok {
				return nil, fmt.Errorf("%w: %s is not an array", ErrNotFound, p[:i])
			}
			if step.Index >= len(arr) {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, p[:i+1])
			}
			v = arr[step.Index]
			continue
		}
		obj, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: %s is not an object", ErrNotFound, p[:i])
		}
		next, ok := obj[step.Field]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p[:i+1])
		}
		v = next
	}
	return v, nil
}
