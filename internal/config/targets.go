package config

import (
	"fmt"
	"strconv"

	"github.com/spf13/viper"

	"jsonbench/internal/adapter"
	"jsonbench/internal/jsonpath"
)

// TargetConfig declares an extra target in the config file:
//
//	targets:
//	  - name: third_item
//	    path: items.3.id
//	    kind: int
//	    expected: 3
//	    skip:
//	      jstream: streams the whole array before reaching the item
//	    drift:
//	      gjson-f32: 3.141590118408203
type TargetConfig struct {
	Name     string `mapstructure:"name"`
	Path     string `mapstructure:"path"`
	Kind     string `mapstructure:"kind"`
	Expected string `mapstructure:"expected"`
	// Drift declares the drifted float literal expected from a lossy adapter.
	Drift map[string]string `mapstructure:"drift"`
	// Skip disables the target for an adapter with a reason.
	Skip map[string]string `mapstructure:"skip"`
}

// Targets decodes the targets list.
func Targets() ([]TargetConfig, error) {
	var targets []TargetConfig
	if err := viper.UnmarshalKey("targets", &targets); err != nil {
		return nil, fmt.Errorf("decode targets: %w", err)
	}
	return targets, nil
}

// Target parses the path and kind.
func (t TargetConfig) Target() (adapter.Target, error) {
	p, err := jsonpath.Parse(t.Path)
	if err != nil {
		return adapter.Target{}, err
	}
	kind, err := adapter.ParseKind(t.Kind)
	if err != nil {
		return adapter.Target{}, err
	}
	return adapter.Target{Path: p, Kind: kind}, nil
}

// Value parses the expected value according to the kind.
func (t TargetConfig) Value() (adapter.Scalar, error) {
	kind, err := adapter.ParseKind(t.Kind)
	if err != nil {
		return adapter.Scalar{}, err
	}
	return parseScalar(t.Expected, kind)
}

// DriftValue parses the drift literal declared for adapterName.
func (t TargetConfig) DriftValue(adapterName string) (float64, error) {
	raw, ok := t.Drift[adapterName]
	if !ok {
		return 0, fmt.Errorf("no drift declared for %s", adapterName)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("drift for %s: %w", adapterName, err)
	}
	return v, nil
}

func parseScalar(raw string, kind adapter.Kind) (adapter.Scalar, error) {
	if kind == adapter.KindInt {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return adapter.Scalar{}, fmt.Errorf("expected int, got %q", raw)
		}
		return adapter.Int(v), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return adapter.Scalar{}, fmt.Errorf("expected float, got %q", raw)
	}
	return adapter.Float(v), nil
}
