package adapter

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Kind is the numeric kind of a scalar.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
)

func (k Kind) String() string {
	if k == KindFloat {
		return "float"
	}
	return "int"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "int", "integer":
		return KindInt, nil
	case "float", "double", "number":
		return KindFloat, nil
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}

// Scalar is a typed number read from a document.
type Scalar struct {
	Kind  Kind
	Int   int64
	Float float64
}

// Int returns an integer scalar.
func Int(v int64) Scalar {
	return Scalar{Kind: KindInt, Int: v}
}

// Float returns a floating point scalar.
func Float(v float64) Scalar {
	return Scalar{Kind: KindFloat, Float: v}
}

// Equal reports exact equality of kind and value.
func (s Scalar) Equal(o Scalar) bool {
	if s.Kind != o.Kind {
		return false
	}
	if s.Kind == KindInt {
		return s.Int == o.Int
	}
	return s.Float == o.Float
}

func (s Scalar) String() string {
	if s.Kind == KindInt {
		return strconv.FormatInt(s.Int, 10)
	}
	return strconv.FormatFloat(s.Float, 'g', -1, 64)
}

// maxExactInt is the largest integer a float64 holds without rounding.
const maxExactInt = 1 << 53

// isIntegerToken reports whether a raw JSON number has no fraction or exponent.
func isIntegerToken(raw string) bool {
	return raw != "" && !strings.ContainsAny(raw, ".eE")
}

func kindError(t Target, got string) error {
	return fmt.Errorf("%w: %s is %s, want %s", ErrKind, t.Path, got, t.Kind)
}

// fromFloat converts a float64 produced by an engine that decodes every
// number as a double.
func fromFloat(v float64, t Target) (Scalar, error) {
	if t.Kind == KindFloat {
		return Float(v), nil
	}
	if v != math.Trunc(v) || math.Abs(v) > maxExactInt {
		return Scalar{}, kindError(t, "a non-integral number")
	}
	return Int(int64(v)), nil
}

// fromToken converts a raw JSON number token.
func fromToken(raw string, t Target) (Scalar, error) {
	if t.Kind == KindInt {
		if !isIntegerToken(raw) {
			return Scalar{}, kindError(t, "a non-integral number")
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Scalar{}, err
		}
		return Int(v), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Scalar{}, err
	}
	return Float(v), nil
}

// toScalar converts a decoded Go value at the end of a path.
func toScalar(v interface{}, t Target) (Scalar, error) {
	switch n := v.(type) {
	case float64:
		return fromFloat(n, t)
	case float32:
		return fromFloat(float64(n), t)
	case int:
		return intScalar(int64(n), t), nil
	case int64:
		return intScalar(n, t), nil
	case uint64:
		if n > math.MaxInt64 {
			return Scalar{}, kindError(t, "an out of range integer")
		}
		return intScalar(int64(n), t), nil
	case *big.Int:
		if !n.IsInt64() {
			return Scalar{}, kindError(t, "an out of range integer")
		}
		return intScalar(n.Int64(), t), nil
	case json.Number:
		return fromToken(n.String(), t)
	case fmt.Stringer:
		// Number types of other engines.
		return fromToken(n.String(), t)
	case nil:
		return Scalar{}, kindError(t, "null")
	case string:
		return Scalar{}, kindError(t, "a string")
	case bool:
		return Scalar{}, kindError(t, "a boolean")
	case map[string]interface{}:
		return Scalar{}, kindError(t, "an object")
	case []interface{}:
		return Scalar{}, kindError(t, "an array")
	}
	return Scalar{}, kindError(t, fmt.Sprintf("%T", v))
}

func intScalar(v int64, t Target) Scalar {
	if t.Kind == KindFloat {
		return Float(float64(v))
	}
	return Int(v)
}
