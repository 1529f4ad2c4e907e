// Package jsonpath describes where a value sits inside a JSON document and
// renders that location in the path dialect of each parsing engine.
package jsonpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyPath is returned when a path has no steps.
var ErrEmptyPath = errors.New("empty path")

// Step is a single field access or array index.
type Step struct {
	Field string
	Index int
	// IsIndex selects Index over Field.
	IsIndex bool
}

// Field returns a field access step.
func Field(name string) Step {
	return Step{Field: name}
}

// Index returns an array index step.
func Index(i int) Step {
	return Step{Index: i, IsIndex: true}
}

func (s Step) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Field
}

// Path is an ordered sequence of steps from the document root.
type Path []Step

// New builds a path from steps.
func New(steps ...Step) Path {
	return Path(steps)
}

// Parse reads dotted notation such as "property.subProperty.pi" or
// "items.3.id". Purely numeric segments become index steps. A segment wrapped
// in brackets ("[3]") is always an index; a quoted segment ("'3'") is always a
// field.
func Parse(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyPath
	}

	parts := strings.Split(s, ".")
	p := make(Path, 0, len(parts))
	for i, part := range parts {
		switch {
		case part == "":
			return nil, fmt.Errorf("path %q: empty segment at position %d", s, i)
		case strings.HasPrefix(part, "[") && strings.HasSuffix(part, "]"):
			n, err := strconv.Atoi(part[1 : len(part)-1])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("path %q: invalid index %q", s, part)
			}
			p = append(p, Index(n))
		case len(part) >= 2 && strings.HasPrefix(part, "'") && strings.HasSuffix(part, "'"):
			p = append(p, Field(part[1:len(part)-1]))
		default:
			if n, err := strconv.Atoi(part); err == nil && n >= 0 {
				p = append(p, Index(n))
				continue
			}
			p = append(p, Field(part))
		}
	}
	return p, nil
}

// MustParse is Parse for static paths; it panics on error.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String renders the path in dotted notation.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// Depth is the number of steps.
func (p Path) Depth() int {
	return len(p)
}

// Keys renders the path as string keys, the form used by jsonparser and
// fastjson. Index steps become decimal strings; jsonparser expects "[n]".
func (p Path) Keys() []string {
	keys := make([]string, len(p))
	for i, s := range p {
		keys[i] = s.String()
	}
	return keys
}

// BracketKeys renders the path as jsonparser keys, with index steps written
// as "[n]".
func (p Path) BracketKeys() []string {
	keys := make([]string, len(p))
	for i, s := range p {
		if s.IsIndex {
			keys[i] = "[" + strconv.Itoa(s.Index) + "]"
			continue
		}
		keys[i] = s.Field
	}
	return keys
}

// Interfaces renders the path as string and int elements, the form used by
// json-iterator's Get and sonic's Get.
func (p Path) Interfaces() []interface{} {
	out := make([]interface{}, len(p))
	for i, s := range p {
		if s.IsIndex {
			out[i] = s.Index
			continue
		}
		out[i] = s.Field
	}
	return out
}

var gjsonEscaper = strings.NewReplacer(
	`\`, `\\`, ".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`,
)

// GJSON renders the path in gjson syntax, escaping wildcard and separator
// characters in field names.
func (p Path) GJSON() string {
	parts := make([]string, len(p))
	for i, s := range p {
		if s.IsIndex {
			parts[i] = strconv.Itoa(s.Index)
			continue
		}
		parts[i] = gjsonEscaper.Replace(s.Field)
	}
	return strings.Join(parts, ".")
}

// JQ renders the path as a jq query.
func (p Path) JQ() string {
	if len(p) == 0 {
		return "."
	}
	var b strings.Builder
	for i, s := range p {
		if s.IsIndex {
			if i == 0 {
				b.WriteString(".")
			}
			fmt.Fprintf(&b, "[%d]", s.Index)
			continue
		}
		b.WriteString(".")
		b.WriteString(strconv.Quote(s.Field))
	}
	return b.String()
}
