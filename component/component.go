// Package component implements the matchers a search path is made of: an
// exact field name, a positional index, or a wildcard, each optionally
// requiring the matched value to carry a set of annotations.
package component

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jacoelho/pathextract/cursor"
)

// Constants for the closed set of component kinds.
const (
	KindField Kind = iota + 1
	KindIndex
	KindWildcard
)

// Kind identifies the variant held by a Component.
type Kind uint8

func (k Kind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindIndex:
		return "index"
	case KindWildcard:
		return "wildcard"
	}
	return "invalid"
}

// Component is one matcher within a search path.
// The zero value is invalid; use Field, Index or Wildcard.
type Component struct {
	kind        Kind
	name        string
	index       int
	annotations []string
}

// Field matches a struct field named name.
func Field(name string, annotations ...string) Component {
	return Component{kind: KindField, name: name, annotations: slices.Clone(annotations)}
}

// Index matches the element at the 0-based position of a sequence.
func Index(position int, annotations ...string) (Component, error) {
	if position < 0 {
		return Component{}, fmt.Errorf("%w: %w: %d", ErrInvalidComponent, ErrNegativeIndex, position)
	}
	return Component{kind: KindIndex, index: position, annotations: slices.Clone(annotations)}, nil
}

// MustIndex is like Index but panics on a negative position.
func MustIndex(position int, annotations ...string) Component {
	c, err := Index(position, annotations...)
	if err != nil {
		panic(err)
	}
	return c
}

// Wildcard matches any field or element.
func Wildcard(annotations ...string) Component {
	return Component{kind: KindWildcard, annotations: slices.Clone(annotations)}
}

func (c Component) Kind() Kind { return c.kind }

// Name is the field name of a KindField component.
func (c Component) Name() string { return c.name }

// Position is the index of a KindIndex component.
func (c Component) Position() int { return c.index }

// Annotations returns a copy of the required annotations.
func (c Component) Annotations() []string { return slices.Clone(c.annotations) }

// Matches reports whether a value at pos carrying annotations satisfies c.
func (c Component) Matches(pos cursor.Position, annotations []string, caseInsensitive bool) bool {
	switch c.kind {
	case KindField:
		if pos.Kind != cursor.Field || !equal(pos.Name, c.name, caseInsensitive) {
			return false
		}
	case KindIndex:
		if pos.Kind != cursor.Index || pos.Index != c.index {
			return false
		}
	case KindWildcard:
		if pos.Kind != cursor.Field && pos.Kind != cursor.Index {
			return false
		}
	default:
		return false
	}
	return AnnotationsMatch(c.annotations, annotations, caseInsensitive)
}

// AnnotationsMatch reports whether every required annotation is present in actual.
// Order and duplicates are irrelevant.
func AnnotationsMatch(required, actual []string, caseInsensitive bool) bool {
	for _, want := range required {
		found := false
		for _, got := range actual {
			if equal(got, want, caseInsensitive) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Equal reports whether two components have the same kind, target and
// annotation set.
func (c Component) Equal(other Component) bool {
	if c.kind != other.kind || c.name != other.name || c.index != other.index {
		return false
	}
	return AnnotationsMatch(c.annotations, other.annotations, false) &&
		AnnotationsMatch(other.annotations, c.annotations, false)
}

// String renders the component in search path text syntax, e.g. A::'b c'.
func (c Component) String() string {
	var b strings.Builder
	for _, a := range c.annotations {
		b.WriteString(Symbol(a))
		b.WriteString("::")
	}
	switch c.kind {
	case KindField:
		b.WriteString(Symbol(c.name))
	case KindIndex:
		b.WriteString(strconv.Itoa(c.index))
	case KindWildcard:
		b.WriteByte('*')
	default:
		b.WriteString("<invalid>")
	}
	return b.String()
}

// Symbol renders text as an unquoted symbol when it is one, otherwise as a
// single-quoted symbol.
func Symbol(text string) string {
	if isPlainSymbol(text) {
		return text
	}
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range text {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// IsSymbolStart reports whether r may begin an unquoted symbol.
func IsSymbolStart(r rune) bool {
	return r == '_' || r == '$' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// IsSymbolPart reports whether r may continue an unquoted symbol.
func IsSymbolPart(r rune) bool {
	return IsSymbolStart(r) || (r >= '0' && r <= '9') || r == '.' || r == '-'
}

func isPlainSymbol(text string) bool {
	if text == "" {
		return false
	}
	for i, r := range text {
		if i == 0 && !IsSymbolStart(r) {
			return false
		}
		if !IsSymbolPart(r) {
			return false
		}
	}
	return true
}

func equal(a, b string, caseInsensitive bool) bool {
	if caseInsensitive {
		return strings.EqualFold(a, b)
	}
	return a == b
}
