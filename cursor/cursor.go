package cursor

import (
	"strconv"
	"strings"
)

// Constants for the kind of slot a value occupies in its enclosing container.
const (
	Root PositionKind = iota
	Field
	Index
)

// PositionKind tells how a value is addressed by its parent.
type PositionKind uint8

func (k PositionKind) String() string {
	switch k {
	case Root:
		return "root"
	case Field:
		return "field"
	case Index:
		return "index"
	}
	return "unknown"
}

// Position is the field name or ordinal of the current value.
// Values with no enclosing container have the Root position.
//
// Ordinal counts the values before this one at the same level, so two
// positions are equal only for the same sibling, even when struct fields
// repeat a name or top-level values follow each other.
type Position struct {
	Kind    PositionKind
	Name    string // field name, when Kind is Field
	Index   int    // 0-based ordinal, when Kind is Index
	Ordinal int
}

// FieldPosition returns the position of the first struct field named name.
// Use At to place it after other fields.
func FieldPosition(name string) Position {
	return Position{Kind: Field, Name: name}
}

// IndexPosition returns the position of a sequence element.
func IndexPosition(index int) Position {
	return Position{Kind: Index, Index: index, Ordinal: index}
}

// At returns p as the sibling with the given ordinal.
func (p Position) At(ordinal int) Position {
	p.Ordinal = ordinal
	return p
}

func (p Position) String() string {
	switch p.Kind {
	case Field:
		return p.Name
	case Index:
		return strconv.Itoa(p.Index)
	}
	return "$"
}

// Cursor is a forward-only handle over a streaming document.
type Cursor interface {
	// Next advances to the next value at the current depth.
	// It returns false when the level is exhausted or an error occurred;
	// Err distinguishes the two.
	Next() bool
	Err() error

	// Depth is the number of containers the cursor has stepped into.
	Depth() int

	Position() Position
	Annotations() []string
	IsContainer() bool

	StepIn() error
	StepOut() error
}

// Locator is implemented by cursors that can describe where they are.
type Locator interface {
	// Location returns the canonical JSONPath-style location of the
	// current value, e.g. $.store.book[0].
	Location() string
}

// ValueReader is implemented by cursors that can materialize the current value.
type ValueReader interface {
	// Value returns scalars as Go values, structs as map[string]any and
	// sequences as []any.
	Value() (any, error)
}

// FormatLocation renders a slice of positions the way Locator does.
func FormatLocation(positions []Position) string {
	var b strings.Builder
	b.WriteByte('$')
	for _, p := range positions {
		switch p.Kind {
		case Field:
			if isIdentifier(p.Name) {
				b.WriteByte('.')
				b.WriteString(p.Name)
				continue
			}
			b.WriteString("['")
			b.WriteString(strings.ReplaceAll(p.Name, "'", `\'`))
			b.WriteString("']")
		case Index:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(p.Index))
			b.WriteByte(']')
		}
	}
	return b.String()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}
